package models

import (
	"github.com/go-playground/validator/v10"
	"reflect"
	"strings"
)

var validate = newValidator()

// newValidator reports fields by their json names, so errors read like the request payload.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("article_state", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(ArticleState)
		return ok && s.Valid()
	})
	return v
}
