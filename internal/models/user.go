package models

import (
	"golang.org/x/crypto/bcrypt"
	"strings"
)

// User holds the credentials of a login request.
type User struct {
	Username string `json:"username" mapstructure:"username" validate:"required"`
	Password string `json:"password" mapstructure:"password" validate:"required"`
}

func (u *User) Prepare() {
	u.Username = strings.TrimSpace(u.Username)
}

func (u *User) Validate() error {
	return validate.Struct(u)
}

// Hash returns the bcrypt hash of password as stored in the configuration.
func Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
