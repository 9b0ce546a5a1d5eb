package models

import (
	"fmt"
	"strings"
)

type Category struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name" validate:"required"`
}

type Tag struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name" validate:"required"`
}

func (c *Category) Prepare() {
	c.Name = strings.TrimSpace(c.Name)
}

func (c *Category) Validate() error {
	return validate.Struct(c)
}

func (c *Category) ValidateForUpdate() error {
	return validateNamedUpdate(c.ID, c.Name)
}

func (t *Tag) Prepare() {
	t.Name = strings.TrimSpace(t.Name)
}

func (t *Tag) Validate() error {
	return validate.Struct(t)
}

func (t *Tag) ValidateForUpdate() error {
	return validateNamedUpdate(t.ID, t.Name)
}

func validateNamedUpdate(id int64, name string) error {
	if err := validate.Var(id, "gt=0"); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if err := validate.Var(name, "required"); err != nil {
		return fmt.Errorf("name: %w", err)
	}
	return nil
}
