package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is matched by every comment form validation failure.
var ErrValidation = errors.New("validation failed")

// NewComment is the comment form as submitted by a reader.
type NewComment struct {
	Name  string `json:"name" schema:"name" validate:"required"`
	Email string `json:"email" schema:"email" validate:"required"`
	Body  string `json:"body" schema:"body" validate:"required"`
}

// ValidationError lists the form fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("please fill in all fields: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Normalize trims surrounding whitespace from every field.
func (c *NewComment) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Body = strings.TrimSpace(c.Body)
}

// Validate checks the (normalized) form. Whitespace-only fields count as empty.
func (c *NewComment) Validate() error {
	c.Normalize()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, strings.ToLower(fe.Field()))
	}
	return ve
}

// ToComment builds the stored comment for postID with the given local id.
func (c NewComment) ToComment(id int64, postID int) *Comment {
	return &Comment{
		ID:     id,
		PostID: postID,
		Name:   c.Name,
		Email:  c.Email,
		Body:   c.Body,
	}
}
