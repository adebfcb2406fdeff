package book

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	msgMissingName     = "missing name"
	msgReadPageExceeds = "readPage exceeds pageCount"
)

var validate = validator.New()

// validate checks in the order clients rely on: name, then readPage against
// pageCount, then the remaining field constraints.
func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: msgMissingName}
	}
	if in.ReadPage > in.PageCount {
		return &ValidationError{Field: "readPage", Message: msgReadPageExceeds}
	}
	return structError(validate.Struct(in))
}

func structError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	var message string
	switch fe.Tag() {
	case "gte":
		message = fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "required":
		message = fmt.Sprintf("%s is required", field)
	default:
		message = fmt.Sprintf("%s is invalid", field)
	}
	return &ValidationError{Field: field, Message: message}
}
