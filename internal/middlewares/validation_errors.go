package middlewares

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// validationMessage turns the first field error into a sentence the admin UI can show as is.
func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return "Invalid request."
	}

	fe := fieldErrors[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", fe.Field())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("The %s field must be at most %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}

func zapValidationErrors(err error) []zap.Field {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []zap.Field{zap.Error(err)}
	}

	fields := make([]zap.Field, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		fields = append(fields, zap.String(fe.Field(), fe.Tag()))
	}
	return fields
}
