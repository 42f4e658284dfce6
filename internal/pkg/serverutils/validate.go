package serverutils

import (
	"fmt"
	"strings"

	"github.com/Tusharjain-19/split-payment/internal/pkg/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and folds failures into a single
// ValidationError.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return apperrors.NewValidation("invalid request body")
		}

		var fields []string
		for _, fe := range validationErrors {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return apperrors.NewValidation("validation failed: %s", strings.Join(fields, ", "))
	}
	return nil
}
