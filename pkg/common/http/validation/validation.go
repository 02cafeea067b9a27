package validation

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// IsRequestValid checks the validate tags of req.
func IsRequestValid(req any) (bool, error) {
	if err := validate.Struct(req); err != nil {
		return false, err
	}
	return true, nil
}
