package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var v = validator.New()

// validateBaseConfig runs the struct validations and rewrites the file
// and dir failures into messages that name the offending value.
func validateBaseConfig(config baseConfig) error {
	err := v.Struct(config)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "file":
				return fmt.Errorf("%v is not a readable file", fieldError.Value())
			case "dir":
				return fmt.Errorf("%v is not an existing directory", fieldError.Value())
			case "required":
				return fmt.Errorf("%s must not be empty", fieldError.Namespace())
			}
		}
	}

	return err
}
