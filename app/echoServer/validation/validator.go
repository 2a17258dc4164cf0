package validation

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to echo's Validator interface
// while sharing one Validate instance with the controllers.
type Validator struct {
	core *validator.Validate
}

func New() *Validator {
	return &Validator{core: validator.New()}
}

// Core exposes the shared instance for direct struct validation.
func (v *Validator) Core() *validator.Validate { return v.core }

func (v *Validator) Validate(i interface{}) error {
	return v.core.Struct(i)
}
