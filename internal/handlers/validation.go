package handlers

import (
	"errors"
	"fmt"
	"sync"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerValidatorsOnce sync.Once
	registerValidatorsErr  error
)

// labelValidators backs the custom binding tags used by the request dtos.
var labelValidators = map[string]validator.Func{
	"rolename": func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRoleName(fl.Field().String())
		return err == nil
	},
	"stagename": func(fl validator.FieldLevel) bool {
		_, err := domain.ParseStage(fl.Field().String())
		return err == nil
	},
	"isodate": func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	},
}

// registerValidators adds the label validators to gin's engine once per process.
func registerValidators() error {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerValidatorsErr = errors.New("gin binding engine is not a go-playground validator")
			return
		}
		registerValidatorsErr = registerLabelValidators(v)
	})
	return registerValidatorsErr
}

func registerLabelValidators(v *validator.Validate) error {
	for tag, fn := range labelValidators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("registering %s validator: %w", tag, err)
		}
	}
	return nil
}
