package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/puneetkushwaha/Mom-sKitchen-Backend/services"
)

// RegisterValidators adds the custom binding tags used by request models.
// "clock" accepts the kitchen hours formats, e.g. "10:00 AM" or "21:30".
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return services.ValidClock(fl.Field().String())
	})
}
