package server

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom binding rules request payloads rely
// on: hhmm for wall-clock times and dateonly for calendar dates. Both formats
// are stored as plain strings, so binding is the only place they get checked
// before the service layer re-validates.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("hhmm", validHHMM)
	_ = v.RegisterValidation("dateonly", validDateOnly)
}

func validHHMM(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

func validDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}
