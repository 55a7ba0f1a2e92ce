package dto

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/StudyBuddy/internal/model"
)

// RegisterValidators installs the custom tags on gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("taskstatus", validTaskStatus)
}

func validTaskStatus(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	for _, s := range model.TaskStatuses {
		if status == s {
			return true
		}
	}
	return false
}
