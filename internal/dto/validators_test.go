package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatusValidation(t *testing.T) {
	require.NoError(t, RegisterValidators())

	for _, status := range []string{"Backlog", "ToDo", "In Progress", "Completed"} {
		assert.NoError(t, binding.Validator.ValidateStruct(TaskCreateDTO{Title: "t", Status: status}), status)
	}
	for _, status := range []string{"", "done", "completed", "In progress"} {
		assert.Error(t, binding.Validator.ValidateStruct(TaskCreateDTO{Title: "t", Status: status}), status)
	}

	bad := "Later"
	assert.Error(t, binding.Validator.ValidateStruct(TaskUpdateDTO{Status: &bad}))
	assert.NoError(t, binding.Validator.ValidateStruct(TaskUpdateDTO{}))
}
