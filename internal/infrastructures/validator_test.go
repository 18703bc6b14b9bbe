package infrastructures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recibolab/recibo-core/internal/app/errors"
)

func TestValidator_ReportsAllViolations(t *testing.T) {
	v := NewValidator()

	type request struct {
		Name  string `validate:"required,max=10"`
		Email string `validate:"required,email"`
		Count int    `validate:"min=1"`
	}

	err := v.Validate(&request{})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.CodeValidation, appErr.Code)
	require.Len(t, appErr.Fields, 3)

	messages := map[string]string{}
	for _, fe := range appErr.Fields {
		messages[fe.Field] = fe.Message
	}
	assert.Equal(t, "is required", messages["name"])
	assert.Equal(t, "is required", messages["email"])
	assert.Equal(t, "must be at least 1", messages["count"])
}

func TestValidator_PassesValidStruct(t *testing.T) {
	v := NewValidator()

	type request struct {
		Name string `validate:"required"`
	}
	assert.NoError(t, v.Validate(&request{Name: "ok"}))
}

func TestValidator_NilInput(t *testing.T) {
	v := NewValidator()

	err := v.Validate(nil)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.CodeValidation, appErr.Code)
}

func TestValidator_TagMessages(t *testing.T) {
	v := NewValidator()

	type request struct {
		ID     string `validate:"required,uuid"`
		Status string `validate:"omitempty,oneof=OPEN CLOSED"`
	}

	err := v.Validate(&request{ID: "not-a-uuid", Status: "HALF"})
	require.Error(t, err)
	appErr := err.(*errors.AppError)

	messages := map[string]string{}
	for _, fe := range appErr.Fields {
		messages[fe.Field] = fe.Message
	}
	assert.Equal(t, "must be a valid UUID", messages["id"])
	assert.Equal(t, "must be one of: OPEN CLOSED", messages["status"])
}
