package response

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `validate:"required"`
	Start string `validate:"omitempty,datetime=2006-01-02"`
	State string `validate:"omitempty,oneof=draft published"`
}

func TestBindingErrors(t *testing.T) {
	err := validator.New().Struct(sample{Start: "10-01-2025", State: "archived"})
	require.Error(t, err)

	got, ok := BindingErrors(err).([]FieldError)
	require.True(t, ok)
	require.Len(t, got, 3)

	assert.Equal(t, FieldError{Field: "Name", Rule: "required", Message: "Name is required"}, got[0])
	assert.Equal(t, "Start must match the format 2006-01-02", got[1].Message)
	assert.Equal(t, "State must be one of: draft published", got[2].Message)
}

func TestBindingErrors_PlainError(t *testing.T) {
	assert.Equal(t, "unexpected EOF", BindingErrors(errors.New("unexpected EOF")))
}
