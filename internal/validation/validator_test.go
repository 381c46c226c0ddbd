package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phoneForm struct {
	Phone string `binding:"required,phone"`
}

type nospacesForm struct {
	Name string `binding:"required,nospaces"`
}

func TestPhoneValidator(t *testing.T) {
	Initialize()

	require.NoError(t, binding.Validator.ValidateStruct(&phoneForm{Phone: "+15551234567"}))
	require.NoError(t, binding.Validator.ValidateStruct(&phoneForm{Phone: "(555) 123-4567"}))
	assert.Error(t, binding.Validator.ValidateStruct(&phoneForm{Phone: "hello"}))
	assert.Error(t, binding.Validator.ValidateStruct(&phoneForm{Phone: "123"}))
}

func TestNoSpacesValidator(t *testing.T) {
	Initialize()

	require.NoError(t, binding.Validator.ValidateStruct(&nospacesForm{Name: "Summer Giveaway"}))
	assert.Error(t, binding.Validator.ValidateStruct(&nospacesForm{Name: "   "}))
}
