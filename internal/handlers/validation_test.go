package handlers

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLabelValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, registerLabelValidators(v))

	assert.NoError(t, v.Var("Journal Manager", "rolename"))
	assert.Error(t, v.Var("wizard", "rolename"))
	assert.NoError(t, v.Var("External Review", "stagename"))
	assert.Error(t, v.Var("printing", "stagename"))
	assert.NoError(t, v.Var("2025-01-10", "isodate"))
	assert.Error(t, v.Var("2025-13-01", "isodate"))
}

func TestRegisterValidators_GinEngine(t *testing.T) {
	require.NoError(t, registerValidators())
	require.NoError(t, registerValidators(), "a second call reports the first result")
}
