package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Percent int    `validate:"gte=1,lte=100"`
}

func TestStructValid(t *testing.T) {
	err := Struct(samplePayload{Name: "Maria", Email: "maria@example.com", Percent: 10})
	assert.NoError(t, err)
}

func TestStructCollectsFieldErrors(t *testing.T) {
	err := Struct(samplePayload{Email: "not-an-email", Percent: 250})
	require.Error(t, err)

	var vErr *Error
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "request validation failed", vErr.Message)
	assert.Equal(t, "is required", vErr.Fields["name"])
	assert.Equal(t, "must be a valid email address", vErr.Fields["email"])
	assert.Equal(t, "must be 100 or less", vErr.Fields["percent"])
}

func TestStructNonStructInput(t *testing.T) {
	err := Struct(42)
	require.Error(t, err)

	var vErr *Error
	assert.False(t, errorAs(err, &vErr), "invalid input is not a field-level *Error")
}

func errorAs(err error, target **Error) bool {
	e, ok := err.(*Error)
	if ok {
		*target = e
	}
	return ok
}
