package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"contact_email" validate:"omitempty,email"`
	Age   int    `json:"age_months" validate:"gte=0,lte=11"`
}

func TestDescribe_UsesJSONNames(t *testing.T) {
	v := New()

	err := v.Struct(sample{Email: "not-an-email", Age: 12})
	require.Error(t, err)

	assert.Equal(t, "age_months: lte; contact_email: email; name: required", Describe(err))
}

func TestDescribe_PassesThroughOtherErrors(t *testing.T) {
	assert.Equal(t, "boom", Describe(errors.New("boom")))
}

func TestNew_AcceptsValidStruct(t *testing.T) {
	assert.NoError(t, New().Struct(sample{Name: "Luna", Email: "a@b.cr", Age: 3}))
}
