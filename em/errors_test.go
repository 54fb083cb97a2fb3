package em

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCategories_AreDistinguishable(t *testing.T) {
	assert.ErrorIs(t, configErrorf("x"), ErrConfiguration)
	assert.ErrorIs(t, NewConfigError("x"), ErrConfiguration)
	assert.ErrorIs(t, missingFieldErrorf("x"), ErrMissingField)
	assert.ErrorIs(t, modelErrorf("x"), ErrModelEvaluation)
	assert.ErrorIs(t, cacheIOError("x", assert.AnError), ErrCacheIO)

	assert.NotErrorIs(t, configErrorf("x"), ErrMissingField)
}

func TestErrorCategories_CarryContext(t *testing.T) {
	err := NewConfigError("unknown model %q", "X18")
	assert.Contains(t, err.Error(), "X18")
}
