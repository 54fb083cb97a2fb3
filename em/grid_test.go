package em

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleTimes_DefaultWindow_141Points(t *testing.T) {
	times := SampleTimes(0.0, 14.0, 0.1)

	assert.Len(t, times, 141)
	assert.Equal(t, 0.0, times[0])
	assert.InDelta(t, 14.0, times[140], 1e-9)
}

func TestSampleTimes_ExactDivision_IncludesEndpoint(t *testing.T) {
	times := SampleTimes(0.0, 1.0, 0.5)

	assert.Equal(t, []float64{0.0, 0.5, 1.0}, times)
}

func TestSampleTimes_Monotonic(t *testing.T) {
	times := SampleTimes(0.5, 20.0, 0.25)

	for i := 1; i < len(times); i++ {
		assert.Greater(t, times[i], times[i-1])
	}
}

func TestSampleTimes_EmptyWindow(t *testing.T) {
	assert.Nil(t, SampleTimes(5.0, 1.0, 0.5))
}
