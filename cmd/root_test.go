package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"g", "r", "i"}, splitList("g, r,i"))
}

func TestParseFloatList(t *testing.T) {
	assert.Nil(t, parseFloatList(""))
	assert.Equal(t, []float64{22, 21.5}, parseFloatList("22, 21.5"))
}

func TestCreateCommandRegistered(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "create")
	assert.Contains(t, names, "aggregate")
}

func TestCreateCommandDefaults(t *testing.T) {
	flags := createCmd.Flags()

	tmax, err := flags.GetFloat64("tmax")
	assert.NoError(t, err)
	assert.Equal(t, 14.0, tmax)

	seed, err := flags.GetInt64("generation-seed")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), seed)

	filters, err := flags.GetString("filters")
	assert.NoError(t, err)
	assert.Equal(t, "u,g,r,i,z,y,J,H,K", filters)
}
