package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "82.4", FormatWeight(f64(82.4)))
	assert.Equal(t, "82.0", FormatWeight(f64(82)))
	assert.Equal(t, "-", FormatWeight(nil))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "21.3%", FormatPercent(f64(21.3)))
	assert.Equal(t, "-", FormatPercent(nil))
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "+0.4", FormatDelta(0.4))
	assert.Equal(t, "-1.2", FormatDelta(-1.2))
	assert.Equal(t, "+0.0", FormatDelta(0))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "-", FormatCount(0))
	assert.Equal(t, "3", FormatCount(3))
}

func TestPadHelpers(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "   ab", PadLeft("ab", 5))
	assert.Equal(t, "abcdef", PadRight("abcdef", 3))
}
