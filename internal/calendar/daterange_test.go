package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateRange_RejectsInverted(t *testing.T) {
	_, err := NewDateRange(
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestContains_InclusiveAndDateOnly(t *testing.T) {
	rng, err := NewDateRange(
		time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, rng.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rng.Contains(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, rng.Contains(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rng.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
}
