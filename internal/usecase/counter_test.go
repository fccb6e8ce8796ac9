package usecase

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomokit/pomo/internal/domain"
)

func TestCounter_IncrementAndValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "count.json")
	c := NewCounter(path)

	v, err := c.Value()
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	n, err := c.Increment()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = c.Increment()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCounter_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "count.json")

	c := NewCounter(path)
	_, err := c.Increment()
	require.NoError(t, err)
	_, err = c.Increment()
	require.NoError(t, err)

	// A fresh counter over the same path simulates a new process.
	c2 := NewCounter(path)
	v, err := c2.Value()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestCounter_Reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "count.json")
	c := NewCounter(path)

	_, err := c.Increment()
	require.NoError(t, err)
	require.NoError(t, c.Reset())

	v, err := c.Value()
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestSelectBreakType(t *testing.T) {
	tests := []struct {
		count     int
		untilLong int
		want      domain.BreakType
	}{
		{0, 4, domain.BreakShort}, // zero never selects long
		{1, 4, domain.BreakShort},
		{2, 4, domain.BreakShort},
		{3, 4, domain.BreakShort},
		{4, 4, domain.BreakLong},
		{5, 4, domain.BreakShort},
		{8, 4, domain.BreakLong},
		{12, 4, domain.BreakLong},
		{3, 0, domain.BreakShort}, // cadence disabled
	}

	for _, tt := range tests {
		got := SelectBreakType(tt.count, tt.untilLong)
		assert.Equal(t, tt.want, got, "count=%d untilLong=%d", tt.count, tt.untilLong)
	}
}
