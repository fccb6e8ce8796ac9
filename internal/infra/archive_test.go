package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomokit/pomo/internal/domain"
)

func sessionAt(end time.Time, goal string) domain.SessionRecord {
	return domain.SessionRecord{
		StartTime:       end.Add(-25 * time.Minute),
		EndTime:         end,
		DurationSeconds: 1500,
		Goal:            goal,
		PomodoroCount:   1,
	}
}

func TestArchive_AppendPartitionsByMonth(t *testing.T) {
	dir := t.TempDir()
	a := NewArchive(dir)

	jan := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)

	require.NoError(t, a.AppendSession(sessionAt(jan, "jan work")))
	require.NoError(t, a.AppendSession(sessionAt(feb, "feb work")))

	_, err := os.Stat(filepath.Join(dir, "sessions-2026-01.log"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "sessions-2026-02.log"))
	assert.NoError(t, err)
}

func TestArchive_SessionsRangeSpansMonths(t *testing.T) {
	a := NewArchive(t.TempDir())

	times := []time.Time{
		time.Date(2026, 1, 30, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC),
	}
	for i, ts := range times {
		require.NoError(t, a.AppendSession(sessionAt(ts, "")))
		_ = i
	}

	recs, err := a.Sessions(
		time.Date(2026, 1, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestArchive_EmptyDir(t *testing.T) {
	a := NewArchive(filepath.Join(t.TempDir(), "never-created"))

	recs, err := a.Sessions(time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestArchive_AppendOnly(t *testing.T) {
	dir := t.TempDir()
	a := NewArchive(dir)

	end := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, a.AppendSession(sessionAt(end, "one")))
	require.NoError(t, a.AppendSession(sessionAt(end.Add(time.Hour), "two")))

	recs, err := a.Sessions(time.Time{}, end.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "one", recs[0].Goal)
	assert.Equal(t, "two", recs[1].Goal)
}

func TestArchive_AppendBreak(t *testing.T) {
	dir := t.TempDir()
	a := NewArchive(dir)

	end := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	require.NoError(t, a.AppendBreak(domain.BreakRecord{
		StartTime:      end.Add(-5 * time.Minute),
		EndTime:        end,
		PlannedSeconds: 300,
		ElapsedSeconds: 300,
		Type:           domain.BreakShort,
		CompletedFully: true,
	}))

	_, err := os.Stat(filepath.Join(dir, "breaks-2026-03.log"))
	assert.NoError(t, err)
}
