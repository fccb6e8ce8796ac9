package infra

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomokit/pomo/internal/domain"
)

func TestHandleRegistry_RecordAndGet(t *testing.T) {
	r := NewHandleRegistry(t.TempDir())

	h := domain.TimerHandle{PID: 4242, Owner: domain.OwnerWorkTimer}
	require.NoError(t, r.Record(h))

	got, err := r.Get(domain.OwnerWorkTimer)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4242, got.PID)
	assert.Equal(t, domain.OwnerWorkTimer, got.Owner)
}

func TestHandleRegistry_GetAbsent(t *testing.T) {
	r := NewHandleRegistry(t.TempDir())

	got, err := r.Get(domain.OwnerBreakTimer)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHandleRegistry_ReplaceExisting(t *testing.T) {
	r := NewHandleRegistry(t.TempDir())

	require.NoError(t, r.Record(domain.TimerHandle{PID: 1, Owner: domain.OwnerWorkTimer}))
	require.NoError(t, r.Record(domain.TimerHandle{PID: 2, Owner: domain.OwnerWorkTimer}))

	got, err := r.Get(domain.OwnerWorkTimer)
	require.NoError(t, err)
	assert.Equal(t, 2, got.PID)
}

func TestHandleRegistry_ClearIdempotent(t *testing.T) {
	r := NewHandleRegistry(t.TempDir())
	require.NoError(t, r.Record(domain.TimerHandle{PID: 7, Owner: domain.OwnerWorkReminder}))

	require.NoError(t, r.Clear(domain.OwnerWorkReminder))
	require.NoError(t, r.Clear(domain.OwnerWorkReminder)) // already gone
}

func TestHandleRegistry_ClearOwned(t *testing.T) {
	r := NewHandleRegistry(t.TempDir())
	require.NoError(t, r.Record(domain.TimerHandle{PID: 100, Owner: domain.OwnerWorkTimer}))

	// Wrong PID: handle belongs to a successor task, leave it alone.
	require.NoError(t, r.ClearOwned(domain.OwnerWorkTimer, 99))
	got, err := r.Get(domain.OwnerWorkTimer)
	require.NoError(t, err)
	require.NotNil(t, got)

	// Matching PID: removed.
	require.NoError(t, r.ClearOwned(domain.OwnerWorkTimer, 100))
	got, err = r.Get(domain.OwnerWorkTimer)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHandleRegistry_UnparsableIsStale(t *testing.T) {
	r := NewHandleRegistry(t.TempDir())
	require.NoError(t, os.MkdirAll(r.dir, 0o700))
	require.NoError(t, os.WriteFile(r.Path(domain.OwnerWorkTimer), []byte("garbage"), 0o600))

	got, err := r.Get(domain.OwnerWorkTimer)
	require.NoError(t, err)
	assert.Nil(t, got)
}
