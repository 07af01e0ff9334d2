package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *MirrorStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "mirror.db"), LogLevelSilent)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	type payload struct {
		Name  string  `json:"name"`
		Total float64 `json:"total"`
	}

	require.NoError(t, store.SaveSnapshot(ctx, 7, payload{Name: "June", Total: 3000}))

	var got payload
	takenAt, err := store.LoadSnapshot(ctx, 7, &got)
	require.NoError(t, err)
	assert.False(t, takenAt.IsZero())
	assert.Equal(t, payload{Name: "June", Total: 3000}, got)

	// Saving again replaces, it does not duplicate.
	require.NoError(t, store.SaveSnapshot(ctx, 7, payload{Name: "June", Total: 3500}))
	_, err = store.LoadSnapshot(ctx, 7, &got)
	require.NoError(t, err)
	assert.Equal(t, 3500.0, got.Total)
}

func TestLoadSnapshotMissing(t *testing.T) {
	store := newTestStore(t)

	var dest map[string]any
	_, err := store.LoadSnapshot(context.Background(), 99, &dest)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestJournal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, 7, "employee:1", "toggle_attendance", map[string]any{"date": "2026-06-01"}))
	require.NoError(t, store.Record(ctx, 7, "student:10", "record_payment", map[string]any{"amount": 500}))
	require.NoError(t, store.Record(ctx, 8, "expense:0", "save_expense", nil))

	entries, err := store.Journal(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2, "journal is scoped per shift")
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, 7, e.ShiftID)
	}
}
