package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSlotLoadMissing(t *testing.T) {
	slot := NewFileSlot(filepath.Join(t.TempDir(), "nested"), "mock_guesses")

	data, err := slot.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileSlotStoreReplacesContent(t *testing.T) {
	dir := t.TempDir()
	slot := NewFileSlot(dir, "mock_guesses")
	ctx := context.Background()

	require.NoError(t, slot.Store(ctx, []byte(`[1]`)))
	require.NoError(t, slot.Store(ctx, []byte(`[1,2]`)))

	data, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "mock_guesses.json", entries[0].Name())
}

func TestFileSlotWatchSeesOtherWriters(t *testing.T) {
	dir := t.TempDir()
	watched := NewFileSlot(dir, "mock_guesses")
	other := NewFileSlot(dir, "mock_guesses")
	unrelated := NewFileSlot(dir, "other_key")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := watched.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, unrelated.Store(ctx, []byte(`[]`)))
	select {
	case <-changes:
		t.Fatal("change signalled for a different slot")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, other.Store(ctx, []byte(`[]`)))
	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("no change signalled")
	}

	cancel()
	assert.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-changes:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 2*time.Second, 10*time.Millisecond)
}
