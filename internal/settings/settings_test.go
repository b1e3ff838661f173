package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stamp = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st := NewStore(filepath.Join(t.TempDir(), "settings.json"))
	st.now = func() time.Time { return stamp }
	return st
}

func TestGetWithoutFileReturnsDefaults(t *testing.T) {
	st := newTestStore(t)
	assert.Equal(t, Defaults(), st.Get())
}

func TestUpdateMergesAndPreservesID(t *testing.T) {
	st := newTestStore(t)

	got, err := st.Update(map[string]any{
		"Id":         42,
		"difficulty": "expert",
		"playerName": "Ada",
		"showHints":  false,
		"unknown":    "dropped",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, got.ID)
	assert.Equal(t, Expert, got.Difficulty)
	assert.Equal(t, "Ada", got.PlayerName)
	assert.False(t, got.ShowHints)
	assert.True(t, got.AutoSave)
	assert.Equal(t, Rapid, got.TimeControl)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, stamp.Equal(*got.UpdatedAt))

	assert.Equal(t, got, st.Get())

	got, err = st.Update(map[string]any{"timeControl": "blitz"})
	require.NoError(t, err)
	assert.Equal(t, Expert, got.Difficulty)
	assert.Equal(t, Blitz, got.TimeControl)
}

func TestUpdateRejectsInvalidFields(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Update(map[string]any{"playerName": "Bo"})
	require.NoError(t, err)
	before := st.Get()

	for _, patch := range []map[string]any{
		{"difficulty": "grandmaster"},
		{"timeControl": "bullet"},
		{"animationSpeed": "instant"},
		{"autoSave": "yes"},
	} {
		_, err := st.Update(patch)
		assert.Truef(t, errors.Is(err, ErrInvalidSettings), "%v: %v", patch, err)
	}
	assert.Equal(t, before, st.Get())
}

func TestReset(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Update(map[string]any{"difficulty": "beginner", "autoSave": false})
	require.NoError(t, err)

	got, err := st.Reset()
	require.NoError(t, err)
	want := Defaults()
	want.UpdatedAt = &stamp
	assert.Equal(t, want, got)
	assert.Equal(t, want, st.Get())
}

func TestCorruptFileFallsBackToDefaults(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, os.WriteFile(st.Path(), []byte("{not json"), 0o644))
	assert.Equal(t, Defaults(), st.Get())

	require.NoError(t, os.WriteFile(st.Path(), []byte(`{"difficulty":"impossible"}`), 0o644))
	assert.Equal(t, Defaults(), st.Get())
}

func TestPartialFileIsLayeredOverDefaults(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, os.WriteFile(st.Path(), []byte(`{"animationSpeed":"fast"}`), 0o644))

	want := Defaults()
	want.AnimationSpeed = Fast
	assert.Equal(t, want, st.Get())
}

func TestUpdateCreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config", "knights")
	st := NewStore(filepath.Join(dir, "settings.json"))

	_, err := st.Update(map[string]any{"playerName": "Noor"})
	require.NoError(t, err)
	assert.Equal(t, "Noor", st.Get().PlayerName)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left beside the settings file")
	assert.Equal(t, "settings.json", entries[0].Name())
}

func TestConcurrentUpdates(t *testing.T) {
	st := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := st.Update(map[string]any{"playerName": fmt.Sprintf("p%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got := st.Get()
	assert.Equal(t, 1, got.ID)
	assert.Regexp(t, `^p\d+$`, got.PlayerName)
}
