package engine_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/kvignite/internal/engine"
	kverrors "github.com/iamNilotpal/kvignite/pkg/errors"
	"github.com/iamNilotpal/kvignite/pkg/options"
)

func newTestEngine(t *testing.T, threshold uint64) (*engine.Engine, string) {
	t.Helper()

	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.SegmentOptions.Directory = ""
	if threshold > 0 {
		opts.SegmentOptions.Size = threshold
	}

	e, err := engine.New(context.Background(), &engine.Config{Logger: zap.NewNop().Sugar(), Options: &opts})
	require.NoError(t, err)
	return e, dir
}

func TestSetThenGet(t *testing.T) {
	e, _ := newTestEngine(t, 0)
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))
	v, ok, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)

	_, ok, err = e.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOverwrite(t *testing.T) {
	e, _ := newTestEngine(t, 0)
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("a", "2"))

	v, ok, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", v)
}

func TestRemoveThenGet(t *testing.T) {
	e, _ := newTestEngine(t, 0)
	defer e.Close()

	require.NoError(t, e.Set("x", "y"))
	require.NoError(t, e.Remove("x"))

	_, ok, err := e.Get("x")
	require.NoError(t, err)
	require.False(t, ok)

	err = e.Remove("x")
	require.ErrorIs(t, err, engine.ErrKeyNotFound)
}

func TestBasicRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t, 0)
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("b", "2"))

	v, ok, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)

	v, ok, err = e.Get("b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", v)

	_, ok, err = e.Get("c")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRestartPersistence(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.SegmentOptions.Directory = ""

	e, err := engine.New(context.Background(), &engine.Config{Logger: zap.NewNop().Sugar(), Options: &opts})
	require.NoError(t, err)

	require.NoError(t, e.Set("k1", "v1"))
	require.NoError(t, e.Set("k2", "v2"))
	require.NoError(t, e.Remove("k1"))
	require.NoError(t, e.Close())

	e2, err := engine.New(context.Background(), &engine.Config{Logger: zap.NewNop().Sugar(), Options: &opts})
	require.NoError(t, err)
	defer e2.Close()

	_, ok, err := e2.Get("k1")
	require.NoError(t, err)
	require.False(t, ok)

	v, ok, err := e2.Get("k2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", v)
}

func TestOperationsAfterCloseFail(t *testing.T) {
	e, _ := newTestEngine(t, 0)
	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Close())

	err := e.Set("a", "2")
	require.ErrorIs(t, err, engine.ErrEngineClosed)

	_, _, err = e.Get("a")
	require.ErrorIs(t, err, engine.ErrEngineClosed)

	err = e.Remove("a")
	require.ErrorIs(t, err, engine.ErrEngineClosed)

	require.NoError(t, e.Close())
}

func TestCompactionKeepsLatestValues(t *testing.T) {
	e, dir := newTestEngine(t, 1024)
	defer e.Close()

	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("key-%d", i)
		require.NoError(t, e.Set(key, fmt.Sprintf("value-%d-first", i)))
	}
	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("key-%d", i)
		require.NoError(t, e.Set(key, fmt.Sprintf("value-%d-second", i)))
	}

	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("key-%d", i)
		v, ok, err := e.Get(key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("value-%d-second", i), v)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.LessOrEqual(t, len(entries), 3)
}

func TestGetDetectsCorruptedRecord(t *testing.T) {
	e, dir := newTestEngine(t, 0)
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))

	segPath := filepath.Join(dir, "1.log")
	raw, err := os.ReadFile(segPath)
	require.NoError(t, err)

	corrupted := bytes.Replace(raw, []byte(`"key":"a"`), []byte(`"key":"z"`), 1)
	require.NotEqual(t, raw, corrupted)
	require.Equal(t, len(raw), len(corrupted))
	require.NoError(t, os.WriteFile(segPath, corrupted, 0644))

	_, _, err = e.Get("a")
	require.Error(t, err)

	ie, ok := kverrors.AsIndexError(err)
	require.True(t, ok)
	require.True(t, kverrors.IsIndexError(err))
	require.Equal(t, kverrors.ErrorCodeIndexCorrupted, ie.Code())
	require.Equal(t, "Get", ie.Operation())
	require.Equal(t, "a", ie.Key())
	require.Equal(t, 1, ie.IndexSize())
	require.Positive(t, ie.MemoryUsage())
}

func TestRecoveryFailsOnTornNonLastSegment(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.SegmentOptions.Directory = ""
	opts.SegmentOptions.Size = 1 // forces the single Set below to compact immediately

	e, err := engine.New(context.Background(), &engine.Config{Logger: zap.NewNop().Sugar(), Options: &opts})
	require.NoError(t, err)
	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Close())

	// The threshold-triggered compaction leaves segment 2 holding the
	// rewritten record (non-last, non-empty) and segment 3 as the fresh,
	// empty active segment (last).
	segPath := filepath.Join(dir, "2.log")
	info, statErr := os.Stat(segPath)
	require.NoError(t, statErr)
	require.Positive(t, info.Size())
	require.NoError(t, os.Truncate(segPath, info.Size()-1))

	_, err = engine.New(context.Background(), &engine.Config{Logger: zap.NewNop().Sugar(), Options: &opts})
	require.Error(t, err)
	require.True(t, kverrors.IsStorageError(err))

	se, ok := kverrors.AsStorageError(err)
	require.True(t, ok)
	require.Equal(t, kverrors.ErrorCodeRecoveryFailed, se.Code())
}

func TestRecoveryFromTornTail(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.SegmentOptions.Directory = ""

	e, err := engine.New(context.Background(), &engine.Config{Logger: zap.NewNop().Sugar(), Options: &opts})
	require.NoError(t, err)
	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("b", "2"))
	require.NoError(t, e.Close())

	segPath := filepath.Join(dir, "1.log")
	info, err := os.Stat(segPath)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(segPath, info.Size()-1))

	e2, err := engine.New(context.Background(), &engine.Config{Logger: zap.NewNop().Sugar(), Options: &opts})
	require.NoError(t, err)
	defer e2.Close()

	v, ok, err := e2.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)

	_, ok, err = e2.Get("b")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, e2.Set("c", "3"))
	v, ok, err = e2.Get("c")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "3", v)
}
