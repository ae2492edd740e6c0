package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magv/rat2c/internal/engine"
	"github.com/magv/rat2c/internal/ir"
	"github.com/magv/rat2c/internal/store"
)

func seedCache(t *testing.T, path string) {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	batch := &engine.Batch{
		Fragments: []ir.Fragment{{Name: "frag0", Body: "x+y"}},
		Variables: []string{"x", "y"},
		OptLevel:  engine.DefaultOptLevel,
	}
	require.NoError(t, st.StoreBatch(context.Background(), batch,
		[]ir.Program{{{Target: "frag0", Expr: "x+y"}}}))
}

func TestCacheStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	seedCache(t, path)

	out := &bytes.Buffer{}
	cmd := NewCacheCommand(&RootOptions{Format: "text"})
	cmd.SetOut(out)
	require.NoError(t, run(cmd, "stats", "--cache", path))

	assert.Contains(t, out.String(), "1 fragment(s) across 1 batch(es)")
}

func TestCacheClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	seedCache(t, path)

	out := &bytes.Buffer{}
	cmd := NewCacheCommand(&RootOptions{Format: "text"})
	cmd.SetOut(out)
	require.NoError(t, run(cmd, "clear", "--cache", path))

	out.Reset()
	cmd2 := NewCacheCommand(&RootOptions{Format: "text"})
	cmd2.SetOut(out)
	require.NoError(t, run(cmd2, "stats", "--cache", path))
	assert.Contains(t, out.String(), "0 fragment(s)")
}

func TestCacheRequiresPathFlag(t *testing.T) {
	cmd := NewCacheCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := run(cmd, "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache")
}
