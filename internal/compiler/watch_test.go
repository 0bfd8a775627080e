// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/wgsl.go/internal/idl"
)

func TestWatchState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("fn a() {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	state := newWatchState()
	state.seed(ctx, dir)
	require.Len(t, state.digests, 1)
	require.False(t, state.changed(ctx, path))

	require.NoError(t, os.WriteFile(path, []byte("fn b() {}"), 0o644))
	require.True(t, state.changed(ctx, path))
	require.False(t, state.changed(ctx, path))

	require.NoError(t, os.Remove(path))
	require.True(t, state.changed(ctx, path))
	require.False(t, state.changed(ctx, path))
}

func TestWatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("fn a() {}"), 0o644))

	roots, err := NewRootsFS([]string{dir}, func(string) (string, bool) { return "", false })
	require.NoError(t, err)
	c, err := New(OptionWithFS(roots))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := make(chan error, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, c, &idl.CompileRequest{Files: []string{"/a.wgsl"}}, []string{dir}, func(_ *Result, err error) {
			results <- err
		})
	}()

	select {
	case err := <-results:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("no initial compile")
	}

	// A write may be observed in several steps; wait for the compile that
	// sees the new content.
	require.NoError(t, os.WriteFile(path, []byte("fn a() { x; }"), 0o644))
	deadline := time.After(10 * time.Second)
	for failed := false; !failed; {
		select {
		case err := <-results:
			failed = err != nil
		case <-deadline:
			t.Fatal("no compile after change")
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
}
