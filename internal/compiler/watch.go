// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/crypto/blake2b"

	"gopkg.microglot.org/wgsl.go/internal/fs"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

// Watch compiles the request once and again after every change to a WGSL
// file in one of the directories. Events that leave the content of a file
// unchanged do not trigger a compile. Watch returns when the context ends.
func Watch(ctx context.Context, c *Compiler, req *idl.CompileRequest, dirs []string, onResult func(*Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	state := newWatchState()
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		if err := watcher.Add(abs); err != nil {
			return err
		}
		state.seed(ctx, abs)
	}

	onResult(c.Compile(ctx, req))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if fs.KindOf(event.Name) != idl.FileKindWGSL {
				continue
			}
			if !state.changed(ctx, event.Name) {
				continue
			}
			onResult(c.Compile(ctx, req))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// watchState records the last seen digest of every watched file.
type watchState struct {
	digests map[string][blake2b.Size256]byte
}

func newWatchState() *watchState {
	return &watchState{digests: make(map[string][blake2b.Size256]byte)}
}

func (s *watchState) seed(ctx context.Context, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || fs.KindOf(entry.Name()) != idl.FileKindWGSL {
			continue
		}
		_ = s.changed(ctx, filepath.Join(dir, entry.Name()))
	}
}

// changed updates the digest of the file and reports whether it differs from
// the previous one. A file that can no longer be read counts as changed once.
func (s *watchState) changed(ctx context.Context, path string) bool {
	f := fs.NewFileFN(path, func() (io.ReadCloser, error) {
		return os.Open(path)
	}, fs.KindOf(path))
	source, err := fs.ReadAll(ctx, f)
	if err != nil {
		_, ok := s.digests[path]
		delete(s.digests, path)
		return ok
	}
	digest := blake2b.Sum256(source)
	previous, ok := s.digests[path]
	s.digests[path] = digest
	return !ok || previous != digest
}
