// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"path/filepath"

	"gopkg.microglot.org/wgsl.go/internal/fs"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

// NewDefaultFS searches the platform shared data directories.
func NewDefaultFS(lookup func(string) (string, bool)) (idl.FileSystem, error) {
	return newRootsFS(getDefaultRoots(lookup))
}

// NewRootsFS searches the given roots in order and then the default roots.
func NewRootsFS(roots []string, lookup func(string) (string, bool)) (idl.FileSystem, error) {
	return newRootsFS(append(append([]string{}, roots...), getDefaultRoots(lookup)...))
}

func newRootsFS(roots []string) (fs.FileSystemMulti, error) {
	f := make(fs.FileSystemMulti, 0, len(roots))
	for _, root := range roots {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			return nil, errAbs
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}
