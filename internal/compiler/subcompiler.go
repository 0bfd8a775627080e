// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"io"
	"sync"

	"gopkg.microglot.org/wgsl.go/internal/compiler/wgsl"
	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

// SubCompiler parses one kind of file. The module is returned whenever one
// was built, even alongside an error.
type SubCompiler interface {
	CompileFile(ctx context.Context, r exc.Reporter, file idl.File, req *idl.CompileRequest) (*wgsl.Module, error)
}

func DefaultSubCompilers(dump io.Writer) map[idl.FileKind]SubCompiler {
	return map[idl.FileKind]SubCompiler{
		idl.FileKindWGSL: &SubCompilerWGSL{Dump: &lockedWriter{w: dump}},
	}
}

// lockedWriter serializes writes from concurrently compiled files.
type lockedWriter struct {
	w    io.Writer
	lock sync.Mutex
}

func (self *lockedWriter) Write(p []byte) (int, error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.w.Write(p)
}
