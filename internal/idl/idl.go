// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"context"
	"fmt"

	"gopkg.microglot.org/wgsl.go/internal/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

type CodePoint uint32

type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

type Lookahead[T any] interface {
	Iterator[T]
	Lookahead(ctx context.Context, n uint8) optional.Optional[T]
}

type Filter[T any] interface {
	Keep(ctx context.Context, v T) bool
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindWGSL
)

func (k FileKind) String() string {
	switch k {
	case FileKindNone:
		return "none"
	case FileKindWGSL:
		return "wgsl"
	default:
		return fmt.Sprintf("unkown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}

// Syntax selects one of the mutually exclusive grammar versions.
type Syntax uint8

const (
	SyntaxModern Syntax = iota
	SyntaxLegacy
)

func (s Syntax) String() string {
	switch s {
	case SyntaxModern:
		return "modern"
	case SyntaxLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("unknown-%d", s)
	}
}

// ParseSyntax maps a configuration or flag value to a Syntax. The empty string
// selects the default.
func ParseSyntax(v string) (Syntax, error) {
	switch v {
	case "", "modern":
		return SyntaxModern, nil
	case "legacy":
		return SyntaxLegacy, nil
	default:
		return SyntaxModern, fmt.Errorf("unknown syntax %q (expecting modern or legacy)", v)
	}
}

type CompileRequest struct {
	Files []string
	// Syntax is the grammar used for every file unless DetectSyntax is set and
	// a file shows a version specific construct.
	Syntax         Syntax
	DetectSyntax   bool
	ReportDeferred bool
	// MaxErrors bounds the fatal diagnostics per file. Zero selects the
	// parser default.
	MaxErrors  int
	DumpTokens bool
	DumpTree   bool
}

type LexerFile interface {
	File
	Tokens(ctx context.Context) (Iterator[*Token], error)
}

type Lexer interface {
	Lex(ctx context.Context, f File) (LexerFile, error)
}
