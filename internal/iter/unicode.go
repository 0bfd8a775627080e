// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"bufio"
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"gopkg.microglot.org/wgsl.go/internal/idl"
	"gopkg.microglot.org/wgsl.go/internal/optional"
)

// NewUnicodeFileBody converts a FileBody into an iterator of code points.
func NewUnicodeFileBody(b idl.FileBody) idl.Iterator[idl.CodePoint] {
	return NewUnicodeFileBodyCtx(context.Background(), b)
}

// NewUnicodeFileBodyCtx is the same as NewUnicodeFileBody but uses the given
// context for all read operations for cancellation or other purposes.
func NewUnicodeFileBodyCtx(ctx context.Context, b idl.FileBody) idl.Iterator[idl.CodePoint] {
	return newCodePoints(&fileBodyIO{ctx: ctx, body: b})
}

// NewUnicodeString iterates over the code points of an in-memory string.
// Invalid UTF-8 sequences are returned as utf8.RuneError.
func NewUnicodeString(s string) idl.Iterator[idl.CodePoint] {
	return &stringPoints{s: s}
}

type stringPoints struct {
	s      string
	offset int
}

func (self *stringPoints) Next(ctx context.Context) optional.Optional[idl.CodePoint] {
	if self.offset >= len(self.s) {
		return optional.None[idl.CodePoint]()
	}
	r, size := utf8.DecodeRuneInString(self.s[self.offset:])
	self.offset = self.offset + size
	return optional.Some(idl.CodePoint(r))
}

func (self *stringPoints) Close(context.Context) error {
	return nil
}

type codePoints struct {
	readCloser io.ReadCloser
	scanner    *bufio.Scanner
}

func newCodePoints(rc io.ReadCloser) *codePoints {
	scanner := bufio.NewScanner(rc)
	scanner.Split(bufio.ScanRunes)
	return &codePoints{
		readCloser: rc,
		scanner:    scanner,
	}
}

func (f *codePoints) Next(ctx context.Context) optional.Optional[idl.CodePoint] {
	if err := ctx.Err(); err != nil {
		return optional.None[idl.CodePoint]()
	}
	ok := f.scanner.Scan()
	if !ok {
		return optional.None[idl.CodePoint]()
	}
	r, _ := utf8.DecodeRune(f.scanner.Bytes())
	return optional.Some(idl.CodePoint(r))
}

func (f *codePoints) Close(context.Context) error {
	_ = f.readCloser.Close()
	return f.scanner.Err()
}

type fileBodyIO struct {
	ctx  context.Context
	body idl.FileBody
}

func (self *fileBodyIO) Read(p []byte) (int, error) {
	b, err := self.body.Read(self.ctx, int32(len(p)))
	if err != nil && !errors.Is(err, io.EOF) {
		return len(b), err
	}
	copy(p, b)
	if errors.Is(err, io.EOF) {
		return len(b), io.EOF
	}
	return len(b), nil
}

func (self *fileBodyIO) Close() error {
	return self.body.Close(self.ctx)
}
