// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/wgsl.go/internal/idl"
)

func TestReporter(t *testing.T) {
	t.Parallel()

	r := NewReporter([]string{CodeMalformedType})
	fatal := New(Location{URI: "/a.wgsl"}, CodeUnexpectedToken, "expected ;")
	deferred := New(Location{URI: "/a.wgsl"}, CodeAmbiguousConstructDeferred, "call or constructor")
	promoted := New(Location{URI: "/a.wgsl"}, CodeMalformedType, "bad type")

	require.Equal(t, fatal, r.Report(fatal))
	require.Nil(t, r.Report(deferred))
	require.Nil(t, r.Report(promoted))
	require.Len(t, r.Reported(), 3)
	require.True(t, r.IsFatal(fatal))
	require.False(t, r.IsFatal(deferred))
	require.Equal(t, []Exception{fatal}, Fatal(r))
}

func TestExceptionFormat(t *testing.T) {
	t.Parallel()

	e := New(Location{
		URI:  "/shader.wgsl",
		Span: idl.Span{Start: idl.Location{Line: 3, Column: 7, Offset: 20}},
	}, CodeUnexpectedToken, "expected ;")
	require.Equal(t, "/shader.wgsl:3:7 -- W0101: expected ;", e.Error())
	require.Equal(t, "UnexpectedToken", CodeName(e.Code()))
	require.Equal(t, "X9999", CodeName("X9999"))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	require.Nil(t, Wrap(Location{}, CodeEOF, nil))
	e := Wrap(Location{URI: "/x"}, CodeEOF, io.EOF)
	require.True(t, errors.Is(e, io.EOF))
	require.Equal(t, CodeEOF, e.Code())

	inner := New(Location{}, CodeFileNotFound, "missing")
	outer := Wrap(Location{URI: "/y"}, CodeUnknownFatal, inner)
	require.Equal(t, "missing", outer.Message())
	require.True(t, errors.Is(outer, inner))
}

func TestMultiException(t *testing.T) {
	t.Parallel()

	at := func(uri string, offset int64, code string) Exception {
		return New(Location{URI: uri, Span: idl.Span{Start: idl.Location{Line: 1, Column: int32(offset) + 1, Offset: offset}}}, code, "m")
	}
	me := MultiException{
		at("/b.wgsl", 0, CodeLexError),
		at("/a.wgsl", 9, CodeUnexpectedToken),
		at("/a.wgsl", 2, CodeMalformedLiteral),
	}
	require.Equal(t, []string{CodeLexError, CodeUnexpectedToken, CodeMalformedLiteral}, me.Codes())
	sorted := me.Sorted()
	require.Equal(t, []string{CodeMalformedLiteral, CodeUnexpectedToken, CodeLexError}, sorted.Codes())
	require.Equal(t, "/b.wgsl:1:1 -- W0100: m; /a.wgsl:1:10 -- W0101: m; /a.wgsl:1:3 -- W0103: m", me.Error())
	require.Equal(t, "no exceptions", MultiException{}.Error())
}
