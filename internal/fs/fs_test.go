// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

func TestFileSystemLocal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mapFS := fstest.MapFS{
		"shaders/a.wgsl":     {Data: []byte("fn a() {}")},
		"shaders/b.wgsl":     {Data: []byte("fn b() {}")},
		"shaders/notes.txt":  {Data: []byte("ignore")},
		"shaders/sub/c.wgsl": {Data: []byte("fn c() {}")},
		"empty/readme.md":    {Data: []byte("nothing")},
	}
	lfs, err := NewFileSystemLocal("/", WithOptionFSFactory(func(string) fs.FS { return mapFS }))
	require.NoError(t, err)

	files, err := lfs.Open(ctx, "/shaders")
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "/shaders/a.wgsl", files[0].Path(ctx))
	require.Equal(t, idl.FileKindWGSL, files[0].Kind(ctx))
	body, err := ReadAll(ctx, files[1])
	require.NoError(t, err)
	require.Equal(t, "fn b() {}", string(body))

	files, err = lfs.Open(ctx, "file:///shaders/sub/c.wgsl")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "/shaders/sub/c.wgsl", files[0].Path(ctx))

	_, err = lfs.Open(ctx, "/missing.wgsl")
	require.Error(t, err)
	e, ok := err.(exc.Exception)
	require.True(t, ok)
	require.Equal(t, exc.CodeFileNotFound, e.Code())

	_, err = lfs.Open(ctx, "/empty")
	require.Error(t, err)
}

func TestFileSystemMulti(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first, err := NewFileSystemLocal("/", WithOptionFSFactory(func(string) fs.FS {
		return fstest.MapFS{"a.wgsl": {Data: []byte("first")}}
	}))
	require.NoError(t, err)
	second, err := NewFileSystemLocal("/", WithOptionFSFactory(func(string) fs.FS {
		return fstest.MapFS{"a.wgsl": {Data: []byte("second")}, "b.wgsl": {Data: []byte("only")}}
	}))
	require.NoError(t, err)
	multi := FileSystemMulti{first, second}

	files, err := multi.Open(ctx, "/a.wgsl")
	require.NoError(t, err)
	body, err := ReadAll(ctx, files[0])
	require.NoError(t, err)
	require.Equal(t, "first", string(body))

	files, err = multi.Open(ctx, "/b.wgsl")
	require.NoError(t, err)
	body, err = ReadAll(ctx, files[0])
	require.NoError(t, err)
	require.Equal(t, "only", string(body))

	_, err = multi.Open(ctx, "/c.wgsl")
	require.Error(t, err)
	require.Error(t, multi.Write(ctx, "/c.wgsl", ""))
}

func TestDecoding(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("let x = 1;")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "fn f() {}", expected: "fn f() {}"},
		{name: "utf-8 bom", input: "\xEF\xBB\xBFfn f() {}", expected: "fn f() {}"},
		{name: "utf-16 bom", input: utf16, expected: "let x = 1;"},
		{name: "invalid utf-8", input: "a\xFFb", expected: "a�b"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			body, err := ReadAll(ctx, NewFileString("/test.wgsl", testCase.input, idl.FileKindWGSL))
			require.NoError(t, err)
			require.Equal(t, testCase.expected, string(body))
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, idl.FileKindWGSL, KindOf("/a/b.wgsl"))
	require.Equal(t, idl.FileKindWGSL, KindOf("B.WGSL"))
	require.Equal(t, idl.FileKindNone, KindOf("b.glsl"))
}
