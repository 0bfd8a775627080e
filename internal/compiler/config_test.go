// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/fs"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected *Config
	}{
		{
			name:     "empty",
			input:    "",
			expected: &Config{},
		},
		{
			name: "all keys",
			input: `syntax: legacy
roots: [shaders, vendor]
non_fatal: [W0104]
max_errors: 10
max_concurrency: 2
report_deferred: true
`,
			expected: &Config{
				Syntax:         "legacy",
				Roots:          []string{"shaders", "vendor"},
				NonFatal:       []string{exc.CodeMalformedType},
				MaxErrors:      10,
				MaxConcurrency: 2,
				ReportDeferred: true,
			},
		},
		{
			name:     "auto syntax",
			input:    "syntax: auto\n",
			expected: &Config{Syntax: SyntaxAuto},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadConfig(context.Background(), fs.NewFileString("/wgslc.yaml", testCase.input, idl.FileKindNone))
			require.NoError(t, err)
			require.Equal(t, testCase.expected, cfg)
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
	}{
		{name: "unknown key", input: "syntaks: modern\n"},
		{name: "wrong type", input: "max_errors: many\n"},
		{name: "unknown syntax", input: "syntax: classic\n"},
		{name: "unknown code", input: "non_fatal: [X0001]\n"},
		{name: "negative max errors", input: "max_errors: -1\n"},
		{name: "negative concurrency", input: "max_concurrency: -4\n"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(context.Background(), fs.NewFileString("/wgslc.yaml", testCase.input, idl.FileKindNone))
			require.Error(t, err)
			e, ok := err.(exc.Exception)
			require.True(t, ok)
			require.Equal(t, exc.CodeInvalidConfig, e.Code())
			require.Equal(t, "/wgslc.yaml", e.Location().URI)
		})
	}
}

func TestConfigRequest(t *testing.T) {
	t.Parallel()

	cfg := &Config{Syntax: "legacy", MaxErrors: 3, ReportDeferred: true}
	require.Equal(t, &idl.CompileRequest{
		Files:          []string{"/a.wgsl"},
		Syntax:         idl.SyntaxLegacy,
		MaxErrors:      3,
		ReportDeferred: true,
	}, cfg.Request([]string{"/a.wgsl"}))

	cfg = &Config{Syntax: SyntaxAuto}
	req := cfg.Request(nil)
	require.True(t, req.DetectSyntax)
	require.Equal(t, idl.SyntaxModern, req.Syntax)

	c, err := New(append(cfg.Options(), OptionWithFS(fs.FileSystemMulti{}))...)
	require.NoError(t, err)
	require.Greater(t, c.MaxConcurrency, 0)
}
