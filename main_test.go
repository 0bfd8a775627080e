// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.wgsl"), []byte("fn a() {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.wgsl"), []byte("fn a() { x; }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "legacy.wgsl"), []byte("[[stage(compute), workgroup_size(1)]] fn main() {}"), 0o644))
	config := filepath.Join(dir, "wgslc.yaml")
	require.NoError(t, os.WriteFile(config, []byte("syntax: legacy\nmax_errors: 3\n"), 0o644))

	testCases := []struct {
		name   string
		args   []string
		status int
		stderr string
	}{
		{name: "success", args: []string{"--root", dir, "good.wgsl"}, status: 0},
		{name: "fatal", args: []string{"--root", dir, "bad.wgsl"}, status: 1, stderr: "W0101"},
		{name: "non-fatal", args: []string{"--root", dir, "--non-fatal", "W0101", "bad.wgsl"}, status: 0, stderr: "W0101"},
		{name: "config syntax", args: []string{"--root", dir, "--config", config, "legacy.wgsl"}, status: 0},
		{name: "flag overrides config", args: []string{"--root", dir, "--config", config, "--syntax", "modern", "legacy.wgsl"}, status: 1, stderr: "W0101"},
		{name: "auto syntax", args: []string{"--root", dir, "--syntax", "auto", "legacy.wgsl", "good.wgsl"}, status: 0},
		{name: "invalid syntax", args: []string{"--root", dir, "--syntax", "classic", "good.wgsl"}, status: 1, stderr: "W0200"},
		{name: "unknown flag", args: []string{"--nope"}, status: 2},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			status := run(context.Background(), testCase.args, &stdout, &stderr)
			require.Equal(t, testCase.status, status, stderr.String())
			if testCase.stderr != "" {
				require.Contains(t, stderr.String(), testCase.stderr)
			}
		})
	}
}

func TestRunTreeOut(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.wgsl"), []byte("const x = 1;"), 0o644))
	out := filepath.Join(dir, "tree.json")

	var stdout, stderr bytes.Buffer
	status := run(context.Background(), []string{"--root", dir, "--tree-out", out, "a.wgsl"}, &stdout, &stderr)
	require.Equal(t, 0, status, stderr.String())
	require.Contains(t, stdout.String(), "1 declarations")

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	desc := &structpb.Struct{}
	require.NoError(t, protojson.Unmarshal(b, desc))
	require.Len(t, desc.Fields["files"].GetListValue().GetValues(), 1)
}
