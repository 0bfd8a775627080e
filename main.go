// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"gopkg.microglot.org/wgsl.go/internal/compiler"
	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/fs"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

type opts struct {
	Roots          []string
	Syntax         string
	DumpTokens     bool
	DumpTree       bool
	TreeOut        string
	TreeSpans      bool
	NonFatal       []string
	MaxErrors      int
	MaxConcurrency int
	ReportDeferred bool
	Config         string
	Watch          bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) int {
	op := &opts{}
	flags := pflag.NewFlagSet("wgslc", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringSliceVar(&op.Roots, "root", []string{"."}, "Root search paths for targets.")
	flags.StringVar(&op.Syntax, "syntax", "modern", "Grammar version: modern, legacy or auto.")
	flags.BoolVar(&op.DumpTokens, "dump-tokens", false, "Output the token stream of every file")
	flags.BoolVar(&op.DumpTree, "dump-tree", false, "Output the parse tree of every file")
	flags.StringVar(&op.TreeOut, "tree-out", "", "Writes the parse trees to FILE as JSON when FILE ends in .json, binary protobuf otherwise")
	flags.BoolVar(&op.TreeSpans, "tree-spans", true, "Include source spans in the --tree-out output")
	flags.StringSliceVar(&op.NonFatal, "non-fatal", nil, "Diagnostic codes that do not fail compilation.")
	flags.IntVar(&op.MaxErrors, "max-errors", 0, "Stop parsing a file after N fatal diagnostics (0 selects the default).")
	flags.IntVar(&op.MaxConcurrency, "max-concurrency", 0, "Files processed at once (0 selects the CPU count).")
	flags.BoolVar(&op.ReportDeferred, "report-deferred", false, "Note every call that may be a type constructor or a function call.")
	flags.StringVar(&op.Config, "config", "", "Reads settings from a YAML FILE. Flags given explicitly take precedence.")
	flags.BoolVar(&op.Watch, "watch", false, "Recompile whenever a WGSL file in a root changes.")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	targets := flags.Args()

	cfg, err := loadConfig(ctx, op, flags)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, exc.New(exc.Location{URI: "flags"}, exc.CodeInvalidConfig, err.Error()).Error())
		return 1
	}

	mf, err := compiler.NewRootsFS(cfg.Roots, os.LookupEnv)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	c, err := compiler.New(append(cfg.Options(),
		compiler.OptionWithLookupEnv(os.LookupEnv),
		compiler.OptionWithFS(mf),
		compiler.OptionWithDumpWriter(stdout),
	)...)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	req := cfg.Request(targets)
	req.DumpTokens = op.DumpTokens
	req.DumpTree = op.DumpTree

	if op.Watch {
		err := compiler.Watch(ctx, c, req, cfg.Roots, func(out *compiler.Result, err error) {
			_ = report(out, err, op, stdout, stderr)
		})
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			return 1
		}
		return 0
	}

	out, err := c.Compile(ctx, req)
	return report(out, err, op, stdout, stderr)
}

// loadConfig merges the configuration file, if any, with the flags that were
// set explicitly.
func loadConfig(ctx context.Context, op *opts, flags *pflag.FlagSet) (*compiler.Config, error) {
	cfg := &compiler.Config{}
	if op.Config != "" {
		path, err := filepath.Abs(op.Config)
		if err != nil {
			return nil, err
		}
		f := fs.NewFileFN(path, func() (io.ReadCloser, error) {
			return os.Open(path)
		}, idl.FileKindNone)
		cfg, err = compiler.LoadConfig(ctx, f)
		if err != nil {
			return nil, err
		}
	}
	if flags.Changed("syntax") || cfg.Syntax == "" {
		cfg.Syntax = op.Syntax
	}
	if flags.Changed("root") || len(cfg.Roots) == 0 {
		cfg.Roots = op.Roots
	}
	if flags.Changed("non-fatal") {
		cfg.NonFatal = append(cfg.NonFatal, op.NonFatal...)
	}
	if flags.Changed("max-errors") {
		cfg.MaxErrors = op.MaxErrors
	}
	if flags.Changed("max-concurrency") {
		cfg.MaxConcurrency = op.MaxConcurrency
	}
	if flags.Changed("report-deferred") {
		cfg.ReportDeferred = op.ReportDeferred
	}
	return cfg, nil
}

// report prints the diagnostics of a compile and writes the tree output. It
// returns the process exit status.
func report(out *compiler.Result, err error, op *opts, stdout io.Writer, stderr io.Writer) int {
	var me exc.MultiException
	if err != nil && !errors.As(err, &me) {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	for _, e := range out.Reported {
		fmt.Fprintln(stderr, e.Error())
	}
	if op.TreeOut != "" {
		if errOut := writeTree(out, op.TreeOut, op.TreeSpans); errOut != nil {
			fmt.Fprintln(stderr, errOut.Error())
			return 1
		}
	}
	for _, f := range out.Files {
		if f.DuplicateOf != "" {
			fmt.Fprintf(stdout, "%s %x duplicate of %s\n", f.URI, f.Digest[:8], f.DuplicateOf)
			continue
		}
		var declarations int
		if f.Module != nil {
			declarations = len(f.Module.Declarations)
		}
		fmt.Fprintf(stdout, "%s %x %d declarations\n", f.URI, f.Digest[:8], declarations)
	}
	if len(me) > 0 {
		return 1
	}
	return 0
}

func writeTree(out *compiler.Result, path string, withSpans bool) error {
	desc, err := out.Describe(withSpans)
	if err != nil {
		return err
	}
	var b []byte
	if strings.EqualFold(filepath.Ext(path), ".json") {
		b, err = protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(desc)
	} else {
		b, err = proto.Marshal(desc)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
