// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/crypto/blake2b"

	"gopkg.microglot.org/wgsl.go/internal/compiler/wgsl"
	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/fs"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

type Option func(c *Compiler) error

func OptionWithFS(fsys idl.FileSystem) Option {
	return func(c *Compiler) error {
		c.FS = fsys
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *Compiler) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

// OptionWithExcReporter shares one reporter across every compile. Without it
// each compile starts from an empty reporter.
func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *Compiler) error {
		c.NewReporter = func() exc.Reporter {
			return reporter
		}
		return nil
	}
}

// OptionWithNonFatal adds diagnostic codes that do not fail compilation.
func OptionWithNonFatal(codes ...string) Option {
	return func(c *Compiler) error {
		for _, code := range codes {
			if exc.CodeName(code) == code {
				return exc.New(exc.Location{}, exc.CodeInvalidConfig, fmt.Sprintf("unknown diagnostic code %q", code))
			}
		}
		c.NonFatal = append(c.NonFatal, codes...)
		return nil
	}
}

func OptionWithMaxConcurrency(n int) Option {
	return func(c *Compiler) error {
		if n < 0 {
			return exc.New(exc.Location{}, exc.CodeInvalidConfig, fmt.Sprintf("max concurrency must not be negative, got %d", n))
		}
		c.MaxConcurrency = n
		return nil
	}
}

// OptionWithDumpWriter sets the destination of token and tree dumps. The
// default is standard output.
func OptionWithDumpWriter(w io.Writer) Option {
	return func(c *Compiler) error {
		c.DumpWriter = w
		return nil
	}
}

func OptionWithSubCompilers(subCompilers map[idl.FileKind]SubCompiler) Option {
	return func(c *Compiler) error {
		c.SubCompilers = subCompilers
		return nil
	}
}

func New(opts ...Option) (*Compiler, error) {
	c := &Compiler{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.LookupENV == nil {
		c.LookupENV = os.LookupEnv
	}
	if c.FS == nil {
		dfs, err := NewDefaultFS(c.LookupENV)
		if err != nil {
			return nil, err
		}
		c.FS = dfs
	}
	if c.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		c.MaxConcurrency = max
	}
	if c.Semaphore == nil {
		c.Semaphore = newSemaphore(c.MaxConcurrency)
	}
	if c.NewReporter == nil {
		nonFatal := c.NonFatal
		c.NewReporter = func() exc.Reporter {
			return exc.NewReporter(nonFatal)
		}
	}
	if c.DumpWriter == nil {
		c.DumpWriter = os.Stdout
	}
	if c.SubCompilers == nil {
		c.SubCompilers = DefaultSubCompilers(c.DumpWriter)
	}
	return c, nil
}

// Compiler resolves targets against a file system and parses every WGSL file
// it finds. Files are loaded and parsed concurrently, bounded by
// MaxConcurrency.
type Compiler struct {
	LookupENV      func(string) (string, bool)
	FS             idl.FileSystem
	MaxConcurrency int
	Semaphore      *semaphore
	NonFatal       []string
	NewReporter    func() exc.Reporter
	DumpWriter     io.Writer
	SubCompilers   map[idl.FileKind]SubCompiler
}

// Result lists the compiled files in target order.
type Result struct {
	Files []*File
	// Reported holds every diagnostic of the compile, fatal or not, ordered by
	// URI and position.
	Reported exc.MultiException
}

// File is the outcome for a single source file.
type File struct {
	URI    string
	Digest [blake2b.Size256]byte
	// DuplicateOf names an earlier file of the same compile with identical
	// content. Module is shared with that file.
	DuplicateOf string
	Module      *wgsl.Module
}

// Compile parses every file named by the request. The result is returned even
// when the error is non-nil; the error is an exc.MultiException of the fatal
// diagnostics.
func (self *Compiler) Compile(ctx context.Context, req *idl.CompileRequest) (*Result, error) {
	reporter := self.NewReporter()
	files := self.resolve(ctx, reporter, req.Files)

	sources, err := self.load(ctx, reporter, files)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	firstByDigest := make(map[[blake2b.Size256]byte]*File)
	var unique []*loadedFile
	for _, src := range sources {
		if src == nil {
			continue
		}
		out := &File{URI: src.uri, Digest: src.digest}
		result.Files = append(result.Files, out)
		if first, ok := firstByDigest[src.digest]; ok {
			out.DuplicateOf = first.URI
			continue
		}
		firstByDigest[src.digest] = out
		src.out = out
		unique = append(unique, src)
	}

	if err := self.parse(ctx, reporter, req, unique); err != nil {
		return nil, err
	}
	for _, out := range result.Files {
		if out.DuplicateOf != "" {
			out.Module = firstByDigest[out.Digest].Module
		}
	}

	result.Reported = exc.MultiException(reporter.Reported()).Sorted()
	if fatal := exc.Fatal(reporter); len(fatal) > 0 {
		return result, exc.MultiException(fatal).Sorted()
	}
	return result, nil
}

// resolve opens every target and drops repeated URIs. Targets that cannot be
// opened, or that name a non-WGSL file, are reported.
func (self *Compiler) resolve(ctx context.Context, reporter exc.Reporter, targets []string) []idl.File {
	var files []idl.File
	seen := make(map[string]bool)
	for _, target := range targets {
		uri := self.targetURI(ctx, target)
		in, err := self.FS.Open(ctx, uri)
		if err != nil {
			_ = reporter.Report(asException(uri, err))
			continue
		}
		for _, inf := range in {
			path := inf.Path(ctx)
			if seen[path] {
				continue
			}
			seen[path] = true
			if self.SubCompilers[inf.Kind(ctx)] == nil {
				_ = reporter.Report(exc.New(exc.Location{URI: path}, exc.CodeUnsupportedFileFormat, "unsupported file format"))
				continue
			}
			files = append(files, inf)
		}
	}
	return files
}

type loadedFile struct {
	file   idl.File
	uri    string
	source []byte
	digest [blake2b.Size256]byte
	out    *File
}

// load reads and digests every file. The returned slice is index aligned with
// files and holds nil where a file could not be read.
func (self *Compiler) load(ctx context.Context, reporter exc.Reporter, files []idl.File) ([]*loadedFile, error) {
	loaded := make([]*loadedFile, len(files))
	results := make(chan fileResult, len(files))
	for offset, file := range files {
		go func(offset int, file idl.File) {
			if err := self.Semaphore.Acquire(ctx); err != nil {
				results <- fileResult{offset: offset, err: err}
				return
			}
			defer self.Semaphore.Release()
			source, err := fs.ReadAll(ctx, file)
			if err != nil {
				_ = reporter.Report(asException(file.Path(ctx), err))
				results <- fileResult{offset: offset}
				return
			}
			results <- fileResult{offset: offset, loaded: &loadedFile{
				file:   file,
				uri:    file.Path(ctx),
				source: source,
				digest: blake2b.Sum256(source),
			}}
		}(offset, file)
	}
	for x := 0; x < len(files); x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-results:
			if result.err != nil {
				return nil, result.err
			}
			loaded[result.offset] = result.loaded
		}
	}
	return loaded, nil
}

func (self *Compiler) parse(ctx context.Context, reporter exc.Reporter, req *idl.CompileRequest, files []*loadedFile) error {
	results := make(chan fileResult, len(files))
	for _, file := range files {
		go func(file *loadedFile) {
			results <- fileResult{err: self.compileFile(ctx, reporter, req, file)}
		}(file)
	}
	for x := 0; x < len(files); x = x + 1 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result := <-results:
			if result.err != nil {
				return result.err
			}
		}
	}
	return nil
}

// compileFile returns an error only for failures that are not diagnostics of
// the file itself.
func (self *Compiler) compileFile(ctx context.Context, reporter exc.Reporter, req *idl.CompileRequest, file *loadedFile) error {
	if err := self.Semaphore.Acquire(ctx); err != nil {
		return err
	}
	defer self.Semaphore.Release()
	sc := self.SubCompilers[file.file.Kind(ctx)]
	src := fs.NewFileString(file.uri, string(file.source), file.file.Kind(ctx))
	mod, err := sc.CompileFile(ctx, reporter, src, req)
	file.out.Module = mod
	if err != nil {
		var me exc.MultiException
		if errors.As(err, &me) {
			return nil
		}
		var e exc.Exception
		if errors.As(err, &e) {
			return nil
		}
		return err
	}
	return nil
}

func (self *Compiler) targetURI(ctx context.Context, target string) string {
	// The compiler allows targets to be any valid URI or file path. When
	// the target is a file path or a file URI then we convert the paths to
	// an absolute form in order to work with the local implementation of
	// the FileSystem interface. All non-file URIs are left as-is with the
	// expectation that they will be handled by some other implementation.
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	if !filepath.IsAbs(target) {
		return filepath.ToSlash(filepath.Join("/", target))
	}
	return filepath.ToSlash(target)
}

type fileResult struct {
	offset int
	loaded *loadedFile
	err    error
}

func asException(uri string, err error) exc.Exception {
	var e exc.Exception
	if errors.As(err, &e) {
		return e
	}
	return exc.WrapUnknown(exc.Location{URI: uri}, err)
}
