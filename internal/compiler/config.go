// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v2"

	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/fs"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

// SyntaxAuto selects the grammar of each file from its content.
const SyntaxAuto = "auto"

// Config is the content of a wgslc configuration file. Zero values leave the
// defaults in place.
type Config struct {
	Syntax         string   `yaml:"syntax"`
	Roots          []string `yaml:"roots"`
	NonFatal       []string `yaml:"non_fatal"`
	MaxErrors      int      `yaml:"max_errors"`
	MaxConcurrency int      `yaml:"max_concurrency"`
	ReportDeferred bool     `yaml:"report_deferred"`
}

// LoadConfig reads a YAML configuration file. Unknown keys and invalid values
// are reported as InvalidConfig.
func LoadConfig(ctx context.Context, f idl.File) (*Config, error) {
	b, err := fs.ReadAll(ctx, f)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.UnmarshalStrict(b, cfg); err != nil {
		return nil, exc.Wrap(exc.Location{URI: f.Path(ctx)}, exc.CodeInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, exc.New(exc.Location{URI: f.Path(ctx)}, exc.CodeInvalidConfig, err.Error())
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Syntax != SyntaxAuto {
		if _, err := idl.ParseSyntax(c.Syntax); err != nil {
			return err
		}
	}
	for _, code := range c.NonFatal {
		if exc.CodeName(code) == code {
			return fmt.Errorf("unknown diagnostic code %q in non_fatal", code)
		}
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("max_errors must not be negative, got %d", c.MaxErrors)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative, got %d", c.MaxConcurrency)
	}
	return nil
}

// Request applies the parsing settings to a compile request for the given
// targets.
func (c *Config) Request(targets []string) *idl.CompileRequest {
	req := &idl.CompileRequest{
		Files:          targets,
		ReportDeferred: c.ReportDeferred,
		MaxErrors:      c.MaxErrors,
	}
	if c.Syntax == SyntaxAuto {
		req.DetectSyntax = true
	} else {
		req.Syntax, _ = idl.ParseSyntax(c.Syntax)
	}
	return req
}

// Options returns the compiler options implied by the configuration.
func (c *Config) Options() []Option {
	return []Option{
		OptionWithNonFatal(c.NonFatal...),
		OptionWithMaxConcurrency(c.MaxConcurrency),
	}
}
