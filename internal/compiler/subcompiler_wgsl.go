// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"

	"gopkg.microglot.org/wgsl.go/internal/compiler/wgsl"
	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/fs"
	"gopkg.microglot.org/wgsl.go/internal/idl"
	"gopkg.microglot.org/wgsl.go/internal/iter"
)

// SubCompilerWGSL lexes and parses WGSL source. Token and tree dumps for a
// file are written to Dump in a single write.
type SubCompilerWGSL struct {
	Dump io.Writer
}

func (self *SubCompilerWGSL) CompileFile(ctx context.Context, r exc.Reporter, file idl.File, req *idl.CompileRequest) (*wgsl.Module, error) {
	var dump bytes.Buffer
	defer func() {
		if dump.Len() > 0 && self.Dump != nil {
			_, _ = self.Dump.Write(dump.Bytes())
		}
	}()

	syntax := req.Syntax
	if req.DetectSyntax || req.DumpTokens {
		source, err := fs.ReadAll(ctx, file)
		if err != nil {
			return nil, r.Report(asException(file.Path(ctx), err))
		}
		// Diagnostics of this pass are reported by the parsing pass below.
		tokens, err := wgsl.Tokenize(ctx, exc.NewReporter(nil), file.Path(ctx), string(source))
		if err != nil {
			return nil, err
		}
		if req.DetectSyntax {
			if detected, ok := DetectSyntax(ctx, iter.NewSlice(tokens)); ok {
				syntax = detected
			}
		}
		if req.DumpTokens {
			fmt.Fprintf(&dump, "# %s\n", file.Path(ctx))
			for _, token := range tokens {
				fmt.Fprintf(&dump, "%d:%d\t%-24s'%s'\n", token.Span.Start.Line, token.Span.Start.Column, token.Type, token.Value)
			}
		}
	}

	lexer := wgsl.NewLexerWGSL(r)
	parser := wgsl.NewParserWGSL(r,
		wgsl.WithSyntax(syntax),
		wgsl.WithReportDeferred(req.ReportDeferred),
		wgsl.WithMaxErrors(req.MaxErrors),
	)
	lf, err := lexer.Lex(ctx, file)
	if err != nil {
		return nil, err
	}
	mod, err := parser.Parse(ctx, lf)
	if req.DumpTree && mod != nil {
		desc, errDesc := wgsl.Describe(mod, false)
		if errDesc != nil {
			return mod, errDesc
		}
		b, errDesc := protojson.MarshalOptions{Multiline: true}.Marshal(desc)
		if errDesc != nil {
			return mod, errDesc
		}
		dump.Write(b)
		dump.WriteString("\n")
	}
	return mod, err
}

// DetectSyntax scans a token stream for the first construct that exists in
// only one grammar version. It reports false when the stream has none.
func DetectSyntax(ctx context.Context, tokens idl.Iterator[*idl.Token]) (idl.Syntax, bool) {
	filtered := iter.NewIteratorFilter(tokens, idl.Filter[*idl.Token](iter.FilterFunc[*idl.Token](func(ctx context.Context, t *idl.Token) bool {
		return t.Type != idl.TokenTypeComment
	})))
	tokenLookahead := iter.NewLookahead(filtered, 1)
	defer tokenLookahead.Close(ctx)

	for tok := tokenLookahead.Next(ctx); tok.IsPresent(); tok = tokenLookahead.Next(ctx) {
		t := tok.Value()
		switch t.Type {
		case idl.TokenTypeAt, idl.TokenTypeKeywordConst, idl.TokenTypeKeywordOverride,
			idl.TokenTypeKeywordAlias, idl.TokenTypeKeywordWhile:
			return idl.SyntaxModern, true
		case idl.TokenTypeKeywordElseif:
			return idl.SyntaxLegacy, true
		case idl.TokenTypeSquareOpen:
			nt := tokenLookahead.Lookahead(ctx, 1)
			if nt.IsPresent() && nt.Value().Type == idl.TokenTypeSquareOpen && nt.Value().Span.Start.Offset == t.Span.End.Offset {
				return idl.SyntaxLegacy, true
			}
		}
	}
	return idl.SyntaxModern, false
}
