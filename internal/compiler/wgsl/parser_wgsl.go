// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package wgsl

import (
	"context"
	"fmt"

	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/fs"
	"gopkg.microglot.org/wgsl.go/internal/idl"
	"gopkg.microglot.org/wgsl.go/internal/iter"
)

const (
	parserWGSLLookahead = 4
	defaultMaxErrors    = 64
)

type ParserOption func(*ParserWGSL)

// WithSyntax selects the grammar version. The default is idl.SyntaxModern.
func WithSyntax(syntax idl.Syntax) ParserOption {
	return func(p *ParserWGSL) {
		p.syntax = syntax
	}
}

// WithReportDeferred enables a note for every call whose callee may be either
// a type or a function.
func WithReportDeferred(enabled bool) ParserOption {
	return func(p *ParserWGSL) {
		p.reportDeferred = enabled
	}
}

// WithMaxErrors bounds the number of fatal diagnostics after which parsing
// stops. Values below one select the default.
func WithMaxErrors(n int) ParserOption {
	return func(p *ParserWGSL) {
		p.maxErrors = n
	}
}

type ParserWGSL struct {
	reporter       exc.Reporter
	syntax         idl.Syntax
	reportDeferred bool
	maxErrors      int
}

func NewParserWGSL(reporter exc.Reporter, options ...ParserOption) *ParserWGSL {
	p := &ParserWGSL{reporter: reporter}
	for _, option := range options {
		option(p)
	}
	if p.maxErrors < 1 {
		p.maxErrors = defaultMaxErrors
	}
	return p
}

// Parse builds a module from the token stream of the given file. The module is
// returned even when errors were found; the error is an exc.MultiException of
// every fatal diagnostic reported for the file.
func (self *ParserWGSL) Parse(ctx context.Context, f idl.LexerFile) (*Module, error) {
	p, err := self.PrepareParse(ctx, f)
	if err != nil {
		return nil, err
	}
	mod := p.ParseModule()
	var fatal exc.MultiException
	for _, e := range exc.Fatal(self.reporter) {
		if e.Location().URI == p.uri {
			fatal = append(fatal, e)
		}
	}
	if len(fatal) > 0 {
		return mod, fatal
	}
	return mod, nil
}

// ParseString lexes and parses in-memory source.
func ParseString(ctx context.Context, reporter exc.Reporter, uri string, source string, options ...ParserOption) (*Module, error) {
	lf, err := NewLexerWGSL(reporter).Lex(ctx, fs.NewFileString(uri, source, idl.FileKindWGSL))
	if err != nil {
		return nil, err
	}
	return NewParserWGSL(reporter, options...).Parse(ctx, lf)
}

func (self *ParserWGSL) PrepareParse(ctx context.Context, f idl.LexerFile) (*parserWGSLTokens, error) {
	ft, err := f.Tokens(ctx)
	if err != nil {
		return nil, err
	}

	// Comments are trivia. Unrecognized characters were already reported by the
	// lexer.
	filteredTokens := iter.NewIteratorFilter(ft, idl.Filter[*idl.Token](iter.FilterFunc[*idl.Token](func(ctx context.Context, t *idl.Token) bool {
		switch t.Type {
		case idl.TokenTypeComment, idl.TokenTypeUnknown:
			return false
		default:
			return true
		}
	})))

	tokens := iter.NewLookahead(filteredTokens, parserWGSLLookahead)
	// Prime the lookahead so that position zero is the current token.
	_ = tokens.Next(ctx)

	return &parserWGSLTokens{
		reporter:       self.reporter,
		ctx:            ctx,
		tokens:         tokens,
		uri:            f.Path(ctx),
		syntax:         self.syntax,
		reportDeferred: self.reportDeferred,
		maxErrors:      self.maxErrors,
		loc:            idl.Location{Line: 1, Column: 1},
	}, nil
}

type parserWGSLTokens struct {
	reporter       exc.Reporter
	ctx            context.Context
	uri            string
	syntax         idl.Syntax
	reportDeferred bool
	maxErrors      int
	// this is the .Span.End of the last consumed token; we keep track of it
	// so that we can give a meaningful location to "unexpected EOF" errors.
	loc    idl.Location
	tokens idl.Lookahead[*idl.Token]
	// pending is the remainder of a split template closer such as >>.
	pending  *idl.Token
	consumed int
	errors   int
	halted   bool
	// breakIfAllowed is set while parsing a direct child of a continuing block.
	breakIfAllowed bool
}

func (p *parserWGSLTokens) legacy() bool {
	return p.syntax == idl.SyntaxLegacy
}

func (p *parserWGSLTokens) modern() bool {
	return p.syntax == idl.SyntaxModern
}

func (p *parserWGSLTokens) reportAt(span idl.Span, code string, message string) {
	if p.halted {
		return
	}
	e := p.reporter.Report(exc.New(exc.Location{
		URI:  p.uri,
		Span: span,
	}, code, message))
	if e == nil {
		return
	}
	p.errors = p.errors + 1
	if p.errors >= p.maxErrors {
		p.halted = true
	}
}

// report attaches the diagnostic to the current token, or to the end of
// input.
func (p *parserWGSLTokens) report(code string, message string) {
	if tok := p.peek(); tok != nil {
		p.reportAt(tok.Span, code, message)
		return
	}
	p.reportAt(idl.Span{Start: p.loc, End: p.loc}, code, message)
}

// unexpected reports the current token, or the end of input, as not matching
// the description of what should have been there.
func (p *parserWGSLTokens) unexpected(expecting string) {
	tok := p.peek()
	if tok == nil {
		p.report(exc.CodeUnterminatedConstruct, fmt.Sprintf("unexpected EOF (expecting %s)", expecting))
		return
	}
	p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting %s)", describe(tok), expecting))
}

func describe(tok *idl.Token) string {
	return fmt.Sprintf("'%s'", tok.Value)
}

func (p *parserWGSLTokens) advance() {
	if p.pending != nil {
		p.loc = p.pending.Span.End
		p.pending = nil
		p.consumed = p.consumed + 1
		return
	}
	maybeToken := p.tokens.Lookahead(p.ctx, 0)
	if maybeToken.IsPresent() {
		p.loc = maybeToken.Value().Span.End
		p.consumed = p.consumed + 1
	}
	_ = p.tokens.Next(p.ctx)
}

func (p *parserWGSLTokens) peekN(n uint8) *idl.Token {
	if p.halted {
		return nil
	}
	if p.pending != nil {
		if n == 0 {
			return p.pending
		}
		n = n - 1
	}
	maybeToken := p.tokens.Lookahead(p.ctx, n)
	if !maybeToken.IsPresent() {
		return nil
	}
	return maybeToken.Value()
}

func (p *parserWGSLTokens) peek() *idl.Token {
	return p.peekN(0)
}

func (p *parserWGSLTokens) peekIs(kind idl.TokenType) bool {
	tok := p.peek()
	return tok != nil && tok.Type == kind
}

// start returns the position where the next node begins.
func (p *parserWGSLTokens) start() idl.Location {
	if tok := p.peek(); tok != nil {
		return tok.Span.Start
	}
	return p.loc
}

func (p *parserWGSLTokens) span(start idl.Location) idl.Span {
	end := p.loc
	if end.Offset < start.Offset {
		end = start
	}
	return idl.Span{Start: start, End: end}
}

func (p *parserWGSLTokens) pos(start idl.Location) Pos {
	return Pos{Loc: p.span(start)}
}

// reports an error if there is no current token, or the current token isn't of the expected type
// advances on success
func (p *parserWGSLTokens) expectOne(expectedType idl.TokenType) *idl.Token {
	return p.expectOneOf([]idl.TokenType{expectedType})
}

// reports an error if current token isn't one of the given expected types.
// advances on success
func (p *parserWGSLTokens) expectOneOf(expectedTypes []idl.TokenType) *idl.Token {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnterminatedConstruct, fmt.Sprintf("unexpected EOF (expecting %v)", expectedTypes))
		return nil
	}
	for _, expectedType := range expectedTypes {
		if maybeToken.Type == expectedType {
			p.advance()
			return maybeToken
		}
	}
	p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting %v)", describe(maybeToken), expectedTypes))
	return nil
}

func (p *parserWGSLTokens) expectIdentifier() *idl.Token {
	return p.expectOne(idl.TokenTypeIdentifier)
}

// expectTemplateClose consumes a '>' closing a template list. A token that
// starts with '>' is split and the remainder stays current.
func (p *parserWGSLTokens) expectTemplateClose() bool {
	tok := p.peek()
	if tok == nil {
		p.unexpected("'>'")
		return false
	}
	var rest idl.TokenType
	switch tok.Type {
	case idl.TokenTypeAngleClose:
		p.advance()
		return true
	case idl.TokenTypeShiftRight:
		rest = idl.TokenTypeAngleClose
	case idl.TokenTypeGreaterEqual:
		rest = idl.TokenTypeEqual
	case idl.TokenTypeShiftRightEqual:
		rest = idl.TokenTypeGreaterEqual
	default:
		p.unexpected("'>'")
		return false
	}
	split := tok.Span.Start
	split.Column = split.Column + 1
	split.Offset = split.Offset + 1
	remainder := newToken(split, tok.Span.End, rest, tok.Value[1:])
	p.advance()
	p.loc = split
	p.pending = remainder
	return true
}

// adjacent reports whether the two tokens touch with no trivia in between.
func adjacent(a *idl.Token, b *idl.Token) bool {
	return a != nil && b != nil && a.Span.End.Offset == b.Span.Start.Offset
}

// commaList applies the element parser over a list of zero or more
// comma-separated nodes between the open and close tokens, allowing an
// optional trailing comma.
func (p *parserWGSLTokens) commaList(tOpen idl.TokenType, element func() bool, tClose idl.TokenType) bool {
	if p.expectOne(tOpen) == nil {
		return false
	}
	for {
		if p.peekIs(tClose) {
			break
		}
		if p.peek() == nil {
			p.unexpected(fmt.Sprintf("%v", tClose))
			return false
		}
		if !element() {
			return false
		}
		if p.peekIs(tClose) {
			break
		}
		if p.expectOneOf([]idl.TokenType{idl.TokenTypeComma, tClose}) == nil {
			return false
		}
	}
	return p.expectOne(tClose) != nil
}
