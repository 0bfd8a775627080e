// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package wgsl

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.microglot.org/wgsl.go/internal/compiler/literal"
	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/fs"
	"gopkg.microglot.org/wgsl.go/internal/idl"
	"gopkg.microglot.org/wgsl.go/internal/iter"
	"gopkg.microglot.org/wgsl.go/internal/optional"
)

const (
	lexerWGSLLookahead = 4
)

var operatorsThree = map[string]idl.TokenType{
	"<<=": idl.TokenTypeShiftLeftEqual,
	">>=": idl.TokenTypeShiftRightEqual,
}

var operatorsTwo = map[string]idl.TokenType{
	"->": idl.TokenTypeArrow,
	"&&": idl.TokenTypeAmpersandAmpersand,
	"||": idl.TokenTypePipePipe,
	"==": idl.TokenTypeComparison,
	"!=": idl.TokenTypeNotComparison,
	"<=": idl.TokenTypeLesserEqual,
	">=": idl.TokenTypeGreaterEqual,
	"<<": idl.TokenTypeShiftLeft,
	">>": idl.TokenTypeShiftRight,
	"+=": idl.TokenTypePlusEqual,
	"-=": idl.TokenTypeMinusEqual,
	"*=": idl.TokenTypeMultiplyEqual,
	"/=": idl.TokenTypeDivideEqual,
	"%=": idl.TokenTypeModuloEqual,
	"&=": idl.TokenTypeAndEqual,
	"|=": idl.TokenTypeOrEqual,
	"^=": idl.TokenTypeXorEqual,
	"++": idl.TokenTypePlusPlus,
	"--": idl.TokenTypeMinusMinus,
}

var operatorsOne = map[rune]idl.TokenType{
	'(': idl.TokenTypeParenOpen,
	')': idl.TokenTypeParenClose,
	'{': idl.TokenTypeCurlyOpen,
	'}': idl.TokenTypeCurlyClose,
	'[': idl.TokenTypeSquareOpen,
	']': idl.TokenTypeSquareClose,
	'<': idl.TokenTypeAngleOpen,
	'>': idl.TokenTypeAngleClose,
	',': idl.TokenTypeComma,
	':': idl.TokenTypeColon,
	';': idl.TokenTypeSemicolon,
	'.': idl.TokenTypeDot,
	'@': idl.TokenTypeAt,
	'=': idl.TokenTypeEqual,
	'+': idl.TokenTypePlus,
	'-': idl.TokenTypeMinus,
	'*': idl.TokenTypeStar,
	'/': idl.TokenTypeSlash,
	'%': idl.TokenTypePercent,
	'&': idl.TokenTypeAmpersand,
	'|': idl.TokenTypePipe,
	'^': idl.TokenTypeCaret,
	'~': idl.TokenTypeTilde,
	'!': idl.TokenTypeExclamation,
}

// LexerWGSL implements a tokenizer for WGSL source text.
type LexerWGSL struct {
	reporter exc.Reporter
}

func NewLexerWGSL(reporter exc.Reporter) *LexerWGSL {
	return &LexerWGSL{reporter: reporter}
}

func (self *LexerWGSL) Lex(ctx context.Context, f idl.File) (idl.LexerFile, error) {
	return &lexerFileWGSL{
		File:     f,
		reporter: self.reporter,
	}, nil
}

// Tokenize lexes in-memory source and returns every token, trivia included.
func Tokenize(ctx context.Context, reporter exc.Reporter, uri string, source string) ([]*idl.Token, error) {
	lf, err := NewLexerWGSL(reporter).Lex(ctx, fs.NewFileString(uri, source, idl.FileKindWGSL))
	if err != nil {
		return nil, err
	}
	tokens, err := lf.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	return iter.Collect(ctx, tokens)
}

type lexerFileWGSL struct {
	idl.File
	reporter exc.Reporter
}

func (self *lexerFileWGSL) Tokens(ctx context.Context) (idl.Iterator[*idl.Token], error) {
	b, err := self.File.Body(ctx)
	if err != nil {
		return nil, err
	}
	points := iter.NewLookahead(iter.NewUnicodeFileBodyCtx(ctx, b), lexerWGSLLookahead)
	// Prime the lookahead so that position zero is the next unread code point.
	_ = points.Next(ctx)
	return &lexerFileWGSLTokens{
		uri:      self.File.Path(ctx),
		body:     points,
		reporter: self.reporter,
		loc:      idl.Location{Line: 1, Column: 1, Offset: 0},
	}, nil
}

type lexerFileWGSLTokens struct {
	uri      string
	body     idl.Lookahead[idl.CodePoint]
	reporter exc.Reporter
	// loc is the position of the next unread code point.
	loc idl.Location
}

func (self *lexerFileWGSLTokens) Next(ctx context.Context) optional.Optional[*idl.Token] {
	for {
		point := self.peekN(ctx, 0)
		if !point.IsPresent() {
			return optional.None[*idl.Token]()
		}
		r := rune(point.Value())
		start := self.loc
		switch {
		case isBlank(r):
			self.take(ctx)
			continue
		case r == '/' && self.peekRune(ctx, 1) == '/':
			return self.readCommentLine(ctx, start)
		case r == '/' && self.peekRune(ctx, 1) == '*':
			return self.readCommentBlock(ctx, start)
		case isDigit(r) || (r == '.' && isDigit(self.peekRune(ctx, 1))):
			return self.readNumber(ctx, start)
		case isIdentStart(r):
			return self.readIdentifier(ctx, start)
		}
		if t := self.readOperator(ctx, start); t != nil {
			return optional.Some(t)
		}
		self.take(ctx)
		t := newToken(start, self.loc, idl.TokenTypeUnknown, string(r))
		_ = self.reporter.Report(self.exc(t.Span, exc.CodeLexError, fmt.Sprintf("unrecognized character %q", r)))
		return optional.Some(t)
	}
}

func (self *lexerFileWGSLTokens) readOperator(ctx context.Context, start idl.Location) *idl.Token {
	var builder strings.Builder
	for x := uint8(0); x < 3; x = x + 1 {
		n := self.peekN(ctx, x)
		if !n.IsPresent() {
			break
		}
		_, _ = builder.WriteRune(rune(n.Value()))
	}
	candidate := builder.String()
	if len(candidate) >= 3 {
		if kind, ok := operatorsThree[candidate[:3]]; ok {
			return self.takeToken(ctx, start, 3, kind)
		}
	}
	if len(candidate) >= 2 {
		if kind, ok := operatorsTwo[candidate[:2]]; ok {
			return self.takeToken(ctx, start, 2, kind)
		}
	}
	if candidate == "" {
		return nil
	}
	r, _ := utf8.DecodeRuneInString(candidate)
	if kind, ok := operatorsOne[r]; ok {
		return self.takeToken(ctx, start, 1, kind)
	}
	return nil
}

func (self *lexerFileWGSLTokens) takeToken(ctx context.Context, start idl.Location, size int, kind idl.TokenType) *idl.Token {
	var builder strings.Builder
	for x := 0; x < size; x = x + 1 {
		_, _ = builder.WriteRune(self.take(ctx))
	}
	return newToken(start, self.loc, kind, builder.String())
}

// Identifier = ( letter | "_" ) { letter | digit | "_" } .
func (self *lexerFileWGSLTokens) readIdentifier(ctx context.Context, start idl.Location) optional.Optional[*idl.Token] {
	var builder strings.Builder
	for isIdentPart(self.peekRune(ctx, 0)) {
		_, _ = builder.WriteRune(self.take(ctx))
	}
	value := builder.String()
	kind := idl.TokenTypeIdentifier
	if value == "_" {
		kind = idl.TokenTypeUnderscore
	} else if kw, ok := idl.Keywords[value]; ok {
		kind = kw
	}
	return optional.Some(newToken(start, self.loc, kind, value))
}

// The numeric run is scanned generously then validated so that text such as
// 12abc or 0x1.8 yields a single malformed literal rather than several tokens.
func (self *lexerFileWGSLTokens) readNumber(ctx context.Context, start idl.Location) optional.Optional[*idl.Token] {
	var builder strings.Builder
	hex := self.peekRune(ctx, 0) == '0' && (self.peekRune(ctx, 1) == 'x' || self.peekRune(ctx, 1) == 'X')
	var prev rune
	for {
		r := self.peekRune(ctx, 0)
		switch {
		case isIdentPart(r) || r == '.':
		case (r == '+' || r == '-') && !hex && (prev == 'e' || prev == 'E'):
		case (r == '+' || r == '-') && hex && (prev == 'p' || prev == 'P'):
		default:
			value := builder.String()
			lit, err := literal.Number(value)
			if err != nil {
				t := newToken(start, self.loc, idl.TokenTypeInvalidNumber, value)
				_ = self.reporter.Report(self.exc(t.Span, exc.CodeMalformedLiteral, err.Error()))
				return optional.Some(t)
			}
			kind := idl.TokenTypeIntLiteral
			switch lit.Kind {
			case literal.KindUint:
				kind = idl.TokenTypeUintLiteral
			case literal.KindFloat:
				kind = idl.TokenTypeFloatLiteral
			}
			return optional.Some(newToken(start, self.loc, kind, value))
		}
		prev = self.take(ctx)
		_, _ = builder.WriteRune(prev)
	}
}

func (self *lexerFileWGSLTokens) readCommentLine(ctx context.Context, start idl.Location) optional.Optional[*idl.Token] {
	var builder strings.Builder
	for {
		n := self.peekN(ctx, 0)
		if !n.IsPresent() || isLineBreak(rune(n.Value())) {
			return optional.Some(newToken(start, self.loc, idl.TokenTypeComment, builder.String()))
		}
		_, _ = builder.WriteRune(self.take(ctx))
	}
}

// Block comments nest.
func (self *lexerFileWGSLTokens) readCommentBlock(ctx context.Context, start idl.Location) optional.Optional[*idl.Token] {
	var builder strings.Builder
	depth := 0
	for {
		n := self.peekN(ctx, 0)
		if !n.IsPresent() {
			t := newToken(start, self.loc, idl.TokenTypeComment, builder.String())
			_ = self.reporter.Report(self.exc(t.Span, exc.CodeUnterminatedConstruct, "EOF while reading comment block"))
			return optional.Some(t)
		}
		r := rune(n.Value())
		next := self.peekRune(ctx, 1)
		switch {
		case r == '/' && next == '*':
			depth = depth + 1
			_, _ = builder.WriteRune(self.take(ctx))
			_, _ = builder.WriteRune(self.take(ctx))
		case r == '*' && next == '/':
			depth = depth - 1
			_, _ = builder.WriteRune(self.take(ctx))
			_, _ = builder.WriteRune(self.take(ctx))
			if depth == 0 {
				return optional.Some(newToken(start, self.loc, idl.TokenTypeComment, builder.String()))
			}
		default:
			_, _ = builder.WriteRune(self.take(ctx))
		}
	}
}

func (self *lexerFileWGSLTokens) peekN(ctx context.Context, n uint8) optional.Optional[idl.CodePoint] {
	return self.body.Lookahead(ctx, n)
}

// peekRune returns -1 past the end of input.
func (self *lexerFileWGSLTokens) peekRune(ctx context.Context, n uint8) rune {
	p := self.peekN(ctx, n)
	if !p.IsPresent() {
		return -1
	}
	return rune(p.Value())
}

// take consumes one code point and advances the location past it.
func (self *lexerFileWGSLTokens) take(ctx context.Context) rune {
	r := self.peekRune(ctx, 0)
	_ = self.body.Next(ctx)
	if r < 0 {
		return r
	}
	self.loc.Offset = self.loc.Offset + int64(utf8.RuneLen(r))
	switch {
	case r == '\r' && self.peekRune(ctx, 0) == '\n':
		self.loc.Column = self.loc.Column + 1
	case isLineBreak(r):
		self.loc.Line = self.loc.Line + 1
		self.loc.Column = 1
	default:
		self.loc.Column = self.loc.Column + 1
	}
	return r
}

func (self *lexerFileWGSLTokens) exc(span idl.Span, code string, message string) exc.Exception {
	return exc.New(exc.Location{URI: self.uri, Span: span}, code, message)
}

func (self *lexerFileWGSLTokens) Close(ctx context.Context) error {
	return self.body.Close(ctx)
}

func newToken(start idl.Location, end idl.Location, kind idl.TokenType, value string) *idl.Token {
	return &idl.Token{
		Span: idl.Span{
			Start: start,
			End:   end,
		},
		Type:  kind,
		Value: value,
	}
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x0085, 0x2028, 0x2029:
		return true
	}
	return false
}

func isBlank(r rune) bool {
	switch r {
	case ' ', '\t', 0x200E, 0x200F, 0xFEFF, 0x2060, 0x200B, 0x00A0:
		return true
	}
	return isLineBreak(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
