// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package wgsl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

func newTestToken(line int32, col int32, offset int64, endLine int32, endCol int32, endOffset int64, kind idl.TokenType, value string) *idl.Token {
	return newToken(
		idl.Location{Line: line, Column: col, Offset: offset},
		idl.Location{Line: endLine, Column: endCol, Offset: endOffset},
		kind,
		value,
	)
}

func TestLexerSpans(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []*idl.Token
	}{
		{
			name:     "empty file",
			input:    "",
			expected: nil,
		},
		{
			name:  "lines and columns",
			input: "a\n  bc",
			expected: []*idl.Token{
				newTestToken(1, 1, 0, 1, 2, 1, idl.TokenTypeIdentifier, "a"),
				newTestToken(2, 3, 4, 2, 5, 6, idl.TokenTypeIdentifier, "bc"),
			},
		},
		{
			name:  "carriage return line feed",
			input: "a\r\nb",
			expected: []*idl.Token{
				newTestToken(1, 1, 0, 1, 2, 1, idl.TokenTypeIdentifier, "a"),
				newTestToken(2, 1, 3, 2, 2, 4, idl.TokenTypeIdentifier, "b"),
			},
		},
		{
			name:  "columns count code points",
			input: "/* é */ x",
			expected: []*idl.Token{
				newTestToken(1, 1, 0, 1, 8, 8, idl.TokenTypeComment, "/* é */"),
				newTestToken(1, 9, 9, 1, 10, 10, idl.TokenTypeIdentifier, "x"),
			},
		},
		{
			name:  "longest operator",
			input: "a>>=b",
			expected: []*idl.Token{
				newTestToken(1, 1, 0, 1, 2, 1, idl.TokenTypeIdentifier, "a"),
				newTestToken(1, 2, 1, 1, 5, 4, idl.TokenTypeShiftRightEqual, ">>="),
				newTestToken(1, 5, 4, 1, 6, 5, idl.TokenTypeIdentifier, "b"),
			},
		},
		{
			name:  "line comment",
			input: "// note\nfn",
			expected: []*idl.Token{
				newTestToken(1, 1, 0, 1, 8, 7, idl.TokenTypeComment, "// note"),
				newTestToken(2, 1, 8, 2, 3, 10, idl.TokenTypeKeywordFn, "fn"),
			},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			rep := exc.NewReporter(nil)
			tokens, err := Tokenize(context.Background(), rep, "/test.wgsl", testCase.input)
			require.NoError(t, err)
			require.Equal(t, testCase.expected, tokens)
			require.Empty(t, rep.Reported())
		})
	}
}

func TestLexerKinds(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []idl.TokenType
		codes    []string
	}{
		{
			name:  "function header",
			input: "fn main() -> f32 {}",
			expected: []idl.TokenType{
				idl.TokenTypeKeywordFn,
				idl.TokenTypeIdentifier,
				idl.TokenTypeParenOpen,
				idl.TokenTypeParenClose,
				idl.TokenTypeArrow,
				idl.TokenTypeKeywordF32,
				idl.TokenTypeCurlyOpen,
				idl.TokenTypeCurlyClose,
			},
		},
		{
			name:  "operators",
			input: "<<= << <= < >> >= > == != && || ++ -- += -= *= /= %= &= |= ^=",
			expected: []idl.TokenType{
				idl.TokenTypeShiftLeftEqual,
				idl.TokenTypeShiftLeft,
				idl.TokenTypeLesserEqual,
				idl.TokenTypeAngleOpen,
				idl.TokenTypeShiftRight,
				idl.TokenTypeGreaterEqual,
				idl.TokenTypeAngleClose,
				idl.TokenTypeComparison,
				idl.TokenTypeNotComparison,
				idl.TokenTypeAmpersandAmpersand,
				idl.TokenTypePipePipe,
				idl.TokenTypePlusPlus,
				idl.TokenTypeMinusMinus,
				idl.TokenTypePlusEqual,
				idl.TokenTypeMinusEqual,
				idl.TokenTypeMultiplyEqual,
				idl.TokenTypeDivideEqual,
				idl.TokenTypeModuloEqual,
				idl.TokenTypeAndEqual,
				idl.TokenTypeOrEqual,
				idl.TokenTypeXorEqual,
			},
		},
		{
			name:  "numbers",
			input: "0 12 0x1F 12u 3i 1.5 .5 1e3 1.5e-3 3f 0x1p-2 0x1.8p4f",
			expected: []idl.TokenType{
				idl.TokenTypeIntLiteral,
				idl.TokenTypeIntLiteral,
				idl.TokenTypeIntLiteral,
				idl.TokenTypeUintLiteral,
				idl.TokenTypeIntLiteral,
				idl.TokenTypeFloatLiteral,
				idl.TokenTypeFloatLiteral,
				idl.TokenTypeFloatLiteral,
				idl.TokenTypeFloatLiteral,
				idl.TokenTypeFloatLiteral,
				idl.TokenTypeFloatLiteral,
				idl.TokenTypeFloatLiteral,
			},
		},
		{
			name:     "sign is not part of a number",
			input:    "-1",
			expected: []idl.TokenType{idl.TokenTypeMinus, idl.TokenTypeIntLiteral},
		},
		{
			name:     "subtraction after exponent free number",
			input:    "2-1",
			expected: []idl.TokenType{idl.TokenTypeIntLiteral, idl.TokenTypeMinus, idl.TokenTypeIntLiteral},
		},
		{
			name:     "malformed number",
			input:    "12abc 1uu",
			expected: []idl.TokenType{idl.TokenTypeInvalidNumber, idl.TokenTypeInvalidNumber},
			codes:    []string{exc.CodeMalformedLiteral, exc.CodeMalformedLiteral},
		},
		{
			name:     "underscore",
			input:    "_ _a",
			expected: []idl.TokenType{idl.TokenTypeUnderscore, idl.TokenTypeIdentifier},
		},
		{
			name:     "keywords",
			input:    "elseif texture_depth_2d sampler_comparison vec3 bitcast",
			expected: []idl.TokenType{idl.TokenTypeKeywordElseif, idl.TokenTypeKeywordTextureDepth2d, idl.TokenTypeKeywordSamplerComparison, idl.TokenTypeKeywordVec3, idl.TokenTypeKeywordBitcast},
		},
		{
			name:     "address spaces are identifiers",
			input:    "storage read_write rgba8unorm",
			expected: []idl.TokenType{idl.TokenTypeIdentifier, idl.TokenTypeIdentifier, idl.TokenTypeIdentifier},
		},
		{
			name:     "nested block comment",
			input:    "/* a /* b */ c */ x",
			expected: []idl.TokenType{idl.TokenTypeComment, idl.TokenTypeIdentifier},
		},
		{
			name:     "unterminated block comment",
			input:    "x /* a",
			expected: []idl.TokenType{idl.TokenTypeIdentifier, idl.TokenTypeComment},
			codes:    []string{exc.CodeUnterminatedConstruct},
		},
		{
			name:     "unknown character",
			input:    "a $ b",
			expected: []idl.TokenType{idl.TokenTypeIdentifier, idl.TokenTypeUnknown, idl.TokenTypeIdentifier},
			codes:    []string{exc.CodeLexError},
		},
		{
			name:     "blank code points",
			input:    "\uFEFFa b\u200Bc\u2060d",
			expected: []idl.TokenType{idl.TokenTypeIdentifier, idl.TokenTypeIdentifier, idl.TokenTypeIdentifier, idl.TokenTypeIdentifier},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			rep := exc.NewReporter(nil)
			tokens, err := Tokenize(context.Background(), rep, "/test.wgsl", testCase.input)
			require.NoError(t, err)
			kinds := make([]idl.TokenType, 0, len(tokens))
			for _, tok := range tokens {
				kinds = append(kinds, tok.Type)
			}
			require.Equal(t, testCase.expected, kinds)
			var codes []string
			for _, e := range rep.Reported() {
				codes = append(codes, e.Code())
			}
			require.Equal(t, testCase.codes, codes)
		})
	}
}

func TestLexerMalformedLiteralLocation(t *testing.T) {
	t.Parallel()

	rep := exc.NewReporter(nil)
	_, err := Tokenize(context.Background(), rep, "/test.wgsl", "let x = 0x;")
	require.NoError(t, err)
	reported := rep.Reported()
	require.Len(t, reported, 1)
	require.Equal(t, exc.CodeMalformedLiteral, reported[0].Code())
	require.Equal(t, "/test.wgsl", reported[0].Location().URI)
	require.Equal(t, int32(1), reported[0].Location().Start.Line)
	require.Equal(t, int32(9), reported[0].Location().Start.Column)
	require.Equal(t, int64(10), reported[0].Location().End.Offset)
}
