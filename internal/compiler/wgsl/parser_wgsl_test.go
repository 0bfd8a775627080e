// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package wgsl

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/wgsl.go/internal/compiler/literal"
	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/fs"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

const testURI = "/test.wgsl"

func prepare(t *testing.T, rep exc.Reporter, input string, options ...ParserOption) *parserWGSLTokens {
	t.Helper()
	ctx := context.Background()
	lexerFile, err := NewLexerWGSL(rep).Lex(ctx, fs.NewFileString(testURI, input, idl.FileKindWGSL))
	require.Nil(t, err)
	p, err := NewParserWGSL(rep, options...).PrepareParse(ctx, lexerFile)
	require.Nil(t, err)
	return p
}

// clearSpans zeroes the position of every node so trees can be compared by
// shape.
func clearSpans[T Node](node T) T {
	Walk(node, func(n Node) bool {
		v := reflect.ValueOf(n)
		if v.Kind() == reflect.Pointer && !v.IsNil() {
			if pos := v.Elem().FieldByName("Pos"); pos.IsValid() && pos.CanSet() {
				pos.Set(reflect.Zero(pos.Type()))
			}
		}
		return true
	})
	return node
}

func lit(t *testing.T, text string) *Literal {
	t.Helper()
	value, err := literal.Number(text)
	require.NoError(t, err)
	return &Literal{Value: value}
}

func codes(rep exc.Reporter) []string {
	var result []string
	for _, e := range rep.Reported() {
		result = append(result, e.Code())
	}
	return result
}

func sexpr(e Expression) string {
	switch e := e.(type) {
	case *Literal:
		return e.Value.Text
	case *Identifier:
		return e.Name
	case *Paren:
		return "(paren " + sexpr(e.Inner) + ")"
	case *Binary:
		return "(" + e.Op.String() + " " + sexpr(e.Left) + " " + sexpr(e.Right) + ")"
	case *Unary:
		return "(" + e.Op.String() + " " + sexpr(e.Operand) + ")"
	case *Subscript:
		return "([] " + sexpr(e.Object) + " " + sexpr(e.Index) + ")"
	case *Member:
		return "(. " + sexpr(e.Object) + " " + e.Field + ")"
	case *Call:
		parts := []string{"call", Print(e.Callee, idl.SyntaxModern)}
		for _, arg := range e.Arguments {
			parts = append(parts, sexpr(arg))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *Bitcast:
		return "(bitcast " + Print(e.Target, idl.SyntaxModern) + " " + sexpr(e.Operand) + ")"
	case *BadExpression:
		return "(bad " + e.Text + ")"
	}
	return "?"
}

func TestParseEndToEnd(t *testing.T) {
	t.Parallel()

	rep := exc.NewReporter(nil)
	input := "fn main() -> f32 { let x: f32 = 1.0 + 2.0 * 3.0; return x; }"
	mod, err := ParseString(context.Background(), rep, testURI, input)
	require.NoError(t, err)
	expected := &Module{
		URI:    testURI,
		Syntax: idl.SyntaxModern,
		Declarations: []Declaration{
			&Function{
				Name:       "main",
				ReturnType: &ScalarType{Kind: ScalarF32},
				Body: &Compound{
					Statements: []Statement{
						&VariableDecl{
							Kind: DeclLet,
							Name: "x",
							Type: &ScalarType{Kind: ScalarF32},
							Initializer: &Binary{
								Op:   BinaryAdd,
								Left: lit(t, "1.0"),
								Right: &Binary{
									Op:    BinaryMul,
									Left:  lit(t, "2.0"),
									Right: lit(t, "3.0"),
								},
							},
						},
						&Return{Value: &Identifier{Name: "x"}},
					},
				},
			},
		},
	}
	require.Equal(t, expected, clearSpans(mod))
	require.Empty(t, rep.Reported())
}

func TestParseExpression(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{input: "1 + 2 * 3", expected: "(+ 1 (* 2 3))"},
		{input: "a || b && c", expected: "(|| a (&& b c))"},
		{input: "a - b - c", expected: "(- (- a b) c)"},
		{input: "a / b * c % d", expected: "(% (* (/ a b) c) d)"},
		{input: "-a * b", expected: "(* (- a) b)"},
		{input: "!a == b", expected: "(== (! a) b)"},
		{input: "a - - b", expected: "(- a (- b))"},
		{input: "~-x", expected: "(~ (- x))"},
		{input: "a << 1 + 2", expected: "(<< a (+ 1 2))"},
		{input: "a & b | c ^ d", expected: "(| (& a b) (^ c d))"},
		{input: "a < b == c > d", expected: "(== (< a b) (> c d))"},
		{input: "a <= b != c >= d", expected: "(!= (<= a b) (>= c d))"},
		{input: "a >> 2u", expected: "(>> a 2u)"},
		{input: "(a + b) * c", expected: "(* (paren (+ a b)) c)"},
		{input: "*p.x", expected: "(* (. p x))"},
		{input: "&a[0]", expected: "(& ([] a 0))"},
		{input: "a[i].xyz", expected: "(. ([] a i) xyz)"},
		{input: "m[0][1]", expected: "([] ([] m 0) 1)"},
		{input: "f(x, 1,)", expected: "(call f x 1)"},
		{input: "f()", expected: "(call f)"},
		{input: "f(x).y", expected: "(. (call f x) y)"},
		{input: "vec3<f32>(1.0, 0.0, 0.0)", expected: "(call vec3<f32> 1.0 0.0 0.0)"},
		{input: "vec2(1, 2)", expected: "(call vec2 1 2)"},
		{input: "mat2x2<f32>(a, b)", expected: "(call mat2x2<f32> a b)"},
		{input: "array<f32, 2>(1.0, 2.0)", expected: "(call array<f32, 2> 1.0 2.0)"},
		{input: "array(1, 2)", expected: "(call array 1 2)"},
		{input: "f32(i) + u32(j)", expected: "(+ (call f32 i) (call u32 j))"},
		{input: "bitcast<u32>(x) >> 1u", expected: "(>> (bitcast u32 x) 1u)"},
		{input: "true && !false", expected: "(&& true (! false))"},
		{input: "0x1p-2 * .5f", expected: "(* 0x1p-2 .5f)"},
		{input: "12abc + 1", expected: "(+ (bad 12abc) 1)"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			rep := exc.NewReporter(nil)
			p := prepare(t, rep, testCase.input)
			e := p.parseExpression()
			require.NotNil(t, e)
			require.Equal(t, testCase.expected, sexpr(e))
			require.Nil(t, p.peek())
		})
	}
}

func TestParseExpressionErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected []string
	}{
		{input: "1 +", expected: []string{exc.CodeUnterminatedConstruct}},
		{input: "(a + b", expected: []string{exc.CodeUnterminatedConstruct}},
		{input: "f(a b)", expected: []string{exc.CodeUnexpectedToken}},
		{input: "a + )", expected: []string{exc.CodeUnexpectedToken}},
		{input: "bitcast(x)", expected: []string{exc.CodeUnexpectedToken}},
		{input: "vec3 + 1", expected: []string{exc.CodeMalformedType}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			rep := exc.NewReporter(nil)
			p := prepare(t, rep, testCase.input)
			require.Nil(t, p.parseExpression())
			require.Equal(t, testCase.expected, codes(rep))
		})
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()

	f32 := func() TypeExpr { return &ScalarType{Kind: ScalarF32} }
	testCases := []struct {
		input    string
		expected TypeExpr
		printed  string
	}{
		{input: "bool", expected: &ScalarType{Kind: ScalarBool}},
		{input: "f32", expected: f32()},
		{input: "vec3<f32>", expected: &VectorType{Size: 3, Element: f32()}},
		{input: "mat2x3<f32>", expected: &MatrixType{Columns: 2, Rows: 3, Element: f32()}},
		{input: "array<vec4<f32>>", expected: &ArrayType{Element: &VectorType{Size: 4, Element: f32()}}},
		{input: "array<f32, 4u>", expected: &ArrayType{Element: f32(), Size: lit(t, "4u")}},
		{input: "array<i32, N,>", expected: &ArrayType{Element: &ScalarType{Kind: ScalarI32}, Size: &Identifier{Name: "N"}}, printed: "array<i32, N>"},
		{input: "ptr<function, vec2<f32>>", expected: &PointerType{AddressSpace: "function", Pointee: &VectorType{Size: 2, Element: f32()}}},
		{
			input: "ptr<storage, array<u32>, read_write>",
			expected: &PointerType{
				AddressSpace: "storage",
				Pointee:      &ArrayType{Element: &ScalarType{Kind: ScalarU32}},
				AccessMode:   "read_write",
			},
		},
		{input: "atomic<u32>", expected: &AtomicType{Element: &ScalarType{Kind: ScalarU32}}},
		{input: "sampler", expected: &SamplerType{}},
		{input: "sampler_comparison", expected: &SamplerType{Comparison: true}},
		{input: "texture_2d<f32>", expected: &TextureType{Dimension: Texture2D, Sampled: f32()}},
		{input: "texture_cube_array<i32>", expected: &TextureType{Dimension: TextureCubeArray, Sampled: &ScalarType{Kind: ScalarI32}}},
		{input: "texture_multisampled_2d<u32>", expected: &TextureType{Dimension: Texture2D, Multisampled: true, Sampled: &ScalarType{Kind: ScalarU32}}},
		{input: "texture_depth_cube", expected: &TextureType{Dimension: TextureCube, Depth: true}},
		{input: "texture_depth_multisampled_2d", expected: &TextureType{Dimension: Texture2D, Depth: true, Multisampled: true}},
		{input: "texture_storage_2d_array<r32float, read>", expected: &StorageTextureType{Dimension: Texture2DArray, Format: "r32float", Access: "read"}},
		{input: "texture_storage_3d<rgba8unorm_srgb, write>", expected: &StorageTextureType{Dimension: Texture3D, Format: "rgba8unorm_srgb", Access: "write"}},
		{input: "Light", expected: &NamedType{Name: "Light"}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			rep := exc.NewReporter(nil)
			p := prepare(t, rep, testCase.input)
			actual := p.parseType()
			require.NotNil(t, actual)
			require.Equal(t, testCase.expected, clearSpans(actual))
			require.Nil(t, p.peek())
			require.Empty(t, rep.Reported())
			printed := testCase.printed
			if printed == "" {
				printed = testCase.input
			}
			require.Equal(t, printed, Print(actual, idl.SyntaxModern))
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected []string
	}{
		{input: "atomic<f32>", expected: []string{exc.CodeMalformedType}},
		{input: "vec3", expected: []string{exc.CodeMalformedType}},
		{input: "vec3<f32", expected: []string{exc.CodeUnterminatedConstruct}},
		{input: "texture_storage_2d<rgba9, write>", expected: []string{exc.CodeMalformedType}},
		{input: "texture_storage_2d<rgba8unorm, readwrite>", expected: []string{exc.CodeMalformedType}},
		{input: "texture_2d<bool>", expected: []string{exc.CodeMalformedType}},
		{input: "ptr<space, f32>", expected: []string{exc.CodeMalformedType}},
		{input: "array<f32, 1.5>", expected: []string{exc.CodeMalformedType}},
		{input: "array<f32; 4>", expected: []string{exc.CodeUnexpectedToken}},
		{input: "1.0", expected: []string{exc.CodeUnexpectedToken}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			rep := exc.NewReporter(nil)
			p := prepare(t, rep, testCase.input)
			require.Nil(t, p.parseType())
			require.Equal(t, testCase.expected, codes(rep))
		})
	}
}

func TestParseStatement(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		syntax   idl.Syntax
		input    string
		expected string
	}{
		{input: "x = 1;", expected: "x = 1;\n"},
		{input: "x+=1;", expected: "x += 1;\n"},
		{input: "x <<= 2u;", expected: "x <<= 2u;\n"},
		{input: "a[i].y = b;", expected: "a[i].y = b;\n"},
		{input: "*p = 2;", expected: "*p = 2;\n"},
		{input: "(*p).x = 2;", expected: "(*p).x = 2;\n"},
		{input: "i++;", expected: "i++;\n"},
		{input: "a.b--;", expected: "a.b--;\n"},
		{input: "_ = f();", expected: "_ = f();\n"},
		{input: "f(a, b,);", expected: "f(a, b);\n"},
		{input: "let v = vec3(1.0);", expected: "let v = vec3(1.0);\n"},
		{input: "var<function> n: i32 = 0;", expected: "var<function> n: i32 = 0;\n"},
		{input: "var a: array<vec2<f32>>= b;", expected: "var a: array<vec2<f32>> = b;\n"},
		{input: "const k = 4u;", expected: "const k = 4u;\n"},
		{input: "return;", expected: "return;\n"},
		{input: "return a;", expected: "return a;\n"},
		{input: "discard;", expected: "discard;\n"},
		{input: "{ ; }", expected: "{\n}\n"},
		{
			input:    "if a { b = 1; } else if c { b = 2; } else { b = 3; }",
			expected: "if a {\n  b = 1;\n} else if c {\n  b = 2;\n} else {\n  b = 3;\n}\n",
		},
		{input: "if (a) {}", expected: "if (a) {\n}\n"},
		{input: "while i < 4 { i++; }", expected: "while i < 4 {\n  i++;\n}\n"},
		{input: "for (var i = 0; i < 4; i++) { continue; }", expected: "for (var i = 0; i < 4; i++) {\n  continue;\n}\n"},
		{input: "for (;;) { break; }", expected: "for (;;) {\n  break;\n}\n"},
		{input: "for (i = 0; ; f()) {}", expected: "for (i = 0;; f()) {\n}\n"},
		{
			input:    "loop { a++; continuing { b++; break if a > 3; } }",
			expected: "loop {\n  a++;\n  continuing {\n    b++;\n    break if a > 3;\n  }\n}\n",
		},
		{
			input:    "switch x { case 1, 2 { a = 1; fallthrough; } case 3: {} case 4, default {} }",
			expected: "switch x {\n  case 1, 2 {\n    a = 1;\n    fallthrough;\n  }\n  case 3 {\n  }\n  case 4, default {\n  }\n}\n",
		},
		{
			name:     "legacy else if chain",
			syntax:   idl.SyntaxLegacy,
			input:    "if (a) { } elseif (b) { } else { }",
			expected: "if (a) {\n} elseif (b) {\n} else {\n}\n",
		},
		{
			name:     "legacy switch",
			syntax:   idl.SyntaxLegacy,
			input:    "switch (x) { case -1: { } default: { } }",
			expected: "switch (x) {\n  case -1: {\n  }\n  default: {\n  }\n}\n",
		},
		{
			name:     "legacy variable",
			syntax:   idl.SyntaxLegacy,
			input:    "var x: f32;",
			expected: "var x: f32;\n",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		name := testCase.name
		if name == "" {
			name = testCase.input
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rep := exc.NewReporter(nil)
			p := prepare(t, rep, testCase.input, WithSyntax(testCase.syntax))
			statement := p.parseStatement()
			require.NotNil(t, statement)
			require.Empty(t, rep.Reported())
			require.Nil(t, p.peek())
			require.Equal(t, testCase.expected, Print(statement, testCase.syntax))
		})
	}
}

func TestParseStatementErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		syntax   idl.Syntax
		input    string
		expected []string
		// cascade compares only the leading codes; recovery may report the
		// unbalanced braces left behind.
		cascade bool
	}{
		{input: "x;", expected: []string{exc.CodeUnexpectedToken}},
		{input: "1 = x;", expected: []string{exc.CodeUnexpectedToken}},
		{input: "f() = 1;", expected: []string{exc.CodeUnexpectedToken}},
		{input: "x++ + 1;", expected: []string{exc.CodeUnexpectedToken}},
		{input: "break if x;", expected: []string{exc.CodeUnexpectedToken}},
		{input: "fallthrough;", expected: []string{exc.CodeUnexpectedToken}},
		{input: "override x = 1;", expected: []string{exc.CodeUnexpectedToken}},
		{input: "let x;", expected: []string{exc.CodeUnexpectedToken}},
		{input: "var x;", expected: []string{exc.CodeUnexpectedToken}},
		{input: "if (a { }", expected: []string{exc.CodeUnexpectedToken}},
		{input: "return 1", expected: []string{exc.CodeUnexpectedToken}},
		{input: "switch x { }", expected: []string{exc.CodeUnexpectedToken}},
		{input: "switch x { case 1 { fallthrough; a = 1; } }", expected: []string{exc.CodeUnexpectedToken}, cascade: true},
		{input: "loop { continuing { break if a; b = 1; } }", expected: []string{exc.CodeUnexpectedToken}},
		{input: "let x = 1; x = 0x;", expected: []string{exc.CodeMalformedLiteral}},
		{input: "switch x { case -1u { } }", expected: []string{exc.CodeMalformedLiteral}},
		{name: "legacy compound assignment", syntax: idl.SyntaxLegacy, input: "x += 1;", expected: []string{exc.CodeUnexpectedToken}},
		{name: "legacy increment", syntax: idl.SyntaxLegacy, input: "x++;", expected: []string{exc.CodeUnexpectedToken}},
		{name: "legacy while", syntax: idl.SyntaxLegacy, input: "while (x) { }", expected: []string{exc.CodeUnexpectedToken}},
		{name: "legacy const", syntax: idl.SyntaxLegacy, input: "const x = 1;", expected: []string{exc.CodeUnexpectedToken}},
		{name: "legacy break if", syntax: idl.SyntaxLegacy, input: "loop { continuing { break if a; } }", expected: []string{exc.CodeUnexpectedToken}},
		{name: "legacy condition without parentheses", syntax: idl.SyntaxLegacy, input: "if a { }", expected: []string{exc.CodeUnexpectedToken}},
		{name: "legacy variable requires a type", syntax: idl.SyntaxLegacy, input: "var x = 1;", expected: []string{exc.CodeUnexpectedToken}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		name := testCase.name
		if name == "" {
			name = testCase.input
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rep := exc.NewReporter(nil)
			_, err := ParseString(context.Background(), rep, testURI, "fn f() { "+testCase.input+" }", WithSyntax(testCase.syntax))
			require.Error(t, err)
			var me exc.MultiException
			require.True(t, errors.As(err, &me))
			actual := me.Codes()
			if testCase.cascade {
				require.GreaterOrEqual(t, len(actual), len(testCase.expected))
				actual = actual[:len(testCase.expected)]
			}
			require.Equal(t, testCase.expected, actual)
		})
	}
}

func TestSwitchClauses(t *testing.T) {
	t.Parallel()

	rep := exc.NewReporter(nil)
	p := prepare(t, rep, "switch x { case 1: { a = 1; fallthrough; } case 2, 3 { a = 2; } default { } }")
	statement := p.parseStatement()
	require.Empty(t, rep.Reported())
	s, ok := statement.(*Switch)
	require.True(t, ok)
	require.Len(t, s.Clauses, 3)

	require.True(t, s.Clauses[0].Fallthrough)
	require.Len(t, s.Clauses[0].Body.Statements, 1)
	require.False(t, s.Clauses[0].Default)

	require.False(t, s.Clauses[1].Fallthrough)
	require.Len(t, s.Clauses[1].Selectors, 2)
	require.Len(t, s.Clauses[1].Body.Statements, 1)

	require.True(t, s.Clauses[2].Default)
	require.Empty(t, s.Clauses[2].Selectors)
	require.False(t, s.Clauses[2].Fallthrough)
}

func TestLoopContinuing(t *testing.T) {
	t.Parallel()

	rep := exc.NewReporter(nil)
	p := prepare(t, rep, "loop { a++; continuing { b++; break if a > 3; } }")
	statement := p.parseStatement()
	require.Empty(t, rep.Reported())
	loop, ok := statement.(*Loop)
	require.True(t, ok)
	require.Len(t, loop.Body, 1)
	require.NotNil(t, loop.Continuing)
	body := loop.Continuing.Body.Statements
	require.Len(t, body, 2)
	breakIf, ok := body[1].(*BreakIf)
	require.True(t, ok)
	require.Equal(t, "(> a 3)", sexpr(breakIf.Condition))
}
