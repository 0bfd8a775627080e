// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package wgsl

import (
	"gopkg.microglot.org/wgsl.go/internal/compiler/literal"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

// Node is implemented by every syntax tree element.
type Node interface {
	Span() idl.Span
	node()
}

// Declaration is a module scope item.
type Declaration interface {
	Node
	declaration()
}

// Statement is an item of a function body.
type Statement interface {
	Node
	statement()
}

// Expression is a value producing construct.
type Expression interface {
	Node
	expression()
}

// TypeExpr is the syntactic description of a type.
type TypeExpr interface {
	Node
	typeExpr()
}

// Pos records the source range of a node.
type Pos struct {
	Loc idl.Span
}

func (p Pos) Span() idl.Span {
	return p.Loc
}

func (Pos) node() {}

type Module struct {
	Pos
	URI          string
	Syntax       idl.Syntax
	Declarations []Declaration
}

type Attribute struct {
	Pos
	Name      string
	Arguments []Expression
}

// DeclKind distinguishes the binding keywords.
type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
	DeclOverride
)

func (k DeclKind) String() string {
	switch k {
	case DeclVar:
		return "var"
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	case DeclOverride:
		return "override"
	default:
		return "unknown"
	}
}

// declarations

type Enable struct {
	Pos
	Name string
}

type GlobalVariable struct {
	Pos
	Attributes     []*Attribute
	AddressSpace   string
	AccessMode     string
	Name           string
	TypeAttributes []*Attribute
	Type           TypeExpr
	Initializer    Expression
}

// GlobalConstant is a module scope let, const or override.
type GlobalConstant struct {
	Pos
	Attributes     []*Attribute
	Kind           DeclKind
	Name           string
	TypeAttributes []*Attribute
	Type           TypeExpr
	Initializer    Expression
}

type TypeAlias struct {
	Pos
	// Keyword is the introducing keyword, type or alias.
	Keyword        string
	Name           string
	TypeAttributes []*Attribute
	Type           TypeExpr
}

type Struct struct {
	Pos
	Attributes []*Attribute
	Name       string
	Members    []*StructMember
}

type StructMember struct {
	Pos
	Attributes     []*Attribute
	Name           string
	TypeAttributes []*Attribute
	Type           TypeExpr
}

type Function struct {
	Pos
	Attributes       []*Attribute
	Name             string
	Parameters       []*Parameter
	ReturnAttributes []*Attribute
	ReturnType       TypeExpr
	Body             *Compound
}

type Parameter struct {
	Pos
	Attributes     []*Attribute
	Name           string
	TypeAttributes []*Attribute
	Type           TypeExpr
}

// BadDeclaration covers source skipped while recovering from an error.
type BadDeclaration struct {
	Pos
}

func (*Enable) declaration()         {}
func (*GlobalVariable) declaration() {}
func (*GlobalConstant) declaration() {}
func (*TypeAlias) declaration()      {}
func (*Struct) declaration()         {}
func (*Function) declaration()       {}
func (*BadDeclaration) declaration() {}

// statements

type Compound struct {
	Pos
	Statements []Statement
}

// AssignOp is = or one of the compound assignment operators.
type AssignOp uint8

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignAnd
	AssignOr
	AssignXor
	AssignShiftLeft
	AssignShiftRight
)

var assignOpText = map[AssignOp]string{
	AssignPlain:      "=",
	AssignAdd:        "+=",
	AssignSub:        "-=",
	AssignMul:        "*=",
	AssignDiv:        "/=",
	AssignMod:        "%=",
	AssignAnd:        "&=",
	AssignOr:         "|=",
	AssignXor:        "^=",
	AssignShiftLeft:  "<<=",
	AssignShiftRight: ">>=",
}

func (op AssignOp) String() string {
	return assignOpText[op]
}

// Assignment stores Value into Target. A phony assignment, _ = e, has no
// Target.
type Assignment struct {
	Pos
	Phony  bool
	Target Expression
	Op     AssignOp
	Value  Expression
}

type Increment struct {
	Pos
	Target Expression
}

type Decrement struct {
	Pos
	Target Expression
}

type CallStatement struct {
	Pos
	Call *Call
}

// If chains through Else, which is nil, an *If or a *Compound.
type If struct {
	Pos
	Condition Expression
	Body      *Compound
	Else      Statement
}

type Switch struct {
	Pos
	Selector Expression
	Clauses  []*SwitchClause
}

// SwitchClause is a case or default arm. Body excludes a trailing
// fallthrough, which is recorded in Fallthrough.
type SwitchClause struct {
	Pos
	Selectors   []Expression
	Default     bool
	Body        *Compound
	Fallthrough bool
}

type Loop struct {
	Pos
	Body       []Statement
	Continuing *Continuing
}

// Continuing is the trailing block of a loop. Its last statement may be a
// BreakIf.
type Continuing struct {
	Pos
	Body *Compound
}

type For struct {
	Pos
	Init      Statement
	Condition Expression
	Update    Statement
	Body      *Compound
}

type While struct {
	Pos
	Condition Expression
	Body      *Compound
}

type Break struct {
	Pos
}

type BreakIf struct {
	Pos
	Condition Expression
}

type Continue struct {
	Pos
}

type Discard struct {
	Pos
}

type Return struct {
	Pos
	Value Expression
}

// VariableDecl is a function scope var, let or const.
type VariableDecl struct {
	Pos
	Kind           DeclKind
	AddressSpace   string
	AccessMode     string
	Name           string
	TypeAttributes []*Attribute
	Type           TypeExpr
	Initializer    Expression
}

// BadStatement covers source skipped while recovering from an error.
type BadStatement struct {
	Pos
}

func (*Compound) statement()      {}
func (*Assignment) statement()    {}
func (*Increment) statement()     {}
func (*Decrement) statement()     {}
func (*CallStatement) statement() {}
func (*If) statement()            {}
func (*Switch) statement()        {}
func (*Loop) statement()          {}
func (*For) statement()           {}
func (*While) statement()         {}
func (*Break) statement()         {}
func (*BreakIf) statement()       {}
func (*Continue) statement()      {}
func (*Discard) statement()       {}
func (*Return) statement()        {}
func (*VariableDecl) statement()  {}
func (*BadStatement) statement()  {}

// expressions

type BinaryOp uint8

const (
	BinaryOr BinaryOp = iota
	BinaryAnd
	BinaryBitOr
	BinaryBitXor
	BinaryBitAnd
	BinaryEqual
	BinaryNotEqual
	BinaryLess
	BinaryGreater
	BinaryLessEqual
	BinaryGreaterEqual
	BinaryShiftLeft
	BinaryShiftRight
	BinaryAdd
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
)

var binaryOpText = map[BinaryOp]string{
	BinaryOr:           "||",
	BinaryAnd:          "&&",
	BinaryBitOr:        "|",
	BinaryBitXor:       "^",
	BinaryBitAnd:       "&",
	BinaryEqual:        "==",
	BinaryNotEqual:     "!=",
	BinaryLess:         "<",
	BinaryGreater:      ">",
	BinaryLessEqual:    "<=",
	BinaryGreaterEqual: ">=",
	BinaryShiftLeft:    "<<",
	BinaryShiftRight:   ">>",
	BinaryAdd:          "+",
	BinarySub:          "-",
	BinaryMul:          "*",
	BinaryDiv:          "/",
	BinaryMod:          "%",
}

func (op BinaryOp) String() string {
	return binaryOpText[op]
}

// Precedence ranks binary operators from 1 (||) to 10 (* / %). Unary
// operators bind tighter than all of them.
func (op BinaryOp) Precedence() int {
	switch op {
	case BinaryOr:
		return 1
	case BinaryAnd:
		return 2
	case BinaryBitOr:
		return 3
	case BinaryBitXor:
		return 4
	case BinaryBitAnd:
		return 5
	case BinaryEqual, BinaryNotEqual:
		return 6
	case BinaryLess, BinaryGreater, BinaryLessEqual, BinaryGreaterEqual:
		return 7
	case BinaryShiftLeft, BinaryShiftRight:
		return 8
	case BinaryAdd, BinarySub:
		return 9
	default:
		return 10
	}
}

type UnaryOp uint8

const (
	UnaryNegate UnaryOp = iota
	UnaryNot
	UnaryComplement
	UnaryDeref
	UnaryAddressOf
)

var unaryOpText = map[UnaryOp]string{
	UnaryNegate:     "-",
	UnaryNot:        "!",
	UnaryComplement: "~",
	UnaryDeref:      "*",
	UnaryAddressOf:  "&",
}

func (op UnaryOp) String() string {
	return unaryOpText[op]
}

type Literal struct {
	Pos
	Value literal.Literal
}

type Identifier struct {
	Pos
	Name string
}

type Paren struct {
	Pos
	Inner Expression
}

// Call is a type constructor or a function call. The two share syntax; when
// the callee is a plain name the parser cannot tell them apart.
type Call struct {
	Pos
	Callee    TypeExpr
	Arguments []Expression
}

// Deferred reports whether telling a constructor from a call needs name
// resolution.
func (c *Call) Deferred() bool {
	_, ok := c.Callee.(*NamedType)
	return ok
}

type Bitcast struct {
	Pos
	Target  TypeExpr
	Operand Expression
}

type Binary struct {
	Pos
	Op    BinaryOp
	Left  Expression
	Right Expression
}

type Unary struct {
	Pos
	Op      UnaryOp
	Operand Expression
}

type Subscript struct {
	Pos
	Object Expression
	Index  Expression
}

// Member is a field access or a vector swizzle; which one is a matter for
// type checking.
type Member struct {
	Pos
	Object Expression
	Field  string
}

// BadExpression stands in for a malformed literal.
type BadExpression struct {
	Pos
	Text string
}

func (*Literal) expression()       {}
func (*Identifier) expression()    {}
func (*Paren) expression()         {}
func (*Call) expression()          {}
func (*Bitcast) expression()       {}
func (*Binary) expression()        {}
func (*Unary) expression()         {}
func (*Subscript) expression()     {}
func (*Member) expression()        {}
func (*BadExpression) expression() {}

// types

type ScalarKind uint8

const (
	ScalarBool ScalarKind = iota
	ScalarI32
	ScalarU32
	ScalarF32
)

var scalarKindText = map[ScalarKind]string{
	ScalarBool: "bool",
	ScalarI32:  "i32",
	ScalarU32:  "u32",
	ScalarF32:  "f32",
}

func (k ScalarKind) String() string {
	return scalarKindText[k]
}

type ScalarType struct {
	Pos
	Kind ScalarKind
}

// VectorType is vecN<T>. Element is nil for an inferred constructor such as
// vec3(1.0).
type VectorType struct {
	Pos
	Size    int
	Element TypeExpr
}

// MatrixType is matCxR<T>. Element is nil for an inferred constructor.
type MatrixType struct {
	Pos
	Columns int
	Rows    int
	Element TypeExpr
}

// ArrayType has a nil Size when runtime sized and a nil Element for an
// inferred constructor.
type ArrayType struct {
	Pos
	Element TypeExpr
	Size    Expression
}

type PointerType struct {
	Pos
	AddressSpace string
	Pointee      TypeExpr
	AccessMode   string
}

type AtomicType struct {
	Pos
	Element TypeExpr
}

type SamplerType struct {
	Pos
	Comparison bool
}

type TextureDimension uint8

const (
	Texture1D TextureDimension = iota
	Texture2D
	Texture2DArray
	Texture3D
	TextureCube
	TextureCubeArray
)

var textureDimensionText = map[TextureDimension]string{
	Texture1D:        "1d",
	Texture2D:        "2d",
	Texture2DArray:   "2d_array",
	Texture3D:        "3d",
	TextureCube:      "cube",
	TextureCubeArray: "cube_array",
}

func (d TextureDimension) String() string {
	return textureDimensionText[d]
}

// TextureType covers sampled, multisampled and depth textures. Sampled is nil
// for depth textures.
type TextureType struct {
	Pos
	Dimension    TextureDimension
	Multisampled bool
	Depth        bool
	Sampled      TypeExpr
}

type StorageTextureType struct {
	Pos
	Dimension TextureDimension
	Format    string
	Access    string
}

// NamedType refers to a declared struct or alias.
type NamedType struct {
	Pos
	Name string
}

func (*ScalarType) typeExpr()         {}
func (*VectorType) typeExpr()         {}
func (*MatrixType) typeExpr()         {}
func (*ArrayType) typeExpr()          {}
func (*PointerType) typeExpr()        {}
func (*AtomicType) typeExpr()         {}
func (*SamplerType) typeExpr()        {}
func (*TextureType) typeExpr()        {}
func (*StorageTextureType) typeExpr() {}
func (*NamedType) typeExpr()          {}
