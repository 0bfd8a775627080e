// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package wgsl

import (
	"google.golang.org/protobuf/types/known/structpb"

	"gopkg.microglot.org/wgsl.go/internal/idl"
)

// Describe converts a module into a protobuf Struct. Every node becomes an
// object with a "kind" field naming its variant. Source spans are included
// only when withSpans is set, which makes the output of two parses of
// equivalent source comparable with proto.Equal.
func Describe(m *Module, withSpans bool) (*structpb.Struct, error) {
	d := &describer{withSpans: withSpans}
	return structpb.NewStruct(d.node(m))
}

type describer struct {
	withSpans bool
}

func (d *describer) object(kind string, n Node) map[string]any {
	this := map[string]any{"kind": kind}
	if d.withSpans {
		this["span"] = describeSpan(n.Span())
	}
	return this
}

func describeSpan(span idl.Span) map[string]any {
	return map[string]any{
		"start": describeLocation(span.Start),
		"end":   describeLocation(span.End),
	}
}

func describeLocation(loc idl.Location) map[string]any {
	return map[string]any{
		"line":   loc.Line,
		"column": loc.Column,
		"offset": loc.Offset,
	}
}

func (d *describer) list(nodes []Node) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.node(n))
	}
	return out
}

func (d *describer) attributes(attrs []*Attribute) []any {
	out := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, d.node(attr))
	}
	return out
}

func (d *describer) expressions(es []Expression) []any {
	out := make([]any, 0, len(es))
	for _, e := range es {
		out = append(out, d.optional(e))
	}
	return out
}

func (d *describer) statements(ss []Statement) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, d.optional(s))
	}
	return out
}

// optional describes a possibly absent child as null.
func (d *describer) optional(n Node) any {
	switch v := n.(type) {
	case nil:
		return nil
	case *Compound:
		if v == nil {
			return nil
		}
	case *Continuing:
		if v == nil {
			return nil
		}
	}
	return d.node(n)
}

func (d *describer) node(n Node) map[string]any {
	switch n := n.(type) {
	case *Module:
		this := d.object("module", n)
		this["uri"] = n.URI
		this["syntax"] = n.Syntax.String()
		decls := make([]Node, 0, len(n.Declarations))
		for _, decl := range n.Declarations {
			decls = append(decls, decl)
		}
		this["declarations"] = d.list(decls)
		return this
	case *Attribute:
		this := d.object("attribute", n)
		this["name"] = n.Name
		this["arguments"] = d.expressions(n.Arguments)
		return this

	case *Enable:
		this := d.object("enable", n)
		this["name"] = n.Name
		return this
	case *GlobalVariable:
		this := d.object("global_variable", n)
		this["attributes"] = d.attributes(n.Attributes)
		this["address_space"] = n.AddressSpace
		this["access_mode"] = n.AccessMode
		this["name"] = n.Name
		this["type_attributes"] = d.attributes(n.TypeAttributes)
		this["type"] = d.optional(n.Type)
		this["initializer"] = d.optional(n.Initializer)
		return this
	case *GlobalConstant:
		this := d.object("global_constant", n)
		this["attributes"] = d.attributes(n.Attributes)
		this["binding"] = n.Kind.String()
		this["name"] = n.Name
		this["type_attributes"] = d.attributes(n.TypeAttributes)
		this["type"] = d.optional(n.Type)
		this["initializer"] = d.optional(n.Initializer)
		return this
	case *TypeAlias:
		this := d.object("type_alias", n)
		this["keyword"] = n.Keyword
		this["name"] = n.Name
		this["type_attributes"] = d.attributes(n.TypeAttributes)
		this["type"] = d.optional(n.Type)
		return this
	case *Struct:
		this := d.object("struct", n)
		this["attributes"] = d.attributes(n.Attributes)
		this["name"] = n.Name
		members := make([]any, 0, len(n.Members))
		for _, member := range n.Members {
			members = append(members, d.node(member))
		}
		this["members"] = members
		return this
	case *StructMember:
		this := d.object("struct_member", n)
		this["attributes"] = d.attributes(n.Attributes)
		this["name"] = n.Name
		this["type_attributes"] = d.attributes(n.TypeAttributes)
		this["type"] = d.optional(n.Type)
		return this
	case *Function:
		this := d.object("function", n)
		this["attributes"] = d.attributes(n.Attributes)
		this["name"] = n.Name
		params := make([]any, 0, len(n.Parameters))
		for _, param := range n.Parameters {
			params = append(params, d.node(param))
		}
		this["parameters"] = params
		this["return_attributes"] = d.attributes(n.ReturnAttributes)
		this["return_type"] = d.optional(n.ReturnType)
		this["body"] = d.optional(n.Body)
		return this
	case *Parameter:
		this := d.object("parameter", n)
		this["attributes"] = d.attributes(n.Attributes)
		this["name"] = n.Name
		this["type_attributes"] = d.attributes(n.TypeAttributes)
		this["type"] = d.optional(n.Type)
		return this
	case *BadDeclaration:
		return d.object("bad_declaration", n)

	case *Compound:
		this := d.object("compound", n)
		this["statements"] = d.statements(n.Statements)
		return this
	case *Assignment:
		this := d.object("assignment", n)
		this["phony"] = n.Phony
		this["target"] = d.optional(n.Target)
		this["op"] = n.Op.String()
		this["value"] = d.optional(n.Value)
		return this
	case *Increment:
		this := d.object("increment", n)
		this["target"] = d.optional(n.Target)
		return this
	case *Decrement:
		this := d.object("decrement", n)
		this["target"] = d.optional(n.Target)
		return this
	case *CallStatement:
		this := d.object("call_statement", n)
		this["call"] = d.node(n.Call)
		return this
	case *If:
		this := d.object("if", n)
		this["condition"] = d.optional(n.Condition)
		this["body"] = d.optional(n.Body)
		this["else"] = d.optional(n.Else)
		return this
	case *Switch:
		this := d.object("switch", n)
		this["selector"] = d.optional(n.Selector)
		clauses := make([]any, 0, len(n.Clauses))
		for _, clause := range n.Clauses {
			clauses = append(clauses, d.node(clause))
		}
		this["clauses"] = clauses
		return this
	case *SwitchClause:
		this := d.object("switch_clause", n)
		this["selectors"] = d.expressions(n.Selectors)
		this["default"] = n.Default
		this["body"] = d.optional(n.Body)
		this["fallthrough"] = n.Fallthrough
		return this
	case *Loop:
		this := d.object("loop", n)
		this["body"] = d.statements(n.Body)
		this["continuing"] = d.optional(n.Continuing)
		return this
	case *Continuing:
		this := d.object("continuing", n)
		this["body"] = d.optional(n.Body)
		return this
	case *For:
		this := d.object("for", n)
		this["init"] = d.optional(n.Init)
		this["condition"] = d.optional(n.Condition)
		this["update"] = d.optional(n.Update)
		this["body"] = d.optional(n.Body)
		return this
	case *While:
		this := d.object("while", n)
		this["condition"] = d.optional(n.Condition)
		this["body"] = d.optional(n.Body)
		return this
	case *Break:
		return d.object("break", n)
	case *BreakIf:
		this := d.object("break_if", n)
		this["condition"] = d.optional(n.Condition)
		return this
	case *Continue:
		return d.object("continue", n)
	case *Discard:
		return d.object("discard", n)
	case *Return:
		this := d.object("return", n)
		this["value"] = d.optional(n.Value)
		return this
	case *VariableDecl:
		this := d.object("variable", n)
		this["binding"] = n.Kind.String()
		this["address_space"] = n.AddressSpace
		this["access_mode"] = n.AccessMode
		this["name"] = n.Name
		this["type_attributes"] = d.attributes(n.TypeAttributes)
		this["type"] = d.optional(n.Type)
		this["initializer"] = d.optional(n.Initializer)
		return this
	case *BadStatement:
		return d.object("bad_statement", n)

	case *Literal:
		this := d.object("literal", n)
		this["literal_kind"] = n.Value.Kind.String()
		this["text"] = n.Value.Text
		return this
	case *Identifier:
		this := d.object("identifier", n)
		this["name"] = n.Name
		return this
	case *Paren:
		this := d.object("paren", n)
		this["inner"] = d.optional(n.Inner)
		return this
	case *Call:
		this := d.object("call", n)
		this["callee"] = d.optional(n.Callee)
		this["arguments"] = d.expressions(n.Arguments)
		this["deferred"] = n.Deferred()
		return this
	case *Bitcast:
		this := d.object("bitcast", n)
		this["target"] = d.optional(n.Target)
		this["operand"] = d.optional(n.Operand)
		return this
	case *Binary:
		this := d.object("binary", n)
		this["op"] = n.Op.String()
		this["left"] = d.optional(n.Left)
		this["right"] = d.optional(n.Right)
		return this
	case *Unary:
		this := d.object("unary", n)
		this["op"] = n.Op.String()
		this["operand"] = d.optional(n.Operand)
		return this
	case *Subscript:
		this := d.object("subscript", n)
		this["object"] = d.optional(n.Object)
		this["index"] = d.optional(n.Index)
		return this
	case *Member:
		this := d.object("member", n)
		this["object"] = d.optional(n.Object)
		this["field"] = n.Field
		return this
	case *BadExpression:
		this := d.object("bad_expression", n)
		this["text"] = n.Text
		return this

	case *ScalarType:
		this := d.object("scalar", n)
		this["scalar"] = n.Kind.String()
		return this
	case *VectorType:
		this := d.object("vector", n)
		this["size"] = n.Size
		this["element"] = d.optional(n.Element)
		return this
	case *MatrixType:
		this := d.object("matrix", n)
		this["columns"] = n.Columns
		this["rows"] = n.Rows
		this["element"] = d.optional(n.Element)
		return this
	case *ArrayType:
		this := d.object("array", n)
		this["element"] = d.optional(n.Element)
		this["size"] = d.optional(n.Size)
		return this
	case *PointerType:
		this := d.object("pointer", n)
		this["address_space"] = n.AddressSpace
		this["pointee"] = d.optional(n.Pointee)
		this["access_mode"] = n.AccessMode
		return this
	case *AtomicType:
		this := d.object("atomic", n)
		this["element"] = d.optional(n.Element)
		return this
	case *SamplerType:
		this := d.object("sampler", n)
		this["comparison"] = n.Comparison
		return this
	case *TextureType:
		this := d.object("texture", n)
		this["dimension"] = n.Dimension.String()
		this["multisampled"] = n.Multisampled
		this["depth"] = n.Depth
		this["sampled"] = d.optional(n.Sampled)
		return this
	case *StorageTextureType:
		this := d.object("storage_texture", n)
		this["dimension"] = n.Dimension.String()
		this["format"] = n.Format
		this["access"] = n.Access
		return this
	case *NamedType:
		this := d.object("named", n)
		this["name"] = n.Name
		return this
	}
	return map[string]any{"kind": "unknown"}
}
