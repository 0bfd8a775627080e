// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package wgsl

// Walk visits node and then its descendants in source order. Returning false
// from visit skips the children of that node.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, visit)
	}
}

// Children returns the direct descendants of a node in source order.
func Children(node Node) []Node {
	var c children
	switch n := node.(type) {
	case *Module:
		for _, decl := range n.Declarations {
			c.add(decl)
		}
	case *Attribute:
		c.expressions(n.Arguments)
	case *Enable, *BadDeclaration, *BadStatement, *BadExpression, *Literal, *Identifier,
		*Break, *Continue, *Discard, *ScalarType, *SamplerType, *NamedType, *StorageTextureType:
	case *GlobalVariable:
		c.attributes(n.Attributes)
		c.attributes(n.TypeAttributes)
		c.typeExpr(n.Type)
		c.expression(n.Initializer)
	case *GlobalConstant:
		c.attributes(n.Attributes)
		c.attributes(n.TypeAttributes)
		c.typeExpr(n.Type)
		c.expression(n.Initializer)
	case *TypeAlias:
		c.attributes(n.TypeAttributes)
		c.typeExpr(n.Type)
	case *Struct:
		c.attributes(n.Attributes)
		for _, member := range n.Members {
			c.add(member)
		}
	case *StructMember:
		c.attributes(n.Attributes)
		c.attributes(n.TypeAttributes)
		c.typeExpr(n.Type)
	case *Function:
		c.attributes(n.Attributes)
		for _, param := range n.Parameters {
			c.add(param)
		}
		c.attributes(n.ReturnAttributes)
		c.typeExpr(n.ReturnType)
		c.compound(n.Body)
	case *Parameter:
		c.attributes(n.Attributes)
		c.attributes(n.TypeAttributes)
		c.typeExpr(n.Type)
	case *Compound:
		c.statements(n.Statements)
	case *Assignment:
		c.expression(n.Target)
		c.expression(n.Value)
	case *Increment:
		c.expression(n.Target)
	case *Decrement:
		c.expression(n.Target)
	case *CallStatement:
		if n.Call != nil {
			c.add(n.Call)
		}
	case *If:
		c.expression(n.Condition)
		c.compound(n.Body)
		c.statement(n.Else)
	case *Switch:
		c.expression(n.Selector)
		for _, clause := range n.Clauses {
			c.add(clause)
		}
	case *SwitchClause:
		c.expressions(n.Selectors)
		c.compound(n.Body)
	case *Loop:
		c.statements(n.Body)
		if n.Continuing != nil {
			c.add(n.Continuing)
		}
	case *Continuing:
		c.compound(n.Body)
	case *For:
		c.statement(n.Init)
		c.expression(n.Condition)
		c.statement(n.Update)
		c.compound(n.Body)
	case *While:
		c.expression(n.Condition)
		c.compound(n.Body)
	case *BreakIf:
		c.expression(n.Condition)
	case *Return:
		c.expression(n.Value)
	case *VariableDecl:
		c.attributes(n.TypeAttributes)
		c.typeExpr(n.Type)
		c.expression(n.Initializer)
	case *Paren:
		c.expression(n.Inner)
	case *Call:
		c.typeExpr(n.Callee)
		c.expressions(n.Arguments)
	case *Bitcast:
		c.typeExpr(n.Target)
		c.expression(n.Operand)
	case *Binary:
		c.expression(n.Left)
		c.expression(n.Right)
	case *Unary:
		c.expression(n.Operand)
	case *Subscript:
		c.expression(n.Object)
		c.expression(n.Index)
	case *Member:
		c.expression(n.Object)
	case *VectorType:
		c.typeExpr(n.Element)
	case *MatrixType:
		c.typeExpr(n.Element)
	case *ArrayType:
		c.typeExpr(n.Element)
		c.expression(n.Size)
	case *PointerType:
		c.typeExpr(n.Pointee)
	case *AtomicType:
		c.typeExpr(n.Element)
	case *TextureType:
		c.typeExpr(n.Sampled)
	}
	return c
}

type children []Node

func (c *children) add(n Node) {
	*c = append(*c, n)
}

func (c *children) expression(e Expression) {
	if e != nil {
		c.add(e)
	}
}

func (c *children) expressions(es []Expression) {
	for _, e := range es {
		c.expression(e)
	}
}

func (c *children) statement(s Statement) {
	if s != nil {
		c.add(s)
	}
}

func (c *children) statements(ss []Statement) {
	for _, s := range ss {
		c.statement(s)
	}
}

func (c *children) typeExpr(t TypeExpr) {
	if t != nil {
		c.add(t)
	}
}

func (c *children) compound(b *Compound) {
	if b != nil {
		c.add(b)
	}
}

func (c *children) attributes(attrs []*Attribute) {
	for _, attr := range attrs {
		c.add(attr)
	}
}
