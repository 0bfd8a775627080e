// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package wgsl

import (
	"fmt"
	"strings"

	"gopkg.microglot.org/wgsl.go/internal/idl"
)

const printIndent = "  "

// Print renders a tree as source text in the given syntax. Parenthesized
// expressions are kept as written and no others are added, so the output of a
// parsed tree parses back to the same tree.
func Print(node Node, syntax idl.Syntax) string {
	pr := &printer{syntax: syntax}
	pr.node(node)
	return pr.b.String()
}

type printer struct {
	b      strings.Builder
	syntax idl.Syntax
	depth  int
}

func (pr *printer) legacy() bool {
	return pr.syntax == idl.SyntaxLegacy
}

func (pr *printer) write(parts ...string) {
	for _, part := range parts {
		pr.b.WriteString(part)
	}
}

func (pr *printer) line(parts ...string) {
	pr.b.WriteString(strings.Repeat(printIndent, pr.depth))
	pr.write(parts...)
	pr.b.WriteString("\n")
}

func (pr *printer) node(node Node) {
	switch n := node.(type) {
	case *Module:
		for i, decl := range n.Declarations {
			if i > 0 {
				pr.write("\n")
			}
			pr.declaration(decl)
		}
	case Declaration:
		pr.declaration(n)
	case Statement:
		pr.statement(n)
	case Expression:
		pr.write(pr.expression(n))
	case TypeExpr:
		pr.write(pr.typeExpr(n))
	case *Attribute:
		pr.write(pr.attributes([]*Attribute{n}))
	}
}

func (pr *printer) declaration(decl Declaration) {
	switch d := decl.(type) {
	case *Enable:
		pr.line("enable ", d.Name, ";")
	case *GlobalVariable:
		pr.line(pr.attributes(d.Attributes), "var", pr.qualifier(d.AddressSpace, d.AccessMode), " ",
			pr.typed(d.Name, d.TypeAttributes, d.Type), pr.initializer(d.Initializer), ";")
	case *GlobalConstant:
		pr.line(pr.attributes(d.Attributes), d.Kind.String(), " ",
			pr.typed(d.Name, d.TypeAttributes, d.Type), pr.initializer(d.Initializer), ";")
	case *TypeAlias:
		pr.line(d.Keyword, " ", d.Name, " = ", pr.attributes(d.TypeAttributes), pr.typeExpr(d.Type), ";")
	case *Struct:
		pr.line(pr.attributes(d.Attributes), "struct ", d.Name, " {")
		pr.depth = pr.depth + 1
		for _, member := range d.Members {
			separator := ","
			if pr.legacy() {
				separator = ";"
			}
			pr.line(pr.attributes(member.Attributes), pr.typed(member.Name, member.TypeAttributes, member.Type), separator)
		}
		pr.depth = pr.depth - 1
		if pr.legacy() {
			pr.line("};")
		} else {
			pr.line("}")
		}
	case *Function:
		params := make([]string, 0, len(d.Parameters))
		for _, param := range d.Parameters {
			params = append(params, pr.attributes(param.Attributes)+pr.typed(param.Name, param.TypeAttributes, param.Type))
		}
		var ret string
		if d.ReturnType != nil {
			ret = " -> " + pr.attributes(d.ReturnAttributes) + pr.typeExpr(d.ReturnType)
		}
		pr.line(pr.attributes(d.Attributes), "fn ", d.Name, "(", strings.Join(params, ", "), ")", ret, " {")
		pr.block(d.Body)
		pr.line("}")
	case *BadDeclaration:
		pr.line("/* invalid declaration */")
	}
}

// block prints the statements of a compound one level deeper.
func (pr *printer) block(body *Compound) {
	if body == nil {
		return
	}
	pr.depth = pr.depth + 1
	for _, statement := range body.Statements {
		pr.statement(statement)
	}
	pr.depth = pr.depth - 1
}

func (pr *printer) statement(statement Statement) {
	switch s := statement.(type) {
	case *Compound:
		pr.line("{")
		pr.block(s)
		pr.line("}")
	case *Assignment, *Increment, *Decrement, *CallStatement:
		pr.line(pr.simple(s), ";")
	case *VariableDecl:
		pr.line(pr.variable(s), ";")
	case *If:
		pr.ifChain(s, "if")
	case *Switch:
		pr.line("switch ", pr.condition(s.Selector), " {")
		pr.depth = pr.depth + 1
		for _, clause := range s.Clauses {
			pr.clause(clause)
		}
		pr.depth = pr.depth - 1
		pr.line("}")
	case *Loop:
		pr.line("loop {")
		pr.depth = pr.depth + 1
		for _, inner := range s.Body {
			pr.statement(inner)
		}
		if s.Continuing != nil {
			pr.line("continuing {")
			pr.block(s.Continuing.Body)
			pr.line("}")
		}
		pr.depth = pr.depth - 1
		pr.line("}")
	case *For:
		var init, cond, update string
		switch i := s.Init.(type) {
		case nil:
		case *VariableDecl:
			init = pr.variable(i)
		default:
			init = pr.simple(i)
		}
		if s.Condition != nil {
			cond = " " + pr.expression(s.Condition)
		}
		if s.Update != nil {
			update = " " + pr.simple(s.Update)
		}
		pr.line("for (", init, ";", cond, ";", update, ") {")
		pr.block(s.Body)
		pr.line("}")
	case *While:
		pr.line("while ", pr.condition(s.Condition), " {")
		pr.block(s.Body)
		pr.line("}")
	case *Break:
		pr.line("break;")
	case *BreakIf:
		pr.line("break if ", pr.expression(s.Condition), ";")
	case *Continue:
		pr.line("continue;")
	case *Discard:
		pr.line("discard;")
	case *Return:
		if s.Value == nil {
			pr.line("return;")
		} else {
			pr.line("return ", pr.expression(s.Value), ";")
		}
	case *BadStatement:
		pr.line("/* invalid statement */")
	}
}

func (pr *printer) ifChain(s *If, keyword string) {
	pr.line(keyword, " ", pr.condition(s.Condition), " {")
	pr.block(s.Body)
	switch e := s.Else.(type) {
	case nil:
		pr.line("}")
	case *If:
		pr.write(strings.Repeat(printIndent, pr.depth), "} ")
		if pr.legacy() {
			pr.ifTail(e, "elseif")
		} else {
			pr.ifTail(e, "else if")
		}
	case *Compound:
		pr.line("} else {")
		pr.block(e)
		pr.line("}")
	}
}

// ifTail continues an else-if chain on the line holding the closing brace.
func (pr *printer) ifTail(s *If, keyword string) {
	pr.write(keyword, " ", pr.condition(s.Condition), " {\n")
	pr.block(s.Body)
	switch e := s.Else.(type) {
	case nil:
		pr.line("}")
	case *If:
		pr.write(strings.Repeat(printIndent, pr.depth), "} ")
		pr.ifTail(e, keyword)
	case *Compound:
		pr.line("} else {")
		pr.block(e)
		pr.line("}")
	}
}

func (pr *printer) clause(c *SwitchClause) {
	var head string
	switch {
	case len(c.Selectors) == 0:
		head = "default"
	default:
		selectors := make([]string, 0, len(c.Selectors)+1)
		for _, selector := range c.Selectors {
			selectors = append(selectors, pr.expression(selector))
		}
		if c.Default {
			selectors = append(selectors, "default")
		}
		head = "case " + strings.Join(selectors, ", ")
	}
	if pr.legacy() {
		head = head + ":"
	}
	pr.line(head, " {")
	pr.block(c.Body)
	if c.Fallthrough {
		pr.depth = pr.depth + 1
		pr.line("fallthrough;")
		pr.depth = pr.depth - 1
	}
	pr.line("}")
}

func (pr *printer) condition(e Expression) string {
	if pr.legacy() {
		return "(" + pr.expression(e) + ")"
	}
	return pr.expression(e)
}

func (pr *printer) simple(statement Statement) string {
	switch s := statement.(type) {
	case *Assignment:
		if s.Phony {
			return "_ = " + pr.expression(s.Value)
		}
		return pr.expression(s.Target) + " " + s.Op.String() + " " + pr.expression(s.Value)
	case *Increment:
		return pr.expression(s.Target) + "++"
	case *Decrement:
		return pr.expression(s.Target) + "--"
	case *CallStatement:
		return pr.expression(s.Call)
	}
	return ""
}

func (pr *printer) variable(v *VariableDecl) string {
	var qualifier string
	if v.Kind == DeclVar {
		qualifier = pr.qualifier(v.AddressSpace, v.AccessMode)
	}
	return v.Kind.String() + qualifier + " " + pr.typed(v.Name, v.TypeAttributes, v.Type) + pr.initializer(v.Initializer)
}

func (pr *printer) qualifier(space string, access string) string {
	switch {
	case space == "":
		return ""
	case access == "":
		return "<" + space + ">"
	default:
		return "<" + space + ", " + access + ">"
	}
}

func (pr *printer) typed(name string, attrs []*Attribute, t TypeExpr) string {
	if t == nil {
		return name
	}
	return name + ": " + pr.attributes(attrs) + pr.typeExpr(t)
}

func (pr *printer) initializer(e Expression) string {
	if e == nil {
		return ""
	}
	return " = " + pr.expression(e)
}

// attributes renders an attribute list followed by a space, or nothing.
func (pr *printer) attributes(attrs []*Attribute) string {
	if len(attrs) == 0 {
		return ""
	}
	items := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		item := attr.Name
		if attr.Arguments != nil {
			item = item + "(" + pr.expressions(attr.Arguments) + ")"
		}
		items = append(items, item)
	}
	if pr.legacy() {
		return "[[" + strings.Join(items, ", ") + "]] "
	}
	return "@" + strings.Join(items, " @") + " "
}

func (pr *printer) expressions(es []Expression) string {
	items := make([]string, 0, len(es))
	for _, e := range es {
		items = append(items, pr.expression(e))
	}
	return strings.Join(items, ", ")
}

func (pr *printer) expression(expr Expression) string {
	switch e := expr.(type) {
	case *Literal:
		return e.Value.Text
	case *Identifier:
		return e.Name
	case *Paren:
		return "(" + pr.expression(e.Inner) + ")"
	case *Call:
		return pr.typeExpr(e.Callee) + "(" + pr.expressions(e.Arguments) + ")"
	case *Bitcast:
		return "bitcast<" + pr.typeExpr(e.Target) + ">(" + pr.expression(e.Operand) + ")"
	case *Binary:
		return pr.expression(e.Left) + " " + e.Op.String() + " " + pr.expression(e.Right)
	case *Unary:
		op := e.Op.String()
		operand := pr.expression(e.Operand)
		// Keep - - and & & from lexing as -- and &&.
		if operand != "" && operand[0] == op[0] {
			return op + " " + operand
		}
		return op + operand
	case *Subscript:
		return pr.expression(e.Object) + "[" + pr.expression(e.Index) + "]"
	case *Member:
		return pr.expression(e.Object) + "." + e.Field
	case *BadExpression:
		return e.Text
	}
	return ""
}

func (pr *printer) typeExpr(t TypeExpr) string {
	switch t := t.(type) {
	case *ScalarType:
		return t.Kind.String()
	case *VectorType:
		return fmt.Sprintf("vec%d", t.Size) + pr.template(t.Element)
	case *MatrixType:
		return fmt.Sprintf("mat%dx%d", t.Columns, t.Rows) + pr.template(t.Element)
	case *ArrayType:
		if t.Element == nil {
			return "array"
		}
		if t.Size == nil {
			return "array<" + pr.typeExpr(t.Element) + ">"
		}
		return "array<" + pr.typeExpr(t.Element) + ", " + pr.expression(t.Size) + ">"
	case *PointerType:
		return "ptr" + pr.qualifier(t.AddressSpace+", "+pr.typeExpr(t.Pointee), t.AccessMode)
	case *AtomicType:
		return "atomic" + pr.template(t.Element)
	case *SamplerType:
		if t.Comparison {
			return "sampler_comparison"
		}
		return "sampler"
	case *TextureType:
		name := "texture_"
		if t.Depth {
			name = name + "depth_"
		}
		if t.Multisampled {
			name = name + "multisampled_"
		}
		return name + t.Dimension.String() + pr.template(t.Sampled)
	case *StorageTextureType:
		return "texture_storage_" + t.Dimension.String() + "<" + t.Format + ", " + t.Access + ">"
	case *NamedType:
		return t.Name
	}
	return ""
}

func (pr *printer) template(element TypeExpr) string {
	if element == nil {
		return ""
	}
	return "<" + pr.typeExpr(element) + ">"
}
