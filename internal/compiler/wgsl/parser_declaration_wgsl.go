// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package wgsl

import (
	"fmt"

	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

// Module = { EnableDirective } { GlobalDeclaration | semicolon } .
func (p *parserWGSLTokens) ParseModule() *Module {
	this := &Module{
		URI:    p.uri,
		Syntax: p.syntax,
	}
	start := idl.Location{Line: 1, Column: 1}
	prologue := true
	for {
		tok := p.peek()
		if tok == nil {
			break
		}
		if tok.Type == idl.TokenTypeSemicolon {
			p.advance()
			continue
		}
		if tok.Type == idl.TokenTypeKeywordEnable && !prologue {
			p.report(exc.CodeUnexpectedToken, "unexpected 'enable' (enable directives must precede all other declarations)")
		}
		consumed := p.consumed
		declStart := tok.Span.Start
		decl := p.parseDeclaration()
		if decl == nil {
			p.recoverDeclaration(consumed)
			decl = &BadDeclaration{Pos: p.pos(declStart)}
		}
		if _, ok := decl.(*Enable); !ok {
			prologue = false
		}
		this.Declarations = append(this.Declarations, decl)
	}
	this.Pos = p.pos(start)
	return this
}

// recoverDeclaration discards tokens up to the next declaration start at depth
// zero, or up to and including a ';' at depth zero. At least one token is
// consumed since the failed declaration began.
func (p *parserWGSLTokens) recoverDeclaration(consumed int) {
	depth := 0
	for {
		tok := p.peek()
		if tok == nil {
			return
		}
		if depth == 0 && p.consumed > consumed && p.startsDeclaration(tok) {
			return
		}
		switch tok.Type {
		case idl.TokenTypeCurlyOpen, idl.TokenTypeParenOpen:
			depth = depth + 1
		case idl.TokenTypeCurlyClose, idl.TokenTypeParenClose:
			if depth > 0 {
				depth = depth - 1
			}
		case idl.TokenTypeSemicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func (p *parserWGSLTokens) startsDeclaration(tok *idl.Token) bool {
	switch tok.Type {
	case idl.TokenTypeKeywordFn, idl.TokenTypeKeywordStruct, idl.TokenTypeKeywordVar,
		idl.TokenTypeKeywordLet, idl.TokenTypeKeywordConst, idl.TokenTypeKeywordOverride,
		idl.TokenTypeKeywordType, idl.TokenTypeKeywordAlias, idl.TokenTypeKeywordEnable:
		return true
	case idl.TokenTypeAt:
		return p.modern()
	case idl.TokenTypeSquareOpen:
		return p.legacy() && p.atLegacyAttributes()
	}
	return false
}

// GlobalDeclaration = EnableDirective | GlobalVariableDecl | GlobalConstantDecl
//
//	| TypeAliasDecl | StructDecl | FunctionDecl .
func (p *parserWGSLTokens) parseDeclaration() Declaration {
	start := p.start()
	attrs, ok := p.parseAttributes()
	if !ok {
		return nil
	}
	tok := p.peek()
	if tok == nil {
		p.unexpected("a declaration")
		return nil
	}
	switch tok.Type {
	case idl.TokenTypeKeywordEnable:
		if !p.rejectAttributes(attrs, "enable directives") {
			return nil
		}
		if this := p.parseEnable(); this != nil {
			return this
		}
		return nil
	case idl.TokenTypeKeywordVar:
		if this := p.parseGlobalVariable(start, attrs); this != nil {
			return this
		}
		return nil
	case idl.TokenTypeKeywordLet:
		if p.legacy() {
			return p.globalConstantOrNil(p.parseGlobalConstant(start, attrs, DeclLet))
		}
	case idl.TokenTypeKeywordConst:
		if p.modern() {
			return p.globalConstantOrNil(p.parseGlobalConstant(start, attrs, DeclConst))
		}
	case idl.TokenTypeKeywordOverride:
		if p.modern() {
			return p.globalConstantOrNil(p.parseGlobalConstant(start, attrs, DeclOverride))
		}
	case idl.TokenTypeKeywordType, idl.TokenTypeKeywordAlias:
		if tok.Type == idl.TokenTypeKeywordAlias && !p.modern() {
			break
		}
		if !p.rejectAttributes(attrs, "type aliases") {
			return nil
		}
		if this := p.parseTypeAlias(); this != nil {
			return this
		}
		return nil
	case idl.TokenTypeKeywordStruct:
		if this := p.parseStruct(start, attrs); this != nil {
			return this
		}
		return nil
	case idl.TokenTypeKeywordFn:
		if this := p.parseFunction(start, attrs); this != nil {
			return this
		}
		return nil
	}
	p.unexpected("a declaration")
	return nil
}

func (p *parserWGSLTokens) globalConstantOrNil(this *GlobalConstant) Declaration {
	if this == nil {
		return nil
	}
	return this
}

func (p *parserWGSLTokens) rejectAttributes(attrs []*Attribute, what string) bool {
	if len(attrs) == 0 {
		return true
	}
	p.reportAt(attrs[0].Span(), exc.CodeUnexpectedToken, fmt.Sprintf("unexpected attribute (%s do not take attributes)", what))
	return false
}

// EnableDirective = enable identifier semicolon .
func (p *parserWGSLTokens) parseEnable() *Enable {
	start := p.start()
	if p.expectOne(idl.TokenTypeKeywordEnable) == nil {
		return nil
	}
	name := p.expectIdentifier()
	if name == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeSemicolon) == nil {
		return nil
	}
	return &Enable{Pos: p.pos(start), Name: name.Value}
}

// GlobalVariableDecl = AttributeList var [ VariableQualifier ] OptionallyTypedIdent [ equal Expression ] semicolon .
func (p *parserWGSLTokens) parseGlobalVariable(start idl.Location, attrs []*Attribute) *GlobalVariable {
	if p.expectOne(idl.TokenTypeKeywordVar) == nil {
		return nil
	}
	this := &GlobalVariable{Attributes: attrs}
	if p.peekIs(idl.TokenTypeAngleOpen) {
		space, access, ok := p.parseVariableQualifier()
		if !ok {
			return nil
		}
		this.AddressSpace = space
		this.AccessMode = access
	}
	name, typeAttrs, t, ok := p.parseOptionallyTypedIdent(p.legacy())
	if !ok {
		return nil
	}
	this.Name = name
	this.TypeAttributes = typeAttrs
	this.Type = t
	if p.peekIs(idl.TokenTypeEqual) {
		p.advance()
		this.Initializer = p.parseExpression()
		if this.Initializer == nil {
			return nil
		}
	}
	if this.Type == nil && this.Initializer == nil {
		p.unexpected("':' or '='")
		return nil
	}
	if p.expectOne(idl.TokenTypeSemicolon) == nil {
		return nil
	}
	this.Pos = p.pos(start)
	return this
}

// GlobalConstantDecl = AttributeList ( let | const | override ) OptionallyTypedIdent [ equal Expression ] semicolon .
//
// const requires the initializer; override requires a type or an initializer.
func (p *parserWGSLTokens) parseGlobalConstant(start idl.Location, attrs []*Attribute, kind DeclKind) *GlobalConstant {
	p.advance()
	name, typeAttrs, t, ok := p.parseOptionallyTypedIdent(false)
	if !ok {
		return nil
	}
	this := &GlobalConstant{
		Attributes:     attrs,
		Kind:           kind,
		Name:           name,
		TypeAttributes: typeAttrs,
		Type:           t,
	}
	if kind == DeclConst || p.peekIs(idl.TokenTypeEqual) {
		if p.expectOne(idl.TokenTypeEqual) == nil {
			return nil
		}
		this.Initializer = p.parseExpression()
		if this.Initializer == nil {
			return nil
		}
	}
	if kind == DeclOverride && this.Type == nil && this.Initializer == nil {
		p.unexpected("':' or '='")
		return nil
	}
	if p.expectOne(idl.TokenTypeSemicolon) == nil {
		return nil
	}
	this.Pos = p.pos(start)
	return this
}

// TypeAliasDecl = ( type | alias ) identifier equal TypeAnnotation semicolon .
func (p *parserWGSLTokens) parseTypeAlias() *TypeAlias {
	start := p.start()
	keyword := p.expectOneOf([]idl.TokenType{idl.TokenTypeKeywordType, idl.TokenTypeKeywordAlias})
	if keyword == nil {
		return nil
	}
	name := p.expectIdentifier()
	if name == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeEqual) == nil {
		return nil
	}
	attrs, t, ok := p.parseTypeAnnotation()
	if !ok {
		return nil
	}
	if p.expectOne(idl.TokenTypeSemicolon) == nil {
		return nil
	}
	return &TypeAlias{
		Pos:            p.pos(start),
		Keyword:        keyword.Value,
		Name:           name.Value,
		TypeAttributes: attrs,
		Type:           t,
	}
}

// StructDecl = AttributeList struct identifier curly_open StructMember { separator StructMember } curly_close [ semicolon ] .
//
// Members are separated by ',' with an optional trailing ',' or, in the legacy
// grammar, each is terminated by ';' and the declaration by a required ';'.
func (p *parserWGSLTokens) parseStruct(start idl.Location, attrs []*Attribute) *Struct {
	if p.expectOne(idl.TokenTypeKeywordStruct) == nil {
		return nil
	}
	name := p.expectIdentifier()
	if name == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeCurlyOpen) == nil {
		return nil
	}
	if p.peekIs(idl.TokenTypeCurlyClose) {
		p.report(exc.CodeUnexpectedToken, fmt.Sprintf("unexpected '}' (expected at least one member in struct %s)", name.Value))
		return nil
	}
	this := &Struct{Attributes: attrs, Name: name.Value}
	for {
		member := p.parseStructMember()
		if member == nil {
			return nil
		}
		this.Members = append(this.Members, member)
		if p.legacy() {
			if p.expectOne(idl.TokenTypeSemicolon) == nil {
				return nil
			}
			if p.peekIs(idl.TokenTypeCurlyClose) {
				break
			}
			continue
		}
		if p.peekIs(idl.TokenTypeCurlyClose) {
			break
		}
		if p.expectOne(idl.TokenTypeComma) == nil {
			return nil
		}
		if p.peekIs(idl.TokenTypeCurlyClose) {
			break
		}
	}
	p.advance()
	if p.legacy() {
		if p.expectOne(idl.TokenTypeSemicolon) == nil {
			return nil
		}
	} else if p.peekIs(idl.TokenTypeSemicolon) {
		p.advance()
	}
	this.Pos = p.pos(start)
	return this
}

// StructMember = AttributeList identifier colon TypeAnnotation .
func (p *parserWGSLTokens) parseStructMember() *StructMember {
	start := p.start()
	attrs, ok := p.parseAttributes()
	if !ok {
		return nil
	}
	name := p.expectIdentifier()
	if name == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeColon) == nil {
		return nil
	}
	typeAttrs, t, ok := p.parseTypeAnnotation()
	if !ok {
		return nil
	}
	return &StructMember{
		Pos:            p.pos(start),
		Attributes:     attrs,
		Name:           name.Value,
		TypeAttributes: typeAttrs,
		Type:           t,
	}
}

// FunctionDecl = AttributeList fn identifier paren_open [ Param { comma Param } [ comma ] ] paren_close
//
//	[ arrow AttributeList TypeDecl ] CompoundStatement .
func (p *parserWGSLTokens) parseFunction(start idl.Location, attrs []*Attribute) *Function {
	if p.expectOne(idl.TokenTypeKeywordFn) == nil {
		return nil
	}
	name := p.expectIdentifier()
	if name == nil {
		return nil
	}
	this := &Function{Attributes: attrs, Name: name.Value}
	ok := p.commaList(idl.TokenTypeParenOpen, func() bool {
		param := p.parseParameter()
		if param == nil {
			return false
		}
		this.Parameters = append(this.Parameters, param)
		return true
	}, idl.TokenTypeParenClose)
	if !ok {
		return nil
	}
	if p.peekIs(idl.TokenTypeArrow) {
		p.advance()
		this.ReturnAttributes, ok = p.parseAttributes()
		if !ok {
			return nil
		}
		this.ReturnType = p.parseType()
		if this.ReturnType == nil {
			return nil
		}
	}
	this.Body = p.parseCompound()
	if this.Body == nil {
		return nil
	}
	this.Pos = p.pos(start)
	return this
}

// Param = AttributeList identifier colon TypeAnnotation .
func (p *parserWGSLTokens) parseParameter() *Parameter {
	start := p.start()
	attrs, ok := p.parseAttributes()
	if !ok {
		return nil
	}
	name := p.expectIdentifier()
	if name == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeColon) == nil {
		return nil
	}
	typeAttrs, t, ok := p.parseTypeAnnotation()
	if !ok {
		return nil
	}
	return &Parameter{
		Pos:            p.pos(start),
		Attributes:     attrs,
		Name:           name.Value,
		TypeAttributes: typeAttrs,
		Type:           t,
	}
}

// AttributeList = { at Attribute } .
// LegacyAttributeList = { square_open square_open Attribute { comma Attribute } [ comma ] square_close square_close } .
//
// The list form depends on the selected syntax. An empty list is not an error.
func (p *parserWGSLTokens) parseAttributes() ([]*Attribute, bool) {
	var attrs []*Attribute
	if p.modern() {
		for p.peekIs(idl.TokenTypeAt) {
			start := p.start()
			p.advance()
			attr := p.parseAttribute(start)
			if attr == nil {
				return nil, false
			}
			attrs = append(attrs, attr)
		}
		return attrs, true
	}
	for p.atLegacyAttributes() {
		p.advance()
		p.advance()
		for {
			attr := p.parseAttribute(p.start())
			if attr == nil {
				return nil, false
			}
			attrs = append(attrs, attr)
			if !p.peekIs(idl.TokenTypeComma) {
				break
			}
			p.advance()
			if p.peekIs(idl.TokenTypeSquareClose) {
				break
			}
		}
		if p.expectOne(idl.TokenTypeSquareClose) == nil {
			return nil, false
		}
		if p.expectOne(idl.TokenTypeSquareClose) == nil {
			return nil, false
		}
	}
	return attrs, true
}

// atLegacyAttributes reports whether the next two tokens are an adjacent [[.
func (p *parserWGSLTokens) atLegacyAttributes() bool {
	first := p.peek()
	second := p.peekN(1)
	return first != nil && first.Type == idl.TokenTypeSquareOpen &&
		second != nil && second.Type == idl.TokenTypeSquareOpen &&
		adjacent(first, second)
}

// Attribute = attribute_name [ paren_open [ AttributeArgument { comma AttributeArgument } [ comma ] ] paren_close ] .
func (p *parserWGSLTokens) parseAttribute(start idl.Location) *Attribute {
	tok := p.peek()
	if tok == nil {
		p.unexpected("an attribute name")
		return nil
	}
	if _, isKeyword := idl.Keywords[tok.Value]; tok.Type != idl.TokenTypeIdentifier && !isKeyword {
		p.unexpected("an attribute name")
		return nil
	}
	p.advance()
	this := &Attribute{Name: tok.Value}
	if p.peekIs(idl.TokenTypeParenOpen) {
		ok := p.commaList(idl.TokenTypeParenOpen, func() bool {
			arg := p.parseAttributeArgument()
			if arg == nil {
				return false
			}
			this.Arguments = append(this.Arguments, arg)
			return true
		}, idl.TokenTypeParenClose)
		if !ok {
			return nil
		}
	}
	this.Pos = p.pos(start)
	return this
}

// AttributeArgument = ConstLiteral | identifier .
func (p *parserWGSLTokens) parseAttributeArgument() Expression {
	tok := p.peek()
	if tok == nil {
		p.unexpected("an attribute argument")
		return nil
	}
	switch tok.Type {
	case idl.TokenTypeIdentifier:
		p.advance()
		return &Identifier{Pos: Pos{Loc: tok.Span}, Name: tok.Value}
	case idl.TokenTypeMinus, idl.TokenTypeIntLiteral, idl.TokenTypeUintLiteral, idl.TokenTypeFloatLiteral,
		idl.TokenTypeInvalidNumber, idl.TokenTypeKeywordTrue, idl.TokenTypeKeywordFalse:
		return p.parseConstLiteral()
	default:
		p.unexpected("a literal or identifier attribute argument")
		return nil
	}
}
