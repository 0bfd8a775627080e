// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package wgsl

import (
	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

var assignTokens = map[idl.TokenType]AssignOp{
	idl.TokenTypeEqual:           AssignPlain,
	idl.TokenTypePlusEqual:       AssignAdd,
	idl.TokenTypeMinusEqual:      AssignSub,
	idl.TokenTypeMultiplyEqual:   AssignMul,
	idl.TokenTypeDivideEqual:     AssignDiv,
	idl.TokenTypeModuloEqual:     AssignMod,
	idl.TokenTypeAndEqual:        AssignAnd,
	idl.TokenTypeOrEqual:         AssignOr,
	idl.TokenTypeXorEqual:        AssignXor,
	idl.TokenTypeShiftLeftEqual:  AssignShiftLeft,
	idl.TokenTypeShiftRightEqual: AssignShiftRight,
}

// CompoundStatement = curly_open { Statement } curly_close .
func (p *parserWGSLTokens) parseCompound() *Compound {
	start := p.start()
	if p.expectOne(idl.TokenTypeCurlyOpen) == nil {
		return nil
	}
	statements := p.parseStatementList(false, idl.TokenTypeCurlyClose)
	if p.expectOne(idl.TokenTypeCurlyClose) == nil {
		return nil
	}
	return &Compound{Pos: p.pos(start), Statements: statements}
}

// parseStatementList parses statements until one of the stop tokens or the end
// of input. Statements that fail to parse are replaced by a BadStatement after
// recovery. breakIf permits a break-if among the statements.
func (p *parserWGSLTokens) parseStatementList(breakIf bool, stops ...idl.TokenType) []Statement {
	var statements []Statement
	for {
		tok := p.peek()
		if tok == nil {
			return statements
		}
		for _, stop := range stops {
			if tok.Type == stop {
				return statements
			}
		}
		if tok.Type == idl.TokenTypeSemicolon {
			p.advance()
			continue
		}
		start := tok.Span.Start
		p.breakIfAllowed = breakIf
		statement := p.parseStatement()
		if statement == nil {
			p.recoverStatement()
			statement = &BadStatement{Pos: p.pos(start)}
		}
		statements = append(statements, statement)
	}
}

// recoverStatement discards tokens up to and including the next ';' at the
// current nesting depth, or up to the '}' that closes the enclosing block.
func (p *parserWGSLTokens) recoverStatement() {
	depth := 0
	for {
		tok := p.peek()
		if tok == nil {
			return
		}
		switch tok.Type {
		case idl.TokenTypeCurlyOpen, idl.TokenTypeParenOpen, idl.TokenTypeSquareOpen:
			depth = depth + 1
		case idl.TokenTypeParenClose, idl.TokenTypeSquareClose:
			if depth > 0 {
				depth = depth - 1
			}
		case idl.TokenTypeCurlyClose:
			if depth == 0 {
				return
			}
			depth = depth - 1
			if depth == 0 {
				p.advance()
				return
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

// Statement = CompoundStatement | ReturnStatement | IfStatement | SwitchStatement
//
//	| LoopStatement | ForStatement | WhileStatement | BreakStatement
//	| ContinueStatement | DiscardStatement | VariableStatement semicolon
//	| SimpleStatement semicolon .
func (p *parserWGSLTokens) parseStatement() Statement {
	breakIf := p.breakIfAllowed
	p.breakIfAllowed = false
	tok := p.peek()
	if tok == nil {
		p.unexpected("a statement")
		return nil
	}
	switch tok.Type {
	case idl.TokenTypeCurlyOpen:
		if this := p.parseCompound(); this != nil {
			return this
		}
		return nil
	case idl.TokenTypeKeywordReturn:
		return p.parseReturn()
	case idl.TokenTypeKeywordIf:
		return p.parseIf()
	case idl.TokenTypeKeywordSwitch:
		return p.parseSwitch()
	case idl.TokenTypeKeywordLoop:
		return p.parseLoop()
	case idl.TokenTypeKeywordFor:
		return p.parseFor()
	case idl.TokenTypeKeywordWhile:
		if p.modern() {
			return p.parseWhile()
		}
	case idl.TokenTypeKeywordBreak:
		return p.parseBreak(breakIf)
	case idl.TokenTypeKeywordContinue:
		p.advance()
		if p.expectOne(idl.TokenTypeSemicolon) == nil {
			return nil
		}
		return &Continue{Pos: p.pos(tok.Span.Start)}
	case idl.TokenTypeKeywordDiscard:
		p.advance()
		if p.expectOne(idl.TokenTypeSemicolon) == nil {
			return nil
		}
		return &Discard{Pos: p.pos(tok.Span.Start)}
	case idl.TokenTypeKeywordVar, idl.TokenTypeKeywordLet, idl.TokenTypeKeywordConst:
		this := p.parseVariableStatement()
		if this == nil {
			return nil
		}
		if p.expectOne(idl.TokenTypeSemicolon) == nil {
			return nil
		}
		this.Pos = p.pos(tok.Span.Start)
		return this
	case idl.TokenTypeKeywordOverride:
		p.report(exc.CodeUnexpectedToken, "unexpected 'override' (override declarations are only allowed at module scope)")
		return nil
	case idl.TokenTypeKeywordFallthrough:
		p.report(exc.CodeUnexpectedToken, "unexpected 'fallthrough' (expecting it only as the last statement of a case body)")
		return nil
	}
	if !p.startsSimpleStatement(tok) {
		p.unexpected("a statement")
		return nil
	}
	this := p.parseSimpleStatement()
	if this == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeSemicolon) == nil {
		return nil
	}
	return p.withSpan(this, p.span(tok.Span.Start))
}

// startsSimpleStatement filters tokens that can never begin an expression so
// that their diagnostic names a statement.
func (p *parserWGSLTokens) startsSimpleStatement(tok *idl.Token) bool {
	switch tok.Type {
	case idl.TokenTypeUnderscore, idl.TokenTypeIdentifier, idl.TokenTypeParenOpen,
		idl.TokenTypeStar, idl.TokenTypeAmpersand, idl.TokenTypeKeywordBitcast:
		return true
	}
	return isTypeKeyword(tok.Type)
}

// withSpan widens a simple statement to include its terminator.
func (p *parserWGSLTokens) withSpan(statement Statement, span idl.Span) Statement {
	switch this := statement.(type) {
	case *Assignment:
		this.Loc = span
	case *Increment:
		this.Loc = span
	case *Decrement:
		this.Loc = span
	case *CallStatement:
		this.Loc = span
	}
	return statement
}

// SimpleStatement = underscore equal Expression
//
//	| LHSExpression ( equal | compound_assignment_operator ) Expression
//	| LHSExpression ( plus_plus | minus_minus )
//	| CallExpression .
func (p *parserWGSLTokens) parseSimpleStatement() Statement {
	start := p.start()
	if p.peekIs(idl.TokenTypeUnderscore) {
		p.advance()
		if p.expectOne(idl.TokenTypeEqual) == nil {
			return nil
		}
		value := p.parseExpression()
		if value == nil {
			return nil
		}
		return &Assignment{Pos: p.pos(start), Phony: true, Op: AssignPlain, Value: value}
	}
	target := p.parseExpression()
	if target == nil {
		return nil
	}
	tok := p.peek()
	if tok == nil {
		p.unexpected("an assignment, increment or call")
		return nil
	}
	if op, ok := assignTokens[tok.Type]; ok && (op == AssignPlain || p.modern()) {
		if !p.checkAssignable(target) {
			return nil
		}
		p.advance()
		value := p.parseExpression()
		if value == nil {
			return nil
		}
		return &Assignment{Pos: p.pos(start), Target: target, Op: op, Value: value}
	}
	if p.modern() && (tok.Type == idl.TokenTypePlusPlus || tok.Type == idl.TokenTypeMinusMinus) {
		if !p.checkAssignable(target) {
			return nil
		}
		p.advance()
		if tok.Type == idl.TokenTypePlusPlus {
			return &Increment{Pos: p.pos(start), Target: target}
		}
		return &Decrement{Pos: p.pos(start), Target: target}
	}
	if call, ok := target.(*Call); ok {
		return &CallStatement{Pos: p.pos(start), Call: call}
	}
	p.unexpected("an assignment, increment or call")
	return nil
}

func (p *parserWGSLTokens) checkAssignable(target Expression) bool {
	if isAssignable(target) {
		return true
	}
	p.reportAt(target.Span(), exc.CodeUnexpectedToken, "expression is not assignable")
	return false
}

// ReturnStatement = return [ Expression ] semicolon .
func (p *parserWGSLTokens) parseReturn() Statement {
	start := p.start()
	if p.expectOne(idl.TokenTypeKeywordReturn) == nil {
		return nil
	}
	this := &Return{}
	if !p.peekIs(idl.TokenTypeSemicolon) {
		this.Value = p.parseExpression()
		if this.Value == nil {
			return nil
		}
	}
	if p.expectOne(idl.TokenTypeSemicolon) == nil {
		return nil
	}
	this.Pos = p.pos(start)
	return this
}

// Condition = Expression | paren_open Expression paren_close .
//
// The legacy grammar requires the parentheses and they are not kept.
func (p *parserWGSLTokens) parseCondition() Expression {
	if p.modern() {
		return p.parseExpression()
	}
	if p.expectOne(idl.TokenTypeParenOpen) == nil {
		return nil
	}
	condition := p.parseExpression()
	if condition == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeParenClose) == nil {
		return nil
	}
	return condition
}

// IfStatement = if Condition CompoundStatement { ( elseif | else if ) Condition CompoundStatement } [ else CompoundStatement ] .
func (p *parserWGSLTokens) parseIf() Statement {
	start := p.start()
	if p.expectOneOf([]idl.TokenType{idl.TokenTypeKeywordIf, idl.TokenTypeKeywordElseif}) == nil {
		return nil
	}
	condition := p.parseCondition()
	if condition == nil {
		return nil
	}
	body := p.parseCompound()
	if body == nil {
		return nil
	}
	this := &If{Condition: condition, Body: body}
	switch {
	case p.legacy() && p.peekIs(idl.TokenTypeKeywordElseif):
		next := p.parseIf()
		if next == nil {
			return nil
		}
		this.Else = next
	case p.peekIs(idl.TokenTypeKeywordElse):
		p.advance()
		if p.modern() && p.peekIs(idl.TokenTypeKeywordIf) {
			next := p.parseIf()
			if next == nil {
				return nil
			}
			this.Else = next
			break
		}
		block := p.parseCompound()
		if block == nil {
			return nil
		}
		this.Else = block
	}
	this.Pos = p.pos(start)
	return this
}

// SwitchStatement = switch Condition curly_open SwitchClause { SwitchClause } curly_close .
func (p *parserWGSLTokens) parseSwitch() Statement {
	start := p.start()
	if p.expectOne(idl.TokenTypeKeywordSwitch) == nil {
		return nil
	}
	selector := p.parseCondition()
	if selector == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeCurlyOpen) == nil {
		return nil
	}
	this := &Switch{Selector: selector}
	for !p.peekIs(idl.TokenTypeCurlyClose) {
		clause := p.parseSwitchClause()
		if clause == nil {
			return nil
		}
		this.Clauses = append(this.Clauses, clause)
	}
	if len(this.Clauses) == 0 {
		p.report(exc.CodeUnexpectedToken, "unexpected '}' (expecting at least one case or default clause)")
		p.advance()
		return nil
	}
	p.advance()
	this.Pos = p.pos(start)
	return this
}

// SwitchClause = case CaseSelectors [ colon ] CaseBody | default [ colon ] CaseBody .
// CaseSelectors = CaseSelector { comma CaseSelector } [ comma ] .
func (p *parserWGSLTokens) parseSwitchClause() *SwitchClause {
	start := p.start()
	keyword := p.expectOneOf([]idl.TokenType{idl.TokenTypeKeywordCase, idl.TokenTypeKeywordDefault})
	if keyword == nil {
		return nil
	}
	this := &SwitchClause{Default: keyword.Type == idl.TokenTypeKeywordDefault}
	if !this.Default {
		for {
			if p.modern() && p.peekIs(idl.TokenTypeKeywordDefault) {
				p.advance()
				this.Default = true
			} else {
				selector := p.parseConstLiteral()
				if selector == nil {
					return nil
				}
				this.Selectors = append(this.Selectors, selector)
			}
			if !p.peekIs(idl.TokenTypeComma) {
				break
			}
			p.advance()
			if p.peekIs(idl.TokenTypeColon) || p.peekIs(idl.TokenTypeCurlyOpen) {
				break
			}
		}
	}
	if p.legacy() || p.peekIs(idl.TokenTypeColon) {
		if p.expectOne(idl.TokenTypeColon) == nil {
			return nil
		}
	}
	if !p.parseCaseBody(this) {
		return nil
	}
	this.Pos = p.pos(start)
	return this
}

// CaseBody = curly_open { Statement } [ fallthrough semicolon ] curly_close .
func (p *parserWGSLTokens) parseCaseBody(clause *SwitchClause) bool {
	start := p.start()
	if p.expectOne(idl.TokenTypeCurlyOpen) == nil {
		return false
	}
	statements := p.parseStatementList(false, idl.TokenTypeCurlyClose, idl.TokenTypeKeywordFallthrough)
	if p.peekIs(idl.TokenTypeKeywordFallthrough) {
		p.advance()
		if p.expectOne(idl.TokenTypeSemicolon) == nil {
			return false
		}
		clause.Fallthrough = true
	}
	if p.expectOne(idl.TokenTypeCurlyClose) == nil {
		return false
	}
	clause.Body = &Compound{Pos: p.pos(start), Statements: statements}
	return true
}

// LoopStatement = loop curly_open { Statement } [ ContinuingStatement ] curly_close .
func (p *parserWGSLTokens) parseLoop() Statement {
	start := p.start()
	if p.expectOne(idl.TokenTypeKeywordLoop) == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeCurlyOpen) == nil {
		return nil
	}
	this := &Loop{
		Body: p.parseStatementList(false, idl.TokenTypeCurlyClose, idl.TokenTypeKeywordContinuing),
	}
	if p.peekIs(idl.TokenTypeKeywordContinuing) {
		this.Continuing = p.parseContinuing()
		if this.Continuing == nil {
			return nil
		}
	}
	if p.expectOne(idl.TokenTypeCurlyClose) == nil {
		return nil
	}
	this.Pos = p.pos(start)
	return this
}

// ContinuingStatement = continuing curly_open { Statement } [ break if Expression semicolon ] curly_close .
func (p *parserWGSLTokens) parseContinuing() *Continuing {
	start := p.start()
	if p.expectOne(idl.TokenTypeKeywordContinuing) == nil {
		return nil
	}
	blockStart := p.start()
	if p.expectOne(idl.TokenTypeCurlyOpen) == nil {
		return nil
	}
	statements := p.parseStatementList(true, idl.TokenTypeCurlyClose)
	if p.expectOne(idl.TokenTypeCurlyClose) == nil {
		return nil
	}
	return &Continuing{
		Pos:  p.pos(start),
		Body: &Compound{Pos: p.pos(blockStart), Statements: statements},
	}
}

// BreakStatement = break semicolon | break if Expression semicolon .
func (p *parserWGSLTokens) parseBreak(breakIf bool) Statement {
	start := p.start()
	if p.expectOne(idl.TokenTypeKeywordBreak) == nil {
		return nil
	}
	if !p.modern() || !p.peekIs(idl.TokenTypeKeywordIf) {
		if p.expectOne(idl.TokenTypeSemicolon) == nil {
			return nil
		}
		return &Break{Pos: p.pos(start)}
	}
	if !breakIf {
		p.report(exc.CodeUnexpectedToken, "unexpected 'if' (expecting ';'; break if is only allowed in a continuing block)")
		return nil
	}
	p.advance()
	condition := p.parseExpression()
	if condition == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeSemicolon) == nil {
		return nil
	}
	this := &BreakIf{Pos: p.pos(start), Condition: condition}
	if tok := p.peek(); tok != nil && tok.Type != idl.TokenTypeCurlyClose {
		p.report(exc.CodeUnexpectedToken, "unexpected "+describe(tok)+" (expecting '}' after break if)")
	}
	return this
}

// ForStatement = for paren_open [ ForInit ] semicolon [ Expression ] semicolon [ ForUpdate ] paren_close CompoundStatement .
// ForInit = VariableStatement | SimpleStatement .
// ForUpdate = SimpleStatement .
func (p *parserWGSLTokens) parseFor() Statement {
	start := p.start()
	if p.expectOne(idl.TokenTypeKeywordFor) == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeParenOpen) == nil {
		return nil
	}
	this := &For{}
	if !p.peekIs(idl.TokenTypeSemicolon) {
		tok := p.peek()
		if tok != nil && (tok.Type == idl.TokenTypeKeywordVar || tok.Type == idl.TokenTypeKeywordLet || tok.Type == idl.TokenTypeKeywordConst) {
			init := p.parseVariableStatement()
			if init == nil {
				return nil
			}
			this.Init = init
		} else {
			this.Init = p.parseSimpleStatement()
			if this.Init == nil {
				return nil
			}
		}
	}
	if p.expectOne(idl.TokenTypeSemicolon) == nil {
		return nil
	}
	if !p.peekIs(idl.TokenTypeSemicolon) {
		this.Condition = p.parseExpression()
		if this.Condition == nil {
			return nil
		}
	}
	if p.expectOne(idl.TokenTypeSemicolon) == nil {
		return nil
	}
	if !p.peekIs(idl.TokenTypeParenClose) {
		this.Update = p.parseSimpleStatement()
		if this.Update == nil {
			return nil
		}
	}
	if p.expectOne(idl.TokenTypeParenClose) == nil {
		return nil
	}
	this.Body = p.parseCompound()
	if this.Body == nil {
		return nil
	}
	this.Pos = p.pos(start)
	return this
}

// WhileStatement = while Condition CompoundStatement .
func (p *parserWGSLTokens) parseWhile() Statement {
	start := p.start()
	if p.expectOne(idl.TokenTypeKeywordWhile) == nil {
		return nil
	}
	condition := p.parseCondition()
	if condition == nil {
		return nil
	}
	body := p.parseCompound()
	if body == nil {
		return nil
	}
	return &While{Pos: p.pos(start), Condition: condition, Body: body}
}

// VariableStatement = var [ VariableQualifier ] OptionallyTypedIdent [ equal Expression ]
//
//	| ( let | const ) OptionallyTypedIdent equal Expression .
func (p *parserWGSLTokens) parseVariableStatement() *VariableDecl {
	start := p.start()
	keyword := p.peek()
	if keyword == nil {
		p.unexpected("a variable declaration")
		return nil
	}
	this := &VariableDecl{}
	switch {
	case keyword.Type == idl.TokenTypeKeywordVar:
		this.Kind = DeclVar
	case keyword.Type == idl.TokenTypeKeywordLet:
		this.Kind = DeclLet
	case keyword.Type == idl.TokenTypeKeywordConst && p.modern():
		this.Kind = DeclConst
	default:
		p.unexpected("a variable declaration")
		return nil
	}
	p.advance()
	if this.Kind == DeclVar && p.peekIs(idl.TokenTypeAngleOpen) {
		space, access, ok := p.parseVariableQualifier()
		if !ok {
			return nil
		}
		this.AddressSpace = space
		this.AccessMode = access
	}
	name, attrs, t, ok := p.parseOptionallyTypedIdent(this.Kind == DeclVar && p.legacy())
	if !ok {
		return nil
	}
	this.Name = name
	this.TypeAttributes = attrs
	this.Type = t
	if this.Kind != DeclVar || p.peekIs(idl.TokenTypeEqual) {
		if p.expectOne(idl.TokenTypeEqual) == nil {
			return nil
		}
		this.Initializer = p.parseExpression()
		if this.Initializer == nil {
			return nil
		}
	}
	if this.Type == nil && this.Initializer == nil {
		p.unexpected("':' or '='")
		return nil
	}
	this.Pos = p.pos(start)
	return this
}

// VariableQualifier = angle_open address_space [ comma access_mode ] angle_close .
func (p *parserWGSLTokens) parseVariableQualifier() (string, string, bool) {
	if p.expectOne(idl.TokenTypeAngleOpen) == nil {
		return "", "", false
	}
	space := p.parseEnumerant(addressSpaces, "address space")
	if space == "" {
		return "", "", false
	}
	var access string
	if p.peekIs(idl.TokenTypeComma) {
		p.advance()
		access = p.parseEnumerant(accessModes, "access mode")
		if access == "" {
			return "", "", false
		}
	}
	if !p.expectTemplateClose() {
		return "", "", false
	}
	return space, access, true
}

// OptionallyTypedIdent = identifier [ colon TypeAnnotation ] .
func (p *parserWGSLTokens) parseOptionallyTypedIdent(typeRequired bool) (string, []*Attribute, TypeExpr, bool) {
	name := p.expectIdentifier()
	if name == nil {
		return "", nil, nil, false
	}
	if !typeRequired && !p.peekIs(idl.TokenTypeColon) {
		return name.Value, nil, nil, true
	}
	if p.expectOne(idl.TokenTypeColon) == nil {
		return "", nil, nil, false
	}
	attrs, t, ok := p.parseTypeAnnotation()
	if !ok {
		return "", nil, nil, false
	}
	return name.Value, attrs, t, true
}
