// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package wgsl

import (
	"fmt"

	"gopkg.microglot.org/wgsl.go/internal/compiler/literal"
	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

var binaryTokens = map[idl.TokenType]BinaryOp{
	idl.TokenTypePipePipe:           BinaryOr,
	idl.TokenTypeAmpersandAmpersand: BinaryAnd,
	idl.TokenTypePipe:               BinaryBitOr,
	idl.TokenTypeCaret:              BinaryBitXor,
	idl.TokenTypeAmpersand:          BinaryBitAnd,
	idl.TokenTypeComparison:         BinaryEqual,
	idl.TokenTypeNotComparison:      BinaryNotEqual,
	idl.TokenTypeAngleOpen:          BinaryLess,
	idl.TokenTypeAngleClose:         BinaryGreater,
	idl.TokenTypeLesserEqual:        BinaryLessEqual,
	idl.TokenTypeGreaterEqual:       BinaryGreaterEqual,
	idl.TokenTypeShiftLeft:          BinaryShiftLeft,
	idl.TokenTypeShiftRight:         BinaryShiftRight,
	idl.TokenTypePlus:               BinaryAdd,
	idl.TokenTypeMinus:              BinarySub,
	idl.TokenTypeStar:               BinaryMul,
	idl.TokenTypeSlash:              BinaryDiv,
	idl.TokenTypePercent:            BinaryMod,
}

var unaryTokens = map[idl.TokenType]UnaryOp{
	idl.TokenTypeMinus:       UnaryNegate,
	idl.TokenTypeExclamation: UnaryNot,
	idl.TokenTypeTilde:       UnaryComplement,
	idl.TokenTypeStar:        UnaryDeref,
	idl.TokenTypeAmpersand:   UnaryAddressOf,
}

// Expression = Unary { binary_operator Unary } .
func (p *parserWGSLTokens) parseExpression() Expression {
	return p.parseBinary(1)
}

// parseBinary climbs precedence levels starting at minPrec. Operators of equal
// precedence associate to the left.
func (p *parserWGSLTokens) parseBinary(minPrec int) Expression {
	start := p.start()
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		tok := p.peek()
		if tok == nil {
			return left
		}
		op, ok := binaryTokens[tok.Type]
		if !ok || op.Precedence() < minPrec {
			return left
		}
		p.advance()
		right := p.parseBinary(op.Precedence() + 1)
		if right == nil {
			return nil
		}
		left = &Binary{
			Pos:   p.pos(start),
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
}

// Unary = ( minus | bang | tilde | star | and ) Unary | Postfix .
func (p *parserWGSLTokens) parseUnary() Expression {
	tok := p.peek()
	if tok == nil {
		p.unexpected("an expression")
		return nil
	}
	op, ok := unaryTokens[tok.Type]
	if !ok {
		return p.parsePostfix()
	}
	start := tok.Span.Start
	p.advance()
	operand := p.parseUnary()
	if operand == nil {
		return nil
	}
	return &Unary{
		Pos:     p.pos(start),
		Op:      op,
		Operand: operand,
	}
}

// Postfix = Primary { square_open Expression square_close | dot identifier } .
func (p *parserWGSLTokens) parsePostfix() Expression {
	start := p.start()
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	for {
		switch {
		case p.peekIs(idl.TokenTypeSquareOpen):
			p.advance()
			index := p.parseExpression()
			if index == nil {
				return nil
			}
			if p.expectOne(idl.TokenTypeSquareClose) == nil {
				return nil
			}
			expr = &Subscript{Pos: p.pos(start), Object: expr, Index: index}
		case p.peekIs(idl.TokenTypeDot):
			p.advance()
			field := p.expectIdentifier()
			if field == nil {
				return nil
			}
			expr = &Member{Pos: p.pos(start), Object: expr, Field: field.Value}
		default:
			return expr
		}
	}
}

// Primary = Literal | identifier [ ArgumentList ] | TypeDecl ArgumentList
//
//	| bitcast angle_open TypeDecl angle_close paren_open Expression paren_close
//	| paren_open Expression paren_close .
func (p *parserWGSLTokens) parsePrimary() Expression {
	tok := p.peek()
	if tok == nil {
		p.unexpected("an expression")
		return nil
	}
	switch tok.Type {
	case idl.TokenTypeIntLiteral, idl.TokenTypeUintLiteral, idl.TokenTypeFloatLiteral,
		idl.TokenTypeKeywordTrue, idl.TokenTypeKeywordFalse:
		return p.parseLiteral()
	case idl.TokenTypeInvalidNumber:
		// Already reported by the lexer.
		p.advance()
		return &BadExpression{Pos: Pos{Loc: tok.Span}, Text: tok.Value}
	case idl.TokenTypeIdentifier:
		next := p.peekN(1)
		if next != nil && next.Type == idl.TokenTypeParenOpen {
			return p.parseCall()
		}
		p.advance()
		return &Identifier{Pos: Pos{Loc: tok.Span}, Name: tok.Value}
	case idl.TokenTypeKeywordBitcast:
		return p.parseBitcast()
	case idl.TokenTypeParenOpen:
		return p.parseParen()
	}
	if isTypeKeyword(tok.Type) {
		return p.parseCall()
	}
	p.unexpected("an expression")
	return nil
}

// Call = TypeDecl ArgumentList .
// ArgumentList = paren_open [ Expression { comma Expression } [ comma ] ] paren_close .
func (p *parserWGSLTokens) parseCall() Expression {
	start := p.start()
	callee := p.parseTypeInferable(true)
	if callee == nil {
		return nil
	}
	var args []Expression
	ok := p.commaList(idl.TokenTypeParenOpen, func() bool {
		arg := p.parseExpression()
		if arg == nil {
			return false
		}
		args = append(args, arg)
		return true
	}, idl.TokenTypeParenClose)
	if !ok {
		return nil
	}
	this := &Call{Pos: p.pos(start), Callee: callee, Arguments: args}
	if p.reportDeferred && this.Deferred() {
		p.reportAt(this.Span(), exc.CodeAmbiguousConstructDeferred, fmt.Sprintf("%s(...) is a constructor or a function call; resolution deferred", this.Callee.(*NamedType).Name))
	}
	return this
}

// Bitcast = bitcast angle_open TypeDecl angle_close paren_open Expression paren_close .
func (p *parserWGSLTokens) parseBitcast() Expression {
	start := p.start()
	if p.expectOne(idl.TokenTypeKeywordBitcast) == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeAngleOpen) == nil {
		return nil
	}
	target := p.parseType()
	if target == nil {
		return nil
	}
	if !p.expectTemplateClose() {
		return nil
	}
	if p.expectOne(idl.TokenTypeParenOpen) == nil {
		return nil
	}
	operand := p.parseExpression()
	if operand == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeParenClose) == nil {
		return nil
	}
	return &Bitcast{Pos: p.pos(start), Target: target, Operand: operand}
}

// Paren = paren_open Expression paren_close .
func (p *parserWGSLTokens) parseParen() Expression {
	start := p.start()
	if p.expectOne(idl.TokenTypeParenOpen) == nil {
		return nil
	}
	inner := p.parseExpression()
	if inner == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeParenClose) == nil {
		return nil
	}
	return &Paren{Pos: p.pos(start), Inner: inner}
}

// Literal = int_literal | uint_literal | float_literal | true | false .
func (p *parserWGSLTokens) parseLiteral() Expression {
	tok := p.expectOneOf([]idl.TokenType{
		idl.TokenTypeIntLiteral,
		idl.TokenTypeUintLiteral,
		idl.TokenTypeFloatLiteral,
		idl.TokenTypeKeywordTrue,
		idl.TokenTypeKeywordFalse,
	})
	if tok == nil {
		return nil
	}
	return p.newLiteral(tok.Span, tok.Value)
}

func (p *parserWGSLTokens) newLiteral(span idl.Span, text string) Expression {
	var lit literal.Literal
	var err error
	if text == "true" || text == "false" {
		lit, err = literal.Bool(text)
	} else {
		lit, err = literal.Number(text)
	}
	if err != nil {
		p.reportAt(span, exc.CodeMalformedLiteral, err.Error())
		return &BadExpression{Pos: Pos{Loc: span}, Text: text}
	}
	return &Literal{Pos: Pos{Loc: span}, Value: lit}
}

// ConstLiteral = [ minus ] ( int_literal | uint_literal | float_literal ) | true | false .
//
// The sign only belongs to the literal when it touches the number.
func (p *parserWGSLTokens) parseConstLiteral() Expression {
	tok := p.peek()
	if tok != nil && tok.Type == idl.TokenTypeMinus {
		next := p.peekN(1)
		if adjacent(tok, next) && isNumberToken(next.Type) {
			p.advance()
			p.advance()
			return p.newLiteral(idl.Span{Start: tok.Span.Start, End: next.Span.End}, "-"+next.Value)
		}
	}
	if tok != nil && tok.Type == idl.TokenTypeInvalidNumber {
		p.advance()
		return &BadExpression{Pos: Pos{Loc: tok.Span}, Text: tok.Value}
	}
	return p.parseLiteral()
}

func isNumberToken(kind idl.TokenType) bool {
	switch kind {
	case idl.TokenTypeIntLiteral, idl.TokenTypeUintLiteral, idl.TokenTypeFloatLiteral:
		return true
	}
	return false
}

// isAssignable reports whether the expression has the shape of an assignment
// target: an identifier or parenthesized target, optionally behind * and &,
// followed by any member and index accesses.
func isAssignable(expr Expression) bool {
	switch e := expr.(type) {
	case *Identifier:
		return true
	case *Paren:
		return isAssignable(e.Inner)
	case *Unary:
		return (e.Op == UnaryDeref || e.Op == UnaryAddressOf) && isAssignable(e.Operand)
	case *Member:
		return isAssignable(e.Object)
	case *Subscript:
		return isAssignable(e.Object)
	default:
		return false
	}
}
