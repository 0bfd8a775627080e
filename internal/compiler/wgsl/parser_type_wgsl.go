// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package wgsl

import (
	"fmt"

	"gopkg.microglot.org/wgsl.go/internal/exc"
	"gopkg.microglot.org/wgsl.go/internal/idl"
)

var scalarTokens = map[idl.TokenType]ScalarKind{
	idl.TokenTypeKeywordBool: ScalarBool,
	idl.TokenTypeKeywordI32:  ScalarI32,
	idl.TokenTypeKeywordU32:  ScalarU32,
	idl.TokenTypeKeywordF32:  ScalarF32,
}

var vectorTokens = map[idl.TokenType]int{
	idl.TokenTypeKeywordVec2: 2,
	idl.TokenTypeKeywordVec3: 3,
	idl.TokenTypeKeywordVec4: 4,
}

var matrixTokens = map[idl.TokenType][2]int{
	idl.TokenTypeKeywordMat2x2: {2, 2},
	idl.TokenTypeKeywordMat2x3: {2, 3},
	idl.TokenTypeKeywordMat2x4: {2, 4},
	idl.TokenTypeKeywordMat3x2: {3, 2},
	idl.TokenTypeKeywordMat3x3: {3, 3},
	idl.TokenTypeKeywordMat3x4: {3, 4},
	idl.TokenTypeKeywordMat4x2: {4, 2},
	idl.TokenTypeKeywordMat4x3: {4, 3},
	idl.TokenTypeKeywordMat4x4: {4, 4},
}

type textureShape struct {
	dimension    TextureDimension
	multisampled bool
	depth        bool
	storage      bool
}

var textureTokens = map[idl.TokenType]textureShape{
	idl.TokenTypeKeywordTexture1d:                  {dimension: Texture1D},
	idl.TokenTypeKeywordTexture2d:                  {dimension: Texture2D},
	idl.TokenTypeKeywordTexture2dArray:             {dimension: Texture2DArray},
	idl.TokenTypeKeywordTexture3d:                  {dimension: Texture3D},
	idl.TokenTypeKeywordTextureCube:                {dimension: TextureCube},
	idl.TokenTypeKeywordTextureCubeArray:           {dimension: TextureCubeArray},
	idl.TokenTypeKeywordTextureMultisampled2d:      {dimension: Texture2D, multisampled: true},
	idl.TokenTypeKeywordTextureDepth2d:             {dimension: Texture2D, depth: true},
	idl.TokenTypeKeywordTextureDepth2dArray:        {dimension: Texture2DArray, depth: true},
	idl.TokenTypeKeywordTextureDepthCube:           {dimension: TextureCube, depth: true},
	idl.TokenTypeKeywordTextureDepthCubeArray:      {dimension: TextureCubeArray, depth: true},
	idl.TokenTypeKeywordTextureDepthMultisampled2d: {dimension: Texture2D, depth: true, multisampled: true},
	idl.TokenTypeKeywordTextureStorage1d:           {dimension: Texture1D, storage: true},
	idl.TokenTypeKeywordTextureStorage2d:           {dimension: Texture2D, storage: true},
	idl.TokenTypeKeywordTextureStorage2dArray:      {dimension: Texture2DArray, storage: true},
	idl.TokenTypeKeywordTextureStorage3d:           {dimension: Texture3D, storage: true},
}

var addressSpaces = map[string]bool{
	"function":  true,
	"private":   true,
	"workgroup": true,
	"uniform":   true,
	"storage":   true,
}

var accessModes = map[string]bool{
	"read":       true,
	"write":      true,
	"read_write": true,
}

var texelFormats = func() map[string]bool {
	formats := map[string]bool{
		"rgba8unorm":      true,
		"rgba8unorm_srgb": true,
		"rgba8snorm":      true,
		"rgba8uint":       true,
		"rgba8sint":       true,
		"bgra8unorm":      true,
		"rg10a2unorm":     true,
		"rg11b10float":    true,
	}
	for _, channels := range []string{"r8", "rg8"} {
		for _, kind := range []string{"unorm", "snorm", "uint", "sint"} {
			formats[channels+kind] = true
		}
	}
	for _, channels := range []string{"r16", "rg16", "rgba16", "r32", "rg32", "rgba32"} {
		for _, kind := range []string{"uint", "sint", "float"} {
			formats[channels+kind] = true
		}
	}
	return formats
}()

func isTypeKeyword(kind idl.TokenType) bool {
	if _, ok := scalarTokens[kind]; ok {
		return true
	}
	if _, ok := vectorTokens[kind]; ok {
		return true
	}
	if _, ok := matrixTokens[kind]; ok {
		return true
	}
	if _, ok := textureTokens[kind]; ok {
		return true
	}
	switch kind {
	case idl.TokenTypeKeywordArray, idl.TokenTypeKeywordAtomic, idl.TokenTypeKeywordPtr,
		idl.TokenTypeKeywordSampler, idl.TokenTypeKeywordSamplerComparison:
		return true
	}
	return false
}

// TypeDecl = Scalar | Vector | Matrix | Array | Pointer | Atomic | Sampler | Texture | identifier .
func (p *parserWGSLTokens) parseType() TypeExpr {
	return p.parseTypeInferable(false)
}

// parseTypeInferable parses a type. When inferable is set, vector, matrix and
// array types may omit their template list if a constructor argument list
// follows.
func (p *parserWGSLTokens) parseTypeInferable(inferable bool) TypeExpr {
	tok := p.peek()
	if tok == nil {
		p.unexpected("a type")
		return nil
	}
	start := tok.Span.Start
	if kind, ok := scalarTokens[tok.Type]; ok {
		p.advance()
		return &ScalarType{Pos: p.pos(start), Kind: kind}
	}
	if size, ok := vectorTokens[tok.Type]; ok {
		p.advance()
		element, ok := p.parseElementTemplate(tok, inferable)
		if !ok {
			return nil
		}
		return &VectorType{Pos: p.pos(start), Size: size, Element: element}
	}
	if shape, ok := matrixTokens[tok.Type]; ok {
		p.advance()
		element, ok := p.parseElementTemplate(tok, inferable)
		if !ok {
			return nil
		}
		return &MatrixType{Pos: p.pos(start), Columns: shape[0], Rows: shape[1], Element: element}
	}
	if shape, ok := textureTokens[tok.Type]; ok {
		p.advance()
		if shape.storage {
			return p.parseStorageTexture(start, shape)
		}
		return p.parseTexture(start, shape)
	}
	switch tok.Type {
	case idl.TokenTypeKeywordArray:
		return p.parseArrayType(inferable)
	case idl.TokenTypeKeywordAtomic:
		return p.parseAtomicType()
	case idl.TokenTypeKeywordPtr:
		return p.parsePointerType()
	case idl.TokenTypeKeywordSampler:
		p.advance()
		return &SamplerType{Pos: p.pos(start)}
	case idl.TokenTypeKeywordSamplerComparison:
		p.advance()
		return &SamplerType{Pos: p.pos(start), Comparison: true}
	case idl.TokenTypeIdentifier:
		p.advance()
		return &NamedType{Pos: p.pos(start), Name: tok.Value}
	default:
		p.unexpected("a type")
		return nil
	}
}

// ElementTemplate = angle_open TypeDecl angle_close .
func (p *parserWGSLTokens) parseElementTemplate(keyword *idl.Token, inferable bool) (TypeExpr, bool) {
	if !p.peekIs(idl.TokenTypeAngleOpen) {
		if inferable && p.modern() && p.peekIs(idl.TokenTypeParenOpen) {
			return nil, true
		}
		p.reportMalformedType(fmt.Sprintf("%s requires a template argument", keyword.Value))
		return nil, false
	}
	p.advance()
	element := p.parseType()
	if element == nil {
		return nil, false
	}
	if !p.expectTemplateClose() {
		return nil, false
	}
	return element, true
}

// ArrayType = array angle_open TypeDecl [ comma ( int_literal | uint_literal | identifier ) ] [ comma ] angle_close .
func (p *parserWGSLTokens) parseArrayType(inferable bool) TypeExpr {
	start := p.start()
	keyword := p.expectOne(idl.TokenTypeKeywordArray)
	if keyword == nil {
		return nil
	}
	if !p.peekIs(idl.TokenTypeAngleOpen) {
		if inferable && p.modern() && p.peekIs(idl.TokenTypeParenOpen) {
			return &ArrayType{Pos: p.pos(start)}
		}
		p.reportMalformedType("array requires a template argument")
		return nil
	}
	p.advance()
	element := p.parseType()
	if element == nil {
		return nil
	}
	this := &ArrayType{Element: element}
	if p.peekIs(idl.TokenTypeComma) {
		p.advance()
		if !p.peekIs(idl.TokenTypeAngleClose) && !p.peekIs(idl.TokenTypeShiftRight) {
			size := p.parseArraySize()
			if size == nil {
				return nil
			}
			this.Size = size
			if p.peekIs(idl.TokenTypeComma) {
				p.advance()
			}
		}
	}
	if !p.expectTemplateClose() {
		return nil
	}
	this.Pos = p.pos(start)
	return this
}

func (p *parserWGSLTokens) parseArraySize() Expression {
	tok := p.peek()
	if tok == nil {
		p.unexpected("an array size")
		return nil
	}
	switch tok.Type {
	case idl.TokenTypeIntLiteral, idl.TokenTypeUintLiteral:
		return p.parseLiteral()
	case idl.TokenTypeIdentifier:
		p.advance()
		return &Identifier{Pos: Pos{Loc: tok.Span}, Name: tok.Value}
	default:
		p.reportMalformedType(fmt.Sprintf("unexpected %s (expecting an integer literal or identifier array size)", describe(tok)))
		return nil
	}
}

// AtomicType = atomic angle_open ( i32 | u32 ) angle_close .
func (p *parserWGSLTokens) parseAtomicType() TypeExpr {
	start := p.start()
	keyword := p.expectOne(idl.TokenTypeKeywordAtomic)
	if keyword == nil {
		return nil
	}
	element, ok := p.parseElementTemplate(keyword, false)
	if !ok {
		return nil
	}
	scalar, isScalar := element.(*ScalarType)
	if !isScalar || (scalar.Kind != ScalarI32 && scalar.Kind != ScalarU32) {
		p.reportAt(element.Span(), exc.CodeMalformedType, "atomic element must be i32 or u32")
		return nil
	}
	return &AtomicType{Pos: p.pos(start), Element: element}
}

// PointerType = ptr angle_open address_space comma TypeDecl [ comma access_mode ] angle_close .
func (p *parserWGSLTokens) parsePointerType() TypeExpr {
	start := p.start()
	if p.expectOne(idl.TokenTypeKeywordPtr) == nil {
		return nil
	}
	if p.expectOne(idl.TokenTypeAngleOpen) == nil {
		return nil
	}
	space := p.parseEnumerant(addressSpaces, "address space")
	if space == "" {
		return nil
	}
	if p.expectOne(idl.TokenTypeComma) == nil {
		return nil
	}
	pointee := p.parseType()
	if pointee == nil {
		return nil
	}
	this := &PointerType{AddressSpace: space, Pointee: pointee}
	if p.peekIs(idl.TokenTypeComma) {
		p.advance()
		access := p.parseEnumerant(accessModes, "access mode")
		if access == "" {
			return nil
		}
		this.AccessMode = access
	}
	if !p.expectTemplateClose() {
		return nil
	}
	this.Pos = p.pos(start)
	return this
}

// SampledTexture = texture_kind angle_open ( f32 | i32 | u32 ) angle_close .
// DepthTexture   = texture_depth_kind .
func (p *parserWGSLTokens) parseTexture(start idl.Location, shape textureShape) TypeExpr {
	this := &TextureType{
		Dimension:    shape.dimension,
		Multisampled: shape.multisampled,
		Depth:        shape.depth,
	}
	if !shape.depth {
		if p.expectOne(idl.TokenTypeAngleOpen) == nil {
			return nil
		}
		sampled := p.parseType()
		if sampled == nil {
			return nil
		}
		scalar, ok := sampled.(*ScalarType)
		if !ok || scalar.Kind == ScalarBool {
			p.reportAt(sampled.Span(), exc.CodeMalformedType, "texture sampled type must be f32, i32 or u32")
			return nil
		}
		if !p.expectTemplateClose() {
			return nil
		}
		this.Sampled = sampled
	}
	this.Pos = p.pos(start)
	return this
}

// StorageTexture = texture_storage_kind angle_open texel_format comma access_mode angle_close .
func (p *parserWGSLTokens) parseStorageTexture(start idl.Location, shape textureShape) TypeExpr {
	if p.expectOne(idl.TokenTypeAngleOpen) == nil {
		return nil
	}
	format := p.parseEnumerant(texelFormats, "texel format")
	if format == "" {
		return nil
	}
	if p.expectOne(idl.TokenTypeComma) == nil {
		return nil
	}
	access := p.parseEnumerant(accessModes, "access mode")
	if access == "" {
		return nil
	}
	if !p.expectTemplateClose() {
		return nil
	}
	return &StorageTextureType{
		Pos:       p.pos(start),
		Dimension: shape.dimension,
		Format:    format,
		Access:    access,
	}
}

// parseEnumerant consumes an identifier drawn from a fixed set. It returns the
// empty string after reporting when the identifier is missing or unknown.
func (p *parserWGSLTokens) parseEnumerant(allowed map[string]bool, what string) string {
	tok := p.peek()
	if tok == nil {
		p.unexpected(what)
		return ""
	}
	if tok.Type != idl.TokenTypeIdentifier || !allowed[tok.Value] {
		p.reportMalformedType(fmt.Sprintf("unexpected %s (expecting %s)", describe(tok), what))
		return ""
	}
	p.advance()
	return tok.Value
}

func (p *parserWGSLTokens) reportMalformedType(message string) {
	p.report(exc.CodeMalformedType, message)
}

// TypeAnnotation = [ AttributeList ] TypeDecl .
//
// Attributes in front of a type are only part of the legacy grammar.
func (p *parserWGSLTokens) parseTypeAnnotation() ([]*Attribute, TypeExpr, bool) {
	var attrs []*Attribute
	if p.legacy() {
		var ok bool
		attrs, ok = p.parseAttributes()
		if !ok {
			return nil, nil, false
		}
	}
	t := p.parseType()
	if t == nil {
		return nil, nil, false
	}
	return attrs, t, true
}
