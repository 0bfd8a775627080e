// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import "fmt"

type Token struct {
	Span  Span
	Type  TokenType
	Value string
}

type TokenType uint16

const (
	TokenTypeUnknown TokenType = iota
	TokenTypeComment
	TokenTypeIdentifier
	TokenTypeUnderscore
	TokenTypeIntLiteral
	TokenTypeUintLiteral
	TokenTypeFloatLiteral
	TokenTypeInvalidNumber

	// punctuation
	TokenTypeParenOpen
	TokenTypeParenClose
	TokenTypeCurlyOpen
	TokenTypeCurlyClose
	TokenTypeSquareOpen
	TokenTypeSquareClose
	TokenTypeAngleOpen
	TokenTypeAngleClose
	TokenTypeComma
	TokenTypeColon
	TokenTypeSemicolon
	TokenTypeDot
	TokenTypeAt
	TokenTypeArrow
	TokenTypeEqual
	TokenTypePlus
	TokenTypeMinus
	TokenTypeStar
	TokenTypeSlash
	TokenTypePercent
	TokenTypeAmpersand
	TokenTypeAmpersandAmpersand
	TokenTypePipe
	TokenTypePipePipe
	TokenTypeCaret
	TokenTypeTilde
	TokenTypeExclamation
	TokenTypeComparison
	TokenTypeNotComparison
	TokenTypeLesserEqual
	TokenTypeGreaterEqual
	TokenTypeShiftLeft
	TokenTypeShiftRight
	TokenTypePlusEqual
	TokenTypeMinusEqual
	TokenTypeMultiplyEqual
	TokenTypeDivideEqual
	TokenTypeModuloEqual
	TokenTypeAndEqual
	TokenTypeOrEqual
	TokenTypeXorEqual
	TokenTypeShiftLeftEqual
	TokenTypeShiftRightEqual
	TokenTypePlusPlus
	TokenTypeMinusMinus

	// keywords
	TokenTypeKeywordFn
	TokenTypeKeywordStruct
	TokenTypeKeywordVar
	TokenTypeKeywordLet
	TokenTypeKeywordConst
	TokenTypeKeywordOverride
	TokenTypeKeywordType
	TokenTypeKeywordAlias
	TokenTypeKeywordEnable
	TokenTypeKeywordIf
	TokenTypeKeywordElseif
	TokenTypeKeywordElse
	TokenTypeKeywordSwitch
	TokenTypeKeywordCase
	TokenTypeKeywordDefault
	TokenTypeKeywordFallthrough
	TokenTypeKeywordLoop
	TokenTypeKeywordContinuing
	TokenTypeKeywordFor
	TokenTypeKeywordWhile
	TokenTypeKeywordBreak
	TokenTypeKeywordContinue
	TokenTypeKeywordDiscard
	TokenTypeKeywordReturn
	TokenTypeKeywordTrue
	TokenTypeKeywordFalse
	TokenTypeKeywordBitcast

	// type keywords
	TokenTypeKeywordBool
	TokenTypeKeywordI32
	TokenTypeKeywordU32
	TokenTypeKeywordF32
	TokenTypeKeywordVec2
	TokenTypeKeywordVec3
	TokenTypeKeywordVec4
	TokenTypeKeywordMat2x2
	TokenTypeKeywordMat2x3
	TokenTypeKeywordMat2x4
	TokenTypeKeywordMat3x2
	TokenTypeKeywordMat3x3
	TokenTypeKeywordMat3x4
	TokenTypeKeywordMat4x2
	TokenTypeKeywordMat4x3
	TokenTypeKeywordMat4x4
	TokenTypeKeywordArray
	TokenTypeKeywordAtomic
	TokenTypeKeywordPtr
	TokenTypeKeywordSampler
	TokenTypeKeywordSamplerComparison
	TokenTypeKeywordTexture1d
	TokenTypeKeywordTexture2d
	TokenTypeKeywordTexture2dArray
	TokenTypeKeywordTexture3d
	TokenTypeKeywordTextureCube
	TokenTypeKeywordTextureCubeArray
	TokenTypeKeywordTextureMultisampled2d
	TokenTypeKeywordTextureDepth2d
	TokenTypeKeywordTextureDepth2dArray
	TokenTypeKeywordTextureDepthCube
	TokenTypeKeywordTextureDepthCubeArray
	TokenTypeKeywordTextureDepthMultisampled2d
	TokenTypeKeywordTextureStorage1d
	TokenTypeKeywordTextureStorage2d
	TokenTypeKeywordTextureStorage2dArray
	TokenTypeKeywordTextureStorage3d
)

var tokenTypeNames = map[TokenType]string{
	TokenTypeUnknown:                           "unknown",
	TokenTypeComment:                           "comment",
	TokenTypeIdentifier:                        "identifier",
	TokenTypeUnderscore:                        "underscore",
	TokenTypeIntLiteral:                        "int-literal",
	TokenTypeUintLiteral:                       "uint-literal",
	TokenTypeFloatLiteral:                      "float-literal",
	TokenTypeInvalidNumber:                     "invalid-number",
	TokenTypeParenOpen:                         "(",
	TokenTypeParenClose:                        ")",
	TokenTypeCurlyOpen:                         "{",
	TokenTypeCurlyClose:                        "}",
	TokenTypeSquareOpen:                        "[",
	TokenTypeSquareClose:                       "]",
	TokenTypeAngleOpen:                         "<",
	TokenTypeAngleClose:                        ">",
	TokenTypeComma:                             ",",
	TokenTypeColon:                             ":",
	TokenTypeSemicolon:                         ";",
	TokenTypeDot:                               ".",
	TokenTypeAt:                                "@",
	TokenTypeArrow:                             "->",
	TokenTypeEqual:                             "=",
	TokenTypePlus:                              "+",
	TokenTypeMinus:                             "-",
	TokenTypeStar:                              "*",
	TokenTypeSlash:                             "/",
	TokenTypePercent:                           "%",
	TokenTypeAmpersand:                         "&",
	TokenTypeAmpersandAmpersand:                "&&",
	TokenTypePipe:                              "|",
	TokenTypePipePipe:                          "||",
	TokenTypeCaret:                             "^",
	TokenTypeTilde:                             "~",
	TokenTypeExclamation:                       "!",
	TokenTypeComparison:                        "==",
	TokenTypeNotComparison:                     "!=",
	TokenTypeLesserEqual:                       "<=",
	TokenTypeGreaterEqual:                      ">=",
	TokenTypeShiftLeft:                         "<<",
	TokenTypeShiftRight:                        ">>",
	TokenTypePlusEqual:                         "+=",
	TokenTypeMinusEqual:                        "-=",
	TokenTypeMultiplyEqual:                     "*=",
	TokenTypeDivideEqual:                       "/=",
	TokenTypeModuloEqual:                       "%=",
	TokenTypeAndEqual:                          "&=",
	TokenTypeOrEqual:                           "|=",
	TokenTypeXorEqual:                          "^=",
	TokenTypeShiftLeftEqual:                    "<<=",
	TokenTypeShiftRightEqual:                   ">>=",
	TokenTypePlusPlus:                          "++",
	TokenTypeMinusMinus:                        "--",
	TokenTypeKeywordFn:                         "fn",
	TokenTypeKeywordStruct:                     "struct",
	TokenTypeKeywordVar:                        "var",
	TokenTypeKeywordLet:                        "let",
	TokenTypeKeywordConst:                      "const",
	TokenTypeKeywordOverride:                   "override",
	TokenTypeKeywordType:                       "type",
	TokenTypeKeywordAlias:                      "alias",
	TokenTypeKeywordEnable:                     "enable",
	TokenTypeKeywordIf:                         "if",
	TokenTypeKeywordElseif:                     "elseif",
	TokenTypeKeywordElse:                       "else",
	TokenTypeKeywordSwitch:                     "switch",
	TokenTypeKeywordCase:                       "case",
	TokenTypeKeywordDefault:                    "default",
	TokenTypeKeywordFallthrough:                "fallthrough",
	TokenTypeKeywordLoop:                       "loop",
	TokenTypeKeywordContinuing:                 "continuing",
	TokenTypeKeywordFor:                        "for",
	TokenTypeKeywordWhile:                      "while",
	TokenTypeKeywordBreak:                      "break",
	TokenTypeKeywordContinue:                   "continue",
	TokenTypeKeywordDiscard:                    "discard",
	TokenTypeKeywordReturn:                     "return",
	TokenTypeKeywordTrue:                       "true",
	TokenTypeKeywordFalse:                      "false",
	TokenTypeKeywordBitcast:                    "bitcast",
	TokenTypeKeywordBool:                       "bool",
	TokenTypeKeywordI32:                        "i32",
	TokenTypeKeywordU32:                        "u32",
	TokenTypeKeywordF32:                        "f32",
	TokenTypeKeywordVec2:                       "vec2",
	TokenTypeKeywordVec3:                       "vec3",
	TokenTypeKeywordVec4:                       "vec4",
	TokenTypeKeywordMat2x2:                     "mat2x2",
	TokenTypeKeywordMat2x3:                     "mat2x3",
	TokenTypeKeywordMat2x4:                     "mat2x4",
	TokenTypeKeywordMat3x2:                     "mat3x2",
	TokenTypeKeywordMat3x3:                     "mat3x3",
	TokenTypeKeywordMat3x4:                     "mat3x4",
	TokenTypeKeywordMat4x2:                     "mat4x2",
	TokenTypeKeywordMat4x3:                     "mat4x3",
	TokenTypeKeywordMat4x4:                     "mat4x4",
	TokenTypeKeywordArray:                      "array",
	TokenTypeKeywordAtomic:                     "atomic",
	TokenTypeKeywordPtr:                        "ptr",
	TokenTypeKeywordSampler:                    "sampler",
	TokenTypeKeywordSamplerComparison:          "sampler_comparison",
	TokenTypeKeywordTexture1d:                  "texture_1d",
	TokenTypeKeywordTexture2d:                  "texture_2d",
	TokenTypeKeywordTexture2dArray:             "texture_2d_array",
	TokenTypeKeywordTexture3d:                  "texture_3d",
	TokenTypeKeywordTextureCube:                "texture_cube",
	TokenTypeKeywordTextureCubeArray:           "texture_cube_array",
	TokenTypeKeywordTextureMultisampled2d:      "texture_multisampled_2d",
	TokenTypeKeywordTextureDepth2d:             "texture_depth_2d",
	TokenTypeKeywordTextureDepth2dArray:        "texture_depth_2d_array",
	TokenTypeKeywordTextureDepthCube:           "texture_depth_cube",
	TokenTypeKeywordTextureDepthCubeArray:      "texture_depth_cube_array",
	TokenTypeKeywordTextureDepthMultisampled2d: "texture_depth_multisampled_2d",
	TokenTypeKeywordTextureStorage1d:           "texture_storage_1d",
	TokenTypeKeywordTextureStorage2d:           "texture_storage_2d",
	TokenTypeKeywordTextureStorage2dArray:      "texture_storage_2d_array",
	TokenTypeKeywordTextureStorage3d:           "texture_storage_3d",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token-%d", uint16(t))
}

// Keywords maps every reserved word to its token type.
var Keywords = map[string]TokenType{
	"fn":                            TokenTypeKeywordFn,
	"struct":                        TokenTypeKeywordStruct,
	"var":                           TokenTypeKeywordVar,
	"let":                           TokenTypeKeywordLet,
	"const":                         TokenTypeKeywordConst,
	"override":                      TokenTypeKeywordOverride,
	"type":                          TokenTypeKeywordType,
	"alias":                         TokenTypeKeywordAlias,
	"enable":                        TokenTypeKeywordEnable,
	"if":                            TokenTypeKeywordIf,
	"elseif":                        TokenTypeKeywordElseif,
	"else":                          TokenTypeKeywordElse,
	"switch":                        TokenTypeKeywordSwitch,
	"case":                          TokenTypeKeywordCase,
	"default":                       TokenTypeKeywordDefault,
	"fallthrough":                   TokenTypeKeywordFallthrough,
	"loop":                          TokenTypeKeywordLoop,
	"continuing":                    TokenTypeKeywordContinuing,
	"for":                           TokenTypeKeywordFor,
	"while":                         TokenTypeKeywordWhile,
	"break":                         TokenTypeKeywordBreak,
	"continue":                      TokenTypeKeywordContinue,
	"discard":                       TokenTypeKeywordDiscard,
	"return":                        TokenTypeKeywordReturn,
	"true":                          TokenTypeKeywordTrue,
	"false":                         TokenTypeKeywordFalse,
	"bitcast":                       TokenTypeKeywordBitcast,
	"bool":                          TokenTypeKeywordBool,
	"i32":                           TokenTypeKeywordI32,
	"u32":                           TokenTypeKeywordU32,
	"f32":                           TokenTypeKeywordF32,
	"vec2":                          TokenTypeKeywordVec2,
	"vec3":                          TokenTypeKeywordVec3,
	"vec4":                          TokenTypeKeywordVec4,
	"mat2x2":                        TokenTypeKeywordMat2x2,
	"mat2x3":                        TokenTypeKeywordMat2x3,
	"mat2x4":                        TokenTypeKeywordMat2x4,
	"mat3x2":                        TokenTypeKeywordMat3x2,
	"mat3x3":                        TokenTypeKeywordMat3x3,
	"mat3x4":                        TokenTypeKeywordMat3x4,
	"mat4x2":                        TokenTypeKeywordMat4x2,
	"mat4x3":                        TokenTypeKeywordMat4x3,
	"mat4x4":                        TokenTypeKeywordMat4x4,
	"array":                         TokenTypeKeywordArray,
	"atomic":                        TokenTypeKeywordAtomic,
	"ptr":                           TokenTypeKeywordPtr,
	"sampler":                       TokenTypeKeywordSampler,
	"sampler_comparison":            TokenTypeKeywordSamplerComparison,
	"texture_1d":                    TokenTypeKeywordTexture1d,
	"texture_2d":                    TokenTypeKeywordTexture2d,
	"texture_2d_array":              TokenTypeKeywordTexture2dArray,
	"texture_3d":                    TokenTypeKeywordTexture3d,
	"texture_cube":                  TokenTypeKeywordTextureCube,
	"texture_cube_array":            TokenTypeKeywordTextureCubeArray,
	"texture_multisampled_2d":       TokenTypeKeywordTextureMultisampled2d,
	"texture_depth_2d":              TokenTypeKeywordTextureDepth2d,
	"texture_depth_2d_array":        TokenTypeKeywordTextureDepth2dArray,
	"texture_depth_cube":            TokenTypeKeywordTextureDepthCube,
	"texture_depth_cube_array":      TokenTypeKeywordTextureDepthCubeArray,
	"texture_depth_multisampled_2d": TokenTypeKeywordTextureDepthMultisampled2d,
	"texture_storage_1d":            TokenTypeKeywordTextureStorage1d,
	"texture_storage_2d":            TokenTypeKeywordTextureStorage2d,
	"texture_storage_2d_array":      TokenTypeKeywordTextureStorage2dArray,
	"texture_storage_3d":            TokenTypeKeywordTextureStorage3d,
}
