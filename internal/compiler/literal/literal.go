// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package literal recognizes the lexical forms of numeric and boolean
// literals. Recognizers only validate and classify text; they never compute
// values.
package literal

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	KindNone Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "none"
	}
}

// Literal is a classified literal lexeme.
type Literal struct {
	Kind Kind
	// Text is the exact source text, including any sign and suffix.
	Text     string
	Negative bool
	Hex      bool
	// Suffix is one of "", "i", "u" or "f".
	Suffix string
}

// Error describes why a lexeme is not a literal.
type Error struct {
	Text   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("malformed literal %q: %s", e.Text, e.Reason)
}

func malformed(text string, reason string) error {
	return &Error{Text: text, Reason: reason}
}

// Bool recognizes true and false.
func Bool(text string) (Literal, error) {
	switch text {
	case "true", "false":
		return Literal{Kind: KindBool, Text: text}, nil
	default:
		return Literal{}, malformed(text, "expected true or false")
	}
}

// Int recognizes decimal and hexadecimal integers with an optional leading '-'
// and an optional 'i' or 'u' suffix.
//
//	int = [ "-" ] ( "0" | [1-9][0-9]* | "0" [xX] hexdigit { hexdigit } ) [ "i" | "u" ] .
func Int(text string) (Literal, error) {
	result := Literal{Kind: KindInt, Text: text}
	s := text
	if strings.HasPrefix(s, "-") {
		result.Negative = true
		s = s[1:]
	}
	if s == "" {
		return Literal{}, malformed(text, "missing digits")
	}
	switch {
	case hasHexPrefix(s):
		result.Hex = true
		digits := countWhile(s[2:], isHexDigit)
		if digits == 0 {
			return Literal{}, malformed(text, "missing hexadecimal digits")
		}
		s = s[2+digits:]
	case s[0] == '0':
		s = s[1:]
		if s != "" && isDigit(s[0]) {
			return Literal{}, malformed(text, "leading zero in decimal integer")
		}
	case isDigit(s[0]):
		s = s[countWhile(s, isDigit):]
	default:
		return Literal{}, malformed(text, "expected a digit")
	}
	switch s {
	case "":
	case "i":
		result.Suffix = s
	case "u":
		if result.Negative {
			return Literal{}, malformed(text, "unsigned literal cannot be negative")
		}
		result.Kind = KindUint
		result.Suffix = s
	default:
		return Literal{}, malformed(text, fmt.Sprintf("invalid integer suffix %q", s))
	}
	return result, nil
}

// Float recognizes decimal and hexadecimal floating point literals with an
// optional leading '-' and an optional 'f' suffix.
//
//	decimal = [ "-" ] ( digits "." [ digits ] | "." digits ) [ exponent ] [ "f" ]
//	        | [ "-" ] digits exponent [ "f" ]
//	        | [ "-" ] ( "0" | [1-9][0-9]* ) "f" .
//	hex     = [ "-" ] "0" [xX] ( hexdigits [ "." [ hexdigits ] ] | "." hexdigits ) [pP] [ "+" | "-" ] digits [ "f" ] .
func Float(text string) (Literal, error) {
	result := Literal{Kind: KindFloat, Text: text}
	s := text
	if strings.HasPrefix(s, "-") {
		result.Negative = true
		s = s[1:]
	}
	if s == "" {
		return Literal{}, malformed(text, "missing digits")
	}
	var rest string
	var err error
	if hasHexPrefix(s) {
		result.Hex = true
		rest, err = hexFloat(text, s[2:])
	} else {
		rest, err = decimalFloat(text, s)
	}
	if err != nil {
		return Literal{}, err
	}
	switch rest {
	case "":
	case "f":
		result.Suffix = rest
	default:
		return Literal{}, malformed(text, fmt.Sprintf("invalid float suffix %q", rest))
	}
	return result, nil
}

func decimalFloat(text string, s string) (string, error) {
	whole := countWhile(s, isDigit)
	intPart := s[:whole]
	s = s[whole:]
	hasDot := strings.HasPrefix(s, ".")
	frac := 0
	if hasDot {
		s = s[1:]
		frac = countWhile(s, isDigit)
		s = s[frac:]
	}
	if whole+frac == 0 {
		return "", malformed(text, "expected a digit")
	}
	if s != "" && (s[0] == 'e' || s[0] == 'E') {
		rest, err := exponent(text, s[1:])
		if err != nil {
			return "", err
		}
		return rest, nil
	}
	if hasDot {
		return s, nil
	}
	// Only digits so far; without a dot or exponent the suffix is mandatory.
	if s != "f" {
		return "", malformed(text, "expected '.', exponent or 'f' suffix")
	}
	if len(intPart) > 1 && intPart[0] == '0' {
		return "", malformed(text, "leading zero in decimal float")
	}
	return s, nil
}

func hexFloat(text string, s string) (string, error) {
	whole := countWhile(s, isHexDigit)
	s = s[whole:]
	frac := 0
	if strings.HasPrefix(s, ".") {
		s = s[1:]
		frac = countWhile(s, isHexDigit)
		s = s[frac:]
	}
	if whole+frac == 0 {
		return "", malformed(text, "missing hexadecimal digits")
	}
	if s == "" || (s[0] != 'p' && s[0] != 'P') {
		return "", malformed(text, "hexadecimal float requires a binary exponent")
	}
	return exponent(text, s[1:])
}

func exponent(text string, s string) (string, error) {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	digits := countWhile(s, isDigit)
	if digits == 0 {
		return "", malformed(text, "missing exponent digits")
	}
	return s[digits:], nil
}

// Number recognizes any numeric literal, trying the integer grammar first.
func Number(text string) (Literal, error) {
	lit, intErr := Int(text)
	if intErr == nil {
		return lit, nil
	}
	lit, floatErr := Float(text)
	if floatErr == nil {
		return lit, nil
	}
	if looksFloat(text) {
		return Literal{}, floatErr
	}
	return Literal{}, intErr
}

func looksFloat(text string) bool {
	s := strings.TrimPrefix(text, "-")
	if hasHexPrefix(s) {
		return strings.ContainsAny(s, ".pP")
	}
	return strings.ContainsAny(s, ".eE") || strings.HasSuffix(s, "f")
}

func hasHexPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func countWhile(s string, f func(byte) bool) int {
	n := 0
	for n < len(s) && f(s[n]) {
		n = n + 1
	}
	return n
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
