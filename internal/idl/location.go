// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import "fmt"

// Location is a point in a source file. Line and Column start at 1 and Column
// counts code points. Offset is the 0-based byte offset.
type Location struct {
	Line   int32
	Column int32
	Offset int64
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Span is a half open range of source. End points just past the last byte.
type Span struct {
	Start Location
	End   Location
}

// Contains reports whether other lies entirely within the span.
func (s Span) Contains(other Span) bool {
	return s.Start.Offset <= other.Start.Offset && other.End.Offset <= s.End.Offset
}

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	result := s
	if other.Start.Offset < result.Start.Offset {
		result.Start = other.Start
	}
	if other.End.Offset > result.End.Offset {
		result.End = other.End
	}
	return result
}

func (s Span) Len() int64 {
	return s.End.Offset - s.Start.Offset
}
