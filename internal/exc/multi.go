// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"sort"
	"strings"
)

// MultiException collects several exceptions into a single error value.
type MultiException []Exception

func (self MultiException) Error() string {
	if len(self) == 0 {
		return "no exceptions"
	}
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}

// Codes returns the code of each exception in order.
func (self MultiException) Codes() []string {
	codes := make([]string, 0, len(self))
	for _, e := range self {
		codes = append(codes, e.Code())
	}
	return codes
}

// Sorted returns a copy ordered by URI then source offset. Exceptions reported
// for the same position keep their report order.
func (self MultiException) Sorted() MultiException {
	result := make(MultiException, len(self))
	copy(result, self)
	sort.SliceStable(result, func(i int, j int) bool {
		li := result[i].Location()
		lj := result[j].Location()
		if li.URI != lj.URI {
			return li.URI < lj.URI
		}
		return li.Start.Offset < lj.Start.Offset
	})
	return result
}
