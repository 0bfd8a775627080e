// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"encoding/hex"

	"google.golang.org/protobuf/types/known/structpb"

	"gopkg.microglot.org/wgsl.go/internal/compiler/wgsl"
)

// Describe converts a compile result into a protobuf Struct with one entry per
// file. Duplicate files name the file they repeat and carry no module.
func (r *Result) Describe(withSpans bool) (*structpb.Struct, error) {
	files := make([]*structpb.Value, 0, len(r.Files))
	for _, f := range r.Files {
		entry := &structpb.Struct{Fields: map[string]*structpb.Value{
			"uri":    structpb.NewStringValue(f.URI),
			"digest": structpb.NewStringValue(hex.EncodeToString(f.Digest[:])),
			"module": structpb.NewNullValue(),
		}}
		switch {
		case f.DuplicateOf != "":
			entry.Fields["duplicate_of"] = structpb.NewStringValue(f.DuplicateOf)
		case f.Module != nil:
			mod, err := wgsl.Describe(f.Module, withSpans)
			if err != nil {
				return nil, err
			}
			entry.Fields["module"] = structpb.NewStructValue(mod)
		}
		files = append(files, structpb.NewStructValue(entry))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"files": structpb.NewListValue(&structpb.ListValue{Values: files}),
	}}, nil
}
