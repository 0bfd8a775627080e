// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

const (
	CodeUnknownFatal                  = "W0000"
	CodeFileNotFound                  = "W0001"
	CodeUnsuportedFileSystemOperation = "W0002"
	CodePermissionDenied              = "W0003"
	CodeUnsupportedFileFormat         = "W0004"
	CodeUnexpectedEOF                 = "W0005"
)

// Front end diagnostics.
const (
	CodeLexError                   = "W0100"
	CodeUnexpectedToken            = "W0101"
	CodeUnterminatedConstruct      = "W0102"
	CodeMalformedLiteral           = "W0103"
	CodeMalformedType              = "W0104"
	CodeAmbiguousConstructDeferred = "W0105"
)

const (
	CodeInvalidConfig = "W0200"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{
		CodeAmbiguousConstructDeferred: true,
	}
)

var codeNames = map[string]string{
	CodeUnknownFatal:                  "UnknownFatal",
	CodeFileNotFound:                  "FileNotFound",
	CodeUnsuportedFileSystemOperation: "UnsupportedFileSystemOperation",
	CodePermissionDenied:              "PermissionDenied",
	CodeUnsupportedFileFormat:         "UnsupportedFileFormat",
	CodeUnexpectedEOF:                 "UnexpectedEOF",
	CodeLexError:                      "LexError",
	CodeUnexpectedToken:               "UnexpectedToken",
	CodeUnterminatedConstruct:         "UnterminatedConstruct",
	CodeMalformedLiteral:              "MalformedLiteral",
	CodeMalformedType:                 "MalformedType",
	CodeAmbiguousConstructDeferred:    "AmbiguousConstructDeferred",
	CodeInvalidConfig:                 "InvalidConfig",
}

// CodeName returns the symbolic name of a diagnostic code.
func CodeName(code string) string {
	if name, ok := codeNames[code]; ok {
		return name
	}
	return code
}
