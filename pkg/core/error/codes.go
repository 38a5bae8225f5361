// ============================================================================
// skymodel - Sky model text format tools
// ============================================================================
//
// Package:     error
// Description: Error codes classifying parse, conversion and CLI failures
// License:     MIT
// ============================================================================

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown  Code = "UNKNOWN"
	CodeInternal Code = "INTERNAL"
	CodeIO       Code = "IO_ERROR"

	// Sky model text parsing
	CodeFormat              Code = "FORMAT_ERROR"
	CodeUnexpectedEOF       Code = "UNEXPECTED_EOF"
	CodeUnrecognizedKeyword Code = "UNRECOGNIZED_KEYWORD"
	CodeMissingSED          Code = "MISSING_SED"
	CodeMissingField        Code = "MISSING_FIELD"

	// Coordinates
	CodeCoordinate Code = "COORDINATE_ERROR"

	// Catalogue I/O and the command line
	CodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	CodeMissingOption     Code = "MISSING_OPTION"
	CodeInvalidConfig     Code = "INVALID_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsFatal reports whether an error with this code aborts a conversion.
// Unrecognized keywords are reported but never stop parsing.
func (c Code) IsFatal() bool {
	return c != CodeUnrecognizedKeyword
}
