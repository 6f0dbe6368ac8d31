package score

import "fmt"

// ParseError reports a malformed annotation payload. Fatal, surfaced
// verbatim.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "parse error: " + e.Msg }

func Parsef(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// StructuralError reports a score the pipeline cannot convert (orphan
// note-off, unterminated note-on, zero tracks after pruning). Fatal, aborts
// with no partial output.
type StructuralError struct {
	Msg string
}

func (e *StructuralError) Error() string { return e.Msg }

func Structuralf(format string, args ...any) error {
	return &StructuralError{Msg: fmt.Sprintf(format, args...)}
}
