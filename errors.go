// errors.go — user-facing diagnostic wrapping and caret-snippet rendering.
//
// Every pipeline stage surfaces exactly one structured error: *LexError,
// *ParseError, *SemanticError or *RuntimeError, each carrying a 1-based Line
// and 0-based Col. WrapErrorWithSource turns one of those into a readable
// multi-line snippet with a caret under the offending column:
//
//	SYNTAX ERROR at 2:9: expected ';', found 'print'
//
//	   1 | var x : int := 1
//	   2 | print x
//	       |        ^
//
// Anything that is not a stage error passes through unchanged. Diagnose
// exposes the same four error kinds as a flat {Stage, Line, Col, Message}
// record for hosts that want structure instead of text.
package minipl

import (
	"fmt"
	"strings"
)

// Diagnostic is the structured form of a stage error. Line and Col are both
// 1-based here.
type Diagnostic struct {
	Stage   string // "lexical", "syntax", "semantic" or "runtime"
	Line    int
	Col     int
	Message string
}

// Diagnose extracts a Diagnostic from a stage error. The boolean is false for
// any other error.
func Diagnose(err error) (Diagnostic, bool) {
	switch e := err.(type) {
	case *LexError:
		return Diagnostic{Stage: "lexical", Line: e.Line, Col: e.Col + 1, Message: e.Msg}, true
	case *ParseError:
		return Diagnostic{Stage: "syntax", Line: e.Line, Col: e.Col + 1, Message: e.Msg}, true
	case *SemanticError:
		return Diagnostic{Stage: "semantic", Line: e.Line, Col: e.Col + 1, Message: e.Msg}, true
	case *RuntimeError:
		return Diagnostic{Stage: "runtime", Line: e.Line, Col: e.Col + 1, Message: e.Msg}, true
	default:
		return Diagnostic{}, false
	}
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. Stage errors are recognized; all other
// errors are returned untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name ("in <name>")
// in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorString(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorString(src, "SYNTAX ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *SemanticError:
		return fmt.Errorf("%s", prettyErrorString(src, "SEMANTIC ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("%s", prettyErrorString(src, "RUNTIME ERROR", srcName, e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// prettyErrorString builds the snippet with a header and a caret. It shows at
// most one previous and one next line. Coordinates are 1-based here and
// clamped to the source bounds so rendering never fails.
func prettyErrorString(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
