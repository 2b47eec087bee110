package templite

import "fmt"

// Reasons carried by a SyntaxError.
const (
	ReasonBadSyntax      = "bad syntax"
	ReasonInvalidName    = "invalid name"
	ReasonUnmatchedEnd   = "unmatched end"
	ReasonMismatchedEnd  = "mismatched end"
	ReasonUnclosedAction = "unmatched action"
)

// A SyntaxError is returned by Compile when a tag is malformed or blocks
// are not properly nested. Tag holds the offending tag verbatim, or for an
// invalid name the name itself, or for an unclosed block the kind of block.
type SyntaxError struct {
	Reason string
	Tag    string
	Line   int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("templite: line %d: %s: %s", e.Line, e.Reason, e.Tag)
}

// A LookupError is returned by Render when a name or a dotted property
// cannot be resolved. For a bare name, Name equals Expr.
type LookupError struct {
	Expr string
	Name string
}

func (e *LookupError) Error() string {
	if e.Expr == e.Name {
		return fmt.Sprintf("templite: undefined variable %q", e.Name)
	}
	return fmt.Sprintf("templite: cannot resolve %q in %q", e.Name, e.Expr)
}

// An ExecError is returned by Render when an expression resolves but
// cannot be used: a loop over a value that is not a sequence, or an
// accessor that returned an error.
type ExecError struct {
	Expr string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("templite: evaluating %q: %v", e.Expr, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
