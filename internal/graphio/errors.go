package graphio

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrParse marks every malformed-input error from this package
var ErrParse = errors.New("parse error")

// ParseError locates a malformed line
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func parseErrorf(line int, format string, args ...any) error {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
