package dataset

import (
	"fmt"
)

var (
	ErrMissingHeader = fmt.Errorf("missing csv header")
	ErrMissingColumn = fmt.Errorf("missing csv column")
)

// ParseError reports a cell which is neither empty nor a number. Row counts non-blank
// records from 1, header included.
type ParseError struct {
	Path   string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: row %d column %q: cannot parse %q: %s", e.Path, e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
