package pipeline

import (
	"errors"
	"strings"
)

// ErrWriteNotPermitted reports a synthesized statement whose leading keyword
// is anything other than SELECT.
var ErrWriteNotPermitted = errors.New("pipeline: only SELECT statements are permitted")

// AuthorizeQuery admits a statement only when its first whitespace-delimited
// token is SELECT, case-insensitively. Everything else, including empty
// statements and write verbs buried behind comments, is rejected before the
// store is touched.
func AuthorizeQuery(query string) error {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ErrWriteNotPermitted
	}
	if !strings.EqualFold(fields[0], "select") {
		return ErrWriteNotPermitted
	}
	return nil
}
