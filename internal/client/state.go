package client

import (
	"fmt"
	"slices"
)

const reasonExecuted = "builder already executed"

// state enforces single use. The first error is kept; once closed, every
// further call is rejected without touching the intent.
type state struct {
	table   string
	closed  string
	err     error
	columns map[string]struct{}
}

func newState(table string, columns map[string]struct{}) *state {
	return &state{table: table, columns: columns}
}

// mutable reports whether method may change the intent.
func (s *state) mutable(method string) bool {
	if s.closed != "" {
		s.fail(method, "%s", s.closed)
		return false
	}
	return s.err == nil
}

func (s *state) fail(method, reason string, args ...any) {
	if s.err == nil {
		s.err = &MisuseError{Op: method, Reason: fmt.Sprintf(reason, args...)}
	}
}

// finish closes the builder for its terminal call.
func (s *state) finish(method string) error {
	if s.closed != "" {
		err := &MisuseError{Op: method, Reason: s.closed}
		if s.err == nil {
			s.err = err
		}
		return err
	}
	s.closed = reasonExecuted
	return s.err
}

// handOff closes s in favor of a successor variant carrying the same error.
func (s *state) handOff(method string) *state {
	next := &state{table: s.table, err: s.err, columns: s.columns}
	if s.closed != "" {
		s.fail(method, "%s", s.closed)
		next.err = s.err
	}
	if s.closed == "" {
		s.closed = "builder replaced by its " + method + " variant"
	}
	return next
}

// checkColumns validates names against the table metadata, when known.
func (s *state) checkColumns(method string, names ...string) bool {
	if s.columns == nil {
		return true
	}
	for _, n := range names {
		if n == "*" && method == "Returning" {
			continue
		}
		if _, ok := s.columns[n]; !ok {
			s.fail(method, "unknown column %q on %q", n, s.table)
			return false
		}
	}
	return true
}

func returningColumns(columns []string) []string {
	if len(columns) == 0 {
		return []string{"*"}
	}
	return slices.Clone(columns)
}
