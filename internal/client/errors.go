package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResult is returned by FetchOne when the query matched no rows.
	ErrNoResult = errors.New("grimo: query did not return a result")

	// ErrBuilderMisuse is returned when a builder is given an invalid
	// argument or is used after its terminal call.
	ErrBuilderMisuse = errors.New("grimo: builder misuse")
)

// NoResultError reports an empty FetchOne.
type NoResultError struct {
	Table string
}

func (e *NoResultError) Error() string {
	return fmt.Sprintf("grimo: query did not return a result (table: %q)", e.Table)
}

// Is reports whether target is ErrNoResult.
func (e *NoResultError) Is(target error) bool {
	return target == ErrNoResult
}

// MisuseError reports an invalid builder call.
type MisuseError struct {
	Op     string
	Reason string
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("grimo: %s: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrBuilderMisuse.
func (e *MisuseError) Is(target error) bool {
	return target == ErrBuilderMisuse
}
