package wds

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument marks a malformed call caught before any remote request.
var ErrInvalidArgument = errors.New("invalid argument")

// RemoteError is returned whenever WDS (or the transport underneath it)
// fails: non-2xx HTTP, an unexpected payload shape, or an item-level status
// other than SUCCESS on an otherwise fine HTTP 200.
type RemoteError struct {
	Endpoint string
	Status   string
	Err      error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wds %s: %s", e.Endpoint, e.Err.Error())
	}
	return fmt.Sprintf("wds %s: status %q", e.Endpoint, e.Status)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// UnknownDimensionError means a selection referenced a dimension name that
// does not exist in the loaded catalog. Matching is exact and case-sensitive.
type UnknownDimensionError struct {
	Dimension string
}

func (e *UnknownDimensionError) Error() string {
	return fmt.Sprintf("could not locate dimension %q", e.Dimension)
}

// UnknownMemberError means a selection referenced a member name that does not
// exist within its dimension.
type UnknownMemberError struct {
	Dimension string
	Member    string
}

func (e *UnknownMemberError) Error() string {
	return fmt.Sprintf("no member %q found for dimension %q", e.Member, e.Dimension)
}

// NoValidSeriesError means every coordinate in a resolution batch failed to
// map to a real series. Labels holds the offending label tuples in the order
// the selections were given.
type NoValidSeriesError struct {
	Labels [][]string
}

func (e *NoValidSeriesError) Error() string {
	tuples := make([]string, len(e.Labels))
	for i, l := range e.Labels {
		tuples[i] = fmt.Sprintf("(%s)", strings.Join(l, ", "))
	}
	return fmt.Sprintf(
		"no valid series for any of the requested combinations: %s",
		strings.Join(tuples, ", "),
	)
}
