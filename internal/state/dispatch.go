package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Result is the settlement of a dispatched operation.
type Result[T any] struct {
	Value T
	Err   error
}

// Dispatch runs op on its own goroutine and returns a channel that receives
// exactly one Result. The channel is buffered: the operation settles into the
// store whether or not anyone reads it.
func Dispatch[T any](ctx context.Context, op func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		v, err := op(ctx)
		out <- Result[T]{Value: v, Err: err}
		close(out)
	}()
	return out
}

// FetchOrdering decides which of two overlapping fetches on one slice wins.
type FetchOrdering string

const (
	// FetchArrival applies every response; the last to arrive wins.
	FetchArrival FetchOrdering = "arrival"
	// FetchIssue discards a response older than the last one applied, so the
	// last request issued wins.
	FetchIssue FetchOrdering = "issue"
)

var ErrUnknownOrdering = errors.New("unknown fetch ordering")

func ParseFetchOrdering(s string) (FetchOrdering, error) {
	switch FetchOrdering(strings.ToLower(strings.TrimSpace(s))) {
	case "", FetchArrival:
		return FetchArrival, nil
	case FetchIssue:
		return FetchIssue, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrdering, s)
}
