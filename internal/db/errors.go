package db

import (
	"errors"
	"fmt"
)

// Sentinel errors for backend operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrKeyExists     = errors.New("db: key already exists")
	ErrIndexNotFound = errors.New("db: index not found")
)

// Op constants name the backend command for error context.
const (
	OpGet         = "GET"
	OpCreate      = "SET NX"
	OpReplace     = "SET XX"
	OpIndexExists = "indices.exists"
	OpGetMapping  = "indices.get_mapping"
	OpSearch      = "search"
	OpCount       = "count"
	OpScroll      = "scroll"
	OpClearScroll = "clear_scroll"
	OpPing        = "ping"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// EngineError is an error response returned by the search engine.
type EngineError struct {
	Status int
	Type   string
	Reason string
}

func (e *EngineError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("engine status %d: %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("engine status %d: %s: %s", e.Status, e.Type, e.Reason)
}
