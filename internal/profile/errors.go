package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an update targets a missing row.
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidSnapshot is returned for client snapshots that are not a JSON value.
	ErrInvalidSnapshot = errors.New("client snapshot must be a non-null JSON value")
)

// StoreError reports a failed database operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that the request deadline passed while Op was running.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
