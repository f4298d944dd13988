package claimcsv

import (
	"errors"
	"fmt"
)

// MaxValue is the exclusive upper bound of a claim value (NUMERIC(12,2)).
const MaxValue = 1e10

var (
	ErrTooManyRows      = errors.New("csv exceeds maximum row count")
	ErrNumberOutOfRange = errors.New("number out of range")
)

// RangeError reports a numeric field too large to store.
type RangeError struct {
	Field string
	Raw   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s out of range: %s", e.Field, e.Raw)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrNumberOutOfRange
}

// RowError identifies the CSV line that rejected the batch.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err.Error())
}

func (e *RowError) Unwrap() error {
	return e.Err
}
