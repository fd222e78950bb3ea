package dto

import (
	"errors"
	"fmt"

	"golang-market-calendar/internal/entity"
)

// FetchError reports a transient feed failure. The task is rescheduled on
// the next cycle; existing rows are never touched.
type FetchError struct {
	Kind   entity.Kind
	Ticker string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Ticker != "" {
		return fmt.Sprintf("fetch %s for %s: %v", e.Kind, e.Ticker, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError reports a malformed feed record. The record is dropped
// and the batch continues.
type ValidationError struct {
	Kind   entity.Kind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s record: field %q %s", e.Kind, e.Field, e.Reason)
}

// ConflictAnomaly reports an attempt to overwrite a confirmed actual value
// with a different actual. The write for that field is suppressed and the
// stored value retained.
type ConflictAnomaly struct {
	Kind     entity.Kind
	Key      string
	Field    string
	Stored   string
	Incoming string
}

func (e *ConflictAnomaly) Error() string {
	return fmt.Sprintf("conflict anomaly on %s %s: field %q stored=%s incoming=%s",
		e.Kind, e.Key, e.Field, e.Stored, e.Incoming)
}

// StoreError reports a persistent store-level write failure after the
// retry budget is spent. It fails the single record only.
type StoreError struct {
	Kind entity.Kind
	Key  string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store write for %s %s: %v", e.Kind, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
