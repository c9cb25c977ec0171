// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire defines the JSON documents exchanged between a test and a
// running mock server: mock definitions, active mocks, rules, recordings
// and the verify report. It also defines the typed error taxonomy used
// throughout the rest of the module.
package wire

import "fmt"

// ValidationError is returned when a proposed mock or requirement set
// violates a structural invariant, e.g. a GET mock with a non-empty body.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Reason)
}

// StaticMockError is returned when code attempts to delete a mock that was
// loaded as static (e.g. from the static mock directory).
type StaticMockError struct {
	ID int
}

func (e *StaticMockError) Error() string {
	return fmt.Sprintf("mock %d is static and cannot be deleted", e.ID)
}

// DataConversionError wraps a failure to encode or decode a persisted
// recording document.
type DataConversionError struct {
	Err error
}

func (e *DataConversionError) Error() string {
	return fmt.Sprintf("data conversion error: %s", e.Err)
}

func (e *DataConversionError) Unwrap() error { return e.Err }

// UpstreamError wraps a failure of the outbound HTTP client while executing
// a forwarding or proxy rule.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: %s", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// InvalidMockDefinitionError is returned by a remote adapter that refuses to
// serialize a mock definition containing a non-serializable user predicate.
type InvalidMockDefinitionError struct {
	Reason string
}

func (e *InvalidMockDefinitionError) Error() string {
	return fmt.Sprintf("invalid mock definition: %s", e.Reason)
}

// NotFoundError is returned when an operation references an unknown id.
type NotFoundError struct {
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}
