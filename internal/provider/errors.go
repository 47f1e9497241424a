// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package provider

import (
	"errors"
	"fmt"
)

// Kind classifies a provider failure so callers can decide whether to
// retry, give up, or treat the response as an empty result.
type Kind int

const (
	// KindRetryable covers transient failures: network errors, HTTP 5xx,
	// rate limiting after backoff was exhausted, and quota refusals.
	KindRetryable Kind = iota

	// KindFatal covers failures that repeating cannot fix: invalid API
	// keys (401/403), malformed requests, and unexpected 4xx responses.
	KindFatal

	// KindSoftEmpty marks a well-formed "no such resource" response
	// (HTTP 404 or a provider-level not-found body). Callers treat it as
	// an empty result, not a failure.
	KindSoftEmpty

	// KindValidation marks a response that arrived but could not be
	// decoded or failed basic sanity checks.
	KindValidation
)

// String returns the label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindRetryable:
		return "retryable"
	case KindFatal:
		return "fatal"
	case KindSoftEmpty:
		return "soft_empty"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the classified failure type returned by provider clients.
// Status carries the upstream HTTP status when one was received (0 for
// network-level failures).
type Error struct {
	Kind     Kind
	Provider string
	Op       string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s %s: %s (status %d): %v", e.Provider, e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Provider, e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error is a transient provider failure.
func IsRetryable(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindRetryable
}

// IsFatal reports whether the error is a permanent provider failure.
func IsFatal(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindFatal
}

// IsNotFound reports whether the error represents a missing resource.
func IsNotFound(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindSoftEmpty
}
