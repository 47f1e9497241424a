// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package provider

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindRetryable, "retryable"},
		{KindFatal, "fatal"},
		{KindSoftEmpty, "soft_empty"},
		{KindValidation, "validation"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		checkStringEqual(t, "Kind.String", tt.kind.String(), tt.want)
	}
}

func TestErrorClassifiers(t *testing.T) {
	retryable := &Error{Kind: KindRetryable, Provider: "tmdb", Op: "popular", Err: errors.New("boom")}
	fatal := &Error{Kind: KindFatal, Provider: "tmdb", Op: "popular", Status: 401, Err: errors.New("bad key")}
	notFound := &Error{Kind: KindSoftEmpty, Provider: "omdb", Op: "by_title", Status: 404, Err: errors.New("missing")}

	checkTrue(t, "IsRetryable(retryable)", IsRetryable(retryable))
	checkFalse(t, "IsRetryable(fatal)", IsRetryable(fatal))
	checkTrue(t, "IsFatal(fatal)", IsFatal(fatal))
	checkFalse(t, "IsFatal(notFound)", IsFatal(notFound))
	checkTrue(t, "IsNotFound(notFound)", IsNotFound(notFound))
	checkFalse(t, "IsNotFound(retryable)", IsNotFound(retryable))
}

func TestClassifiersSeeThroughWrapping(t *testing.T) {
	inner := &Error{Kind: KindSoftEmpty, Provider: "tmdb", Op: "details", Status: 404, Err: errors.New("missing")}
	wrapped := fmt.Errorf("enrich movie 42: %w", inner)

	checkTrue(t, "IsNotFound through wrap", IsNotFound(wrapped))
	checkFalse(t, "IsRetryable through wrap", IsRetryable(wrapped))
}

func TestClassifiersRejectPlainErrors(t *testing.T) {
	plain := errors.New("some failure")

	checkFalse(t, "IsRetryable(plain)", IsRetryable(plain))
	checkFalse(t, "IsFatal(plain)", IsFatal(plain))
	checkFalse(t, "IsNotFound(plain)", IsNotFound(plain))
}

func TestErrorMessageIncludesStatus(t *testing.T) {
	err := &Error{Kind: KindFatal, Provider: "omdb", Op: "by_title", Status: 403, Err: errors.New("denied")}
	checkErrorContains(t, err, "status 403")
	checkErrorContains(t, err, "omdb by_title")

	noStatus := &Error{Kind: KindRetryable, Provider: "tmdb", Op: "genres", Err: errors.New("timeout")}
	checkErrorContains(t, noStatus, "tmdb genres")
}
