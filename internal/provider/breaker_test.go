// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package provider

import (
	"errors"
	"testing"
	"time"
)

func failingCall(kind Kind) func() ([]byte, error) {
	return func() ([]byte, error) {
		return nil, &Error{Kind: kind, Provider: "test", Op: "op", Err: errors.New("boom")}
	}
}

func succeedingCall() ([]byte, error) {
	return []byte("ok"), nil
}

func TestBreakerStartsClosed(t *testing.T) {
	b := NewBreaker("test-closed", 3, time.Minute)
	checkStringEqual(t, "initial state", b.State(), "closed")
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker("test-opens", 3, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := b.Execute("op", failingCall(KindRetryable))
		checkError(t, err)
	}

	checkStringEqual(t, "state after threshold", b.State(), "open")

	// While open, requests are rejected without calling through.
	called := false
	_, err := b.Execute("op", func() ([]byte, error) {
		called = true
		return succeedingCall()
	})
	checkError(t, err)
	checkTrue(t, "rejection is retryable", IsRetryable(err))
	checkFalse(t, "call reached provider while open", called)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker("test-reset", 3, time.Minute)

	for i := 0; i < 2; i++ {
		_, _ = b.Execute("op", failingCall(KindRetryable))
	}
	_, err := b.Execute("op", func() ([]byte, error) { return succeedingCall() })
	checkNoError(t, err)

	// Two more failures should not trip: the counter restarted at zero.
	for i := 0; i < 2; i++ {
		_, _ = b.Execute("op", failingCall(KindRetryable))
	}
	checkStringEqual(t, "state after interleaved success", b.State(), "closed")
}

func TestBreakerNotFoundDoesNotCount(t *testing.T) {
	b := NewBreaker("test-notfound", 2, time.Minute)

	for i := 0; i < 5; i++ {
		_, err := b.Execute("op", failingCall(KindSoftEmpty))
		checkTrue(t, "not-found surfaces", IsNotFound(err))
	}

	checkStringEqual(t, "state after not-founds", b.State(), "closed")
}

func TestBreakerFatalErrorsCount(t *testing.T) {
	b := NewBreaker("test-fatal", 2, time.Minute)

	for i := 0; i < 2; i++ {
		_, _ = b.Execute("op", failingCall(KindFatal))
	}

	checkStringEqual(t, "state after fatal failures", b.State(), "open")
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	recovery := 50 * time.Millisecond
	b := NewBreaker("test-recovery", 2, recovery)

	for i := 0; i < 2; i++ {
		_, _ = b.Execute("op", failingCall(KindRetryable))
	}
	checkStringEqual(t, "state after failures", b.State(), "open")

	time.Sleep(recovery + 20*time.Millisecond)

	// Trial request succeeds, circuit closes.
	_, err := b.Execute("op", func() ([]byte, error) { return succeedingCall() })
	checkNoError(t, err)
	checkStringEqual(t, "state after trial success", b.State(), "closed")
}

func TestBreakerReopensOnTrialFailure(t *testing.T) {
	recovery := 50 * time.Millisecond
	b := NewBreaker("test-reopen", 2, recovery)

	for i := 0; i < 2; i++ {
		_, _ = b.Execute("op", failingCall(KindRetryable))
	}

	time.Sleep(recovery + 20*time.Millisecond)

	_, err := b.Execute("op", failingCall(KindRetryable))
	checkError(t, err)
	checkStringEqual(t, "state after trial failure", b.State(), "open")
}
