// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

package provider

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Darlene-13/movie-nexus/internal/logging"
	"github.com/Darlene-13/movie-nexus/internal/metrics"
)

// Breaker wraps a per-provider circuit breaker around raw response bytes.
//
// Behavior:
//   - Opens after FailureThreshold consecutive failures
//   - While open, rejects requests immediately without touching the provider
//   - After RecoveryTimeout, allows exactly one trial request (half-open)
//   - Trial success closes the circuit; trial failure reopens it
//
// Not-found responses never count as failures; fatal errors (bad API key)
// do, so a misconfigured provider stops being hammered quickly.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker[[]byte]
	name string
}

// NewBreaker creates a circuit breaker for one provider.
func NewBreaker(name string, failureThreshold uint32, recoveryTimeout time.Duration) *Breaker {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1, // exactly one trial request in half-open state
		Interval:    0, // consecutive-failure counting, no windowed reset
		Timeout:     recoveryTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= failureThreshold
			if shouldTrip {
				logging.Warn().
					Str("provider", name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// Not-found is a well-formed answer, not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || IsNotFound(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().
				Str("provider", name).
				Str("from", fromStr).
				Str("to", toStr).
				Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &Breaker{cb: cb, name: name}
}

// Execute runs fn under circuit breaker protection. When the circuit is
// open the request is rejected with a retryable provider error and fn is
// never called.
func (b *Breaker) Execute(op string, fn func() ([]byte, error)) ([]byte, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Warn().Str("provider", b.name).Str("op", op).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, &Error{
				Kind:     KindRetryable,
				Provider: b.name,
				Op:       op,
				Err:      err,
			}
		}
		return nil, err
	}
	return result, nil
}

// IsCircuitRejection reports whether err is a breaker rejection (open
// circuit, or half-open trial slot already taken) rather than a failure of
// the dispatched request itself.
func IsCircuitRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// State returns the current breaker state as a string for health reports.
func (b *Breaker) State() string {
	return stateToString(b.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
