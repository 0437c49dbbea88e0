// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package scriptclient

import (
	"context"
	"errors"
	"net/http"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cocktailmaestro/internal/config"
)

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	cbc := NewCircuitBreakerClient(NewClient(&config.ScriptConfig{Endpoint: "http://127.0.0.1:1"}, "k"))
	if cbc.cb.State() != gobreaker.StateClosed {
		t.Fatalf("initial state = %v, want closed", cbc.cb.State())
	}

	// ReadyToTrip runs after each failure; the fifth failure opens the circuit.
	for i := 0; i < 5; i++ {
		_, _ = cbc.execute(func() (any, error) {
			return nil, errors.New("simulated endpoint failure")
		})
	}

	if cbc.cb.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open after five failures", cbc.cb.State())
	}
	if cbc.State() != "open" {
		t.Errorf("State() = %q, want open", cbc.State())
	}

	_, err := cbc.execute(func() (any, error) {
		t.Error("call executed while the circuit is open")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
}

func TestCircuitBreaker_StaysClosedBelowThreshold(t *testing.T) {
	t.Parallel()

	cbc := NewCircuitBreakerClient(NewClient(&config.ScriptConfig{}, "k"))

	for i := 0; i < 10; i++ {
		_, _ = cbc.execute(func() (any, error) {
			if i%3 == 0 {
				return nil, errors.New("flaky")
			}
			return "ok", nil
		})
	}
	if cbc.cb.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed at 40%% failures", cbc.cb.State())
	}
}

func TestCircuitBreaker_IgnoresCancellation(t *testing.T) {
	t.Parallel()

	cbc := NewCircuitBreakerClient(NewClient(&config.ScriptConfig{}, "k"))

	for i := 0; i < 10; i++ {
		_, _ = cbc.execute(func() (any, error) {
			return nil, context.Canceled
		})
		_, _ = cbc.execute(func() (any, error) {
			return nil, ErrNotConfigured
		})
	}
	if cbc.cb.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want closed", cbc.cb.State())
	}
}

func TestCircuitBreakerClient_UploadAndDelete(t *testing.T) {
	t.Parallel()

	rs := &recordingServer{body: `{"url": "u", "fileId": "f1"}`}
	cbc := NewCircuitBreakerClient(newTestClient(t, rs))

	if !cbc.Configured() {
		t.Fatal("Configured() = false")
	}

	result, err := cbc.Upload(context.Background(), "aGVsbG8=", "a.png")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if result.FileID != "f1" {
		t.Errorf("FileID = %q, want f1", result.FileID)
	}

	raw, err := cbc.Delete(context.Background(), "f1")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(raw) == 0 {
		t.Error("Delete() returned empty body")
	}
	if got := rs.last(t); got.Action != "delete" || got.FileID != "f1" {
		t.Errorf("last request = %+v", got)
	}
}

func TestCircuitBreakerClient_PropagatesErrors(t *testing.T) {
	t.Parallel()

	cbc := NewCircuitBreakerClient(newTestClient(t, &recordingServer{status: http.StatusBadGateway}))

	if _, err := cbc.Upload(context.Background(), "x", "y"); !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("Upload() error = %v, want ErrUnexpectedStatus", err)
	}
	if _, err := cbc.Delete(context.Background(), "x"); !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("Delete() error = %v, want ErrUnexpectedStatus", err)
	}
}

var _ ImageStore = (*Client)(nil)
var _ ImageStore = (*CircuitBreakerClient)(nil)
