package models

import (
	"errors"
	"testing"

	"github.com/linknest/gofiber-connect-api/domain/apperr"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from ConnectionState
		to   ConnectionState
		want bool
	}{
		{"pending to accepted", ConnectionStatePending, ConnectionStateAccepted, true},
		{"pending to rejected", ConnectionStatePending, ConnectionStateRejected, true},
		{"pending to blocked", ConnectionStatePending, ConnectionStateBlocked, true},
		{"pending to pending", ConnectionStatePending, ConnectionStatePending, false},
		{"accepted to rejected", ConnectionStateAccepted, ConnectionStateRejected, false},
		{"accepted to blocked", ConnectionStateAccepted, ConnectionStateBlocked, false},
		{"rejected to accepted", ConnectionStateRejected, ConnectionStateAccepted, false},
		{"blocked to pending", ConnectionStateBlocked, ConnectionStatePending, false},
		{"unknown source", ConnectionState("ghost"), ConnectionStateAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

// Every pair of known states must have a defined answer, so a new state
// cannot slip in without a row in the transition table.
func TestTransitionTotality(t *testing.T) {
	states := []ConnectionState{
		ConnectionStatePending,
		ConnectionStateAccepted,
		ConnectionStateRejected,
		ConnectionStateBlocked,
	}

	for _, from := range states {
		if !from.IsValid() {
			t.Fatalf("state %s missing from transition table", from)
		}
		for _, to := range states {
			err := ValidateTransition(from, to)
			if CanTransition(from, to) != (err == nil) {
				t.Errorf("ValidateTransition(%s, %s) disagrees with CanTransition", from, to)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if ConnectionStatePending.IsTerminal() {
		t.Error("pending must not be terminal")
	}
	for _, s := range []ConnectionState{ConnectionStateAccepted, ConnectionStateRejected, ConnectionStateBlocked} {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
	if ConnectionState("ghost").IsTerminal() {
		t.Error("unknown state must not report terminal")
	}
}

func TestValidateTransitionError(t *testing.T) {
	err := ValidateTransition(ConnectionStateAccepted, ConnectionStateRejected)
	if err == nil {
		t.Fatal("expected error for accepted -> rejected")
	}
	if !apperr.IsInvalidTransition(err) {
		t.Fatalf("expected InvalidTransitionError, got %T", err)
	}

	var ite *apperr.InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("errors.As failed for %v", err)
	}
	if ite.From != "accepted" || ite.To != "rejected" {
		t.Errorf("unexpected error fields: %+v", ite)
	}
	if len(ite.Allowed) != 0 {
		t.Errorf("terminal state must list no allowed targets, got %v", ite.Allowed)
	}
}
