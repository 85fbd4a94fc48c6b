// domain/models/connection_state.go
package models

import "github.com/linknest/gofiber-connect-api/domain/apperr"

// ConnectionState is the lifecycle state of a connection record.
type ConnectionState string

const (
	ConnectionStatePending  ConnectionState = "pending"
	ConnectionStateAccepted ConnectionState = "accepted"
	ConnectionStateRejected ConnectionState = "rejected"
	ConnectionStateBlocked  ConnectionState = "blocked"
)

// transitions is the full transition table. Only PENDING has outgoing edges;
// ACCEPTED, REJECTED and BLOCKED are terminal. Removing an accepted
// connection is a deletion, not a transition, so it does not appear here.
var transitions = map[ConnectionState][]ConnectionState{
	ConnectionStatePending:  {ConnectionStateAccepted, ConnectionStateRejected, ConnectionStateBlocked},
	ConnectionStateAccepted: {},
	ConnectionStateRejected: {},
	ConnectionStateBlocked:  {},
}

// IsValid reports whether s is one of the four known states.
func (s ConnectionState) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether the state machine permits no further
// transitions out of s.
func (s ConnectionState) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

// CanTransition reports whether the edge from -> to is allowed.
func CanTransition(from, to ConnectionState) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an InvalidTransitionError describing the
// violated rule when from -> to is not allowed.
func ValidateTransition(from, to ConnectionState) error {
	if CanTransition(from, to) {
		return nil
	}
	allowed := make([]string, 0, len(transitions[from]))
	for _, state := range transitions[from] {
		allowed = append(allowed, string(state))
	}
	return &apperr.InvalidTransitionError{
		From:    string(from),
		To:      string(to),
		Allowed: allowed,
	}
}
