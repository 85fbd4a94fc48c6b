// domain/apperr/errors.go
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for connection lifecycle rejections. Handlers map each of
// these to a stable HTTP status so clients can tell "not your action" apart
// from "too late to do that".
var (
	// ErrSelfConnection indicates requester and addressee are the same user.
	ErrSelfConnection = errors.New("cannot create a connection with yourself")
	// ErrDuplicateConnection indicates a record already exists for the pair,
	// in either direction.
	ErrDuplicateConnection = errors.New("a connection already exists between these users")
	// ErrNotFound indicates the requested connection record is missing.
	ErrNotFound = errors.New("connection not found")
	// ErrUnauthorized indicates the actor is not allowed to perform this
	// action on the record (wrong side of the request).
	ErrUnauthorized = errors.New("actor is not authorized for this action")
	// ErrInvalidState indicates the record is not in a state that permits
	// the requested deletion.
	ErrInvalidState = errors.New("connection state does not permit this action")
	// ErrUserNotFound indicates the user directory has no such user.
	ErrUserNotFound = errors.New("user not found")
	// ErrBlocked indicates a block exists between the two users.
	ErrBlocked = errors.New("a block exists between these users")
	// ErrServiceUnavailable indicates the user directory did not answer in time.
	ErrServiceUnavailable = errors.New("user directory is unavailable")
	// ErrMessageTooLong indicates the request message exceeds the limit.
	ErrMessageTooLong = errors.New("request message exceeds 500 characters")
	// ErrInvalidDecision indicates an unknown response decision.
	ErrInvalidDecision = errors.New("decision must be accept, reject or block")
)

// InvalidTransitionError reports an illegal state machine transition. It
// carries the attempted edge and the allowed targets so the message can name
// the violated rule instead of a generic failure.
type InvalidTransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *InvalidTransitionError) Error() string {
	if e == nil {
		return "invalid state transition"
	}
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot transition from %s to %s: %s is terminal", e.From, e.To, e.From)
	}
	return fmt.Sprintf("cannot transition from %s to %s (allowed: %s)", e.From, e.To, strings.Join(e.Allowed, ", "))
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
