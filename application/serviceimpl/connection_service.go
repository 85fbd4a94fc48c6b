// application/serviceimpl/connection_service.go
package serviceimpl

import (
	"context"
	"log"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/linknest/gofiber-connect-api/domain/apperr"
	"github.com/linknest/gofiber-connect-api/domain/dto"
	"github.com/linknest/gofiber-connect-api/domain/models"
	"github.com/linknest/gofiber-connect-api/domain/port"
	"github.com/linknest/gofiber-connect-api/domain/repository"
	"github.com/linknest/gofiber-connect-api/domain/service"
)

const (
	// directoryTimeout bounds every call to the user directory.
	directoryTimeout = 2 * time.Second
	// directoryRetryBackoff is the pause before the single retry of a failed
	// existence check. Retries never run inside a transaction.
	directoryRetryBackoff = 200 * time.Millisecond
)

type connectionService struct {
	connectionRepo repository.ConnectionRepository
	directory      port.UserDirectory
	events         port.EventPort
	cache          port.ConnectionCache
}

func NewConnectionService(
	connectionRepo repository.ConnectionRepository,
	directory port.UserDirectory,
	events port.EventPort,
	cache port.ConnectionCache,
) service.ConnectionService {
	return &connectionService{
		connectionRepo: connectionRepo,
		directory:      directory,
		events:         events,
		cache:          cache,
	}
}

// SendRequest creates a pending connection request. The write path fails
// closed: both users must resolve in the directory before anything is
// persisted.
func (s *connectionService) SendRequest(ctx context.Context, requesterID, addresseeID uuid.UUID, message *string) (*models.Connection, error) {
	if requesterID == addresseeID {
		return nil, apperr.ErrSelfConnection
	}
	// The limit counts characters, matching the varchar(500) column.
	if message != nil && utf8.RuneCountInString(*message) > models.MaxConnectionMessageLen {
		return nil, apperr.ErrMessageTooLong
	}

	if err := s.checkUserExists(ctx, requesterID); err != nil {
		return nil, err
	}
	if err := s.checkUserExists(ctx, addresseeID); err != nil {
		return nil, err
	}

	// A block in either direction hides the pair entirely; any other
	// existing record is a duplicate. The race between two opposing
	// requests is settled by the pair unique index inside Create.
	existing, err := s.connectionRepo.FindByPair(requesterID, addresseeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.ConnectionStateBlocked {
			return nil, apperr.ErrBlocked
		}
		return nil, apperr.ErrDuplicateConnection
	}

	now := time.Now()
	connection := &models.Connection{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.ConnectionStatePending,
		RequestedAt: now,
	}
	if message != nil && *message != "" {
		connection.Message = message
	}

	if err := s.connectionRepo.Create(connection); err != nil {
		return nil, err
	}

	s.invalidate(ctx, requesterID, addresseeID)
	s.emit(port.EventConnectionRequested, connection)
	return connection, nil
}

// Respond applies the addressee's decision to a pending request.
func (s *connectionService) Respond(ctx context.Context, connectionID, actorID uuid.UUID, decision dto.RespondDecision) (*models.Connection, error) {
	target, ok := decision.TargetState()
	if !ok {
		return nil, apperr.ErrInvalidDecision
	}

	connection, err := s.connectionRepo.ApplyTransition(connectionID, target, actorID)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, connection.RequesterID, connection.AddresseeID)
	switch target {
	case models.ConnectionStateAccepted:
		s.emit(port.EventConnectionAccepted, connection)
	case models.ConnectionStateRejected:
		s.emit(port.EventConnectionRejected, connection)
	case models.ConnectionStateBlocked:
		s.emit(port.EventConnectionBlocked, connection)
	}
	return connection, nil
}

// Cancel lets the requester withdraw a still-pending request. No event: the
// addressee never saw a state change worth notifying.
func (s *connectionService) Cancel(ctx context.Context, connectionID, actorID uuid.UUID) error {
	connection, err := s.connectionRepo.DeleteAsActor(connectionID, actorID, models.ConnectionStatePending)
	if err != nil {
		return err
	}
	s.invalidate(ctx, connection.RequesterID, connection.AddresseeID)
	return nil
}

// Remove severs an accepted connection from either side.
func (s *connectionService) Remove(ctx context.Context, connectionID, actorID uuid.UUID) error {
	connection, err := s.connectionRepo.DeleteAsActor(connectionID, actorID, models.ConnectionStateAccepted)
	if err != nil {
		return err
	}
	s.invalidate(ctx, connection.RequesterID, connection.AddresseeID)
	s.emit(port.EventConnectionRemoved, connection)
	return nil
}

// Unblock deletes the blocked record between the actor and target. Only the
// blocker (the addressee who answered with block) may lift it.
func (s *connectionService) Unblock(ctx context.Context, actorID, targetID uuid.UUID) error {
	connection, err := s.connectionRepo.FindByPair(actorID, targetID)
	if err != nil {
		return err
	}
	if connection == nil || connection.Status != models.ConnectionStateBlocked {
		return apperr.ErrNotFound
	}
	if _, err := s.connectionRepo.DeleteAsActor(connection.ID, actorID, models.ConnectionStateBlocked); err != nil {
		return err
	}
	s.invalidate(ctx, connection.RequesterID, connection.AddresseeID)
	return nil
}

// ListPending returns the caller's pending inbox or outbox, newest first,
// with best-effort enrichment.
func (s *connectionService) ListPending(ctx context.Context, userID uuid.UUID, direction dto.PendingDirection) ([]dto.PendingRequestData, error) {
	connections, err := s.connectionRepo.FindAllInvolving(userID)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.Connection, 0, len(connections))
	for _, connection := range connections {
		if connection.Status != models.ConnectionStatePending {
			continue
		}
		switch direction {
		case dto.PendingDirectionSent:
			if connection.RequesterID == userID {
				filtered = append(filtered, connection)
			}
		case dto.PendingDirectionReceived:
			if connection.AddresseeID == userID {
				filtered = append(filtered, connection)
			}
		}
	}

	return s.enrich(ctx, userID, filtered), nil
}

// ListConnections returns the caller's accepted connections, newest first.
func (s *connectionService) ListConnections(ctx context.Context, userID uuid.UUID) ([]dto.PendingRequestData, error) {
	connections, err := s.connectionRepo.FindAllInvolving(userID)
	if err != nil {
		return nil, err
	}

	accepted := make([]*models.Connection, 0, len(connections))
	for _, connection := range connections {
		if connection.Status == models.ConnectionStateAccepted {
			accepted = append(accepted, connection)
		}
	}

	return s.enrich(ctx, userID, accepted), nil
}

// ListBlocked returns display data for everyone the caller has blocked.
func (s *connectionService) ListBlocked(ctx context.Context, userID uuid.UUID) ([]dto.UserSummary, error) {
	connections, err := s.connectionRepo.FindAllInvolving(userID)
	if err != nil {
		return nil, err
	}

	blockedIDs := make([]uuid.UUID, 0)
	for _, connection := range connections {
		// The blocker is the addressee: block is an answer to a request.
		if connection.Status == models.ConnectionStateBlocked && connection.AddresseeID == userID {
			blockedIDs = append(blockedIDs, connection.RequesterID)
		}
	}

	summaries := make([]dto.UserSummary, 0, len(blockedIDs))
	users := s.lookupUsers(ctx, blockedIDs)
	for _, id := range blockedIDs {
		if user, ok := users[id]; ok {
			summaries = append(summaries, userSummary(user))
			continue
		}
		summaries = append(summaries, dto.UserSummary{ID: id})
	}
	return summaries, nil
}

// Status probes the relationship between the caller and another user.
func (s *connectionService) Status(ctx context.Context, actorID, otherID uuid.UUID) (dto.StatusProbe, error) {
	if actorID == otherID {
		return dto.StatusProbe{}, apperr.ErrSelfConnection
	}
	connection, err := s.connectionRepo.FindByPair(actorID, otherID)
	if err != nil {
		return dto.StatusProbe{}, err
	}
	if connection == nil {
		return dto.StatusProbe{Status: "none"}, nil
	}

	probe := dto.StatusProbe{ConnectionID: &connection.ID}
	switch connection.Status {
	case models.ConnectionStateAccepted:
		probe.Status = "connected"
	case models.ConnectionStateBlocked:
		// Only the blocker sees the block; to the blocked party the pair
		// reads as no relationship.
		if connection.AddresseeID == actorID {
			probe.Status = "blocked"
		} else {
			probe = dto.StatusProbe{Status: "none"}
		}
	case models.ConnectionStatePending:
		if connection.RequesterID == actorID {
			probe.Status = "pending"
		} else {
			probe.Status = "received"
		}
	default:
		// Rejected requests read as no relationship to the outside.
		probe = dto.StatusProbe{Status: "none"}
	}
	return probe, nil
}

// AreConnected reports whether an accepted connection exists between a and b.
func (s *connectionService) AreConnected(_ context.Context, a, b uuid.UUID) (bool, error) {
	connection, err := s.connectionRepo.FindActiveBetween(a, b)
	if err != nil {
		return false, err
	}
	return connection != nil, nil
}

// MutualConnections returns the users with an accepted connection to both a
// and b.
func (s *connectionService) MutualConnections(ctx context.Context, a, b uuid.UUID) ([]uuid.UUID, error) {
	mutual, err := s.connectionRepo.MutualConnections(a, b)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetMutualCount(ctx, a, b, len(mutual))
	}
	return mutual, nil
}

// checkUserExists resolves an id against the directory with a bounded
// timeout, retrying once on failure. A directory that cannot answer fails
// the write closed.
func (s *connectionService) checkUserExists(ctx context.Context, id uuid.UUID) error {
	exists, err := s.userExistsOnce(ctx, id)
	if err != nil {
		time.Sleep(directoryRetryBackoff)
		exists, err = s.userExistsOnce(ctx, id)
	}
	if err != nil {
		log.Printf("user directory lookup failed for %s: %v", id, err)
		return apperr.ErrServiceUnavailable
	}
	if !exists {
		return apperr.ErrUserNotFound
	}
	return nil
}

func (s *connectionService) userExistsOnce(ctx context.Context, id uuid.UUID) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, directoryTimeout)
	defer cancel()
	return s.directory.UserExists(callCtx, id)
}

// enrich attaches counterpart display data and mutual counts to listing
// rows. Enrichment is fail-open: directory or computation failures degrade
// the row, they never fail the list.
func (s *connectionService) enrich(ctx context.Context, userID uuid.UUID, connections []*models.Connection) []dto.PendingRequestData {
	counterpartIDs := make([]uuid.UUID, 0, len(connections))
	for _, connection := range connections {
		counterpartIDs = append(counterpartIDs, connection.OtherParticipant(userID))
	}
	users := s.lookupUsers(ctx, counterpartIDs)

	rows := make([]dto.PendingRequestData, 0, len(connections))
	for _, connection := range connections {
		counterpartID := connection.OtherParticipant(userID)
		row := dto.PendingRequestData{
			Connection:  dto.NewConnectionData(connection),
			MutualCount: s.mutualCount(ctx, userID, counterpartID),
		}
		if user, ok := users[counterpartID]; ok {
			summary := userSummary(user)
			row.Counterpart = &summary
		}
		rows = append(rows, row)
	}
	return rows
}

// lookupUsers fetches directory display data, returning an empty map on
// failure.
func (s *connectionService) lookupUsers(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]*models.User {
	if len(ids) == 0 {
		return map[uuid.UUID]*models.User{}
	}
	callCtx, cancel := context.WithTimeout(ctx, directoryTimeout)
	defer cancel()
	users, err := s.directory.GetUsers(callCtx, ids)
	if err != nil {
		log.Printf("user directory enrichment degraded: %v", err)
		return map[uuid.UUID]*models.User{}
	}
	return users
}

// mutualCount computes the live mutual count, falling back to the cached
// value (or zero) when the computation fails.
func (s *connectionService) mutualCount(ctx context.Context, a, b uuid.UUID) int {
	mutual, err := s.connectionRepo.MutualConnections(a, b)
	if err != nil {
		if s.cache != nil {
			if cached, ok := s.cache.GetMutualCount(ctx, a, b); ok {
				return cached
			}
		}
		log.Printf("mutual connection count degraded for %s/%s: %v", a, b, err)
		return 0
	}
	if s.cache != nil {
		s.cache.SetMutualCount(ctx, a, b, len(mutual))
	}
	return len(mutual)
}

func (s *connectionService) invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userIDs...)
	}
}

func (s *connectionService) emit(eventType string, connection *models.Connection) {
	if s.events == nil {
		return
	}
	event := port.ConnectionEvent{
		Type:         eventType,
		ConnectionID: connection.ID,
		RequesterID:  connection.RequesterID,
		AddresseeID:  connection.AddresseeID,
		Timestamp:    time.Now(),
	}
	// Only the requested event carries the message.
	if eventType == port.EventConnectionRequested {
		event.Message = connection.Message
	}
	s.events.PublishConnectionEvent(event)
}

func userSummary(user *models.User) dto.UserSummary {
	return dto.UserSummary{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Headline:    user.Headline,
		PictureURL:  user.PictureURL,
	}
}
