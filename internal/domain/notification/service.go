package notification

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Publisher pushes a freshly created notification to connected clients.
type Publisher interface {
	Publish(ctx context.Context, n *Notification)
}

// Service handles notification business logic. Creation is fire-and-forget:
// a failed insert is logged and swallowed so it can never fail the operation
// that triggered it.
type Service struct {
	repo      Repository
	publisher Publisher // nil when realtime is disabled
}

// NewService creates notification service
func NewService(repo Repository, publisher Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// Notify creates a notification for a user. Best-effort.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, title, message, typ, category string, metadata map[string]interface{}) {
	n := &Notification{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     typ,
		Category: category,
	}
	if metadata != nil {
		n.Metadata, _ = json.Marshal(metadata)
	}

	if err := s.repo.Create(ctx, n); err != nil {
		log.Warn().Err(err).
			Str("user_id", userID.String()).
			Str("category", category).
			Msg("Failed to create notification")
		return
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, n)
	}
}

// List returns a user's notifications
func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]Notification, error) {
	return s.repo.List(ctx, userID, unreadOnly, limit, offset)
}

// UnreadCount returns the number of unread notifications
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkRead marks one notification as read
func (s *Service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks every unread notification as read
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// Delete removes a notification
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}
