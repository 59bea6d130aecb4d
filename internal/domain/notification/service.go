package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/repository"
)

// Option configures Service
type Option func(*Service)

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithIDGenerator sets a custom id source
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// Service is the per-user notification inbox
type Service struct {
	repo  *repository.Collection[domain.Notification]
	clock func() time.Time
	newID func() string
}

// NewService creates an inbox over repos
func NewService(repos *repository.Repositories, opts ...Option) *Service {
	s := &Service{
		repo:  repos.Notifications,
		clock: time.Now,
		newID: domain.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify appends an unread notification to userID's inbox
func (s *Service) Notify(ctx context.Context, userID string, kind domain.NotificationType, message, link string) (domain.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Notification{}, domain.Invalid("notification recipient is required")
	}
	n := domain.Notification{
		ID:        s.newID(),
		UserID:    userID,
		Type:      kind,
		Message:   message,
		Link:      link,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return domain.Notification{}, fmt.Errorf("notification: create: %w", err)
	}
	return n, nil
}

// ListForUser returns userID's notifications newest first
func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	items, err := s.repo.List(ctx, func(n domain.Notification) bool { return n.UserID == userID })
	if err != nil {
		return nil, fmt.Errorf("notification: list: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

// UnreadCount returns how many of userID's notifications are unread
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	items, err := s.repo.List(ctx, func(n domain.Notification) bool { return n.UserID == userID && !n.IsRead })
	if err != nil {
		return 0, fmt.Errorf("notification: count unread: %w", err)
	}
	return len(items), nil
}

// MarkRead flips isRead to true. Only the recipient may mark a notification
// and marking twice is a no-op
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) (domain.Notification, error) {
	n, err := s.repo.Update(ctx, notificationID, func(n *domain.Notification) error {
		if n.UserID != userID {
			return domain.Unauthorized("notification %s does not belong to user %s", notificationID, userID)
		}
		n.IsRead = true
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Notification{}, domain.NotFound("notification", notificationID)
	}
	if err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}
