package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"elearnhub/internal/models"
	"elearnhub/internal/repository"

	"github.com/redis/go-redis/v9"
)

var ErrNotificationMissing = errors.New("notification not found")

const unreadCountTTL = 30 * time.Second

type NotificationService interface {
	List(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllRead(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type notificationService struct {
	notifRepo repository.NotificationRepository
	// cache may be nil, in which case counts always hit the database
	cache *redis.Client
}

func NewNotificationService(notifRepo repository.NotificationRepository, cache *redis.Client) NotificationService {
	return &notificationService{notifRepo: notifRepo, cache: cache}
}

func (s *notificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notifRepo.ListByRecipient(ctx, userID, limit)
}

func (s *notificationService) ListUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.notifRepo.GetUnreadByRecipient(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID string, notificationID int64) error {
	affected, err := s.notifRepo.MarkAsRead(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	// Scoped to the recipient: marking someone else's notification
	// looks identical to marking a nonexistent one.
	if affected == 0 {
		return ErrNotificationMissing
	}
	s.invalidateCount(ctx, userID)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.notifRepo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.invalidateCount(ctx, userID)
	return nil
}

// UnreadCount serves the badge counter, cached briefly in Redis since
// clients poll it.
func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	key := countKey(userID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	count, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, strconv.FormatInt(count, 10), unreadCountTTL)
	}
	return count, nil
}

func (s *notificationService) invalidateCount(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Del(ctx, countKey(userID))
	}
}

func countKey(userID string) string {
	return fmt.Sprintf("notif:unread:%s", userID)
}
