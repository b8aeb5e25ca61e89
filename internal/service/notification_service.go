package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/repository"
	"nyumbani-data/internal/store"

	"go.uber.org/zap"
)

// NotificationService 站内通知。未读计数走 Redis 读穿缓存：
// 写入（新通知 / 标记已读）后立即失效，缓存 miss 再回源计数。
// 缓存只是视图加速，存储层才是真相。
type NotificationService interface {
	Notify(ctx context.Context, nn domain.NewNotification) (*domain.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}

const unreadCountTTL = 5 * time.Minute

type notificationService struct {
	repo   repository.NotificationsRepository
	kv     store.KV
	logger *zap.Logger
}

func NewNotificationService(repo repository.NotificationsRepository, kv store.KV, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, kv: kv, logger: logger}
}

func unreadCountKey(userID string) string {
	return "notify:unread:" + userID
}

func (s *notificationService) Notify(ctx context.Context, nn domain.NewNotification) (*domain.Notification, error) {
	n, err := s.repo.CreateNotification(ctx, nn)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Del(ctx, unreadCountKey(nn.UserID)); err != nil {
		s.logger.Warn("invalidate unread count failed", zap.Error(err))
	}
	return n, nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.repo.GetNotificationsByUser(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		return err
	}
	if err := s.kv.Del(ctx, unreadCountKey(userID)); err != nil {
		s.logger.Warn("invalidate unread count failed", zap.Error(err))
	}
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	key := unreadCountKey(userID)
	if cached, err := s.kv.Get(ctx, key); err == nil {
		if n, err := strconv.Atoi(cached); err == nil {
			return n, nil
		}
	}

	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.kv.Set(ctx, key, fmt.Sprintf("%d", n), unreadCountTTL); err != nil {
		s.logger.Warn("cache unread count failed", zap.Error(err))
	}
	return n, nil
}
