package repository

import (
	"context"

	"nyumbani-data/internal/domain"
)

// NotificationsRepository 站内通知 Repository 接口
type NotificationsRepository interface {
	CreateNotification(ctx context.Context, nn domain.NewNotification) (*domain.Notification, error)
	GetNotificationsByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, notificationID string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}
