package domain

import (
	"fmt"
	"time"
)

// NotificationType 通知类别
type NotificationType string

const (
	NotifyPayment NotificationType = "payment"
	NotifyService NotificationType = "service"
	NotifyGeneral NotificationType = "general"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotifyPayment, NotifyService, NotifyGeneral:
		return true
	}
	return false
}

// Notification 站内通知（对应 notifications 表）
type Notification struct {
	NotificationID string           `db:"notification_id"`
	UserID         string           `db:"user_id"`    // NOT NULL, FK users
	Title          string           `db:"title"`      // NOT NULL
	Message        string           `db:"message"`    // NOT NULL
	Type           NotificationType `db:"type"`       // NOT NULL
	Read           bool             `db:"read"`       // NOT NULL, default false
	CreatedAt      time.Time        `db:"created_at"` // NOT NULL, default now()
}

// NewNotification 可插入投影：read 固定为 false。
type NewNotification struct {
	UserID  string
	Title   string
	Message string
	Type    NotificationType
}

func (n NewNotification) Validate() error {
	if n.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if n.Title == "" {
		return fmt.Errorf("title is required")
	}
	if n.Message == "" {
		return fmt.Errorf("message is required")
	}
	if !n.Type.Valid() {
		return fmt.Errorf("unknown notification type %q", n.Type)
	}
	return nil
}
