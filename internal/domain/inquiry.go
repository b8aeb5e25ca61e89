package domain

import (
	"database/sql"
	"fmt"
	"time"
)

// DemoRequest 演示申请（对应 demo_requests 表，追加型日志）
type DemoRequest struct {
	DemoID    string         `db:"demo_id"`
	Name      string         `db:"name"`       // NOT NULL
	Email     string         `db:"email"`      // NOT NULL
	Phone     sql.NullString `db:"phone"`      // nullable
	Company   sql.NullString `db:"company"`    // nullable
	Message   sql.NullString `db:"message"`    // nullable
	CreatedAt time.Time      `db:"created_at"` // NOT NULL, default now()
}

// NewDemoRequest 可插入投影。
type NewDemoRequest struct {
	Name    string
	Email   string
	Phone   string // optional
	Company string // optional
	Message string // optional
}

func (d NewDemoRequest) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Email == "" {
		return fmt.Errorf("email is required")
	}
	return nil
}

// ContactMessage 联系消息（对应 contact_messages 表，追加型日志）
type ContactMessage struct {
	MessageID string    `db:"message_id"`
	Name      string    `db:"name"`       // NOT NULL
	Email     string    `db:"email"`      // NOT NULL
	Subject   string    `db:"subject"`    // NOT NULL
	Body      string    `db:"body"`       // NOT NULL
	CreatedAt time.Time `db:"created_at"` // NOT NULL, default now()
}

// NewContactMessage 可插入投影。
type NewContactMessage struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

func (m NewContactMessage) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Email == "" {
		return fmt.Errorf("email is required")
	}
	if m.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if m.Body == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}
