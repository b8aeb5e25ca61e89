package domain

import (
	"database/sql"
	"fmt"
	"time"
)

// RequestStatus 维修工单状态
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestInProgress, RequestCompleted:
		return true
	}
	return false
}

// ServiceRequest 维修工单（对应 service_requests 表）
// worker_id 可空；有值时必须指向 role=worker 的用户。
type ServiceRequest struct {
	RequestID   string         `db:"request_id"`
	TenantID    string         `db:"tenant_id"`   // NOT NULL, FK users
	RoomID      string         `db:"room_id"`     // NOT NULL, FK rooms
	Title       string         `db:"title"`       // NOT NULL
	Description string         `db:"description"` // NOT NULL
	MediaRef    sql.NullString `db:"media_ref"`   // nullable
	Status      RequestStatus  `db:"status"`      // NOT NULL, default 'pending'
	WorkerID    sql.NullString `db:"worker_id"`   // nullable, FK users
	CreatedAt   time.Time      `db:"created_at"`  // NOT NULL, default now()
	UpdatedAt   time.Time      `db:"updated_at"`  // NOT NULL
}

// NewServiceRequest 可插入投影。
type NewServiceRequest struct {
	TenantID    string
	RoomID      string
	Title       string
	Description string
	MediaRef    string // optional
}

func (r NewServiceRequest) Validate() error {
	if r.TenantID == "" {
		return fmt.Errorf("tenant_id is required")
	}
	if r.RoomID == "" {
		return fmt.Errorf("room_id is required")
	}
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.Description == "" {
		return fmt.Errorf("description is required")
	}
	return nil
}

// ServiceRequestPatch 部分更新：nil 字段不更新。
type ServiceRequestPatch struct {
	Status   *RequestStatus
	WorkerID *string // empty string clears the assignment
}

func (p ServiceRequestPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("unknown status %q", *p.Status)
	}
	return nil
}
