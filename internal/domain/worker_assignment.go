package domain

import (
	"fmt"
	"time"
)

// WorkerAssignment 工人派驻记录（对应 worker_assignments 表）
// 工人与物业是多对多关系，同一工人可有多条派驻，无唯一性约束。
type WorkerAssignment struct {
	AssignmentID string    `db:"assignment_id"`
	WorkerID     string    `db:"worker_id"`    // NOT NULL, FK users
	ApartmentID  string    `db:"apartment_id"` // NOT NULL, FK apartments
	Duties       string    `db:"duties"`       // NOT NULL
	Schedule     string    `db:"schedule"`     // NOT NULL, free text
	CreatedAt    time.Time `db:"created_at"`   // NOT NULL, default now()
}

// NewWorkerAssignment 可插入投影。
type NewWorkerAssignment struct {
	WorkerID    string
	ApartmentID string
	Duties      string
	Schedule    string
}

func (a NewWorkerAssignment) Validate() error {
	if a.WorkerID == "" {
		return fmt.Errorf("worker_id is required")
	}
	if a.ApartmentID == "" {
		return fmt.Errorf("apartment_id is required")
	}
	if a.Duties == "" {
		return fmt.Errorf("duties is required")
	}
	if a.Schedule == "" {
		return fmt.Errorf("schedule is required")
	}
	return nil
}
