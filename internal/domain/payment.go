package domain

import (
	"database/sql"
	"fmt"
	"time"
)

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentMpesaAuto   PaymentMethod = "mpesa_auto"   // STK push
	PaymentMpesaManual PaymentMethod = "mpesa_manual" // paybill + manual code
	PaymentCard        PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMpesaAuto, PaymentMpesaManual, PaymentCard:
		return true
	}
	return false
}

// PaymentStatus 支付状态。状态迁移单向：pending -> confirmed | failed，
// 终态不可回退。
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentFailed    PaymentStatus = "failed"
)

// Terminal reports whether s is a terminal payment state.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentConfirmed || s == PaymentFailed
}

// RentPayment 租金支付记录（对应 rent_payments 表）
type RentPayment struct {
	PaymentID       string         `db:"payment_id"`
	TenantID        string         `db:"tenant_id"`        // NOT NULL, FK users
	RoomID          string         `db:"room_id"`          // NOT NULL, FK rooms
	AmountCents     int64          `db:"amount_cents"`     // NOT NULL, > 0
	Method          PaymentMethod  `db:"method"`           // NOT NULL
	TransactionCode sql.NullString `db:"transaction_code"` // nullable, external ref
	ProofRef        sql.NullString `db:"proof_ref"`        // nullable
	Status          PaymentStatus  `db:"status"`           // NOT NULL, default 'pending'
	PaymentDate     time.Time      `db:"payment_date"`     // NOT NULL
	CreatedAt       time.Time      `db:"created_at"`       // NOT NULL, default now()
}

// NewRentPayment 可插入投影：status 一律从 pending 开始，调用方传入的
// 状态值被忽略（确认/失败走单独的迁移操作）。
type NewRentPayment struct {
	TenantID        string
	RoomID          string
	AmountCents     int64
	Method          PaymentMethod
	TransactionCode string // optional
	ProofRef        string // optional
	PaymentDate     time.Time
}

func (p NewRentPayment) Validate() error {
	if p.TenantID == "" {
		return fmt.Errorf("tenant_id is required")
	}
	if p.RoomID == "" {
		return fmt.Errorf("room_id is required")
	}
	if p.AmountCents <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if !p.Method.Valid() {
		return fmt.Errorf("unknown payment method %q", p.Method)
	}
	if p.PaymentDate.IsZero() {
		return fmt.Errorf("payment_date is required")
	}
	return nil
}
