package domain

import (
	"database/sql"
	"fmt"
)

// Room 房间领域模型（对应 rooms 表）
// tenant_id 可空；有值时必须指向 role=tenant 的用户，且一个租客
// 同时最多占用一个房间（由存储层在赋值事务内保证）。
type Room struct {
	RoomID     string         `db:"room_id"`
	UnitID     string         `db:"unit_id"`     // NOT NULL, FK units
	RoomNumber string         `db:"room_number"` // NOT NULL
	RoomType   string         `db:"room_type"`   // NOT NULL, free text ("bedsitter", "1BR", ...)
	TenantID   sql.NullString `db:"tenant_id"`   // nullable, FK users
}

// NewRoom 可插入投影：租客通过 AssignTenant 单独设置，不在创建时指定。
type NewRoom struct {
	UnitID     string
	RoomNumber string
	RoomType   string
}

func (r NewRoom) Validate() error {
	if r.UnitID == "" {
		return fmt.Errorf("unit_id is required")
	}
	if r.RoomNumber == "" {
		return fmt.Errorf("room_number is required")
	}
	if r.RoomType == "" {
		return fmt.Errorf("room_type is required")
	}
	return nil
}
