package domain

import "fmt"

// Unit 单元领域模型（对应 units 表）
// occupied 是派生字段：单元内任一房间有租客即为 true，只在
// 房间租客变更的同一事务内重算，绝不接受调用方直接写入。
type Unit struct {
	UnitID      string `db:"unit_id"`
	ApartmentID string `db:"apartment_id"` // NOT NULL, FK apartments
	UnitNumber  string `db:"unit_number"`  // NOT NULL
	MonthlyRent int64  `db:"monthly_rent"` // NOT NULL, cents, >= 0
	Occupied    bool   `db:"occupied"`     // NOT NULL, derived
}

// NewUnit 可插入投影：occupied 由存储层计算，不可指定。
type NewUnit struct {
	ApartmentID string
	UnitNumber  string
	MonthlyRent int64
}

func (u NewUnit) Validate() error {
	if u.ApartmentID == "" {
		return fmt.Errorf("apartment_id is required")
	}
	if u.UnitNumber == "" {
		return fmt.Errorf("unit_number is required")
	}
	if u.MonthlyRent < 0 {
		return fmt.Errorf("monthly_rent cannot be negative")
	}
	return nil
}
