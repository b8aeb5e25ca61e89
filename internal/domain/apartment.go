package domain

import "fmt"

// Apartment 物业领域模型（对应 apartments 表）
// 每个物业恰好属于一个房东（landlord_id -> users.user_id, role=landlord）。
type Apartment struct {
	ApartmentID string `db:"apartment_id"`
	Name        string `db:"name"`        // NOT NULL
	Location    string `db:"location"`    // NOT NULL, free text
	LandlordID  string `db:"landlord_id"` // NOT NULL, FK users
}

// NewApartment 可插入投影。
type NewApartment struct {
	Name       string
	Location   string
	LandlordID string
}

func (a NewApartment) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("name is required")
	}
	if a.Location == "" {
		return fmt.Errorf("location is required")
	}
	if a.LandlordID == "" {
		return fmt.Errorf("landlord_id is required")
	}
	return nil
}
