package repository

import (
	"context"

	"nyumbani-data/internal/domain"
)

// PropertiesRepository 物业/单元/房间 Repository 接口。
// 三个层级放在同一个 repo：AssignTenant 需要在一个事务里同时改
// rooms.tenant_id 和父 unit 的 occupied。
type PropertiesRepository interface {
	CreateApartment(ctx context.Context, na domain.NewApartment) (*domain.Apartment, error)
	GetApartment(ctx context.Context, apartmentID string) (*domain.Apartment, error)
	// GetApartmentsByLandlord 只返回该房东名下的物业。landlordID 是硬过滤，
	// 伪造的 id 拿到的是空集，不是别人的数据。
	GetApartmentsByLandlord(ctx context.Context, landlordID string) ([]*domain.Apartment, error)

	CreateUnit(ctx context.Context, nu domain.NewUnit) (*domain.Unit, error)
	GetUnit(ctx context.Context, unitID string) (*domain.Unit, error)
	GetUnitsByApartment(ctx context.Context, apartmentID string) ([]*domain.Unit, error)

	CreateRoom(ctx context.Context, nr domain.NewRoom) (*domain.Room, error)
	GetRoom(ctx context.Context, roomID string) (*domain.Room, error)
	GetRoomsByUnit(ctx context.Context, unitID string) ([]*domain.Room, error)
	// GetRoomByTenant 租客当前占用的房间；无则 ErrNotFound。
	GetRoomByTenant(ctx context.Context, tenantID string) (*domain.Room, error)

	// AssignTenant 把租客安置进房间。单事务内：
	// - tenantID 必须指向 role=tenant 的用户（否则 ErrInvalidReference）
	// - 租客不得已占用其它房间（否则 ErrInvariantViolation，两边房间均不变）
	// - 房间不得已有租客（否则 ErrInvariantViolation）
	// - 父 unit 的 occupied 同事务重算
	AssignTenant(ctx context.Context, roomID, tenantID string) error

	// VacateRoom 清空房间租客并重算父 unit 的 occupied。
	VacateRoom(ctx context.Context, roomID string) error
}
