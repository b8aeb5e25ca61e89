package repository

import (
	"context"
	"testing"
	"time"

	"nyumbani-data/internal/domain"

	"github.com/stretchr/testify/require"
)

// 共用的测试脚手架：内存实现和 Postgres 实现执行同一套约束，
// 单元测试跑内存实现，集成测试（integration tag）跑真库。

func newTestStore() *MemoryStore {
	return NewMemoryStore()
}

func seedUser(t *testing.T, s *MemoryStore, username string, role domain.Role) *domain.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), domain.NewUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: []byte("x"),
		Role:         role,
		FullName:     "Test " + username,
	})
	require.NoError(t, err)
	return u
}

func seedApartment(t *testing.T, s *MemoryStore, landlordID string) *domain.Apartment {
	t.Helper()
	a, err := s.CreateApartment(context.Background(), domain.NewApartment{
		Name:       "Sunrise Court",
		Location:   "Ngong Road, Nairobi",
		LandlordID: landlordID,
	})
	require.NoError(t, err)
	return a
}

func seedUnit(t *testing.T, s *MemoryStore, apartmentID string) *domain.Unit {
	t.Helper()
	u, err := s.CreateUnit(context.Background(), domain.NewUnit{
		ApartmentID: apartmentID,
		UnitNumber:  "A1",
		MonthlyRent: 1500000, // KES 15,000
	})
	require.NoError(t, err)
	return u
}

func seedRoom(t *testing.T, s *MemoryStore, unitID, number string) *domain.Room {
	t.Helper()
	r, err := s.CreateRoom(context.Background(), domain.NewRoom{
		UnitID:     unitID,
		RoomNumber: number,
		RoomType:   "bedsitter",
	})
	require.NoError(t, err)
	return r
}

func seedProduct(t *testing.T, s *MemoryStore, name string, priceCents int64, stock int) *domain.ShopProduct {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), domain.NewShopProduct{
		Name:       name,
		PriceCents: priceCents,
		Category:   "household",
		Stock:      stock,
	})
	require.NoError(t, err)
	return p
}

func testDate() time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
}
