package repository

import (
	"context"
	"database/sql"
	"sort"

	"nyumbani-data/internal/domain"

	"github.com/google/uuid"
)

func (s *MemoryStore) CreateApartment(_ context.Context, na domain.NewApartment) (*domain.Apartment, error) {
	if err := na.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUserRole(na.LandlordID, domain.RoleLandlord, "landlord"); err != nil {
		return nil, err
	}

	a := domain.Apartment{
		ApartmentID: uuid.NewString(),
		Name:        na.Name,
		Location:    na.Location,
		LandlordID:  na.LandlordID,
	}
	s.apartments[a.ApartmentID] = a
	return &a, nil
}

func (s *MemoryStore) GetApartment(_ context.Context, apartmentID string) (*domain.Apartment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.apartments[apartmentID]
	if !ok {
		return nil, notFoundf("apartment %q", apartmentID)
	}
	return &a, nil
}

func (s *MemoryStore) GetApartmentsByLandlord(_ context.Context, landlordID string) ([]*domain.Apartment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Apartment{}
	if landlordID == "" {
		return out, nil
	}
	for _, a := range s.apartments {
		if a.LandlordID != landlordID {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateUnit(_ context.Context, nu domain.NewUnit) (*domain.Unit, error) {
	if err := nu.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.apartments[nu.ApartmentID]; !ok {
		return nil, badreff("apartment %q does not exist", nu.ApartmentID)
	}

	u := domain.Unit{
		UnitID:      uuid.NewString(),
		ApartmentID: nu.ApartmentID,
		UnitNumber:  nu.UnitNumber,
		MonthlyRent: nu.MonthlyRent,
		Occupied:    false, // 派生字段，新单元没有房间必然未入住
	}
	s.units[u.UnitID] = u
	return &u, nil
}

func (s *MemoryStore) GetUnit(_ context.Context, unitID string) (*domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.units[unitID]
	if !ok {
		return nil, notFoundf("unit %q", unitID)
	}
	return &u, nil
}

func (s *MemoryStore) GetUnitsByApartment(_ context.Context, apartmentID string) ([]*domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Unit{}
	for _, u := range s.units {
		if u.ApartmentID != apartmentID {
			continue
		}
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitNumber < out[j].UnitNumber })
	return out, nil
}

func (s *MemoryStore) CreateRoom(_ context.Context, nr domain.NewRoom) (*domain.Room, error) {
	if err := nr.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.units[nr.UnitID]; !ok {
		return nil, badreff("unit %q does not exist", nr.UnitID)
	}

	r := domain.Room{
		RoomID:     uuid.NewString(),
		UnitID:     nr.UnitID,
		RoomNumber: nr.RoomNumber,
		RoomType:   nr.RoomType,
	}
	s.rooms[r.RoomID] = r
	return &r, nil
}

func (s *MemoryStore) GetRoom(_ context.Context, roomID string) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil, notFoundf("room %q", roomID)
	}
	return &r, nil
}

func (s *MemoryStore) GetRoomsByUnit(_ context.Context, unitID string) ([]*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Room{}
	for _, r := range s.rooms {
		if r.UnitID != unitID {
			continue
		}
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (s *MemoryStore) GetRoomByTenant(_ context.Context, tenantID string) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rooms {
		if r.TenantID.Valid && r.TenantID.String == tenantID {
			r := r
			return &r, nil
		}
	}
	return nil, notFoundf("no room occupied by tenant %q", tenantID)
}

func (s *MemoryStore) AssignTenant(_ context.Context, roomID, tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return notFoundf("room %q", roomID)
	}
	if err := s.requireUserRole(tenantID, domain.RoleTenant, "tenant"); err != nil {
		return err
	}
	if room.TenantID.Valid {
		if room.TenantID.String == tenantID {
			return nil // already there, nothing to do
		}
		return invalidf("room %q is already occupied", roomID)
	}
	for _, other := range s.rooms {
		if other.RoomID != roomID && other.TenantID.Valid && other.TenantID.String == tenantID {
			return invalidf("tenant %q already occupies room %q", tenantID, other.RoomID)
		}
	}

	room.TenantID = sql.NullString{String: tenantID, Valid: true}
	s.rooms[roomID] = room
	s.recomputeOccupied(room.UnitID)
	return nil
}

func (s *MemoryStore) VacateRoom(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return notFoundf("room %q", roomID)
	}
	room.TenantID = sql.NullString{}
	s.rooms[roomID] = room
	s.recomputeOccupied(room.UnitID)
	return nil
}
