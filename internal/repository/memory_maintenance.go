package repository

import (
	"context"
	"database/sql"
	"sort"

	"nyumbani-data/internal/domain"

	"github.com/google/uuid"
)

func (s *MemoryStore) CreateServiceRequest(_ context.Context, nr domain.NewServiceRequest) (*domain.ServiceRequest, error) {
	if err := nr.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUserRole(nr.TenantID, domain.RoleTenant, "tenant"); err != nil {
		return nil, err
	}
	if _, ok := s.rooms[nr.RoomID]; !ok {
		return nil, badreff("room %q does not exist", nr.RoomID)
	}

	now := s.now()
	r := domain.ServiceRequest{
		RequestID:   uuid.NewString(),
		TenantID:    nr.TenantID,
		RoomID:      nr.RoomID,
		Title:       nr.Title,
		Description: nr.Description,
		Status:      domain.RequestPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if nr.MediaRef != "" {
		r.MediaRef = sql.NullString{String: nr.MediaRef, Valid: true}
	}

	s.requests[r.RequestID] = r
	return &r, nil
}

func (s *MemoryStore) GetServiceRequest(_ context.Context, requestID string) (*domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[requestID]
	if !ok {
		return nil, notFoundf("service request %q", requestID)
	}
	return &r, nil
}

func (s *MemoryStore) GetServiceRequestsByTenant(_ context.Context, tenantID string) ([]*domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.ServiceRequest{}
	for _, r := range s.requests {
		if r.TenantID != tenantID {
			continue
		}
		r := r
		out = append(out, &r)
	}
	sortRequests(out)
	return out, nil
}

func (s *MemoryStore) GetServiceRequestsByLandlord(_ context.Context, landlordID string) ([]*domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.ServiceRequest{}
	for _, r := range s.requests {
		room, ok := s.rooms[r.RoomID]
		if !ok {
			continue
		}
		unit, ok := s.units[room.UnitID]
		if !ok {
			continue
		}
		apt, ok := s.apartments[unit.ApartmentID]
		if !ok || apt.LandlordID != landlordID {
			continue
		}
		r := r
		out = append(out, &r)
	}
	sortRequests(out)
	return out, nil
}

func (s *MemoryStore) GetServiceRequestsByWorker(_ context.Context, workerID string) ([]*domain.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.ServiceRequest{}
	for _, r := range s.requests {
		if !r.WorkerID.Valid || r.WorkerID.String != workerID {
			continue
		}
		r := r
		out = append(out, &r)
	}
	sortRequests(out)
	return out, nil
}

func sortRequests(rs []*domain.ServiceRequest) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.Before(rs[j].CreatedAt)
		}
		return rs[i].RequestID < rs[j].RequestID
	})
}

func (s *MemoryStore) UpdateServiceRequest(_ context.Context, requestID string, patch domain.ServiceRequestPatch) (*domain.ServiceRequest, error) {
	if err := patch.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[requestID]
	if !ok {
		return nil, notFoundf("service request %q", requestID)
	}

	if patch.WorkerID != nil {
		if *patch.WorkerID == "" {
			r.WorkerID = sql.NullString{}
		} else {
			if err := s.requireUserRole(*patch.WorkerID, domain.RoleWorker, "worker"); err != nil {
				return nil, err
			}
			r.WorkerID = sql.NullString{String: *patch.WorkerID, Valid: true}
		}
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}
	r.UpdatedAt = s.now()

	s.requests[requestID] = r
	return &r, nil
}

func (s *MemoryStore) CreateWorkerAssignment(_ context.Context, na domain.NewWorkerAssignment) (*domain.WorkerAssignment, error) {
	if err := na.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUserRole(na.WorkerID, domain.RoleWorker, "worker"); err != nil {
		return nil, err
	}
	if _, ok := s.apartments[na.ApartmentID]; !ok {
		return nil, badreff("apartment %q does not exist", na.ApartmentID)
	}

	a := domain.WorkerAssignment{
		AssignmentID: uuid.NewString(),
		WorkerID:     na.WorkerID,
		ApartmentID:  na.ApartmentID,
		Duties:       na.Duties,
		Schedule:     na.Schedule,
		CreatedAt:    s.now(),
	}
	s.assignments[a.AssignmentID] = a
	return &a, nil
}

func (s *MemoryStore) GetWorkerAssignments(_ context.Context, workerID string) ([]*domain.WorkerAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.WorkerAssignment{}
	for _, a := range s.assignments {
		if a.WorkerID != workerID {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sortAssignments(out)
	return out, nil
}

func (s *MemoryStore) GetAssignmentsByApartment(_ context.Context, apartmentID string) ([]*domain.WorkerAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.WorkerAssignment{}
	for _, a := range s.assignments {
		if a.ApartmentID != apartmentID {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sortAssignments(out)
	return out, nil
}

func sortAssignments(as []*domain.WorkerAssignment) {
	sort.Slice(as, func(i, j int) bool {
		if !as[i].CreatedAt.Equal(as[j].CreatedAt) {
			return as[i].CreatedAt.Before(as[j].CreatedAt)
		}
		return as[i].AssignmentID < as[j].AssignmentID
	})
}
