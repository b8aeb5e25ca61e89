package repository

import (
	"context"
	"database/sql"
	"sort"

	"nyumbani-data/internal/domain"

	"github.com/google/uuid"
)

func (s *MemoryStore) CreateRentPayment(_ context.Context, np domain.NewRentPayment) (*domain.RentPayment, error) {
	if err := np.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUserRole(np.TenantID, domain.RoleTenant, "tenant"); err != nil {
		return nil, err
	}
	if _, ok := s.rooms[np.RoomID]; !ok {
		return nil, badreff("room %q does not exist", np.RoomID)
	}

	p := domain.RentPayment{
		PaymentID:   uuid.NewString(),
		TenantID:    np.TenantID,
		RoomID:      np.RoomID,
		AmountCents: np.AmountCents,
		Method:      np.Method,
		Status:      domain.PaymentPending, // 状态不接受调用方输入
		PaymentDate: np.PaymentDate,
		CreatedAt:   s.now(),
	}
	if np.TransactionCode != "" {
		p.TransactionCode = sql.NullString{String: np.TransactionCode, Valid: true}
	}
	if np.ProofRef != "" {
		p.ProofRef = sql.NullString{String: np.ProofRef, Valid: true}
	}

	s.payments[p.PaymentID] = p
	return &p, nil
}

func (s *MemoryStore) GetPayment(_ context.Context, paymentID string) (*domain.RentPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, notFoundf("payment %q", paymentID)
	}
	return &p, nil
}

func (s *MemoryStore) GetPaymentsByTenant(_ context.Context, tenantID string) ([]*domain.RentPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.RentPayment{}
	for _, p := range s.payments {
		if p.TenantID != tenantID {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sortPayments(out)
	return out, nil
}

func (s *MemoryStore) GetPaymentsByLandlord(_ context.Context, landlordID string) ([]*domain.RentPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.RentPayment{}
	for _, p := range s.payments {
		room, ok := s.rooms[p.RoomID]
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
		p := p
		out = append(out, &p)
	}
	sortPayments(out)
	return out, nil
}

func sortPayments(ps []*domain.RentPayment) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.Before(ps[j].CreatedAt)
		}
		return ps[i].PaymentID < ps[j].PaymentID
	})
}

func (s *MemoryStore) ConfirmPayment(_ context.Context, paymentID, transactionCode string) (*domain.RentPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, notFoundf("payment %q", paymentID)
	}
	if p.Status.Terminal() {
		return nil, invalidf("payment %q is already %s", paymentID, p.Status)
	}
	p.Status = domain.PaymentConfirmed
	if transactionCode != "" {
		p.TransactionCode = sql.NullString{String: transactionCode, Valid: true}
	}
	s.payments[paymentID] = p
	return &p, nil
}

func (s *MemoryStore) FailPayment(_ context.Context, paymentID string) (*domain.RentPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, notFoundf("payment %q", paymentID)
	}
	if p.Status.Terminal() {
		return nil, invalidf("payment %q is already %s", paymentID, p.Status)
	}
	p.Status = domain.PaymentFailed
	s.payments[paymentID] = p
	return &p, nil
}
