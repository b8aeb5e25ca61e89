package repository

import (
	"context"
	"database/sql"
	"sort"

	"nyumbani-data/internal/domain"

	"github.com/google/uuid"
)

func (s *MemoryStore) CreateExpense(_ context.Context, ne domain.NewExpense) (*domain.Expense, error) {
	if err := ne.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireUserRole(ne.LandlordID, domain.RoleLandlord, "landlord"); err != nil {
		return nil, err
	}
	if ne.ApartmentID != "" {
		apt, ok := s.apartments[ne.ApartmentID]
		if !ok {
			return nil, badreff("apartment %q does not exist", ne.ApartmentID)
		}
		if apt.LandlordID != ne.LandlordID {
			return nil, badreff("apartment %q is not owned by landlord %q", ne.ApartmentID, ne.LandlordID)
		}
	}

	e := domain.Expense{
		ExpenseID:   uuid.NewString(),
		LandlordID:  ne.LandlordID,
		AmountCents: ne.AmountCents,
		ExpenseType: ne.ExpenseType,
		ExpenseDate: ne.ExpenseDate,
	}
	if ne.ApartmentID != "" {
		e.ApartmentID = sql.NullString{String: ne.ApartmentID, Valid: true}
	}
	if ne.Description != "" {
		e.Description = sql.NullString{String: ne.Description, Valid: true}
	}

	s.expenses[e.ExpenseID] = e
	return &e, nil
}

func (s *MemoryStore) GetExpensesByLandlord(_ context.Context, landlordID string) ([]*domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Expense{}
	for _, e := range s.expenses {
		if e.LandlordID != landlordID {
			continue
		}
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpenseDate.Equal(out[j].ExpenseDate) {
			return out[i].ExpenseDate.Before(out[j].ExpenseDate)
		}
		return out[i].ExpenseID < out[j].ExpenseID
	})
	return out, nil
}
