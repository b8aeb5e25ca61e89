package repository

import (
	"context"
	"testing"

	"nyumbani-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExpense(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	l := seedUser(t, s, "landlady", domain.RoleLandlord)
	apt := seedApartment(t, s, l.UserID)

	e, err := s.CreateExpense(ctx, domain.NewExpense{
		LandlordID:  l.UserID,
		ApartmentID: apt.ApartmentID,
		AmountCents: 350000,
		ExpenseType: "plumbing",
		Description: "Replaced main riser",
		ExpenseDate: testDate(),
	})
	require.NoError(t, err)
	assert.Equal(t, apt.ApartmentID, e.ApartmentID.String)
	assert.Equal(t, "Replaced main riser", e.Description.String)

	// 不挂物业的一般支出
	general, err := s.CreateExpense(ctx, domain.NewExpense{
		LandlordID:  l.UserID,
		AmountCents: 10000,
		ExpenseType: "stationery",
		ExpenseDate: testDate(),
	})
	require.NoError(t, err)
	assert.False(t, general.ApartmentID.Valid)
}

func TestCreateExpense_Rejections(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	l := seedUser(t, s, "landlady", domain.RoleLandlord)
	other := seedUser(t, s, "otherlord", domain.RoleLandlord)
	apt := seedApartment(t, s, other.UserID)

	_, err := s.CreateExpense(ctx, domain.NewExpense{
		LandlordID:  l.UserID,
		AmountCents: 0,
		ExpenseType: "misc",
		ExpenseDate: testDate(),
	})
	require.ErrorIs(t, err, ErrInvariantViolation)

	// 别人的物业
	_, err = s.CreateExpense(ctx, domain.NewExpense{
		LandlordID:  l.UserID,
		ApartmentID: apt.ApartmentID,
		AmountCents: 100,
		ExpenseType: "misc",
		ExpenseDate: testDate(),
	})
	require.ErrorIs(t, err, ErrInvalidReference)
}

func TestGetExpensesByLandlord_Scoped(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	l1 := seedUser(t, s, "landlord1", domain.RoleLandlord)
	l2 := seedUser(t, s, "landlord2", domain.RoleLandlord)

	for _, id := range []string{l1.UserID, l2.UserID} {
		_, err := s.CreateExpense(ctx, domain.NewExpense{
			LandlordID:  id,
			AmountCents: 100,
			ExpenseType: "misc",
			ExpenseDate: testDate(),
		})
		require.NoError(t, err)
	}

	mine, err := s.GetExpensesByLandlord(ctx, l1.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, l1.UserID, mine[0].LandlordID)
}
