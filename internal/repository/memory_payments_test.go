package repository

import (
	"context"
	"testing"

	"nyumbani-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	landlord *domain.User
	tenant   *domain.User
	room     *domain.Room
}

func newPaymentFixture(t *testing.T, s *MemoryStore) paymentFixture {
	t.Helper()
	l := seedUser(t, s, "landlady", domain.RoleLandlord)
	apt := seedApartment(t, s, l.UserID)
	unit := seedUnit(t, s, apt.ApartmentID)
	room := seedRoom(t, s, unit.UnitID, "R1")
	tenant := seedUser(t, s, "tina", domain.RoleTenant)
	require.NoError(t, s.AssignTenant(context.Background(), room.RoomID, tenant.UserID))
	return paymentFixture{landlord: l, tenant: tenant, room: room}
}

func TestCreateRentPayment_StartsPending(t *testing.T) {
	s := newTestStore()
	fx := newPaymentFixture(t, s)

	p, err := s.CreateRentPayment(context.Background(), domain.NewRentPayment{
		TenantID:    fx.tenant.UserID,
		RoomID:      fx.room.RoomID,
		AmountCents: 1500000,
		Method:      domain.PaymentMpesaManual,
		ProofRef:    "uploads/receipt-001.jpg",
		PaymentDate: testDate(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentPending, p.Status)
	assert.Equal(t, int64(1500000), p.AmountCents)
	assert.Equal(t, "uploads/receipt-001.jpg", p.ProofRef.String)
	assert.False(t, p.TransactionCode.Valid)
}

func TestCreateRentPayment_RejectsNonPositiveAmount(t *testing.T) {
	s := newTestStore()
	fx := newPaymentFixture(t, s)

	for _, amount := range []int64{0, -100} {
		_, err := s.CreateRentPayment(context.Background(), domain.NewRentPayment{
			TenantID:    fx.tenant.UserID,
			RoomID:      fx.room.RoomID,
			AmountCents: amount,
			Method:      domain.PaymentCard,
			PaymentDate: testDate(),
		})
		require.ErrorIs(t, err, ErrInvariantViolation, "amount %d must be rejected", amount)
	}

	got, err := s.GetPaymentsByTenant(context.Background(), fx.tenant.UserID)
	require.NoError(t, err)
	assert.Empty(t, got, "rejected payments must not be recorded")
}

func TestCreateRentPayment_RejectsBadReferences(t *testing.T) {
	s := newTestStore()
	fx := newPaymentFixture(t, s)

	_, err := s.CreateRentPayment(context.Background(), domain.NewRentPayment{
		TenantID:    fx.landlord.UserID, // not a tenant
		RoomID:      fx.room.RoomID,
		AmountCents: 100,
		Method:      domain.PaymentCard,
		PaymentDate: testDate(),
	})
	require.ErrorIs(t, err, ErrInvalidReference)

	_, err = s.CreateRentPayment(context.Background(), domain.NewRentPayment{
		TenantID:    fx.tenant.UserID,
		RoomID:      "missing-room",
		AmountCents: 100,
		Method:      domain.PaymentCard,
		PaymentDate: testDate(),
	})
	require.ErrorIs(t, err, ErrInvalidReference)
}

func TestConfirmPayment_OneWayTransition(t *testing.T) {
	s := newTestStore()
	fx := newPaymentFixture(t, s)
	ctx := context.Background()

	p, err := s.CreateRentPayment(ctx, domain.NewRentPayment{
		TenantID:    fx.tenant.UserID,
		RoomID:      fx.room.RoomID,
		AmountCents: 1500000,
		Method:      domain.PaymentMpesaManual,
		PaymentDate: testDate(),
	})
	require.NoError(t, err)

	confirmed, err := s.ConfirmPayment(ctx, p.PaymentID, "SBX12345")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentConfirmed, confirmed.Status)
	assert.Equal(t, "SBX12345", confirmed.TransactionCode.String)

	// 终态不可回退
	_, err = s.FailPayment(ctx, p.PaymentID)
	require.ErrorIs(t, err, ErrInvariantViolation)
	_, err = s.ConfirmPayment(ctx, p.PaymentID, "SBX99999")
	require.ErrorIs(t, err, ErrInvariantViolation)

	got, err := s.GetPayment(ctx, p.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentConfirmed, got.Status)
	assert.Equal(t, "SBX12345", got.TransactionCode.String)
}

func TestFailPayment_Terminal(t *testing.T) {
	s := newTestStore()
	fx := newPaymentFixture(t, s)
	ctx := context.Background()

	p, err := s.CreateRentPayment(ctx, domain.NewRentPayment{
		TenantID:    fx.tenant.UserID,
		RoomID:      fx.room.RoomID,
		AmountCents: 500,
		Method:      domain.PaymentMpesaAuto,
		PaymentDate: testDate(),
	})
	require.NoError(t, err)

	failed, err := s.FailPayment(ctx, p.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, failed.Status)

	_, err = s.ConfirmPayment(ctx, p.PaymentID, "LATE")
	require.ErrorIs(t, err, ErrInvariantViolation)
}

func TestGetPaymentsByLandlord_ScopedViaOwnershipChain(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	fx := newPaymentFixture(t, s)
	_, err := s.CreateRentPayment(ctx, domain.NewRentPayment{
		TenantID:    fx.tenant.UserID,
		RoomID:      fx.room.RoomID,
		AmountCents: 1500000,
		Method:      domain.PaymentCard,
		PaymentDate: testDate(),
	})
	require.NoError(t, err)

	// 另一个房东的链路
	other := seedUser(t, s, "otherlord", domain.RoleLandlord)
	otherApt := seedApartment(t, s, other.UserID)
	otherUnit := seedUnit(t, s, otherApt.ApartmentID)
	otherRoom := seedRoom(t, s, otherUnit.UnitID, "B1")
	otherTenant := seedUser(t, s, "omar", domain.RoleTenant)
	require.NoError(t, s.AssignTenant(ctx, otherRoom.RoomID, otherTenant.UserID))
	_, err = s.CreateRentPayment(ctx, domain.NewRentPayment{
		TenantID:    otherTenant.UserID,
		RoomID:      otherRoom.RoomID,
		AmountCents: 900000,
		Method:      domain.PaymentCard,
		PaymentDate: testDate(),
	})
	require.NoError(t, err)

	mine, err := s.GetPaymentsByLandlord(ctx, fx.landlord.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, fx.tenant.UserID, mine[0].TenantID)

	theirs, err := s.GetPaymentsByLandlord(ctx, other.UserID)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, int64(900000), theirs[0].AmountCents)
}
