package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestLandlordFinanceReport(t *testing.T) {
	st := repository.NewMemoryBackedStore()
	ctx := context.Background()

	landlord, err := st.Users.CreateUser(ctx, domain.NewUser{
		Username: "landlady", Email: "landlady@example.com",
		PasswordHash: []byte("x"), Role: domain.RoleLandlord, FullName: "Landlady",
	})
	require.NoError(t, err)
	tenant, err := st.Users.CreateUser(ctx, domain.NewUser{
		Username: "tina", Email: "tina@example.com",
		PasswordHash: []byte("x"), Role: domain.RoleTenant, FullName: "Tina",
	})
	require.NoError(t, err)

	apt, err := st.Properties.CreateApartment(ctx, domain.NewApartment{
		Name: "Sunrise Court", Location: "Nairobi", LandlordID: landlord.UserID,
	})
	require.NoError(t, err)
	unit, err := st.Properties.CreateUnit(ctx, domain.NewUnit{
		ApartmentID: apt.ApartmentID, UnitNumber: "A1", MonthlyRent: 1500000,
	})
	require.NoError(t, err)
	room, err := st.Properties.CreateRoom(ctx, domain.NewRoom{
		UnitID: unit.UnitID, RoomNumber: "R1", RoomType: "bedsitter",
	})
	require.NoError(t, err)

	date := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	_, err = st.Payments.CreateRentPayment(ctx, domain.NewRentPayment{
		TenantID: tenant.UserID, RoomID: room.RoomID,
		AmountCents: 1500000, Method: domain.PaymentMpesaManual, PaymentDate: date,
	})
	require.NoError(t, err)
	_, err = st.Expenses.CreateExpense(ctx, domain.NewExpense{
		LandlordID: landlord.UserID, ApartmentID: apt.ApartmentID,
		AmountCents: 350000, ExpenseType: "plumbing", ExpenseDate: date,
	})
	require.NoError(t, err)

	svc := NewReportService(st.Payments, st.Expenses, zap.NewNop())
	data, err := svc.LandlordFinanceReport(ctx, landlord.UserID)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Payments")
	assert.Contains(t, sheets, "Expenses")

	payRows, err := f.GetRows("Payments")
	require.NoError(t, err)
	require.Len(t, payRows, 2, "header + one payment")
	assert.Equal(t, "Payment ID", payRows[0][0])
	assert.Equal(t, "15000", payRows[1][3], "KES amount from cents")

	expRows, err := f.GetRows("Expenses")
	require.NoError(t, err)
	require.Len(t, expRows, 2)
	assert.Equal(t, "plumbing", expRows[1][3])
}

func TestLandlordFinanceReport_EmptyBook(t *testing.T) {
	st := repository.NewMemoryBackedStore()
	ctx := context.Background()

	landlord, err := st.Users.CreateUser(ctx, domain.NewUser{
		Username: "empty", Email: "empty@example.com",
		PasswordHash: []byte("x"), Role: domain.RoleLandlord, FullName: "Empty",
	})
	require.NoError(t, err)

	svc := NewReportService(st.Payments, st.Expenses, zap.NewNop())
	data, err := svc.LandlordFinanceReport(ctx, landlord.UserID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	payRows, err := f.GetRows("Payments")
	require.NoError(t, err)
	assert.Len(t, payRows, 1, "header only")
}
