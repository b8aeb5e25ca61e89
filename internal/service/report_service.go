package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"nyumbani-data/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ReportService 房东财务报表：收款和支出各一个 sheet 的 xlsx 导出。
type ReportService interface {
	LandlordFinanceReport(ctx context.Context, landlordID string) ([]byte, error)
}

var paymentReportHeader = []string{
	"Payment ID",
	"Tenant ID",
	"Room ID",
	"Amount (KES)",
	"Method",
	"Status",
	"Transaction Code",
	"Payment Date",
}

var expenseReportHeader = []string{
	"Expense ID",
	"Apartment ID",
	"Amount (KES)",
	"Type",
	"Description",
	"Expense Date",
}

type reportService struct {
	payments repository.PaymentsRepository
	expenses repository.ExpensesRepository
	logger   *zap.Logger
}

func NewReportService(payments repository.PaymentsRepository, expenses repository.ExpensesRepository, logger *zap.Logger) ReportService {
	return &reportService{payments: payments, expenses: expenses, logger: logger}
}

func (s *reportService) LandlordFinanceReport(ctx context.Context, landlordID string) ([]byte, error) {
	payments, err := s.payments.GetPaymentsByLandlord(ctx, landlordID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.GetExpensesByLandlord(ctx, landlordID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	// Note: don't defer Close() before WriteTo, the file must stay open

	paySheet := "Payments"
	f.SetSheetName(f.GetSheetName(0), paySheet)
	if err := writeRow(f, paySheet, 1, paymentReportHeader); err != nil {
		return nil, err
	}
	for i, p := range payments {
		row := []any{
			p.PaymentID,
			p.TenantID,
			p.RoomID,
			centsToKES(p.AmountCents),
			string(p.Method),
			string(p.Status),
			p.TransactionCode.String,
			p.PaymentDate.Format(time.DateOnly),
		}
		if err := writeAnyRow(f, paySheet, i+2, row); err != nil {
			return nil, err
		}
	}

	expSheet := "Expenses"
	if _, err := f.NewSheet(expSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := writeRow(f, expSheet, 1, expenseReportHeader); err != nil {
		return nil, err
	}
	for i, e := range expenses {
		row := []any{
			e.ExpenseID,
			e.ApartmentID.String,
			centsToKES(e.AmountCents),
			e.ExpenseType,
			e.Description.String,
			e.ExpenseDate.Format(time.DateOnly),
		}
		if err := writeAnyRow(f, expSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		s.logger.Warn("close workbook failed", zap.Error(err))
	}

	s.logger.Info("finance report generated",
		zap.String("landlord_id", landlordID),
		zap.Int("payments", len(payments)),
		zap.Int("expenses", len(expenses)),
	)
	return buf.Bytes(), nil
}

func centsToKES(cents int64) float64 {
	return float64(cents) / 100
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func writeAnyRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
