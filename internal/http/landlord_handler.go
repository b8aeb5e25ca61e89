package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/repository"
	"nyumbani-data/internal/service"

	"go.uber.org/zap"
)

// LandlordHandler 房东侧：物业/单元/房间、租客安置、支出、收款确认、
// 工单派工、工人派驻、财务报表。所有查询以登录房东的 id 做硬过滤。
type LandlordHandler struct {
	store         *repository.Store
	reports       service.ReportService
	notifications service.NotificationService
	logger        *zap.Logger
}

func NewLandlordHandler(store *repository.Store, reports service.ReportService, notifications service.NotificationService, logger *zap.Logger) *LandlordHandler {
	return &LandlordHandler{
		store:         store,
		reports:       reports,
		notifications: notifications,
		logger:        logger,
	}
}

// ownsApartment 校验物业归属。admin 免检。
func (h *LandlordHandler) ownsApartment(ctx context.Context, claims *service.Claims, apartmentID string) (*domain.Apartment, error) {
	apt, err := h.store.Properties.GetApartment(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if claims.Role != domain.RoleAdmin && apt.LandlordID != claims.UserID {
		return nil, fmt.Errorf("%w: apartment %s", repository.ErrNotFound, apartmentID)
	}
	return apt, nil
}

// ownsUnit room/unit 的归属沿 unit -> apartment 链路校验。
func (h *LandlordHandler) ownsUnit(ctx context.Context, claims *service.Claims, unitID string) (*domain.Unit, error) {
	unit, err := h.store.Properties.GetUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if _, err := h.ownsApartment(ctx, claims, unit.ApartmentID); err != nil {
		return nil, err
	}
	return unit, nil
}

func (h *LandlordHandler) ownsRoom(ctx context.Context, claims *service.Claims, roomID string) (*domain.Room, error) {
	room, err := h.store.Properties.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if _, err := h.ownsUnit(ctx, claims, room.UnitID); err != nil {
		return nil, err
	}
	return room, nil
}

// CreateApartment POST /api/v1/landlord/apartments
func (h *LandlordHandler) CreateApartment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	var payload struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	apt, err := h.store.Properties.CreateApartment(ctx, domain.NewApartment{
		Name:       payload.Name,
		Location:   payload.Location,
		LandlordID: claims.UserID,
	})
	if err != nil {
		h.logger.Error("CreateApartment failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(apartmentView(apt)))
}

// ListApartments GET /api/v1/landlord/apartments
func (h *LandlordHandler) ListApartments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	apts, err := h.store.Properties.GetApartmentsByLandlord(ctx, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(apartmentViews(apts)))
}

// CreateUnit POST /api/v1/landlord/units
func (h *LandlordHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	var payload struct {
		ApartmentID      string `json:"apartmentId"`
		UnitNumber       string `json:"unitNumber"`
		MonthlyRentCents int64  `json:"monthlyRentCents"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	if _, err := h.ownsApartment(ctx, claims, payload.ApartmentID); err != nil {
		writeError(w, err)
		return
	}

	unit, err := h.store.Properties.CreateUnit(ctx, domain.NewUnit{
		ApartmentID: payload.ApartmentID,
		UnitNumber:  payload.UnitNumber,
		MonthlyRent: payload.MonthlyRentCents,
	})
	if err != nil {
		h.logger.Error("CreateUnit failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(unitView(unit)))
}

// ListUnits GET /api/v1/landlord/apartments/{id}/units
func (h *LandlordHandler) ListUnits(w http.ResponseWriter, r *http.Request, apartmentID string) {
	ctx := r.Context()
	claims := claimsFrom(r)

	if _, err := h.ownsApartment(ctx, claims, apartmentID); err != nil {
		writeError(w, err)
		return
	}

	units, err := h.store.Properties.GetUnitsByApartment(ctx, apartmentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(unitViews(units)))
}

// CreateRoom POST /api/v1/landlord/rooms
func (h *LandlordHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	var payload struct {
		UnitID     string `json:"unitId"`
		RoomNumber string `json:"roomNumber"`
		RoomType   string `json:"roomType"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	if _, err := h.ownsUnit(ctx, claims, payload.UnitID); err != nil {
		writeError(w, err)
		return
	}

	room, err := h.store.Properties.CreateRoom(ctx, domain.NewRoom{
		UnitID:     payload.UnitID,
		RoomNumber: payload.RoomNumber,
		RoomType:   payload.RoomType,
	})
	if err != nil {
		h.logger.Error("CreateRoom failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(roomView(room)))
}

// ListRooms GET /api/v1/landlord/units/{id}/rooms
func (h *LandlordHandler) ListRooms(w http.ResponseWriter, r *http.Request, unitID string) {
	ctx := r.Context()
	claims := claimsFrom(r)

	if _, err := h.ownsUnit(ctx, claims, unitID); err != nil {
		writeError(w, err)
		return
	}

	rooms, err := h.store.Properties.GetRoomsByUnit(ctx, unitID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(roomViews(rooms)))
}

// AssignTenant POST /api/v1/landlord/rooms/{id}/assign-tenant
func (h *LandlordHandler) AssignTenant(w http.ResponseWriter, r *http.Request, roomID string) {
	ctx := r.Context()
	claims := claimsFrom(r)

	var payload struct {
		TenantID string `json:"tenantId"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil || payload.TenantID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("tenantId is required"))
		return
	}

	if _, err := h.ownsRoom(ctx, claims, roomID); err != nil {
		writeError(w, err)
		return
	}

	if err := h.store.Properties.AssignTenant(ctx, roomID, payload.TenantID); err != nil {
		h.logger.Error("AssignTenant failed",
			zap.String("room_id", roomID),
			zap.String("tenant_id", payload.TenantID),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}

	if _, err := h.notifications.Notify(ctx, domain.NewNotification{
		UserID:  payload.TenantID,
		Title:   "Room assigned",
		Message: "You have been assigned to a room. Check your tenant dashboard for details.",
		Type:    domain.NotifyGeneral,
	}); err != nil {
		h.logger.Warn("assign notification failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{"roomId": roomID, "tenantId": payload.TenantID}))
}

// VacateRoom POST /api/v1/landlord/rooms/{id}/vacate
func (h *LandlordHandler) VacateRoom(w http.ResponseWriter, r *http.Request, roomID string) {
	ctx := r.Context()
	claims := claimsFrom(r)

	if _, err := h.ownsRoom(ctx, claims, roomID); err != nil {
		writeError(w, err)
		return
	}

	if err := h.store.Properties.VacateRoom(ctx, roomID); err != nil {
		h.logger.Error("VacateRoom failed", zap.String("room_id", roomID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"roomId": roomID}))
}

// CreateExpense POST /api/v1/landlord/expenses
func (h *LandlordHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	var payload struct {
		ApartmentID string `json:"apartmentId"`
		AmountCents int64  `json:"amountCents"`
		ExpenseType string `json:"expenseType"`
		Description string `json:"description"`
		ExpenseDate string `json:"expenseDate"` // YYYY-MM-DD
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	expenseDate, err := time.Parse(time.DateOnly, payload.ExpenseDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("expenseDate must be YYYY-MM-DD"))
		return
	}

	// 挂在具体物业上时必须是自己的物业
	if payload.ApartmentID != "" {
		if _, err := h.ownsApartment(ctx, claims, payload.ApartmentID); err != nil {
			writeError(w, err)
			return
		}
	}

	expense, err := h.store.Expenses.CreateExpense(ctx, domain.NewExpense{
		LandlordID:  claims.UserID,
		ApartmentID: payload.ApartmentID,
		AmountCents: payload.AmountCents,
		ExpenseType: payload.ExpenseType,
		Description: payload.Description,
		ExpenseDate: expenseDate,
	})
	if err != nil {
		h.logger.Error("CreateExpense failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(expenseView(expense)))
}

// ListExpenses GET /api/v1/landlord/expenses
func (h *LandlordHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	expenses, err := h.store.Expenses.GetExpensesByLandlord(ctx, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(expenseViews(expenses)))
}

// ListPayments GET /api/v1/landlord/payments
func (h *LandlordHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	payments, err := h.store.Payments.GetPaymentsByLandlord(ctx, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(paymentViews(payments)))
}

// ownsPayment 收款记录沿 room -> unit -> apartment 链路校验归属。
func (h *LandlordHandler) ownsPayment(ctx context.Context, claims *service.Claims, paymentID string) (*domain.RentPayment, error) {
	payment, err := h.store.Payments.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if _, err := h.ownsRoom(ctx, claims, payment.RoomID); err != nil {
		return nil, err
	}
	return payment, nil
}

// ConfirmPayment POST /api/v1/landlord/payments/{id}/confirm
func (h *LandlordHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request, paymentID string) {
	ctx := r.Context()
	claims := claimsFrom(r)

	var payload struct {
		TransactionCode string `json:"transactionCode"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	if _, err := h.ownsPayment(ctx, claims, paymentID); err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.store.Payments.ConfirmPayment(ctx, paymentID, payload.TransactionCode)
	if err != nil {
		h.logger.Error("ConfirmPayment failed", zap.String("payment_id", paymentID), zap.Error(err))
		writeError(w, err)
		return
	}

	if _, err := h.notifications.Notify(ctx, domain.NewNotification{
		UserID:  payment.TenantID,
		Title:   "Payment confirmed",
		Message: "Your rent payment has been confirmed.",
		Type:    domain.NotifyPayment,
	}); err != nil {
		h.logger.Warn("payment notification failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, Ok(paymentView(payment)))
}

// FailPayment POST /api/v1/landlord/payments/{id}/fail
func (h *LandlordHandler) FailPayment(w http.ResponseWriter, r *http.Request, paymentID string) {
	ctx := r.Context()
	claims := claimsFrom(r)

	if _, err := h.ownsPayment(ctx, claims, paymentID); err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.store.Payments.FailPayment(ctx, paymentID)
	if err != nil {
		h.logger.Error("FailPayment failed", zap.String("payment_id", paymentID), zap.Error(err))
		writeError(w, err)
		return
	}

	if _, err := h.notifications.Notify(ctx, domain.NewNotification{
		UserID:  payment.TenantID,
		Title:   "Payment rejected",
		Message: "Your rent payment could not be verified. Please contact your landlord.",
		Type:    domain.NotifyPayment,
	}); err != nil {
		h.logger.Warn("payment notification failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, Ok(paymentView(payment)))
}

// ListServiceRequests GET /api/v1/landlord/service-requests
func (h *LandlordHandler) ListServiceRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	requests, err := h.store.Maintenance.GetServiceRequestsByLandlord(ctx, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(requestViews(requests)))
}

// UpdateServiceRequest PATCH /api/v1/landlord/service-requests/{id}
// 允许改状态和派工；workerId 传空串表示撤销派工。
func (h *LandlordHandler) UpdateServiceRequest(w http.ResponseWriter, r *http.Request, requestID string) {
	ctx := r.Context()
	claims := claimsFrom(r)

	var payload struct {
		Status   *string `json:"status"`
		WorkerID *string `json:"workerId"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	current, err := h.store.Maintenance.GetServiceRequest(ctx, requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.ownsRoom(ctx, claims, current.RoomID); err != nil {
		writeError(w, err)
		return
	}

	patch := domain.ServiceRequestPatch{WorkerID: payload.WorkerID}
	if payload.Status != nil {
		status := domain.RequestStatus(*payload.Status)
		patch.Status = &status
	}

	updated, err := h.store.Maintenance.UpdateServiceRequest(ctx, requestID, patch)
	if err != nil {
		h.logger.Error("UpdateServiceRequest failed", zap.String("request_id", requestID), zap.Error(err))
		writeError(w, err)
		return
	}

	if payload.WorkerID != nil && *payload.WorkerID != "" {
		if _, err := h.notifications.Notify(ctx, domain.NewNotification{
			UserID:  *payload.WorkerID,
			Title:   "New work order",
			Message: "A service request has been assigned to you: " + updated.Title,
			Type:    domain.NotifyService,
		}); err != nil {
			h.logger.Warn("worker notification failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, Ok(requestView(updated)))
}

// CreateWorkerAssignment POST /api/v1/landlord/worker-assignments
func (h *LandlordHandler) CreateWorkerAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	var payload struct {
		WorkerID    string `json:"workerId"`
		ApartmentID string `json:"apartmentId"`
		Duties      string `json:"duties"`
		Schedule    string `json:"schedule"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	if _, err := h.ownsApartment(ctx, claims, payload.ApartmentID); err != nil {
		writeError(w, err)
		return
	}

	assignment, err := h.store.Maintenance.CreateWorkerAssignment(ctx, domain.NewWorkerAssignment{
		WorkerID:    payload.WorkerID,
		ApartmentID: payload.ApartmentID,
		Duties:      payload.Duties,
		Schedule:    payload.Schedule,
	})
	if err != nil {
		h.logger.Error("CreateWorkerAssignment failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(assignmentView(assignment)))
}

// ListApartmentAssignments GET /api/v1/landlord/apartments/{id}/worker-assignments
func (h *LandlordHandler) ListApartmentAssignments(w http.ResponseWriter, r *http.Request, apartmentID string) {
	ctx := r.Context()
	claims := claimsFrom(r)

	if _, err := h.ownsApartment(ctx, claims, apartmentID); err != nil {
		writeError(w, err)
		return
	}

	assignments, err := h.store.Maintenance.GetAssignmentsByApartment(ctx, apartmentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(assignmentViews(assignments)))
}

// FinanceReport GET /api/v1/landlord/reports/finance — xlsx 下载
func (h *LandlordHandler) FinanceReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	data, err := h.reports.LandlordFinanceReport(ctx, claims.UserID)
	if err != nil {
		h.logger.Error("FinanceReport failed", zap.Error(err))
		writeError(w, err)
		return
	}

	filename := "finance-report-" + time.Now().Format(time.DateOnly) + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
