package httpapi

import (
	"net/http"
	"time"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/repository"

	"go.uber.org/zap"
)

// TenantHandler 租客侧：我的房间、租金支付、维修工单、商城下单。
type TenantHandler struct {
	store  *repository.Store
	logger *zap.Logger
}

func NewTenantHandler(store *repository.Store, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{store: store, logger: logger}
}

// MyRoom GET /api/v1/tenant/room
func (h *TenantHandler) MyRoom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	room, err := h.store.Properties.GetRoomByTenant(ctx, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(roomView(room)))
}

// CreatePayment POST /api/v1/tenant/payments
// 一律以 pending 入库，确认由房东或支付回调完成。
func (h *TenantHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	var payload struct {
		RoomID          string `json:"roomId"`
		AmountCents     int64  `json:"amountCents"`
		Method          string `json:"method"`
		TransactionCode string `json:"transactionCode"`
		ProofRef        string `json:"proofRef"`
		PaymentDate     string `json:"paymentDate"` // YYYY-MM-DD, defaults to today
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	paymentDate := time.Now()
	if payload.PaymentDate != "" {
		parsed, err := time.Parse(time.DateOnly, payload.PaymentDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("paymentDate must be YYYY-MM-DD"))
			return
		}
		paymentDate = parsed
	}

	payment, err := h.store.Payments.CreateRentPayment(ctx, domain.NewRentPayment{
		TenantID:        claims.UserID,
		RoomID:          payload.RoomID,
		AmountCents:     payload.AmountCents,
		Method:          domain.PaymentMethod(payload.Method),
		TransactionCode: payload.TransactionCode,
		ProofRef:        payload.ProofRef,
		PaymentDate:     paymentDate,
	})
	if err != nil {
		h.logger.Error("CreatePayment failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(paymentView(payment)))
}

// ListPayments GET /api/v1/tenant/payments
func (h *TenantHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	payments, err := h.store.Payments.GetPaymentsByTenant(ctx, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(paymentViews(payments)))
}

// CreateServiceRequest POST /api/v1/tenant/service-requests
func (h *TenantHandler) CreateServiceRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	var payload struct {
		RoomID      string `json:"roomId"`
		Title       string `json:"title"`
		Description string `json:"description"`
		MediaRef    string `json:"mediaRef"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	request, err := h.store.Maintenance.CreateServiceRequest(ctx, domain.NewServiceRequest{
		TenantID:    claims.UserID,
		RoomID:      payload.RoomID,
		Title:       payload.Title,
		Description: payload.Description,
		MediaRef:    payload.MediaRef,
	})
	if err != nil {
		h.logger.Error("CreateServiceRequest failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(requestView(request)))
}

// ListServiceRequests GET /api/v1/tenant/service-requests
func (h *TenantHandler) ListServiceRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	requests, err := h.store.Maintenance.GetServiceRequestsByTenant(ctx, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(requestViews(requests)))
}

// CreateOrder POST /api/v1/tenant/orders
// 行价格由存储层按当前商品价快照；任一行库存不足整单失败。
func (h *TenantHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	var payload struct {
		DeliveryAddress string `json:"deliveryAddress"`
		Lines           []struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		} `json:"lines"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	lines := make([]domain.OrderLine, 0, len(payload.Lines))
	for _, l := range payload.Lines {
		lines = append(lines, domain.OrderLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	order, err := h.store.Shop.CreateOrder(ctx, domain.NewShopOrder{
		CustomerID:      claims.UserID,
		DeliveryAddress: payload.DeliveryAddress,
		Lines:           lines,
	})
	if err != nil {
		h.logger.Error("CreateOrder failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(orderView(order)))
}

// ListOrders GET /api/v1/tenant/orders
func (h *TenantHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	orders, err := h.store.Shop.GetOrdersByCustomer(ctx, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(orderViews(orders)))
}
