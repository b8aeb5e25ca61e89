package httpapi

import (
	"net/http"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/repository"

	"go.uber.org/zap"
)

// PublicHandler 无需登录的落地页入口：演示申请、联系消息。
type PublicHandler struct {
	store  *repository.Store
	logger *zap.Logger
}

func NewPublicHandler(store *repository.Store, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{store: store, logger: logger}
}

// CreateDemoRequest POST /api/v1/demo-requests
func (h *PublicHandler) CreateDemoRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Company string `json:"company"`
		Message string `json:"message"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	demo, err := h.store.Inquiries.CreateDemoRequest(ctx, domain.NewDemoRequest{
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		Company: payload.Company,
		Message: payload.Message,
	})
	if err != nil {
		h.logger.Error("CreateDemoRequest failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(demoRequestView(demo)))
}

// CreateContactMessage POST /api/v1/contact-messages
func (h *PublicHandler) CreateContactMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	message, err := h.store.Inquiries.CreateContactMessage(ctx, domain.NewContactMessage{
		Name:    payload.Name,
		Email:   payload.Email,
		Subject: payload.Subject,
		Body:    payload.Body,
	})
	if err != nil {
		h.logger.Error("CreateContactMessage failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(contactMessageView(message)))
}
