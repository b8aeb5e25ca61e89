package httpapi

import (
	"net/http"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/repository"

	"go.uber.org/zap"
)

// AdminHandler 管理员侧：用户审批、用户查询、演示申请和联系消息的
// 全量读取。追加型日志只有 admin 能读，这里是唯一入口。
type AdminHandler struct {
	store  *repository.Store
	logger *zap.Logger
}

func NewAdminHandler(store *repository.Store, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{store: store, logger: logger}
}

// ListUsers GET /api/v1/admin/users?role=&approved=&search=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filters := repository.UserFilters{
		Role:   domain.Role(q.Get("role")),
		Search: q.Get("search"),
	}
	if v := q.Get("approved"); v != "" {
		approved := v == "true"
		filters.Approved = &approved
	}

	users, err := h.store.Users.ListUsers(ctx, filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(userViews(users)))
}

// ApproveUser POST /api/v1/admin/users/{id}/approve
func (h *AdminHandler) ApproveUser(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()

	var payload struct {
		Approved *bool `json:"approved"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	approved := true
	if payload.Approved != nil {
		approved = *payload.Approved
	}

	if err := h.store.Users.ApproveUser(ctx, userID, approved); err != nil {
		h.logger.Error("ApproveUser failed", zap.String("user_id", userID), zap.Error(err))
		writeError(w, err)
		return
	}

	h.logger.Info("user approval changed",
		zap.String("user_id", userID),
		zap.Bool("approved", approved),
	)
	writeJSON(w, http.StatusOK, Ok(map[string]any{"userId": userID, "approved": approved}))
}

// ListDemoRequests GET /api/v1/admin/demo-requests
func (h *AdminHandler) ListDemoRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	demos, err := h.store.Inquiries.GetAllDemoRequests(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(demos))
	for _, d := range demos {
		out = append(out, demoRequestView(d))
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

// ListContactMessages GET /api/v1/admin/contact-messages
func (h *AdminHandler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	messages, err := h.store.Inquiries.GetAllContactMessages(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		out = append(out, contactMessageView(m))
	}
	writeJSON(w, http.StatusOK, Ok(out))
}
