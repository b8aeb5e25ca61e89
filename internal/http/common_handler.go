package httpapi

import (
	"net/http"

	"nyumbani-data/internal/service"

	"go.uber.org/zap"
)

// CommonHandler 跨角色入口：站内通知 + 排程建议转发。
type CommonHandler struct {
	scheduler     *service.SchedulerClient
	notifications service.NotificationService
	logger        *zap.Logger
}

func NewCommonHandler(scheduler *service.SchedulerClient, notifications service.NotificationService, logger *zap.Logger) *CommonHandler {
	return &CommonHandler{
		scheduler:     scheduler,
		notifications: notifications,
		logger:        logger,
	}
}

// SuggestSchedule POST /api/v1/schedule/suggest
// 外部服务是黑盒，建议内容原样透传。
func (h *CommonHandler) SuggestSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload service.ScheduleRequest
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if len(payload.Tasks) == 0 {
		writeJSON(w, http.StatusBadRequest, Fail("tasks is required"))
		return
	}

	resp, err := h.scheduler.SuggestSchedule(ctx, payload)
	if err != nil {
		h.logger.Error("SuggestSchedule failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, Fail("scheduling service unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// ListNotifications GET /api/v1/notifications
func (h *CommonHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	notifications, err := h.notifications.ListForUser(ctx, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(notificationViews(notifications)))
}

// UnreadCount GET /api/v1/notifications/unread-count
func (h *CommonHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	count, err := h.notifications.UnreadCount(ctx, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"unread": count}))
}

// MarkRead POST /api/v1/notifications/{id}/read
func (h *CommonHandler) MarkRead(w http.ResponseWriter, r *http.Request, notificationID string) {
	ctx := r.Context()
	claims := claimsFrom(r)

	if err := h.notifications.MarkRead(ctx, notificationID, claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"notificationId": notificationID}))
}
