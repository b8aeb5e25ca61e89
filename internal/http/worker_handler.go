package httpapi

import (
	"net/http"

	"nyumbani-data/internal/domain"
	"nyumbani-data/internal/repository"

	"go.uber.org/zap"
)

// WorkerHandler 工人侧：派驻记录、分派给自己的工单、工单状态推进。
type WorkerHandler struct {
	store  *repository.Store
	logger *zap.Logger
}

func NewWorkerHandler(store *repository.Store, logger *zap.Logger) *WorkerHandler {
	return &WorkerHandler{store: store, logger: logger}
}

// ListAssignments GET /api/v1/worker/assignments
func (h *WorkerHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	assignments, err := h.store.Maintenance.GetWorkerAssignments(ctx, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(assignmentViews(assignments)))
}

// ListServiceRequests GET /api/v1/worker/service-requests
func (h *WorkerHandler) ListServiceRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(r)

	requests, err := h.store.Maintenance.GetServiceRequestsByWorker(ctx, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(requestViews(requests)))
}

// UpdateRequestStatus POST /api/v1/worker/service-requests/{id}/status
// 只能推进分派给自己的工单，且只能改状态，不能改派工。
func (h *WorkerHandler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request, requestID string) {
	ctx := r.Context()
	claims := claimsFrom(r)

	var payload struct {
		Status string `json:"status"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil || payload.Status == "" {
		writeJSON(w, http.StatusBadRequest, Fail("status is required"))
		return
	}

	current, err := h.store.Maintenance.GetServiceRequest(ctx, requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !current.WorkerID.Valid || current.WorkerID.String != claims.UserID {
		writeJSON(w, http.StatusForbidden, Fail("request is not assigned to you"))
		return
	}

	status := domain.RequestStatus(payload.Status)
	updated, err := h.store.Maintenance.UpdateServiceRequest(ctx, requestID, domain.ServiceRequestPatch{
		Status: &status,
	})
	if err != nil {
		h.logger.Error("UpdateRequestStatus failed", zap.String("request_id", requestID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(requestView(updated)))
}
