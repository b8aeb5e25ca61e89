package repository

import (
	"context"

	"nyumbani-data/internal/domain"
)

// MaintenanceRepository 维修工单 + 工人派驻 Repository 接口
type MaintenanceRepository interface {
	CreateServiceRequest(ctx context.Context, nr domain.NewServiceRequest) (*domain.ServiceRequest, error)
	GetServiceRequest(ctx context.Context, requestID string) (*domain.ServiceRequest, error)
	GetServiceRequestsByTenant(ctx context.Context, tenantID string) ([]*domain.ServiceRequest, error)
	// GetServiceRequestsByLandlord 经 room -> unit -> apartment 链路过滤。
	GetServiceRequestsByLandlord(ctx context.Context, landlordID string) ([]*domain.ServiceRequest, error)
	GetServiceRequestsByWorker(ctx context.Context, workerID string) ([]*domain.ServiceRequest, error)

	// UpdateServiceRequest 允许状态迁移和派工。WorkerID 指向的用户
	// role 不是 worker 时返回 ErrInvalidReference。
	UpdateServiceRequest(ctx context.Context, requestID string, patch domain.ServiceRequestPatch) (*domain.ServiceRequest, error)

	CreateWorkerAssignment(ctx context.Context, na domain.NewWorkerAssignment) (*domain.WorkerAssignment, error)
	GetWorkerAssignments(ctx context.Context, workerID string) ([]*domain.WorkerAssignment, error)
	GetAssignmentsByApartment(ctx context.Context, apartmentID string) ([]*domain.WorkerAssignment, error)
}
