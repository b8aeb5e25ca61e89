package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"nyumbani-data/internal/domain"
)

// PostgresMaintenanceRepository 维修工单 + 工人派驻 Repository 实现
type PostgresMaintenanceRepository struct {
	db *sql.DB
}

func NewPostgresMaintenanceRepository(db *sql.DB) *PostgresMaintenanceRepository {
	return &PostgresMaintenanceRepository{db: db}
}

var _ MaintenanceRepository = (*PostgresMaintenanceRepository)(nil)

const requestColumns = `
	request_id::text,
	tenant_id::text,
	room_id::text,
	title,
	description,
	media_ref,
	status,
	worker_id::text,
	created_at,
	updated_at
`

func scanRequest(scan func(dest ...any) error) (*domain.ServiceRequest, error) {
	var r domain.ServiceRequest
	err := scan(
		&r.RequestID,
		&r.TenantID,
		&r.RoomID,
		&r.Title,
		&r.Description,
		&r.MediaRef,
		&r.Status,
		&r.WorkerID,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *PostgresMaintenanceRepository) CreateServiceRequest(ctx context.Context, nr domain.NewServiceRequest) (*domain.ServiceRequest, error) {
	if err := nr.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	query := `
		INSERT INTO service_requests (tenant_id, room_id, title, description, media_ref, status)
		SELECT user_id, $2, $3, $4, $5, 'pending'
		FROM users
		WHERE user_id = $1 AND role = 'tenant'
		RETURNING ` + requestColumns

	var mediaRef sql.NullString
	if nr.MediaRef != "" {
		mediaRef = sql.NullString{String: nr.MediaRef, Valid: true}
	}

	req, err := scanRequest(r.db.QueryRowContext(ctx, query,
		nr.TenantID, nr.RoomID, nr.Title, nr.Description, mediaRef,
	).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, badreff("tenant %q does not exist or is not a tenant", nr.TenantID)
		}
		return nil, mapPQError(err, "create service request")
	}
	return req, nil
}

func (r *PostgresMaintenanceRepository) GetServiceRequest(ctx context.Context, requestID string) (*domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE request_id = $1`
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, requestID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("service request %q", requestID)
		}
		return nil, mapPQError(err, "get service request")
	}
	return req, nil
}

func (r *PostgresMaintenanceRepository) GetServiceRequestsByTenant(ctx context.Context, tenantID string) ([]*domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE tenant_id = $1 ORDER BY created_at, request_id`
	return r.queryRequests(ctx, query, tenantID)
}

func (r *PostgresMaintenanceRepository) GetServiceRequestsByLandlord(ctx context.Context, landlordID string) ([]*domain.ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests s
		JOIN rooms r ON r.room_id = s.room_id
		JOIN units u ON u.unit_id = r.unit_id
		JOIN apartments a ON a.apartment_id = u.apartment_id
		WHERE a.landlord_id = $1
		ORDER BY s.created_at, s.request_id
	`
	return r.queryRequests(ctx, query, landlordID)
}

func (r *PostgresMaintenanceRepository) GetServiceRequestsByWorker(ctx context.Context, workerID string) ([]*domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE worker_id = $1 ORDER BY created_at, request_id`
	return r.queryRequests(ctx, query, workerID)
}

func (r *PostgresMaintenanceRepository) queryRequests(ctx context.Context, query string, arg any) ([]*domain.ServiceRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapPQError(err, "list service requests")
	}
	defer rows.Close()

	out := []*domain.ServiceRequest{}
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, mapPQError(err, "scan service request")
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *PostgresMaintenanceRepository) UpdateServiceRequest(ctx context.Context, requestID string, patch domain.ServiceRequestPatch) (*domain.ServiceRequest, error) {
	if err := patch.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	var req *domain.ServiceRequest
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		if patch.WorkerID != nil && *patch.WorkerID != "" {
			var role string
			err := tx.QueryRowContext(ctx, `SELECT role FROM users WHERE user_id = $1`, *patch.WorkerID).Scan(&role)
			if errors.Is(err, sql.ErrNoRows) {
				return badreff("worker %q does not exist", *patch.WorkerID)
			}
			if err != nil {
				return mapPQError(err, "check worker")
			}
			if role != string(domain.RoleWorker) {
				return badreff("worker %q has role %q, want %q", *patch.WorkerID, role, domain.RoleWorker)
			}
		}

		set := []string{"updated_at = now()"}
		args := []any{}
		argIdx := 1
		if patch.Status != nil {
			set = append(set, fmt.Sprintf("status = $%d", argIdx))
			args = append(args, string(*patch.Status))
			argIdx++
		}
		if patch.WorkerID != nil {
			set = append(set, fmt.Sprintf("worker_id = $%d", argIdx))
			args = append(args, sql.NullString{String: *patch.WorkerID, Valid: *patch.WorkerID != ""})
			argIdx++
		}

		query := `UPDATE service_requests SET ` + strings.Join(set, ", ") +
			fmt.Sprintf(` WHERE request_id = $%d RETURNING `, argIdx) + requestColumns
		args = append(args, requestID)

		got, err := scanRequest(tx.QueryRowContext(ctx, query, args...).Scan)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFoundf("service request %q", requestID)
			}
			return mapPQError(err, "update service request")
		}
		req = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// --- worker assignments ---

func (r *PostgresMaintenanceRepository) CreateWorkerAssignment(ctx context.Context, na domain.NewWorkerAssignment) (*domain.WorkerAssignment, error) {
	if err := na.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	query := `
		INSERT INTO worker_assignments (worker_id, apartment_id, duties, schedule)
		SELECT user_id, $2, $3, $4
		FROM users
		WHERE user_id = $1 AND role = 'worker'
		RETURNING assignment_id::text, worker_id::text, apartment_id::text, duties, schedule, created_at
	`
	var a domain.WorkerAssignment
	err := r.db.QueryRowContext(ctx, query, na.WorkerID, na.ApartmentID, na.Duties, na.Schedule).Scan(
		&a.AssignmentID, &a.WorkerID, &a.ApartmentID, &a.Duties, &a.Schedule, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, badreff("worker %q does not exist or is not a worker", na.WorkerID)
		}
		return nil, mapPQError(err, "create worker assignment")
	}
	return &a, nil
}

func (r *PostgresMaintenanceRepository) GetWorkerAssignments(ctx context.Context, workerID string) ([]*domain.WorkerAssignment, error) {
	query := `
		SELECT assignment_id::text, worker_id::text, apartment_id::text, duties, schedule, created_at
		FROM worker_assignments
		WHERE worker_id = $1
		ORDER BY created_at, assignment_id
	`
	return r.queryAssignments(ctx, query, workerID)
}

func (r *PostgresMaintenanceRepository) GetAssignmentsByApartment(ctx context.Context, apartmentID string) ([]*domain.WorkerAssignment, error) {
	query := `
		SELECT assignment_id::text, worker_id::text, apartment_id::text, duties, schedule, created_at
		FROM worker_assignments
		WHERE apartment_id = $1
		ORDER BY created_at, assignment_id
	`
	return r.queryAssignments(ctx, query, apartmentID)
}

func (r *PostgresMaintenanceRepository) queryAssignments(ctx context.Context, query string, arg any) ([]*domain.WorkerAssignment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapPQError(err, "list worker assignments")
	}
	defer rows.Close()

	out := []*domain.WorkerAssignment{}
	for rows.Next() {
		var a domain.WorkerAssignment
		if err := rows.Scan(&a.AssignmentID, &a.WorkerID, &a.ApartmentID, &a.Duties, &a.Schedule, &a.CreatedAt); err != nil {
			return nil, mapPQError(err, "scan worker assignment")
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
