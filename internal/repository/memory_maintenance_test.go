package repository

import (
	"context"
	"testing"

	"nyumbani-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type maintenanceFixture struct {
	landlord  *domain.User
	tenant    *domain.User
	worker    *domain.User
	apartment *domain.Apartment
	room      *domain.Room
}

func newMaintenanceFixture(t *testing.T, s *MemoryStore) maintenanceFixture {
	t.Helper()
	l := seedUser(t, s, "landlady", domain.RoleLandlord)
	apt := seedApartment(t, s, l.UserID)
	unit := seedUnit(t, s, apt.ApartmentID)
	room := seedRoom(t, s, unit.UnitID, "R1")
	tenant := seedUser(t, s, "tina", domain.RoleTenant)
	worker := seedUser(t, s, "juma", domain.RoleWorker)
	require.NoError(t, s.AssignTenant(context.Background(), room.RoomID, tenant.UserID))
	return maintenanceFixture{landlord: l, tenant: tenant, worker: worker, apartment: apt, room: room}
}

func TestCreateServiceRequest(t *testing.T) {
	s := newTestStore()
	fx := newMaintenanceFixture(t, s)

	r, err := s.CreateServiceRequest(context.Background(), domain.NewServiceRequest{
		TenantID:    fx.tenant.UserID,
		RoomID:      fx.room.RoomID,
		Title:       "Leaking tap",
		Description: "Kitchen tap drips all night",
		MediaRef:    "uploads/tap.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RequestPending, r.Status)
	assert.False(t, r.WorkerID.Valid)
	assert.Equal(t, "uploads/tap.jpg", r.MediaRef.String)
	assert.False(t, r.CreatedAt.IsZero())
}

// 把工单派给 role=tenant 的用户失败（InvalidReference）；
// 派给 role=worker 的用户成功。
func TestUpdateServiceRequest_WorkerRoleEnforced(t *testing.T) {
	s := newTestStore()
	fx := newMaintenanceFixture(t, s)
	ctx := context.Background()

	r, err := s.CreateServiceRequest(ctx, domain.NewServiceRequest{
		TenantID:    fx.tenant.UserID,
		RoomID:      fx.room.RoomID,
		Title:       "Broken lock",
		Description: "Front door lock jams",
	})
	require.NoError(t, err)

	_, err = s.UpdateServiceRequest(ctx, r.RequestID, domain.ServiceRequestPatch{
		WorkerID: &fx.tenant.UserID,
	})
	require.ErrorIs(t, err, ErrInvalidReference)

	got, err := s.GetServiceRequest(ctx, r.RequestID)
	require.NoError(t, err)
	assert.False(t, got.WorkerID.Valid, "failed assignment must not stick")

	updated, err := s.UpdateServiceRequest(ctx, r.RequestID, domain.ServiceRequestPatch{
		WorkerID: &fx.worker.UserID,
	})
	require.NoError(t, err)
	assert.Equal(t, fx.worker.UserID, updated.WorkerID.String)
}

func TestUpdateServiceRequest_StatusAndClearWorker(t *testing.T) {
	s := newTestStore()
	fx := newMaintenanceFixture(t, s)
	ctx := context.Background()

	r, err := s.CreateServiceRequest(ctx, domain.NewServiceRequest{
		TenantID:    fx.tenant.UserID,
		RoomID:      fx.room.RoomID,
		Title:       "Broken lock",
		Description: "Front door lock jams",
	})
	require.NoError(t, err)

	inProgress := domain.RequestInProgress
	updated, err := s.UpdateServiceRequest(ctx, r.RequestID, domain.ServiceRequestPatch{
		Status:   &inProgress,
		WorkerID: &fx.worker.UserID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestInProgress, updated.Status)

	// 空串撤销派工
	empty := ""
	cleared, err := s.UpdateServiceRequest(ctx, r.RequestID, domain.ServiceRequestPatch{
		WorkerID: &empty,
	})
	require.NoError(t, err)
	assert.False(t, cleared.WorkerID.Valid)
	assert.Equal(t, domain.RequestInProgress, cleared.Status, "status untouched by worker patch")

	bad := domain.RequestStatus("escalated")
	_, err = s.UpdateServiceRequest(ctx, r.RequestID, domain.ServiceRequestPatch{Status: &bad})
	require.ErrorIs(t, err, ErrInvariantViolation)

	_, err = s.UpdateServiceRequest(ctx, "missing", domain.ServiceRequestPatch{Status: &inProgress})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetServiceRequests_Scoping(t *testing.T) {
	s := newTestStore()
	fx := newMaintenanceFixture(t, s)
	ctx := context.Background()

	r, err := s.CreateServiceRequest(ctx, domain.NewServiceRequest{
		TenantID:    fx.tenant.UserID,
		RoomID:      fx.room.RoomID,
		Title:       "Leaking tap",
		Description: "drips",
	})
	require.NoError(t, err)
	_, err = s.UpdateServiceRequest(ctx, r.RequestID, domain.ServiceRequestPatch{
		WorkerID: &fx.worker.UserID,
	})
	require.NoError(t, err)

	byTenant, err := s.GetServiceRequestsByTenant(ctx, fx.tenant.UserID)
	require.NoError(t, err)
	assert.Len(t, byTenant, 1)

	byLandlord, err := s.GetServiceRequestsByLandlord(ctx, fx.landlord.UserID)
	require.NoError(t, err)
	assert.Len(t, byLandlord, 1)

	byWorker, err := s.GetServiceRequestsByWorker(ctx, fx.worker.UserID)
	require.NoError(t, err)
	assert.Len(t, byWorker, 1)

	none, err := s.GetServiceRequestsByLandlord(ctx, "forged")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateWorkerAssignment_RoleEnforced(t *testing.T) {
	s := newTestStore()
	fx := newMaintenanceFixture(t, s)
	ctx := context.Background()

	_, err := s.CreateWorkerAssignment(ctx, domain.NewWorkerAssignment{
		WorkerID:    fx.tenant.UserID, // wrong role
		ApartmentID: fx.apartment.ApartmentID,
		Duties:      "cleaning",
		Schedule:    "Mon-Fri 8am-5pm",
	})
	require.ErrorIs(t, err, ErrInvalidReference)

	a, err := s.CreateWorkerAssignment(ctx, domain.NewWorkerAssignment{
		WorkerID:    fx.worker.UserID,
		ApartmentID: fx.apartment.ApartmentID,
		Duties:      "cleaning",
		Schedule:    "Mon-Fri 8am-5pm",
	})
	require.NoError(t, err)

	mine, err := s.GetWorkerAssignments(ctx, fx.worker.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.AssignmentID, mine[0].AssignmentID)

	byApt, err := s.GetAssignmentsByApartment(ctx, fx.apartment.ApartmentID)
	require.NoError(t, err)
	assert.Len(t, byApt, 1)
}
