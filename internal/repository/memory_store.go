package repository

import (
	"sync"
	"time"

	"nyumbani-data/internal/domain"
)

// MemoryStore: DB 未就绪时的完整内存实现，也是单元测试的载体。
// - 所有聚合共用一把锁，跨聚合不变量（角色校验、occupied 重算、
//   库存扣减）在持锁期间一次完成，对并发调用者不可见中间态
// - IDs 使用 uuid
// - 与 Postgres 实现执行同一套约束检查
type MemoryStore struct {
	mu sync.RWMutex

	users           map[string]domain.User // userID -> user
	usersByUsername map[string]string      // username -> userID
	usersByEmail    map[string]string      // email -> userID

	apartments map[string]domain.Apartment
	units      map[string]domain.Unit
	rooms      map[string]domain.Room

	payments    map[string]domain.RentPayment
	requests    map[string]domain.ServiceRequest
	assignments map[string]domain.WorkerAssignment
	expenses    map[string]domain.Expense

	products map[string]domain.ShopProduct
	orders   map[string]domain.ShopOrder

	notifications map[string]domain.Notification

	demoRequests    []domain.DemoRequest
	contactMessages []domain.ContactMessage

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:           map[string]domain.User{},
		usersByUsername: map[string]string{},
		usersByEmail:    map[string]string{},
		apartments:      map[string]domain.Apartment{},
		units:           map[string]domain.Unit{},
		rooms:           map[string]domain.Room{},
		payments:        map[string]domain.RentPayment{},
		requests:        map[string]domain.ServiceRequest{},
		assignments:     map[string]domain.WorkerAssignment{},
		expenses:        map[string]domain.Expense{},
		products:        map[string]domain.ShopProduct{},
		orders:          map[string]domain.ShopOrder{},
		notifications:   map[string]domain.Notification{},
		now:             time.Now,
	}
}

// 确保实现了全部接口
var (
	_ UsersRepository         = (*MemoryStore)(nil)
	_ PropertiesRepository    = (*MemoryStore)(nil)
	_ PaymentsRepository      = (*MemoryStore)(nil)
	_ MaintenanceRepository   = (*MemoryStore)(nil)
	_ ExpensesRepository      = (*MemoryStore)(nil)
	_ ShopRepository          = (*MemoryStore)(nil)
	_ NotificationsRepository = (*MemoryStore)(nil)
	_ InquiriesRepository     = (*MemoryStore)(nil)
)

// requireUserRole 持锁调用：校验 id 指向存在且角色相符的用户。
func (s *MemoryStore) requireUserRole(userID string, role domain.Role, what string) error {
	u, ok := s.users[userID]
	if !ok {
		return badreff("%s %q does not exist", what, userID)
	}
	if u.Role != role {
		return badreff("%s %q has role %q, want %q", what, userID, u.Role, role)
	}
	return nil
}

// recomputeOccupied 持锁调用：按单元内房间的租客状态重算 occupied。
func (s *MemoryStore) recomputeOccupied(unitID string) {
	unit, ok := s.units[unitID]
	if !ok {
		return
	}
	occupied := false
	for _, r := range s.rooms {
		if r.UnitID == unitID && r.TenantID.Valid {
			occupied = true
			break
		}
	}
	unit.Occupied = occupied
	s.units[unitID] = unit
}
