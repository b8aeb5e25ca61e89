package repository

import "database/sql"

// Store 聚合全部 Repository，供服务层/HTTP 层按接口取用。
type Store struct {
	Users         UsersRepository
	Properties    PropertiesRepository
	Payments      PaymentsRepository
	Maintenance   MaintenanceRepository
	Expenses      ExpensesRepository
	Shop          ShopRepository
	Notifications NotificationsRepository
	Inquiries     InquiriesRepository
}

// NewPostgresStore 所有聚合走同一个连接池。
func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Users:         NewPostgresUsersRepository(db),
		Properties:    NewPostgresPropertiesRepository(db),
		Payments:      NewPostgresPaymentsRepository(db),
		Maintenance:   NewPostgresMaintenanceRepository(db),
		Expenses:      NewPostgresExpensesRepository(db),
		Shop:          NewPostgresShopRepository(db),
		Notifications: NewPostgresNotificationsRepository(db),
		Inquiries:     NewPostgresInquiriesRepository(db),
	}
}

// NewMemoryBackedStore DB 未就绪时的完整内存实现（所有聚合共享一个
// MemoryStore，跨聚合不变量才能成立）。
func NewMemoryBackedStore() *Store {
	m := NewMemoryStore()
	return &Store{
		Users:         m,
		Properties:    m,
		Payments:      m,
		Maintenance:   m,
		Expenses:      m,
		Shop:          m,
		Notifications: m,
		Inquiries:     m,
	}
}
