package repository

import (
	"context"

	"nyumbani-data/internal/domain"
)

// UsersRepository 用户Repository接口
// 使用强类型领域模型，不使用map[string]any
type UsersRepository interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, filters UserFilters) ([]*domain.User, error)

	// CreateUser 持久化新用户：user_id/created_at 服务端生成，approved
	// 固定 false。username 或 email 冲突时返回 ErrDuplicateKey。
	CreateUser(ctx context.Context, nu domain.NewUser) (*domain.User, error)

	// UpdateUser 部分更新；id 不存在返回 ErrNotFound。
	UpdateUser(ctx context.Context, userID string, patch domain.UserPatch) (*domain.User, error)

	// ApproveUser 管理员审批开关。
	ApproveUser(ctx context.Context, userID string, approved bool) error
}

// UserFilters 用户查询过滤器
type UserFilters struct {
	Role     domain.Role // empty = all roles
	Approved *bool       // nil = both
	Search   string      // fuzzy on username / full_name / email
}
