package domain

import (
	"database/sql"
	"fmt"
	"time"
)

// Role 用户角色（users.role 列的取值）
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleLandlord    Role = "landlord"
	RoleTenant      Role = "tenant"
	RoleShopManager Role = "shop_manager"
	RoleWorker      Role = "worker"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLandlord, RoleTenant, RoleShopManager, RoleWorker:
		return true
	}
	return false
}

// User 用户领域模型（对应 users 表）
type User struct {
	UserID       string         `db:"user_id"`
	Username     string         `db:"username"`      // NOT NULL, UNIQUE
	Email        string         `db:"email"`         // NOT NULL, UNIQUE
	PasswordHash []byte         `db:"password_hash"` // NOT NULL
	Role         Role           `db:"role"`          // NOT NULL
	FullName     string         `db:"full_name"`     // NOT NULL
	Phone        sql.NullString `db:"phone"`         // nullable
	Approved     bool           `db:"approved"`      // NOT NULL, default false
	CreatedAt    time.Time      `db:"created_at"`    // NOT NULL, default now()
}

// NewUser 可插入投影：user_id / created_at 由服务端生成，approved 固定为 false。
type NewUser struct {
	Username     string
	Email        string
	PasswordHash []byte
	Role         Role
	FullName     string
	Phone        string // optional
}

// Validate rejects the payload before it reaches the store.
func (u NewUser) Validate() error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if len(u.PasswordHash) == 0 {
		return fmt.Errorf("password hash is required")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("unknown role %q", u.Role)
	}
	if u.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	return nil
}

// UserPatch 部分更新：nil 字段不更新。user_id / created_at 不可变。
type UserPatch struct {
	Email    *string
	FullName *string
	Phone    *string
	Role     *Role
	Approved *bool
}

func (p UserPatch) Validate() error {
	if p.Email != nil && *p.Email == "" {
		return fmt.Errorf("email cannot be cleared")
	}
	if p.Role != nil && !p.Role.Valid() {
		return fmt.Errorf("unknown role %q", *p.Role)
	}
	return nil
}
