package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"nyumbani-data/internal/domain"
)

// PostgresUsersRepository 用户Repository实现（强类型版本）
type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

// 确保实现了接口
var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userColumns = `
	user_id::text,
	username,
	email,
	password_hash,
	role,
	full_name,
	phone,
	approved,
	created_at
`

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.UserID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.FullName,
		&u.Phone,
		&u.Approved,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUsersRepository) getBy(ctx context.Context, where, what string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("user with %s %v", what, arg)
		}
		return nil, mapPQError(err, "get user")
	}
	return u, nil
}

func (r *PostgresUsersRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, notFoundf("user with empty id")
	}
	return r.getBy(ctx, "user_id = $1", "id", userID)
}

func (r *PostgresUsersRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, notFoundf("user with empty username")
	}
	return r.getBy(ctx, "username = $1", "username", username)
}

func (r *PostgresUsersRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, notFoundf("user with empty email")
	}
	return r.getBy(ctx, "email = $1", "email", email)
}

func (r *PostgresUsersRepository) ListUsers(ctx context.Context, filters UserFilters) ([]*domain.User, error) {
	where := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filters.Role != "" {
		where = append(where, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, string(filters.Role))
		argIdx++
	}
	if filters.Approved != nil {
		where = append(where, fmt.Sprintf("approved = $%d", argIdx))
		args = append(args, *filters.Approved)
		argIdx++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf("(username ILIKE $%d OR full_name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+filters.Search+"%")
		argIdx++
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + strings.Join(where, " AND ") + ` ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapPQError(err, "list users")
	}
	defer rows.Close()

	out := []*domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.UserID,
			&u.Username,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.FullName,
			&u.Phone,
			&u.Approved,
			&u.CreatedAt,
		); err != nil {
			return nil, mapPQError(err, "scan user")
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

func (r *PostgresUsersRepository) CreateUser(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	if err := nu.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	// approved 永远 false：审批只能走 ApproveUser。
	query := `
		INSERT INTO users (username, email, password_hash, role, full_name, phone, approved)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING ` + userColumns

	var phone sql.NullString
	if nu.Phone != "" {
		phone = sql.NullString{String: nu.Phone, Valid: true}
	}

	u, err := scanUser(r.db.QueryRowContext(ctx, query,
		nu.Username,
		nu.Email,
		nu.PasswordHash,
		string(nu.Role),
		nu.FullName,
		phone,
	))
	if err != nil {
		return nil, mapPQError(err, "create user")
	}
	return u, nil
}

func (r *PostgresUsersRepository) UpdateUser(ctx context.Context, userID string, patch domain.UserPatch) (*domain.User, error) {
	if err := patch.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	set := []string{}
	args := []any{}
	argIdx := 1

	if patch.Email != nil {
		set = append(set, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *patch.Email)
		argIdx++
	}
	if patch.FullName != nil {
		set = append(set, fmt.Sprintf("full_name = $%d", argIdx))
		args = append(args, *patch.FullName)
		argIdx++
	}
	if patch.Phone != nil {
		set = append(set, fmt.Sprintf("phone = $%d", argIdx))
		args = append(args, sql.NullString{String: *patch.Phone, Valid: *patch.Phone != ""})
		argIdx++
	}
	if patch.Role != nil {
		set = append(set, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, string(*patch.Role))
		argIdx++
	}
	if patch.Approved != nil {
		set = append(set, fmt.Sprintf("approved = $%d", argIdx))
		args = append(args, *patch.Approved)
		argIdx++
	}
	if len(set) == 0 {
		return r.GetUser(ctx, userID)
	}

	// user_id / created_at 不在 SET 列表里，不可变。
	query := `UPDATE users SET ` + strings.Join(set, ", ") +
		fmt.Sprintf(` WHERE user_id = $%d RETURNING `, argIdx) + userColumns
	args = append(args, userID)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("user %q", userID)
		}
		return nil, mapPQError(err, "update user")
	}
	return u, nil
}

func (r *PostgresUsersRepository) ApproveUser(ctx context.Context, userID string, approved bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET approved = $1 WHERE user_id = $2`, approved, userID)
	if err != nil {
		return mapPQError(err, "approve user")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapPQError(err, "approve user")
	}
	if n == 0 {
		return notFoundf("user %q", userID)
	}
	return nil
}
