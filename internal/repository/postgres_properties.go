package repository

import (
	"context"
	"database/sql"
	"errors"

	"nyumbani-data/internal/domain"
)

// PostgresPropertiesRepository 物业/单元/房间 Repository 实现。
// AssignTenant / VacateRoom 在单个事务里完成租客写入和 occupied 重算。
type PostgresPropertiesRepository struct {
	db *sql.DB
}

func NewPostgresPropertiesRepository(db *sql.DB) *PostgresPropertiesRepository {
	return &PostgresPropertiesRepository{db: db}
}

var _ PropertiesRepository = (*PostgresPropertiesRepository)(nil)

// --- apartments ---

func (r *PostgresPropertiesRepository) CreateApartment(ctx context.Context, na domain.NewApartment) (*domain.Apartment, error) {
	if err := na.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	// landlord_id 必须指向 role=landlord 的用户；子查询不命中时插入 NULL，
	// 触发 NOT NULL/FK 失败，统一归为 InvalidReference。
	query := `
		INSERT INTO apartments (name, location, landlord_id)
		SELECT $1, $2, user_id
		FROM users
		WHERE user_id = $3 AND role = 'landlord'
		RETURNING apartment_id::text, name, location, landlord_id::text
	`
	var a domain.Apartment
	err := r.db.QueryRowContext(ctx, query, na.Name, na.Location, na.LandlordID).Scan(
		&a.ApartmentID, &a.Name, &a.Location, &a.LandlordID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, badreff("landlord %q does not exist or is not a landlord", na.LandlordID)
		}
		return nil, mapPQError(err, "create apartment")
	}
	return &a, nil
}

func (r *PostgresPropertiesRepository) GetApartment(ctx context.Context, apartmentID string) (*domain.Apartment, error) {
	query := `
		SELECT apartment_id::text, name, location, landlord_id::text
		FROM apartments
		WHERE apartment_id = $1
	`
	var a domain.Apartment
	err := r.db.QueryRowContext(ctx, query, apartmentID).Scan(&a.ApartmentID, &a.Name, &a.Location, &a.LandlordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("apartment %q", apartmentID)
		}
		return nil, mapPQError(err, "get apartment")
	}
	return &a, nil
}

func (r *PostgresPropertiesRepository) GetApartmentsByLandlord(ctx context.Context, landlordID string) ([]*domain.Apartment, error) {
	out := []*domain.Apartment{}
	if landlordID == "" {
		return out, nil
	}

	query := `
		SELECT apartment_id::text, name, location, landlord_id::text
		FROM apartments
		WHERE landlord_id = $1
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, landlordID)
	if err != nil {
		return nil, mapPQError(err, "list apartments")
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Apartment
		if err := rows.Scan(&a.ApartmentID, &a.Name, &a.Location, &a.LandlordID); err != nil {
			return nil, mapPQError(err, "scan apartment")
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// --- units ---

func (r *PostgresPropertiesRepository) CreateUnit(ctx context.Context, nu domain.NewUnit) (*domain.Unit, error) {
	if err := nu.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	query := `
		INSERT INTO units (apartment_id, unit_number, monthly_rent, occupied)
		VALUES ($1, $2, $3, FALSE)
		RETURNING unit_id::text, apartment_id::text, unit_number, monthly_rent, occupied
	`
	var u domain.Unit
	err := r.db.QueryRowContext(ctx, query, nu.ApartmentID, nu.UnitNumber, nu.MonthlyRent).Scan(
		&u.UnitID, &u.ApartmentID, &u.UnitNumber, &u.MonthlyRent, &u.Occupied,
	)
	if err != nil {
		return nil, mapPQError(err, "create unit")
	}
	return &u, nil
}

func (r *PostgresPropertiesRepository) GetUnit(ctx context.Context, unitID string) (*domain.Unit, error) {
	query := `
		SELECT unit_id::text, apartment_id::text, unit_number, monthly_rent, occupied
		FROM units
		WHERE unit_id = $1
	`
	var u domain.Unit
	err := r.db.QueryRowContext(ctx, query, unitID).Scan(&u.UnitID, &u.ApartmentID, &u.UnitNumber, &u.MonthlyRent, &u.Occupied)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("unit %q", unitID)
		}
		return nil, mapPQError(err, "get unit")
	}
	return &u, nil
}

func (r *PostgresPropertiesRepository) GetUnitsByApartment(ctx context.Context, apartmentID string) ([]*domain.Unit, error) {
	query := `
		SELECT unit_id::text, apartment_id::text, unit_number, monthly_rent, occupied
		FROM units
		WHERE apartment_id = $1
		ORDER BY unit_number
	`
	rows, err := r.db.QueryContext(ctx, query, apartmentID)
	if err != nil {
		return nil, mapPQError(err, "list units")
	}
	defer rows.Close()

	out := []*domain.Unit{}
	for rows.Next() {
		var u domain.Unit
		if err := rows.Scan(&u.UnitID, &u.ApartmentID, &u.UnitNumber, &u.MonthlyRent, &u.Occupied); err != nil {
			return nil, mapPQError(err, "scan unit")
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// --- rooms ---

const roomColumns = `room_id::text, unit_id::text, room_number, room_type, tenant_id::text`

func (r *PostgresPropertiesRepository) CreateRoom(ctx context.Context, nr domain.NewRoom) (*domain.Room, error) {
	if err := nr.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	query := `
		INSERT INTO rooms (unit_id, room_number, room_type)
		VALUES ($1, $2, $3)
		RETURNING ` + roomColumns
	var room domain.Room
	err := r.db.QueryRowContext(ctx, query, nr.UnitID, nr.RoomNumber, nr.RoomType).Scan(
		&room.RoomID, &room.UnitID, &room.RoomNumber, &room.RoomType, &room.TenantID,
	)
	if err != nil {
		return nil, mapPQError(err, "create room")
	}
	return &room, nil
}

func (r *PostgresPropertiesRepository) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE room_id = $1`
	var room domain.Room
	err := r.db.QueryRowContext(ctx, query, roomID).Scan(
		&room.RoomID, &room.UnitID, &room.RoomNumber, &room.RoomType, &room.TenantID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("room %q", roomID)
		}
		return nil, mapPQError(err, "get room")
	}
	return &room, nil
}

func (r *PostgresPropertiesRepository) GetRoomsByUnit(ctx context.Context, unitID string) ([]*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE unit_id = $1 ORDER BY room_number`
	rows, err := r.db.QueryContext(ctx, query, unitID)
	if err != nil {
		return nil, mapPQError(err, "list rooms")
	}
	defer rows.Close()

	out := []*domain.Room{}
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.RoomID, &room.UnitID, &room.RoomNumber, &room.RoomType, &room.TenantID); err != nil {
			return nil, mapPQError(err, "scan room")
		}
		out = append(out, &room)
	}
	return out, rows.Err()
}

func (r *PostgresPropertiesRepository) GetRoomByTenant(ctx context.Context, tenantID string) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE tenant_id = $1`
	var room domain.Room
	err := r.db.QueryRowContext(ctx, query, tenantID).Scan(
		&room.RoomID, &room.UnitID, &room.RoomNumber, &room.RoomType, &room.TenantID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("no room occupied by tenant %q", tenantID)
		}
		return nil, mapPQError(err, "get room by tenant")
	}
	return &room, nil
}

// AssignTenant 单事务：锁定目标房间行，校验租客角色与双重入住，
// 写入 tenant_id 并重算父 unit 的 occupied。
func (r *PostgresPropertiesRepository) AssignTenant(ctx context.Context, roomID, tenantID string) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		var unitID string
		var current sql.NullString
		err := tx.QueryRowContext(ctx,
			`SELECT unit_id::text, tenant_id::text FROM rooms WHERE room_id = $1 FOR UPDATE`,
			roomID,
		).Scan(&unitID, &current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFoundf("room %q", roomID)
			}
			return mapPQError(err, "lock room")
		}
		if current.Valid {
			if current.String == tenantID {
				return nil
			}
			return invalidf("room %q is already occupied", roomID)
		}

		var role string
		err = tx.QueryRowContext(ctx, `SELECT role FROM users WHERE user_id = $1`, tenantID).Scan(&role)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return badreff("tenant %q does not exist", tenantID)
			}
			return mapPQError(err, "check tenant")
		}
		if role != string(domain.RoleTenant) {
			return badreff("tenant %q has role %q, want %q", tenantID, role, domain.RoleTenant)
		}

		// 一个租客最多占用一个房间。rooms.tenant_id 带 UNIQUE 部分索引兜底，
		// 这里显式检查给出可读的错误。
		var other string
		err = tx.QueryRowContext(ctx,
			`SELECT room_id::text FROM rooms WHERE tenant_id = $1 AND room_id <> $2 FOR UPDATE`,
			tenantID, roomID,
		).Scan(&other)
		if err == nil {
			return invalidf("tenant %q already occupies room %q", tenantID, other)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return mapPQError(err, "check tenant occupancy")
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE rooms SET tenant_id = $1 WHERE room_id = $2`,
			tenantID, roomID,
		); err != nil {
			return mapPQError(err, "assign tenant")
		}

		return recomputeOccupiedTx(ctx, tx, unitID)
	})
}

func (r *PostgresPropertiesRepository) VacateRoom(ctx context.Context, roomID string) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		var unitID string
		err := tx.QueryRowContext(ctx,
			`SELECT unit_id::text FROM rooms WHERE room_id = $1 FOR UPDATE`,
			roomID,
		).Scan(&unitID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFoundf("room %q", roomID)
			}
			return mapPQError(err, "lock room")
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE rooms SET tenant_id = NULL WHERE room_id = $1`,
			roomID,
		); err != nil {
			return mapPQError(err, "vacate room")
		}

		return recomputeOccupiedTx(ctx, tx, unitID)
	})
}

// recomputeOccupiedTx 在调用方的事务内按房间状态重算单元的 occupied。
func recomputeOccupiedTx(ctx context.Context, tx *sql.Tx, unitID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE units
		SET occupied = EXISTS (
			SELECT 1 FROM rooms WHERE unit_id = $1 AND tenant_id IS NOT NULL
		)
		WHERE unit_id = $1
	`, unitID)
	if err != nil {
		return mapPQError(err, "recompute occupied")
	}
	return nil
}
