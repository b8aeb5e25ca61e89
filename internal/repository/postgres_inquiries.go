package repository

import (
	"context"
	"database/sql"

	"nyumbani-data/internal/domain"
)

// PostgresInquiriesRepository 演示申请 / 联系消息 Repository 实现
type PostgresInquiriesRepository struct {
	db *sql.DB
}

func NewPostgresInquiriesRepository(db *sql.DB) *PostgresInquiriesRepository {
	return &PostgresInquiriesRepository{db: db}
}

var _ InquiriesRepository = (*PostgresInquiriesRepository)(nil)

func (r *PostgresInquiriesRepository) CreateDemoRequest(ctx context.Context, nd domain.NewDemoRequest) (*domain.DemoRequest, error) {
	if err := nd.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	query := `
		INSERT INTO demo_requests (name, email, phone, company, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING demo_id::text, name, email, phone, company, message, created_at
	`
	nullable := func(s string) sql.NullString {
		return sql.NullString{String: s, Valid: s != ""}
	}
	var d domain.DemoRequest
	err := r.db.QueryRowContext(ctx, query,
		nd.Name, nd.Email, nullable(nd.Phone), nullable(nd.Company), nullable(nd.Message),
	).Scan(&d.DemoID, &d.Name, &d.Email, &d.Phone, &d.Company, &d.Message, &d.CreatedAt)
	if err != nil {
		return nil, mapPQError(err, "create demo request")
	}
	return &d, nil
}

func (r *PostgresInquiriesRepository) GetAllDemoRequests(ctx context.Context) ([]*domain.DemoRequest, error) {
	query := `
		SELECT demo_id::text, name, email, phone, company, message, created_at
		FROM demo_requests
		ORDER BY created_at, demo_id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapPQError(err, "list demo requests")
	}
	defer rows.Close()

	out := []*domain.DemoRequest{}
	for rows.Next() {
		var d domain.DemoRequest
		if err := rows.Scan(&d.DemoID, &d.Name, &d.Email, &d.Phone, &d.Company, &d.Message, &d.CreatedAt); err != nil {
			return nil, mapPQError(err, "scan demo request")
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *PostgresInquiriesRepository) CreateContactMessage(ctx context.Context, nm domain.NewContactMessage) (*domain.ContactMessage, error) {
	if err := nm.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	query := `
		INSERT INTO contact_messages (name, email, subject, body)
		VALUES ($1, $2, $3, $4)
		RETURNING message_id::text, name, email, subject, body, created_at
	`
	var m domain.ContactMessage
	err := r.db.QueryRowContext(ctx, query, nm.Name, nm.Email, nm.Subject, nm.Body).Scan(
		&m.MessageID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.CreatedAt,
	)
	if err != nil {
		return nil, mapPQError(err, "create contact message")
	}
	return &m, nil
}

func (r *PostgresInquiriesRepository) GetAllContactMessages(ctx context.Context) ([]*domain.ContactMessage, error) {
	query := `
		SELECT message_id::text, name, email, subject, body, created_at
		FROM contact_messages
		ORDER BY created_at, message_id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapPQError(err, "list contact messages")
	}
	defer rows.Close()

	out := []*domain.ContactMessage{}
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.MessageID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.CreatedAt); err != nil {
			return nil, mapPQError(err, "scan contact message")
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
