package repository

import (
	"context"
	"database/sql"

	"nyumbani-data/internal/domain"
)

// PostgresNotificationsRepository 站内通知 Repository 实现
type PostgresNotificationsRepository struct {
	db *sql.DB
}

func NewPostgresNotificationsRepository(db *sql.DB) *PostgresNotificationsRepository {
	return &PostgresNotificationsRepository{db: db}
}

var _ NotificationsRepository = (*PostgresNotificationsRepository)(nil)

func (r *PostgresNotificationsRepository) CreateNotification(ctx context.Context, nn domain.NewNotification) (*domain.Notification, error) {
	if err := nn.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	query := `
		INSERT INTO notifications (user_id, title, message, type, read)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING notification_id::text, user_id::text, title, message, type, read, created_at
	`
	var n domain.Notification
	err := r.db.QueryRowContext(ctx, query, nn.UserID, nn.Title, nn.Message, string(nn.Type)).Scan(
		&n.NotificationID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt,
	)
	if err != nil {
		return nil, mapPQError(err, "create notification")
	}
	return &n, nil
}

func (r *PostgresNotificationsRepository) GetNotificationsByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `
		SELECT notification_id::text, user_id::text, title, message, type, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, notification_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapPQError(err, "list notifications")
	}
	defer rows.Close()

	out := []*domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.NotificationID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, mapPQError(err, "scan notification")
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *PostgresNotificationsRepository) MarkRead(ctx context.Context, notificationID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE notification_id = $1`, notificationID)
	if err != nil {
		return mapPQError(err, "mark notification read")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapPQError(err, "mark notification read")
	}
	if n == 0 {
		return notFoundf("notification %q", notificationID)
	}
	return nil
}

func (r *PostgresNotificationsRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, mapPQError(err, "count unread notifications")
	}
	return count, nil
}
