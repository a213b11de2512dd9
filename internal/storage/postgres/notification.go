package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dispatch-srv/internal/model"
	"dispatch-srv/internal/notification"
	pkgLog "dispatch-srv/pkg/log"
)

const notificationColumns = `
	id, user_id, type, title, message, data, is_read, read_at, is_archived,
	created_by, related_entity_id, related_entity_type, created_at`

type NotificationStore struct {
	pool *pgxpool.Pool
	l    pkgLog.Logger
}

func NewNotificationStore(pool *pgxpool.Pool, l pkgLog.Logger) *NotificationStore {
	return &NotificationStore{pool: pool, l: l}
}

func (s *NotificationStore) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	const op = "postgres.Notification.Create"

	query := `
		INSERT INTO notifications (id, user_id, type, title, message, data, created_by, related_entity_id, related_entity_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Data,
		n.CreatedBy, n.RelatedEntityID, n.RelatedEntityType,
	).Scan(&n.CreatedAt)
	if err != nil {
		return model.Notification{}, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// CreateBatch inserts the whole fan-out in one round trip.
func (s *NotificationStore) CreateBatch(ctx context.Context, ns []model.Notification) (int, error) {
	const op = "postgres.Notification.CreateBatch"

	if len(ns) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO notifications (id, user_id, type, title, message, data, created_by, related_entity_id, related_entity_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, n := range ns {
		batch.Queue(query,
			n.ID, n.UserID, n.Type, n.Title, n.Message, n.Data,
			n.CreatedBy, n.RelatedEntityID, n.RelatedEntityType,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range ns {
		if _, err := br.Exec(); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	return len(ns), nil
}

func (s *NotificationStore) List(ctx context.Context, userID int64, opts notification.ListOptions) ([]model.Notification, error) {
	const op = "postgres.Notification.List"

	conds := []string{"user_id = $1"}
	args := []any{userID}

	if opts.UnreadOnly {
		conds = append(conds, "is_read = false")
	}
	if !opts.IncludeArchived {
		conds = append(conds, "is_archived = false")
	}
	if opts.Type != "" {
		args = append(args, opts.Type)
		conds = append(conds, "type = $"+strconv.Itoa(len(args)))
	}

	args = append(args, opts.Limit)
	limitArg := "$" + strconv.Itoa(len(args))
	args = append(args, opts.Offset)
	offsetArg := "$" + strconv.Itoa(len(args))

	query := `SELECT` + notificationColumns + `
		FROM notifications
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY created_at DESC
		LIMIT ` + limitArg + ` OFFSET ` + offsetArg

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ns []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ns = append(ns, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ns, nil
}

func (s *NotificationStore) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	const op = "postgres.Notification.UnreadCount"

	query := `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND is_read = false AND is_archived = false
	`

	var count int64
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, userID int64, ids []string) (int64, error) {
	const op = "postgres.Notification.MarkRead"

	query := `
		UPDATE notifications
		SET is_read = true, read_at = now()
		WHERE user_id = $1 AND id = ANY($2) AND is_read = false
	`

	ct, err := s.pool.Exec(ctx, query, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return ct.RowsAffected(), nil
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	const op = "postgres.Notification.MarkAllRead"

	query := `
		UPDATE notifications
		SET is_read = true, read_at = now()
		WHERE user_id = $1 AND is_read = false
	`

	ct, err := s.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return ct.RowsAffected(), nil
}

func (s *NotificationStore) Archive(ctx context.Context, userID int64, id string) error {
	const op = "postgres.Notification.Archive"

	query := `UPDATE notifications SET is_archived = true WHERE user_id = $1 AND id = $2`

	ct, err := s.pool.Exec(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ct.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}

	return nil
}

func (s *NotificationStore) CountByType(ctx context.Context, userID int64) (map[model.NotificationType]int64, error) {
	const op = "postgres.Notification.CountByType"

	query := `SELECT type, COUNT(*) FROM notifications WHERE user_id = $1 GROUP BY type`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make(map[model.NotificationType]int64)
	for rows.Next() {
		var typ model.NotificationType
		var count int64
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out[typ] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func scanNotification(row pgx.Row) (model.Notification, error) {
	var n model.Notification
	err := row.Scan(
		&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Data,
		&n.IsRead, &n.ReadAt, &n.IsArchived, &n.CreatedBy,
		&n.RelatedEntityID, &n.RelatedEntityType, &n.CreatedAt,
	)
	return n, err
}
