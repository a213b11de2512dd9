package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dispatch-srv/internal/model"
	pkgLog "dispatch-srv/pkg/log"
)

// ErrUserNotFound is returned for a reporter lookup that matches nothing.
// Alarm enrichment treats it as an anonymous reporter.
var ErrUserNotFound = errors.New("user not found")

type UserStore struct {
	pool *pgxpool.Pool
	l    pkgLog.Logger
}

func NewUserStore(pool *pgxpool.Pool, l pkgLog.Logger) *UserStore {
	return &UserStore{pool: pool, l: l}
}

func (s *UserStore) Detail(ctx context.Context, id int64) (model.User, error) {
	const op = "postgres.User.Detail"

	query := `SELECT id, full_name, phone, rt_rw, is_active, created_at FROM users WHERE id = $1`

	var u model.User
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.FullName, &u.Phone, &u.RtRw, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *UserStore) ListActiveUserIDs(ctx context.Context) ([]int64, error) {
	const op = "postgres.User.ListActiveUserIDs"

	query := `SELECT id FROM users WHERE is_active = true`

	return s.listIDs(ctx, op, query)
}

func (s *UserStore) ListUserIDsByGroup(ctx context.Context, rtRw string) ([]int64, error) {
	const op = "postgres.User.ListUserIDsByGroup"

	query := `SELECT id FROM users WHERE is_active = true AND rt_rw = $1`

	return s.listIDs(ctx, op, query, rtRw)
}

func (s *UserStore) listIDs(ctx context.Context, op, query string, args ...any) ([]int64, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ids, nil
}
