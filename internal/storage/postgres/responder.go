package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dispatch-srv/internal/dispatch"
	"dispatch-srv/internal/model"
	pkgLog "dispatch-srv/pkg/log"
)

const responderColumns = `
	id, user_id, name, phone, shift, status, is_on_duty, current_location,
	current_latitude, current_longitude, last_active_at, emergency_count, created_at`

type ResponderStore struct {
	pool *pgxpool.Pool
	l    pkgLog.Logger
}

func NewResponderStore(pool *pgxpool.Pool, l pkgLog.Logger) *ResponderStore {
	return &ResponderStore{pool: pool, l: l}
}

func (s *ResponderStore) Detail(ctx context.Context, id int64) (model.Responder, error) {
	const op = "postgres.Responder.Detail"

	query := `SELECT` + responderColumns + ` FROM security_personnel WHERE id = $1`

	r, err := scanResponder(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Responder{}, dispatch.ErrResponderNotFound
		}
		return model.Responder{}, fmt.Errorf("%s: %w", op, err)
	}

	return r, nil
}

func (s *ResponderStore) ListDispatchable(ctx context.Context) ([]model.Responder, error) {
	const op = "postgres.Responder.ListDispatchable"

	query := `SELECT` + responderColumns + `
		FROM security_personnel
		WHERE status = $1 AND is_on_duty = true`

	rows, err := s.pool.Query(ctx, query, model.ResponderActive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var rs []model.Responder
	for rows.Next() {
		r, err := scanResponder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rs = append(rs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rs, nil
}

// SetOnDuty flips the duty flag; a position is only overwritten when the
// caller supplies one, so check-out keeps the last known location.
func (s *ResponderStore) SetOnDuty(ctx context.Context, id int64, onDuty bool, lat, lon *float64) (model.Responder, error) {
	const op = "postgres.Responder.SetOnDuty"

	query := `
		UPDATE security_personnel
		SET is_on_duty = $2,
			current_latitude = COALESCE($3, current_latitude),
			current_longitude = COALESCE($4, current_longitude),
			last_active_at = now()
		WHERE id = $1
		RETURNING` + responderColumns

	r, err := scanResponder(s.pool.QueryRow(ctx, query, id, onDuty, lat, lon))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Responder{}, dispatch.ErrResponderNotFound
		}
		return model.Responder{}, fmt.Errorf("%s: %w", op, err)
	}

	return r, nil
}

func (s *ResponderStore) UpdateLocation(ctx context.Context, id int64, lat, lon float64) error {
	const op = "postgres.Responder.UpdateLocation"

	query := `
		UPDATE security_personnel
		SET current_latitude = $2, current_longitude = $3, last_active_at = now()
		WHERE id = $1
	`

	ct, err := s.pool.Exec(ctx, query, id, lat, lon)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ct.RowsAffected() == 0 {
		return dispatch.ErrResponderNotFound
	}

	return nil
}

func (s *ResponderStore) IncrementEmergencyCount(ctx context.Context, id int64) error {
	const op = "postgres.Responder.IncrementEmergencyCount"

	query := `UPDATE security_personnel SET emergency_count = emergency_count + 1 WHERE id = $1`

	ct, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ct.RowsAffected() == 0 {
		return dispatch.ErrResponderNotFound
	}

	return nil
}

func scanResponder(row pgx.Row) (model.Responder, error) {
	var r model.Responder
	err := row.Scan(
		&r.ID, &r.UserID, &r.Name, &r.Phone, &r.Shift, &r.Status, &r.IsOnDuty,
		&r.CurrentLocation, &r.CurrentLatitude, &r.CurrentLongitude,
		&r.LastActiveAt, &r.EmergencyCount, &r.CreatedAt,
	)
	return r, err
}
