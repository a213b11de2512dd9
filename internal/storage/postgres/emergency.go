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

const emergencyColumns = `
	id, type, details, location, latitude, longitude, severity, status,
	user_id, alarm_sent, alarm_sent_at, responder_assigned, created_at, updated_at`

type EmergencyStore struct {
	pool *pgxpool.Pool
	l    pkgLog.Logger
}

func NewEmergencyStore(pool *pgxpool.Pool, l pkgLog.Logger) *EmergencyStore {
	return &EmergencyStore{pool: pool, l: l}
}

func (s *EmergencyStore) Create(ctx context.Context, e model.Emergency) (model.Emergency, error) {
	const op = "postgres.Emergency.Create"

	query := `
		INSERT INTO emergencies (type, details, location, latitude, longitude, severity, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		e.Type, e.Details, e.Location, e.Latitude, e.Longitude,
		e.Severity, e.Status, e.UserID,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return model.Emergency{}, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

func (s *EmergencyStore) Detail(ctx context.Context, id int64) (model.Emergency, error) {
	const op = "postgres.Emergency.Detail"

	query := `SELECT` + emergencyColumns + ` FROM emergencies WHERE id = $1`

	e, err := scanEmergency(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Emergency{}, dispatch.ErrEmergencyNotFound
		}
		return model.Emergency{}, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

// MarkAlarmSent flips alarm_sent in a single guarded statement. Under
// concurrent raises exactly one caller observes a row change.
func (s *EmergencyStore) MarkAlarmSent(ctx context.Context, id int64) (bool, error) {
	const op = "postgres.Emergency.MarkAlarmSent"

	query := `
		UPDATE emergencies
		SET alarm_sent = true, alarm_sent_at = now(), updated_at = now()
		WHERE id = $1 AND alarm_sent = false
	`

	ct, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ct.RowsAffected() == 1, nil
}

func (s *EmergencyStore) SetResponderAssigned(ctx context.Context, id int64, assigned bool) error {
	const op = "postgres.Emergency.SetResponderAssigned"

	query := `UPDATE emergencies SET responder_assigned = $2, updated_at = now() WHERE id = $1`

	ct, err := s.pool.Exec(ctx, query, id, assigned)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ct.RowsAffected() == 0 {
		return dispatch.ErrEmergencyNotFound
	}

	return nil
}

func (s *EmergencyStore) UpdateStatus(ctx context.Context, id int64, status model.EmergencyStatus) error {
	const op = "postgres.Emergency.UpdateStatus"

	query := `UPDATE emergencies SET status = $2, updated_at = now() WHERE id = $1`

	ct, err := s.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ct.RowsAffected() == 0 {
		return dispatch.ErrEmergencyNotFound
	}

	return nil
}

func (s *EmergencyStore) ListActiveAlarmed(ctx context.Context) ([]model.Emergency, error) {
	const op = "postgres.Emergency.ListActiveAlarmed"

	query := `SELECT` + emergencyColumns + `
		FROM emergencies
		WHERE status = $1 AND alarm_sent = true
		ORDER BY created_at DESC`

	return s.list(ctx, op, query, model.EmergencyActive)
}

func (s *EmergencyStore) ListActive(ctx context.Context) ([]model.Emergency, error) {
	const op = "postgres.Emergency.ListActive"

	query := `SELECT` + emergencyColumns + `
		FROM emergencies
		WHERE status = $1
		ORDER BY created_at DESC`

	return s.list(ctx, op, query, model.EmergencyActive)
}

func (s *EmergencyStore) list(ctx context.Context, op, query string, args ...any) ([]model.Emergency, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var es []model.Emergency
	for rows.Next() {
		e, err := scanEmergency(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		es = append(es, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return es, nil
}

func scanEmergency(row pgx.Row) (model.Emergency, error) {
	var e model.Emergency
	err := row.Scan(
		&e.ID, &e.Type, &e.Details, &e.Location, &e.Latitude, &e.Longitude,
		&e.Severity, &e.Status, &e.UserID, &e.AlarmSent, &e.AlarmSentAt,
		&e.ResponderAssigned, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}
