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

const assignmentColumns = `
	id, emergency_id, responder_id, status, response_time_seconds,
	arrived_at, completed_at, action_taken, notes, created_at, updated_at`

type AssignmentStore struct {
	pool *pgxpool.Pool
	l    pkgLog.Logger
}

func NewAssignmentStore(pool *pgxpool.Pool, l pkgLog.Logger) *AssignmentStore {
	return &AssignmentStore{pool: pool, l: l}
}

// Create inserts the assignment unless the (responder, emergency) pair
// already has one. The unique constraint arbitrates concurrent accepts; the
// loser gets the winner's row back with created=false.
func (s *AssignmentStore) Create(ctx context.Context, a model.Assignment) (model.Assignment, bool, error) {
	const op = "postgres.Assignment.Create"

	query := `
		INSERT INTO emergency_responses (emergency_id, responder_id, status, response_time_seconds, action_taken, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (responder_id, emergency_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		a.EmergencyID, a.ResponderID, a.Status, a.ResponseTimeSeconds, a.ActionTaken, a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err == nil {
		return a, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Assignment{}, false, fmt.Errorf("%s: %w", op, err)
	}

	// Conflict: fetch the existing row
	existing, err := s.GetByResponderAndEmergency(ctx, a.ResponderID, a.EmergencyID)
	if err != nil {
		return model.Assignment{}, false, fmt.Errorf("%s: %w", op, err)
	}

	return existing, false, nil
}

func (s *AssignmentStore) GetByResponderAndEmergency(ctx context.Context, responderID, emergencyID int64) (model.Assignment, error) {
	const op = "postgres.Assignment.GetByResponderAndEmergency"

	query := `SELECT` + assignmentColumns + `
		FROM emergency_responses
		WHERE responder_id = $1 AND emergency_id = $2`

	a, err := scanAssignment(s.pool.QueryRow(ctx, query, responderID, emergencyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Assignment{}, dispatch.ErrAssignmentNotFound
		}
		return model.Assignment{}, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func (s *AssignmentStore) Update(ctx context.Context, a model.Assignment) (model.Assignment, error) {
	const op = "postgres.Assignment.Update"

	query := `
		UPDATE emergency_responses
		SET status = $2, response_time_seconds = $3, arrived_at = $4,
			completed_at = $5, action_taken = $6, notes = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		a.ID, a.Status, a.ResponseTimeSeconds, a.ArrivedAt,
		a.CompletedAt, a.ActionTaken, a.Notes,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Assignment{}, dispatch.ErrAssignmentNotFound
		}
		return model.Assignment{}, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func (s *AssignmentStore) ListActiveByResponder(ctx context.Context, responderID int64) ([]model.Assignment, error) {
	const op = "postgres.Assignment.ListActiveByResponder"

	query := `SELECT` + assignmentColumns + `
		FROM emergency_responses
		WHERE responder_id = $1 AND status = ANY($2)
		ORDER BY created_at DESC`

	statuses := make([]string, 0, len(model.ActiveAssignmentStatuses))
	for _, st := range model.ActiveAssignmentStatuses {
		statuses = append(statuses, string(st))
	}

	return s.list(ctx, op, query, responderID, statuses)
}

func (s *AssignmentStore) ListByEmergency(ctx context.Context, emergencyID int64) ([]model.Assignment, error) {
	const op = "postgres.Assignment.ListByEmergency"

	query := `SELECT` + assignmentColumns + `
		FROM emergency_responses
		WHERE emergency_id = $1
		ORDER BY created_at ASC`

	return s.list(ctx, op, query, emergencyID)
}

func (s *AssignmentStore) AggregateByResponder(ctx context.Context, responderID int64) (dispatch.AssignmentAggregate, error) {
	const op = "postgres.Assignment.AggregateByResponder"

	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE status = 'RESOLVED'),
			   COUNT(*) FILTER (WHERE status = 'CANCELLED'),
			   COALESCE(AVG(response_time_seconds), 0)
		FROM emergency_responses
		WHERE responder_id = $1
	`

	var agg dispatch.AssignmentAggregate
	err := s.pool.QueryRow(ctx, query, responderID).Scan(
		&agg.Total, &agg.Resolved, &agg.Cancelled, &agg.AvgResponseSeconds,
	)
	if err != nil {
		return dispatch.AssignmentAggregate{}, fmt.Errorf("%s: %w", op, err)
	}

	return agg, nil
}

func (s *AssignmentStore) list(ctx context.Context, op, query string, args ...any) ([]model.Assignment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var as []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		as = append(as, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return as, nil
}

func scanAssignment(row pgx.Row) (model.Assignment, error) {
	var a model.Assignment
	err := row.Scan(
		&a.ID, &a.EmergencyID, &a.ResponderID, &a.Status, &a.ResponseTimeSeconds,
		&a.ArrivedAt, &a.CompletedAt, &a.ActionTaken, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}
