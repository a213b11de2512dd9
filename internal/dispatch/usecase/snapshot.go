package usecase

import (
	"context"

	"dispatch-srv/internal/dispatch"
	"dispatch-srv/internal/model"
)

// ActiveEmergencies lists every open emergency for dashboards.
func (uc *usecase) ActiveEmergencies(ctx context.Context) ([]model.Emergency, error) {
	es, err := uc.emergencies.ListActive(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.ActiveEmergencies: %v", err)
		return nil, err
	}
	return es, nil
}

// EmergencyDetail returns one emergency with its assignment history.
func (uc *usecase) EmergencyDetail(ctx context.Context, emergencyID int64) (dispatch.EmergencyDetailOutput, error) {
	e, err := uc.emergencies.Detail(ctx, emergencyID)
	if err != nil {
		if err == dispatch.ErrEmergencyNotFound {
			return dispatch.EmergencyDetailOutput{}, err
		}
		uc.l.Errorf(ctx, "internal.dispatch.usecase.EmergencyDetail: %v", err)
		return dispatch.EmergencyDetailOutput{}, err
	}

	as, err := uc.assignments.ListByEmergency(ctx, e.ID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.EmergencyDetail: %v", err)
		return dispatch.EmergencyDetailOutput{}, err
	}

	return dispatch.EmergencyDetailOutput{Emergency: e, Assignments: as}, nil
}

// Snapshot is the reconnect reconciliation view: alarmed emergencies still
// open plus the responder's own in-flight assignments. The hot list comes
// from the cache when it is warm; any cache trouble falls back to the store.
func (uc *usecase) Snapshot(ctx context.Context, responderID int64) (dispatch.SnapshotOutput, error) {
	actives, err := uc.cache.GetActive(ctx)
	if err != nil {
		uc.l.Debugf(ctx, "internal.dispatch.usecase.Snapshot: cache miss: %v", err)

		actives, err = uc.emergencies.ListActiveAlarmed(ctx)
		if err != nil {
			uc.l.Errorf(ctx, "internal.dispatch.usecase.Snapshot: %v", err)
			return dispatch.SnapshotOutput{}, err
		}

		if err := uc.cache.SetActive(ctx, actives); err != nil {
			uc.l.Warnf(ctx, "internal.dispatch.usecase.Snapshot: cache fill: %v", err)
		}
	}

	mine, err := uc.assignments.ListActiveByResponder(ctx, responderID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Snapshot: %v", err)
		return dispatch.SnapshotOutput{}, err
	}

	return dispatch.SnapshotOutput{
		ActiveEmergencies: actives,
		MyAssignments:     mine,
	}, nil
}

// Stats summarizes a responder's dispatch history.
func (uc *usecase) Stats(ctx context.Context, responderID int64) (dispatch.StatsOutput, error) {
	r, err := uc.responders.Detail(ctx, responderID)
	if err != nil {
		if err == dispatch.ErrResponderNotFound {
			return dispatch.StatsOutput{}, err
		}
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Stats: %v", err)
		return dispatch.StatsOutput{}, err
	}

	agg, err := uc.assignments.AggregateByResponder(ctx, responderID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Stats: %v", err)
		return dispatch.StatsOutput{}, err
	}

	completionRate := 0.0
	if agg.Total > 0 {
		completionRate = float64(agg.Resolved) / float64(agg.Total)
	}

	return dispatch.StatsOutput{
		ResponderID:        r.ID,
		TotalAssignments:   agg.Total,
		Resolved:           agg.Resolved,
		Cancelled:          agg.Cancelled,
		CompletionRate:     completionRate,
		AvgResponseSeconds: agg.AvgResponseSeconds,
		EmergencyCount:     r.EmergencyCount,
	}, nil
}
