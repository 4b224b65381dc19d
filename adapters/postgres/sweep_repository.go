package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gosurv/domain/clinical"
	"gosurv/domain/core"
	"gosurv/domain/survival"
)

// SweepRepository persists batch results so past sweeps can be listed and
// re-rendered without recomputation. The statistical core never touches
// this layer; only app/cmd wiring does.
type SweepRepository struct {
	db *sqlx.DB
}

// NewSweepRepository creates a PostgreSQL sweep repository
func NewSweepRepository(db *sqlx.DB) *SweepRepository {
	return &SweepRepository{db: db}
}

// EnsureSchema creates the sweep tables when they do not exist yet.
func (r *SweepRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sweeps (
			id             TEXT PRIMARY KEY,
			dataset        TEXT NOT NULL DEFAULT '',
			subtype        TEXT NOT NULL DEFAULT '',
			min_group_size INT  NOT NULL,
			patients       INT  NOT NULL,
			started_at     TIMESTAMPTZ NOT NULL,
			finished_at    TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS sweep_outcomes (
			sweep_id   TEXT NOT NULL REFERENCES sweeps(id) ON DELETE CASCADE,
			position   INT  NOT NULL,
			marker     TEXT NOT NULL,
			status     TEXT NOT NULL,
			chi_square DOUBLE PRECISION,
			p_value    DOUBLE PRECISION,
			size_a     INT NOT NULL,
			size_b     INT NOT NULL,
			dropped    INT NOT NULL,
			reason     TEXT NOT NULL DEFAULT '',
			curves     JSONB,
			PRIMARY KEY (sweep_id, position)
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure sweep schema: %w", err)
	}
	return nil
}

type curvesPayload struct {
	CurveA *survival.Curve `json:"curve_a,omitempty"`
	CurveB *survival.Curve `json:"curve_b,omitempty"`
}

// SaveBatch stores one batch result and all its per-marker outcomes.
func (r *SweepRepository) SaveBatch(ctx context.Context, batch *survival.BatchResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin sweep tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sweeps (id, dataset, subtype, min_group_size, patients, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			dataset = EXCLUDED.dataset,
			subtype = EXCLUDED.subtype,
			min_group_size = EXCLUDED.min_group_size,
			patients = EXCLUDED.patients,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at`,
		batch.SweepID.String(), batch.Dataset, batch.Subtype, batch.MinGroupSize,
		batch.Patients, batch.StartedAt, batch.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save sweep %s: %w", batch.SweepID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sweep_outcomes WHERE sweep_id = $1`, batch.SweepID.String()); err != nil {
		return fmt.Errorf("failed to clear outcomes for %s: %w", batch.SweepID, err)
	}

	for i, o := range batch.Outcomes {
		var chi, p sql.NullFloat64
		if o.Test != nil {
			chi = sql.NullFloat64{Float64: o.Test.ChiSquare, Valid: true}
			p = sql.NullFloat64{Float64: o.Test.PValue, Valid: true}
		}
		curvesJSON, _ := json.Marshal(curvesPayload{CurveA: o.CurveA, CurveB: o.CurveB})

		_, err := tx.ExecContext(ctx, `
			INSERT INTO sweep_outcomes
				(sweep_id, position, marker, status, chi_square, p_value, size_a, size_b, dropped, reason, curves)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			batch.SweepID.String(), i, o.Marker.String(), string(o.Status),
			chi, p, o.SizeA, o.SizeB, o.Dropped, o.Reason, curvesJSON)
		if err != nil {
			return fmt.Errorf("failed to save outcome %s/%s: %w", batch.SweepID, o.Marker, err)
		}
	}

	return tx.Commit()
}

type sweepRow struct {
	ID           string    `db:"id"`
	Dataset      string    `db:"dataset"`
	Subtype      string    `db:"subtype"`
	MinGroupSize int       `db:"min_group_size"`
	Patients     int       `db:"patients"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
}

type outcomeRow struct {
	Marker    string          `db:"marker"`
	Status    string          `db:"status"`
	ChiSquare sql.NullFloat64 `db:"chi_square"`
	PValue    sql.NullFloat64 `db:"p_value"`
	SizeA     int             `db:"size_a"`
	SizeB     int             `db:"size_b"`
	Dropped   int             `db:"dropped"`
	Reason    string          `db:"reason"`
	Curves    []byte          `db:"curves"`
}

// GetBatch loads one stored sweep with its outcomes in original order.
func (r *SweepRepository) GetBatch(ctx context.Context, id core.SweepID) (*survival.BatchResult, error) {
	var s sweepRow
	err := r.db.GetContext(ctx, &s, `SELECT id, dataset, subtype, min_group_size, patients, started_at, finished_at FROM sweeps WHERE id = $1`, id.String())
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", core.ErrSweepNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sweep %s: %w", id, err)
	}

	var rows []outcomeRow
	err = r.db.SelectContext(ctx, &rows, `
		SELECT marker, status, chi_square, p_value, size_a, size_b, dropped, reason, curves
		FROM sweep_outcomes WHERE sweep_id = $1 ORDER BY position`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load outcomes for %s: %w", id, err)
	}

	batch := &survival.BatchResult{
		SweepID:      core.SweepID(s.ID),
		Dataset:      s.Dataset,
		Subtype:      s.Subtype,
		MinGroupSize: s.MinGroupSize,
		Patients:     s.Patients,
		StartedAt:    s.StartedAt,
		FinishedAt:   s.FinishedAt,
	}

	for _, row := range rows {
		o := survival.MarkerOutcome{
			Marker:  clinical.MarkerKey(row.Marker),
			Status:  survival.OutcomeStatus(row.Status),
			SizeA:   row.SizeA,
			SizeB:   row.SizeB,
			Dropped: row.Dropped,
			Reason:  row.Reason,
		}
		if row.ChiSquare.Valid && row.PValue.Valid {
			o.Test = &survival.TestResult{
				ChiSquare: row.ChiSquare.Float64,
				PValue:    row.PValue.Float64,
				SizeA:     row.SizeA,
				SizeB:     row.SizeB,
			}
		}
		if len(row.Curves) > 0 {
			var payload curvesPayload
			if err := json.Unmarshal(row.Curves, &payload); err == nil {
				o.CurveA = payload.CurveA
				o.CurveB = payload.CurveB
			}
		}
		batch.Outcomes = append(batch.Outcomes, o)
	}

	return batch, nil
}

type sweepSummaryRow struct {
	ID         string    `db:"id"`
	Dataset    string    `db:"dataset"`
	Subtype    string    `db:"subtype"`
	Patients   int       `db:"patients"`
	Markers    int       `db:"markers"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}

// ListSweeps returns stored sweeps, newest first.
func (r *SweepRepository) ListSweeps(ctx context.Context) ([]survival.SweepSummary, error) {
	var rows []sweepSummaryRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT s.id, s.dataset, s.subtype, s.patients,
		       (SELECT COUNT(*) FROM sweep_outcomes o WHERE o.sweep_id = s.id) AS markers,
		       s.started_at, s.finished_at
		FROM sweeps s ORDER BY s.started_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweeps: %w", err)
	}
	out := make([]survival.SweepSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, survival.SweepSummary{
			ID:         core.SweepID(row.ID),
			Dataset:    row.Dataset,
			Subtype:    row.Subtype,
			Patients:   row.Patients,
			Markers:    row.Markers,
			StartedAt:  row.StartedAt,
			FinishedAt: row.FinishedAt,
		})
	}
	return out, nil
}
