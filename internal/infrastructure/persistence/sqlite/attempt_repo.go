package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bnema/promptcast/internal/domain/entity"
	"github.com/bnema/promptcast/internal/domain/repository"
	"github.com/bnema/promptcast/internal/logging"
)

const attemptColumns = `id, request_id, menu_id, action_id, label, tab_id, retry, fallback,
	state, inserted, submitted, outcome, error, prompt_len, started_at, finished_at`

// AttemptRepo stores injection attempts in the attempts table.
type AttemptRepo struct {
	db *sql.DB
}

var _ repository.AttemptRepository = (*AttemptRepo)(nil)

// NewAttemptRepository creates a new SQLite-backed attempt repository.
func NewAttemptRepository(db *sql.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

func (r *AttemptRepo) Record(ctx context.Context, rec *entity.AttemptRecord) error {
	if rec == nil {
		return fmt.Errorf("attempt record is nil")
	}
	logging.FromContext(ctx).Trace().
		Str("request_id", rec.RequestID).
		Str("outcome", string(rec.Outcome)).
		Msg("recording attempt")

	res, err := r.db.ExecContext(ctx, `INSERT INTO attempts (
		request_id, menu_id, action_id, label, tab_id, retry, fallback,
		state, inserted, submitted, outcome, error, prompt_len, started_at, finished_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RequestID, rec.MenuID, rec.ActionID, rec.Label, string(rec.TabID),
		rec.Retry, rec.Fallback, string(rec.State), rec.Inserted, rec.Submitted,
		string(rec.Outcome), sql.NullString{String: rec.Error, Valid: rec.Error != ""},
		rec.PromptLen, toMillis(rec.StartedAt), toMillis(rec.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	rec.ID = id
	return nil
}

func (r *AttemptRepo) Recent(ctx context.Context, limit int) ([]*entity.AttemptRecord, error) {
	if limit <= 0 {
		return []*entity.AttemptRecord{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+attemptColumns+` FROM attempts ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent attempts: %w", err)
	}
	return scanAttempts(rows)
}

// ByRequest matches the request id and its ":retry" sibling.
func (r *AttemptRepo) ByRequest(ctx context.Context, requestID string) ([]*entity.AttemptRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		WHERE request_id = ?1 OR request_id = ?1 || ':retry'
		ORDER BY started_at, id`, requestID)
	if err != nil {
		return nil, fmt.Errorf("query attempts for %s: %w", requestID, err)
	}
	return scanAttempts(rows)
}

func (r *AttemptRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attempts WHERE started_at < ?`, toMillis(before))
	if err != nil {
		return 0, fmt.Errorf("delete old attempts: %w", err)
	}
	return res.RowsAffected()
}

// KeepLatest deletes everything but the newest keep attempts.
func (r *AttemptRepo) KeepLatest(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM attempts WHERE id NOT IN (
		SELECT id FROM attempts ORDER BY started_at DESC, id DESC LIMIT ?
	)`, keep)
	if err != nil {
		return 0, fmt.Errorf("trim attempts: %w", err)
	}
	return res.RowsAffected()
}

func scanAttempts(rows *sql.Rows) ([]*entity.AttemptRecord, error) {
	defer rows.Close()

	records := make([]*entity.AttemptRecord, 0)
	for rows.Next() {
		var (
			rec               entity.AttemptRecord
			tabID, state, out string
			errText           sql.NullString
			started, finished int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.RequestID, &rec.MenuID, &rec.ActionID, &rec.Label, &tabID,
			&rec.Retry, &rec.Fallback, &state, &rec.Inserted, &rec.Submitted, &out,
			&errText, &rec.PromptLen, &started, &finished,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.TabID = entity.TabID(tabID)
		rec.State = entity.InjectionState(state)
		rec.Outcome = entity.AttemptOutcome(out)
		rec.Error = errText.String
		rec.StartedAt = fromMillis(started)
		rec.FinishedAt = fromMillis(finished)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return records, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
