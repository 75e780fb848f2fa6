package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// ResultRecord is one finished attempt as recorded locally.
type ResultRecord struct {
	ID            int64
	AttemptID     string
	TestID        string
	CourseID      string
	AttemptNumber int
	Score         int
	Correct       int
	Wrong         int
	FinishedAt    time.Time
}

// ResultRepo keeps the history of finished attempts.
type ResultRepo struct {
	drv *entsql.Driver
}

// Append records a finished attempt.
func (r *ResultRepo) Append(ctx context.Context, rec ResultRecord) error {
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now()
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableResults).
		Columns("attempt_id", "test_id", "course_id", "attempt_number", "score", "correct", "wrong", "finished_at").
		Values(rec.AttemptID, rec.TestID, rec.CourseID, rec.AttemptNumber, rec.Score, rec.Correct, rec.Wrong, rec.FinishedAt.UnixMilli()).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

// Recent returns up to limit results, newest first. A limit of 0 returns
// all of them.
func (r *ResultRepo) Recent(ctx context.Context, limit int) ([]ResultRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select("id", "attempt_id", "test_id", "course_id", "attempt_number", "score", "correct", "wrong", "finished_at").
		From(b.Table(tableResults)).
		OrderBy(entsql.Desc("finished_at"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var (
			rec      ResultRecord
			finished int64
		)
		if err := rows.Scan(&rec.ID, &rec.AttemptID, &rec.TestID, &rec.CourseID,
			&rec.AttemptNumber, &rec.Score, &rec.Correct, &rec.Wrong, &finished); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		rec.FinishedAt = time.UnixMilli(finished)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Prune deletes all but the keep most recent results.
func (r *ResultRepo) Prune(ctx context.Context, keep int) error {
	del := entsql.Dialect(dialect.SQLite).Delete(tableResults)
	if keep > 0 {
		recent, err := r.Recent(ctx, keep)
		if err != nil {
			return fmt.Errorf("query results for prune: %w", err)
		}
		ids := make([]any, len(recent))
		for i, rec := range recent {
			ids[i] = rec.ID
		}
		if len(ids) > 0 {
			del.Where(entsql.NotIn("id", ids...))
		}
	}

	query, args := del.Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune results: %w", err)
	}
	return nil
}
