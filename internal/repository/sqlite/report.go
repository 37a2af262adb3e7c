package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/coding-mentor/internal/apperror"
	"github.com/sakif/coding-mentor/internal/model"
	"github.com/sakif/coding-mentor/internal/repository"
)

var _ repository.ReportRepository = (*DB)(nil)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Create assigns the report an ID and creation time, then inserts it. The
// document is stored as JSON text.
func (db *DB) Create(ctx context.Context, report *model.Report) error {
	report.ID = xid.New().String()
	report.CreatedAt = time.Now().UTC()

	doc, err := json.Marshal(report.Document)
	if err != nil {
		return fmt.Errorf("sqlite: encoding report document: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO reports (id, problem, language, document, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		report.ID,
		report.Problem,
		report.Language,
		string(doc),
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating report: %w", err)
	}
	return nil
}

func (db *DB) GetByID(ctx context.Context, id string) (*model.Report, error) {
	var (
		report model.Report
		doc    string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, problem, language, document, created_at
		 FROM reports
		 WHERE id = ?`,
		id,
	).Scan(&report.ID, &report.Problem, &report.Language, &doc, &report.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("report", id)
		}
		return nil, fmt.Errorf("sqlite: getting report %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(doc), &report.Document); err != nil {
		return nil, fmt.Errorf("sqlite: decoding report %s: %w", id, err)
	}
	return &report, nil
}

// List returns report summaries, newest first. The document column is not
// read.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.ReportSummary, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := max(opts.Offset, 0)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, problem, language, created_at
		 FROM reports
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reports: %w", err)
	}
	defer rows.Close()

	reports := make([]model.ReportSummary, 0, limit)
	for rows.Next() {
		var r model.ReportSummary
		if err := rows.Scan(&r.ID, &r.Problem, &r.Language, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning report row: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reports: %w", err)
	}
	return reports, nil
}

func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting report %s: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("report", id)
	}
	return nil
}
