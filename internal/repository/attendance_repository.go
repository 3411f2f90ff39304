package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/attendance-tracker/internal/models"
)

// AttendanceRepository stores per-session attendance rows. Rows are only
// ever appended.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// BulkInsert writes one session's rows in a single multi-row insert inside a
// transaction.
func (r *AttendanceRepository) BulkInsert(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk attendance: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO attendance (class_id, student_id, date, status) VALUES (:class_id, :student_id, :date, :status)`
	if _, err := tx.NamedExecContext(ctx, query, records); err != nil {
		return fmt.Errorf("bulk insert attendance: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk attendance: %w", err)
	}
	commit = true
	return nil
}

// ListByClass returns every attendance row of a class in insertion order.
func (r *AttendanceRepository) ListByClass(ctx context.Context, classID int64) ([]models.AttendanceRecord, error) {
	query := r.db.Rebind(`SELECT id, class_id, student_id, date, status FROM attendance WHERE class_id = ? ORDER BY id`)
	records := []models.AttendanceRecord{}
	if err := r.db.SelectContext(ctx, &records, query, classID); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// SummaryRows joins students with their attendance rows, restricted by the
// calendar-day filter. Range bounds are inclusive and never swapped.
func (r *AttendanceRepository) SummaryRows(ctx context.Context, classID int64, filter models.SummaryFilter) ([]models.SummaryRow, error) {
	query := `SELECT s.id AS student_id, s.regno, s.name, a.status, a.date
FROM students s
JOIN attendance a ON s.id = a.student_id
WHERE s.class_id = ?`
	args := []interface{}{classID}

	switch filter.Action {
	case models.SummarySingle:
		query += ` AND SUBSTR(a.date, 1, 10) = ?`
		args = append(args, filter.SingleDate)
	case models.SummaryRange:
		query += ` AND SUBSTR(a.date, 1, 10) BETWEEN ? AND ?`
		args = append(args, filter.StartDate, filter.EndDate)
	}
	query += ` ORDER BY s.id, a.id`

	rows := []models.SummaryRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("attendance summary rows: %w", err)
	}
	return rows, nil
}
