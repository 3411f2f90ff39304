package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/attendance-tracker/internal/models"
)

// ClassRepository manages persistence for class sections.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns every class section in creation order.
func (r *ClassRepository) List(ctx context.Context) ([]models.ClassSection, error) {
	const query = `SELECT id, department, year, subject, num_students FROM classes ORDER BY id`
	classes := []models.ClassSection{}
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class record by ID. Missing rows surface as sql.ErrNoRows.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.ClassSection, error) {
	query := r.db.Rebind(`SELECT id, department, year, subject, num_students FROM classes WHERE id = ?`)
	var class models.ClassSection
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create persists a class record and sets its ID.
func (r *ClassRepository) Create(ctx context.Context, class *models.ClassSection) error {
	query := r.db.Rebind(`INSERT INTO classes (department, year, subject, num_students) VALUES (?, ?, ?, ?) RETURNING id`)
	if err := r.db.GetContext(ctx, &class.ID, query, class.Department, class.Year, class.Subject, class.NumStudents); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}
