package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context) ([]models.ClassSection, error)
	FindByID(ctx context.Context, id int64) (*models.ClassSection, error)
	Create(ctx context.Context, class *models.ClassSection) error
}

// ClassService manages class sections.
type ClassService struct {
	repo    classRepository
	logger  *zap.Logger
	metrics *MetricsService
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, logger *zap.Logger, metrics *MetricsService) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, logger: logger, metrics: metrics}
}

// List returns every class section ordered by id.
func (s *ClassService) List(ctx context.Context) ([]models.ClassSection, error) {
	classes, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list classes", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Get returns one class section.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.ClassSection, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		s.logger.Error("failed to load class", zap.Int64("class_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create stores a class section. Text fields are trimmed and the declared
// student count falls back to zero when it is missing, malformed or negative.
func (s *ClassService) Create(ctx context.Context, req models.CreateClassRequest) (*models.ClassSection, error) {
	class := &models.ClassSection{
		Department:  strings.TrimSpace(req.Department),
		Year:        strings.TrimSpace(req.Year),
		Subject:     strings.TrimSpace(req.Subject),
		NumStudents: parseStudentCount(string(req.NumStudents), string(req.TotalStudents)),
	}
	if err := s.repo.Create(ctx, class); err != nil {
		s.logger.Error("failed to create class", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	s.metrics.RecordClassCreated()
	return class, nil
}

func parseStudentCount(primary, fallback string) int {
	raw := strings.TrimSpace(primary)
	if raw == "" {
		raw = strings.TrimSpace(fallback)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
