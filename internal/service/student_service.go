package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-tracker/internal/dto"
	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

type studentRepository interface {
	ListByClass(ctx context.Context, classID int64) ([]models.Student, error)
	BulkCreate(ctx context.Context, students []models.Student) error
}

type classLookup interface {
	Get(ctx context.Context, id int64) (*models.ClassSection, error)
}

// StudentService enrolls students into class sections.
type StudentService struct {
	classes classLookup
	repo    studentRepository
	logger  *zap.Logger
	metrics *MetricsService
}

// NewStudentService constructs a StudentService.
func NewStudentService(classes classLookup, repo studentRepository, logger *zap.Logger, metrics *MetricsService) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{classes: classes, repo: repo, logger: logger, metrics: metrics}
}

// Form describes how many enrollment rows the class accepts.
func (s *StudentService) Form(ctx context.Context, classID int64) (*dto.EnrollmentForm, error) {
	class, err := s.classes.Get(ctx, classID)
	if err != nil {
		return nil, err
	}
	return &dto.EnrollmentForm{Class: *class, Slots: class.NumStudents}, nil
}

// Enroll inserts the non-blank rows among indices 0..NumStudents-1 in a
// single batch. Rows beyond the declared count are ignored.
func (s *StudentService) Enroll(ctx context.Context, classID int64, rows models.EnrollmentRows) (*dto.EnrollmentResult, error) {
	class, err := s.classes.Get(ctx, classID)
	if err != nil {
		return nil, err
	}

	entries := rows.Below(class.NumStudents)
	students := make([]models.Student, 0, len(entries))
	for _, entry := range entries {
		regNo := strings.TrimSpace(entry.RegNo)
		name := strings.TrimSpace(entry.Name)
		if regNo == "" || name == "" {
			continue
		}
		students = append(students, models.Student{ClassID: class.ID, RegNo: regNo, Name: name})
	}

	if err := s.repo.BulkCreate(ctx, students); err != nil {
		s.logger.Error("failed to enroll students", zap.Int64("class_id", classID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll students")
	}
	s.metrics.RecordEnrollment(len(students))
	return &dto.EnrollmentResult{ClassID: class.ID, Inserted: len(students)}, nil
}

// List returns the enrolled students of a class.
func (s *StudentService) List(ctx context.Context, classID int64) ([]models.Student, error) {
	if _, err := s.classes.Get(ctx, classID); err != nil {
		return nil, err
	}
	students, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("failed to list students", zap.Int64("class_id", classID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}
