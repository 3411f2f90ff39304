package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-tracker/internal/dto"
	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

const (
	manualDateLayout   = "2006-01-02"
	manualTimeLayout   = "15:04"
	manualTimeLayoutS  = "15:04:05"
	statusValidatorTag = "attendance_status"
)

type attendanceWriter interface {
	BulkInsert(ctx context.Context, records []models.AttendanceRecord) error
}

type enrolledStudents interface {
	ListByClass(ctx context.Context, classID int64) ([]models.Student, error)
}

// Clock returns the current wall-clock time.
type Clock func() time.Time

func defaultClock() time.Time { return time.Now() }

// AttendanceService records attendance sessions.
type AttendanceService struct {
	classes   classLookup
	students  enrolledStudents
	repo      attendanceWriter
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	clock     Clock
}

// NewAttendanceService constructs an AttendanceService. A nil clock uses time.Now.
func NewAttendanceService(classes classLookup, students enrolledStudents, repo attendanceWriter, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, clock Clock) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if clock == nil {
		clock = defaultClock
	}
	if err := RegisterAttendanceValidators(validate); err != nil {
		logger.Warn("failed to register attendance validators", zap.Error(err))
	}
	return &AttendanceService{classes: classes, students: students, repo: repo, validator: validate, logger: logger, metrics: metrics, clock: clock}
}

// RegisterAttendanceValidators adds the attendance_status tag accepting P or A
// in any case.
func RegisterAttendanceValidators(v *validator.Validate) error {
	return v.RegisterValidation(statusValidatorTag, func(fl validator.FieldLevel) bool {
		_, ok := models.ParseAttendanceStatus(fl.Field().String())
		return ok
	})
}

// ResolveSessionTimestamp picks the session timestamp. Manual mode uses the
// supplied day and time when both are well formed; anything else falls back to
// the clock.
func (s *AttendanceService) ResolveSessionTimestamp(mode, manualDate, manualTime string) string {
	if strings.EqualFold(strings.TrimSpace(mode), models.SessionModeManual) {
		if ts, ok := parseManualTimestamp(manualDate, manualTime); ok {
			return ts.Format(models.SessionTimestampLayout)
		}
	}
	return s.clock().Format(models.SessionTimestampLayout)
}

func parseManualTimestamp(manualDate, manualTime string) (time.Time, bool) {
	day, err := time.Parse(manualDateLayout, strings.TrimSpace(manualDate))
	if err != nil {
		return time.Time{}, false
	}
	raw := strings.TrimSpace(manualTime)
	clock, err := time.Parse(manualTimeLayout, raw)
	if err != nil {
		if clock, err = time.Parse(manualTimeLayoutS, raw); err != nil {
			return time.Time{}, false
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC), true
}

// Record appends one row per enrolled student for the session. Students
// without a submitted status are marked absent. Statuses for students outside
// the class are ignored.
func (s *AttendanceService) Record(ctx context.Context, classID int64, timestamp string, statuses map[int64]string) (*dto.RecordedSession, error) {
	class, err := s.classes.Get(ctx, classID)
	if err != nil {
		return nil, err
	}

	students, err := s.students.ListByClass(ctx, class.ID)
	if err != nil {
		s.logger.Error("failed to list students", zap.Int64("class_id", classID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	session := &dto.RecordedSession{ClassID: class.ID, Timestamp: timestamp, Records: make([]models.AttendanceRecord, 0, len(students))}
	for _, student := range students {
		status := models.StatusAbsent
		if raw, ok := statuses[student.ID]; ok {
			if err := s.validator.Var(raw, statusValidatorTag); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid status %q for student %d", raw, student.ID))
			}
			status, _ = models.ParseAttendanceStatus(raw)
		}
		if status == models.StatusPresent {
			session.Present++
		} else {
			session.Absent++
		}
		session.Records = append(session.Records, models.AttendanceRecord{
			ClassID:   class.ID,
			StudentID: student.ID,
			Date:      timestamp,
			Status:    status,
		})
	}

	if err := s.repo.BulkInsert(ctx, session.Records); err != nil {
		s.logger.Error("failed to record attendance", zap.Int64("class_id", classID), zap.String("timestamp", timestamp), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}
	s.metrics.RecordAttendance(session.Records)
	return session, nil
}

// RecordSession resolves the session timestamp from the form and records it.
func (s *AttendanceService) RecordSession(ctx context.Context, classID int64, req models.RecordAttendanceRequest) (*dto.RecordedSession, error) {
	timestamp := s.ResolveSessionTimestamp(req.Mode, req.ManualDate, req.ManualTime)
	return s.Record(ctx, classID, timestamp, req.Statuses)
}

// Now returns the clock's current day and minute for form defaults.
func (s *AttendanceService) Now() (string, string) {
	now := s.clock()
	return now.Format(manualDateLayout), now.Format(manualTimeLayout)
}
