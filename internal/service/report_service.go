package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-tracker/internal/dto"
	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

// User-facing messages for incomplete summary filters.
const (
	MsgSelectDate      = "Please select a date."
	MsgSelectDateRange = "Please select both start and end dates."
)

type attendanceReader interface {
	ListByClass(ctx context.Context, classID int64) ([]models.AttendanceRecord, error)
	SummaryRows(ctx context.Context, classID int64, filter models.SummaryFilter) ([]models.SummaryRow, error)
}

// ReportService builds read-only attendance views.
type ReportService struct {
	classes    classLookup
	students   enrolledStudents
	attendance attendanceReader
	logger     *zap.Logger
	clock      Clock
}

// NewReportService constructs a ReportService.
func NewReportService(classes classLookup, students enrolledStudents, attendance attendanceReader, logger *zap.Logger, clock Clock) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = defaultClock
	}
	return &ReportService{classes: classes, students: students, attendance: attendance, logger: logger, clock: clock}
}

// History groups every attendance row of a class by student and session
// timestamp. The shared session total counts distinct calendar days while each
// student's present count counts distinct timestamps, so two sessions on one
// day can push a percentage above what the summary reports.
func (s *ReportService) History(ctx context.Context, classID int64) (*dto.AttendanceHistory, error) {
	class, err := s.classes.Get(ctx, classID)
	if err != nil {
		return nil, err
	}
	students, err := s.students.ListByClass(ctx, class.ID)
	if err != nil {
		s.logger.Error("failed to list students", zap.Int64("class_id", classID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	records, err := s.attendance.ListByClass(ctx, class.ID)
	if err != nil {
		s.logger.Error("failed to list attendance", zap.Int64("class_id", classID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}

	grouped := make(map[int64]map[string]models.AttendanceStatus)
	days := make(map[string]struct{})
	for _, record := range records {
		sessions, ok := grouped[record.StudentID]
		if !ok {
			sessions = make(map[string]models.AttendanceStatus)
			grouped[record.StudentID] = sessions
		}
		sessions[record.Date] = record.Status
		days[record.Day()] = struct{}{}
	}

	dates := make([]string, 0, len(days))
	for day := range days {
		dates = append(dates, day)
	}
	sort.Strings(dates)

	totalSessions := len(dates)
	stats := make(map[int64]dto.StudentStat, len(students))
	for _, student := range students {
		present := 0
		for _, status := range grouped[student.ID] {
			if status == models.StatusPresent {
				present++
			}
		}
		stats[student.ID] = dto.StudentStat{Present: present, Total: totalSessions, Percent: percentage(present, totalSessions)}
	}

	now := s.clock()
	return &dto.AttendanceHistory{
		Class:       *class,
		Students:    students,
		Dates:       dates,
		Records:     grouped,
		Stats:       stats,
		CurrentDate: now.Format(manualDateLayout),
		CurrentTime: now.Format(manualTimeLayout),
	}, nil
}

// Summary counts every matching attendance row per student. Students without
// matching rows are left out. When the filter is incomplete the returned
// summary carries the class and a message alongside a validation error.
func (s *ReportService) Summary(ctx context.Context, classID int64, filter models.SummaryFilter) (*dto.AttendanceSummary, error) {
	class, err := s.classes.Get(ctx, classID)
	if err != nil {
		return nil, err
	}

	filter = normalizeFilter(filter)
	summary := &dto.AttendanceSummary{Class: *class, Filter: filter, Students: []dto.SummaryStudent{}}
	if msg := filterMessage(filter); msg != "" {
		summary.Message = msg
		return summary, appErrors.Clone(appErrors.ErrValidation, msg)
	}

	rows, err := s.attendance.SummaryRows(ctx, class.ID, filter)
	if err != nil {
		s.logger.Error("failed to load summary rows", zap.Int64("class_id", classID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build attendance summary")
	}

	index := make(map[int64]int)
	for _, row := range rows {
		pos, ok := index[row.StudentID]
		if !ok {
			pos = len(summary.Students)
			index[row.StudentID] = pos
			summary.Students = append(summary.Students, dto.SummaryStudent{StudentID: row.StudentID, RegNo: row.RegNo, Name: row.Name})
		}
		entry := &summary.Students[pos]
		entry.Total++
		if row.Status == models.StatusPresent {
			entry.Present++
		}
	}
	for i := range summary.Students {
		summary.Students[i].Percent = percentage(summary.Students[i].Present, summary.Students[i].Total)
	}
	return summary, nil
}

func normalizeFilter(filter models.SummaryFilter) models.SummaryFilter {
	filter.SingleDate = strings.TrimSpace(filter.SingleDate)
	filter.StartDate = strings.TrimSpace(filter.StartDate)
	filter.EndDate = strings.TrimSpace(filter.EndDate)
	switch models.SummaryAction(strings.ToLower(strings.TrimSpace(string(filter.Action)))) {
	case models.SummarySingle:
		filter.Action = models.SummarySingle
	case models.SummaryRange:
		filter.Action = models.SummaryRange
	default:
		filter.Action = models.SummaryAll
	}
	return filter
}

func filterMessage(filter models.SummaryFilter) string {
	switch filter.Action {
	case models.SummarySingle:
		if filter.SingleDate == "" {
			return MsgSelectDate
		}
	case models.SummaryRange:
		if filter.StartDate == "" || filter.EndDate == "" {
			return MsgSelectDateRange
		}
	}
	return ""
}

func percentage(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*100*100) / 100
}
