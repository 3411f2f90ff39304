package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-tracker/internal/dto"
	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
	"github.com/noah-isme/attendance-tracker/pkg/export"
)

// Supported export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var summaryHeaders = []string{"Reg No", "Name", "Present", "Total", "Percent"}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

type summaryBuilder interface {
	Summary(ctx context.Context, classID int64, filter models.SummaryFilter) (*dto.AttendanceSummary, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders attendance summaries as downloadable files.
type ExportService struct {
	reports   summaryBuilder
	renderers map[string]renderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService with CSV and PDF renderers.
func NewExportService(reports summaryBuilder, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reports: reports,
		renderers: map[string]renderer{
			FormatCSV: export.NewCSVExporter(),
			FormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// Summary renders the filtered summary of a class in the requested format.
func (s *ExportService) Summary(ctx context.Context, classID int64, filter models.SummaryFilter, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	summary, err := s.reports.Summary(ctx, classID, filter)
	if err != nil {
		return nil, err
	}

	data, err := r.Render(summaryDataset(summary))
	if err != nil {
		s.logger.Error("failed to render summary export", zap.Int64("class_id", classID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("attendance_class_%d_%s.%s", classID, summary.Filter.Action, r.Extension()),
		ContentType: r.ContentType(),
		Data:        data,
	}, nil
}

func summaryDataset(summary *dto.AttendanceSummary) export.Dataset {
	class := summary.Class
	subtitle := fmt.Sprintf("%s / %s / %s", class.Department, class.Year, class.Subject)
	switch summary.Filter.Action {
	case models.SummarySingle:
		subtitle += " - " + summary.Filter.SingleDate
	case models.SummaryRange:
		subtitle += fmt.Sprintf(" - %s to %s", summary.Filter.StartDate, summary.Filter.EndDate)
	}

	rows := make([]map[string]string, 0, len(summary.Students))
	for _, student := range summary.Students {
		rows = append(rows, map[string]string{
			"Reg No":  student.RegNo,
			"Name":    student.Name,
			"Present": strconv.Itoa(student.Present),
			"Total":   strconv.Itoa(student.Total),
			"Percent": strconv.FormatFloat(student.Percent, 'f', 2, 64),
		})
	}
	return export.Dataset{Title: "Attendance Summary", Subtitle: subtitle, Headers: summaryHeaders, Rows: rows}
}
