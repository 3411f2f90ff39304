package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-tracker/internal/dto"
	"github.com/noah-isme/attendance-tracker/internal/models"
	"github.com/noah-isme/attendance-tracker/internal/service"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
	"github.com/noah-isme/attendance-tracker/pkg/response"
)

type summaryService interface {
	Summary(ctx context.Context, classID int64, filter models.SummaryFilter) (*dto.AttendanceSummary, error)
}

type summaryExporter interface {
	Summary(ctx context.Context, classID int64, filter models.SummaryFilter, format string) (*service.ExportFile, error)
}

// ReportHandler serves attendance summaries.
type ReportHandler struct {
	reports  summaryService
	exporter summaryExporter
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reports summaryService, exporter summaryExporter) *ReportHandler {
	return &ReportHandler{reports: reports, exporter: exporter}
}

// Calculation godoc
// @Summary Attendance summary
// @Description Per-student present/total counts filtered by action single, range or all
// @Tags Reports
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param classId path int true "Class ID"
// @Param action formData string false "single, range or all"
// @Param single_date formData string false "YYYY-MM-DD"
// @Param start_date formData string false "YYYY-MM-DD"
// @Param end_date formData string false "YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance_calculation/{classId} [get]
// @Router /attendance_calculation/{classId} [post]
func (h *ReportHandler) Calculation(c *gin.Context) {
	classID, err := classIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bind := c.ShouldBind
	if c.Request.Method == http.MethodGet {
		bind = c.ShouldBindQuery
	}
	var filter models.SummaryFilter
	if err := bind(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid summary filter"))
		return
	}

	summary, err := h.reports.Summary(c.Request.Context(), classID, filter)
	if err != nil {
		// An incomplete filter re-renders the page with its message.
		if summary != nil && errors.Is(err, appErrors.ErrValidation) {
			response.JSON(c, http.StatusOK, summary)
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Export godoc
// @Summary Export attendance summary
// @Description Download the filtered summary as CSV or PDF
// @Tags Reports
// @Produce text/csv,application/pdf
// @Param classId path int true "Class ID"
// @Param format query string false "csv or pdf"
// @Param action query string false "single, range or all"
// @Param single_date query string false "YYYY-MM-DD"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance_calculation/{classId}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	classID, err := classIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var filter models.SummaryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid summary filter"))
		return
	}

	file, err := h.exporter.Summary(c.Request.Context(), classID, filter, c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
