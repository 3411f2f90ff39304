package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-tracker/internal/dto"
	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
	"github.com/noah-isme/attendance-tracker/pkg/response"
)

const statusFieldPrefix = "status_"

type attendanceRecorder interface {
	RecordSession(ctx context.Context, classID int64, req models.RecordAttendanceRequest) (*dto.RecordedSession, error)
}

type historyBuilder interface {
	History(ctx context.Context, classID int64) (*dto.AttendanceHistory, error)
}

// AttendanceHandler serves the attendance table.
type AttendanceHandler struct {
	recorder attendanceRecorder
	history  historyBuilder
}

// NewAttendanceHandler constructs an AttendanceHandler.
func NewAttendanceHandler(recorder attendanceRecorder, history historyBuilder) *AttendanceHandler {
	return &AttendanceHandler{recorder: recorder, history: history}
}

// Table godoc
// @Summary Attendance history
// @Description Every recorded session of a class grouped by student with per-student percentages
// @Tags Attendance
// @Produce json
// @Param classId path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance_table/{classId} [get]
func (h *AttendanceHandler) Table(c *gin.Context) {
	classID, err := classIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	history, err := h.history.History(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history)
}

// Record godoc
// @Summary Record a session
// @Description Store one status per enrolled student; omitted students are absent
// @Tags Attendance
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param classId path int true "Class ID"
// @Param payload body models.RecordAttendanceRequest false "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance_table/{classId} [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	classID, err := classIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	req, err := attendanceRequest(c)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	session, err := h.recorder.RecordSession(c.Request.Context(), classID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session, response.WithRedirect(fmt.Sprintf("/attendance_table/%d", classID)))
}

func attendanceRequest(c *gin.Context) (models.RecordAttendanceRequest, error) {
	var req models.RecordAttendanceRequest
	if c.ContentType() == gin.MIMEJSON {
		err := c.ShouldBindJSON(&req)
		return req, err
	}

	if err := c.Request.ParseForm(); err != nil {
		return req, err
	}
	form := c.Request.PostForm
	req.Mode = form.Get("mode")
	req.ManualDate = form.Get("manual_date")
	req.ManualTime = form.Get("manual_time")
	req.Statuses = make(map[int64]string)
	for key := range form {
		if !strings.HasPrefix(key, statusFieldPrefix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(key, statusFieldPrefix), 10, 64)
		if err != nil {
			continue
		}
		req.Statuses[id] = form.Get(key)
	}
	return req, nil
}
