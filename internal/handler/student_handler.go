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

type studentService interface {
	Form(ctx context.Context, classID int64) (*dto.EnrollmentForm, error)
	Enroll(ctx context.Context, classID int64, rows models.EnrollmentRows) (*dto.EnrollmentResult, error)
	List(ctx context.Context, classID int64) ([]models.Student, error)
}

// StudentHandler serves bulk enrollment.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(svc studentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// EntryForm godoc
// @Summary Enrollment form
// @Description Class details and the number of row slots to fill
// @Tags Students
// @Produce json
// @Param classId path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student_entry/{classId} [get]
func (h *StudentHandler) EntryForm(c *gin.Context) {
	classID, err := classIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	form, err := h.service.Form(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form)
}

// Enroll godoc
// @Summary Enroll students
// @Description Bulk enrollment from regno{i}/name{i} form fields or a JSON students list
// @Tags Students
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param classId path int true "Class ID"
// @Param payload body models.EnrollStudentsRequest false "Students"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student_entry/{classId} [post]
func (h *StudentHandler) Enroll(c *gin.Context) {
	classID, err := classIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	rows, err := enrollmentRows(c)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}

	res, err := h.service.Enroll(c.Request.Context(), classID, rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	redirect := "/login"
	if identity := identityName(c, ""); identity != "" {
		redirect = fmt.Sprintf("/dashboard/%s", identity)
	}
	response.Created(c, res, response.WithRedirect(redirect))
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param classId path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{classId}/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	classID, err := classIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.service.List(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// enrollmentRows keeps only the regno{i}/name{i} indices present in the form.
func enrollmentRows(c *gin.Context) (models.EnrollmentRows, error) {
	if c.ContentType() == gin.MIMEJSON {
		var req models.EnrollStudentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return models.RowsFromList(req.Students), nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	rows := models.EnrollmentRows{}
	for key, values := range c.Request.PostForm {
		if len(values) == 0 {
			continue
		}
		if raw, ok := strings.CutPrefix(key, "regno"); ok {
			if idx, err := strconv.Atoi(raw); err == nil && idx >= 0 {
				entry := rows[idx]
				entry.RegNo = values[0]
				rows[idx] = entry
			}
			continue
		}
		if raw, ok := strings.CutPrefix(key, "name"); ok {
			if idx, err := strconv.Atoi(raw); err == nil && idx >= 0 {
				entry := rows[idx]
				entry.Name = values[0]
				rows[idx] = entry
			}
		}
	}
	return rows, nil
}
