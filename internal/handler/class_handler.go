package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/attendance-tracker/internal/dto"
	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
	"github.com/noah-isme/attendance-tracker/pkg/response"
)

type classService interface {
	List(ctx context.Context) ([]models.ClassSection, error)
	Create(ctx context.Context, req models.CreateClassRequest) (*models.ClassSection, error)
}

// ClassHandler serves dashboard and class creation endpoints.
type ClassHandler struct {
	service classService
}

// NewClassHandler constructs a ClassHandler.
func NewClassHandler(svc classService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// Dashboard godoc
// @Summary Dashboard
// @Description List every class section
// @Tags Classes
// @Produce json
// @Param identity path string true "Username"
// @Success 200 {object} response.Envelope
// @Router /dashboard/{identity} [get]
func (h *ClassHandler) Dashboard(c *gin.Context) {
	h.listClasses(c)
}

// TakeAttendance godoc
// @Summary Attendance class selection
// @Description List class sections to pick one for attendance
// @Tags Attendance
// @Produce json
// @Param identity path string false "Username"
// @Success 200 {object} response.Envelope
// @Router /take_attendance/{identity} [get]
func (h *ClassHandler) TakeAttendance(c *gin.Context) {
	h.listClasses(c)
}

func (h *ClassHandler) listClasses(c *gin.Context) {
	classes, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.Dashboard{Identity: identityName(c, ""), Classes: classes})
}

// CreateForm godoc
// @Summary Class creation form
// @Tags Classes
// @Produce json
// @Param identity path string true "Username"
// @Success 200 {object} response.Envelope
// @Router /create_class/{identity} [get]
func (h *ClassHandler) CreateForm(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"identity": identityName(c, ""),
		"fields":   []string{"department", "year", "subject", "num_students"},
	})
}

// Create godoc
// @Summary Create class
// @Description Create a class section; num_students falls back to total_students
// @Tags Classes
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param identity path string false "Username"
// @Param payload body models.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /create_class/{identity} [post]
// @Router /save_class/{identity} [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req models.CreateClassRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}

	class, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	redirect := "/login"
	if identity := identityName(c, req.Username); identity != "" {
		redirect = fmt.Sprintf("/dashboard/%s", identity)
	}
	response.Created(c, class, response.WithRedirect(redirect))
}
