package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-tracker/internal/dto"
	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

type studentServiceMock struct {
	rows models.EnrollmentRows
	err  error
}

func (m *studentServiceMock) Form(ctx context.Context, classID int64) (*dto.EnrollmentForm, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.EnrollmentForm{Class: models.ClassSection{ID: classID, NumStudents: 3}, Slots: 3}, nil
}

func (m *studentServiceMock) Enroll(ctx context.Context, classID int64, rows models.EnrollmentRows) (*dto.EnrollmentResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.rows = rows
	return &dto.EnrollmentResult{ClassID: classID, Inserted: len(rows)}, nil
}

func (m *studentServiceMock) List(ctx context.Context, classID int64) ([]models.Student, error) {
	return []models.Student{{ID: 1, ClassID: classID}}, m.err
}

func TestStudentHandlerEnrollFromForm(t *testing.T) {
	svc := &studentServiceMock{}
	h := NewStudentHandler(svc)

	c, w := newFormContext(http.MethodPost, "/student_entry/1", url.Values{
		"regno0": {"R1"}, "name0": {"Alice"},
		"regno2": {"R3"}, "name2": {"Carol"},
	})
	c.Params = gin.Params{{Key: "classId", Value: "1"}}
	h.Enroll(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.EnrollmentRows{
		0: {RegNo: "R1", Name: "Alice"},
		2: {RegNo: "R3", Name: "Carol"},
	}, svc.rows)
}

func TestStudentHandlerEnrollIgnoresMissingIndices(t *testing.T) {
	svc := &studentServiceMock{}
	h := NewStudentHandler(svc)

	c, w := newFormContext(http.MethodPost, "/student_entry/1", url.Values{
		"regno0": {"R0"}, "name0": {"Alice"},
		"regno2000000000": {"R"},
		"regno-4":         {"R"},
		"nameless":        {"x"},
	})
	c.Params = gin.Params{{Key: "classId", Value: "1"}}
	h.Enroll(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.rows, 2)
	assert.Equal(t, models.StudentEntry{RegNo: "R0", Name: "Alice"}, svc.rows[0])
	assert.Equal(t, models.StudentEntry{RegNo: "R"}, svc.rows[2000000000])
}

func TestStudentHandlerEnrollFromJSON(t *testing.T) {
	svc := &studentServiceMock{}
	h := NewStudentHandler(svc)

	c, w := newGinContext(http.MethodPost, "/student_entry/1", []byte(`{"students":[{"regno":"R1","name":"Alice"}]}`))
	c.Params = gin.Params{{Key: "classId", Value: "1"}}
	h.Enroll(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.rows, 1)
	assert.Equal(t, "Alice", svc.rows[0].Name)
}

func TestStudentHandlerRejectsBadClassID(t *testing.T) {
	h := NewStudentHandler(&studentServiceMock{})

	c, w := newGinContext(http.MethodGet, "/student_entry/abc", nil)
	c.Params = gin.Params{{Key: "classId", Value: "abc"}}
	h.EntryForm(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudentHandlerEntryFormUnknownClass(t *testing.T) {
	h := NewStudentHandler(&studentServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "class not found")})

	c, w := newGinContext(http.MethodGet, "/student_entry/9", nil)
	c.Params = gin.Params{{Key: "classId", Value: "9"}}
	h.EntryForm(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, w).Error.Code)
}
