package models

import (
	"bytes"
	"encoding/json"
)

// ClassSection groups students of one department, year and subject.
// NumStudents is the declared capacity and may disagree with enrollment.
type ClassSection struct {
	ID          int64  `db:"id" json:"id"`
	Department  string `db:"department" json:"department"`
	Year        string `db:"year" json:"year"`
	Subject     string `db:"subject" json:"subject"`
	NumStudents int    `db:"num_students" json:"num_students"`
}

// StudentCount keeps the declared student count as raw text so unparseable
// values can fall back to zero. JSON numbers and strings are both accepted.
type StudentCount string

// UnmarshalJSON accepts any JSON scalar and keeps its text.
func (c *StudentCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = StudentCount(text)
		return nil
	}
	*c = StudentCount(data)
	return nil
}

// CreateClassRequest captures the class creation form.
type CreateClassRequest struct {
	Department    string       `form:"department" json:"department"`
	Year          string       `form:"year" json:"year"`
	Subject       string       `form:"subject" json:"subject"`
	NumStudents   StudentCount `form:"num_students" json:"num_students"`
	TotalStudents StudentCount `form:"total_students" json:"total_students"`
	Username      string       `form:"username" json:"username"`
}
