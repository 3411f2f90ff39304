package models

import "strings"

// AttendanceStatus is the per-session mark of a student.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "P"
	StatusAbsent  AttendanceStatus = "A"
)

// ParseAttendanceStatus normalises raw input; ok is false for unknown values.
func ParseAttendanceStatus(raw string) (AttendanceStatus, bool) {
	switch AttendanceStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPresent:
		return StatusPresent, true
	case StatusAbsent:
		return StatusAbsent, true
	default:
		return "", false
	}
}

// SessionTimestampLayout is the stored format of AttendanceRecord.Date.
const SessionTimestampLayout = "2006-01-02 15:04:05"

// Session input modes.
const (
	SessionModeAuto   = "auto"
	SessionModeManual = "manual"
)

// AttendanceRecord is one student's status in one session. Date is the full
// session timestamp, not just the calendar day.
type AttendanceRecord struct {
	ID        int64            `db:"id" json:"id"`
	ClassID   int64            `db:"class_id" json:"class_id"`
	StudentID int64            `db:"student_id" json:"student_id"`
	Date      string           `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
}

// Day returns the calendar-day portion of the session timestamp.
func (r AttendanceRecord) Day() string {
	return SessionDay(r.Date)
}

// SessionDay splits a session timestamp on its first space.
func SessionDay(timestamp string) string {
	if idx := strings.IndexByte(timestamp, ' '); idx >= 0 {
		return timestamp[:idx]
	}
	return timestamp
}

// RecordAttendanceRequest is the session form. Statuses is keyed by student id.
type RecordAttendanceRequest struct {
	Mode       string           `json:"mode"`
	ManualDate string           `json:"manual_date"`
	ManualTime string           `json:"manual_time"`
	Statuses   map[int64]string `json:"statuses"`
}

// SummaryAction selects the date filter of an attendance summary.
type SummaryAction string

const (
	SummaryAll    SummaryAction = "all"
	SummarySingle SummaryAction = "single"
	SummaryRange  SummaryAction = "range"
)

// SummaryFilter restricts summary rows by calendar day. Day values are
// YYYY-MM-DD strings compared lexically.
type SummaryFilter struct {
	Action     SummaryAction `form:"action" json:"action"`
	SingleDate string        `form:"single_date" json:"single_date"`
	StartDate  string        `form:"start_date" json:"start_date"`
	EndDate    string        `form:"end_date" json:"end_date"`
}

// SummaryRow is one joined student/attendance row feeding the summary.
type SummaryRow struct {
	StudentID int64            `db:"student_id"`
	RegNo     string           `db:"regno"`
	Name      string           `db:"name"`
	Status    AttendanceStatus `db:"status"`
	Date      string           `db:"date"`
}
