package dto

import "github.com/noah-isme/attendance-tracker/internal/models"

// StudentStat is the per-student attendance ratio shown next to the history grid.
type StudentStat struct {
	Present int     `json:"present"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// AttendanceHistory is the attendance_table view of a class. Records maps a
// student id to its session timestamps and their statuses; Dates holds the
// distinct calendar days across the whole class.
type AttendanceHistory struct {
	Class       models.ClassSection                          `json:"class"`
	Students    []models.Student                             `json:"students"`
	Dates       []string                                     `json:"dates"`
	Records     map[int64]map[string]models.AttendanceStatus `json:"records"`
	Stats       map[int64]StudentStat                        `json:"stats"`
	CurrentDate string                                       `json:"current_date,omitempty"`
	CurrentTime string                                       `json:"current_time,omitempty"`
}

// RecordedSession describes the rows persisted by one attendance submission.
type RecordedSession struct {
	ClassID   int64                     `json:"class_id"`
	Timestamp string                    `json:"timestamp"`
	Present   int                       `json:"present"`
	Absent    int                       `json:"absent"`
	Records   []models.AttendanceRecord `json:"records"`
}

// SummaryStudent is one line of the filtered attendance summary.
type SummaryStudent struct {
	StudentID int64   `json:"student_id"`
	RegNo     string  `json:"regno"`
	Name      string  `json:"name"`
	Present   int     `json:"present"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// AttendanceSummary is the attendance_calculation view. Message carries a
// user-facing validation message when the filter was incomplete.
type AttendanceSummary struct {
	Class    models.ClassSection  `json:"class"`
	Filter   models.SummaryFilter `json:"filter"`
	Students []SummaryStudent     `json:"students"`
	Message  string               `json:"message,omitempty"`
}

// EnrollmentForm describes the student_entry page of a class.
type EnrollmentForm struct {
	Class models.ClassSection `json:"class"`
	Slots int                 `json:"slots"`
}

// EnrollmentResult reports how many rows were stored.
type EnrollmentResult struct {
	ClassID  int64 `json:"class_id"`
	Inserted int   `json:"inserted"`
}

// Dashboard lists every class for the signed-in identity.
type Dashboard struct {
	Identity string                `json:"identity"`
	Classes  []models.ClassSection `json:"classes"`
}
