package models

import "sort"

// Student is enrolled in exactly one class section.
type Student struct {
	ID      int64  `db:"id" json:"id"`
	ClassID int64  `db:"class_id" json:"class_id"`
	RegNo   string `db:"regno" json:"regno"`
	Name    string `db:"name" json:"name"`
}

// StudentEntry is one row of the bulk enrollment form.
type StudentEntry struct {
	RegNo string `json:"regno"`
	Name  string `json:"name"`
}

// EnrollStudentsRequest is the JSON variant of the enrollment form.
type EnrollStudentsRequest struct {
	Students []StudentEntry `json:"students"`
}

// EnrollmentRows holds the submitted rows keyed by form index. Only indices
// the client actually sent are present.
type EnrollmentRows map[int]StudentEntry

// RowsFromList indexes rows by their position.
func RowsFromList(entries []StudentEntry) EnrollmentRows {
	rows := make(EnrollmentRows, len(entries))
	for i, entry := range entries {
		rows[i] = entry
	}
	return rows
}

// Below returns the rows with an index in [0, limit) in index order.
func (r EnrollmentRows) Below(limit int) []StudentEntry {
	indices := make([]int, 0, len(r))
	for idx := range r {
		if idx >= 0 && idx < limit {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	entries := make([]StudentEntry, 0, len(indices))
	for _, idx := range indices {
		entries = append(entries, r[idx])
	}
	return entries
}
