package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

func newReportServiceForTest(store *memoryStore) (*ReportService, *AttendanceService) {
	classes := NewClassService(fakeClassRepo{store: store}, nil, nil)
	reports := NewReportService(classes, fakeStudentRepo{store: store}, fakeAttendanceRepo{store: store}, nil, fixedClock("2024-03-05 08:15:42"))
	attendance := NewAttendanceService(classes, fakeStudentRepo{store: store}, fakeAttendanceRepo{store: store}, nil, nil, nil, nil)
	return reports, attendance
}

func record(t *testing.T, svc *AttendanceService, classID int64, ts string, statuses map[int64]string) {
	t.Helper()
	_, err := svc.Record(context.Background(), classID, ts, statuses)
	require.NoError(t, err)
}

func TestReportServiceSummarySingleDayCountsEverySession(t *testing.T) {
	store := newMemoryStore()
	classID, ids := store.seedClass(models.ClassSection{}, "Alice")
	reports, attendance := newReportServiceForTest(store)

	record(t, attendance, classID, "2024-01-10 09:00:00", map[int64]string{ids[0]: "P"})
	record(t, attendance, classID, "2024-01-10 14:00:00", map[int64]string{ids[0]: "A"})
	record(t, attendance, classID, "2024-01-11 09:00:00", map[int64]string{ids[0]: "P"})

	summary, err := reports.Summary(context.Background(), classID, models.SummaryFilter{Action: models.SummarySingle, SingleDate: "2024-01-10"})
	require.NoError(t, err)
	require.Len(t, summary.Students, 1)
	assert.Equal(t, 2, summary.Students[0].Total)
	assert.Equal(t, 1, summary.Students[0].Present)
	assert.Equal(t, 50.0, summary.Students[0].Percent)
}

func TestReportServiceSummaryRange(t *testing.T) {
	store := newMemoryStore()
	classID, ids := store.seedClass(models.ClassSection{}, "Alice", "Bob")
	reports, attendance := newReportServiceForTest(store)

	record(t, attendance, classID, "2024-01-10 09:00:00", map[int64]string{ids[0]: "P"})
	record(t, attendance, classID, "2024-01-12 09:00:00", map[int64]string{ids[0]: "P", ids[1]: "P"})
	record(t, attendance, classID, "2024-01-20 09:00:00", map[int64]string{ids[0]: "A"})

	summary, err := reports.Summary(context.Background(), classID, models.SummaryFilter{Action: models.SummaryRange, StartDate: "2024-01-10", EndDate: "2024-01-12"})
	require.NoError(t, err)
	require.Len(t, summary.Students, 2)
	assert.Equal(t, 2, summary.Students[0].Total)
	assert.Equal(t, 100.0, summary.Students[0].Percent)
	assert.Equal(t, 1, summary.Students[1].Present)
	assert.Equal(t, 2, summary.Students[1].Total)
}

func TestReportServiceSummaryReversedRangeIsEmpty(t *testing.T) {
	store := newMemoryStore()
	classID, ids := store.seedClass(models.ClassSection{}, "Alice")
	reports, attendance := newReportServiceForTest(store)
	record(t, attendance, classID, "2024-01-10 09:00:00", map[int64]string{ids[0]: "P"})

	summary, err := reports.Summary(context.Background(), classID, models.SummaryFilter{Action: models.SummaryRange, StartDate: "2024-01-31", EndDate: "2024-01-01"})
	require.NoError(t, err)
	assert.Empty(t, summary.Students)
}

func TestReportServiceSummaryOmitsStudentsWithoutRows(t *testing.T) {
	store := newMemoryStore()
	classID, ids := store.seedClass(models.ClassSection{}, "Alice")
	reports, attendance := newReportServiceForTest(store)
	record(t, attendance, classID, "2024-01-10 09:00:00", map[int64]string{ids[0]: "A"})
	store.students = append(store.students, models.Student{ID: 99, ClassID: classID, RegNo: "R9", Name: "Late"})

	summary, err := reports.Summary(context.Background(), classID, models.SummaryFilter{})
	require.NoError(t, err)
	assert.Equal(t, models.SummaryAll, summary.Filter.Action)
	require.Len(t, summary.Students, 1)
	assert.Equal(t, 0.0, summary.Students[0].Percent)
}

func TestReportServiceSummaryIncompleteFilter(t *testing.T) {
	store := newMemoryStore()
	classID, _ := store.seedClass(models.ClassSection{Subject: "Networks"})
	reports, _ := newReportServiceForTest(store)

	cases := []struct {
		filter  models.SummaryFilter
		message string
	}{
		{models.SummaryFilter{Action: models.SummarySingle}, MsgSelectDate},
		{models.SummaryFilter{Action: models.SummaryRange, StartDate: "2024-01-01"}, MsgSelectDateRange},
		{models.SummaryFilter{Action: models.SummaryRange, EndDate: "2024-01-01"}, MsgSelectDateRange},
	}
	for _, tc := range cases {
		summary, err := reports.Summary(context.Background(), classID, tc.filter)
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrValidation))
		require.NotNil(t, summary)
		assert.Equal(t, tc.message, summary.Message)
		assert.Equal(t, "Networks", summary.Class.Subject)
		assert.Empty(t, summary.Students)
	}
}

func TestReportServiceSummaryUnknownClass(t *testing.T) {
	reports, _ := newReportServiceForTest(newMemoryStore())

	_, err := reports.Summary(context.Background(), 5, models.SummaryFilter{})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestReportServiceHistory(t *testing.T) {
	store := newMemoryStore()
	classID, ids := store.seedClass(models.ClassSection{}, "Alice", "Bob")
	reports, attendance := newReportServiceForTest(store)

	record(t, attendance, classID, "2024-01-11 09:00:00", map[int64]string{ids[0]: "P", ids[1]: "P"})
	record(t, attendance, classID, "2024-01-10 09:00:00", map[int64]string{ids[0]: "P"})

	history, err := reports.History(context.Background(), classID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-10", "2024-01-11"}, history.Dates)
	assert.Equal(t, models.StatusAbsent, history.Records[ids[1]]["2024-01-10 09:00:00"])
	assert.Equal(t, 2, history.Stats[ids[0]].Present)
	assert.Equal(t, 100.0, history.Stats[ids[0]].Percent)
	assert.Equal(t, 50.0, history.Stats[ids[1]].Percent)
	assert.Equal(t, "2024-03-05", history.CurrentDate)
	assert.Equal(t, "08:15", history.CurrentTime)
}

func TestReportServiceHistoryDuplicateTimestampKeepsLastRow(t *testing.T) {
	store := newMemoryStore()
	classID, ids := store.seedClass(models.ClassSection{}, "Alice")
	reports, attendance := newReportServiceForTest(store)

	record(t, attendance, classID, "2024-01-10 09:00:00", map[int64]string{ids[0]: "P"})
	record(t, attendance, classID, "2024-01-10 09:00:00", map[int64]string{ids[0]: "A"})

	history, err := reports.History(context.Background(), classID)
	require.NoError(t, err)
	assert.Len(t, history.Records[ids[0]], 1)
	assert.Equal(t, models.StatusAbsent, history.Records[ids[0]]["2024-01-10 09:00:00"])
	assert.Equal(t, 0, history.Stats[ids[0]].Present)
}

func TestReportServiceHistoryEmptyClass(t *testing.T) {
	store := newMemoryStore()
	classID, ids := store.seedClass(models.ClassSection{}, "Alice")
	reports, _ := newReportServiceForTest(store)

	history, err := reports.History(context.Background(), classID)
	require.NoError(t, err)
	assert.Empty(t, history.Dates)
	assert.Equal(t, 0.0, history.Stats[ids[0]].Percent)
}

// Two sessions on one day with different statuses: the history counts one
// distinct day against two present-eligible timestamps while the summary
// counts both rows.
func TestHistoryAndSummaryGranularityDiffer(t *testing.T) {
	store := newMemoryStore()
	classID, ids := store.seedClass(models.ClassSection{}, "Alice")
	reports, attendance := newReportServiceForTest(store)

	record(t, attendance, classID, "2024-01-10 09:00:00", map[int64]string{ids[0]: "P"})
	record(t, attendance, classID, "2024-01-10 14:00:00", map[int64]string{ids[0]: "A"})

	history, err := reports.History(context.Background(), classID)
	require.NoError(t, err)
	summary, err := reports.Summary(context.Background(), classID, models.SummaryFilter{Action: models.SummaryAll})
	require.NoError(t, err)
	require.Len(t, summary.Students, 1)

	stat := history.Stats[ids[0]]
	assert.Equal(t, 1, stat.Present)
	assert.Equal(t, 1, stat.Total)
	assert.Equal(t, 100.0, stat.Percent)

	assert.Equal(t, 1, summary.Students[0].Present)
	assert.Equal(t, 2, summary.Students[0].Total)
	assert.Equal(t, 50.0, summary.Students[0].Percent)

	assert.NotEqual(t, stat.Percent, summary.Students[0].Percent)
}

func TestPercentageRounding(t *testing.T) {
	assert.Equal(t, 33.33, percentage(1, 3))
	assert.Equal(t, 66.67, percentage(2, 3))
	assert.Equal(t, 0.0, percentage(0, 0))
}
