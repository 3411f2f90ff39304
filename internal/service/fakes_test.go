package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/noah-isme/attendance-tracker/internal/models"
	"github.com/noah-isme/attendance-tracker/internal/repository"
)

// memoryStore backs every fake repository so services can be exercised
// together the way they share one database.
type memoryStore struct {
	mu         sync.Mutex
	users      []models.User
	classes    []models.ClassSection
	students   []models.Student
	attendance []models.AttendanceRecord
	failWith   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

type fakeUserRepo struct{ store *memoryStore }

func (r fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	user.ID = int64(len(s.users) + 1)
	s.users = append(s.users, *user)
	return nil
}

func (r fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeClassRepo struct{ store *memoryStore }

func (r fakeClassRepo) List(ctx context.Context) ([]models.ClassSection, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	return append([]models.ClassSection{}, s.classes...), nil
}

func (r fakeClassRepo) FindByID(ctx context.Context, id int64) (*models.ClassSection, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, class := range s.classes {
		if class.ID == id {
			c := class
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r fakeClassRepo) Create(ctx context.Context, class *models.ClassSection) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	class.ID = int64(len(s.classes) + 1)
	s.classes = append(s.classes, *class)
	return nil
}

type fakeStudentRepo struct{ store *memoryStore }

func (r fakeStudentRepo) ListByClass(ctx context.Context, classID int64) ([]models.Student, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []models.Student{}
	for _, student := range s.students {
		if student.ClassID == classID {
			result = append(result, student)
		}
	}
	return result, nil
}

func (r fakeStudentRepo) BulkCreate(ctx context.Context, students []models.Student) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	for _, student := range students {
		student.ID = int64(len(s.students) + 1)
		s.students = append(s.students, student)
	}
	return nil
}

type fakeAttendanceRepo struct{ store *memoryStore }

func (r fakeAttendanceRepo) BulkInsert(ctx context.Context, records []models.AttendanceRecord) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	for _, record := range records {
		record.ID = int64(len(s.attendance) + 1)
		s.attendance = append(s.attendance, record)
	}
	return nil
}

func (r fakeAttendanceRepo) ListByClass(ctx context.Context, classID int64) ([]models.AttendanceRecord, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []models.AttendanceRecord{}
	for _, record := range s.attendance {
		if record.ClassID == classID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r fakeAttendanceRepo) SummaryRows(ctx context.Context, classID int64, filter models.SummaryFilter) ([]models.SummaryRow, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := []models.SummaryRow{}
	for _, student := range s.students {
		if student.ClassID != classID {
			continue
		}
		for _, record := range s.attendance {
			if record.StudentID != student.ID {
				continue
			}
			day := record.Day()
			switch filter.Action {
			case models.SummarySingle:
				if day != filter.SingleDate {
					continue
				}
			case models.SummaryRange:
				if day < filter.StartDate || day > filter.EndDate {
					continue
				}
			}
			rows = append(rows, models.SummaryRow{StudentID: student.ID, RegNo: student.RegNo, Name: student.Name, Status: record.Status, Date: record.Date})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].StudentID < rows[j].StudentID })
	return rows, nil
}

// seedClass stores a class with the given students and returns their ids.
func (s *memoryStore) seedClass(class models.ClassSection, names ...string) (int64, []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	class.ID = int64(len(s.classes) + 1)
	s.classes = append(s.classes, class)
	ids := make([]int64, 0, len(names))
	for i, name := range names {
		id := int64(len(s.students) + 1)
		s.students = append(s.students, models.Student{ID: id, ClassID: class.ID, RegNo: "R" + string(rune('1'+i)), Name: name})
		ids = append(ids, id)
	}
	return class.ID, ids
}
