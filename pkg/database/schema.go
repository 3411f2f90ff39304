package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS classes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		department TEXT NOT NULL DEFAULT '',
		year TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL DEFAULT '',
		num_students INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		class_id INTEGER NOT NULL REFERENCES classes(id),
		regno TEXT NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		class_id INTEGER NOT NULL REFERENCES classes(id),
		student_id INTEGER NOT NULL REFERENCES students(id),
		date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'A'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_class ON students(class_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_class ON attendance(class_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS classes (
		id BIGSERIAL PRIMARY KEY,
		department TEXT NOT NULL DEFAULT '',
		year TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL DEFAULT '',
		num_students INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id BIGSERIAL PRIMARY KEY,
		class_id BIGINT NOT NULL REFERENCES classes(id),
		regno TEXT NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id BIGSERIAL PRIMARY KEY,
		class_id BIGINT NOT NULL REFERENCES classes(id),
		student_id BIGINT NOT NULL REFERENCES students(id),
		date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'A'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_class ON students(class_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_class ON attendance(class_id)`,
}

// Migrate creates the users, classes, students and attendance tables when
// they do not exist yet. There is no versioning; statements are idempotent.
func Migrate(db *sqlx.DB) error {
	statements := sqliteSchema
	if db.DriverName() == "postgres" {
		statements = postgresSchema
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
