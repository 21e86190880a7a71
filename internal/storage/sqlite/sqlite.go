// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// The default store keeps everything in memory and forgets it on restart.
// Setting storage_path in the config switches to this backend instead:
// same contract, same ordering, but the collection survives restarts.
// SQLite stores everything in a single file on disk — no separate server.
//
// ORDERING
// ────────
// The collection is newest first, yet seed imports land *behind* existing
// records. Neither an autoincrement id nor a timestamp can express both, so
// every row carries an explicit position:
//
//	created student   → position = MIN(position) - 1   (goes to the front)
//	imported students → position = MAX(position) + 1…  (go to the back)
//
// and every read is ORDER BY position.
//
// Importing go-sqlite3 also registers the "sqlite3" driver with
// database/sql; its error type is used to recognise duplicate ids.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/students-dashboard/internal/config"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/types"
	"github.com/aanand-mishra/students-dashboard/internal/validation"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
//
// writeMu serialises writers. A roll number is derived from the row count,
// so count+insert must not interleave with another creation.
type SQLite struct {
	Db      *sql.DB
	writeMu sync.Mutex
}

var (
	_ storage.Storage  = (*SQLite)(nil)
	_ storage.Importer = (*SQLite)(nil)
)

const columns = `id, name, email, roll_number, cgpa, course, semester,
	enrollment_date, phone_number, status`

// New opens the SQLite database at cfg.StoragePath, creates the students
// table if it does not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	// _busy_timeout makes a connection wait for a lock instead of failing
	// immediately with "database is locked".
	db, err := sql.Open("sqlite3", cfg.StoragePath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup. If the table already exists nothing happens.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id              TEXT    PRIMARY KEY,
			position        INTEGER NOT NULL,
			name            TEXT    NOT NULL,
			email           TEXT    NOT NULL,
			roll_number     TEXT    NOT NULL,
			cgpa            REAL    NOT NULL,
			course          TEXT    NOT NULL,
			semester        INTEGER NOT NULL,
			enrollment_date TEXT    NOT NULL,
			phone_number    TEXT    NOT NULL,
			status          TEXT    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS students_position ON students (position);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateStudent validates the input and inserts it at the front of the
// collection.
//
// The row count (for the roll number) and the smallest position are read
// inside the same transaction as the INSERT, and writeMu keeps other
// writers out, so two concurrent creations can never get the same roll
// number.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) CreateStudent(ctx context.Context, in types.NewStudent) (types.Student, error) {
	if err := validation.Struct(in); err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op, so deferring it is
	// safe and covers every early return below.
	defer tx.Rollback()

	var size int
	var front int64
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(MIN(position), 0) FROM students",
	).Scan(&size, &front)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: count: %w", err)
	}

	student := types.Student{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          in.Email,
		RollNumber:     storage.RollNumber(size),
		CGPA:           in.CGPA,
		Course:         in.Course,
		Semester:       in.Semester,
		EnrollmentDate: in.EnrollmentDate,
		PhoneNumber:    in.PhoneNumber,
		Status:         types.StatusActive,
	}

	if err := insert(ctx, tx, front-1, student); err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: commit: %w", err)
	}
	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudents returns all student rows as a slice, newest first.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	rows, err := s.Db.QueryContext(ctx,
		"SELECT "+columns+" FROM students ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close() // must close rows to free the DB connection

	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)

	for rows.Next() {
		student, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	// rows.Err() captures any error that occurred during iteration.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudentByID fetches exactly one student row matched by id.
//
// sql.ErrNoRows is the sentinel for "nothing matched". It is translated to
// found=false: a missing student is an expected outcome, not a failure.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetStudentByID(ctx context.Context, id string) (types.Student, bool, error) {
	row := s.Db.QueryRowContext(ctx,
		"SELECT "+columns+" FROM students WHERE id = ? LIMIT 1", id,
	)

	student, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, false, nil
	}
	if err != nil {
		return types.Student{}, false, fmt.Errorf("GetStudentByID: scan: %w", err)
	}
	return student, true, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Import inserts fully formed records behind the existing ones, in order.
//
// Everything happens in one transaction: an invalid record or a duplicate
// id (the PRIMARY KEY constraint fires) rolls the whole batch back.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Import(ctx context.Context, students []types.Student) error {
	for _, st := range students {
		if err := validation.Struct(st); err != nil {
			return fmt.Errorf("Import: student %q: %w", st.ID, err)
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Import: begin: %w", err)
	}
	defer tx.Rollback()

	var back int64
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), -1) FROM students",
	).Scan(&back)
	if err != nil {
		return fmt.Errorf("Import: max position: %w", err)
	}

	for i, st := range students {
		if err := insert(ctx, tx, back+1+int64(i), st); err != nil {
			// Every column is supplied, so the only constraint an INSERT
			// can break is the id PRIMARY KEY.
			var sqliteErr sqlite3.Error
			if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
				return fmt.Errorf("Import: %w: %s", storage.ErrDuplicateID, st.ID)
			}
			return fmt.Errorf("Import: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Import: commit: %w", err)
	}
	return nil
}

// insert writes one row. Prepared placeholders (?) keep user input as pure
// data, never SQL syntax. The argument order must match the column order.
func insert(ctx context.Context, tx *sql.Tx, position int64, st types.Student) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO students (position, `+columns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		position,
		st.ID,
		st.Name,
		st.Email,
		st.RollNumber,
		st.CGPA,
		string(st.Course),
		st.Semester,
		st.EnrollmentDate,
		st.PhoneNumber,
		string(st.Status),
	)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scan reads the columns listed in `columns` IN ORDER.
func scan(sc scanner) (types.Student, error) {
	var st types.Student
	var course, status string
	err := sc.Scan(
		&st.ID,
		&st.Name,
		&st.Email,
		&st.RollNumber,
		&st.CGPA,
		&course,
		&st.Semester,
		&st.EnrollmentDate,
		&st.PhoneNumber,
		&status,
	)
	if err != nil {
		return types.Student{}, err
	}
	st.Course = types.Course(course)
	st.Status = types.Status(status)
	return st, nil
}
