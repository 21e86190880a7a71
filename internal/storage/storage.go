// Package storage defines the Storage interface — the contract that every
// record store backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// The query layer and the HTTP handlers should not know or care where the
// records live. Today there are two backends:
//
//   - memory — the default; the collection lives for the lifetime of the
//     process and is discarded on restart.
//   - sqlite — the same contract kept in a single SQLite file.
//
// Tests construct a fresh store per test instead of resetting shared state.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/students-dashboard/internal/types"
)

// ErrDuplicateID is returned by Import when a record's id is already taken.
var ErrDuplicateID = errors.New("duplicate student id")

// Storage is the record store contract.
//
// Records are kept newest first. There is deliberately no update or delete:
// a record, once created, lives until the collection is discarded.
type Storage interface {
	// CreateStudent validates the input, assigns a fresh id, a sequential
	// roll number and the active status, and prepends the new record.
	// Invalid input is rejected with an error wrapping validation.ErrInvalid.
	CreateStudent(ctx context.Context, in types.NewStudent) (types.Student, error)

	// GetStudents returns a snapshot copy of the whole collection, newest
	// first. Returns an empty slice (not nil) if there are no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// GetStudentByID looks a student up by id. A missing id is a normal
	// outcome reported through found=false, never through err.
	GetStudentByID(ctx context.Context, id string) (student types.Student, found bool, err error)
}

// Importer is implemented by stores that can load fully formed records,
// e.g. the generated seed data, which may include inactive students.
// Imported records are placed after (older than) the existing ones, in the
// order given.
type Importer interface {
	Import(ctx context.Context, students []types.Student) error
}

// RollNumber derives the roll number of the next student from the current
// collection size: "CSE" followed by 7000+size+1, at least four digits.
//
//	RollNumber(0)  → "CSE7001"
//	RollNumber(20) → "CSE7021"
func RollNumber(size int) string {
	return fmt.Sprintf("CSE%04d", 7000+size+1)
}
