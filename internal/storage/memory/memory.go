// Package memory provides the default, in-process implementation of the
// storage.Storage interface.
//
// The collection is a plain slice kept newest first, guarded by a
// sync.RWMutex:
//
//   - CreateStudent takes the write lock, so a reader never observes a
//     half-applied creation.
//   - Reads take the read lock and return copies, so callers can never
//     mutate the canonical collection through a returned slice.
//
// Nothing is persisted. A Store lives exactly as long as the process (or
// the test) that constructed it.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/types"
	"github.com/aanand-mishra/students-dashboard/internal/validation"
)

// Store is the in-memory record store.
type Store struct {
	mu       sync.RWMutex
	students []types.Student     // newest first
	ids      map[string]struct{} // every id in students
	newID    func() string
}

// Compile-time checks: the build fails if Store stops satisfying either
// contract.
var (
	_ storage.Storage  = (*Store)(nil)
	_ storage.Importer = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		students: make([]types.Student, 0),
		ids:      make(map[string]struct{}),
		newID:    uuid.NewString,
	}
}

// CreateStudent validates in, then prepends a new active student.
func (s *Store) CreateStudent(ctx context.Context, in types.NewStudent) (types.Student, error) {
	if err := ctx.Err(); err != nil {
		return types.Student{}, err
	}
	if err := validation.Struct(in); err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for {
		if _, taken := s.ids[id]; !taken {
			break
		}
		id = s.newID()
	}

	student := types.Student{
		ID:             id,
		Name:           in.Name,
		Email:          in.Email,
		RollNumber:     storage.RollNumber(len(s.students)),
		CGPA:           in.CGPA,
		Course:         in.Course,
		Semester:       in.Semester,
		EnrollmentDate: in.EnrollmentDate,
		PhoneNumber:    in.PhoneNumber,
		Status:         types.StatusActive,
	}

	s.students = slices.Insert(s.students, 0, student)
	s.ids[id] = struct{}{}
	return student, nil
}

// GetStudents returns a copy of the collection, newest first.
func (s *Store) GetStudents(ctx context.Context) ([]types.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Student, len(s.students))
	copy(out, s.students)
	return out, nil
}

// GetStudentByID scans the collection for id.
func (s *Store) GetStudentByID(ctx context.Context, id string) (types.Student, bool, error) {
	if err := ctx.Err(); err != nil {
		return types.Student{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.students {
		if st.ID == id {
			return st, true, nil
		}
	}
	return types.Student{}, false, nil
}

// Import appends fully formed records behind the existing ones. The batch
// is all-or-nothing: one invalid record or duplicate id rejects it whole.
func (s *Store) Import(ctx context.Context, students []types.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(students))
	for _, st := range students {
		if err := validation.Struct(st); err != nil {
			return fmt.Errorf("Import: student %q: %w", st.ID, err)
		}
		if _, dup := seen[st.ID]; dup {
			return fmt.Errorf("Import: %w: %s", storage.ErrDuplicateID, st.ID)
		}
		seen[st.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range students {
		if _, taken := s.ids[st.ID]; taken {
			return fmt.Errorf("Import: %w: %s", storage.ErrDuplicateID, st.ID)
		}
	}
	for _, st := range students {
		s.ids[st.ID] = struct{}{}
	}
	s.students = append(s.students, students...)
	return nil
}
