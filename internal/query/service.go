package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aanand-mishra/students-dashboard/internal/config"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/types"
)

// Service is what the HTTP layer talks to. Each method takes a fresh
// snapshot from the store, applies one of the pure functions to it, and
// returns after the configured latency for its operation class.
type Service struct {
	store   storage.Storage
	latency config.Latency
	log     *slog.Logger
}

// NewService wires a Service to store. A zero latency disables the delay.
func NewService(store storage.Storage, latency config.Latency, log *slog.Logger) *Service {
	return &Service{store: store, latency: latency, log: log}
}

// List returns one page of the collection.
func (s *Service) List(ctx context.Context, page, pageSize int) (types.Page, error) {
	students, err := s.snapshot(ctx, s.latency.List)
	if err != nil {
		return types.Page{}, fmt.Errorf("List: %w", err)
	}
	result := Paginate(students, page, pageSize)
	s.log.Debug("listed students",
		slog.Int("page", page),
		slog.Int("page_size", pageSize),
		slog.Int("returned", len(result.Students)),
		slog.Int("total", result.Total))
	return result, nil
}

// Search returns every student matching text (unpaged).
func (s *Service) Search(ctx context.Context, text string) ([]types.Student, error) {
	students, err := s.snapshot(ctx, s.latency.Query)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	matches := Search(students, text)
	s.log.Debug("searched students",
		slog.String("text", text),
		slog.Int("matches", len(matches)))
	return matches, nil
}

// FilterByCourse returns every student enrolled in course (unpaged).
func (s *Service) FilterByCourse(ctx context.Context, course types.Course) ([]types.Student, error) {
	students, err := s.snapshot(ctx, s.latency.Query)
	if err != nil {
		return nil, fmt.Errorf("FilterByCourse: %w", err)
	}
	return FilterByCourse(students, course), nil
}

// FilterByStatus returns every student with status (unpaged).
func (s *Service) FilterByStatus(ctx context.Context, status types.Status) ([]types.Student, error) {
	students, err := s.snapshot(ctx, s.latency.Query)
	if err != nil {
		return nil, fmt.Errorf("FilterByStatus: %w", err)
	}
	return FilterByStatus(students, status), nil
}

// Statistics aggregates the whole collection.
func (s *Service) Statistics(ctx context.Context) (types.Statistics, error) {
	students, err := s.snapshot(ctx, s.latency.Query)
	if err != nil {
		return types.Statistics{}, fmt.Errorf("Statistics: %w", err)
	}
	return Aggregate(students), nil
}

// Get looks up one student. found=false means there is no such id.
func (s *Service) Get(ctx context.Context, id string) (types.Student, bool, error) {
	if err := sleep(ctx, s.latency.Get); err != nil {
		return types.Student{}, false, fmt.Errorf("Get: %w", err)
	}
	st, found, err := s.store.GetStudentByID(ctx, id)
	if err != nil {
		return types.Student{}, false, fmt.Errorf("Get: %w", err)
	}
	return st, found, nil
}

// Create stores a new student. The returned record, as stored, is the only
// confirmation callers should act on.
func (s *Service) Create(ctx context.Context, in types.NewStudent) (types.Student, error) {
	if err := sleep(ctx, s.latency.Create); err != nil {
		return types.Student{}, fmt.Errorf("Create: %w", err)
	}
	st, err := s.store.CreateStudent(ctx, in)
	if err != nil {
		return types.Student{}, fmt.Errorf("Create: %w", err)
	}
	s.log.Info("student created",
		slog.String("id", st.ID),
		slog.String("roll_number", st.RollNumber))
	return st, nil
}

func (s *Service) snapshot(ctx context.Context, delay time.Duration) ([]types.Student, error) {
	if err := sleep(ctx, delay); err != nil {
		return nil, err
	}
	return s.store.GetStudents(ctx)
}

// sleep waits for d, or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
