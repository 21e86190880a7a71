package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-dashboard/internal/config"
	"github.com/aanand-mishra/students-dashboard/internal/storage/memory"
	"github.com/aanand-mishra/students-dashboard/internal/types"
	"github.com/aanand-mishra/students-dashboard/internal/validation"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, latency config.Latency, seed ...types.Student) *Service {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Import(context.Background(), seed))
	return NewService(store, latency, discardLogger())
}

func validInput(name string) types.NewStudent {
	return types.NewStudent{
		Name:           name,
		Email:          "new@example.com",
		CGPA:           8,
		Course:         types.CourseDSA,
		Semester:       1,
		EnrollmentDate: "2024-07-01",
		PhoneNumber:    "+919999999999",
	}
}

func TestService_ExampleScenario(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, config.Latency{},
		student("s7001", "Aarav Sharma", types.CourseCN, types.StatusActive, 8.5),
		student("s7002", "Priya Singh", types.CourseWD, types.StatusInactive, 9.2),
	)

	active, err := svc.FilterByStatus(ctx, types.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Aarav Sharma", active[0].Name)

	found, err := svc.Search(ctx, "sharma")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "s7001", found[0].ID)

	byCourse, err := svc.FilterByCourse(ctx, types.CourseWD)
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, "Priya Singh", byCourse[0].Name)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.InactiveStudents)
	assert.Equal(t, 2, stats.TotalStudents)
}

func TestService_CreateIsVisibleToNextQuery(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, config.Latency{}, collection(5)...)

	created, err := svc.Create(ctx, validInput("Vikram Joshi"))
	require.NoError(t, err)
	assert.Equal(t, "CSE7006", created.RollNumber)

	page, err := svc.List(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, page.Total)
	require.Len(t, page.Students, 3)
	assert.Equal(t, created.ID, page.Students[0].ID)

	got, found, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, created, got)
}

func TestService_CreateRejectsInvalid(t *testing.T) {
	svc := newService(t, config.Latency{})
	in := validInput("")

	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, validation.ErrInvalid)
}

func TestService_GetMissing(t *testing.T) {
	svc := newService(t, config.Latency{})

	_, found, err := svc.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestService_AppliesLatency(t *testing.T) {
	const delay = 30 * time.Millisecond
	svc := newService(t, config.Latency{List: delay}, collection(2)...)

	start := time.Now()
	_, err := svc.List(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), delay)
}

func TestService_LatencyHonoursCancellation(t *testing.T) {
	svc := newService(t, config.Latency{Query: time.Hour, Create: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.Statistics(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	_, err = svc.Create(ctx, validInput("Too Late"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The canceled creation must not have reached the store.
	fast := NewService(svc.store, config.Latency{}, discardLogger())
	all, err := fast.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
}
