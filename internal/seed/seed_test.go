package seed

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-dashboard/internal/storage/memory"
	"github.com/aanand-mishra/students-dashboard/internal/validation"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func rng() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestGenerate(t *testing.T) {
	students := Generate(20, rng(), now)
	require.Len(t, students, 20)

	assert.Equal(t, "student-1", students[0].ID)
	assert.Equal(t, "CSE7001", students[0].RollNumber)
	assert.Equal(t, "student-20", students[19].ID)
	assert.Equal(t, "CSE7020", students[19].RollNumber)

	for _, st := range students {
		require.NoError(t, validation.Struct(st), "generated record %s must be valid", st.ID)
		assert.GreaterOrEqual(t, st.CGPA, 7.0)
		assert.LessOrEqual(t, st.CGPA, 10.0)

		enrolled, err := time.Parse(time.DateOnly, st.EnrollmentDate)
		require.NoError(t, err)
		assert.False(t, enrolled.After(now))
		assert.True(t, enrolled.After(now.Add(-enrollmentWindow-24*time.Hour)))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	assert.Equal(t, Generate(10, rng(), now), Generate(10, rng(), now))
}

func TestPopulate_OnlyIntoEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	n, err := Populate(ctx, store, 20, rng(), now)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	n, err = Populate(ctx, store, 20, rng(), now)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := store.GetStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestPopulate_Zero(t *testing.T) {
	n, err := Populate(context.Background(), memory.New(), 0, rng(), now)
	require.NoError(t, err)
	assert.Zero(t, n)
}
