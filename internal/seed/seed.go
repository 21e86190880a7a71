// Package seed generates demo students so a fresh dashboard has something
// to show. Records look like the ones the dashboard was designed around:
// Indian names, CSE roll numbers, CGPA between 7 and 10 and roughly four
// in five students active.
package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/types"
)

var (
	firstNames = []string{"Aarav", "Aditi", "Priya", "Rohan", "Anjali", "Amit", "Sneha", "Vikram", "Deepika", "Suresh"}
	lastNames  = []string{"Sharma", "Verma", "Gupta", "Singh", "Khan", "Yadav", "Reddy", "Patel", "Joshi", "Chakraborty"}
)

// enrollmentWindow is how far back enrolment dates may go (four years).
const enrollmentWindow = 4 * 365 * 24 * time.Hour

// Store is a store that can be both read and bulk loaded.
type Store interface {
	storage.Storage
	storage.Importer
}

// Generate returns n students with ids student-1…student-n and roll
// numbers CSE7001 onwards. The same rng state and now always produce the
// same records.
func Generate(n int, rng *rand.Rand, now time.Time) []types.Student {
	students := make([]types.Student, 0, n)
	for i := 1; i <= n; i++ {
		status := types.StatusInactive
		if rng.Float64() > 0.2 {
			status = types.StatusActive
		}
		enrolled := now.Add(-time.Duration(rng.Int64N(int64(enrollmentWindow))))

		students = append(students, types.Student{
			ID:             fmt.Sprintf("student-%d", i),
			Name:           firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))],
			Email:          fmt.Sprintf("student%d@example.com", i),
			RollNumber:     storage.RollNumber(i - 1),
			CGPA:           math.Round((rng.Float64()*3+7)*100) / 100,
			Course:         types.Courses[rng.IntN(len(types.Courses))],
			Semester:       rng.IntN(8) + 1,
			EnrollmentDate: enrolled.Format(time.DateOnly),
			PhoneNumber:    fmt.Sprintf("+91%d", rng.IntN(9_000_000_000)+1_000_000_000),
			Status:         status,
		})
	}
	return students
}

// Populate imports n generated students, but only into an empty store:
// restarting against a SQLite file that already holds records must not
// add a second batch. It returns how many records were imported.
func Populate(ctx context.Context, store Store, n int, rng *rand.Rand, now time.Time) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	existing, err := store.GetStudents(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed.Populate: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	if err := store.Import(ctx, Generate(n, rng, now)); err != nil {
		return 0, fmt.Errorf("seed.Populate: %w", err)
	}
	return n, nil
}
