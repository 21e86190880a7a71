package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/types"
	"github.com/aanand-mishra/students-dashboard/internal/validation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newStudent(name string) types.NewStudent {
	return types.NewStudent{
		Name:           name,
		Email:          "student@example.com",
		CGPA:           8.25,
		Course:         types.CourseWD,
		Semester:       3,
		EnrollmentDate: "2023-08-01",
		PhoneNumber:    "+919876543210",
	}
}

func TestCreateStudent_PrependsWithSequentialRollNumbers(t *testing.T) {
	ctx := context.Background()
	s := New()

	var created []types.Student
	for _, name := range []string{"First", "Second", "Third"} {
		st, err := s.CreateStudent(ctx, newStudent(name))
		require.NoError(t, err)
		created = append(created, st)
	}

	assert.Equal(t, "CSE7001", created[0].RollNumber)
	assert.Equal(t, "CSE7002", created[1].RollNumber)
	assert.Equal(t, "CSE7003", created[2].RollNumber)

	all, err := s.GetStudents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Third", "Second", "First"},
		[]string{all[0].Name, all[1].Name, all[2].Name})
}

func TestCreateStudent_AssignsIDAndActiveStatus(t *testing.T) {
	s := New()

	st, err := s.CreateStudent(context.Background(), newStudent("Aarav Sharma"))
	require.NoError(t, err)

	assert.NotEmpty(t, st.ID)
	assert.Equal(t, types.StatusActive, st.Status)
	assert.Equal(t, "Aarav Sharma", st.Name)
	assert.Equal(t, types.CourseWD, st.Course)
}

func TestCreateStudent_RegeneratesCollidingID(t *testing.T) {
	s := New()
	ids := []string{"fixed", "fixed", "other"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	a, err := s.CreateStudent(context.Background(), newStudent("A"))
	require.NoError(t, err)
	b, err := s.CreateStudent(context.Background(), newStudent("B"))
	require.NoError(t, err)

	assert.Equal(t, "fixed", a.ID)
	assert.Equal(t, "other", b.ID)
}

func TestCreateStudent_RejectsInvalidInput(t *testing.T) {
	cases := map[string]func(*types.NewStudent){
		"blank name":       func(n *types.NewStudent) { n.Name = "   " },
		"bad email":        func(n *types.NewStudent) { n.Email = "not-an-email" },
		"cgpa too high":    func(n *types.NewStudent) { n.CGPA = 10.5 },
		"negative cgpa":    func(n *types.NewStudent) { n.CGPA = -1 },
		"unknown course":   func(n *types.NewStudent) { n.Course = "Basket Weaving" },
		"semester zero":    func(n *types.NewStudent) { n.Semester = 0 },
		"semester nine":    func(n *types.NewStudent) { n.Semester = 9 },
		"bad date":         func(n *types.NewStudent) { n.EnrollmentDate = "01/08/2023" },
		"short phone":      func(n *types.NewStudent) { n.PhoneNumber = "12345" },
		"letters in phone": func(n *types.NewStudent) { n.PhoneNumber = "+91abcdefghij" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := New()
			in := newStudent("Valid Name")
			mutate(&in)

			_, err := s.CreateStudent(context.Background(), in)
			require.Error(t, err)
			assert.ErrorIs(t, err, validation.ErrInvalid)

			all, err := s.GetStudents(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all, "rejected input must not be stored")
		})
	}
}

func TestCreateStudent_AcceptsFormattedPhone(t *testing.T) {
	in := newStudent("Priya Singh")
	in.PhoneNumber = "+91 98765-43210"

	st, err := New().CreateStudent(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "+91 98765-43210", st.PhoneNumber)
}

func TestGetStudents_ReturnsIndependentSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.CreateStudent(ctx, newStudent("Original"))
	require.NoError(t, err)

	first, err := s.GetStudents(ctx)
	require.NoError(t, err)
	second, err := s.GetStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	first[0].Name = "Tampered"
	third, err := s.GetStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Original", third[0].Name)
}

func TestGetStudents_EmptyIsNotNil(t *testing.T) {
	all, err := New().GetStudents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestGetStudentByID(t *testing.T) {
	ctx := context.Background()
	s := New()
	created, err := s.CreateStudent(ctx, newStudent("Rohan Gupta"))
	require.NoError(t, err)

	got, found, err := s.GetStudentByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, created, got)

	_, found, err = s.GetStudentByID(ctx, "missing")
	require.NoError(t, err, "a missing id is not an error")
	assert.False(t, found)
}

func TestImport_AppendsBehindExisting(t *testing.T) {
	ctx := context.Background()
	s := New()
	created, err := s.CreateStudent(ctx, newStudent("Newest"))
	require.NoError(t, err)

	seeded := []types.Student{
		fullStudent("student-1", "CSE7001", types.StatusActive),
		fullStudent("student-2", "CSE7002", types.StatusInactive),
	}
	require.NoError(t, s.Import(ctx, seeded))

	all, err := s.GetStudents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, created.ID, all[0].ID)
	assert.Equal(t, "student-1", all[1].ID)
	assert.Equal(t, types.StatusInactive, all[2].Status)

	next, err := s.CreateStudent(ctx, newStudent("After import"))
	require.NoError(t, err)
	assert.Equal(t, "CSE7004", next.RollNumber)
}

func TestImport_RejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.Import(ctx, []types.Student{
		fullStudent("student-1", "CSE7001", types.StatusActive),
		fullStudent("student-1", "CSE7002", types.StatusActive),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateID)

	require.NoError(t, s.Import(ctx, []types.Student{fullStudent("student-1", "CSE7001", types.StatusActive)}))
	err = s.Import(ctx, []types.Student{fullStudent("student-1", "CSE7009", types.StatusActive)})
	assert.ErrorIs(t, err, storage.ErrDuplicateID)

	all, err := s.GetStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestImport_RejectsInvalidRecord(t *testing.T) {
	bad := fullStudent("student-1", "CSE7001", "graduated")

	err := New().Import(context.Background(), []types.Student{bad})
	assert.ErrorIs(t, err, validation.ErrInvalid)
}

func TestConcurrentCreateAndRead(t *testing.T) {
	ctx := context.Background()
	s := New()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := s.CreateStudent(ctx, newStudent(fmt.Sprintf("Student %d", i)))
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			all, err := s.GetStudents(ctx)
			assert.NoError(t, err)
			for _, st := range all {
				assert.NotEmpty(t, st.RollNumber)
			}
		}()
	}
	wg.Wait()

	all, err := s.GetStudents(ctx)
	require.NoError(t, err)
	require.Len(t, all, writers)

	rolls := make(map[string]bool, writers)
	ids := make(map[string]bool, writers)
	for _, st := range all {
		rolls[st.RollNumber] = true
		ids[st.ID] = true
	}
	assert.Len(t, rolls, writers, "roll numbers must be unique")
	assert.Len(t, ids, writers, "ids must be unique")
	// Newest first: the head holds the highest roll number.
	assert.Equal(t, storage.RollNumber(writers-1), all[0].RollNumber)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New()
	_, err := s.CreateStudent(ctx, newStudent("Nobody"))
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.GetStudents(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func fullStudent(id, roll string, status types.Status) types.Student {
	return types.Student{
		ID:             id,
		Name:           "Seeded " + id,
		Email:          id + "@example.com",
		RollNumber:     roll,
		CGPA:           7.5,
		Course:         types.CourseOS,
		Semester:       2,
		EnrollmentDate: "2022-01-15",
		PhoneNumber:    "+911234567890",
		Status:         status,
	}
}
