// Package query answers the dashboard's questions about the student
// collection: paging, searching, filtering and statistics.
//
// The functions in this file are pure: they take a snapshot (as returned
// by storage.Storage.GetStudents) and never modify it. Results that are
// sub-sequences keep the snapshot's newest-first order and are never nil,
// so they always encode to [] rather than null.
package query

import (
	"math"
	"slices"
	"strings"

	"github.com/aanand-mishra/students-dashboard/internal/types"
)

// Paginate returns the 1-indexed page of pageSize records and the size of
// the whole snapshot. A page past the end, or a page/pageSize below 1,
// yields an empty page rather than an error.
func Paginate(students []types.Student, page, pageSize int) types.Page {
	result := types.Page{Students: []types.Student{}, Total: len(students)}
	if page < 1 || pageSize < 1 {
		return result
	}

	// (page-1)*pageSize may overflow for absurd inputs; anything that far
	// out is past the end anyway.
	if page-1 > len(students)/pageSize {
		return result
	}
	start := (page - 1) * pageSize
	if start >= len(students) {
		return result
	}
	end := min(start+pageSize, len(students))

	result.Students = slices.Clone(students[start:end])
	return result
}

// Search returns the students whose name, roll number or course contains
// text, ignoring case. An empty text matches every student.
func Search(students []types.Student, text string) []types.Student {
	needle := strings.ToLower(text)
	return filter(students, func(st types.Student) bool {
		return strings.Contains(strings.ToLower(st.Name), needle) ||
			strings.Contains(strings.ToLower(st.RollNumber), needle) ||
			strings.Contains(strings.ToLower(string(st.Course)), needle)
	})
}

// FilterByCourse returns the students enrolled in course.
func FilterByCourse(students []types.Student, course types.Course) []types.Student {
	return filter(students, func(st types.Student) bool { return st.Course == course })
}

// FilterByStatus returns the students with the given status.
func FilterByStatus(students []types.Student, status types.Status) []types.Student {
	return filter(students, func(st types.Student) bool { return st.Status == status })
}

func filter(students []types.Student, keep func(types.Student) bool) []types.Student {
	out := make([]types.Student, 0)
	for _, st := range students {
		if keep(st) {
			out = append(out, st)
		}
	}
	return out
}

// Aggregate computes the dashboard statistics.
//
// Every course appears in CourseStats, including those nobody is enrolled
// in, ordered by enrolment descending; equal counts keep the order of
// types.Courses. Percentages are rounded to one decimal place.
//
// An empty snapshot has no meaningful average: AverageCGPA and every
// percentage are reported as 0 instead of NaN.
func Aggregate(students []types.Student) types.Statistics {
	stats := types.Statistics{TotalStudents: len(students)}

	perCourse := make(map[types.Course]int, len(types.Courses))
	var cgpaSum float64
	for _, st := range students {
		if st.Status == types.StatusActive {
			stats.ActiveStudents++
		}
		cgpaSum += st.CGPA
		perCourse[st.Course]++
	}
	stats.InactiveStudents = stats.TotalStudents - stats.ActiveStudents

	if stats.TotalStudents > 0 {
		stats.AverageCGPA = cgpaSum / float64(stats.TotalStudents)
	}

	stats.CourseStats = make([]types.CourseStat, 0, len(types.Courses))
	for _, c := range types.Courses {
		stat := types.CourseStat{
			Name:         c,
			Abbreviation: c.Abbreviation(),
			Students:     perCourse[c],
		}
		if stats.TotalStudents > 0 {
			stat.Percentage = roundTo1(float64(stat.Students) / float64(stats.TotalStudents) * 100)
		}
		stats.CourseStats = append(stats.CourseStats, stat)
	}
	slices.SortStableFunc(stats.CourseStats, func(a, b types.CourseStat) int {
		return b.Students - a.Students
	})

	return stats
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
