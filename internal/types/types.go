// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, query and validation can all import types without
// depending on each other.
package types

import (
	"fmt"
	"strings"
)

// Course is one of the seven academic subjects a student can be enrolled in.
// The set is closed: anything not listed in Courses is not a course.
type Course string

const (
	CourseDSA  Course = "Data Structures and Algorithms"
	CourseDBMS Course = "Database Management Systems"
	CourseOS   Course = "Operating Systems"
	CourseOOP  Course = "Object-Oriented Programming"
	CourseCN   Course = "Computer Networks"
	CourseWD   Course = "Web Development"
	CourseAIML Course = "Artificial Intelligence/Machine Learning"
)

// Courses lists every course in its canonical (enumeration) order.
// Statistics use this order to break ties between equally sized courses.
var Courses = []Course{
	CourseDSA,
	CourseDBMS,
	CourseOS,
	CourseOOP,
	CourseCN,
	CourseWD,
	CourseAIML,
}

var abbreviations = map[Course]string{
	CourseDSA:  "DSA",
	CourseDBMS: "DBMS",
	CourseOS:   "OS",
	CourseOOP:  "OOP",
	CourseCN:   "CN",
	CourseWD:   "WD",
	CourseAIML: "AI/ML",
}

// Abbreviation returns the short code shown on course badges, e.g. "DSA".
func (c Course) Abbreviation() string {
	return abbreviations[c]
}

// Valid reports whether c is a member of the closed course set.
func (c Course) Valid() bool {
	_, ok := abbreviations[c]
	return ok
}

// ParseCourse accepts either the full course name or its abbreviation
// (case-insensitive) and returns the matching Course.
//
//	ParseCourse("Web Development") → CourseWD
//	ParseCourse("ai/ml")           → CourseAIML
func ParseCourse(s string) (Course, error) {
	s = strings.TrimSpace(s)
	for _, c := range Courses {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Abbreviation()) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown course: %q", s)
}

// Status is the enrolment state of a student.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is active or inactive.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// ParseStatus converts user input ("Active", " inactive ") into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status: %q", s)
	}
	return st, nil
}

// Student represents a student record in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON.
//     The dashboard expects camelCase keys (rollNumber, enrollmentDate…).
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package (see internal/validation for the custom "notblank",
//     "course", "status" and "phone" tags).
//
// ID, RollNumber and Status are assigned by the store on creation; they are
// only validated for records that arrive fully formed (seed imports).
type Student struct {
	ID             string  `json:"id"             validate:"required"`
	Name           string  `json:"name"           validate:"required,notblank"`
	Email          string  `json:"email"          validate:"required,email"`
	RollNumber     string  `json:"rollNumber"     validate:"required"`
	CGPA           float64 `json:"cgpa"           validate:"gte=0,lte=10"`
	Course         Course  `json:"course"         validate:"required,course"`
	Semester       int     `json:"semester"       validate:"min=1,max=8"`
	EnrollmentDate string  `json:"enrollmentDate" validate:"required,datetime=2006-01-02"`
	PhoneNumber    string  `json:"phoneNumber"    validate:"required,phone"`
	Status         Status  `json:"status"         validate:"required,status"`
}

// NewStudent is the payload accepted when creating a student: every
// attribute except the ones the store owns (id, rollNumber, status).
type NewStudent struct {
	Name           string  `json:"name"           validate:"required,notblank"`
	Email          string  `json:"email"          validate:"required,email"`
	CGPA           float64 `json:"cgpa"           validate:"gte=0,lte=10"`
	Course         Course  `json:"course"         validate:"required,course"`
	Semester       int     `json:"semester"       validate:"min=1,max=8"`
	EnrollmentDate string  `json:"enrollmentDate" validate:"required,datetime=2006-01-02"`
	PhoneNumber    string  `json:"phoneNumber"    validate:"required,phone"`
}

// Page is one slice of the paged listing plus the size of the whole
// collection, so the dashboard can render "page 2 of 4".
type Page struct {
	Students []Student `json:"students"`
	Total    int       `json:"total"`
}

// CourseStat is the enrolment figure for a single course.
type CourseStat struct {
	Name         Course  `json:"name"`
	Abbreviation string  `json:"abbreviation"`
	Students     int     `json:"students"`
	Percentage   float64 `json:"percentage"` // share of all students, one decimal place
}

// Statistics is the dashboard summary computed over the whole collection.
type Statistics struct {
	TotalStudents    int          `json:"totalStudents"`
	ActiveStudents   int          `json:"activeStudents"`
	InactiveStudents int          `json:"inactiveStudents"`
	AverageCGPA      float64      `json:"averageCGPA"`
	CourseStats      []CourseStat `json:"courseStats"`
}
