package models

import (
	"fmt"
	"strings"
	"time"

	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

// Semester identifies an academic term within the year.
type Semester string

// Supported semesters in calendar order.
const (
	SemesterSpring Semester = "SPRING"
	SemesterSummer Semester = "SUMMER"
	SemesterFall   Semester = "FALL"
)

// SemesterOrder returns the calendar position used for sorting; unknown
// semesters sort last.
func SemesterOrder(s Semester) int {
	switch s {
	case SemesterSpring:
		return 1
	case SemesterSummer:
		return 2
	case SemesterFall:
		return 3
	}
	return 4
}

// ValidSemester reports whether the semester value is known.
func ValidSemester(s Semester) bool {
	return SemesterOrder(s) < 4
}

// Course credit bounds enforced at construction.
const (
	MinCourseCredits = 1
	MaxCourseCredits = 6
)

// Course describes an offering in the catalog, keyed by its code.
type Course struct {
	Code       string    `json:"code"`
	Title      string    `json:"title"`
	Credits    int       `json:"credits"`
	Department string    `json:"department"`
	Semester   Semester  `json:"semester"`
	Instructor string    `json:"instructor,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCourse validates required fields and credit bounds and returns an
// active course.
func NewCourse(code, title string, credits int, department string, semester Semester) (*Course, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	title = strings.TrimSpace(title)
	department = strings.TrimSpace(department)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course code is required")
	}
	if title == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course title is required")
	}
	if credits < MinCourseCredits || credits > MaxCourseCredits {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("credits must be between %d and %d: %d", MinCourseCredits, MaxCourseCredits, credits))
	}
	if department == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "department is required")
	}
	if !ValidSemester(semester) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown semester %q", semester))
	}
	now := time.Now().UTC()
	return &Course{
		Code:       code,
		Title:      title,
		Credits:    credits,
		Department: department,
		Semester:   semester,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Clone returns a copy of the course.
func (c *Course) Clone() *Course {
	clone := *c
	return &clone
}

// CourseFilter narrows catalog searches.
type CourseFilter struct {
	Department string
	Semester   Semester
	Instructor string
	Credits    *int
	ActiveOnly bool
}
