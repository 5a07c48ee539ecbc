package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

// StudentStatus represents the lifecycle state of a student record.
type StudentStatus string

// Possible student statuses.
const (
	StudentStatusActive    StudentStatus = "ACTIVE"
	StudentStatusInactive  StudentStatus = "INACTIVE"
	StudentStatusGraduated StudentStatus = "GRADUATED"
	StudentStatusSuspended StudentStatus = "SUSPENDED"
	StudentStatusWithdrawn StudentStatus = "WITHDRAWN"
)

// ValidStudentStatus reports whether the given value is a known status.
func ValidStudentStatus(s StudentStatus) bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusGraduated,
		StudentStatusSuspended, StudentStatusWithdrawn:
		return true
	}
	return false
}

// Student represents a learner registered with the institution.
//
// GPA, TotalCredits and EnrolledCourses are caches maintained by the
// enrollment and grade engines; the enrollment and grade collections
// stay authoritative.
type Student struct {
	ID              string        `json:"id"`
	RegNo           string        `json:"reg_no"`
	FullName        string        `json:"full_name"`
	Email           string        `json:"email"`
	Status          StudentStatus `json:"status"`
	EnrollmentDate  time.Time     `json:"enrollment_date"`
	EnrolledCourses []string      `json:"enrolled_courses"`
	GPA             float64       `json:"gpa"`
	TotalCredits    int           `json:"total_credits"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// NewStudent validates required fields and returns a fresh ACTIVE student.
// A missing ID is generated.
func NewStudent(id, regNo, fullName, email string) (*Student, error) {
	regNo = strings.TrimSpace(regNo)
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if regNo == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "registration number is required")
	}
	if fullName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "full name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a valid email is required")
	}
	if id = strings.TrimSpace(id); id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	return &Student{
		ID:              id,
		RegNo:           regNo,
		FullName:        fullName,
		Email:           email,
		Status:          StudentStatusActive,
		EnrollmentDate:  now,
		EnrolledCourses: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// EligibleForEnrollment reports whether the student may enroll in courses.
func (s *Student) EligibleForEnrollment() bool {
	return s.Status == StudentStatusActive
}

// HasCourse reports whether the course code is in the enrolled set.
func (s *Student) HasCourse(code string) bool {
	for _, c := range s.EnrolledCourses {
		if c == code {
			return true
		}
	}
	return false
}

// AddCourse inserts the course code keeping the set sorted and duplicate-free.
func (s *Student) AddCourse(code string) {
	if s.HasCourse(code) {
		return
	}
	s.EnrolledCourses = append(s.EnrolledCourses, code)
	sort.Strings(s.EnrolledCourses)
}

// RemoveCourse drops the course code from the enrolled set.
func (s *Student) RemoveCourse(code string) {
	for i, c := range s.EnrolledCourses {
		if c == code {
			s.EnrolledCourses = append(s.EnrolledCourses[:i], s.EnrolledCourses[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy so callers never alias store-owned slices.
func (s *Student) Clone() *Student {
	clone := *s
	clone.EnrolledCourses = append([]string(nil), s.EnrolledCourses...)
	return &clone
}

// StudentFilter encapsulates the advanced-search parameters for students.
type StudentFilter struct {
	Name   string
	Email  string
	Status StudentStatus
	MinGPA *float64
	MaxGPA *float64
}
