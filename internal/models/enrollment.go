package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment record.
type EnrollmentStatus string

// Possible enrollment statuses. A record leaves the store only through
// unenrollment; status transitions never take it back to absent.
const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "ENROLLED"
	EnrollmentStatusDropped   EnrollmentStatus = "DROPPED"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentStatusWithdrawn EnrollmentStatus = "WITHDRAWN"
)

// ValidEnrollmentStatus reports whether the status value is known.
func ValidEnrollmentStatus(s EnrollmentStatus) bool {
	switch s {
	case EnrollmentStatusEnrolled, EnrollmentStatusDropped,
		EnrollmentStatusCompleted, EnrollmentStatusWithdrawn:
		return true
	}
	return false
}

// Enrollment captures a student's registration in a course. The pair
// (StudentID, CourseCode) is unique across all records.
type Enrollment struct {
	StudentID  string           `json:"student_id"`
	CourseCode string           `json:"course_code"`
	EnrolledAt time.Time        `json:"enrolled_at"`
	Status     EnrollmentStatus `json:"status"`
}

// NewEnrollment returns a fresh ENROLLED record for the pair.
func NewEnrollment(studentID, courseCode string) *Enrollment {
	return &Enrollment{
		StudentID:  studentID,
		CourseCode: courseCode,
		EnrolledAt: time.Now().UTC(),
		Status:     EnrollmentStatusEnrolled,
	}
}

// Key returns the composite store key for the pair.
func (e *Enrollment) Key() string {
	return EnrollmentKey(e.StudentID, e.CourseCode)
}

// EnrollmentKey builds the composite key used by the enrollment and grade stores.
func EnrollmentKey(studentID, courseCode string) string {
	return studentID + "_" + courseCode
}

// EnrollmentStatistics summarises the enrollment population.
type EnrollmentStatistics struct {
	Total    int                      `json:"total"`
	ByStatus map[EnrollmentStatus]int `json:"by_status"`
	ByCourse map[string]int           `json:"by_course"`
}
