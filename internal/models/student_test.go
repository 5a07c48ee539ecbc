package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudentGeneratesID(t *testing.T) {
	student, err := NewStudent("", "2026-001", "Aditi Rao", "aditi@example.edu")
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, StudentStatusActive, student.Status)
	assert.Empty(t, student.EnrolledCourses)
}

func TestNewStudentRequiresFields(t *testing.T) {
	_, err := NewStudent("S1", "", "Aditi Rao", "aditi@example.edu")
	require.Error(t, err)

	_, err = NewStudent("S1", "2026-001", "", "aditi@example.edu")
	require.Error(t, err)

	_, err = NewStudent("S1", "2026-001", "Aditi Rao", "")
	require.Error(t, err)
}

func TestStudentEligibility(t *testing.T) {
	student, err := NewStudent("S1", "2026-001", "Aditi Rao", "aditi@example.edu")
	require.NoError(t, err)
	assert.True(t, student.EligibleForEnrollment())

	student.Status = StudentStatusSuspended
	assert.False(t, student.EligibleForEnrollment())

	student.Status = StudentStatusGraduated
	assert.False(t, student.EligibleForEnrollment())
}

func TestStudentCourseListStaysSorted(t *testing.T) {
	student, err := NewStudent("S1", "2026-001", "Aditi Rao", "aditi@example.edu")
	require.NoError(t, err)

	student.AddCourse("MA201")
	student.AddCourse("CS101")
	student.AddCourse("PH110")
	student.AddCourse("CS101")

	assert.Equal(t, []string{"CS101", "MA201", "PH110"}, student.EnrolledCourses)
	assert.True(t, student.HasCourse("MA201"))

	student.RemoveCourse("MA201")
	assert.Equal(t, []string{"CS101", "PH110"}, student.EnrolledCourses)
	assert.False(t, student.HasCourse("MA201"))
}

func TestStudentCloneIsIndependent(t *testing.T) {
	student, err := NewStudent("S1", "2026-001", "Aditi Rao", "aditi@example.edu")
	require.NoError(t, err)
	student.AddCourse("CS101")

	clone := student.Clone()
	clone.AddCourse("MA201")
	clone.FullName = "Changed"

	assert.Equal(t, []string{"CS101"}, student.EnrolledCourses)
	assert.Equal(t, "Aditi Rao", student.FullName)
}
