package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGrade(t *testing.T, studentID, courseCode string, marks float64) Grade {
	t.Helper()
	grade, err := NewGrade(studentID, courseCode, marks)
	require.NoError(t, err)
	return *grade
}

func mustCourse(t *testing.T, code string, credits int, semester Semester) *Course {
	t.Helper()
	course, err := NewCourse(code, "Course "+code, credits, "GEN", semester)
	require.NoError(t, err)
	return course
}

func TestAcademicStanding(t *testing.T) {
	assert.Equal(t, "Dean's List", AcademicStanding(3.5))
	assert.Equal(t, "Good Standing", AcademicStanding(3.0))
	assert.Equal(t, "Satisfactory", AcademicStanding(2.0))
	assert.Equal(t, "Academic Warning", AcademicStanding(1.0))
	assert.Equal(t, "Academic Probation", AcademicStanding(0.99))
}

func TestNewTranscriptSummary(t *testing.T) {
	entries := []TranscriptEntry{
		{Grade: mustGrade(t, "S1", "CS101", 92), Course: mustCourse(t, "CS101", 3, SemesterFall)},
		{Grade: mustGrade(t, "S1", "MA201", 81), Course: mustCourse(t, "MA201", 4, SemesterFall)},
		{Grade: mustGrade(t, "S1", "PH110", 45), Course: mustCourse(t, "PH110", 3, SemesterSpring)},
	}
	transcript := NewTranscript("S1", "Aditi Rao", entries)

	assert.Equal(t, 10, transcript.Summary.CreditsAttempted)
	assert.Equal(t, 7, transcript.Summary.CreditsEarned, "failed course earns nothing")
	// (4.0*3 + 3.0*4 + 0.0*3) / 10
	assert.InDelta(t, 2.4, transcript.Summary.CumulativeGPA, 1e-9)
	assert.Equal(t, "Satisfactory", transcript.Summary.AcademicStanding)
	assert.Equal(t, 1, transcript.Summary.GradeDistribution[GradeA])
	assert.Equal(t, 1, transcript.Summary.GradeDistribution[GradeB])
	assert.Equal(t, 1, transcript.Summary.GradeDistribution[GradeF])
}

func TestNewTranscriptGroupsSemestersInCalendarOrder(t *testing.T) {
	entries := []TranscriptEntry{
		{Grade: mustGrade(t, "S1", "CS101", 92), Course: mustCourse(t, "CS101", 3, SemesterFall)},
		{Grade: mustGrade(t, "S1", "PH110", 75), Course: mustCourse(t, "PH110", 3, SemesterSpring)},
		{Grade: mustGrade(t, "S1", "EN150", 88), Course: mustCourse(t, "EN150", 2, SemesterSummer)},
	}
	transcript := NewTranscript("S1", "Aditi Rao", entries)

	require.Len(t, transcript.Semesters, 3)
	assert.Equal(t, SemesterSpring, transcript.Semesters[0].Semester)
	assert.Equal(t, SemesterSummer, transcript.Semesters[1].Semester)
	assert.Equal(t, SemesterFall, transcript.Semesters[2].Semester)
}

func TestNewTranscriptHandlesDeletedCourse(t *testing.T) {
	entries := []TranscriptEntry{
		{Grade: mustGrade(t, "S1", "CS101", 92), Course: mustCourse(t, "CS101", 3, SemesterFall)},
		{Grade: mustGrade(t, "S1", "GONE1", 80), Course: nil},
	}
	transcript := NewTranscript("S1", "Aditi Rao", entries)

	assert.Equal(t, 3, transcript.Summary.CreditsAttempted, "deleted course contributes no credits")
	assert.Len(t, transcript.Entries, 2)
	require.Len(t, transcript.Semesters, 1)
	assert.Len(t, transcript.Semesters[0].Entries, 1)
	// GPA over surviving credits only: 4.0*3/3
	assert.InDelta(t, 4.0, transcript.Summary.CumulativeGPA, 1e-9)
}

func TestTranscriptRender(t *testing.T) {
	entries := []TranscriptEntry{
		{Grade: mustGrade(t, "S1", "CS101", 92), Course: mustCourse(t, "CS101", 3, SemesterFall)},
	}
	transcript := NewTranscript("S1", "Aditi Rao", entries)
	out := transcript.Render()

	assert.True(t, strings.HasPrefix(out, "OFFICIAL TRANSCRIPT"))
	assert.Contains(t, out, "Aditi Rao")
	assert.Contains(t, out, "FALL SEMESTER")
	assert.Contains(t, out, "CS101")
	assert.Contains(t, out, "Cumulative GPA: 4.00")
	assert.Contains(t, out, "Academic Standing: Dean's List")
}
