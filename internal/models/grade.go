package models

import (
	"fmt"
	"time"

	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

// LetterGrade is the letter band derived from marks.
type LetterGrade string

// Letter grades in descending order of achievement.
const (
	GradeA LetterGrade = "A"
	GradeB LetterGrade = "B"
	GradeC LetterGrade = "C"
	GradeD LetterGrade = "D"
	GradeF LetterGrade = "F"
)

// LetterFromMarks maps marks onto the fixed grade bands. Bands are
// inclusive on both ends; anything below 60 is an F.
func LetterFromMarks(marks float64) LetterGrade {
	switch {
	case marks >= 90:
		return GradeA
	case marks >= 80:
		return GradeB
	case marks >= 70:
		return GradeC
	case marks >= 60:
		return GradeD
	}
	return GradeF
}

// Points returns the grade-point value for the letter.
func (g LetterGrade) Points() float64 {
	switch g {
	case GradeA:
		return 4.0
	case GradeB:
		return 3.0
	case GradeC:
		return 2.0
	case GradeD:
		return 1.0
	}
	return 0.0
}

// Passing reports whether the letter counts toward earned credits.
func (g LetterGrade) Passing() bool {
	return g != GradeF
}

// Grade records a student's result in a course. One grade per enrollment,
// keyed by the same composite pair.
type Grade struct {
	StudentID   string      `json:"student_id"`
	CourseCode  string      `json:"course_code"`
	Marks       float64     `json:"marks"`
	Letter      LetterGrade `json:"letter_grade"`
	GradePoints float64     `json:"grade_points"`
	RecordedAt  time.Time   `json:"recorded_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewGrade validates marks and returns a grade with the derived letter
// and points populated.
func NewGrade(studentID, courseCode string, marks float64) (*Grade, error) {
	g := &Grade{
		StudentID:  studentID,
		CourseCode: courseCode,
		RecordedAt: time.Now().UTC(),
	}
	if err := g.SetMarks(marks); err != nil {
		return nil, err
	}
	return g, nil
}

// SetMarks validates the marks and recomputes letter and points together,
// so the three fields never disagree.
func (g *Grade) SetMarks(marks float64) error {
	if marks < 0 || marks > 100 {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("marks must be between 0 and 100: %.1f", marks))
	}
	g.Marks = marks
	g.Letter = LetterFromMarks(marks)
	g.GradePoints = g.Letter.Points()
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// Key returns the composite store key for the pair.
func (g *Grade) Key() string {
	return EnrollmentKey(g.StudentID, g.CourseCode)
}

// GradeStatistics summarises the recorded grade population.
type GradeStatistics struct {
	Total        int                 `json:"total"`
	AverageMarks float64             `json:"average_marks"`
	Distribution map[LetterGrade]int `json:"distribution"`
	PassRate     float64             `json:"pass_rate"`
}
