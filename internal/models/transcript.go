package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TranscriptEntry joins one grade with its course. Course is nil when the
// course was deleted after grading; such entries carry zero credits.
type TranscriptEntry struct {
	Grade  Grade   `json:"grade"`
	Course *Course `json:"course,omitempty"`
}

// Credits returns the course credits, or 0 when the course is gone.
func (e TranscriptEntry) Credits() int {
	if e.Course == nil {
		return 0
	}
	return e.Course.Credits
}

// QualityPoints returns credits weighted by grade points.
func (e TranscriptEntry) QualityPoints() float64 {
	return float64(e.Credits()) * e.Grade.GradePoints
}

// Passing reports whether the entry counts toward earned credits.
func (e TranscriptEntry) Passing() bool {
	return e.Grade.Letter.Passing()
}

// TranscriptSummary aggregates a transcript's entries.
type TranscriptSummary struct {
	CreditsAttempted   int                 `json:"credits_attempted"`
	CreditsEarned      int                 `json:"credits_earned"`
	TotalQualityPoints float64             `json:"total_quality_points"`
	CumulativeGPA      float64             `json:"cumulative_gpa"`
	GradeDistribution  map[LetterGrade]int `json:"grade_distribution"`
	AcademicStanding   string              `json:"academic_standing"`
}

// AcademicStanding maps a GPA onto the institution's standing labels.
func AcademicStanding(gpa float64) string {
	switch {
	case gpa >= 3.5:
		return "Dean's List"
	case gpa >= 3.0:
		return "Good Standing"
	case gpa >= 2.0:
		return "Satisfactory"
	case gpa >= 1.0:
		return "Academic Warning"
	}
	return "Academic Probation"
}

// SemesterGroup collects a semester's transcript entries for presentation.
type SemesterGroup struct {
	Semester Semester          `json:"semester"`
	Entries  []TranscriptEntry `json:"entries"`
}

// Transcript is the read-only projection of a student's academic record.
// It is recomputed per request and never persisted.
type Transcript struct {
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	GeneratedAt time.Time         `json:"generated_at"`
	Semesters   []SemesterGroup   `json:"semesters"`
	Entries     []TranscriptEntry `json:"entries"`
	Summary     TranscriptSummary `json:"summary"`
}

// NewTranscript builds the projection: entries grouped by semester in
// calendar order, plus the derived summary.
func NewTranscript(studentID, studentName string, entries []TranscriptEntry) *Transcript {
	summary := TranscriptSummary{GradeDistribution: make(map[LetterGrade]int)}
	for _, entry := range entries {
		summary.CreditsAttempted += entry.Credits()
		if entry.Passing() {
			summary.CreditsEarned += entry.Credits()
		}
		summary.TotalQualityPoints += entry.QualityPoints()
		summary.GradeDistribution[entry.Grade.Letter]++
	}
	if summary.CreditsAttempted > 0 {
		summary.CumulativeGPA = summary.TotalQualityPoints / float64(summary.CreditsAttempted)
	}
	summary.AcademicStanding = AcademicStanding(summary.CumulativeGPA)

	grouped := make(map[Semester][]TranscriptEntry)
	for _, entry := range entries {
		if entry.Course == nil {
			continue
		}
		grouped[entry.Course.Semester] = append(grouped[entry.Course.Semester], entry)
	}
	semesters := make([]SemesterGroup, 0, len(grouped))
	for sem, group := range grouped {
		semesters = append(semesters, SemesterGroup{Semester: sem, Entries: group})
	}
	sort.Slice(semesters, func(i, j int) bool {
		return SemesterOrder(semesters[i].Semester) < SemesterOrder(semesters[j].Semester)
	})

	return &Transcript{
		StudentID:   studentID,
		StudentName: studentName,
		GeneratedAt: time.Now().UTC(),
		Semesters:   semesters,
		Entries:     entries,
		Summary:     summary,
	}
}

// Render formats the transcript as the plain-text official report.
func (t *Transcript) Render() string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)
	sb.WriteString("OFFICIAL TRANSCRIPT\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Student: %s (ID: %s)\n", t.StudentName, t.StudentID)
	fmt.Fprintf(&sb, "Generated: %s\n", t.GeneratedAt.Format("2006-01-02 15:04"))
	sb.WriteString(rule + "\n\n")

	for _, group := range t.Semesters {
		fmt.Fprintf(&sb, "%s SEMESTER\n", group.Semester)
		sb.WriteString(strings.Repeat("-", 40) + "\n")
		fmt.Fprintf(&sb, "%-10s %-25s %7s %5s %6s\n", "Code", "Title", "Credits", "Grade", "Points")
		sb.WriteString(strings.Repeat("-", 40) + "\n")
		for _, entry := range group.Entries {
			title := entry.Course.Title
			if len(title) > 25 {
				title = title[:25]
			}
			fmt.Fprintf(&sb, "%-10s %-25s %7d %5s %6.2f\n",
				entry.Course.Code, title, entry.Course.Credits, entry.Grade.Letter, entry.Grade.GradePoints)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&sb, "Total Credits Attempted: %d\n", t.Summary.CreditsAttempted)
	fmt.Fprintf(&sb, "Total Credits Earned: %d\n", t.Summary.CreditsEarned)
	fmt.Fprintf(&sb, "Cumulative GPA: %.2f\n", t.Summary.CumulativeGPA)
	fmt.Fprintf(&sb, "Academic Standing: %s\n", t.Summary.AcademicStanding)
	if len(t.Summary.GradeDistribution) > 0 {
		sb.WriteString("\nGrade Distribution:\n")
		letters := []LetterGrade{GradeA, GradeB, GradeC, GradeD, GradeF}
		for _, letter := range letters {
			if count := t.Summary.GradeDistribution[letter]; count > 0 {
				fmt.Fprintf(&sb, "  %s: %d courses\n", letter, count)
			}
		}
	}
	return sb.String()
}
