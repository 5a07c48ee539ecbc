package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campusworks/ccrm-api/internal/models"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
	"github.com/campusworks/ccrm-api/pkg/export"
)

type gradeReader interface {
	ListByStudent(studentID string) []models.Grade
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type transcriptPDFRenderer interface {
	RenderTranscript(t *models.Transcript) ([]byte, error)
}

// TranscriptService builds read-only transcript projections. It computes
// its summary independently of the grade engine's GPA cache; the two are
// expected to agree.
type TranscriptService struct {
	students studentDirectory
	grades   gradeReader
	courses  courseCatalog
	csv      csvRenderer
	pdf      transcriptPDFRenderer
	logger   *zap.Logger
}

// NewTranscriptService constructs the transcript builder.
func NewTranscriptService(students studentDirectory, grades gradeReader, courses courseCatalog, csv csvRenderer, pdf transcriptPDFRenderer, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &TranscriptService{students: students, grades: grades, courses: courses, csv: csv, pdf: pdf, logger: logger}
}

// Generate joins the student's grades with their courses and derives the
// summary. Grades whose course was deleted stay in the entry list with a
// nil course and zero credit weight.
func (s *TranscriptService) Generate(ctx context.Context, studentID string) (*models.Transcript, error) {
	student, ok := s.students.Get(studentID)
	if !ok {
		return nil, appErrors.NotFound("student", studentID)
	}
	grades := s.grades.ListByStudent(studentID)
	entries := make([]models.TranscriptEntry, 0, len(grades))
	for _, grade := range grades {
		entry := models.TranscriptEntry{Grade: grade}
		if course, found := s.courses.Get(grade.CourseCode); found {
			entry.Course = course
		}
		entries = append(entries, entry)
	}
	return models.NewTranscript(student.ID, student.FullName, entries), nil
}

// RenderText returns the plain-text official report.
func (s *TranscriptService) RenderText(ctx context.Context, studentID string) (string, error) {
	transcript, err := s.Generate(ctx, studentID)
	if err != nil {
		return "", err
	}
	return transcript.Render(), nil
}

// RenderCSV returns the transcript entries as a CSV document.
func (s *TranscriptService) RenderCSV(ctx context.Context, studentID string) ([]byte, error) {
	transcript, err := s.Generate(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(TranscriptDataset(transcript))
}

// RenderPDF returns the transcript as a PDF document.
func (s *TranscriptService) RenderPDF(ctx context.Context, studentID string) ([]byte, error) {
	transcript, err := s.Generate(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.pdf.RenderTranscript(transcript)
}

// TranscriptDataset flattens transcript entries into a tabular dataset.
func TranscriptDataset(t *models.Transcript) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Course", "Title", "Semester", "Credits", "Marks", "Grade", "Points"},
	}
	for _, entry := range t.Entries {
		row := map[string]string{
			"Course": entry.Grade.CourseCode,
			"Marks":  fmt.Sprintf("%.1f", entry.Grade.Marks),
			"Grade":  string(entry.Grade.Letter),
			"Points": fmt.Sprintf("%.2f", entry.Grade.GradePoints),
		}
		if entry.Course != nil {
			row["Title"] = entry.Course.Title
			row["Semester"] = string(entry.Course.Semester)
			row["Credits"] = fmt.Sprintf("%d", entry.Course.Credits)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}
