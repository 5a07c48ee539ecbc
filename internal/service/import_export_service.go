package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/campusworks/ccrm-api/internal/models"
	"github.com/campusworks/ccrm-api/pkg/export"
)

// ImportResult summarises one CSV import run. Malformed or rejected rows
// are skipped with their reasons collected; they never abort the run.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type studentCreator interface {
	Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error)
	List(ctx context.Context) []models.Student
}

type courseCreator interface {
	Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error)
	List(ctx context.Context) []models.Course
}

type enroller interface {
	Enroll(ctx context.Context, studentID, courseCode string) (*models.Enrollment, error)
	List(ctx context.Context) []models.Enrollment
}

type gradeRecorder interface {
	RecordGrade(ctx context.Context, studentID, courseCode string, marks float64) (*models.Grade, error)
	List(ctx context.Context) []models.Grade
}

// ImportExportService moves registrar data in and out as CSV. Imports
// feed every row through the directory and engine APIs so all business
// rules apply; nothing is written to the stores directly.
type ImportExportService struct {
	students    studentCreator
	courses     courseCreator
	enrollments enroller
	grades      gradeRecorder
	csv         csvRenderer
	exportDir   string
	logger      *zap.Logger
}

// NewImportExportService constructs the CSV adapter.
func NewImportExportService(students studentCreator, courses courseCreator, enrollments enroller, grades gradeRecorder, exportDir string, logger *zap.Logger) *ImportExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if exportDir == "" {
		exportDir = "./exports"
	}
	return &ImportExportService{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		grades:      grades,
		csv:         export.NewCSVExporter(),
		exportDir:   exportDir,
		logger:      logger,
	}
}

// ImportStudents reads a students CSV (ID,RegNo,FullName,Email) and
// registers each row.
func (s *ImportExportService) ImportStudents(ctx context.Context, path string) (*ImportResult, error) {
	return s.importFile(path, 4, func(record []string) error {
		_, err := s.students.Create(ctx, CreateStudentRequest{
			ID:       record[0],
			RegNo:    record[1],
			FullName: record[2],
			Email:    record[3],
		})
		return err
	})
}

// ImportCourses reads a courses CSV (Code,Title,Credits,Department,Semester,Instructor).
func (s *ImportExportService) ImportCourses(ctx context.Context, path string) (*ImportResult, error) {
	return s.importFile(path, 5, func(record []string) error {
		credits, err := strconv.Atoi(record[2])
		if err != nil {
			return fmt.Errorf("invalid credits %q: %w", record[2], err)
		}
		req := CreateCourseRequest{
			Code:       record[0],
			Title:      record[1],
			Credits:    credits,
			Department: record[3],
			Semester:   models.Semester(record[4]),
		}
		if len(record) > 5 {
			req.Instructor = record[5]
		}
		_, err = s.courses.Create(ctx, req)
		return err
	})
}

// ImportEnrollments reads an enrollments CSV (StudentID,CourseCode). Each
// row goes through the enrollment engine, so credit limits and duplicate
// checks apply during import too.
func (s *ImportExportService) ImportEnrollments(ctx context.Context, path string) (*ImportResult, error) {
	return s.importFile(path, 2, func(record []string) error {
		_, err := s.enrollments.Enroll(ctx, record[0], record[1])
		return err
	})
}

// ImportGrades reads a grades CSV (StudentID,CourseCode,Marks).
func (s *ImportExportService) ImportGrades(ctx context.Context, path string) (*ImportResult, error) {
	return s.importFile(path, 3, func(record []string) error {
		marks, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return fmt.Errorf("invalid marks %q: %w", record[2], err)
		}
		_, err = s.grades.RecordGrade(ctx, record[0], record[1], marks)
		return err
	})
}

func (s *ImportExportService) importFile(path string, minFields int, apply func([]string) error) (*ImportResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}

	result := &ImportResult{}
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		line := i + 1
		if len(record) < minFields {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: expected at least %d fields, got %d", line, minFields, len(record)))
			continue
		}
		if err := apply(record); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			s.logger.Warn("import row skipped", zap.String("file", path), zap.Int("line", line), zap.Error(err))
			continue
		}
		result.Imported++
	}
	s.logger.Info("import finished",
		zap.String("file", path), zap.Int("imported", result.Imported), zap.Int("skipped", result.Skipped))
	return result, nil
}

// StudentsDataset flattens the student directory for export.
func (s *ImportExportService) StudentsDataset(ctx context.Context) export.Dataset {
	data := export.Dataset{Headers: []string{"ID", "RegNo", "FullName", "Email", "Status", "GPA", "TotalCredits"}}
	for _, st := range s.students.List(ctx) {
		data.Append(st.ID, st.RegNo, st.FullName, st.Email, string(st.Status),
			fmt.Sprintf("%.2f", st.GPA), strconv.Itoa(st.TotalCredits))
	}
	return data
}

// CoursesDataset flattens the catalog for export.
func (s *ImportExportService) CoursesDataset(ctx context.Context) export.Dataset {
	data := export.Dataset{Headers: []string{"Code", "Title", "Credits", "Department", "Semester", "Instructor", "Active"}}
	for _, c := range s.courses.List(ctx) {
		data.Append(c.Code, c.Title, strconv.Itoa(c.Credits), c.Department, string(c.Semester),
			c.Instructor, strconv.FormatBool(c.Active))
	}
	return data
}

// EnrollmentsDataset flattens the enrollment records for export.
func (s *ImportExportService) EnrollmentsDataset(ctx context.Context) export.Dataset {
	data := export.Dataset{Headers: []string{"StudentID", "CourseCode", "EnrolledAt", "Status"}}
	for _, e := range s.enrollments.List(ctx) {
		data.Append(e.StudentID, e.CourseCode, e.EnrolledAt.Format("2006-01-02"), string(e.Status))
	}
	return data
}

// GradesDataset flattens the recorded grades for export.
func (s *ImportExportService) GradesDataset(ctx context.Context) export.Dataset {
	data := export.Dataset{Headers: []string{"StudentID", "CourseCode", "Marks", "Letter", "Points"}}
	for _, g := range s.grades.List(ctx) {
		data.Append(g.StudentID, g.CourseCode, fmt.Sprintf("%.1f", g.Marks), string(g.Letter),
			fmt.Sprintf("%.2f", g.GradePoints))
	}
	return data
}

// ExportAll writes the four collections as CSV files into the export
// directory and returns the written paths.
func (s *ImportExportService) ExportAll(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	sets := map[string]export.Dataset{
		"students.csv":    s.StudentsDataset(ctx),
		"courses.csv":     s.CoursesDataset(ctx),
		"enrollments.csv": s.EnrollmentsDataset(ctx),
		"grades.csv":      s.GradesDataset(ctx),
	}
	paths := make([]string, 0, len(sets))
	for _, name := range []string{"students.csv", "courses.csv", "enrollments.csv", "grades.csv"} {
		payload, err := s.csv.Render(sets[name])
		if err != nil {
			return nil, err
		}
		path := filepath.Join(s.exportDir, name)
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return nil, fmt.Errorf("write export %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
