package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusworks/ccrm-api/internal/models"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

type gradeStore interface {
	Insert(grade *models.Grade) error
	Put(grade *models.Grade) error
	Get(studentID, courseCode string) (*models.Grade, bool)
	Exists(studentID, courseCode string) bool
	Remove(studentID, courseCode string) error
	ListByStudent(studentID string) []models.Grade
	ListByCourse(courseCode string) []models.Grade
	List() []models.Grade
}

type enrollmentChecker interface {
	Exists(studentID, courseCode string) bool
}

type gradeMetrics interface {
	GradeRecorded()
	GPARecomputeFailed()
}

// GradeService is the grade engine: it owns Grade records, derives
// letter grades and points from marks, and maintains the student's GPA
// cache as a best-effort side effect.
type GradeService struct {
	grades      gradeStore
	enrollments enrollmentChecker
	students    studentDirectory
	courses     courseCatalog
	locks       *StudentLocks
	metrics     gradeMetrics
	logger      *zap.Logger
}

// NewGradeService constructs the grade engine. Pass the enrollment
// engine's lock set so grade and enrollment mutations for one student
// serialise together.
func NewGradeService(grades gradeStore, enrollments enrollmentChecker, students studentDirectory, courses courseCatalog, locks *StudentLocks, metrics gradeMetrics, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locks == nil {
		locks = NewStudentLocks()
	}
	return &GradeService{
		grades:      grades,
		enrollments: enrollments,
		students:    students,
		courses:     courses,
		locks:       locks,
		metrics:     metrics,
		logger:      logger,
	}
}

// RecordGrade creates the grade for an enrolled pair. It is create-only;
// corrections go through UpdateGrade.
func (s *GradeService) RecordGrade(ctx context.Context, studentID, courseCode string, marks float64) (*models.Grade, error) {
	unlock := s.locks.Lock(studentID)
	defer unlock()

	grade, err := models.NewGrade(studentID, courseCode, marks)
	if err != nil {
		return nil, err
	}
	if _, ok := s.students.Get(studentID); !ok {
		return nil, appErrors.NotFound("student", studentID)
	}
	if _, ok := s.courses.Get(courseCode); !ok {
		return nil, appErrors.NotFound("course", courseCode)
	}
	if !s.enrollments.Exists(studentID, courseCode) {
		return nil, appErrors.NotFound("enrollment", models.EnrollmentKey(studentID, courseCode))
	}
	if err := s.grades.Insert(grade); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.GradeRecorded()
	}
	s.recomputeGPA(studentID)
	s.logger.Info("grade recorded",
		zap.String("student_id", studentID), zap.String("course_code", courseCode),
		zap.Float64("marks", marks), zap.String("letter", string(grade.Letter)))
	return grade, nil
}

// UpdateGrade overwrites the marks of an existing grade; letter and
// points follow atomically.
func (s *GradeService) UpdateGrade(ctx context.Context, studentID, courseCode string, marks float64) (*models.Grade, error) {
	unlock := s.locks.Lock(studentID)
	defer unlock()

	if marks < 0 || marks > 100 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "marks must be between 0 and 100")
	}
	grade, ok := s.grades.Get(studentID, courseCode)
	if !ok {
		return nil, appErrors.NotFound("grade", models.EnrollmentKey(studentID, courseCode))
	}
	if err := grade.SetMarks(marks); err != nil {
		return nil, err
	}
	if err := s.grades.Put(grade); err != nil {
		return nil, err
	}
	s.recomputeGPA(studentID)
	return grade, nil
}

// DeleteGrade removes the grade and refreshes the student's GPA cache.
func (s *GradeService) DeleteGrade(ctx context.Context, studentID, courseCode string) error {
	unlock := s.locks.Lock(studentID)
	defer unlock()

	if err := s.grades.Remove(studentID, courseCode); err != nil {
		return err
	}
	s.recomputeGPA(studentID)
	return nil
}

// GetStudentGrades returns the student's grades sorted by course code.
func (s *GradeService) GetStudentGrades(ctx context.Context, studentID string) ([]models.Grade, error) {
	if _, ok := s.students.Get(studentID); !ok {
		return nil, appErrors.NotFound("student", studentID)
	}
	return s.grades.ListByStudent(studentID), nil
}

// GetCourseGrades returns the course's grades sorted by student ID.
func (s *GradeService) GetCourseGrades(ctx context.Context, courseCode string) ([]models.Grade, error) {
	if _, ok := s.courses.Get(courseCode); !ok {
		return nil, appErrors.NotFound("course", courseCode)
	}
	return s.grades.ListByCourse(courseCode), nil
}

// List returns every recorded grade.
func (s *GradeService) List(ctx context.Context) []models.Grade {
	return s.grades.List()
}

// HasGrade reports whether the pair has a recorded grade.
func (s *GradeService) HasGrade(ctx context.Context, studentID, courseCode string) bool {
	return s.grades.Exists(studentID, courseCode)
}

// CalculateGPA returns the credit-weighted mean of grade points over the
// student's grades. Grades whose course no longer exists in the catalog
// are skipped, not zero-weighted.
func (s *GradeService) CalculateGPA(ctx context.Context, studentID string) (float64, error) {
	if _, ok := s.students.Get(studentID); !ok {
		return 0, appErrors.NotFound("student", studentID)
	}
	return s.calculateGPA(studentID), nil
}

func (s *GradeService) calculateGPA(studentID string) float64 {
	qualityPoints := 0.0
	credits := 0
	for _, grade := range s.grades.ListByStudent(studentID) {
		course, ok := s.courses.Get(grade.CourseCode)
		if !ok {
			continue
		}
		qualityPoints += grade.GradePoints * float64(course.Credits)
		credits += course.Credits
	}
	if credits == 0 {
		return 0
	}
	return qualityPoints / float64(credits)
}

// CalculateCourseAverage returns the arithmetic mean of marks across a
// course's grades; 0.0 when none are recorded.
func (s *GradeService) CalculateCourseAverage(ctx context.Context, courseCode string) (float64, error) {
	grades, err := s.GetCourseGrades(ctx, courseCode)
	if err != nil {
		return 0, err
	}
	if len(grades) == 0 {
		return 0, nil
	}
	total := 0.0
	for _, grade := range grades {
		total += grade.Marks
	}
	return total / float64(len(grades)), nil
}

// CourseDistribution counts letter grades for one course.
func (s *GradeService) CourseDistribution(ctx context.Context, courseCode string) (map[models.LetterGrade]int, error) {
	grades, err := s.GetCourseGrades(ctx, courseCode)
	if err != nil {
		return nil, err
	}
	distribution := make(map[models.LetterGrade]int)
	for _, grade := range grades {
		distribution[grade.Letter]++
	}
	return distribution, nil
}

// Statistics summarises the entire grade population.
func (s *GradeService) Statistics(ctx context.Context) models.GradeStatistics {
	all := s.grades.List()
	stats := models.GradeStatistics{
		Total:        len(all),
		Distribution: make(map[models.LetterGrade]int),
	}
	if len(all) == 0 {
		return stats
	}
	totalMarks := 0.0
	passing := 0
	for _, grade := range all {
		totalMarks += grade.Marks
		stats.Distribution[grade.Letter]++
		if grade.Letter.Passing() {
			passing++
		}
	}
	stats.AverageMarks = totalMarks / float64(len(all))
	stats.PassRate = float64(passing) * 100 / float64(len(all))
	return stats
}

// recomputeGPA refreshes the student's cached GPA. The grade collection
// is the source of truth; a failed cache refresh is logged and counted
// but never fails the calling operation.
func (s *GradeService) recomputeGPA(studentID string) {
	student, ok := s.students.Get(studentID)
	if !ok {
		s.gpaRecomputeFailed(studentID, appErrors.NotFound("student", studentID))
		return
	}
	student.GPA = s.calculateGPA(studentID)
	if err := s.students.Update(student); err != nil {
		s.gpaRecomputeFailed(studentID, err)
	}
}

func (s *GradeService) gpaRecomputeFailed(studentID string, err error) {
	if s.metrics != nil {
		s.metrics.GPARecomputeFailed()
	}
	s.logger.Warn("gpa recompute failed", zap.String("student_id", studentID), zap.Error(err))
}
