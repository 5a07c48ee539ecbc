package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusworks/ccrm-api/internal/models"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

type enrollmentStore interface {
	Insert(enrollment *models.Enrollment) error
	Get(studentID, courseCode string) (*models.Enrollment, bool)
	Exists(studentID, courseCode string) bool
	Remove(studentID, courseCode string) error
	UpdateStatus(studentID, courseCode string, status models.EnrollmentStatus) error
	ListByStudent(studentID string) []models.Enrollment
	ListByCourse(courseCode string) []models.Enrollment
	List() []models.Enrollment
}

type studentDirectory interface {
	Get(id string) (*models.Student, bool)
	Update(student *models.Student) error
}

type courseCatalog interface {
	Get(code string) (*models.Course, bool)
}

type enrollmentMetrics interface {
	EnrollmentRecorded()
	EnrollmentRemoved()
}

// EnrollmentService is the enrollment engine: it owns the Enrollment
// records and enforces eligibility, duplicate and credit-limit rules
// across the student directory and course catalog.
type EnrollmentService struct {
	enrollments enrollmentStore
	students    studentDirectory
	courses     courseCatalog
	maxCredits  int
	locks       *StudentLocks
	metrics     enrollmentMetrics
	logger      *zap.Logger
}

// NewEnrollmentService constructs the enrollment engine. The locks
// argument may be shared with the grade engine so all per-student
// mutations serialise on the same mutex; nil creates a private set.
func NewEnrollmentService(enrollments enrollmentStore, students studentDirectory, courses courseCatalog, maxCredits int, locks *StudentLocks, metrics enrollmentMetrics, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locks == nil {
		locks = NewStudentLocks()
	}
	if maxCredits <= 0 {
		maxCredits = 18
	}
	return &EnrollmentService{
		enrollments: enrollments,
		students:    students,
		courses:     courses,
		maxCredits:  maxCredits,
		locks:       locks,
		metrics:     metrics,
		logger:      logger,
	}
}

// Enroll registers the student in the course, enforcing every business
// rule before any mutation. The student record update and the enrollment
// insert are the only multi-store step; if the student update fails the
// just-inserted enrollment is rolled back.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseCode string) (*models.Enrollment, error) {
	unlock := s.locks.Lock(studentID)
	defer unlock()

	student, ok := s.students.Get(studentID)
	if !ok {
		return nil, appErrors.NotFound("student", studentID)
	}
	if !student.EligibleForEnrollment() {
		e := appErrors.NotFound("student", studentID)
		e.Message = "student " + studentID + " is not eligible for enrollment"
		return nil, e
	}
	course, ok := s.courses.Get(courseCode)
	if !ok {
		return nil, appErrors.NotFound("course", courseCode)
	}
	// Any existing record blocks re-enrollment, dropped or not.
	if s.enrollments.Exists(studentID, courseCode) {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEnrollment,
			"student "+studentID+" already has an enrollment record for course "+courseCode)
	}
	currentCredits := s.creditCount(studentID)
	if currentCredits+course.Credits > s.maxCredits {
		return nil, appErrors.CreditLimitExceeded(studentID, currentCredits, course.Credits, s.maxCredits)
	}

	enrollment := models.NewEnrollment(studentID, courseCode)
	if err := s.enrollments.Insert(enrollment); err != nil {
		return nil, err
	}

	student.AddCourse(courseCode)
	student.TotalCredits = currentCredits + course.Credits
	if err := s.students.Update(student); err != nil {
		if rbErr := s.enrollments.Remove(studentID, courseCode); rbErr != nil {
			s.logger.Error("enrollment rollback failed",
				zap.String("student_id", studentID), zap.String("course_code", courseCode), zap.Error(rbErr))
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.EnrollmentRecorded()
	}
	s.logger.Info("student enrolled",
		zap.String("student_id", studentID), zap.String("course_code", courseCode),
		zap.Int("total_credits", student.TotalCredits))
	return enrollment, nil
}

// Unenroll removes the enrollment record entirely and unwinds the
// student's cached course set and credit total. The decrement step has
// no compensating rollback.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, courseCode string) error {
	unlock := s.locks.Lock(studentID)
	defer unlock()

	if !s.enrollments.Exists(studentID, courseCode) {
		return appErrors.NotFound("enrollment", models.EnrollmentKey(studentID, courseCode))
	}
	if err := s.enrollments.Remove(studentID, courseCode); err != nil {
		return err
	}

	student, ok := s.students.Get(studentID)
	if !ok {
		return appErrors.NotFound("student", studentID)
	}
	course, ok := s.courses.Get(courseCode)
	if !ok {
		return appErrors.NotFound("course", courseCode)
	}
	student.RemoveCourse(courseCode)
	student.TotalCredits -= course.Credits
	if student.TotalCredits < 0 {
		student.TotalCredits = 0
	}
	if err := s.students.Update(student); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.EnrollmentRemoved()
	}
	s.logger.Info("student unenrolled",
		zap.String("student_id", studentID), zap.String("course_code", courseCode))
	return nil
}

// GetStudentEnrollments returns the student's records sorted by course code.
func (s *EnrollmentService) GetStudentEnrollments(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	if _, ok := s.students.Get(studentID); !ok {
		return nil, appErrors.NotFound("student", studentID)
	}
	return s.enrollments.ListByStudent(studentID), nil
}

// GetCourseEnrollments returns the course's records sorted by student ID.
func (s *EnrollmentService) GetCourseEnrollments(ctx context.Context, courseCode string) ([]models.Enrollment, error) {
	if _, ok := s.courses.Get(courseCode); !ok {
		return nil, appErrors.NotFound("course", courseCode)
	}
	return s.enrollments.ListByCourse(courseCode), nil
}

// List returns every enrollment record.
func (s *EnrollmentService) List(ctx context.Context) []models.Enrollment {
	return s.enrollments.List()
}

// IsEnrolled reports whether the pair has a record of any status.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, studentID, courseCode string) bool {
	return s.enrollments.Exists(studentID, courseCode)
}

// CreditCount re-derives the student's current credit load from the
// enrollment records and the catalog. A course deleted after enrollment
// contributes 0.
func (s *EnrollmentService) CreditCount(ctx context.Context, studentID string) int {
	return s.creditCount(studentID)
}

func (s *EnrollmentService) creditCount(studentID string) int {
	total := 0
	for _, enrollment := range s.enrollments.ListByStudent(studentID) {
		if course, ok := s.courses.Get(enrollment.CourseCode); ok {
			total += course.Credits
		}
	}
	return total
}

// UpdateStatus transitions an enrollment's status. Physical removal goes
// through Unenroll, never through a status value.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, studentID, courseCode string, status models.EnrollmentStatus) error {
	if !models.ValidEnrollmentStatus(status) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown enrollment status "+string(status))
	}
	return s.enrollments.UpdateStatus(studentID, courseCode, status)
}

// Statistics summarises the enrollment population by status and course.
func (s *EnrollmentService) Statistics(ctx context.Context) models.EnrollmentStatistics {
	all := s.enrollments.List()
	stats := models.EnrollmentStatistics{
		Total:    len(all),
		ByStatus: make(map[models.EnrollmentStatus]int),
		ByCourse: make(map[string]int),
	}
	for _, enrollment := range all {
		stats.ByStatus[enrollment.Status]++
		stats.ByCourse[enrollment.CourseCode]++
	}
	return stats
}
