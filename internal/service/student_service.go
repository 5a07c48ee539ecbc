package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusworks/ccrm-api/internal/models"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

type studentStore interface {
	Insert(student *models.Student) error
	Get(id string) (*models.Student, bool)
	Update(student *models.Student) error
	Delete(id string) error
	List() []models.Student
	ListByStatus(status models.StudentStatus) []models.Student
	Search(match func(models.Student) bool) []models.Student
}

// CreateStudentRequest holds the payload for registering students.
type CreateStudentRequest struct {
	ID       string `json:"id"`
	RegNo    string `json:"reg_no" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateStudentRequest holds the payload for updating students. Identity
// fields (ID, RegNo) are not updatable.
type UpdateStudentRequest struct {
	FullName string               `json:"full_name" validate:"required"`
	Email    string               `json:"email" validate:"required,email"`
	Status   models.StudentStatus `json:"status" validate:"required"`
}

// StudentService is the student directory: CRUD and search over Student
// records plus the read-side eligibility helpers.
type StudentService struct {
	store      studentStore
	maxCredits int
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewStudentService constructs the student directory service.
func NewStudentService(store studentStore, maxCredits int, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxCredits <= 0 {
		maxCredits = 18
	}
	return &StudentService{store: store, maxCredits: maxCredits, validator: validate, logger: logger}
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := models.NewStudent(req.ID, req.RegNo, req.FullName, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(student); err != nil {
		return nil, err
	}
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("reg_no", student.RegNo))
	return student, nil
}

// Get returns a student by ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.NotFound("student", id)
	}
	return student, nil
}

// List returns all students sorted by name.
func (s *StudentService) List(ctx context.Context) []models.Student {
	return s.store.List()
}

// ListByStatus returns students with the given status.
func (s *StudentService) ListByStatus(ctx context.Context, status models.StudentStatus) ([]models.Student, error) {
	if !models.ValidStudentStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown student status "+string(status))
	}
	return s.store.ListByStatus(status), nil
}

// Update modifies the mutable fields of an existing student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if !models.ValidStudentStatus(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown student status "+string(req.Status))
	}
	student, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.NotFound("student", id)
	}
	student.FullName = strings.TrimSpace(req.FullName)
	student.Email = strings.TrimSpace(req.Email)
	student.Status = req.Status
	if err := s.store.Update(student); err != nil {
		return nil, err
	}
	return student, nil
}

// Deactivate flips the status to INACTIVE without removing the record.
func (s *StudentService) Deactivate(ctx context.Context, id string) error {
	student, ok := s.store.Get(id)
	if !ok {
		return appErrors.NotFound("student", id)
	}
	student.Status = models.StudentStatusInactive
	return s.store.Update(student)
}

// Delete removes the record entirely, as distinct from deactivation.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(id)
}

// SearchByName returns students whose name contains the given fragment.
func (s *StudentService) SearchByName(ctx context.Context, namePart string) []models.Student {
	term := strings.ToLower(strings.TrimSpace(namePart))
	return s.store.Search(func(st models.Student) bool {
		return strings.Contains(strings.ToLower(st.FullName), term)
	})
}

// SearchByEmail returns students whose email contains the given fragment.
func (s *StudentService) SearchByEmail(ctx context.Context, emailPart string) []models.Student {
	term := strings.ToLower(strings.TrimSpace(emailPart))
	return s.store.Search(func(st models.Student) bool {
		return strings.Contains(strings.ToLower(st.Email), term)
	})
}

// Search applies an arbitrary predicate.
func (s *StudentService) Search(ctx context.Context, match func(models.Student) bool) []models.Student {
	return s.store.Search(match)
}

// AdvancedSearch combines the optional filter criteria.
func (s *StudentService) AdvancedSearch(ctx context.Context, filter models.StudentFilter) []models.Student {
	name := strings.ToLower(strings.TrimSpace(filter.Name))
	email := strings.ToLower(strings.TrimSpace(filter.Email))
	return s.store.Search(func(st models.Student) bool {
		if name != "" && !strings.Contains(strings.ToLower(st.FullName), name) {
			return false
		}
		if email != "" && !strings.Contains(strings.ToLower(st.Email), email) {
			return false
		}
		if filter.Status != "" && st.Status != filter.Status {
			return false
		}
		if filter.MinGPA != nil && st.GPA < *filter.MinGPA {
			return false
		}
		if filter.MaxGPA != nil && st.GPA > *filter.MaxGPA {
			return false
		}
		return true
	})
}

// CanEnroll is a quick eligibility probe against the cached student
// fields. The enrollment engine re-derives credits authoritatively.
func (s *StudentService) CanEnroll(ctx context.Context, studentID, courseCode string) bool {
	student, ok := s.store.Get(studentID)
	if !ok {
		return false
	}
	if !student.EligibleForEnrollment() {
		return false
	}
	if student.HasCourse(courseCode) {
		return false
	}
	return student.TotalCredits < s.maxCredits
}

// CurrentCredits returns the cached credit total; 0 for unknown students.
func (s *StudentService) CurrentCredits(ctx context.Context, studentID string) int {
	student, ok := s.store.Get(studentID)
	if !ok {
		return 0
	}
	return student.TotalCredits
}

// Statistics counts students per status.
func (s *StudentService) Statistics(ctx context.Context) map[models.StudentStatus]int {
	stats := make(map[models.StudentStatus]int)
	for _, student := range s.store.List() {
		stats[student.Status]++
	}
	return stats
}
