package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusworks/ccrm-api/internal/models"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

type courseStore interface {
	Insert(course *models.Course) error
	Get(code string) (*models.Course, bool)
	Update(course *models.Course) error
	Delete(code string) error
	List() []models.Course
	ListActive() []models.Course
	Filter(filter models.CourseFilter) []models.Course
	Search(match func(models.Course) bool) []models.Course
}

// CreateCourseRequest holds the payload for adding catalog entries.
type CreateCourseRequest struct {
	Code       string          `json:"code" validate:"required"`
	Title      string          `json:"title" validate:"required"`
	Credits    int             `json:"credits" validate:"required"`
	Department string          `json:"department" validate:"required"`
	Semester   models.Semester `json:"semester" validate:"required"`
	Instructor string          `json:"instructor"`
}

// UpdateCourseRequest holds the payload for updating catalog entries.
// The course code is immutable.
type UpdateCourseRequest struct {
	Title      string          `json:"title" validate:"required"`
	Credits    int             `json:"credits" validate:"required"`
	Department string          `json:"department" validate:"required"`
	Semester   models.Semester `json:"semester" validate:"required"`
	Instructor string          `json:"instructor"`
}

// CourseService is the course catalog: CRUD and search over Course
// records, keyed by course code.
type CourseService struct {
	store     courseStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course catalog service.
func NewCourseService(store courseStore, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{store: store, validator: validate, logger: logger}
}

// Create adds a course to the catalog.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := models.NewCourse(req.Code, req.Title, req.Credits, req.Department, req.Semester)
	if err != nil {
		return nil, err
	}
	course.Instructor = strings.TrimSpace(req.Instructor)
	if err := s.store.Insert(course); err != nil {
		return nil, err
	}
	s.logger.Info("course created", zap.String("code", course.Code), zap.Int("credits", course.Credits))
	return course, nil
}

// Get returns a course by code.
func (s *CourseService) Get(ctx context.Context, code string) (*models.Course, error) {
	course, ok := s.store.Get(code)
	if !ok {
		return nil, appErrors.NotFound("course", code)
	}
	return course, nil
}

// List returns the whole catalog sorted by code.
func (s *CourseService) List(ctx context.Context) []models.Course {
	return s.store.List()
}

// ListActive returns only active offerings.
func (s *CourseService) ListActive(ctx context.Context) []models.Course {
	return s.store.ListActive()
}

// Update modifies the mutable fields of a course.
func (s *CourseService) Update(ctx context.Context, code string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if req.Credits < models.MinCourseCredits || req.Credits > models.MaxCourseCredits {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("credits must be between %d and %d: %d", models.MinCourseCredits, models.MaxCourseCredits, req.Credits))
	}
	if !models.ValidSemester(req.Semester) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown semester %q", req.Semester))
	}
	course, ok := s.store.Get(code)
	if !ok {
		return nil, appErrors.NotFound("course", code)
	}
	course.Title = strings.TrimSpace(req.Title)
	course.Credits = req.Credits
	course.Department = strings.TrimSpace(req.Department)
	course.Semester = req.Semester
	course.Instructor = strings.TrimSpace(req.Instructor)
	if err := s.store.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// Deactivate flips the offering inactive without removing it.
func (s *CourseService) Deactivate(ctx context.Context, code string) error {
	course, ok := s.store.Get(code)
	if !ok {
		return appErrors.NotFound("course", code)
	}
	course.Active = false
	return s.store.Update(course)
}

// Delete removes the course from the catalog entirely.
func (s *CourseService) Delete(ctx context.Context, code string) error {
	return s.store.Delete(code)
}

// AssignInstructor sets the instructor for a course.
func (s *CourseService) AssignInstructor(ctx context.Context, code, instructor string) (*models.Course, error) {
	instructor = strings.TrimSpace(instructor)
	if instructor == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "instructor name is required")
	}
	course, ok := s.store.Get(code)
	if !ok {
		return nil, appErrors.NotFound("course", code)
	}
	course.Instructor = instructor
	if err := s.store.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// Filter applies the catalog search criteria.
func (s *CourseService) Filter(ctx context.Context, filter models.CourseFilter) []models.Course {
	return s.store.Filter(filter)
}

// Search applies an arbitrary predicate.
func (s *CourseService) Search(ctx context.Context, match func(models.Course) bool) []models.Course {
	return s.store.Search(match)
}
