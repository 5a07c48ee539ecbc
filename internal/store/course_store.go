package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/campusworks/ccrm-api/internal/models"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

// CourseStore owns Course records, keyed by course code.
type CourseStore struct {
	mu      sync.RWMutex
	courses map[string]models.Course
}

// NewCourseStore returns an empty store.
func NewCourseStore() *CourseStore {
	return &CourseStore{courses: make(map[string]models.Course)}
}

// Insert adds a new course; the code must be unused.
func (s *CourseStore) Insert(course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[course.Code]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateEntity, "course "+course.Code+" already exists")
	}
	s.courses[course.Code] = *course.Clone()
	return nil
}

// Get returns the course, or ok=false when absent.
func (s *CourseStore) Get(code string) (*models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[code]
	if !ok {
		return nil, false
	}
	return course.Clone(), true
}

// Update replaces an existing course.
func (s *CourseStore) Update(course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[course.Code]; !ok {
		return appErrors.NotFound("course", course.Code)
	}
	s.courses[course.Code] = *course.Clone()
	return nil
}

// Delete removes the course entirely.
func (s *CourseStore) Delete(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[code]; !ok {
		return appErrors.NotFound("course", code)
	}
	delete(s.courses, code)
	return nil
}

// List returns all courses sorted by code.
func (s *CourseStore) List() []models.Course {
	return s.Search(func(models.Course) bool { return true })
}

// ListActive returns active courses sorted by code.
func (s *CourseStore) ListActive() []models.Course {
	return s.Search(func(c models.Course) bool { return c.Active })
}

// Filter applies a CourseFilter and returns matches sorted by code.
func (s *CourseStore) Filter(filter models.CourseFilter) []models.Course {
	return s.Search(func(c models.Course) bool {
		if filter.ActiveOnly && !c.Active {
			return false
		}
		if filter.Department != "" && !strings.EqualFold(c.Department, filter.Department) {
			return false
		}
		if filter.Semester != "" && c.Semester != filter.Semester {
			return false
		}
		if filter.Instructor != "" && !strings.EqualFold(c.Instructor, filter.Instructor) {
			return false
		}
		if filter.Credits != nil && c.Credits != *filter.Credits {
			return false
		}
		return true
	})
}

// Search returns courses matching the predicate, sorted by code
// case-insensitively.
func (s *CourseStore) Search(match func(models.Course) bool) []models.Course {
	s.mu.RLock()
	result := make([]models.Course, 0)
	for _, course := range s.courses {
		if match(course) {
			result = append(result, *course.Clone())
		}
	}
	s.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Code) < strings.ToLower(result[j].Code)
	})
	return result
}

// Count returns the number of stored courses.
func (s *CourseStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses)
}
