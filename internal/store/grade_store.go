package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/campusworks/ccrm-api/internal/models"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

// GradeStore owns Grade records, one per (studentID, courseCode) pair.
type GradeStore struct {
	mu     sync.RWMutex
	grades map[string]models.Grade
}

// NewGradeStore returns an empty store.
func NewGradeStore() *GradeStore {
	return &GradeStore{grades: make(map[string]models.Grade)}
}

// Insert adds a grade; recording twice for the same pair is a duplicate.
func (s *GradeStore) Insert(grade *models.Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := grade.Key()
	if _, ok := s.grades[key]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateEntity,
			"grade already recorded for student "+grade.StudentID+" in course "+grade.CourseCode)
	}
	s.grades[key] = *grade
	return nil
}

// Put overwrites an existing grade.
func (s *GradeStore) Put(grade *models.Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := grade.Key()
	if _, ok := s.grades[key]; !ok {
		return appErrors.NotFound("grade", key)
	}
	s.grades[key] = *grade
	return nil
}

// Get returns the grade for the pair, or ok=false.
func (s *GradeStore) Get(studentID, courseCode string) (*models.Grade, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grade, ok := s.grades[models.EnrollmentKey(studentID, courseCode)]
	if !ok {
		return nil, false
	}
	clone := grade
	return &clone, true
}

// Exists reports whether a grade is recorded for the pair.
func (s *GradeStore) Exists(studentID, courseCode string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.grades[models.EnrollmentKey(studentID, courseCode)]
	return ok
}

// Remove deletes the grade for the pair.
func (s *GradeStore) Remove(studentID, courseCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.EnrollmentKey(studentID, courseCode)
	if _, ok := s.grades[key]; !ok {
		return appErrors.NotFound("grade", key)
	}
	delete(s.grades, key)
	return nil
}

// ListByStudent returns the student's grades sorted by course code.
func (s *GradeStore) ListByStudent(studentID string) []models.Grade {
	result := s.list(func(g models.Grade) bool { return g.StudentID == studentID })
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].CourseCode) < strings.ToLower(result[j].CourseCode)
	})
	return result
}

// ListByCourse returns the course's grades sorted by student ID.
func (s *GradeStore) ListByCourse(courseCode string) []models.Grade {
	result := s.list(func(g models.Grade) bool { return g.CourseCode == courseCode })
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].StudentID) < strings.ToLower(result[j].StudentID)
	})
	return result
}

// List returns every grade sorted by composite key.
func (s *GradeStore) List() []models.Grade {
	result := s.list(func(models.Grade) bool { return true })
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key() < result[j].Key()
	})
	return result
}

func (s *GradeStore) list(match func(models.Grade) bool) []models.Grade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Grade, 0)
	for _, grade := range s.grades {
		if match(grade) {
			result = append(result, grade)
		}
	}
	return result
}
