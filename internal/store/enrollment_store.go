package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/campusworks/ccrm-api/internal/models"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

// EnrollmentStore owns Enrollment records keyed by the composite
// (studentID, courseCode) pair.
type EnrollmentStore struct {
	mu          sync.RWMutex
	enrollments map[string]models.Enrollment
}

// NewEnrollmentStore returns an empty store.
func NewEnrollmentStore() *EnrollmentStore {
	return &EnrollmentStore{enrollments: make(map[string]models.Enrollment)}
}

// Insert adds a record for the pair. Any existing record, regardless of
// status, blocks the insert.
func (s *EnrollmentStore) Insert(enrollment *models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := enrollment.Key()
	if _, ok := s.enrollments[key]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateEnrollment,
			"student "+enrollment.StudentID+" already has an enrollment record for course "+enrollment.CourseCode)
	}
	s.enrollments[key] = *enrollment
	return nil
}

// Get returns the enrollment for the pair, or ok=false.
func (s *EnrollmentStore) Get(studentID, courseCode string) (*models.Enrollment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enrollment, ok := s.enrollments[models.EnrollmentKey(studentID, courseCode)]
	if !ok {
		return nil, false
	}
	clone := enrollment
	return &clone, true
}

// Exists reports whether the pair has a record of any status.
func (s *EnrollmentStore) Exists(studentID, courseCode string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.enrollments[models.EnrollmentKey(studentID, courseCode)]
	return ok
}

// Remove deletes the record for the pair.
func (s *EnrollmentStore) Remove(studentID, courseCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.EnrollmentKey(studentID, courseCode)
	if _, ok := s.enrollments[key]; !ok {
		return appErrors.NotFound("enrollment", key)
	}
	delete(s.enrollments, key)
	return nil
}

// UpdateStatus transitions the record's status.
func (s *EnrollmentStore) UpdateStatus(studentID, courseCode string, status models.EnrollmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.EnrollmentKey(studentID, courseCode)
	enrollment, ok := s.enrollments[key]
	if !ok {
		return appErrors.NotFound("enrollment", key)
	}
	enrollment.Status = status
	s.enrollments[key] = enrollment
	return nil
}

// ListByStudent returns the student's records sorted by course code.
func (s *EnrollmentStore) ListByStudent(studentID string) []models.Enrollment {
	result := s.list(func(e models.Enrollment) bool { return e.StudentID == studentID })
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].CourseCode) < strings.ToLower(result[j].CourseCode)
	})
	return result
}

// ListByCourse returns the course's records sorted by student ID.
func (s *EnrollmentStore) ListByCourse(courseCode string) []models.Enrollment {
	result := s.list(func(e models.Enrollment) bool { return e.CourseCode == courseCode })
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].StudentID) < strings.ToLower(result[j].StudentID)
	})
	return result
}

// List returns every record sorted by composite key.
func (s *EnrollmentStore) List() []models.Enrollment {
	result := s.list(func(models.Enrollment) bool { return true })
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key() < result[j].Key()
	})
	return result
}

func (s *EnrollmentStore) list(match func(models.Enrollment) bool) []models.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Enrollment, 0)
	for _, enrollment := range s.enrollments {
		if match(enrollment) {
			result = append(result, enrollment)
		}
	}
	return result
}
