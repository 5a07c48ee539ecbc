// Package store holds the in-memory, mutex-guarded collections that own
// the registrar's entities. Each store is the single owner of its entity
// type; engines coordinate cross-entity rules on top.
package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/campusworks/ccrm-api/internal/models"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

// StudentStore owns Student records, keyed by student ID. Safe for
// concurrent callers.
type StudentStore struct {
	mu       sync.RWMutex
	students map[string]models.Student
	byRegNo  map[string]string
}

// NewStudentStore returns an empty store.
func NewStudentStore() *StudentStore {
	return &StudentStore{
		students: make(map[string]models.Student),
		byRegNo:  make(map[string]string),
	}
}

// Insert adds a new student. Both ID and RegNo must be unused.
func (s *StudentStore) Insert(student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[student.ID]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateEntity, "student "+student.ID+" already exists")
	}
	if _, ok := s.byRegNo[student.RegNo]; ok {
		return appErrors.Clone(appErrors.ErrDuplicateEntity, "registration number "+student.RegNo+" already used")
	}
	s.students[student.ID] = *student.Clone()
	s.byRegNo[student.RegNo] = student.ID
	return nil
}

// Get returns the student, or ok=false when absent.
func (s *StudentStore) Get(id string) (*models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.students[id]
	if !ok {
		return nil, false
	}
	return student.Clone(), true
}

// Update replaces an existing student. The ID must already exist; the
// registration number may change as long as it stays unique.
func (s *StudentStore) Update(student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.students[student.ID]
	if !ok {
		return appErrors.NotFound("student", student.ID)
	}
	if student.RegNo != current.RegNo {
		if owner, taken := s.byRegNo[student.RegNo]; taken && owner != student.ID {
			return appErrors.Clone(appErrors.ErrDuplicateEntity, "registration number "+student.RegNo+" already used")
		}
		delete(s.byRegNo, current.RegNo)
		s.byRegNo[student.RegNo] = student.ID
	}
	s.students[student.ID] = *student.Clone()
	return nil
}

// Delete removes the student entirely.
func (s *StudentStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	student, ok := s.students[id]
	if !ok {
		return appErrors.NotFound("student", id)
	}
	delete(s.students, id)
	delete(s.byRegNo, student.RegNo)
	return nil
}

// List returns all students sorted by name.
func (s *StudentStore) List() []models.Student {
	return s.Search(func(models.Student) bool { return true })
}

// ListByStatus returns students with the given status, sorted by name.
func (s *StudentStore) ListByStatus(status models.StudentStatus) []models.Student {
	return s.Search(func(st models.Student) bool { return st.Status == status })
}

// Search returns students matching the predicate, sorted by full name
// case-insensitively (registration number breaks ties) so output never
// depends on map iteration order.
func (s *StudentStore) Search(match func(models.Student) bool) []models.Student {
	s.mu.RLock()
	result := make([]models.Student, 0)
	for _, student := range s.students {
		if match(student) {
			result = append(result, *student.Clone())
		}
	}
	s.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		a, b := strings.ToLower(result[i].FullName), strings.ToLower(result[j].FullName)
		if a != b {
			return a < b
		}
		return result[i].RegNo < result[j].RegNo
	})
	return result
}

// Count returns the number of stored students.
func (s *StudentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students)
}
