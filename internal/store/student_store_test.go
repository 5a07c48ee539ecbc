package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/ccrm-api/internal/models"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

func newStudent(t *testing.T, id, regNo, name string) *models.Student {
	t.Helper()
	student, err := models.NewStudent(id, regNo, name, id+"@example.edu")
	require.NoError(t, err)
	return student
}

func TestStudentStoreInsertRejectsDuplicates(t *testing.T) {
	s := NewStudentStore()
	require.NoError(t, s.Insert(newStudent(t, "S1", "2026-001", "Aditi Rao")))

	err := s.Insert(newStudent(t, "S1", "2026-002", "Someone Else"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEntity.Code, appErrors.FromError(err).Code)

	err = s.Insert(newStudent(t, "S2", "2026-001", "Someone Else"))
	require.Error(t, err, "registration numbers are unique")
}

func TestStudentStoreGetReturnsCopy(t *testing.T) {
	s := NewStudentStore()
	require.NoError(t, s.Insert(newStudent(t, "S1", "2026-001", "Aditi Rao")))

	got, ok := s.Get("S1")
	require.True(t, ok)
	got.FullName = "Mutated"

	again, _ := s.Get("S1")
	assert.Equal(t, "Aditi Rao", again.FullName)
}

func TestStudentStoreUpdate(t *testing.T) {
	s := NewStudentStore()
	require.NoError(t, s.Insert(newStudent(t, "S1", "2026-001", "Aditi Rao")))

	updated := newStudent(t, "S1", "2026-001", "Aditi R. Rao")
	require.NoError(t, s.Update(updated))

	got, _ := s.Get("S1")
	assert.Equal(t, "Aditi R. Rao", got.FullName)

	err := s.Update(newStudent(t, "S9", "2026-009", "Ghost"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentStoreListSortedByName(t *testing.T) {
	s := NewStudentStore()
	require.NoError(t, s.Insert(newStudent(t, "S3", "2026-003", "charlie")))
	require.NoError(t, s.Insert(newStudent(t, "S1", "2026-001", "Bravo")))
	require.NoError(t, s.Insert(newStudent(t, "S2", "2026-002", "alpha")))

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].FullName)
	assert.Equal(t, "Bravo", list[1].FullName)
	assert.Equal(t, "charlie", list[2].FullName)
}

func TestStudentStoreDelete(t *testing.T) {
	s := NewStudentStore()
	require.NoError(t, s.Insert(newStudent(t, "S1", "2026-001", "Aditi Rao")))
	require.NoError(t, s.Delete("S1"))
	_, ok := s.Get("S1")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Count())

	// regNo index must be released with the record
	require.NoError(t, s.Insert(newStudent(t, "S2", "2026-001", "New Holder")))
}
