package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/ccrm-api/internal/models"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

func TestEnrollmentStoreInsertBlocksAnyExistingRecord(t *testing.T) {
	s := NewEnrollmentStore()
	require.NoError(t, s.Insert(models.NewEnrollment("S1", "CS101")))

	// a DROPPED record still blocks re-enrollment
	require.NoError(t, s.UpdateStatus("S1", "CS101", models.EnrollmentStatusDropped))
	err := s.Insert(models.NewEnrollment("S1", "CS101"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEnrollment.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentStoreRemove(t *testing.T) {
	s := NewEnrollmentStore()
	require.NoError(t, s.Insert(models.NewEnrollment("S1", "CS101")))
	require.NoError(t, s.Remove("S1", "CS101"))
	assert.False(t, s.Exists("S1", "CS101"))

	err := s.Remove("S1", "CS101")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentStoreListByStudentSorted(t *testing.T) {
	s := NewEnrollmentStore()
	require.NoError(t, s.Insert(models.NewEnrollment("S1", "MA201")))
	require.NoError(t, s.Insert(models.NewEnrollment("S1", "CS101")))
	require.NoError(t, s.Insert(models.NewEnrollment("S2", "CS101")))

	list := s.ListByStudent("S1")
	require.Len(t, list, 2)
	assert.Equal(t, "CS101", list[0].CourseCode)
	assert.Equal(t, "MA201", list[1].CourseCode)

	roster := s.ListByCourse("CS101")
	require.Len(t, roster, 2)
	assert.Equal(t, "S1", roster[0].StudentID)
	assert.Equal(t, "S2", roster[1].StudentID)
}
