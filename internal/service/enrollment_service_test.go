package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/ccrm-api/internal/models"
	"github.com/campusworks/ccrm-api/internal/store"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

type enrollmentFixture struct {
	students    *store.StudentStore
	courses     *store.CourseStore
	enrollments *store.EnrollmentStore
	svc         *EnrollmentService
}

func newEnrollmentFixture(t *testing.T) *enrollmentFixture {
	t.Helper()
	f := &enrollmentFixture{
		students:    store.NewStudentStore(),
		courses:     store.NewCourseStore(),
		enrollments: store.NewEnrollmentStore(),
	}
	f.svc = NewEnrollmentService(f.enrollments, f.students, f.courses, 18, nil, nil, nil)
	return f
}

func (f *enrollmentFixture) addStudent(t *testing.T, id string) {
	t.Helper()
	student, err := models.NewStudent(id, "reg-"+id, "Student "+id, id+"@example.edu")
	require.NoError(t, err)
	require.NoError(t, f.students.Insert(student))
}

func (f *enrollmentFixture) addCourse(t *testing.T, code string, credits int) {
	t.Helper()
	course, err := models.NewCourse(code, "Course "+code, credits, "GEN", models.SemesterFall)
	require.NoError(t, err)
	require.NoError(t, f.courses.Insert(course))
}

func TestEnrollSuccessUpdatesStudent(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.addStudent(t, "S1")
	f.addCourse(t, "CS101", 3)

	enrollment, err := f.svc.Enroll(context.Background(), "S1", "CS101")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusEnrolled, enrollment.Status)

	student, _ := f.students.Get("S1")
	assert.Equal(t, []string{"CS101"}, student.EnrolledCourses)
	assert.Equal(t, 3, student.TotalCredits)
}

func TestEnrollUnknownStudent(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.addCourse(t, "CS101", 3)

	_, err := f.svc.Enroll(context.Background(), "ghost", "CS101")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.enrollments.List())
}

func TestEnrollIneligibleStudent(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.addStudent(t, "S1")
	f.addCourse(t, "CS101", 3)

	student, _ := f.students.Get("S1")
	student.Status = models.StudentStatusSuspended
	require.NoError(t, f.students.Update(student))

	_, err := f.svc.Enroll(context.Background(), "S1", "CS101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not eligible")
	assert.Empty(t, f.enrollments.List())
}

func TestEnrollDuplicateBlockedRegardlessOfStatus(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.addStudent(t, "S1")
	f.addCourse(t, "CS101", 3)

	_, err := f.svc.Enroll(context.Background(), "S1", "CS101")
	require.NoError(t, err)

	_, err = f.svc.Enroll(context.Background(), "S1", "CS101")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEnrollment.Code, appErrors.FromError(err).Code)

	// even a DROPPED record keeps blocking
	require.NoError(t, f.svc.UpdateStatus(context.Background(), "S1", "CS101", models.EnrollmentStatusDropped))
	_, err = f.svc.Enroll(context.Background(), "S1", "CS101")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEnrollment.Code, appErrors.FromError(err).Code)

	student, _ := f.students.Get("S1")
	assert.Equal(t, 3, student.TotalCredits, "rejected attempts must not change credits")
}

func TestEnrollCreditLimitExceeded(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.addStudent(t, "S1")
	f.addCourse(t, "CS101", 3)
	f.addCourse(t, "MA201", 6)
	f.addCourse(t, "PH110", 6)
	f.addCourse(t, "CH120", 5)

	for _, code := range []string{"CS101", "MA201", "PH110"} {
		_, err := f.svc.Enroll(context.Background(), "S1", code)
		require.NoError(t, err)
	}
	// 15 credits so far; 5 more would cross 18
	_, err := f.svc.Enroll(context.Background(), "S1", "CH120")
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCreditLimit.Code, typed.Code)
	assert.Equal(t, 15, typed.Details["current_credits"])
	assert.Equal(t, 5, typed.Details["attempted_credits"])
	assert.Equal(t, 18, typed.Details["max_credits"])

	student, _ := f.students.Get("S1")
	assert.Equal(t, 15, student.TotalCredits)
	assert.False(t, f.enrollments.Exists("S1", "CH120"))
}

func TestEnrollCreditCountSkipsDeletedCourses(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.addStudent(t, "S1")
	f.addCourse(t, "CS101", 6)
	f.addCourse(t, "MA201", 6)
	f.addCourse(t, "PH110", 6)

	for _, code := range []string{"CS101", "MA201"} {
		_, err := f.svc.Enroll(context.Background(), "S1", code)
		require.NoError(t, err)
	}
	// deleting CS101 frees its 6 credits from the derived load
	require.NoError(t, f.courses.Delete("CS101"))
	assert.Equal(t, 6, f.svc.CreditCount(context.Background(), "S1"))

	_, err := f.svc.Enroll(context.Background(), "S1", "PH110")
	require.NoError(t, err)
}

func TestUnenroll(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.addStudent(t, "S1")
	f.addCourse(t, "CS101", 3)

	_, err := f.svc.Enroll(context.Background(), "S1", "CS101")
	require.NoError(t, err)

	require.NoError(t, f.svc.Unenroll(context.Background(), "S1", "CS101"))
	assert.False(t, f.svc.IsEnrolled(context.Background(), "S1", "CS101"))

	student, _ := f.students.Get("S1")
	assert.Empty(t, student.EnrolledCourses)
	assert.Equal(t, 0, student.TotalCredits)

	err = f.svc.Unenroll(context.Background(), "S1", "CS101")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGetStudentEnrollmentsRequiresStudent(t *testing.T) {
	f := newEnrollmentFixture(t)
	_, err := f.svc.GetStudentEnrollments(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentStatistics(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.addStudent(t, "S1")
	f.addStudent(t, "S2")
	f.addCourse(t, "CS101", 3)

	for _, id := range []string{"S1", "S2"} {
		_, err := f.svc.Enroll(context.Background(), id, "CS101")
		require.NoError(t, err)
	}
	require.NoError(t, f.svc.UpdateStatus(context.Background(), "S2", "CS101", models.EnrollmentStatusCompleted))

	stats := f.svc.Statistics(context.Background())
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[models.EnrollmentStatusEnrolled])
	assert.Equal(t, 1, stats.ByStatus[models.EnrollmentStatusCompleted])
	assert.Equal(t, 2, stats.ByCourse["CS101"])
}
