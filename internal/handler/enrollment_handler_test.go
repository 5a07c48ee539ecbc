package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/ccrm-api/internal/models"
	"github.com/campusworks/ccrm-api/internal/service"
	"github.com/campusworks/ccrm-api/internal/store"
)

type apiFixture struct {
	students    *store.StudentStore
	courses     *store.CourseStore
	enrollments *store.EnrollmentStore
	grades      *store.GradeStore
	router      *gin.Engine
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &apiFixture{
		students:    store.NewStudentStore(),
		courses:     store.NewCourseStore(),
		enrollments: store.NewEnrollmentStore(),
		grades:      store.NewGradeStore(),
	}
	locks := service.NewStudentLocks()
	enrollmentSvc := service.NewEnrollmentService(f.enrollments, f.students, f.courses, 18, locks, nil, nil)
	gradeSvc := service.NewGradeService(f.grades, f.enrollments, f.students, f.courses, locks, nil, nil)

	enrollmentHandler := NewEnrollmentHandler(enrollmentSvc)
	gradeHandler := NewGradeHandler(gradeSvc)

	r := gin.New()
	r.POST("/enrollments", enrollmentHandler.Enroll)
	r.DELETE("/enrollments/:id/:code", enrollmentHandler.Unenroll)
	r.GET("/students/:id/enrollments", enrollmentHandler.ByStudent)
	r.POST("/grades", gradeHandler.Record)
	r.GET("/students/:id/gpa", gradeHandler.GPA)
	f.router = r
	return f
}

func (f *apiFixture) seed(t *testing.T, studentID, courseCode string, credits int) {
	t.Helper()
	if _, ok := f.students.Get(studentID); !ok {
		student, err := models.NewStudent(studentID, "reg-"+studentID, "Student "+studentID, studentID+"@example.edu")
		require.NoError(t, err)
		require.NoError(t, f.students.Insert(student))
	}
	if _, ok := f.courses.Get(courseCode); !ok {
		course, err := models.NewCourse(courseCode, "Course "+courseCode, credits, "GEN", models.SemesterFall)
		require.NoError(t, err)
		require.NoError(t, f.courses.Insert(course))
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestEnrollEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "S1", "CS101", 3)

	w := f.do(t, http.MethodPost, "/enrollments", gin.H{"student_id": "S1", "course_code": "CS101"})
	require.Equal(t, http.StatusCreated, w.Code)

	env := decodeEnvelope(t, w)
	require.Nil(t, env.Error)
	var enrollment models.Enrollment
	require.NoError(t, json.Unmarshal(env.Data, &enrollment))
	assert.Equal(t, models.EnrollmentStatusEnrolled, enrollment.Status)
}

func TestEnrollEndpointDuplicate(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "S1", "CS101", 3)

	w := f.do(t, http.MethodPost, "/enrollments", gin.H{"student_id": "S1", "course_code": "CS101"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodPost, "/enrollments", gin.H{"student_id": "S1", "course_code": "CS101"})
	require.Equal(t, http.StatusConflict, w.Code)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE_ENROLLMENT", env.Error.Code)
}

func TestEnrollEndpointCreditLimit(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "S1", "CS101", 6)
	f.seed(t, "S1", "MA201", 6)
	f.seed(t, "S1", "PH110", 6)
	f.seed(t, "S1", "CH120", 1)

	for _, code := range []string{"CS101", "MA201", "PH110"} {
		w := f.do(t, http.MethodPost, "/enrollments", gin.H{"student_id": "S1", "course_code": code})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := f.do(t, http.MethodPost, "/enrollments", gin.H{"student_id": "S1", "course_code": "CH120"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CREDIT_LIMIT_EXCEEDED", env.Error.Code)
	assert.Equal(t, float64(18), env.Error.Details["max_credits"])
}

func TestEnrollEndpointUnknownStudent(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/enrollments", gin.H{"student_id": "ghost", "course_code": "CS101"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrollEndpointBadPayload(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/enrollments", gin.H{"student_id": "S1"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestUnenrollEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "S1", "CS101", 3)

	w := f.do(t, http.MethodPost, "/enrollments", gin.H{"student_id": "S1", "course_code": "CS101"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodDelete, "/enrollments/S1/CS101", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, "/enrollments/S1/CS101", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordGradeEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "S1", "CS101", 3)

	w := f.do(t, http.MethodPost, "/enrollments", gin.H{"student_id": "S1", "course_code": "CS101"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodPost, "/grades", gin.H{"student_id": "S1", "course_code": "CS101", "marks": 92})
	require.Equal(t, http.StatusCreated, w.Code)

	env := decodeEnvelope(t, w)
	var grade models.Grade
	require.NoError(t, json.Unmarshal(env.Data, &grade))
	assert.Equal(t, models.GradeA, grade.Letter)

	// duplicate grade maps to 409
	w = f.do(t, http.MethodPost, "/grades", gin.H{"student_id": "S1", "course_code": "CS101", "marks": 80})
	require.Equal(t, http.StatusConflict, w.Code)

	// GPA endpoint reflects the record
	w = f.do(t, http.MethodGet, "/students/S1/gpa", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var gpaPayload struct {
		GPA float64 `json:"gpa"`
	}
	env = decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &gpaPayload))
	assert.InDelta(t, 4.0, gpaPayload.GPA, 1e-9)
}

func TestRecordGradeEndpointInvalidMarks(t *testing.T) {
	f := newAPIFixture(t)
	f.seed(t, "S1", "CS101", 3)

	w := f.do(t, http.MethodPost, "/enrollments", gin.H{"student_id": "S1", "course_code": "CS101"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodPost, "/grades", gin.H{"student_id": "S1", "course_code": "CS101", "marks": 120})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
