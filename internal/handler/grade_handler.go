package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusworks/ccrm-api/internal/service"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
	"github.com/campusworks/ccrm-api/pkg/response"
)

// GradeHandler exposes the grading engine over HTTP.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

type recordGradeRequest struct {
	StudentID  string  `json:"student_id" binding:"required"`
	CourseCode string  `json:"course_code" binding:"required"`
	Marks      float64 `json:"marks"`
}

// Record stores a grade for an enrolled student.
func (h *GradeHandler) Record(c *gin.Context) {
	var req recordGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.RecordGrade(c.Request.Context(), req.StudentID, req.CourseCode, req.Marks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grade)
}

type updateGradeRequest struct {
	Marks float64 `json:"marks"`
}

// Update replaces the marks of an existing grade.
func (h *GradeHandler) Update(c *gin.Context) {
	var req updateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.UpdateGrade(c.Request.Context(), c.Param("id"), c.Param("code"), req.Marks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Delete removes a grade and recomputes the student's GPA.
func (h *GradeHandler) Delete(c *gin.Context) {
	if err := h.grades.DeleteGrade(c.Request.Context(), c.Param("id"), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ByStudent lists a student's grades.
func (h *GradeHandler) ByStudent(c *gin.Context) {
	grades, err := h.grades.GetStudentGrades(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// ByCourse lists grades recorded for a course.
func (h *GradeHandler) ByCourse(c *gin.Context) {
	grades, err := h.grades.GetCourseGrades(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// GPA returns the credit-weighted GPA for a student.
func (h *GradeHandler) GPA(c *gin.Context) {
	id := c.Param("id")
	gpa, err := h.grades.CalculateGPA(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"student_id": id, "gpa": gpa}, nil)
}

// CourseAverage returns the mean marks for a course.
func (h *GradeHandler) CourseAverage(c *gin.Context) {
	code := c.Param("code")
	avg, err := h.grades.CalculateCourseAverage(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"course_code": code, "average_marks": avg}, nil)
}

// CourseDistribution returns the letter-grade histogram for a course.
func (h *GradeHandler) CourseDistribution(c *gin.Context) {
	dist, err := h.grades.CourseDistribution(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dist, nil)
}

// Statistics summarizes grading volume and outcomes.
func (h *GradeHandler) Statistics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.grades.Statistics(c.Request.Context()), nil)
}
