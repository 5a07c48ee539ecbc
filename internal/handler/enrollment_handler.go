package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusworks/ccrm-api/internal/models"
	"github.com/campusworks/ccrm-api/internal/service"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
	"github.com/campusworks/ccrm-api/pkg/response"
)

// EnrollmentHandler exposes the enrollment engine over HTTP.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

type enrollRequest struct {
	StudentID  string `json:"student_id" binding:"required"`
	CourseCode string `json:"course_code" binding:"required"`
}

// Enroll registers a student in a course, enforcing credit and duplicate rules.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), req.StudentID, req.CourseCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Unenroll removes an enrollment record.
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	if err := h.enrollments.Unenroll(c.Request.Context(), c.Param("id"), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ByStudent lists a student's enrollments.
func (h *EnrollmentHandler) ByStudent(c *gin.Context) {
	enrollments, err := h.enrollments.GetStudentEnrollments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// ByCourse lists a course's roster.
func (h *EnrollmentHandler) ByCourse(c *gin.Context) {
	enrollments, err := h.enrollments.GetCourseEnrollments(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// List returns every enrollment record.
func (h *EnrollmentHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.enrollments.List(c.Request.Context()), nil)
}

type enrollmentStatusRequest struct {
	Status models.EnrollmentStatus `json:"status" binding:"required"`
}

// UpdateStatus transitions an enrollment's lifecycle status.
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	var req enrollmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.enrollments.UpdateStatus(c.Request.Context(), c.Param("id"), c.Param("code"), req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Statistics summarizes enrollment volume.
func (h *EnrollmentHandler) Statistics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.enrollments.Statistics(c.Request.Context()), nil)
}
