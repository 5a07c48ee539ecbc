package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusworks/ccrm-api/internal/models"
	"github.com/campusworks/ccrm-api/internal/service"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
	"github.com/campusworks/ccrm-api/pkg/response"
)

// StudentHandler exposes the student directory endpoints.
type StudentHandler struct {
	students    *service.StudentService
	enrollments *service.EnrollmentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, enrollments *service.EnrollmentService) *StudentHandler {
	return &StudentHandler{students: students, enrollments: enrollments}
}

// List returns students, optionally filtered by name/email/status/GPA range.
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Name:   c.Query("name"),
		Email:  c.Query("email"),
		Status: models.StudentStatus(c.Query("status")),
	}
	if raw := c.Query("minGpa"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinGPA = &v
		}
	}
	if raw := c.Query("maxGpa"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxGPA = &v
		}
	}
	if filter.Status != "" && !models.ValidStudentStatus(filter.Status) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown student status "+string(filter.Status)))
		return
	}
	students := h.students.AdvancedSearch(c.Request.Context(), filter)
	response.JSON(c, http.StatusOK, students, nil)
}

// Get returns one student by ID.
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create registers a student.
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update modifies a student's mutable fields.
func (h *StudentHandler) Update(c *gin.Context) {
	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Deactivate flips the student INACTIVE, keeping the record.
func (h *StudentHandler) Deactivate(c *gin.Context) {
	if err := h.students.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete removes the student record entirely.
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Credits reports the student's re-derived credit load.
func (h *StudentHandler) Credits(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.students.Get(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	credits := h.enrollments.CreditCount(c.Request.Context(), id)
	response.JSON(c, http.StatusOK, gin.H{"student_id": id, "current_credits": credits}, nil)
}

// Statistics counts students per status.
func (h *StudentHandler) Statistics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.students.Statistics(c.Request.Context()), nil)
}
