package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusworks/ccrm-api/internal/middleware"
	"github.com/campusworks/ccrm-api/internal/service"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
	"github.com/campusworks/ccrm-api/pkg/response"
)

// ImportExportHandler drives CSV bulk loads and dumps.
type ImportExportHandler struct {
	importExport *service.ImportExportService
}

// NewImportExportHandler constructs ImportExportHandler.
func NewImportExportHandler(importExport *service.ImportExportService) *ImportExportHandler {
	return &ImportExportHandler{importExport: importExport}
}

type importRequest struct {
	Path string `json:"path" binding:"required"`
}

func (h *ImportExportHandler) runImport(c *gin.Context, run func(string) (*service.ImportResult, error)) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := run(req.Path)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ImportStudents loads students from a CSV file on disk.
func (h *ImportExportHandler) ImportStudents(c *gin.Context) {
	h.runImport(c, func(path string) (*service.ImportResult, error) {
		return h.importExport.ImportStudents(c.Request.Context(), path)
	})
}

// ImportCourses loads courses from a CSV file on disk.
func (h *ImportExportHandler) ImportCourses(c *gin.Context) {
	h.runImport(c, func(path string) (*service.ImportResult, error) {
		return h.importExport.ImportCourses(c.Request.Context(), path)
	})
}

// ImportEnrollments replays enrollment rows through the business rules.
func (h *ImportExportHandler) ImportEnrollments(c *gin.Context) {
	h.runImport(c, func(path string) (*service.ImportResult, error) {
		return h.importExport.ImportEnrollments(c.Request.Context(), path)
	})
}

// ImportGrades loads grades from a CSV file on disk.
func (h *ImportExportHandler) ImportGrades(c *gin.Context) {
	h.runImport(c, func(path string) (*service.ImportResult, error) {
		return h.importExport.ImportGrades(c.Request.Context(), path)
	})
}

// ExportAll writes every dataset to the export directory and lists the files.
func (h *ImportExportHandler) ExportAll(c *gin.Context) {
	files, err := h.importExport.ExportAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"files": files}, nil, middleware.ExtractMeta(c))
}
