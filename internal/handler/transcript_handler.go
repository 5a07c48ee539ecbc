package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusworks/ccrm-api/internal/middleware"
	"github.com/campusworks/ccrm-api/internal/service"
	"github.com/campusworks/ccrm-api/pkg/response"
)

// TranscriptHandler renders official transcripts in JSON, text, CSV and PDF.
type TranscriptHandler struct {
	transcripts *service.TranscriptService
}

// NewTranscriptHandler constructs TranscriptHandler.
func NewTranscriptHandler(transcripts *service.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{transcripts: transcripts}
}

// Get returns the structured transcript.
func (h *TranscriptHandler) Get(c *gin.Context) {
	transcript, err := h.transcripts.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transcript, nil, middleware.ExtractMeta(c))
}

// Text streams the plain-text report.
func (h *TranscriptHandler) Text(c *gin.Context) {
	text, err := h.transcripts.RenderText(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// CSV streams the transcript rows as a CSV attachment.
func (h *TranscriptHandler) CSV(c *gin.Context) {
	id := c.Param("id")
	data, err := h.transcripts.RenderCSV(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=transcript_%s.csv", id))
	c.Data(http.StatusOK, "text/csv", data)
}

// PDF streams the transcript as a PDF attachment.
func (h *TranscriptHandler) PDF(c *gin.Context) {
	id := c.Param("id")
	data, err := h.transcripts.RenderPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=transcript_%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", data)
}
