package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusworks/ccrm-api/internal/service"
	"github.com/campusworks/ccrm-api/pkg/jobs"
	"github.com/campusworks/ccrm-api/pkg/response"
)

// JobBackup is the queue job type for snapshot creation.
const JobBackup = "backup.create"

// BackupHandler manages on-disk snapshots of the records store.
type BackupHandler struct {
	backups *service.BackupService
	queue   *jobs.Queue
}

// NewBackupHandler constructs BackupHandler. The queue is optional; when nil
// backups run synchronously in the request.
func NewBackupHandler(backups *service.BackupService, queue *jobs.Queue) *BackupHandler {
	return &BackupHandler{backups: backups, queue: queue}
}

// Create snapshots all records. With a queue attached the work happens in the
// background and the handler answers 202.
func (h *BackupHandler) Create(c *gin.Context) {
	if h.queue != nil {
		job := jobs.Job{
			ID:       uuid.NewString(),
			Type:     JobBackup,
			Enqueued: time.Now(),
		}
		if err := h.queue.Enqueue(job); err == nil {
			response.JSON(c, http.StatusAccepted, gin.H{"job_id": job.ID, "status": "queued"}, nil)
			return
		}
		// fall through to the synchronous path when the queue is saturated
	}
	name, err := h.backups.Create(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"backup": name})
}

// List returns the existing snapshots, newest first.
func (h *BackupHandler) List(c *gin.Context) {
	backups, err := h.backups.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, backups, nil)
}

// Info reports name, timestamp and recursive size of one snapshot.
func (h *BackupHandler) Info(c *gin.Context) {
	info, err := h.backups.Info(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// Clean deletes snapshots beyond the configured retention count.
func (h *BackupHandler) Clean(c *gin.Context) {
	removed, err := h.backups.CleanOld(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed}, nil)
}
