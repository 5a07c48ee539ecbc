package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusworks/ccrm-api/pkg/backup"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
	"github.com/campusworks/ccrm-api/pkg/export"
)

type datasetSource interface {
	StudentsDataset(ctx context.Context) export.Dataset
	CoursesDataset(ctx context.Context) export.Dataset
	EnrollmentsDataset(ctx context.Context) export.Dataset
	GradesDataset(ctx context.Context) export.Dataset
}

type backupMetrics interface {
	BackupCompleted()
}

// BackupInfo describes one stored backup.
type BackupInfo struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

type backupManifest struct {
	CreatedAt time.Time `json:"created_at"`
	Files     []string  `json:"files"`
}

// BackupService snapshots the registrar's data into timestamped
// directories: the four CSV exports plus a manifest.
type BackupService struct {
	source    datasetSource
	store     *backup.Store
	csv       csvRenderer
	keepCount int
	metrics   backupMetrics
	logger    *zap.Logger
}

// NewBackupService constructs the backup service.
func NewBackupService(source datasetSource, store *backup.Store, keepCount int, metrics backupMetrics, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keepCount <= 0 {
		keepCount = 10
	}
	return &BackupService{
		source:    source,
		store:     store,
		csv:       export.NewCSVExporter(),
		keepCount: keepCount,
		metrics:   metrics,
		logger:    logger,
	}
}

// Create writes a full snapshot and returns the backup name.
func (s *BackupService) Create(ctx context.Context) (string, error) {
	name, err := s.store.Begin(time.Now().UTC())
	if err != nil {
		return "", err
	}
	files := map[string]export.Dataset{
		"students.csv":    s.source.StudentsDataset(ctx),
		"courses.csv":     s.source.CoursesDataset(ctx),
		"enrollments.csv": s.source.EnrollmentsDataset(ctx),
		"grades.csv":      s.source.GradesDataset(ctx),
	}
	manifest := backupManifest{CreatedAt: time.Now().UTC()}
	for _, filename := range []string{"students.csv", "courses.csv", "enrollments.csv", "grades.csv"} {
		payload, err := s.csv.Render(files[filename])
		if err != nil {
			return "", fmt.Errorf("render %s: %w", filename, err)
		}
		if err := s.store.WriteFile(name, filename, payload); err != nil {
			return "", err
		}
		manifest.Files = append(manifest.Files, filename)
	}
	manifestPayload, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	if err := s.store.WriteFile(name, "manifest.json", manifestPayload); err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.BackupCompleted()
	}
	s.logger.Info("backup created", zap.String("backup", name))
	return name, nil
}

// List returns the stored backups, oldest first.
func (s *BackupService) List(ctx context.Context) ([]BackupInfo, error) {
	names, err := s.store.List()
	if err != nil {
		return nil, err
	}
	infos := make([]BackupInfo, 0, len(names))
	for _, name := range names {
		info, err := s.Info(ctx, name)
		if err != nil {
			s.logger.Warn("skipping unreadable backup", zap.String("backup", name), zap.Error(err))
			continue
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// Info returns metadata for one backup.
func (s *BackupService) Info(ctx context.Context, name string) (*BackupInfo, error) {
	if !s.store.Exists(name) {
		return nil, appErrors.NotFound("backup", name)
	}
	createdAt, err := backup.CreatedAt(name)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	size, err := s.store.Size(name)
	if err != nil {
		return nil, err
	}
	return &BackupInfo{Name: name, CreatedAt: createdAt, SizeBytes: size}, nil
}

// CleanOld prunes backups beyond the configured keep count, oldest
// first, and returns the number deleted.
func (s *BackupService) CleanOld(ctx context.Context) (int, error) {
	names, err := s.store.List()
	if err != nil {
		return 0, err
	}
	if len(names) <= s.keepCount {
		return 0, nil
	}
	deleted := 0
	for _, name := range names[:len(names)-s.keepCount] {
		if err := s.store.Remove(name); err != nil {
			s.logger.Warn("failed to prune backup", zap.String("backup", name), zap.Error(err))
			continue
		}
		deleted++
	}
	s.logger.Info("pruned old backups", zap.Int("deleted", deleted))
	return deleted, nil
}
