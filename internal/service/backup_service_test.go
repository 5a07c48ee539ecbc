package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/ccrm-api/pkg/backup"
	appErrors "github.com/campusworks/ccrm-api/pkg/errors"
)

func newBackupFixture(t *testing.T, keep int) (*importExportFixture, *BackupService, *backup.Store) {
	t.Helper()
	f := newImportExportFixture(t)
	store, err := backup.NewStore(t.TempDir())
	require.NoError(t, err)
	return f, NewBackupService(f.svc, store, keep, nil, nil), store
}

func TestBackupCreateWritesDatasetsAndManifest(t *testing.T) {
	f, svc, store := newBackupFixture(t, 10)
	f.enroll(t, "S1", "CS101", 3)
	_, err := f.gradeFixture.svc.RecordGrade(context.Background(), "S1", "CS101", 92)
	require.NoError(t, err)

	name, err := svc.Create(context.Background())
	require.NoError(t, err)
	require.True(t, store.Exists(name))

	for _, filename := range []string{"students.csv", "courses.csv", "enrollments.csv", "grades.csv", "manifest.json"} {
		payload, err := os.ReadFile(filepath.Join(store.Path(name), filename))
		require.NoError(t, err, filename)
		assert.NotEmpty(t, payload, filename)
	}

	raw, err := os.ReadFile(filepath.Join(store.Path(name), "manifest.json"))
	require.NoError(t, err)
	var manifest struct {
		Files []string `json:"files"`
	}
	require.NoError(t, json.Unmarshal(raw, &manifest))
	assert.Len(t, manifest.Files, 4)
}

func TestBackupInfo(t *testing.T) {
	_, svc, _ := newBackupFixture(t, 10)

	name, err := svc.Create(context.Background())
	require.NoError(t, err)

	info, err := svc.Info(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, name, info.Name)
	assert.Greater(t, info.SizeBytes, int64(0))
	assert.WithinDuration(t, time.Now().UTC(), info.CreatedAt, time.Minute)

	_, err = svc.Info(context.Background(), "backup_2000-01-01_00-00-00")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBackupCleanOldKeepsNewest(t *testing.T) {
	_, svc, store := newBackupFixture(t, 2)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.Begin(base.Add(time.Duration(i) * time.Minute))
		require.NoError(t, err)
	}

	deleted, err := svc.CleanOld(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	names, err := store.List()
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "backup_2026-03-14_09-03-00", names[0])
	assert.Equal(t, "backup_2026-03-14_09-04-00", names[1])
}

func TestBackupCleanOldNothingToDo(t *testing.T) {
	_, svc, _ := newBackupFixture(t, 10)
	_, err := svc.Create(context.Background())
	require.NoError(t, err)

	deleted, err := svc.CleanOld(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func TestBackupList(t *testing.T) {
	_, svc, store := newBackupFixture(t, 10)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		_, err := store.Begin(base.Add(time.Duration(i) * time.Minute))
		require.NoError(t, err)
	}

	infos, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.True(t, infos[0].CreatedAt.Before(infos[1].CreatedAt))
}
