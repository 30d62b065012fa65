package asset

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appforge/service-builder-go-stdlib/internal/asset/repo"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

func TestUploadStoresFileAndMetadata(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(repo.NewMemoryRepo(), dir)

	content := []byte("\x89PNG fake image bytes")
	a, err := svc.Upload(context.Background(), "proj-1", "logo.png", "image/png", bytes.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "proj-1", a.ProjectID)
	assert.Equal(t, "logo.png", a.Name)
	assert.Equal(t, "image", a.AssetType)
	assert.True(t, strings.HasPrefix(a.URL, "/assets/proj-1/"))
	assert.True(t, strings.HasSuffix(a.URL, ".png"))

	onDisk, err := os.ReadFile(a.Path)
	require.NoError(t, err)
	assert.Equal(t, content, onDisk)

	got, err := svc.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo(), t.TempDir())

	_, err := svc.Upload(context.Background(), "proj-1", "payload.exe", "", strings.NewReader("mz"))
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, err = svc.Upload(context.Background(), "proj-1", "noextension", "", strings.NewReader("x"))
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(repo.NewMemoryRepo(), dir)

	big := bytes.NewReader(make([]byte, MaxUploadBytes+1))
	_, err := svc.Upload(context.Background(), "proj-1", "huge.png", "image/png", big)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	// the partial file must not be left behind
	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, e := range entries {
			sub, _ := os.ReadDir(dir + "/" + e.Name())
			assert.Empty(t, sub)
		}
	}
}

func TestUploadSanitizesNameWithPathSegments(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo(), t.TempDir())

	a, err := svc.Upload(context.Background(), "proj-1", "../../etc/passwd.png", "", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "passwd.png", a.Name)
}

func TestListByProjectFiltersOtherProjects(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo(), t.TempDir())

	_, err := svc.Upload(context.Background(), "proj-a", "a.png", "", strings.NewReader("a"))
	require.NoError(t, err)
	_, err = svc.Upload(context.Background(), "proj-b", "b.png", "", strings.NewReader("b"))
	require.NoError(t, err)

	list, err := svc.ListByProject(context.Background(), "proj-a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a.png", list[0].Name)
}

func TestDeleteRemovesRowAndFile(t *testing.T) {
	svc := NewService(repo.NewMemoryRepo(), t.TempDir())

	a, err := svc.Upload(context.Background(), "proj-1", "gone.png", "", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), a))

	_, err = svc.Get(context.Background(), a.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	_, err = os.Stat(a.Path)
	assert.True(t, os.IsNotExist(err))
}
