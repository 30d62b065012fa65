package asset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/appforge/service-builder-go-stdlib/internal/asset/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/pkg/utilities"
)

// Store is the persistence boundary for asset metadata.
type Store interface {
	Insert(ctx context.Context, a *entity.Asset) error
	FindByID(ctx context.Context, id string) (*entity.Asset, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.Asset, error)
	Delete(ctx context.Context, id string) error
}

// MaxUploadBytes caps a single asset upload.
const MaxUploadBytes = 16 << 20

var allowedExtensions = map[string]string{
	".png":   entity.TypeImage,
	".jpg":   entity.TypeImage,
	".jpeg":  entity.TypeImage,
	".gif":   entity.TypeImage,
	".svg":   entity.TypeImage,
	".mp4":   entity.TypeVideo,
	".webm":  entity.TypeVideo,
	".woff":  entity.TypeFont,
	".woff2": entity.TypeFont,
}

// UploadDirFromEnv returns the base directory for stored asset files.
func UploadDirFromEnv() string {
	if dir := os.Getenv("UPLOAD_PATH"); dir != "" {
		return dir
	}
	return "uploads"
}

// Service stores asset files on disk and their metadata in the store.
type Service struct {
	store     Store
	uploadDir string
}

func NewService(store Store, uploadDir string) *Service {
	return &Service{store: store, uploadDir: uploadDir}
}

type fileMetadata struct {
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	Extension   string `json:"extension"`
}

// Upload validates the file name, writes the content under
// uploadDir/<projectID>/<uuid><ext> and records the asset row. The sanitized
// original name is kept for display only.
func (s *Service) Upload(ctx context.Context, projectID, fileName, contentType string, content io.Reader) (*entity.Asset, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	assetType, ok := allowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: file type %q is not allowed", shared.ErrValidation, ext)
	}

	dir := filepath.Join(s.uploadDir, projectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}

	stored := uuid.New().String() + ext
	path := filepath.Join(dir, stored)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create asset file: %w", err)
	}
	size, err := io.Copy(f, io.LimitReader(content, MaxUploadBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && size > MaxUploadBytes {
		err = fmt.Errorf("%w: file exceeds %d bytes", shared.ErrValidation, int64(MaxUploadBytes))
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	meta, _ := json.Marshal(fileMetadata{Size: size, ContentType: contentType, Extension: ext})
	a := &entity.Asset{
		ID:        utilities.NewSnowflakeID(),
		ProjectID: projectID,
		Name:      filepath.Base(fileName),
		AssetType: assetType,
		URL:       "/assets/" + projectID + "/" + stored,
		Path:      path,
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, a); err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Asset, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) ListByProject(ctx context.Context, projectID string) ([]*entity.Asset, error) {
	return s.store.ListByProject(ctx, projectID)
}

// Delete removes the metadata row and then the file, best-effort: a row
// without a file is harmless, a file without a row would leak.
func (s *Service) Delete(ctx context.Context, a *entity.Asset) error {
	if err := s.store.Delete(ctx, a.ID); err != nil {
		return err
	}
	_ = os.Remove(a.Path)
	return nil
}
