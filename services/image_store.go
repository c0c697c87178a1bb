package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dipkrao/ECommerce-Backend/internal/logger"
)

// URLPrefix is where the upload root is mounted on the HTTP surface.
const URLPrefix = "/uploads"

// Image kinds, each a subdirectory of the upload root.
const (
	BannerImageKind  = "banners"
	ProductImageKind = "products"
)

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedImageMimes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageStore owns the physical lifecycle of uploaded images under a single
// upload root. Each kind ("banners", "products") maps to a subdirectory.
type ImageStore struct {
	baseDir string
	maxSize int64
}

func NewImageStore(baseDir string, maxSize int64) *ImageStore {
	return &ImageStore{
		baseDir: baseDir,
		maxSize: maxSize,
	}
}

// EnsureDirs creates the upload root and the given kind subdirectories.
// Called once at startup.
func (s *ImageStore) EnsureDirs(kinds ...string) error {
	for _, kind := range kinds {
		if err := os.MkdirAll(filepath.Join(s.baseDir, kind), 0755); err != nil {
			return fmt.Errorf("failed to create upload directory %s: %w", kind, err)
		}
	}
	return nil
}

// Save validates and writes an uploaded image, returning the relative URL path
// to store on the owning record (e.g. /uploads/banners/banner-...png).
// Validation happens before any write.
func (s *ImageStore) Save(file *multipart.FileHeader, kind string) (string, error) {
	if err := s.validate(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	filename := generateFilename(kind, file.Filename)
	filePath := filepath.Join(s.baseDir, kind, filename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath) // Clean up on error
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return path.Join(URLPrefix, kind, filename), nil
}

// Delete removes the file behind a stored relative path. A missing file is not
// an error.
func (s *ImageStore) Delete(relPath string) error {
	filePath, ok := s.resolve(relPath)
	if !ok {
		return fmt.Errorf("image path %q is outside the upload root", relPath)
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether the file behind a stored relative path is on disk.
func (s *ImageStore) Exists(relPath string) bool {
	filePath, ok := s.resolve(relPath)
	if !ok {
		return false
	}
	_, err := os.Stat(filePath)
	return err == nil
}

// SweepOrphans removes files in the kind subdirectory that are not in the
// referenced set and are older than minAge. minAge keeps the sweep from racing
// an upload whose record insert is still in flight. Individual remove failures
// are logged and skipped.
func (s *ImageStore) SweepOrphans(kind string, referenced map[string]bool, minAge time.Duration) int {
	dir := filepath.Join(s.baseDir, kind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Orphan sweep: cannot read directory", "dir", dir, "error", err)
		}
		return 0
	}

	removed := 0
	cutoff := time.Now().Add(-minAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		relPath := path.Join(URLPrefix, kind, entry.Name())
		if referenced[relPath] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			logger.Warn("Orphan sweep: remove failed", "path", relPath, "error", err)
			continue
		}
		removed++
	}
	return removed
}

// validate checks extension, MIME type and size against the allow-list. Both
// the extension and the declared content type must pass.
func (s *ImageStore) validate(file *multipart.FileHeader) error {
	if file.Size > s.maxSize {
		return &InvalidImageError{Reason: fmt.Sprintf("file size exceeds %dMB limit", s.maxSize/(1024*1024))}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return &InvalidImageError{Reason: fmt.Sprintf("file extension %q is not allowed", ext)}
	}

	mimeType := file.Header.Get("Content-Type")
	if !allowedImageMimes[mimeType] {
		return &InvalidImageError{Reason: fmt.Sprintf("content type %q is not allowed", mimeType)}
	}

	return nil
}

// resolve maps a stored relative path back to a filesystem path, refusing
// anything that escapes the upload root.
func (s *ImageStore) resolve(relPath string) (string, bool) {
	trimmed := strings.TrimPrefix(relPath, URLPrefix+"/")
	if trimmed == relPath || trimmed == "" {
		return "", false
	}
	cleaned := path.Clean(trimmed)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || path.IsAbs(cleaned) {
		return "", false
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(cleaned)), true
}

// generateFilename builds a collision-resistant name: singular kind prefix,
// millisecond timestamp, random suffix, original extension.
func generateFilename(kind, original string) string {
	prefix := strings.TrimSuffix(kind, "s")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s-%d-%s%s", prefix, time.Now().UnixMilli(), suffix, strings.ToLower(filepath.Ext(original)))
}
