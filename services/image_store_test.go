package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadedFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["image"][0]
}

func newTestStore(t *testing.T, maxSize int64) *ImageStore {
	t.Helper()
	store := NewImageStore(t.TempDir(), maxSize)
	require.NoError(t, store.EnsureDirs(BannerImageKind, ProductImageKind))
	return store
}

func TestImageStoreSave(t *testing.T) {
	store := newTestStore(t, 5*1024*1024)
	file := uploadedFile(t, "hero.png", "image/png", []byte("png-bytes"))

	path, err := store.Save(file, BannerImageKind)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/uploads/banners/banner-"), "path %q", path)
	assert.True(t, strings.HasSuffix(path, ".png"), "path %q", path)
	assert.True(t, store.Exists(path))
}

func TestImageStoreSaveRejectsBadExtension(t *testing.T) {
	store := newTestStore(t, 5*1024*1024)
	file := uploadedFile(t, "notes.txt", "image/png", []byte("text"))

	_, err := store.Save(file, BannerImageKind)
	var imgErr *InvalidImageError
	require.ErrorAs(t, err, &imgErr)
	assertDirEmpty(t, store, BannerImageKind)
}

func TestImageStoreSaveRejectsBadMime(t *testing.T) {
	store := newTestStore(t, 5*1024*1024)
	file := uploadedFile(t, "hero.png", "application/octet-stream", []byte("data"))

	_, err := store.Save(file, BannerImageKind)
	var imgErr *InvalidImageError
	require.ErrorAs(t, err, &imgErr)
	assertDirEmpty(t, store, BannerImageKind)
}

func TestImageStoreSaveRejectsOversize(t *testing.T) {
	store := newTestStore(t, 8)
	file := uploadedFile(t, "hero.jpg", "image/jpeg", []byte("more-than-eight-bytes"))

	_, err := store.Save(file, BannerImageKind)
	var imgErr *InvalidImageError
	require.ErrorAs(t, err, &imgErr)
	assertDirEmpty(t, store, BannerImageKind)
}

func TestImageStoreDeleteIdempotent(t *testing.T) {
	store := newTestStore(t, 5*1024*1024)
	file := uploadedFile(t, "hero.webp", "image/webp", []byte("webp"))

	path, err := store.Save(file, BannerImageKind)
	require.NoError(t, err)

	require.NoError(t, store.Delete(path))
	assert.False(t, store.Exists(path))

	// Deleting again is not an error
	require.NoError(t, store.Delete(path))
}

func TestImageStoreDeleteRefusesEscapes(t *testing.T) {
	store := newTestStore(t, 5*1024*1024)

	assert.Error(t, store.Delete("/etc/passwd"))
	assert.Error(t, store.Delete("/uploads/../../etc/passwd"))
}

func TestImageStoreUniqueFilenames(t *testing.T) {
	store := newTestStore(t, 5*1024*1024)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		file := uploadedFile(t, "same.gif", "image/gif", []byte("gif"))
		path, err := store.Save(file, BannerImageKind)
		require.NoError(t, err)
		assert.False(t, seen[path], "duplicate path %q", path)
		seen[path] = true
	}
}

func TestSweepOrphans(t *testing.T) {
	store := newTestStore(t, 5*1024*1024)

	referencedPath, err := store.Save(uploadedFile(t, "kept.png", "image/png", []byte("kept")), BannerImageKind)
	require.NoError(t, err)
	orphanPath, err := store.Save(uploadedFile(t, "orphan.png", "image/png", []byte("orphan")), BannerImageKind)
	require.NoError(t, err)
	freshPath, err := store.Save(uploadedFile(t, "fresh.png", "image/png", []byte("fresh")), BannerImageKind)
	require.NoError(t, err)

	// Age everything except the fresh upload past the sweep cutoff
	old := time.Now().Add(-2 * time.Hour)
	for _, p := range []string{referencedPath, orphanPath} {
		fsPath, ok := store.resolve(p)
		require.True(t, ok)
		require.NoError(t, os.Chtimes(fsPath, old, old))
	}

	removed := store.SweepOrphans(BannerImageKind, map[string]bool{referencedPath: true}, time.Hour)

	assert.Equal(t, 1, removed)
	assert.True(t, store.Exists(referencedPath), "referenced file must survive")
	assert.False(t, store.Exists(orphanPath), "orphan must be removed")
	assert.True(t, store.Exists(freshPath), "fresh file must survive the min-age guard")
}

func assertDirEmpty(t *testing.T, store *ImageStore, kind string) {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(store.baseDir, kind))
	require.NoError(t, err)
	assert.Empty(t, entries, "validation must happen before any write")
}
