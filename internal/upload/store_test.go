package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildFileHeader(t *testing.T, fieldName, fileName string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	assert.NoError(t, req.ParseMultipartForm(32<<20))

	files := req.MultipartForm.File[fieldName]
	assert.Len(t, files, 1)
	return files[0]
}

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	assert.NoError(t, err)

	header := buildFileHeader(t, "file", "payslip.PDF", []byte("%PDF-1.4 fake"))

	stored, err := store.Save(header)
	assert.NoError(t, err)
	assert.Equal(t, "payslip.PDF", stored.OriginalName)
	assert.Equal(t, "pdf", stored.FileType)
	assert.True(t, strings.HasPrefix(stored.FileName, "file-"))
	assert.True(t, strings.HasSuffix(stored.FileName, ".pdf"))
	assert.Equal(t, "/uploads/"+stored.FileName, stored.URL)
	assert.Equal(t, int64(len("%PDF-1.4 fake")), stored.FileSize)

	data, err := os.ReadFile(filepath.Join(dir, stored.FileName))
	assert.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
}

func TestLocalStoreSaveRejectsExtension(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	header := buildFileHeader(t, "file", "malware.exe", []byte("nope"))

	_, err = store.Save(header)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "allowed")
}

func TestLocalStoreSaveRejectsOversize(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	header := buildFileHeader(t, "file", "big.png", []byte("x"))
	header.Size = MaxFileSize + 1

	_, err = store.Save(header)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "size limit")
}

func TestLocalStoreRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	assert.NoError(t, err)

	header := buildFileHeader(t, "file", "photo.jpg", []byte("jpg-bytes"))
	stored, err := store.Save(header)
	assert.NoError(t, err)

	assert.NoError(t, store.Remove(stored.FileName))
	_, statErr := os.Stat(filepath.Join(dir, stored.FileName))
	assert.True(t, os.IsNotExist(statErr))

	// removing again is a no-op
	assert.NoError(t, store.Remove(stored.FileName))

	// path traversal is refused
	assert.Error(t, store.Remove("../secret"))
}

func TestAllowedExtension(t *testing.T) {
	assert.True(t, AllowedExtension("doc.pdf"))
	assert.True(t, AllowedExtension("photo.JPEG"))
	assert.False(t, AllowedExtension("archive.zip"))

	assert.True(t, AllowedExtension("payslip.png", ".pdf", ".png"))
	assert.False(t, AllowedExtension("payslip.jpg", ".pdf", ".png"))
}
