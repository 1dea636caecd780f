package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fzn99-cell/RHConnect/internal/shared/apperror"
)

const MaxFileSize = 10 << 20 // 10 MiB

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// StoredFile describes a file persisted by the store.
type StoredFile struct {
	FileName     string // generated name on disk
	OriginalName string
	FileType     string // extension without the dot
	FileSize     int64
	URL          string // public path, e.g. /uploads/file-<uuid>.pdf
}

//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock

type Store interface {
	Save(file *multipart.FileHeader) (StoredFile, error)
	Remove(fileName string) error
}

type localStore struct {
	dir    string
	logger *zap.Logger
}

// NewLocalStore keeps uploads on the local filesystem under dir,
// creating it if needed.
func NewLocalStore(dir string, logger ...*zap.Logger) (Store, error) {
	l := zap.L().Named("upload.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("upload.store")
	}

	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}

	return &localStore{dir: dir, logger: l}, nil
}

func (s *localStore) Save(file *multipart.FileHeader) (StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return StoredFile{}, apperror.New(
			apperror.CodeInvalidInput,
			"Only .pdf, .jpg, .jpeg and .png files are allowed",
			400,
		)
	}
	if file.Size > MaxFileSize {
		return StoredFile{}, apperror.New(
			apperror.CodeInvalidInput,
			"File exceeds the 10MB size limit",
			400,
		)
	}

	src, err := file.Open()
	if err != nil {
		return StoredFile{}, apperror.Wrap(err, apperror.CodeInternalError, "failed to read uploaded file", 500)
	}
	defer src.Close()

	name := fmt.Sprintf("file-%s%s", uuid.NewString(), ext)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return StoredFile{}, apperror.Wrap(err, apperror.CodeInternalError, "failed to store uploaded file", 500)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(path)
		return StoredFile{}, apperror.Wrap(err, apperror.CodeInternalError, "failed to store uploaded file", 500)
	}

	s.logger.Debug("file stored",
		zap.String("file_name", name),
		zap.String("original_name", file.Filename),
		zap.Int64("size", written),
	)

	return StoredFile{
		FileName:     name,
		OriginalName: file.Filename,
		FileType:     strings.TrimPrefix(ext, "."),
		FileSize:     written,
		URL:          "/uploads/" + name,
	}, nil
}

func (s *localStore) Remove(fileName string) error {
	// Reject anything that could escape the upload dir.
	if fileName == "" || fileName != filepath.Base(fileName) {
		return apperror.New(apperror.CodeInvalidInput, "Invalid file name", 400)
	}

	if err := os.Remove(filepath.Join(s.dir, fileName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stored file %s: %w", fileName, err)
	}
	return nil
}

// AllowedExtension reports whether name carries a supported extension,
// optionally narrowed to a subset like payslip validation needs.
func AllowedExtension(name string, subset ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if len(subset) == 0 {
		return allowedExtensions[ext]
	}
	for _, allowed := range subset {
		if ext == allowed {
			return true
		}
	}
	return false
}
