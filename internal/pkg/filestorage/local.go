package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/apperrors"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/logger"
)

// allowedExtensions lists the document types students may attach
var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// LocalStorage saves documents under a base directory with uuid names so
// uploads never collide.
type LocalStorage struct {
	basePath    string
	maxFileSize int64 // bytes
	maxFiles    int
}

// NewLocalStorage creates a LocalStorage rooted at basePath.
// maxFileSizeMB and maxFiles bound each upload batch.
func NewLocalStorage(basePath string, maxFileSizeMB int64, maxFiles int) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath:    basePath,
		maxFileSize: maxFileSizeMB * 1024 * 1024,
		maxFiles:    maxFiles,
	}, nil
}

// validate checks one file header against the upload policy
func (ls *LocalStorage) validate(fileHeader *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return apperrors.NewValidationError("documents",
			fmt.Sprintf("File type %s is not allowed. Allowed: jpeg, jpg, png, gif, pdf, doc, docx", ext))
	}
	if fileHeader.Size > ls.maxFileSize {
		return apperrors.NewValidationError("documents",
			fmt.Sprintf("File %s exceeds the %dMB size limit", fileHeader.Filename, ls.maxFileSize/(1024*1024)))
	}
	return nil
}

// SaveFile validates and stores one uploaded file
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, nil
	}
	if err := ls.validate(fileHeader); err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	uniqueName := uuid.New().String() + ext
	dstPath := filepath.Join(ls.basePath, uniqueName)

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("saved_as", uniqueName).
		Int64("size", written).
		Msg("Document saved")

	return &StoredFile{
		FileName:     uniqueName,
		OriginalName: fileHeader.Filename,
		Path:         "uploads/" + uniqueName,
		MimeType:     mimeType,
		Size:         written,
	}, nil
}

// SaveAll validates the whole batch up front, then stores each file
func (ls *LocalStorage) SaveAll(fileHeaders []*multipart.FileHeader) ([]StoredFile, error) {
	if len(fileHeaders) == 0 {
		return nil, nil
	}
	if len(fileHeaders) > ls.maxFiles {
		return nil, apperrors.NewValidationError("documents",
			fmt.Sprintf("At most %d documents can be attached", ls.maxFiles))
	}
	for _, fh := range fileHeaders {
		if err := ls.validate(fh); err != nil {
			return nil, err
		}
	}

	stored := make([]StoredFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		sf, err := ls.SaveFile(fh)
		if err != nil {
			for _, s := range stored {
				_ = ls.DeleteFile(s.Path)
			}
			return nil, err
		}
		stored = append(stored, *sf)
	}
	return stored, nil
}

// DeleteFile removes a stored file. Deletion is idempotent: a missing
// file is treated as already deleted.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	filename := filepath.Base(filePath)
	if filename == "" || filename == "." || filename == "/" || filename == "uploads" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	physicalPath := filepath.Join(ls.basePath, filename)
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFullPath returns the filesystem path behind an accessible path
func (ls *LocalStorage) GetFullPath(filePath string) string {
	filename := filepath.Base(filePath)
	if filename == "" || filename == "." || filename == "/" {
		return ""
	}
	return filepath.Join(ls.basePath, filename)
}
