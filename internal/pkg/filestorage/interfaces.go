// Package filestorage stores uploaded supporting documents on disk
package filestorage

import (
	"mime/multipart"
)

// StoredFile describes one saved document
type StoredFile struct {
	FileName     string // unique name on disk
	OriginalName string // name as uploaded
	Path         string // accessible path, e.g. uploads/<name>
	MimeType     string
	Size         int64
}

// FileStorage defines the interface for document storage operations
type FileStorage interface {
	// SaveFile validates and stores one uploaded file
	SaveFile(fileHeader *multipart.FileHeader) (*StoredFile, error)

	// SaveAll validates the whole batch up front, then stores each file.
	// Files already written are removed again when a later one fails.
	SaveAll(fileHeaders []*multipart.FileHeader) ([]StoredFile, error)

	// DeleteFile removes a stored file; missing files are not an error
	DeleteFile(filePath string) error

	// GetFullPath returns the filesystem path behind an accessible path
	GetFullPath(filePath string) string
}
