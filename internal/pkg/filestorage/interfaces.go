package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithPath stores the upload under a subdirectory and returns its public URL.
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// SaveBytes stores data under a subdirectory with the extension of filename.
	SaveBytes(data []byte, filename, subPath string) (string, error)

	// DeleteFile removes a stored file by the URL SaveFileWithPath returned.
	DeleteFile(fileURL string) error
}
