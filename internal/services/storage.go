package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StorageService keeps uploaded resumes on disk under their content hash.
type StorageService interface {
	SaveFile(hash, fileType string, data []byte) (string, error)
	ReadFile(filePath string) ([]byte, error)
	DeleteFile(filePath string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// FileTypeFromName maps a file name to a supported file type by extension.
func FileTypeFromName(name string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".pdf":
		return FileTypePDF, nil
	case ".txt":
		return FileTypeText, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFileType, ext)
	}
}

// SaveFile writes data as <hash>.<fileType>. Identical content maps to the
// same file, so saving twice is harmless.
func (s *storageService) SaveFile(hash, fileType string, data []byte) (string, error) {
	if hash == "" || strings.ContainsAny(hash, `/\.`) {
		return "", fmt.Errorf("invalid content hash %q", hash)
	}

	filePath := filepath.Join(s.uploadPath, hash+"."+fileType)

	tmp, err := os.CreateTemp(s.uploadPath, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *storageService) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *storageService) DeleteFile(filePath string) error {
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
