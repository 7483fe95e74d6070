package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageService_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s := NewStorageService(dir)
	require.NoError(t, s.EnsureUploadDir())

	data := []byte("resume body")
	hash := ContentHash(data)

	path, err := s.SaveFile(hash, FileTypeText, data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, hash+".txt"), path)

	again, err := s.SaveFile(hash, FileTypeText, data)
	require.NoError(t, err)
	assert.Equal(t, path, again)

	got, err := s.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, s.DeleteFile(path))
	_, err = s.ReadFile(path)
	assert.Error(t, err)
}

func TestStorageService_RejectsPathInHash(t *testing.T) {
	s := NewStorageService(t.TempDir())
	_, err := s.SaveFile("../escape", FileTypePDF, []byte("x"))
	assert.Error(t, err)
}

func TestFileTypeFromName(t *testing.T) {
	ft, err := FileTypeFromName("Resume.PDF")
	require.NoError(t, err)
	assert.Equal(t, FileTypePDF, ft)

	ft, err = FileTypeFromName("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, FileTypeText, ft)

	_, err = FileTypeFromName("resume.docx")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}
