package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
Backend Engineer

Work Experience
Acme Corp, Senior Engineer, 2019-2024
  Built payment services in Go

Education
B.Sc. Computer Science, 2018

Skills
Go, PostgreSQL, Kubernetes
`

func TestDocumentExtractor_Text(t *testing.T) {
	doc, err := NewDocumentExtractor().Extract([]byte(sampleResume), FileTypeText)
	require.NoError(t, err)

	assert.Equal(t, 1, doc.PageCount)
	assert.Equal(t, "Acme Corp, Senior Engineer, 2019-2024\nBuilt payment services in Go", doc.Experience)
	assert.Equal(t, "B.Sc. Computer Science, 2018", doc.Education)
	assert.Equal(t, "Go, PostgreSQL, Kubernetes", doc.Skills)
	assert.NotContains(t, doc.Text, "\n\n")

	structured := doc.StructuredText()
	assert.Contains(t, structured, "Full Resume Text:\nJane Doe")
	assert.Contains(t, structured, "Skills Section:\nGo, PostgreSQL, Kubernetes")
}

func TestDocumentExtractor_Rejects(t *testing.T) {
	ex := NewDocumentExtractor()

	_, err := ex.Extract([]byte("hello"), "docx")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = ex.Extract([]byte(" \n\t\n"), FileTypeText)
	assert.Error(t, err)

	_, err = ex.Extract([]byte{0xff, 0xfe, 0xfd}, FileTypeText)
	assert.Error(t, err)

	_, err = ex.Extract([]byte("not a pdf"), FileTypePDF)
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a\nb", CleanText("  a \n\n\n   b  \n"))
	assert.Equal(t, "", CleanText("   "))
}
