package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	FileTypePDF  = "pdf"
	FileTypeText = "txt"
)

// ErrUnsupportedFileType is returned for anything but PDF and plain text.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// DocumentExtractor turns raw upload bytes into resume text.
type DocumentExtractor interface {
	Extract(raw []byte, fileType string) (*ExtractedDocument, error)
}

// ExtractedDocument is the text of one resume plus the sections that could be
// located by their headings.
type ExtractedDocument struct {
	Text       string
	PageCount  int
	Experience string
	Education  string
	Skills     string
}

// StructuredText is the full text followed by each detected section, the
// form that is chunked and shown to the model.
func (d *ExtractedDocument) StructuredText() string {
	var b strings.Builder
	b.WriteString("Full Resume Text:\n")
	b.WriteString(d.Text)
	b.WriteString("\n\nExperience Section:\n")
	b.WriteString(d.Experience)
	b.WriteString("\n\nEducation Section:\n")
	b.WriteString(d.Education)
	b.WriteString("\n\nSkills Section:\n")
	b.WriteString(d.Skills)
	return b.String()
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

func (e *documentExtractor) Extract(raw []byte, fileType string) (*ExtractedDocument, error) {
	var (
		text  string
		pages int
		err   error
	)

	switch strings.ToLower(fileType) {
	case FileTypePDF:
		text, pages, err = extractPDF(raw)
	case FileTypeText:
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("text file is not valid UTF-8")
		}
		text, pages = string(raw), 1
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, fileType)
	}
	if err != nil {
		return nil, err
	}

	text = CleanText(text)
	if text == "" {
		return nil, fmt.Errorf("no text content found in %s document", fileType)
	}

	doc := &ExtractedDocument{Text: text, PageCount: pages}
	doc.Experience, doc.Education, doc.Skills = extractSections(text)
	return doc, nil
}

// extractPDF recovers from panics raised by the PDF reader on malformed input.
func extractPDF(raw []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, pages, err = "", 0, fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable pages are skipped; an all-empty result is caught by the caller.
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), totalPage, nil
}

var sectionHeadings = []struct {
	section  string
	keywords []string
}{
	{section: "experience", keywords: []string{"experience", "work history", "employment"}},
	{section: "education", keywords: []string{"education", "academic", "qualification"}},
	{section: "skills", keywords: []string{"skills", "technologies", "competencies"}},
}

// extractSections assigns each line to the most recent heading seen. A line
// counts as a heading when it mentions one of the section keywords.
func extractSections(text string) (experience, education, skills string) {
	var exp, edu, sk []string
	current := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if heading := sectionOf(line); heading != "" {
			current = heading
			continue
		}

		switch current {
		case "experience":
			exp = append(exp, line)
		case "education":
			edu = append(edu, line)
		case "skills":
			sk = append(sk, line)
		}
	}

	return strings.Join(exp, "\n"), strings.Join(edu, "\n"), strings.Join(sk, "\n")
}

func sectionOf(line string) string {
	lower := strings.ToLower(line)
	for _, h := range sectionHeadings {
		for _, kw := range h.keywords {
			if strings.Contains(lower, kw) {
				return h.section
			}
		}
	}
	return ""
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := lines[:0]

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
