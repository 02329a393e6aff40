package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/abdallahade1/ConceptCatch/internal/util"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type ExportService struct {
	quizService *QuizService
	storage     *StorageService
}

func NewExportService(quizService *QuizService, storage *StorageService) *ExportService {
	return &ExportService{quizService: quizService, storage: storage}
}

type ExportResult struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Export renders a quiz as docx or json and uploads a copy through the
// storage provider. Owners may include the answer key; anyone else only
// gets published quizzes, always stripped.
func (s *ExportService) Export(ctx context.Context, quizID, userID uint, format string, includeAnswers bool) (*ExportResult, error) {
	quiz, content, err := s.quizService.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy != userID {
		if !quiz.IsPublished {
			return nil, util.ErrPermissionDenied
		}
		includeAnswers = false
	}

	exported := *content
	if !includeAnswers {
		exported = content.Stripped()
	}

	var payload []byte
	var contentType, ext string
	switch format {
	case "json":
		payload, err = json.MarshalIndent(exported, "", "  ")
		if err != nil {
			return nil, err
		}
		contentType, ext = "application/json", "json"
	case "docx":
		payload, err = renderDocx(&exported, includeAnswers)
		if err != nil {
			return nil, err
		}
		contentType, ext = docxContentType, "docx"
	default:
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedFormat, format)
	}

	filename := fmt.Sprintf("exports/quiz_%d_%s.%s", quiz.ID, slugify(quiz.Title), ext)
	url, err := s.storage.Upload(ctx, filename, bytes.NewReader(payload), int64(len(payload)), contentType)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		Filename:    filename,
		URL:         url,
		ContentType: contentType,
		Data:        payload,
	}, nil
}

func slugify(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "quiz"
	}
	return out
}

// renderDocx writes a minimal WordprocessingML package: the content
// types manifest, the package rels, and one document part holding the
// quiz as styled paragraphs.
func renderDocx(content *model.QuizContent, includeAnswers bool) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/document.xml", renderDocumentXML(content, includeAnswers)},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

func renderDocumentXML(content *model.QuizContent, includeAnswers bool) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	writeParagraph(&b, content.Title, true)
	writeParagraph(&b, fmt.Sprintf("Topic: %s | Difficulty: %s | Questions: %d",
		content.Topic, content.Difficulty, len(content.Questions)), false)
	writeParagraph(&b, "", false)

	for i, q := range content.Questions {
		writeParagraph(&b, fmt.Sprintf("%d. %s (%g pts)", i+1, q.Question, q.MaxPoints()), true)
		for j, opt := range q.Options {
			writeParagraph(&b, fmt.Sprintf("   %c) %s", 'A'+j, opt), false)
		}
		if includeAnswers {
			writeParagraph(&b, "Answer: "+q.CorrectAnswer, false)
			if q.Explanation != "" {
				writeParagraph(&b, "Explanation: "+q.Explanation, false)
			}
		}
		writeParagraph(&b, "", false)
	}

	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeParagraph(b *strings.Builder, text string, bold bool) {
	b.WriteString(`<w:p><w:r>`)
	if bold {
		b.WriteString(`<w:rPr><w:b/></w:rPr>`)
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	xml.EscapeText(b, []byte(text))
	b.WriteString(`</w:t></w:r></w:p>`)
}
