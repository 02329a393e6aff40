package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/abdallahade1/ConceptCatch/internal/config"
	"github.com/abdallahade1/ConceptCatch/internal/util"
	"github.com/abdallahade1/ConceptCatch/pkg/logger"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// SupportedExtensions lists the upload formats the extractor handles.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".pptx": true,
	".txt":  true,
	".html": true,
	".md":   true,
}

type DocumentService struct {
	uploadCfg config.UploadConfig
	llm       *LLMService
}

func NewDocumentService(cfg config.UploadConfig, llm *LLMService) *DocumentService {
	return &DocumentService{uploadCfg: cfg, llm: llm}
}

// Validate rejects uploads by extension and size before any bytes are
// read.
func (s *DocumentService) Validate(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !SupportedExtensions[ext] {
		return fmt.Errorf("%w: %s", util.ErrUnsupportedFormat, ext)
	}
	if size > s.uploadCfg.MaxSizeMB*1024*1024 {
		return fmt.Errorf("%w: limit is %d MB", util.ErrFileTooLarge, s.uploadCfg.MaxSizeMB)
	}
	return nil
}

// ExtractText pulls plain text out of an uploaded document. The format
// is decided by content sniffing first and the extension second, so a
// mislabeled PDF still extracts.
func (s *DocumentService) ExtractText(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var text string
	var err error
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		text, err = extractPDF(data)
	case bytes.HasPrefix(data, []byte("PK")):
		if ext == ".pptx" {
			text, err = extractOpenXML(data, "ppt/slides/slide")
		} else {
			text, err = extractOpenXML(data, "word/document.xml")
		}
	case ext == ".html":
		text = stripHTML(string(data))
	default:
		text = string(data)
	}
	if err != nil {
		logger.Log.Error("Text extraction failed",
			zap.String("filename", filename), zap.Error(err))
		return "", err
	}

	text = normalizeWhitespace(text)
	if text == "" {
		return "", util.ErrEmptyDocument
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// extractOpenXML walks a docx/pptx zip package and collects the
// character data inside w:t / a:t runs of entries matching the prefix.
func extractOpenXML(data []byte, entryPrefix string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var names []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, entryPrefix) && strings.HasSuffix(f.Name, ".xml") {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		for _, f := range zr.File {
			if f.Name != name {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return "", err
			}
			if err := collectTextRuns(rc, &b); err != nil {
				rc.Close()
				return "", err
			}
			rc.Close()
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func collectTextRuns(r io.Reader, b *strings.Builder) error {
	decoder := xml.NewDecoder(r)
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
			if t.Name.Local == "p" || t.Name.Local == "br" {
				b.WriteString("\n")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
				b.WriteString(" ")
			}
		}
	}
}

var (
	htmlScriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	wsRe         = regexp.MustCompile(`[ \t]+`)
	blankLineRe  = regexp.MustCompile(`\n{3,}`)
)

func stripHTML(s string) string {
	s = htmlScriptRe.ReplaceAllString(s, " ")
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'").Replace(s)
	return s
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = wsRe.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = blankLineRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

const summaryChunkSize = 4000
const summaryChunkOverlap = 200

const summarizeSystemPrompt = `You summarize study material for students. ` +
	`Write a clear, structured summary that keeps key terms, definitions, and examples. ` +
	`Use short paragraphs. Do not add information that is not in the text.`

// Summarize condenses extracted text. Long documents are split on
// sentence boundaries into overlapping chunks, each chunk summarized,
// and the partial summaries merged with a second pass.
func (s *DocumentService) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", util.ErrEmptyDocument
	}

	chunks := splitChunks(text, summaryChunkSize, summaryChunkOverlap)
	if len(chunks) == 1 {
		return s.llm.Chat(ctx, "summarize", summarizeSystemPrompt,
			"Summarize the following material:\n\n"+chunks[0])
	}

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		part, err := s.llm.Chat(ctx, "summarize", summarizeSystemPrompt,
			fmt.Sprintf("Summarize part %d of %d of a longer document:\n\n%s", i+1, len(chunks), chunk))
		if err != nil {
			return "", err
		}
		partials = append(partials, part)
	}

	return s.llm.Chat(ctx, "summarize_merge", summarizeSystemPrompt,
		"Merge these partial summaries of one document into a single coherent summary:\n\n"+
			strings.Join(partials, "\n\n---\n\n"))
}

// splitChunks cuts text into at-most-size pieces, preferring sentence
// boundaries and carrying overlap characters into the next chunk.
func splitChunks(text string, size, overlap int) []string {
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		cut := end
		for i := end; i > start+size/2; i-- {
			ch := text[i-1]
			if ch == '.' || ch == '!' || ch == '?' || ch == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, text[start:cut])

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}
	return chunks
}
