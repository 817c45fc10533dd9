package resume

import (
	"bytes"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"interview-platform-backend/lib/apperr"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/pkg/errors"
)

type Provider interface {
	// Extract текст резюме. Ошибка всегда типа extraction
	Extract(fileName string, body []byte) (string, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewExtractor()
}

func NewExtractor() Provider {
	return impl{}
}

type impl struct{}

var SupportedExtensions = []string{".pdf", ".docx", ".txt"}

func IsSupported(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, item := range SupportedExtensions {
		if ext == item {
			return true
		}
	}
	return false
}

func (i impl) Extract(fileName string, body []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperr.Extraction(errors.Errorf("panic: %v", r), "не удалось прочитать файл резюме")
		}
	}()
	if len(body) == 0 {
		return "", apperr.Extraction(errors.New("пустой файл"), "файл резюме пуст")
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		text, err = extractPdf(body)
	case ".docx":
		text, err = extractDocx(body)
	case ".txt":
		text, err = extractTxt(body)
	default:
		return "", apperr.Extraction(errors.Errorf("расширение %q", filepath.Ext(fileName)), "неподдерживаемый формат резюме, используйте PDF, DOCX или TXT")
	}
	if err != nil {
		return "", apperr.Extraction(err, "не удалось прочитать файл резюме")
	}
	text = cleanText(text)
	if text == "" {
		return "", apperr.Extraction(errors.New("текст не найден"), "в резюме не найден текст")
	}
	return text, nil
}

func extractPdf(body []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", errors.Wrap(err, "ошибка открытия pdf")
	}
	var textBuilder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

var (
	docxParagraph = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	docxTab       = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTag        = regexp.MustCompile(`<[^>]+>`)
)

func extractDocx(body []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", errors.Wrap(err, "ошибка открытия docx")
	}
	defer doc.Close()
	content := doc.Editable().GetContent()
	content = docxParagraph.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

func extractTxt(body []byte) (string, error) {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(body) {
		return "", errors.New("текстовый файл не в кодировке UTF-8")
	}
	return string(body), nil
}

func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
