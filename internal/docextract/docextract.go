// Package docextract pulls plain text out of an uploaded document at the
// HTTP ingestion boundary, so everything past that boundary (chunker,
// hierarchy, docsync, orchestrate) only ever sees a string.
package docextract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"github.com/novaquill/docmind/internal/analysis/apierr"
	"github.com/novaquill/docmind/pkg/logger_i"
)

var logger = logger_i.NewLogger("docextract")

// DocType names the kind of document a filename extension maps to.
type DocType string

const (
	PDF     DocType = "pdf"
	DOCX    DocType = "docx"
	Unknown DocType = ""
)

// DetectType maps a filename's extension to a DocType. ".docx", ".txt" and
// ".rtf" all extract through the same generic document reader.
func DetectType(filename string) DocType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".docx", ".txt", ".rtf":
		return DOCX
	default:
		return Unknown
	}
}

// ExtractFile reads a document from disk and returns its full plain text,
// pages joined by blank lines so paragraph boundaries survive into the
// chunker's paragraph splitter.
func ExtractFile(path, filename string) (string, error) {
	docType := DetectType(filename)
	switch docType {
	case PDF:
		return extractPDF(path)
	case DOCX:
		return extractGeneric(path)
	default:
		return "", &apierr.ParseError{Filename: filename, Cause: fmt.Errorf("unsupported file extension")}
	}
}

func extractPDF(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", &apierr.ParseError{Filename: path, Cause: fmt.Errorf("open pdf: %w", err)}
	}

	var pages []string
	numPages := f.NumPage()
	logger.Debug("extracting pdf", "path", path, "pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := extractWithTimeout(page)
		if err != nil {
			logger.Warn("skipping unreadable pdf page", "page", i, "error", err)
			continue
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n\n"), nil
}

func extractWithTimeout(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(10 * time.Second):
		return "", errors.New("timeout extracting page text")
	}
}

// extractGeneric covers .docx, .txt and .rtf through lu4p/cat's format
// sniffing.
func extractGeneric(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", &apierr.ParseError{Filename: path, Cause: fmt.Errorf("extract document: %w", err)}
	}
	return text, nil
}

// CleanupUpload removes a temporary upload file once its text has been
// extracted, logging rather than failing the request if removal fails.
func CleanupUpload(path string) {
	if err := os.Remove(path); err != nil {
		logger.Warn("could not remove temporary upload", "path", path, "error", err)
	}
}
