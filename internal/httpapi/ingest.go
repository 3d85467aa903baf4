package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/novaquill/docmind/internal/analysis/apierr"
	"github.com/novaquill/docmind/internal/analysis/chunker"
	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/internal/docextract"
)

type ingestResponse struct {
	Text  string         `json:"text"`
	Stats map[string]any `json:"stats"`
}

// Ingest accepts a multipart file upload (PDF, DOCX, TXT or RTF), extracts
// its plain text and returns it alongside basic statistics. It supplements
// the distilled request surface with the file-upload entry point the
// teacher's own ingestion feature exposes, so a rich-text editor assistant
// has somewhere to hand an uploaded reference document before analysis.
func (h *Handlers) Ingest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxDocumentBytes); err != nil {
		writeCapabilityError(w, &apierr.InputError{Message: "file too large or malformed upload", Cause: err})
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeCapabilityError(w, &apierr.InputError{Message: "document file is required", Cause: err})
		return
	}
	defer file.Close()

	tempPath, err := h.stageUpload(file, header.Filename)
	if err != nil {
		writeCapabilityError(w, &apierr.ParseError{Filename: header.Filename, Cause: err})
		return
	}
	defer docextract.CleanupUpload(tempPath)

	text, err := docextract.ExtractFile(tempPath, header.Filename)
	if err != nil {
		writeCapabilityError(w, err)
		return
	}

	stats := chunker.AnalyzeText(text)
	writeJSON(w, http.StatusOK, ingestResponse{
		Text: text,
		Stats: map[string]any{
			"totalCharacters": stats.TotalCharacters,
			"totalWords":      stats.TotalWords,
			"totalParagraphs": stats.TotalParagraphs,
		},
	})
}

func (h *Handlers) stageUpload(file io.Reader, filename string) (string, error) {
	dir, err := uploadDir()
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(filename))
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return path, nil
}

func uploadDir() (string, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	return dir, nil
}
