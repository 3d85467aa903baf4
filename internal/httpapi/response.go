package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/novaquill/docmind/internal/analysis/apierr"
	"github.com/novaquill/docmind/pkg/logger_i"
)

var respLogger = logger_i.NewLogger("httpapi")

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		respLogger.Error("error encoding response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

// writeCapabilityError maps the typed apierr taxonomy to an HTTP status so
// handlers never have to string-match an error message.
func writeCapabilityError(w http.ResponseWriter, err error) {
	var inputErr *apierr.InputError
	var parseErr *apierr.ParseError
	var embedErr *apierr.EmbedderError
	var vectorErr *apierr.VectorStoreError
	var summaryErr *apierr.SummarizationError

	switch {
	case errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, inputErr.Error())
	case errors.As(err, &parseErr):
		writeError(w, http.StatusUnprocessableEntity, parseErr.Error())
	case errors.As(err, &embedErr), errors.As(err, &vectorErr), errors.As(err, &summaryErr):
		respLogger.Error("upstream capability failed", "error", err)
		writeError(w, http.StatusBadGateway, "an upstream service call failed")
	default:
		respLogger.Error("unhandled error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
