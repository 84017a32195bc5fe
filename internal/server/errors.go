package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/venturelab/idea-scorer/internal/ingest"
	"github.com/venturelab/idea-scorer/internal/pipeline"
)

// ErrDocumentSource indicates the requested document could not be loaded
type ErrDocumentSource struct {
	Cause error
}

func (e *ErrDocumentSource) Error() string {
	return fmt.Sprintf("failed to load document: %v", e.Cause)
}

func (e *ErrDocumentSource) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		sourceErr *ErrDocumentSource
		fetchErr  *ingest.FetchError
		noIdeas   *pipeline.NoIdeasError
	)
	switch {
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.As(err, &sourceErr):
		return http.StatusBadRequest
	case errors.As(err, &noIdeas):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
