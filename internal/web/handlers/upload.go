package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kozaktomas/group-memory/internal/blob"
	"github.com/kozaktomas/group-memory/internal/constants"
)

var errNoFile = errors.New("no file provided")

// upload is a single file read from a multipart form.
type upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// parseMultipart limits the request body and parses the form.
func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)
	if err := r.ParseMultipartForm(constants.MaxMultipartMemory); err != nil {
		return fmt.Errorf("failed to parse multipart form: %w", err)
	}
	return nil
}

// readUpload reads the named file field. It returns errNoFile when the field
// is missing or empty.
func readUpload(r *http.Request, field string) (*upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, errNoFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	if len(data) == 0 {
		return nil, errNoFile
	}

	return &upload{
		Data:        data,
		Filename:    header.Filename,
		ContentType: blob.DetectContentType(data, header.Header.Get("Content-Type")),
	}, nil
}
