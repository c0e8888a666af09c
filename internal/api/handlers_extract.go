package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/omextract/internal/output"
	"github.com/dgallion1/omextract/internal/parser"
	"github.com/go-chi/chi/v5/middleware"
)

// handleExtract converts the uploaded document and returns the records in
// the requested format. The document is either the raw request body or the
// "file" part of a multipart form.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	format, err := output.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !format.Streamable() {
		jsonError(w, fmt.Sprintf("format %q cannot be returned over http", format), http.StatusBadRequest)
		return
	}

	data, filename, err := s.readUpload(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("document exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, summary, err := s.runner.Extract(r.Context(), bytes.NewReader(data), filename)
	if err != nil {
		if parser.IsParseError(err) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("extract failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		jsonError(w, "extraction failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, format, records); err != nil {
		s.log.Error("encode failed", "format", format, "error", err)
		jsonError(w, "encoding failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Record-Count", strconv.Itoa(summary.Records))
	if format == output.XLSX {
		name := strings.TrimSuffix(filename, filepath.Ext(filename)) + format.Extension()
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	}
	_, _ = buf.WriteTo(w)
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, "", err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, "", errors.New("request body is empty")
		}
		return data, "upload.xml", nil
	}

	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("file is required: %w", err)
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return nil, "", fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, "", &http.MaxBytesError{Limit: s.cfg.MaxUploadBytes}
	}
	return data, filename, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		return "upload.xml"
	}
	return name
}
