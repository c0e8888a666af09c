// Package output serializes extracted records.
package output

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/omextract/internal/extract"
)

// Header is the column order of every tabular format.
var Header = []string{"section", "subsection", "content"}

var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrNotStreamable = errors.New("format can only be written to a file")
)

// Format names an output encoding.
type Format string

const (
	CSV    Format = "csv"
	JSON   Format = "json"
	XLSX   Format = "xlsx"
	HTML   Format = "html"
	SQLite Format = "sqlite"
)

// Formats lists every supported format, default first.
var Formats = []Format{CSV, JSON, XLSX, HTML, SQLite}

// ParseFormat accepts a format name case-insensitively. "" means CSV.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CSV, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	switch s {
	case "db", "sqlite3":
		return SQLite, nil
	case "htm":
		return HTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatForPath guesses the format from a file extension, falling back to CSV.
func FormatForPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, err := ParseFormat(ext); err == nil && ext != "" {
		return f
	}
	return CSV
}

func (f Format) Extension() string {
	if f == SQLite {
		return ".db"
	}
	return "." + string(f)
}

func (f Format) ContentType() string {
	switch f {
	case JSON:
		return "application/json"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case HTML:
		return "text/html; charset=utf-8"
	case SQLite:
		return "application/vnd.sqlite3"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Streamable reports whether the format can be written to an io.Writer.
func (f Format) Streamable() bool {
	return f != SQLite
}

// Encode writes records to w in format f.
func Encode(w io.Writer, f Format, records []extract.Record) error {
	switch f {
	case CSV, "":
		return EncodeCSV(w, records)
	case JSON:
		return EncodeJSON(w, records)
	case XLSX:
		return EncodeXLSX(w, records)
	case HTML:
		return EncodeHTML(w, records)
	case SQLite:
		return ErrNotStreamable
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}
