package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/omextract/internal/xmltree"
)

// Parser converts raw document bytes into an element tree.
type Parser interface {
	Parse(r io.Reader, filename string) (*xmltree.Document, error)
}

// ParseError reports an input document that could not be read or is not
// well-formed XML. No partial tree accompanies it.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse xml %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err carries a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// SupportedExtensions lists file extensions picked up from directories.
var SupportedExtensions = map[string]bool{
	".xml": true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ParseFile opens path and parses it with p. The file is closed on every
// return path.
func ParseFile(p Parser, path string) (*xmltree.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Source: path, Err: err}
	}
	defer f.Close()
	return p.Parse(f, path)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
