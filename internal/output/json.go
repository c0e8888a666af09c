package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/omextract/internal/extract"
)

// EncodeJSON writes records as an indented JSON array. A nil slice is
// written as [].
func EncodeJSON(w io.Writer, records []extract.Record) error {
	if records == nil {
		records = []extract.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
