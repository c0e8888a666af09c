package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/omextract/internal/extract"
)

// EncodeCSV writes the header row and one row per record. Fields containing
// commas, quotes or newlines are quoted. Rows end in "\r\n" while newlines
// embedded in a quoted field are written as-is.
func EncodeCSV(w io.Writer, records []extract.Record) error {
	var row bytes.Buffer
	cw := csv.NewWriter(&row)

	write := func(fields []string) error {
		row.Reset()
		if err := cw.Write(fields); err != nil {
			return err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		// The writer terminates the row with a single "\n".
		line := append(bytes.TrimSuffix(row.Bytes(), []byte("\n")), '\r', '\n')
		_, err := w.Write(line)
		return err
	}

	if err := write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range records {
		if err := write([]string{r.Section, r.Subsection, r.Content}); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	return nil
}

// DecodeCSV reads records written by EncodeCSV. The header row must match.
func DecodeCSV(r io.Reader) ([]extract.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse csv: missing header")
	}
	for i, h := range Header {
		if rows[0][i] != h {
			return nil, fmt.Errorf("parse csv: unexpected header %q", rows[0])
		}
	}

	records := make([]extract.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, extract.Record{Section: row[0], Subsection: row[1], Content: row[2]})
	}
	return records, nil
}
