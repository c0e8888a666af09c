package output

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/omextract/internal/extract"
)

// WriteError reports a destination that could not be opened or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsWriteError reports whether err carries a WriteError.
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}

// Writer writes record files. Output is staged in a temporary file next to
// the destination and renamed into place, so a failed write never leaves a
// partial file behind.
type Writer struct {
	Log *slog.Logger
}

func NewWriter(log *slog.Logger) *Writer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Writer{Log: log}
}

func (w *Writer) WriteFile(ctx context.Context, path string, f Format, records []extract.Record) error {
	log := w.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if err := writeAtomic(ctx, path, f, records); err != nil {
		log.Error("write output failed", "path", path, "format", f, "error", err)
		return &WriteError{Path: path, Err: err}
	}

	log.Info("wrote output", "path", path, "format", f, "records", len(records))
	return nil
}

func writeAtomic(ctx context.Context, path string, f Format, records []extract.Record) (err error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if f == SQLite {
		if err = tmp.Close(); err != nil {
			return err
		}
		if err = WriteSQLite(ctx, tmpPath, records); err != nil {
			return err
		}
	} else {
		bw := bufio.NewWriter(tmp)
		if err = Encode(bw, f, records); err != nil {
			return err
		}
		if err = bw.Flush(); err != nil {
			return err
		}
		if err = tmp.Sync(); err != nil {
			return err
		}
		if err = tmp.Close(); err != nil {
			return err
		}
	}

	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
