package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/dgallion1/omextract/internal/config"
	"github.com/dgallion1/omextract/internal/output"
	"github.com/dgallion1/omextract/internal/parser"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		{"write error", &output.WriteError{Path: "out.csv", Err: os.ErrPermission}, ExitWrite},
		{"wrapped write error", fmt.Errorf("batch: %w", &output.WriteError{Path: "out.csv", Err: os.ErrPermission}), ExitWrite},

		{"parse error", &parser.ParseError{Source: "in.xml", Err: errors.New("unexpected EOF")}, ExitParse},
		{"missing input", &parser.ParseError{Source: "in.xml", Err: os.ErrNotExist}, ExitParse},
		{"no input", ErrNoInput, ExitParse},
		{"wrapped parse error", fmt.Errorf("2 of 3 conversions failed: %w", &parser.ParseError{Source: "a.xml"}), ExitParse},

		{"usage", ErrUsage, ExitUsage},
		{"invalid config", fmt.Errorf("%w: workers: too big", ErrInvalidConfig), ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"unknown format", output.ErrUnknownFormat, ExitUsage},

		{"unknown error", errors.New("something unexpected"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_BelowReserved(t *testing.T) {
	t.Parallel()
	for _, code := range []int{ExitSuccess, ExitGeneral, ExitUsage, ExitParse, ExitWrite} {
		if code >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", code)
		}
	}
}
