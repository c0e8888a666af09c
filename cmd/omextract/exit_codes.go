package main

import (
	"errors"

	"github.com/dgallion1/omextract/internal/config"
	"github.com/dgallion1/omextract/internal/output"
	"github.com/dgallion1/omextract/internal/parser"
)

// Exit codes for the omextract CLI.
const (
	ExitSuccess = 0 // Conversion succeeded
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags or configuration
	ExitParse   = 3 // Input missing, unreadable or not well-formed
	ExitWrite   = 4 // Output could not be written
)

var (
	ErrUsage         = errors.New("invalid usage")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNoInput       = errors.New("no xml input found")
)

// exitCodeFor maps err to an exit code. Callers wrap with %w so errors.Is
// and errors.As see through the chain.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if output.IsWriteError(err) {
		return ExitWrite
	}

	if parser.IsParseError(err) || errors.Is(err, ErrNoInput) {
		return ExitParse
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, output.ErrUnknownFormat) ||
		errors.Is(err, output.ErrNotStreamable) {
		return ExitUsage
	}

	return ExitGeneral
}
