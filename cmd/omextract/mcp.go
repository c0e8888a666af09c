package main

import (
	"context"
	"errors"
	"io"

	"github.com/dgallion1/omextract/internal/tool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

// newMCPCmd serves the extraction tools over stdio. Logs go to logOut since
// stdout carries the protocol.
func newMCPCmd(opts *rootOptions, logOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the extract_sections tool over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			log := newLogger(logOut, cfg.LogLevel, cfg.LogFormat)

			server := mcp.NewServer(&mcp.Implementation{Name: "omextract", Version: Version}, nil)
			tool.NewExtractor(newRunner(cfg, log, nil)).Register(server)

			log.Info("serving mcp over stdio")
			err = server.Run(cmd.Context(), &mcp.StdioTransport{})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
