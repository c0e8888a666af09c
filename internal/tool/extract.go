// Package tool exposes extraction as MCP tools.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dgallion1/omextract/internal/extract"
	"github.com/dgallion1/omextract/internal/output"
	"github.com/dgallion1/omextract/internal/pipeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MetadataExtractSections describes the extract_sections tool.
var MetadataExtractSections = &mcp.Tool{
	Name: "extract_sections",
	Description: "Extract section/subsection/content records from an omsection/block XML document. " +
		"Pass the document inline as content, or a local file path. " +
		"Each record carries the section title, the subsection title (empty when the section has no blocks) " +
		"and the paragraph text followed by any tables rendered as Markdown. " +
		"Set format to csv, json or html to also receive the records rendered in that format.",
	InputSchema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{
				"type":        "string",
				"description": "Raw XML document",
			},
			"path": map[string]any{
				"type":        "string",
				"description": "Path of an XML file readable by the server. Ignored when content is set.",
			},
			"format": map[string]any{
				"type":        "string",
				"description": "Optional rendering of the records.",
				"enum":        []string{"csv", "json", "html"},
			},
		},
	},
}

// InputExtractSections is the input for the ExtractSections tool.
type InputExtractSections struct {
	Content string `json:"content"`
	Path    string `json:"path"`
	Format  string `json:"format"`
}

// OutputExtractSections is the output for the ExtractSections tool.
type OutputExtractSections struct {
	Records []extract.Record `json:"records"`
	Summary extract.Summary  `json:"summary"`
	// Rendered holds the records in the requested format, if any.
	Rendered string `json:"rendered,omitempty"`
}

// Extractor serves extraction tools backed by a pipeline runner.
type Extractor struct {
	runner *pipeline.Runner
}

func NewExtractor(runner *pipeline.Runner) *Extractor {
	return &Extractor{runner: runner}
}

// Register adds every tool to server.
func (e *Extractor) Register(server *mcp.Server) {
	mcp.AddTool(server, MetadataExtractSections, e.ExtractSections)
}

// ExtractSections parses the document and returns its records.
func (e *Extractor) ExtractSections(ctx context.Context, _ *mcp.CallToolRequest, input InputExtractSections) (*mcp.CallToolResult, OutputExtractSections, error) {
	var format output.Format
	if input.Format != "" {
		f, err := output.ParseFormat(input.Format)
		if err != nil {
			return nil, OutputExtractSections{}, err
		}
		if f != output.CSV && f != output.JSON && f != output.HTML {
			return nil, OutputExtractSections{}, fmt.Errorf("format %q cannot be rendered as text", f)
		}
		format = f
	}

	data, source, err := load(input)
	if err != nil {
		return nil, OutputExtractSections{}, err
	}

	records, summary, err := e.runner.Extract(ctx, bytes.NewReader(data), source)
	if err != nil {
		return nil, OutputExtractSections{}, err
	}
	if records == nil {
		records = []extract.Record{}
	}

	out := OutputExtractSections{Records: records, Summary: summary}
	if format != "" {
		var sb strings.Builder
		if err := output.Encode(&sb, format, records); err != nil {
			return nil, OutputExtractSections{}, err
		}
		out.Rendered = sb.String()
	}
	return nil, out, nil
}

func load(input InputExtractSections) ([]byte, string, error) {
	switch {
	case input.Content != "":
		return []byte(input.Content), "content", nil
	case input.Path != "":
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", input.Path, err)
		}
		return data, input.Path, nil
	default:
		return nil, "", errors.New("content or path is required")
	}
}
