package output

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/dgallion1/omextract/internal/extract"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var htmlPage = template.Must(template.New("records").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{- range .Sections}}
<section>
<h1>{{.Section}}</h1>
{{- if .Subsection}}
<h2>{{.Subsection}}</h2>
{{- end}}
{{.Body}}</section>
{{- end}}
</body>
</html>
`))

type htmlSection struct {
	Section    string
	Subsection string
	Body       template.HTML
}

// markdown renders record content. Raw HTML in the source is dropped.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// EncodeHTML writes a standalone page with one <section> per record. Record
// content is rendered as Markdown so converted tables become <table>s.
func EncodeHTML(w io.Writer, records []extract.Record) error {
	data := struct {
		Title    string
		Sections []htmlSection
	}{Title: "Extracted sections"}

	for i, r := range records {
		body, err := RenderContent(r.Content)
		if err != nil {
			return fmt.Errorf("render record %d: %w", i+1, err)
		}
		data.Sections = append(data.Sections, htmlSection{
			Section:    r.Section,
			Subsection: r.Subsection,
			Body:       template.HTML(body),
		})
	}

	if err := htmlPage.Execute(w, data); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}

// RenderContent converts record content to an HTML fragment.
func RenderContent(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(markdownBlocks(content)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// markdownBlocks separates content lines into Markdown blocks: every
// paragraph line stands alone, consecutive table lines stay together.
func markdownBlocks(content string) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			if isTableLine(line) && isTableLine(lines[i-1]) {
				b.WriteByte('\n')
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(line)
	}
	return b.String()
}

func isTableLine(s string) bool {
	return strings.HasPrefix(s, "|") && strings.HasSuffix(s, "|")
}
