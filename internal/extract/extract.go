// Package extract turns a section/block document tree into flat records.
//
// Every section unit anywhere below the root yields one record, or one record
// per direct subsection unit when it has any. Record content is the trimmed
// own text of each paragraph unit followed by the Markdown rendering of each
// table unit, one per line.
package extract

import (
	"log/slog"

	"github.com/dgallion1/omextract/internal/xmltree"
	"golang.org/x/sync/errgroup"
)

// Record is one extracted row. Subsection is "" when the section has no
// subsection units.
type Record struct {
	Section    string `json:"section" yaml:"section"`
	Subsection string `json:"subsection" yaml:"subsection"`
	Content    string `json:"content" yaml:"content"`
}

// Summary counts what an extraction saw.
type Summary struct {
	Sections    int `json:"sections"`
	Subsections int `json:"subsections"`
	Records     int `json:"records"`
	Tables      int `json:"tables"`       // rendered into content
	EmptyTables int `json:"empty_tables"` // no row produced any cell
}

func (s *Summary) add(o Summary) {
	s.Sections += o.Sections
	s.Subsections += o.Subsections
	s.Records += o.Records
	s.Tables += o.Tables
	s.EmptyTables += o.EmptyTables
}

// Options configures an Extractor. Zero values select the defaults.
type Options struct {
	Vocabulary Vocabulary
	Workers    int // section units extracted concurrently; <= 1 is serial
	Log        *slog.Logger
}

// Extractor applies the section/subsection/content policy. It holds no
// per-document state and is safe for concurrent use.
type Extractor struct {
	vocab   Vocabulary
	workers int
	log     *slog.Logger
}

func New(opts Options) *Extractor {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Extractor{
		vocab:   opts.Vocabulary.WithDefaults(),
		workers: opts.Workers,
		log:     log,
	}
}

// Vocabulary returns the tag names in effect.
func (e *Extractor) Vocabulary() Vocabulary {
	return e.vocab
}

// Extract returns the records of doc in document order.
func (e *Extractor) Extract(doc *xmltree.Document) []Record {
	records, _ := e.ExtractWithSummary(doc)
	return records
}

// ExtractWithSummary is Extract plus counters.
func (e *Extractor) ExtractWithSummary(doc *xmltree.Document) ([]Record, Summary) {
	if doc == nil || doc.Root == nil {
		return nil, Summary{}
	}

	var sections []*xmltree.Node
	for n := range doc.Root.Descendants(e.vocab.Section) {
		sections = append(sections, n)
	}

	// Each section writes only its own slot, so the flattened order matches
	// a serial walk regardless of scheduling.
	parts := make([][]Record, len(sections))
	sums := make([]Summary, len(sections))

	if e.workers > 1 && len(sections) > 1 {
		var g errgroup.Group
		g.SetLimit(e.workers)
		for i, sec := range sections {
			g.Go(func() error {
				parts[i], sums[i] = e.section(sec)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, sec := range sections {
			parts[i], sums[i] = e.section(sec)
		}
	}

	var summary Summary
	records := make([]Record, 0, len(sections))
	for i := range parts {
		records = append(records, parts[i]...)
		summary.add(sums[i])
	}

	e.log.Debug("extracted records",
		"source", doc.Source,
		"sections", summary.Sections,
		"subsections", summary.Subsections,
		"records", summary.Records,
		"tables", summary.Tables,
		"empty_tables", summary.EmptyTables,
	)
	return records, summary
}

func (e *Extractor) section(sec *xmltree.Node) ([]Record, Summary) {
	sum := Summary{Sections: 1}
	title := titleOf(sec, e.vocab.Head, e.vocab.NoSectionTitle)

	blocks := sec.ChildrenNamed(e.vocab.Subsection)
	if len(blocks) == 0 {
		content, tables := e.content(sec)
		sum.add(tables)
		sum.Records = 1
		return []Record{{Section: title, Subsection: "", Content: content}}, sum
	}

	records := make([]Record, 0, len(blocks))
	for _, block := range blocks {
		content, tables := e.content(block)
		sum.add(tables)
		records = append(records, Record{
			Section:    title,
			Subsection: titleOf(block, e.vocab.Head, e.vocab.NoSubsectionTitle),
			Content:    content,
		})
	}
	sum.Subsections = len(blocks)
	sum.Records = len(records)
	return records, sum
}

// content harvests paragraph lines, then table blocks, from src.
func (e *Extractor) content(src *xmltree.Node) (string, Summary) {
	var sum Summary
	var lines []string

	for para := range src.Descendants(e.vocab.Paragraph) {
		if t := ownTextTrimmed(para); t != "" {
			lines = append(lines, t)
		}
	}

	for tbl := range src.Descendants(e.vocab.Table) {
		md := e.TableMarkdown(tbl)
		if md == "" {
			sum.EmptyTables++
			continue
		}
		sum.Tables++
		lines = append(lines, md)
	}

	return joinLines(lines), sum
}
