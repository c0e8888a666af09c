package parser

import (
	"encoding/xml"
	"errors"
	"io"
	"log/slog"

	"github.com/dgallion1/omextract/internal/xmltree"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// XMLParser builds an xmltree.Document from well-formed XML. Encodings other
// than UTF-8 are honoured when declared in the prolog.
type XMLParser struct {
	Log *slog.Logger
}

func NewXMLParser(log *slog.Logger) *XMLParser {
	if log == nil {
		log = discardLogger()
	}
	return &XMLParser{Log: log}
}

func (p *XMLParser) Parse(r io.Reader, filename string) (*xmltree.Document, error) {
	log := p.Log
	if log == nil {
		log = discardLogger()
	}

	doc, err := build(r, filename)
	if err != nil {
		log.Error("xml parse failed", "source", filename, "error", err)
		return nil, &ParseError{Source: filename, Err: err}
	}

	log.Info("parsed xml document", "source", filename, "elements", doc.Root.Count())
	return doc, nil
}

func build(r io.Reader, filename string) (*xmltree.Document, error) {
	// A leading byte-order mark is consumed; other input passes through
	// untouched for the declared-charset reader.
	dec := xml.NewDecoder(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	b := xmltree.NewBuilder()
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			err = b.Start(t.Name, t.Attr)
		case xml.EndElement:
			err = b.End()
		case xml.CharData:
			err = b.Text(string(t))
		}
		if err != nil {
			return nil, err
		}
	}
	return b.Document(filename)
}
