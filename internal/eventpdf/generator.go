package eventpdf

import (
	"fmt"
	"os"
)

// Opener turns template bytes into a fillable Document.
type Opener func(template []byte) (Document, error)

// Generator renders event sheets from one template and one layout.
type Generator struct {
	template []byte
	layout   *Layout
	open     Opener
}

// NewGenerator returns a pdfcpu-backed generator.
func NewGenerator(template []byte, layout *Layout) *Generator {
	return NewGeneratorWithOpener(template, layout, OpenPDF)
}

// NewGeneratorWithOpener returns a generator using open to load the template.
func NewGeneratorWithOpener(template []byte, layout *Layout, open Opener) *Generator {
	return &Generator{template: template, layout: layout, open: open}
}

// LoadGenerator reads the template from disk.
func LoadGenerator(templatePath string, layout *Layout) (*Generator, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("reading pdf template: %w", err)
	}
	return NewGenerator(data, layout), nil
}

// Layout returns the mapping in use.
func (g *Generator) Layout() *Layout {
	return g.layout
}

// Generate renders one sheet.
func (g *Generator) Generate(sheet Sheet) ([]byte, Report, error) {
	doc, err := g.open(g.template)
	if err != nil {
		return nil, Report{}, err
	}
	report := Fill(doc, sheet, g.layout)
	out, err := doc.Bytes()
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}

// Analysis lists a template's fields and how the layout maps onto them.
type Analysis struct {
	Fields  []Field       `json:"fields"`
	Mapping MappingReport `json:"mapping"`
}

// Analyze inspects the template's interactive fields.
func (g *Generator) Analyze() (*Analysis, error) {
	doc, err := g.open(g.template)
	if err != nil {
		return nil, err
	}
	fields := doc.Fields()
	if fields == nil {
		fields = []Field{}
	}
	return &Analysis{Fields: fields, Mapping: g.layout.Check(fields)}, nil
}
