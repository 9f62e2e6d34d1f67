package eventpdf

import (
	"strings"

	"brewery_backend/internal/models"
)

// Beer strategies reported by Fill and Check.
const (
	BeerStrategyFields      = "fields"
	BeerStrategyCoordinates = "coordinates"
)

// Report summarizes what one fill did.
type Report struct {
	Filled       int      `json:"filled"`
	Checked      int      `json:"checked"`
	Drawn        int      `json:"drawn"`
	Unresolved   []string `json:"unresolved,omitempty"`
	DroppedBeers int      `json:"dropped_beers"`
	BeerStrategy string   `json:"beer_strategy"`
}

// Fill writes the sheet into doc. Text goes to form fields, falling back to
// fixed coordinates for keys the layout positions. Beer rows use form fields
// when the template has a first-row style field, otherwise the coordinate table.
// Checkboxes are set by exact name only. Text keys never resolve to checkboxes.
func Fill(doc Document, sheet Sheet, layout *Layout) Report {
	fields := doc.Fields()
	resolver := NewResolver(layout, FieldNames(fields, KindText))
	checkboxes := NewResolver(nil, FieldNames(fields, KindCheckbox))
	report := Report{BeerStrategy: beerStrategy(resolver)}
	useBeerFields := report.BeerStrategy == BeerStrategyFields

	for _, v := range sheet.TextValues() {
		if isBeerKey(v.Key) && !useBeerFields {
			continue
		}
		if v.Value == "" {
			continue
		}
		if name, ok := resolver.Resolve(v.Key); ok && doc.SetText(name, v.Value) {
			report.Filled++
			continue
		}
		if pos, ok := layout.TextPositions[v.Key]; ok {
			doc.DrawText(layout.draw(pos, v.Value))
			report.Drawn++
			continue
		}
		report.Unresolved = append(report.Unresolved, v.Key)
	}

	for _, cb := range layout.Checkboxes {
		if !checkboxes.Has(cb.Field) {
			continue
		}
		if doc.SetChecked(cb.Field, sheet.Checked(cb.When)) {
			report.Checked++
		}
	}

	limit := MaxBeerRows
	if !useBeerFields {
		draws := BeerDraws(sheet.Beers, layout)
		for _, d := range draws {
			doc.DrawText(d)
		}
		report.Drawn += len(draws)
		limit = layout.BeerRowCount()
	}
	if len(sheet.Beers) > limit {
		report.DroppedBeers = len(sheet.Beers) - limit
	}
	return report
}

// BeerDraws lays beers out on the coordinate table, one row per beer.
// Beers beyond the table's row count are dropped.
func BeerDraws(beers []models.EventBeer, layout *Layout) []TextDraw {
	cols := layout.BeerTable.Columns
	var draws []TextDraw
	for i, b := range beers {
		if i >= layout.BeerRowCount() {
			break
		}
		y := layout.BeerTable.Rows[i]
		for _, cell := range []struct {
			x    float64
			text string
		}{
			{cols.Style, strings.TrimSpace(b.Style)},
			{cols.Packaging, strings.TrimSpace(b.Packaging)},
			{cols.Quantity, quantity(b.Quantity)},
		} {
			if cell.text == "" {
				continue
			}
			draws = append(draws, layout.draw(Point{X: cell.x, Y: y}, cell.text))
		}
	}
	return draws
}

func (l *Layout) draw(p Point, text string) TextDraw {
	return TextDraw{Page: l.Page, X: p.X, Y: p.Y, Text: text, Font: l.Font, FontSize: l.FontSize}
}

func beerStrategy(r *Resolver) string {
	if _, ok := r.Resolve(BeerFieldKey(FieldBeerStyle, 1)); ok {
		return BeerStrategyFields
	}
	return BeerStrategyCoordinates
}

// MappingReport is the result of checking a layout against a template's fields.
type MappingReport struct {
	Version           string            `json:"version"`
	Resolved          map[string]string `json:"resolved"`
	Missing           []string          `json:"missing,omitempty"`
	MissingCheckboxes []string          `json:"missing_checkboxes,omitempty"`
	BeerStrategy      string            `json:"beer_strategy"`
}

// OK reports whether every logical field and checkbox has a home.
func (m MappingReport) OK() bool {
	return len(m.Missing) == 0 && len(m.MissingCheckboxes) == 0
}

// Check resolves every logical field and checkbox of the layout against a template's fields.
// Fields the layout positions by coordinate are never missing.
func (l *Layout) Check(fields []Field) MappingReport {
	resolver := NewResolver(l, FieldNames(fields, KindText))
	checkboxes := NewResolver(nil, FieldNames(fields, KindCheckbox))
	report := MappingReport{
		Version:      l.Version,
		Resolved:     map[string]string{},
		BeerStrategy: beerStrategy(resolver),
	}
	for _, key := range LogicalFields() {
		if isBeerKey(key) && report.BeerStrategy == BeerStrategyCoordinates {
			continue
		}
		if name, ok := resolver.Resolve(key); ok {
			report.Resolved[key] = name
			continue
		}
		if _, ok := l.TextPositions[key]; ok {
			continue
		}
		report.Missing = append(report.Missing, key)
	}
	for _, cb := range l.Checkboxes {
		if !checkboxes.Has(cb.Field) {
			report.MissingCheckboxes = append(report.MissingCheckboxes, cb.Field)
		}
	}
	return report
}
