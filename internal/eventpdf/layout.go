package eventpdf

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed layouts/event_sheet_v1.yaml
var defaultLayoutYAML []byte

// MaxBeerRows is the number of beer triples the form carries.
const MaxBeerRows = 5

// Logical text fields, in fill order.
const (
	FieldEventName    = "event_name"
	FieldEventDate    = "event_date"
	FieldSetupTime    = "setup_time"
	FieldDuration     = "duration"
	FieldStaff        = "staff"
	FieldContact      = "contact"
	FieldAttendees    = "attendees"
	FieldInstructions = "instructions"

	FieldBeerStyle     = "beer_style"
	FieldBeerPackaging = "beer_packaging"
	FieldBeerQuantity  = "beer_quantity"
)

var baseFields = []string{
	FieldEventName, FieldEventDate, FieldSetupTime, FieldDuration,
	FieldStaff, FieldContact, FieldAttendees, FieldInstructions,
}

var beerFields = []string{FieldBeerStyle, FieldBeerPackaging, FieldBeerQuantity}

// BeerFieldKey returns the logical key of a beer column for a 1-based row.
func BeerFieldKey(column string, row int) string {
	return column + "_" + strconv.Itoa(row)
}

// LogicalFields lists every logical text field including the repeated beer triples.
func LogicalFields() []string {
	keys := append([]string(nil), baseFields...)
	for row := 1; row <= MaxBeerRows; row++ {
		for _, col := range beerFields {
			keys = append(keys, BeerFieldKey(col, row))
		}
	}
	return keys
}

// Point is a position in PDF points from the page's bottom-left corner.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// CheckboxRule checks Field when the predicate in When holds.
// Predicates: "category:<category>", "supply:<flag>", "off_premise".
type CheckboxRule struct {
	Field string `yaml:"field" json:"field"`
	When  string `yaml:"when" json:"when"`
}

// BeerColumns are the x coordinates of the beer table columns.
type BeerColumns struct {
	Style     float64 `yaml:"style" json:"style"`
	Packaging float64 `yaml:"packaging" json:"packaging"`
	Quantity  float64 `yaml:"quantity" json:"quantity"`
}

// BeerTable is the fixed-coordinate beer table; Rows holds one y coordinate per row.
type BeerTable struct {
	Columns BeerColumns `yaml:"columns" json:"columns"`
	Rows    []float64   `yaml:"rows" json:"rows"`
}

// Layout is the versioned mapping between logical event fields and one template document.
type Layout struct {
	Version       string              `yaml:"version" json:"version"`
	Page          int                 `yaml:"page" json:"page"`
	Font          string              `yaml:"font" json:"font"`
	FontSize      int                 `yaml:"font_size" json:"font_size"`
	Fields        map[string][]string `yaml:"fields" json:"fields"`
	Checkboxes    []CheckboxRule      `yaml:"checkboxes" json:"checkboxes"`
	TextPositions map[string]Point    `yaml:"text_positions" json:"text_positions,omitempty"`
	BeerTable     BeerTable           `yaml:"beer_table" json:"beer_table"`
}

// DefaultLayout returns the embedded mapping for the bundled template.
func DefaultLayout() (*Layout, error) {
	return LoadLayoutFromBytes(defaultLayoutYAML)
}

// LoadLayout reads a mapping file; an empty path yields the embedded default.
func LoadLayout(path string) (*Layout, error) {
	if path == "" {
		return DefaultLayout()
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening field map: %w", err)
	}
	defer file.Close()
	return LoadLayoutFromReader(file)
}

// LoadLayoutFromReader parses and validates a mapping.
func LoadLayoutFromReader(r io.Reader) (*Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading field map: %w", err)
	}
	return LoadLayoutFromBytes(data)
}

// LoadLayoutFromBytes parses and validates a mapping.
func LoadLayoutFromBytes(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing field map: %w", err)
	}
	l.applyDefaults()
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("validating field map: %w", err)
	}
	return &l, nil
}

func (l *Layout) applyDefaults() {
	if l.Page <= 0 {
		l.Page = 1
	}
	if l.Font == "" {
		l.Font = "Helvetica"
	}
	if l.FontSize <= 0 {
		l.FontSize = 10
	}
	if l.Fields == nil {
		l.Fields = map[string][]string{}
	}
}

// Validate checks the mapping's own structure.
func (l *Layout) Validate() error {
	if l == nil {
		return errors.New("layout is nil")
	}
	if strings.TrimSpace(l.Version) == "" {
		return errors.New("version is required")
	}
	known := map[string]bool{}
	for _, k := range baseFields {
		known[k] = true
	}
	for _, k := range beerFields {
		known[k] = true
	}
	for key := range l.Fields {
		if !known[key] {
			return fmt.Errorf("fields: unknown logical field %q", key)
		}
	}
	for key := range l.TextPositions {
		if !known[key] {
			return fmt.Errorf("text_positions: unknown logical field %q", key)
		}
	}
	for i, cb := range l.Checkboxes {
		if strings.TrimSpace(cb.Field) == "" {
			return fmt.Errorf("checkboxes[%d]: field is required", i)
		}
		if err := validatePredicate(cb.When); err != nil {
			return fmt.Errorf("checkboxes[%d]: %w", i, err)
		}
	}
	return nil
}

// NamesFor expands the mapped template field names for a logical key.
// Beer keys such as "beer_style_2" expand the "{n}" placeholder of their column.
func (l *Layout) NamesFor(key string) []string {
	if names, ok := l.Fields[key]; ok {
		return names
	}
	column, row, ok := splitBeerKey(key)
	if !ok {
		return nil
	}
	patterns := l.Fields[column]
	names := make([]string, 0, len(patterns))
	for _, p := range patterns {
		names = append(names, strings.ReplaceAll(p, "{n}", strconv.Itoa(row)))
	}
	return names
}

// BeerRowCount is the number of rows the coordinate table can hold.
func (l *Layout) BeerRowCount() int {
	return len(l.BeerTable.Rows)
}

func splitBeerKey(key string) (string, int, bool) {
	for _, col := range beerFields {
		prefix := col + "_"
		if strings.HasPrefix(key, prefix) {
			n, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
			if err != nil || n < 1 {
				return "", 0, false
			}
			return col, n, true
		}
	}
	return "", 0, false
}

func isBeerKey(key string) bool {
	_, _, ok := splitBeerKey(key)
	return ok
}
