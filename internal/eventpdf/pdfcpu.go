package eventpdf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"brewery_backend/pkg/utils"
)

// ErrInvalidTemplate is returned when the template bytes are not a readable PDF.
var ErrInvalidTemplate = errors.New("template is not a valid pdf")

// pdfcpu form export group names.
const (
	groupTextField = "textfield"
	groupDateField = "datefield"
	groupComboBox  = "combobox"
	groupCheckBox  = "checkbox"
)

// formExport mirrors pdfcpu's form JSON loosely so unknown groups survive the round trip.
type formExport struct {
	Header interface{}              `json:"header,omitempty"`
	Forms  []map[string]interface{} `json:"forms"`
}

type pdfDocument struct {
	template []byte
	form     *formExport
	fields   []Field
	text     map[string][]map[string]interface{}
	checks   map[string][]map[string]interface{}
	dirty    bool
	draws    []TextDraw
}

func newConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// OpenPDF loads a template through pdfcpu. A template without an
// interactive form opens with no fields and can still be stamped.
func OpenPDF(template []byte) (Document, error) {
	if err := api.Validate(bytes.NewReader(template), newConf()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	doc := &pdfDocument{
		template: template,
		text:     map[string][]map[string]interface{}{},
		checks:   map[string][]map[string]interface{}{},
	}

	var buf bytes.Buffer
	if err := api.ExportFormJSON(bytes.NewReader(template), &buf, "template", newConf()); err != nil {
		utils.LogDebug("Template has no exportable form", map[string]interface{}{"error": err.Error()})
		return doc, nil
	}
	var form formExport
	if err := json.Unmarshal(buf.Bytes(), &form); err != nil {
		return nil, fmt.Errorf("decoding form export: %w", err)
	}
	doc.form = &form
	doc.index()
	return doc, nil
}

func (d *pdfDocument) index() {
	seen := map[string]bool{}
	for _, group := range d.form.Forms {
		groups := make([]string, 0, len(group))
		for name := range group {
			groups = append(groups, name)
		}
		sort.Strings(groups)
		for _, name := range groups {
			entries, ok := group[name].([]interface{})
			if !ok {
				continue
			}
			for _, e := range entries {
				entry, ok := e.(map[string]interface{})
				if !ok {
					continue
				}
				fieldName := entryName(entry)
				if fieldName == "" {
					continue
				}
				kind := KindOther
				switch name {
				case groupTextField, groupDateField, groupComboBox:
					kind = KindText
					d.text[fieldName] = append(d.text[fieldName], entry)
				case groupCheckBox:
					kind = KindCheckbox
					d.checks[fieldName] = append(d.checks[fieldName], entry)
				}
				if seen[fieldName] {
					continue
				}
				seen[fieldName] = true
				d.fields = append(d.fields, Field{Name: fieldName, Kind: kind, Pages: pagesOf(entry["pages"])})
			}
		}
	}
	sort.Slice(d.fields, func(i, j int) bool { return d.fields[i].Name < d.fields[j].Name })
}

// entryName prefers the field's partial name and falls back to its object id.
func entryName(entry map[string]interface{}) string {
	if name, _ := entry["name"].(string); name != "" {
		return name
	}
	id, _ := entry["id"].(string)
	return id
}

func pagesOf(v interface{}) []int {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	pages := make([]int, 0, len(raw))
	for _, p := range raw {
		if f, ok := p.(float64); ok {
			pages = append(pages, int(f))
		}
	}
	return pages
}

func (d *pdfDocument) Fields() []Field {
	return d.fields
}

func (d *pdfDocument) SetText(name, value string) bool {
	return d.set(d.text[name], value)
}

func (d *pdfDocument) SetChecked(name string, checked bool) bool {
	return d.set(d.checks[name], checked)
}

func (d *pdfDocument) set(entries []map[string]interface{}, value interface{}) bool {
	if len(entries) == 0 {
		return false
	}
	for _, entry := range entries {
		entry["value"] = value
	}
	d.dirty = true
	return true
}

func (d *pdfDocument) DrawText(t TextDraw) {
	d.draws = append(d.draws, t)
}

// Bytes fills the form, locks it and stamps queued text on top.
func (d *pdfDocument) Bytes() ([]byte, error) {
	current := d.template

	if d.dirty {
		payload, err := json.Marshal(d.form)
		if err != nil {
			return nil, fmt.Errorf("encoding form values: %w", err)
		}
		var out bytes.Buffer
		if err := api.FillForm(bytes.NewReader(current), bytes.NewReader(payload), &out, newConf()); err != nil {
			return nil, fmt.Errorf("filling form: %w", err)
		}
		current = out.Bytes()

		var locked bytes.Buffer
		if err := api.LockFormFields(bytes.NewReader(current), &locked, nil, newConf()); err != nil {
			utils.LogWarn("Unable to lock filled form", map[string]interface{}{"error": err.Error()})
		} else {
			current = locked.Bytes()
		}
	}

	for _, t := range d.draws {
		var out bytes.Buffer
		desc := fmt.Sprintf("fontname:%s, points:%d, fillcolor:#000000, pos:bl, off:%0.2f %0.2f, scale:1 abs, rot:0, op:1",
			t.Font, t.FontSize, t.X, t.Y)
		wm, err := api.TextWatermark(t.Text, desc, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("building stamp for %q: %w", t.Text, err)
		}
		pages := []string{strconv.Itoa(t.Page)}
		if err := api.AddWatermarks(bytes.NewReader(current), &out, pages, wm, newConf()); err != nil {
			return nil, fmt.Errorf("stamping text at %0.0f,%0.0f: %w", t.X, t.Y, err)
		}
		current = out.Bytes()
	}

	if len(current) == 0 {
		return nil, errors.New("generated pdf is empty")
	}
	return current, nil
}
