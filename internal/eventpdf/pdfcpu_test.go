package eventpdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blankPDF builds a one-page letter document with no interactive form.
func blankPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>",
	}
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

const formTemplateJSON = `{
	"paper": "A4P",
	"origin": "LowerLeft",
	"fonts": {
		"input": {"name": "Helvetica", "size": 10}
	},
	"pages": {
		"1": {
			"content": {
				"textfield": [
					{"id": "Event Name", "pos": [100, 700], "width": 200},
					{"id": "Date", "pos": [100, 670], "width": 200},
					{"id": "Staff On Site", "pos": [100, 640], "width": 200}
				],
				"checkbox": [
					{"id": "Festival", "pos": [100, 610], "width": 12},
					{"id": "Staff", "pos": [100, 590], "width": 12}
				]
			}
		}
	}
}`

// formPDF creates a one-page template with three text fields and two checkboxes.
func formPDF(t *testing.T) []byte {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, api.Create(nil, strings.NewReader(formTemplateJSON), &out, newConf()))
	return out.Bytes()
}

func exportedValues(t *testing.T, pdf []byte) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, api.ExportFormJSON(bytes.NewReader(pdf), &buf, "filled", newConf()))
	var form formExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &form))

	values := map[string]interface{}{}
	for _, group := range form.Forms {
		for _, raw := range group {
			entries, ok := raw.([]interface{})
			if !ok {
				continue
			}
			for _, e := range entries {
				if entry, ok := e.(map[string]interface{}); ok {
					values[entryName(entry)] = entry["value"]
				}
			}
		}
	}
	return values
}

func TestOpenPDFRejectsGarbage(t *testing.T) {
	_, err := OpenPDF([]byte("not a pdf"))
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestGenerateStampsBlankTemplate(t *testing.T) {
	g := NewGenerator(blankPDF(), defaultLayout(t))

	out, report, err := g.Generate(sampleSheet())
	require.NoError(t, err)

	assert.Equal(t, BeerStrategyCoordinates, report.BeerStrategy)
	assert.Equal(t, 6, report.Drawn)
	assert.Zero(t, report.Filled)
	assert.Contains(t, report.Unresolved, FieldEventName)
	require.NoError(t, api.Validate(bytes.NewReader(out), newConf()))
	pages, err := api.PageCount(bytes.NewReader(out), newConf())
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
	assert.NotEqual(t, blankPDF(), out)

	analysis, err := g.Analyze()
	require.NoError(t, err)
	assert.Empty(t, analysis.Fields)
	assert.Equal(t, BeerStrategyCoordinates, analysis.Mapping.BeerStrategy)
	assert.Contains(t, analysis.Mapping.Missing, FieldEventName)
	assert.Contains(t, analysis.Mapping.MissingCheckboxes, "Festival")
}

func TestGenerateFillsFormTemplate(t *testing.T) {
	g := NewGenerator(formPDF(t), defaultLayout(t))

	analysis, err := g.Analyze()
	require.NoError(t, err)
	assert.ElementsMatch(t, []Field{
		{Name: "Date", Kind: KindText, Pages: []int{1}},
		{Name: "Event Name", Kind: KindText, Pages: []int{1}},
		{Name: "Festival", Kind: KindCheckbox, Pages: []int{1}},
		{Name: "Staff", Kind: KindCheckbox, Pages: []int{1}},
		{Name: "Staff On Site", Kind: KindText, Pages: []int{1}},
	}, analysis.Fields)
	assert.Equal(t, "Staff On Site", analysis.Mapping.Resolved[FieldStaff])
	assert.Equal(t, "Date", analysis.Mapping.Resolved[FieldEventDate])
	assert.NotContains(t, analysis.Mapping.MissingCheckboxes, "Festival")

	out, report, err := g.Generate(sampleSheet())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Filled)
	assert.Equal(t, 1, report.Checked)
	assert.Equal(t, 6, report.Drawn)
	require.NoError(t, api.Validate(bytes.NewReader(out), newConf()))

	values := exportedValues(t, out)
	assert.Equal(t, "Summer Fest", values["Event Name"])
	assert.Equal(t, "7/4/2024", values["Date"])
	assert.Equal(t, "Matt L., Sarah Brewer", values["Staff On Site"])
	assert.Equal(t, true, values["Festival"])
	assert.Equal(t, false, values["Staff"])
}
