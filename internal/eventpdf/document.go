package eventpdf

// Field kinds reported by Document.Fields.
const (
	KindText     = "text"
	KindCheckbox = "checkbox"
	KindOther    = "other"
)

// Field describes one interactive form field of a template.
type Field struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Pages []int  `json:"pages,omitempty"`
}

// TextDraw is freeform text stamped at a fixed position.
type TextDraw struct {
	Page     int     `json:"page"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	Font     string  `json:"font"`
	FontSize int     `json:"font_size"`
}

// Document is a template being filled. SetText and SetChecked report false
// when the document has no field of that name and kind.
type Document interface {
	Fields() []Field
	SetText(name, value string) bool
	SetChecked(name string, checked bool) bool
	DrawText(d TextDraw)
	Bytes() ([]byte, error)
}

// FieldNames lists the names of the fields of one kind.
func FieldNames(fields []Field, kind string) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Kind == kind {
			names = append(names, f.Name)
		}
	}
	return names
}
