package eventpdf

import (
	"sort"
	"strings"
	"unicode"
)

// Resolver finds the template field that carries a logical key.
// Lookup order: names from the layout, then spelling variations of the key, then substring.
type Resolver struct {
	layout *Layout
	names  []string
	exact  map[string]string
	folded map[string]string
	norm   map[string]string
}

// NewResolver indexes the field names of one template document.
func NewResolver(layout *Layout, fieldNames []string) *Resolver {
	names := append([]string(nil), fieldNames...)
	sort.Strings(names)
	r := &Resolver{
		layout: layout,
		names:  names,
		exact:  make(map[string]string, len(names)),
		folded: make(map[string]string, len(names)),
		norm:   make(map[string]string, len(names)),
	}
	for _, n := range names {
		r.exact[n] = n
		if _, ok := r.folded[strings.ToLower(n)]; !ok {
			r.folded[strings.ToLower(n)] = n
		}
		r.norm[n] = normalize(n)
	}
	return r
}

// Resolve returns the field name for key, or false when nothing matches.
func (r *Resolver) Resolve(key string) (string, bool) {
	if r.layout != nil {
		for _, name := range r.layout.NamesFor(key) {
			if field, ok := r.exact[name]; ok {
				return field, true
			}
		}
	}

	variations := Variations(key)
	for _, v := range variations {
		if field, ok := r.folded[strings.ToLower(v)]; ok {
			return field, true
		}
	}

	return r.substring(key)
}

// Has reports whether the document carries exactly the named field.
func (r *Resolver) Has(name string) bool {
	_, ok := r.exact[name]
	return ok
}

// substring picks the shortest field whose normalized name contains the normalized key.
func (r *Resolver) substring(key string) (string, bool) {
	needle := normalize(key)
	if len(needle) < 3 {
		return "", false
	}
	best := ""
	for _, n := range r.names {
		if !strings.Contains(r.norm[n], needle) {
			continue
		}
		if best == "" || len(n) < len(best) {
			best = n
		}
	}
	return best, best != ""
}

// Variations spells a snake_case key the ways form authors tend to name fields.
func Variations(key string) []string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == ' ' || r == '-' })
	if len(words) == 0 {
		return nil
	}
	title := make([]string, len(words))
	for i, w := range words {
		title[i] = upperFirst(w)
	}
	camel := strings.ToLower(words[0]) + strings.Join(title[1:], "")

	out := []string{
		key,
		strings.Join(title, " "),
		strings.Join(title, ""),
		camel,
		strings.Join(words, " "),
		strings.Join(title, "_"),
		strings.ToUpper(strings.Join(words, "_")),
	}
	seen := make(map[string]bool, len(out))
	uniq := out[:0]
	for _, v := range out {
		if !seen[v] {
			seen[v] = true
			uniq = append(uniq, v)
		}
	}
	return uniq
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
