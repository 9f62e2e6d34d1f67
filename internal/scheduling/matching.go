package scheduling

import (
	"strings"

	"brewery_backend/internal/models"
)

// Matcher attributes shift rows to roster employees.
//
// Rows carrying an employee id are matched by id. Rows without one are matched by
// name: exact equality first, then (only when fallback is enabled) case-insensitive
// substring containment in either direction. The first match in roster order wins.
type Matcher struct {
	roster   []models.Employee
	byID     map[int64]int
	fallback bool
}

// NewMatcher indexes the roster.
func NewMatcher(roster []models.Employee, nameFallback bool) *Matcher {
	m := &Matcher{roster: roster, byID: make(map[int64]int, len(roster)), fallback: nameFallback}
	for i, e := range roster {
		if _, seen := m.byID[e.ID]; !seen {
			m.byID[e.ID] = i
		}
	}
	return m
}

// ByID returns the employee with the given id.
func (m *Matcher) ByID(id int64) (models.Employee, bool) {
	i, ok := m.byID[id]
	if !ok {
		return models.Employee{}, false
	}
	return m.roster[i], true
}

// ByName applies the exact-then-substring policy to a stored name.
func (m *Matcher) ByName(name string) (models.Employee, bool) {
	return matchName(m.roster, name, m.fallback)
}

// Match prefers the id and falls back to the name when the id is absent or unknown.
func (m *Matcher) Match(id *int64, name string) (models.Employee, bool) {
	if id != nil {
		if e, ok := m.ByID(*id); ok {
			return e, true
		}
	}
	return m.ByName(name)
}

func matchName(roster []models.Employee, name string, fallback bool) (models.Employee, bool) {
	for _, e := range roster {
		if e.Name == name {
			return e, true
		}
	}
	if !fallback {
		return models.Employee{}, false
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return models.Employee{}, false
	}
	for _, e := range roster {
		candidate := strings.ToLower(strings.TrimSpace(e.Name))
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			return e, true
		}
	}
	return models.Employee{}, false
}

// ReconcileName resolves a legacy row's stored name with the substring fallback always on.
// It backs the one-time employee_id backfill.
func ReconcileName(roster []models.Employee, name string) (models.Employee, bool) {
	return matchName(roster, name, true)
}
