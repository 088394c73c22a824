package bhosttest

import (
	"strings"
)

type entry struct{ name, value string }

// Table is an insertion ordered, case-insensitive [bhost.Table].
type Table struct {
	entries []entry
}

// NewTable inits a table from name/value pairs.
func NewTable(kv ...string) *Table {
	t := &Table{}
	for i := 0; i+1 < len(kv); i += 2 {
		t.Add(kv[i], kv[i+1])
	}

	return t
}

func (t *Table) Get(name string) (string, bool) {
	for _, e := range t.entries {
		if strings.EqualFold(e.name, name) {
			return e.value, true
		}
	}

	return "", false
}

func (t *Table) Set(name, value string) {
	t.Unset(name)
	t.Add(name, value)
}

func (t *Table) Add(name, value string) {
	t.entries = append(t.entries, entry{name, value})
}

func (t *Table) Unset(name string) {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if !strings.EqualFold(e.name, name) {
			kept = append(kept, e)
		}
	}
	t.entries = kept
}

func (t *Table) Do(fn func(name, value string) bool) {
	for _, e := range t.entries {
		if !fn(e.name, e.value) {
			return
		}
	}
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }
