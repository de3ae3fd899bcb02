package styles

import (
	"fmt"
	"sort"
)

// Category groups overrides by the kind of element they apply to.
type Category string

const (
	Paragraph Category = "paragraph"
	Character Category = "character"
	Object    Category = "object"
)

// Categories lists every category in report order.
var Categories = []Category{Paragraph, Character, Object}

// Label returns the role token for override idx.
func (c Category) Label(idx int) string {
	return fmt.Sprintf("%s-override-%d", c, idx)
}

// Override describes one distinct override discovered in a document.
type Override struct {
	Index     int
	AppliedTo []string // sorted base roles the override was seen on
	Key       Key
}

// Role returns the role token for this override in category c.
func (o Override) Role(c Category) string {
	return c.Label(o.Index)
}

type entry struct {
	index   int
	key     Key
	applied map[string]bool
}

type table struct {
	byKey   map[string]*entry
	entries []*entry
}

// Registry assigns stable 1-based indices to override keys, separately
// for each category, in first-seen order. A Registry belongs to a single
// conversion run.
type Registry struct {
	tables map[Category]*table
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{tables: make(map[Category]*table, len(Categories))}
	for _, c := range Categories {
		r.tables[c] = &table{byKey: make(map[string]*entry)}
	}
	return r
}

// Register returns the index of key in category c, assigning the next
// index when the key is new. A non-empty baseRole is recorded against it.
func (r *Registry) Register(c Category, key Key, baseRole string) int {
	t := r.tables[c]
	id := key.String()
	e, ok := t.byKey[id]
	if !ok {
		e = &entry{index: len(t.entries) + 1, key: key, applied: make(map[string]bool)}
		t.byKey[id] = e
		t.entries = append(t.entries, e)
	}
	if baseRole != "" {
		e.applied[baseRole] = true
	}
	return e.index
}

// Lookup returns the index of key in category c, or 0.
func (r *Registry) Lookup(c Category, key Key) int {
	if e, ok := r.tables[c].byKey[key.String()]; ok {
		return e.index
	}
	return 0
}

// Len returns the number of overrides in category c.
func (r *Registry) Len(c Category) int {
	return len(r.tables[c].entries)
}

// Overrides returns the overrides of category c in index order.
func (r *Registry) Overrides(c Category) []Override {
	t := r.tables[c]
	out := make([]Override, 0, len(t.entries))
	for _, e := range t.entries {
		applied := make([]string, 0, len(e.applied))
		for role := range e.applied {
			applied = append(applied, role)
		}
		sort.Strings(applied)
		out = append(out, Override{Index: e.index, AppliedTo: applied, Key: e.key})
	}
	return out
}
