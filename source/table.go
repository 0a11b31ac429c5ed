package source

import (
	"github.com/wippyai/loopviz/errors"
)

// Table maps declared names to their records. It is immutable once Extract
// returns.
type Table struct {
	byName map[string]*FunctionRecord
	order  []string
	spans  [][2]int
	diags  []*errors.Error
}

func newTable() *Table {
	return &Table{byName: make(map[string]*FunctionRecord)}
}

// commit stores rec; a later declaration of the same name replaces the
// earlier one but keeps its position in Names. Every committed span is kept,
// replaced ones included.
func (t *Table) commit(rec *FunctionRecord) {
	t.spans = append(t.spans, [2]int{rec.Start, rec.End})
	if prev, ok := t.byName[rec.Name]; ok {
		t.diags = append(t.diags, errors.DuplicateFunction(rec.Name, prev.Start, rec.Start))
	} else {
		t.order = append(t.order, rec.Name)
	}
	t.byName[rec.Name] = rec
}

// Lookup returns the record for name.
func (t *Table) Lookup(name string) (*FunctionRecord, bool) {
	rec, ok := t.byName[name]
	return rec, ok
}

// Has reports whether name is declared.
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Names returns declared names in declaration order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of committed declarations.
func (t *Table) Len() int {
	return len(t.order)
}

// Covers reports whether line falls inside any committed declaration's
// span, including declarations later replaced by the same name.
func (t *Table) Covers(line int) bool {
	for _, span := range t.spans {
		if line >= span[0] && line <= span[1] {
			return true
		}
	}
	return false
}

// Diagnostics returns extraction diagnostics (restarted or unbalanced
// captures, duplicate names). They never affect the table contents.
func (t *Table) Diagnostics() []*errors.Error {
	out := make([]*errors.Error, len(t.diags))
	copy(out, t.diags)
	return out
}
