package grid

import (
	"fmt"
	"strings"

	"github.com/jsphweid/chiptheory/model"
)

// Cache remembers the last grid it computed. The key is the anchors, the
// corrections and the identity of the note slice, so a new note list or an
// edited analysis always recomputes. Not safe for concurrent use.
type Cache struct {
	calc  Calculator
	valid bool
	key   string
	notes []model.Note
	value model.MeasuresAndBeats
}

func NewCache(calc Calculator) *Cache {
	return &Cache{calc: calc}
}

// Compute returns the cached grid when nothing it depends on changed. The
// returned slices are shared and must not be modified.
func (c *Cache) Compute(state model.AnalysisState, notes []model.Note) model.MeasuresAndBeats {
	key := cacheKey(state)
	if c.valid && key == c.key && sameSlice(c.notes, notes) {
		return c.value
	}
	c.value = c.calc.Compute(state, notes)
	c.key = key
	c.notes = notes
	c.valid = true
	return c.value
}

func cacheKey(state model.AnalysisState) string {
	var b strings.Builder
	for _, a := range state.Anchors {
		fmt.Fprintf(&b, "%v,", a)
	}
	b.WriteString("|")
	for _, i := range state.CorrectedIndices() {
		fmt.Fprintf(&b, "%d=%v,", i, state.CorrectedMeasures[i])
	}
	return b.String()
}

func sameSlice(a, b []model.Note) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
