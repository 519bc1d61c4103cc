package grade

import (
	"sort"

	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/shopspring/decimal"
)

// Catalog is an immutable, ordered snapshot of grades taken at the start of a
// transition run. Concurrent edits to grade definitions are never observed
// mid-run: callers build a Catalog once and pass it around by value reference.
type Catalog struct {
	grades []*Grade // sorted by Order ascending, top tier first
	byID   map[string]*Grade
}

// NewCatalog builds a catalog snapshot from the given grades. The slice is
// copied and sorted by Order ascending; the input is not retained.
// Returns ErrNoGradesConfigured on an empty input, which is fatal for a
// whole transition run.
func NewCatalog(grades []*Grade) (*Catalog, error) {
	if len(grades) == 0 {
		return nil, ierr.NewError("grade catalog is empty").
			WithHint("At least one active grade must be configured").
			Mark(ierr.ErrNoGradesConfigured)
	}

	sorted := make([]*Grade, len(grades))
	copy(sorted, grades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	byID := make(map[string]*Grade, len(sorted))
	for _, g := range sorted {
		byID[g.ID] = g
	}

	return &Catalog{grades: sorted, byID: byID}, nil
}

// ByOrderAscending returns the grades top tier first
func (c *Catalog) ByOrderAscending() []*Grade {
	out := make([]*Grade, len(c.grades))
	copy(out, c.grades)
	return out
}

// ByID returns the grade with the given id, if present
func (c *Catalog) ByID(id string) (*Grade, bool) {
	g, ok := c.byID[id]
	return g, ok
}

// Top returns the highest tier
func (c *Catalog) Top() *Grade {
	return c.grades[0]
}

// Bottom returns the lowest tier
func (c *Catalog) Bottom() *Grade {
	return c.grades[len(c.grades)-1]
}

// Size returns the number of grades in the snapshot
func (c *Catalog) Size() int {
	return len(c.grades)
}

// FindByRevenue returns the grade whose band contains the revenue, inclusive
// on both ends. Overlapping bands resolve to the higher tier. If no band
// matches, revenue above every bounded band maps to the top tier and
// anything else maps to the bottom tier, so the lookup is total over a
// non-empty catalog.
func (c *Catalog) FindByRevenue(revenue decimal.Decimal) *Grade {
	for _, g := range c.grades {
		if g.ContainsRevenue(revenue) {
			return g
		}
	}

	aboveAll := true
	for _, g := range c.grades {
		if g.MaxRevenue == nil || revenue.LessThanOrEqual(*g.MaxRevenue) {
			aboveAll = false
			break
		}
	}
	if aboveAll {
		return c.Top()
	}
	return c.Bottom()
}

// Above returns the tiers strictly above the given grade, nearest first
func (c *Catalog) Above(g *Grade) []*Grade {
	idx := c.indexOf(g.ID)
	if idx <= 0 {
		return nil
	}

	out := make([]*Grade, 0, idx)
	for i := idx - 1; i >= 0; i-- {
		out = append(out, c.grades[i])
	}
	return out
}

// NextAbove returns the tier immediately above the given grade, or nil at the top
func (c *Catalog) NextAbove(g *Grade) *Grade {
	idx := c.indexOf(g.ID)
	if idx <= 0 {
		return nil
	}
	return c.grades[idx-1]
}

// NextBelow returns the tier immediately below the given grade, or nil at the bottom
func (c *Catalog) NextBelow(g *Grade) *Grade {
	idx := c.indexOf(g.ID)
	if idx < 0 || idx >= len(c.grades)-1 {
		return nil
	}
	return c.grades[idx+1]
}

// IsBelow reports whether a ranks strictly below b
func (c *Catalog) IsBelow(a, b *Grade) bool {
	return a.Order > b.Order
}

func (c *Catalog) indexOf(id string) int {
	for i, g := range c.grades {
		if g.ID == id {
			return i
		}
	}
	return -1
}
