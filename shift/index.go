package shift

import (
	"sort"
	"sync"

	"github.com/warp/shiftbook/calendar"
)

// =============================================================================
// INDEX - Date -> ordered shifts
// =============================================================================

// Index is a read-only projection of a shift collection keyed by date.
// Within a date, shifts are ordered by start time, then ID.
//
// Aggregation and navigation read shifts only through an Index; rebuild it
// (or go through IndexCache) whenever the collection changes.
type Index struct {
	byDate map[calendar.Date][]Shift
	dates  []calendar.Date // sorted ascending
	size   int
}

// BuildIndex projects shifts into a new Index. The input is not retained.
func BuildIndex(shifts []Shift) *Index {
	ix := &Index{byDate: make(map[calendar.Date][]Shift)}
	for _, s := range shifts {
		ix.byDate[s.Date] = append(ix.byDate[s.Date], s)
	}
	ix.dates = make([]calendar.Date, 0, len(ix.byDate))
	for d, list := range ix.byDate {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Start != list[j].Start {
				return list[i].Start < list[j].Start
			}
			return list[i].ID < list[j].ID
		})
		ix.dates = append(ix.dates, d)
	}
	sort.Slice(ix.dates, func(i, j int) bool { return ix.dates[i].Before(ix.dates[j]) })
	ix.size = len(shifts)
	return ix
}

// On returns the shifts on d, or nil. The slice must not be modified.
func (ix *Index) On(d calendar.Date) []Shift {
	if ix == nil {
		return nil
	}
	return ix.byDate[d]
}

// Len is the number of indexed shifts.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.size
}

// Dates returns every date holding at least one shift, ascending.
func (ix *Index) Dates() []calendar.Date {
	if ix == nil {
		return nil
	}
	return ix.dates
}

// DatesIn returns the dates within p holding at least one shift, ascending.
// Days without shifts are skipped, so sparse data over a long range stays cheap.
func (ix *Index) DatesIn(p calendar.Period) []calendar.Date {
	if ix == nil {
		return nil
	}
	lo := sort.Search(len(ix.dates), func(i int) bool { return !ix.dates[i].Before(p.Start) })
	hi := sort.Search(len(ix.dates), func(i int) bool { return ix.dates[i].After(p.End) })
	if lo >= hi {
		return nil
	}
	return ix.dates[lo:hi]
}

// Shifts returns the shifts within p matching f, in date then start order.
func (ix *Index) Shifts(p calendar.Period, f Filter) []Shift {
	var result []Shift
	for _, d := range ix.DatesIn(p) {
		for _, s := range ix.byDate[d] {
			if f.Match(s) {
				result = append(result, s)
			}
		}
	}
	return result
}

// Categories returns the distinct categories in the index, sorted.
func (ix *Index) Categories() []string {
	if ix == nil {
		return nil
	}
	seen := make(map[string]bool)
	var result []string
	for _, list := range ix.byDate {
		for _, s := range list {
			if !seen[s.Category] {
				seen[s.Category] = true
				result = append(result, s.Category)
			}
		}
	}
	sort.Strings(result)
	return result
}

// =============================================================================
// INDEX CACHE - Memoized projection keyed by collection version
// =============================================================================

// IndexCache keeps the last built Index together with the collection version
// it was built from. A request carrying a different version rebuilds it from
// a fresh snapshot; the same version returns the cached Index untouched.
type IndexCache struct {
	mu      sync.Mutex
	version uint64
	index   *Index
}

// Get returns the index for version, calling load only when it is stale.
func (c *IndexCache) Get(version uint64, load func() ([]Shift, error)) (*Index, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index != nil && c.version == version {
		return c.index, nil
	}
	shifts, err := load()
	if err != nil {
		return nil, err
	}
	c.index = BuildIndex(shifts)
	c.version = version
	return c.index, nil
}
