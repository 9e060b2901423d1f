package rates

import "propertytax/internal/types"

// Resolve returns the entry with the greatest year for neighborhoodCode. The
// second result is false when the source has no entries for the code. If a
// source lists the same year more than once, the entry listed last wins.
func Resolve(neighborhoodCode string, src Source) (types.RateEntry, bool) {
	if src == nil {
		return types.RateEntry{}, false
	}
	var (
		best  types.RateEntry
		found bool
	)
	for _, e := range src.EntriesFor(neighborhoodCode) {
		if !found || e.Year >= best.Year {
			best = e
			found = true
		}
	}
	return best, found
}
