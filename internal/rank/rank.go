// Package rank turns the source reported ranks of a combined set of records into a
// single dense ranking.
package rank

import (
	"cmp"
	"slices"
	"strings"
	"topactors-backend/internal/actor"
)

// Compare orders records by source reported rank (unranked last), then by name
// case-insensitively, then by exact name, source and external id. Records that
// compare equal keep their input order.
func Compare(a, b actor.Record) int {
	aUnranked, bUnranked := a.Rank <= 0, b.Rank <= 0
	if aUnranked != bUnranked {
		if aUnranked {
			return 1
		}
		return -1
	}
	// unranked records are only ordered by the tie-breaks
	if !aUnranked {
		if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
			return c
		}
	}
	return cmp.Or(
		cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
		cmp.Compare(a.Name, b.Name),
		cmp.Compare(a.Source, b.Source),
		cmp.Compare(a.ExternalID, b.ExternalID),
	)
}

// Normalize sorts the records and rewrites their ranks to 1..N in that order. The
// slice is sorted in place and returned.
func Normalize(records []actor.Record) []actor.Record {
	slices.SortStableFunc(records, Compare)
	for i := range records {
		records[i].Rank = i + 1
	}
	return records
}
