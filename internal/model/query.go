package model

import (
	"slices"
	"strings"
)

// SortKey is the field a view is ordered by.
type SortKey string

// Sort keys.
const (
	SortBySize    SortKey = "size"
	SortBySeason  SortKey = "season"
	SortByDetails SortKey = "details"
)

// Direction is the sort direction.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortSpec pairs a sort key with a direction.
type SortSpec struct {
	Key       SortKey
	Direction Direction
}

// DefaultSort orders by size ascending, matching the order snapshots arrive in.
var DefaultSort = SortSpec{Key: SortBySize, Direction: Ascending}

// QuerySpec is the user-controlled search, filter and sort state.
// MinSize and MaxSize hold raw user text; anything that does not parse
// as a number imposes no bound.
type QuerySpec struct {
	Search  string
	MinSize string
	MaxSize string
	Seasons []Season
	Sort    SortSpec
}

// Key returns a canonical string for the spec, usable as a cache key.
// Season order does not affect the key.
func (q QuerySpec) Key() string {
	seasons := make([]string, 0, len(q.Seasons))
	for _, s := range q.Seasons {
		seasons = append(seasons, string(s))
	}
	slices.Sort(seasons)
	seasons = slices.Compact(seasons)

	return strings.Join([]string{
		strings.ToLower(q.Search),
		strings.TrimSpace(q.MinSize),
		strings.TrimSpace(q.MaxSize),
		strings.Join(seasons, "|"),
		string(q.Sort.Key),
		string(q.Sort.Direction),
	}, "\x00")
}
