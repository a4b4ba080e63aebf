// Package query turns a raw shoe record set and a QuerySpec into an ordered view.
package query

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/dtroode/shoe-inventory/internal/model"
)

// ComputeView filters and sorts records according to spec.
// It never modifies records and always returns a new slice.
func ComputeView(records []model.Shoe, spec model.QuerySpec) []model.Shoe {
	search := strings.ToLower(spec.Search)
	minSize, hasMin := parseBound(spec.MinSize)
	maxSize, hasMax := parseBound(spec.MaxSize)

	view := make([]model.Shoe, 0, len(records))
	for _, r := range records {
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		if hasMin && r.Size < minSize {
			continue
		}
		if hasMax && r.Size > maxSize {
			continue
		}
		if len(spec.Seasons) > 0 && !slices.Contains(spec.Seasons, r.Season) {
			continue
		}
		view = append(view, r)
	}

	slices.SortStableFunc(view, comparator(spec.Sort))

	return view
}

// ParseSortKey parses user input, falling back to size.
func ParseSortKey(s string) model.SortKey {
	switch model.SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case model.SortBySeason:
		return model.SortBySeason
	case model.SortByDetails:
		return model.SortByDetails
	default:
		return model.SortBySize
	}
}

// ParseDirection parses user input, falling back to ascending.
func ParseDirection(s string) model.Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending":
		return model.Descending
	default:
		return model.Ascending
	}
}

func matchesSearch(r model.Shoe, needle string) bool {
	return strings.Contains(model.FormatSize(r.Size), needle) ||
		strings.Contains(strings.ToLower(r.Season.String()), needle) ||
		(r.Details != "" && strings.Contains(strings.ToLower(r.Details), needle))
}

func parseBound(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func comparator(sort model.SortSpec) func(a, b model.Shoe) int {
	var by func(a, b model.Shoe) int
	switch sort.Key {
	case model.SortBySeason:
		by = func(a, b model.Shoe) int {
			return cmp.Compare(strings.ToLower(a.Season.String()), strings.ToLower(b.Season.String()))
		}
	case model.SortByDetails:
		by = func(a, b model.Shoe) int {
			return cmp.Compare(strings.ToLower(a.Details), strings.ToLower(b.Details))
		}
	default:
		by = func(a, b model.Shoe) int {
			return cmp.Compare(a.Size, b.Size)
		}
	}

	if sort.Direction == model.Descending {
		return func(a, b model.Shoe) int { return -by(a, b) }
	}
	return by
}
