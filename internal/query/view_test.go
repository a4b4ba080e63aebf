package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/shoe-inventory/internal/model"
)

func shoe(id string, size float64, season model.Season, details string) model.Shoe {
	return model.Shoe{
		ID: id,
		ShoeFields: model.ShoeFields{
			Size:    size,
			Season:  season,
			Details: details,
		},
	}
}

func ids(view []model.Shoe) []string {
	out := make([]string, 0, len(view))
	for _, s := range view {
		out = append(out, s.ID)
	}
	return out
}

func fixture() []model.Shoe {
	return []model.Shoe{
		shoe("a", 42, model.SeasonSummer, "Red sneakers"),
		shoe("b", 38, model.SeasonWinter, "Leather boots"),
		shoe("c", 44.5, model.SeasonAutumnSpring, ""),
		shoe("d", 38, model.SeasonSummer, "sandals"),
		shoe("e", 25, model.SeasonWinter, "kids boots"),
	}
}

func TestComputeView_EndToEndScenarios(t *testing.T) {
	records := []model.Shoe{
		shoe("1", 42, model.SeasonSummer, ""),
		shoe("2", 38, model.SeasonWinter, ""),
	}

	t.Run("sorted by size ascending", func(t *testing.T) {
		view := ComputeView(records, model.QuerySpec{Sort: model.SortSpec{Key: model.SortBySize, Direction: model.Ascending}})
		assert.Equal(t, []string{"2", "1"}, ids(view))
	})

	t.Run("winter only", func(t *testing.T) {
		view := ComputeView(records, model.QuerySpec{Seasons: []model.Season{model.SeasonWinter}})
		assert.Equal(t, []string{"2"}, ids(view))
	})
}

func TestComputeView_Search(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "empty search keeps everything", search: "", want: []string{"e", "b", "d", "a", "c"}},
		{name: "matches details case-insensitively", search: "BOOTS", want: []string{"e", "b"}},
		{name: "matches season", search: "autumn", want: []string{"c"}},
		{name: "matches textual size", search: "44.5", want: []string{"c"}},
		{name: "matches size prefix", search: "4", want: []string{"a", "c"}},
		{name: "no match", search: "loafers", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := ComputeView(fixture(), model.QuerySpec{Search: tt.search, Sort: model.DefaultSort})
			assert.Equal(t, tt.want, ids(view))
		})
	}
}

func TestComputeView_SizeRange(t *testing.T) {
	tests := []struct {
		name string
		min  string
		max  string
		want []string
	}{
		{name: "no bounds", want: []string{"e", "b", "d", "a", "c"}},
		{name: "min only", min: "40", want: []string{"a", "c"}},
		{name: "max only", max: "38", want: []string{"e", "b", "d"}},
		{name: "inclusive bounds", min: "38", max: "42", want: []string{"b", "d", "a"}},
		{name: "invalid min ignored", min: "abc", max: "30", want: []string{"e"}},
		{name: "blank bounds ignored", min: "  ", max: "", want: []string{"e", "b", "d", "a", "c"}},
		{name: "min above max is empty", min: "45", max: "30", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := ComputeView(fixture(), model.QuerySpec{MinSize: tt.min, MaxSize: tt.max, Sort: model.DefaultSort})
			assert.Equal(t, tt.want, ids(view))
		})
	}
}

func TestComputeView_SeasonFilter(t *testing.T) {
	view := ComputeView(fixture(), model.QuerySpec{
		Seasons: []model.Season{model.SeasonWinter, model.SeasonAutumnSpring},
		Sort:    model.DefaultSort,
	})
	assert.Equal(t, []string{"e", "b", "c"}, ids(view))

	view = ComputeView(fixture(), model.QuerySpec{Seasons: []model.Season{}, Sort: model.DefaultSort})
	assert.Len(t, view, 5)
}

func TestComputeView_Sort(t *testing.T) {
	tests := []struct {
		name string
		sort model.SortSpec
		want []string
	}{
		{name: "size desc keeps tie order", sort: model.SortSpec{Key: model.SortBySize, Direction: model.Descending}, want: []string{"c", "a", "b", "d", "e"}},
		{name: "season asc is stable", sort: model.SortSpec{Key: model.SortBySeason, Direction: model.Ascending}, want: []string{"c", "a", "d", "b", "e"}},
		{name: "season desc is stable", sort: model.SortSpec{Key: model.SortBySeason, Direction: model.Descending}, want: []string{"b", "e", "a", "d", "c"}},
		{name: "details asc with missing first", sort: model.SortSpec{Key: model.SortByDetails, Direction: model.Ascending}, want: []string{"c", "e", "b", "a", "d"}},
		{name: "details desc", sort: model.SortSpec{Key: model.SortByDetails, Direction: model.Descending}, want: []string{"d", "a", "b", "e", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := ComputeView(fixture(), model.QuerySpec{Sort: tt.sort})
			assert.Equal(t, tt.want, ids(view))
		})
	}
}

func TestComputeView_ZeroSpecSortsBySizeAscending(t *testing.T) {
	view := ComputeView(fixture(), model.QuerySpec{})
	assert.Equal(t, []string{"e", "b", "d", "a", "c"}, ids(view))
}

func TestComputeView_EmptyInput(t *testing.T) {
	view := ComputeView(nil, model.QuerySpec{Search: "x", Seasons: []model.Season{model.SeasonWinter}})
	require.NotNil(t, view)
	assert.Empty(t, view)
}

func TestComputeView_Deterministic(t *testing.T) {
	records := fixture()
	spec := model.QuerySpec{Search: "o", Sort: model.SortSpec{Key: model.SortBySeason, Direction: model.Ascending}}

	first := ComputeView(records, spec)
	second := ComputeView(records, spec)

	assert.Equal(t, first, second)
}

func TestComputeView_DoesNotMutateInput(t *testing.T) {
	records := fixture()
	before := ids(records)

	_ = ComputeView(records, model.QuerySpec{Sort: model.SortSpec{Key: model.SortBySize, Direction: model.Descending}})

	assert.Equal(t, before, ids(records))
}

func TestParseSortKeyAndDirection(t *testing.T) {
	assert.Equal(t, model.SortBySeason, ParseSortKey(" Season "))
	assert.Equal(t, model.SortByDetails, ParseSortKey("details"))
	assert.Equal(t, model.SortBySize, ParseSortKey("colour"))
	assert.Equal(t, model.Descending, ParseDirection("DESC"))
	assert.Equal(t, model.Ascending, ParseDirection(""))
}
