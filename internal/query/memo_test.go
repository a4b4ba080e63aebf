package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/shoe-inventory/internal/model"
)

func TestMemo_ReusesViewForSameVersionAndSpec(t *testing.T) {
	var m Memo
	records := fixture()
	spec := model.QuerySpec{Seasons: []model.Season{model.SeasonWinter, model.SeasonSummer}}

	first := m.View(1, records, spec)
	reordered := model.QuerySpec{Seasons: []model.Season{model.SeasonSummer, model.SeasonWinter}}
	second := m.View(1, nil, reordered)

	assert.Equal(t, first, second)
	assert.Len(t, second, 4)
}

func TestMemo_RecomputesOnNewVersion(t *testing.T) {
	var m Memo
	spec := model.QuerySpec{}

	assert.Len(t, m.View(1, fixture(), spec), 5)
	assert.Len(t, m.View(2, fixture()[:2], spec), 2)
}

func TestMemo_RecomputesOnNewSpec(t *testing.T) {
	var m Memo

	assert.Len(t, m.View(1, fixture(), model.QuerySpec{}), 5)
	assert.Len(t, m.View(1, fixture(), model.QuerySpec{Search: "boots"}), 2)
}

func TestMemo_Reset(t *testing.T) {
	var m Memo

	assert.Len(t, m.View(1, fixture(), model.QuerySpec{}), 5)
	m.Reset()
	assert.Empty(t, m.View(1, nil, model.QuerySpec{}))
}
