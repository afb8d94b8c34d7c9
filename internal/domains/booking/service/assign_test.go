package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"maitre/internal/domains/booking/service"
	tableModel "maitre/internal/domains/table/model"
)

func table(id string, capacity int, tableType string, combinable bool, priority int) tableModel.Table {
	return tableModel.Table{
		ID:            id,
		RestaurantID:  "restaurant-1",
		TableNumber:   id,
		Capacity:      capacity,
		TableType:     tableType,
		Combinable:    combinable,
		PriorityScore: priority,
		Active:        true,
	}
}

func TestFindSeating_SingleTable(t *testing.T) {
	tables := []tableModel.Table{
		table("t-large", 8, tableModel.TypeStandard, false, 0),
		table("t-small", 2, tableModel.TypeStandard, false, 0),
		table("t-medium", 4, tableModel.TypeStandard, false, 0),
	}

	tests := []struct {
		name      string
		partySize int
		busy      map[string]bool
		wantIDs   []string
		wantOK    bool
	}{
		{name: "least waste wins", partySize: 2, wantIDs: []string{"t-small"}, wantOK: true},
		{name: "party of 3 skips the deuce", partySize: 3, wantIDs: []string{"t-medium"}, wantOK: true},
		{name: "busy best falls through to next", partySize: 2, busy: map[string]bool{"t-small": true}, wantIDs: []string{"t-medium"}, wantOK: true},
		{name: "party too large for any single", partySize: 9, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, ok := service.FindSeating(tables, nil, tt.busy, tt.partySize, "")

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFindSeating_PriorityBreaksWasteTies(t *testing.T) {
	tables := []tableModel.Table{
		table("t-back", 4, tableModel.TypeStandard, false, 1),
		table("t-window", 4, tableModel.TypeStandard, false, 9),
	}

	ids, ok := service.FindSeating(tables, nil, nil, 4, "")

	assert.True(t, ok)
	assert.Equal(t, []string{"t-window"}, ids)
}

func TestFindSeating_DeterministicOnFullTies(t *testing.T) {
	tables := []tableModel.Table{
		table("t-b", 4, tableModel.TypeStandard, false, 5),
		table("t-a", 4, tableModel.TypeStandard, false, 5),
	}

	for range 10 {
		ids, ok := service.FindSeating(tables, nil, nil, 4, "")

		assert.True(t, ok)
		assert.Equal(t, []string{"t-a"}, ids)
	}
}

func TestFindSeating_TypePreference(t *testing.T) {
	tables := []tableModel.Table{
		table("t-booth", 6, tableModel.TypeBooth, false, 0),
		table("t-standard", 4, tableModel.TypeStandard, false, 0),
	}

	tests := []struct {
		name      string
		preferred string
		busy      map[string]bool
		wantIDs   []string
	}{
		{name: "preference honored even at more waste", preferred: tableModel.TypeBooth, wantIDs: []string{"t-booth"}},
		{name: "any preference picks least waste", preferred: tableModel.TypeAny, wantIDs: []string{"t-standard"}},
		{name: "falls back when preferred type is full", preferred: tableModel.TypeBooth, busy: map[string]bool{"t-booth": true}, wantIDs: []string{"t-standard"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, ok := service.FindSeating(tables, nil, tt.busy, 2, tt.preferred)

			assert.True(t, ok)
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFindSeating_PreconfiguredCombination(t *testing.T) {
	tables := []tableModel.Table{
		table("t-1", 4, tableModel.TypeStandard, true, 0),
		table("t-2", 4, tableModel.TypeStandard, true, 0),
	}
	combos := []tableModel.Combination{
		{
			ID:               "combo-1",
			RestaurantID:     "restaurant-1",
			PrimaryTableID:   "t-1",
			SecondaryTableID: "t-2",
			CombinedCapacity: 7,
			Active:           true,
		},
	}

	ids, ok := service.FindSeating(tables, combos, nil, 6, "")

	assert.True(t, ok)
	assert.Equal(t, []string{"t-1", "t-2"}, ids)
}

func TestFindSeating_PreconfiguredSkippedWhenTableBusy(t *testing.T) {
	tables := []tableModel.Table{
		table("t-1", 4, tableModel.TypeStandard, true, 0),
		table("t-2", 4, tableModel.TypeStandard, true, 0),
		table("t-3", 4, tableModel.TypeStandard, true, 0),
	}
	combos := []tableModel.Combination{
		{
			ID:               "combo-1",
			PrimaryTableID:   "t-1",
			SecondaryTableID: "t-2",
			CombinedCapacity: 8,
			Active:           true,
		},
	}

	// t-2 is busy, so the dynamic pair t-1 + t-3 has to carry the party.
	ids, ok := service.FindSeating(tables, combos, map[string]bool{"t-2": true}, 6, "")

	assert.True(t, ok)
	assert.Equal(t, []string{"t-1", "t-3"}, ids)
}

func TestFindSeating_DynamicPairRequiresCombinable(t *testing.T) {
	tables := []tableModel.Table{
		table("t-fixed-1", 4, tableModel.TypeStandard, false, 0),
		table("t-fixed-2", 4, tableModel.TypeStandard, false, 0),
	}

	_, ok := service.FindSeating(tables, nil, nil, 6, "")

	assert.False(t, ok)
}

func TestFindSeating_TripleOnlyForLargeParties(t *testing.T) {
	tables := []tableModel.Table{
		table("t-1", 4, tableModel.TypeStandard, true, 0),
		table("t-2", 4, tableModel.TypeStandard, true, 0),
		table("t-3", 4, tableModel.TypeStandard, true, 0),
	}

	// A party of 8 fits no single and no pair of these four-tops plus... a
	// pair covers exactly 8, so use 9 to force the triple stage.
	ids, ok := service.FindSeating(tables, nil, nil, 9, "")
	assert.True(t, ok)
	assert.Len(t, ids, 3)

	// Below the threshold the triple stage never runs.
	smaller := []tableModel.Table{
		table("t-1", 3, tableModel.TypeStandard, true, 0),
		table("t-2", 3, tableModel.TypeStandard, true, 0),
		table("t-3", 3, tableModel.TypeStandard, true, 0),
	}

	_, ok = service.FindSeating(smaller, nil, nil, 8, "")
	assert.False(t, ok)
}

func TestFindSeating_FittingSinglePreferredOverTighterPair(t *testing.T) {
	tables := []tableModel.Table{
		table("t-banquet", 12, tableModel.TypeStandard, false, 0),
		table("t-1", 3, tableModel.TypeStandard, true, 0),
		table("t-2", 3, tableModel.TypeStandard, true, 0),
	}

	// Stage order beats waste: a fitting single always wins over a pair,
	// even when the pair would waste less.
	ids, ok := service.FindSeating(tables, nil, nil, 6, "")

	assert.True(t, ok)
	assert.Equal(t, []string{"t-banquet"}, ids)
}
