package service

import (
	"sort"
	"strings"

	tableModel "maitre/internal/domains/table/model"
)

// candidate is one viable seating: a set of tables with enough combined
// capacity for the party.
type candidate struct {
	tableIDs []string
	capacity int
	priority int
}

func (c candidate) waste(partySize int) int {
	return c.capacity - partySize
}

// sortKey gives a stable identity for tie-breaking between candidates of
// equal size and waste.
func (c candidate) sortKey() string {
	return strings.Join(c.tableIDs, ",")
}

// triplePartySizeThreshold: three-table seatings are only worth the floor
// disruption for large groups.
const triplePartySizeThreshold = 8

// chooseAssignment picks the best seating for a party among the free tables.
// Preference order: a single table, then a pre-configured combination, then a
// dynamic pair, then a triple for large parties. Within each stage the
// candidate with the least spare capacity wins, then the higher floor
// priority; remaining ties fall to the lowest table IDs so the same inputs
// always produce the same assignment.
func chooseAssignment(
	tables []tableModel.Table,
	combos []tableModel.Combination,
	busy map[string]bool,
	partySize int,
	preferredType string,
) ([]string, bool) {
	return FindSeating(tables, combos, busy, partySize, preferredType)
}

// FindSeating is the assignment search shared with the availability lister,
// which only needs to know whether any seating exists for a slot.
func FindSeating(
	tables []tableModel.Table,
	combos []tableModel.Combination,
	busy map[string]bool,
	partySize int,
	preferredType string,
) ([]string, bool) {
	free := make([]tableModel.Table, 0, len(tables))
	byID := make(map[string]tableModel.Table, len(tables))

	for _, table := range tables {
		byID[table.ID] = table

		if !busy[table.ID] {
			free = append(free, table)
		}
	}

	if ids, ok := pickSingle(free, partySize, preferredType); ok {
		return ids, true
	}

	if ids, ok := pickPreconfigured(combos, byID, busy, partySize); ok {
		return ids, true
	}

	combinable := make([]tableModel.Table, 0, len(free))
	for _, table := range free {
		if table.Combinable {
			combinable = append(combinable, table)
		}
	}

	if ids, ok := pickDynamic(combinable, partySize, 2); ok {
		return ids, true
	}

	if partySize > triplePartySizeThreshold {
		if ids, ok := pickDynamic(combinable, partySize, 3); ok {
			return ids, true
		}
	}

	return nil, false
}

func pickSingle(free []tableModel.Table, partySize int, preferredType string) ([]string, bool) {
	candidates := singlesOfType(free, partySize, preferredType)

	// A full house of booths may still seat the party at a standard table.
	if len(candidates) == 0 && preferredType != "" && preferredType != tableModel.TypeAny {
		candidates = singlesOfType(free, partySize, "")
	}

	return best(candidates, partySize)
}

func singlesOfType(free []tableModel.Table, partySize int, preferredType string) []candidate {
	var candidates []candidate

	for _, table := range free {
		if table.Capacity < partySize {
			continue
		}

		if preferredType != "" && preferredType != tableModel.TypeAny && table.TableType != preferredType {
			continue
		}

		candidates = append(candidates, candidate{
			tableIDs: []string{table.ID},
			capacity: table.Capacity,
			priority: table.PriorityScore,
		})
	}

	return candidates
}

func pickPreconfigured(
	combos []tableModel.Combination,
	byID map[string]tableModel.Table,
	busy map[string]bool,
	partySize int,
) ([]string, bool) {
	var candidates []candidate

	for _, combo := range combos {
		if combo.CombinedCapacity < partySize {
			continue
		}

		if busy[combo.PrimaryTableID] || busy[combo.SecondaryTableID] {
			continue
		}

		primary, ok := byID[combo.PrimaryTableID]
		if !ok || !primary.Active {
			continue
		}

		secondary, ok := byID[combo.SecondaryTableID]
		if !ok || !secondary.Active {
			continue
		}

		ids := []string{combo.PrimaryTableID, combo.SecondaryTableID}
		sort.Strings(ids)

		candidates = append(candidates, candidate{
			tableIDs: ids,
			capacity: combo.CombinedCapacity,
			priority: primary.PriorityScore + secondary.PriorityScore,
		})
	}

	return best(candidates, partySize)
}

// pickDynamic searches size-n subsets of combinable tables. n is 2 or 3, so
// the nested walk stays cheap for any realistic floor plan.
func pickDynamic(combinable []tableModel.Table, partySize, n int) ([]string, bool) {
	var candidates []candidate

	switch n {
	case 2:
		for i := 0; i < len(combinable); i++ {
			for j := i + 1; j < len(combinable); j++ {
				total := combinable[i].Capacity + combinable[j].Capacity
				if total < partySize {
					continue
				}

				ids := []string{combinable[i].ID, combinable[j].ID}
				sort.Strings(ids)

				candidates = append(candidates, candidate{
					tableIDs: ids,
					capacity: total,
					priority: combinable[i].PriorityScore + combinable[j].PriorityScore,
				})
			}
		}
	case 3:
		for i := 0; i < len(combinable); i++ {
			for j := i + 1; j < len(combinable); j++ {
				for k := j + 1; k < len(combinable); k++ {
					total := combinable[i].Capacity + combinable[j].Capacity + combinable[k].Capacity
					if total < partySize {
						continue
					}

					ids := []string{combinable[i].ID, combinable[j].ID, combinable[k].ID}
					sort.Strings(ids)

					candidates = append(candidates, candidate{
						tableIDs: ids,
						capacity: total,
						priority: combinable[i].PriorityScore + combinable[j].PriorityScore + combinable[k].PriorityScore,
					})
				}
			}
		}
	}

	return best(candidates, partySize)
}

func best(candidates []candidate, partySize int) ([]string, bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].waste(partySize) != candidates[j].waste(partySize) {
			return candidates[i].waste(partySize) < candidates[j].waste(partySize)
		}

		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority > candidates[j].priority
		}

		return candidates[i].sortKey() < candidates[j].sortKey()
	})

	return candidates[0].tableIDs, true
}
