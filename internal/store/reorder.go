package store

import (
	"errors"
	"sort"
	"strings"

	"plantdeck/internal/model"
)

// RankPlan describes the rank updates needed to realize an index-based reorder
// of equipment within a line. RankByID includes only rows whose ranks change.
type RankPlan struct {
	RankByID     map[string]string
	WindowIDs    []string // IDs whose ranks were (re)assigned in the fallback path (in final order)
	UsedFallback bool
}

// SortEquipmentByRank sorts rows in place using the same ordering as the TUI
// equipment tab: rank (lexicographic), then CreatedAt, then ID.
func SortEquipmentByRank(rows []*model.Equipment) {
	sort.SliceStable(rows, func(i, j int) bool {
		return compareEquipmentByRank(*rows[i], *rows[j]) < 0
	})
}

func compareEquipmentByRank(a, b model.Equipment) int {
	ra := strings.TrimSpace(a.Rank)
	rb := strings.TrimSpace(b.Rank)
	if ra != "" && rb != "" && ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	if ra == "" && rb != "" {
		return -1
	}
	if ra != "" && rb == "" {
		return 1
	}
	if a.CreatedAt.Before(b.CreatedAt) {
		return -1
	}
	if a.CreatedAt.After(b.CreatedAt) {
		return 1
	}
	if a.ID < b.ID {
		return -1
	}
	if a.ID > b.ID {
		return 1
	}
	return 0
}

// PlanRankMoves plans rank updates for reordering a line's equipment.
//
// Inputs:
// - rows: the current sibling set (including the moved row)
// - movedID: the equipment being moved
// - insertAt: the index to insert the moved row into the list *after removing it*
//
// Behavior:
//   - Prefer changing only the moved row's rank (fast path).
//   - If the immediate neighbor bounds are not usable (e.g. duplicate ranks),
//     rebalance the smallest contiguous window around the insertion point that
//     yields valid outer bounds.
func PlanRankMoves(rows []*model.Equipment, movedID string, insertAt int) (RankPlan, error) {
	movedID = strings.TrimSpace(movedID)
	if movedID == "" {
		return RankPlan{}, errors.New("missing movedID")
	}
	if len(rows) == 0 {
		return RankPlan{RankByID: map[string]string{}}, nil
	}

	// Work on a copy so callers don't get their slice reordered.
	cur := append([]*model.Equipment{}, rows...)
	SortEquipmentByRank(cur)

	movedIdx := -1
	for i := range cur {
		if strings.TrimSpace(cur[i].ID) == movedID {
			movedIdx = i
			break
		}
	}
	if movedIdx < 0 {
		return RankPlan{}, errors.New("moved equipment not found in line")
	}
	moved := cur[movedIdx]

	rest := make([]*model.Equipment, 0, len(cur)-1)
	for i := range cur {
		if i == movedIdx {
			continue
		}
		rest = append(rest, cur[i])
	}

	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(rest) {
		insertAt = len(rest)
	}

	// Same position => empty plan.
	curInsertAt := movedIdx
	if movedIdx > len(rest) {
		curInsertAt = len(rest)
	}
	if insertAt == curInsertAt {
		return RankPlan{RankByID: map[string]string{}}, nil
	}
	// When moving earlier (up), prefer rebalancing to the right (the displaced
	// neighbors) rather than pulling in earlier rows.
	preferRight := insertAt < curInsertAt

	final := make([]*model.Equipment, 0, len(cur))
	final = append(final, rest[:insertAt]...)
	final = append(final, moved)
	final = append(final, rest[insertAt:]...)

	// Fast path: only retarget the moved row's rank when immediate bounds work.
	existing := existingRanksExcluding(final, map[string]bool{movedID: true})
	if r, ok, err := rankBetweenNeighbors(existing, final, insertAt); err == nil && ok {
		if strings.TrimSpace(moved.Rank) != r {
			return RankPlan{
				RankByID: map[string]string{movedID: r},
			}, nil
		}
		return RankPlan{RankByID: map[string]string{}}, nil
	} else if err != nil {
		return RankPlan{}, err
	}

	// Fallback: rebalance a minimal contiguous window around the insertion point.
	lo, hi := minimalValidWindow(final, insertAt, preferRight)

	lower := ""
	upper := ""
	if lo > 0 {
		lower = strings.TrimSpace(final[lo-1].Rank)
	}
	if hi+1 < len(final) {
		upper = strings.TrimSpace(final[hi+1].Rank)
	}

	excl := map[string]bool{}
	for i := lo; i <= hi; i++ {
		excl[strings.TrimSpace(final[i].ID)] = true
	}
	existing = existingRanksExcluding(final, excl)

	plan := RankPlan{
		RankByID:     map[string]string{},
		WindowIDs:    make([]string, 0, hi-lo+1),
		UsedFallback: true,
	}
	curLower := lower
	for i := lo; i <= hi; i++ {
		id := strings.TrimSpace(final[i].ID)
		if id == "" {
			continue
		}
		r, err := RankBetweenUnique(existing, curLower, upper)
		if err != nil {
			return RankPlan{}, err
		}
		existing[strings.ToLower(strings.TrimSpace(r))] = true
		plan.RankByID[id] = r
		plan.WindowIDs = append(plan.WindowIDs, id)
		curLower = r
	}
	return plan, nil
}

func existingRanksExcluding(rows []*model.Equipment, excludeIDs map[string]bool) map[string]bool {
	existing := map[string]bool{}
	for _, e := range rows {
		if e == nil {
			continue
		}
		id := strings.TrimSpace(e.ID)
		if excludeIDs != nil && excludeIDs[id] {
			continue
		}
		rn := strings.ToLower(strings.TrimSpace(e.Rank))
		if rn != "" {
			existing[rn] = true
		}
	}
	return existing
}

// rankBetweenNeighbors computes a rank for the moved row from its immediate
// neighbors in the final order. ok=false when bounds are unusable (lower>=upper).
func rankBetweenNeighbors(existing map[string]bool, final []*model.Equipment, movedIdx int) (rank string, ok bool, err error) {
	lower := ""
	upper := ""
	if movedIdx > 0 {
		lower = strings.TrimSpace(final[movedIdx-1].Rank)
	}
	if movedIdx+1 < len(final) {
		upper = strings.TrimSpace(final[movedIdx+1].Rank)
	}
	if lower != "" && upper != "" && !(lower < upper) {
		return "", false, nil
	}
	r, err := RankBetweenUnique(existing, lower, upper)
	if err != nil {
		return "", false, nil
	}
	return r, true, nil
}

// minimalValidWindow finds the smallest contiguous window [lo, hi] containing
// movedIdx whose outer bounds (rank before lo, rank after hi) are open-ended
// or leave room for at least one new rank between them. preferRight breaks
// ties toward windows expanding right of movedIdx.
func minimalValidWindow(final []*model.Equipment, movedIdx int, preferRight bool) (lo, hi int) {
	if movedIdx < 0 || movedIdx >= len(final) {
		return 0, len(final) - 1
	}

	valid := func(lo, hi int) bool {
		lower := ""
		upper := ""
		if lo > 0 {
			lower = strings.TrimSpace(final[lo-1].Rank)
		}
		if hi+1 < len(final) {
			upper = strings.TrimSpace(final[hi+1].Rank)
		}
		if lower == "" || upper == "" {
			return true
		}
		if !(lower < upper) {
			return false
		}
		// Ordered bounds can still leave no room, e.g. "y" < "y0".
		_, err := RankBetween(lower, upper)
		return err == nil
	}

	for size := 1; size <= len(final); size++ {
		startMin := movedIdx - (size - 1)
		if startMin < 0 {
			startMin = 0
		}
		startMax := movedIdx
		if startMax+size > len(final) {
			startMax = len(final) - size
		}
		if preferRight {
			for lo := startMax; lo >= startMin; lo-- {
				hi := lo + size - 1
				if !(lo <= movedIdx && movedIdx <= hi) {
					continue
				}
				if valid(lo, hi) {
					return lo, hi
				}
			}
		} else {
			for lo := startMin; lo <= startMax; lo++ {
				hi := lo + size - 1
				if !(lo <= movedIdx && movedIdx <= hi) {
					continue
				}
				if valid(lo, hi) {
					return lo, hi
				}
			}
		}
	}
	return 0, len(final) - 1
}
