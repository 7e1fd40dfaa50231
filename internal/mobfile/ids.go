package mobfile

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Grabarrz90/ei-maper/pkg/formats"
)

// ErrNoFreeMapID is returned when every candidate range is exhausted.
var ErrNoFreeMapID = errors.New("no free map ID")

// Duplicate lists the objects sharing one map ID, in document order.
type Duplicate struct {
	ID      uint32
	Indexes []int
}

// IDChange records one reassignment made by FixDuplicateIDs.
type IDChange struct {
	Index int
	Kind  formats.ObjectKind
	Old   uint32
	New   uint32
}

// FindDuplicateIDs returns every map ID used by more than one object,
// ordered by ID.
func FindDuplicateIDs(m *formats.MOB) []Duplicate {
	byID := make(map[uint32][]int)
	for i, obj := range m.Objects {
		id := obj.MapID()
		byID[id] = append(byID[id], i)
	}

	var dups []Duplicate
	for id, idx := range byID {
		if len(idx) > 1 {
			dups = append(dups, Duplicate{ID: id, Indexes: idx})
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].ID < dups[j].ID })
	return dups
}

// FreeMapID returns the lowest unused ID, searching the active range first,
// then the document's other ranges, then fallback. ID 0 is never returned.
func FreeMapID(m *formats.MOB, fallback formats.IDRange) (uint32, error) {
	return freeMapID(m, usedIDs(m), fallback)
}

// FixDuplicateIDs gives every object after the first holder of an ID a
// fresh one. Changes are returned in document order.
func FixDuplicateIDs(m *formats.MOB, fallback formats.IDRange) ([]IDChange, error) {
	used := usedIDs(m)
	seen := make(map[uint32]bool, len(m.Objects))

	var changes []IDChange
	for i, obj := range m.Objects {
		id := obj.MapID()
		if !seen[id] {
			seen[id] = true
			continue
		}

		next, err := freeMapID(m, used, fallback)
		if err != nil {
			return changes, fmt.Errorf("object %d (id %d): %w", i, id, err)
		}
		obj.SetMapID(next)
		used[next] = true
		seen[next] = true
		changes = append(changes, IDChange{Index: i, Kind: obj.Kind, Old: id, New: next})
	}
	return changes, nil
}

func usedIDs(m *formats.MOB) map[uint32]bool {
	used := make(map[uint32]bool, len(m.Objects))
	for _, obj := range m.Objects {
		used[obj.MapID()] = true
	}
	return used
}

func freeMapID(m *formats.MOB, used map[uint32]bool, fallback formats.IDRange) (uint32, error) {
	var candidates []formats.IDRange
	if active, ok := m.ActiveRange(); ok {
		candidates = append(candidates, active)
	}
	candidates = append(candidates, m.Ranges()...)
	candidates = append(candidates, fallback)

	for _, r := range candidates {
		if id, ok := firstFree(r, used); ok {
			return id, nil
		}
	}
	return 0, ErrNoFreeMapID
}

func firstFree(r formats.IDRange, used map[uint32]bool) (uint32, bool) {
	id := r.Min
	if id == 0 {
		id = 1
	}
	for ; id < r.Max; id++ {
		if !used[id] {
			return id, true
		}
	}
	return 0, false
}
