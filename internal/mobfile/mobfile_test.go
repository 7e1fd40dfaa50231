package mobfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Grabarrz90/ei-maper/pkg/formats"
	"github.com/Grabarrz90/ei-maper/pkg/mob"
)

// newDoc builds a base document with one object per id, cycling through the
// object kinds.
func newDoc(t *testing.T, ids ...uint32) *formats.MOB {
	t.Helper()
	m := formats.NewMOB(formats.DocumentBase)
	kinds := formats.ObjectKinds()
	for i, id := range ids {
		obj, err := formats.NewObject(kinds[i%len(kinds)])
		if err != nil {
			t.Fatal(err)
		}
		obj.SetMapID(id)
		m.Objects = append(m.Objects, obj)
	}
	return m
}

func mapIDs(m *formats.MOB) []uint32 {
	ids := make([]uint32, len(m.Objects))
	for i, obj := range m.Objects {
		ids[i] = obj.MapID()
	}
	return ids
}

func TestFindDuplicateIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []uint32
		want []Duplicate
	}{
		{"empty", nil, nil},
		{"unique", []uint32{1, 2, 3}, nil},
		{"one pair", []uint32{4, 9, 4}, []Duplicate{{ID: 4, Indexes: []int{0, 2}}}},
		{
			name: "sorted by id",
			ids:  []uint32{30, 7, 30, 7, 7},
			want: []Duplicate{
				{ID: 7, Indexes: []int{1, 3, 4}},
				{ID: 30, Indexes: []int{0, 2}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindDuplicateIDs(newDoc(t, tt.ids...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindDuplicateIDs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFreeMapID(t *testing.T) {
	tests := []struct {
		name     string
		kind     formats.DocumentKind
		main     []formats.IDRange
		sec      []formats.IDRange
		active   int
		ids      []uint32
		fallback formats.IDRange
		want     uint32
		wantErr  error
	}{
		{
			name:     "active range first",
			kind:     formats.DocumentBase,
			main:     []formats.IDRange{{Min: 10, Max: 13}, {Min: 20, Max: 30}},
			active:   1,
			ids:      []uint32{20, 21},
			fallback: DefaultFallback,
			want:     22,
		},
		{
			name:     "full active range falls through to the others",
			kind:     formats.DocumentBase,
			main:     []formats.IDRange{{Min: 10, Max: 13}, {Min: 20, Max: 30}},
			active:   0,
			ids:      []uint32{10, 11, 12},
			fallback: DefaultFallback,
			want:     20,
		},
		{
			name:     "quest documents use secondary ranges",
			kind:     formats.DocumentQuest,
			main:     []formats.IDRange{{Min: 10, Max: 13}},
			sec:      []formats.IDRange{{Min: 500, Max: 510}},
			ids:      []uint32{500},
			fallback: DefaultFallback,
			want:     501,
		},
		{
			name:     "fallback without ranges",
			kind:     formats.DocumentBase,
			ids:      []uint32{1000},
			fallback: DefaultFallback,
			want:     1001,
		},
		{
			name:     "zero is skipped",
			kind:     formats.DocumentBase,
			main:     []formats.IDRange{{Min: 0, Max: 3}},
			fallback: DefaultFallback,
			want:     1,
		},
		{
			name:     "exhausted",
			kind:     formats.DocumentBase,
			main:     []formats.IDRange{{Min: 5, Max: 6}},
			ids:      []uint32{1, 5},
			fallback: formats.IDRange{Min: 1, Max: 2},
			wantErr:  ErrNoFreeMapID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newDoc(t, tt.ids...)
			m.Kind = tt.kind
			m.MainRanges = tt.main
			m.SecRanges = tt.sec
			m.ActiveRangeIndex = tt.active

			got, err := FreeMapID(m, tt.fallback)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v (id %d)", tt.wantErr, err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("FreeMapID failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestFixDuplicateIDs(t *testing.T) {
	m := newDoc(t, 5, 5, 7, 5)

	changes, err := FixDuplicateIDs(m, formats.IDRange{Min: 1, Max: 10})
	if err != nil {
		t.Fatalf("FixDuplicateIDs failed: %v", err)
	}

	kinds := formats.ObjectKinds()
	want := []IDChange{
		{Index: 1, Kind: kinds[1], Old: 5, New: 1},
		{Index: 3, Kind: kinds[3], Old: 5, New: 2},
	}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint32{5, 1, 7, 2}, mapIDs(m)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if dups := FindDuplicateIDs(m); len(dups) != 0 {
		t.Errorf("duplicates remain: %v", dups)
	}
}

func TestFixDuplicateIDsExhausted(t *testing.T) {
	m := newDoc(t, 1, 1)

	_, err := FixDuplicateIDs(m, formats.IDRange{Min: 1, Max: 2})
	if !errors.Is(err, ErrNoFreeMapID) {
		t.Errorf("expected ErrNoFreeMapID, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zone.mob")
	if err := newDoc(t, 1000, 1001, 1000).WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	t.Run("report only", func(t *testing.T) {
		m, err := Load(path, DefaultOptions())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if diff := cmp.Diff([]uint32{1000, 1001, 1000}, mapIDs(m)); diff != "" {
			t.Errorf("ids changed without auto-fix (-want +got):\n%s", diff)
		}
	})

	t.Run("auto fix", func(t *testing.T) {
		opts := DefaultOptions()
		opts.AutoFix = true
		m, err := Load(path, opts)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if diff := cmp.Diff([]uint32{1000, 1001, 1002}, mapIDs(m)); diff != "" {
			t.Errorf("ids mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.mob"), DefaultOptions()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage.mob")
	if err := os.WriteFile(garbage, []byte{0x03, 'B', 'A', 'D'}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(garbage, DefaultOptions()); err == nil {
		t.Error("expected error loading garbage, got nil")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zone.mob")
	if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	m := newDoc(t, 1, 2, 3)
	if err := Save(path, m, formats.MOBOptions{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want, err := m.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, got) {
		t.Errorf("saved bytes differ from Bytes(): %d vs %d", len(got), len(want))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the saved file, found %d entries", len(entries))
	}
}

func TestSaveInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zone.mob")
	m := newDoc(t, 1)
	m.Kind = 0

	if err := Save(path, m, formats.MOBOptions{}); !errors.Is(err, formats.ErrUnknownMOBKind) {
		t.Errorf("expected ErrUnknownMOBKind, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid document should not create the file")
	}
}

func TestSaveStrict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zone.mob")
	m := newDoc(t, 1)
	m.DiplomacyNames[0] = "玩家"

	if err := Save(path, m, formats.MOBOptions{Strict: true}); !errors.Is(err, mob.ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("strict failure should not create the file")
	}

	if err := Save(path, m, formats.MOBOptions{}); err != nil {
		t.Errorf("lossy Save failed: %v", err)
	}
}
