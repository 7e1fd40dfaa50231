package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Grabarrz90/ei-maper/pkg/formats"
	"github.com/Grabarrz90/ei-maper/pkg/math"
)

func sampleMOB(t *testing.T) *formats.MOB {
	t.Helper()
	m := formats.NewMOB(formats.DocumentBase)
	m.Script = "script"
	m.AddRange(true, formats.IDRange{Min: 100, Max: 200})
	m.VSS = []byte{1, 2}
	m.AIGraph = []byte{3}

	place := []struct {
		kind formats.ObjectKind
		id   uint32
		pos  math.Vec3
	}{
		{formats.ObjectUnit, 100, math.Vec3{X: 0, Y: 0, Z: 0}},
		{formats.ObjectUnit, 101, math.Vec3{X: 3, Y: 4, Z: 50}},
		{formats.ObjectLight, 102, math.Vec3{X: 100, Y: 100, Z: 0}},
		{formats.ObjectWorld, 101, math.Vec3{X: 1, Y: 1, Z: 0}},
	}
	for _, p := range place {
		obj, err := formats.NewObject(p.kind)
		if err != nil {
			t.Fatal(err)
		}
		obj.SetMapID(p.id)
		if b := obj.Base(); b != nil {
			b.Position = p.pos
		} else {
			obj.Light.Position = p.pos
		}
		m.Objects = append(m.Objects, obj)
	}
	return m
}

func writeSample(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := sampleMOB(t).WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestObjectFilter(t *testing.T) {
	m := sampleMOB(t)
	origin := math.Vec3{}

	tests := []struct {
		name   string
		filter objectFilter
		want   []uint32
	}{
		{"everything", objectFilter{}, []uint32{100, 101, 102, 101}},
		{"by kind", objectFilter{Kind: formats.ObjectUnit}, []uint32{100, 101}},
		{"near in 3d", objectFilter{Near: &origin, Radius: 10}, []uint32{100, 101}},
		{"near in 2d", objectFilter{Near: &origin, Radius: 10, Flat: true}, []uint32{100, 101, 101}},
		{"kind and distance", objectFilter{Kind: formats.ObjectUnit, Near: &origin, Radius: 5, Flat: true}, []uint32{100, 101}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []uint32
			for _, obj := range m.Objects {
				if tt.filter.match(obj) {
					got = append(got, obj.MapID())
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("match mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteObjects(t *testing.T) {
	var buf bytes.Buffer
	n := writeObjects(&buf, sampleMOB(t), objectFilter{Kind: formats.ObjectLight})
	if n != 1 {
		t.Fatalf("expected 1 object, got %d", n)
	}
	line := buf.String()
	if !strings.Contains(line, "102") || !strings.Contains(line, "Light") {
		t.Errorf("unexpected line %q", line)
	}
	// Lights have no rotation.
	if !strings.HasSuffix(strings.TrimSpace(line), "-") {
		t.Errorf("expected rotation placeholder, got %q", line)
	}
}

func TestWriteInfo(t *testing.T) {
	m := sampleMOB(t)
	data, err := m.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	writeInfo(&buf, "zone.mob", data, m)
	out := buf.String()

	for _, want := range []string{
		"Kind:      base",
		"BLAKE3:    " + digest(data),
		"Main IDs:  [100, 200)",
		"Sec IDs:   none",
		"Objects:   4",
		"Unit       2",
		"Duplicate map IDs:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestVerifyFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeSample(t, dir, "good.mob")
	bad := filepath.Join(dir, "bad.mob")
	if err := os.WriteFile(bad, []byte("not a mob"), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.mob")

	results, err := verifyFiles(context.Background(), []string{good, bad, missing}, formats.MOBOptions{}, 2)
	if err != nil {
		t.Fatalf("verifyFiles failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if r := results[0]; r.Err != nil || !r.Identical || r.Digest != r.OutDigest {
		t.Errorf("good file: %+v", r)
	}
	if results[1].Err == nil {
		t.Error("expected parse failure for bad file")
	}
	if !errors.Is(results[2].Err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", results[2].Err)
	}

	var buf bytes.Buffer
	if failed := writeVerify(&buf, results, false); failed != 2 {
		t.Errorf("expected 2 failures, got %d", failed)
	}
	if !strings.Contains(buf.String(), "3 files: 1 identical, 0 rewritten, 2 failed") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}
}

func TestVerifyFilesCancelled(t *testing.T) {
	path := writeSample(t, t.TempDir(), "zone.mob")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := verifyFiles(ctx, []string{path}, formats.MOBOptions{}, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWriteVerifyStrict(t *testing.T) {
	results := []verifyResult{
		{Path: "a.mob", Digest: "aa", OutDigest: "aa", Identical: true},
		{Path: "b.mob", Digest: "bb", OutDigest: "cc"},
	}

	var buf bytes.Buffer
	if failed := writeVerify(&buf, results, false); failed != 0 {
		t.Errorf("rewritten file should pass without strict, got %d failures", failed)
	}
	buf.Reset()
	if failed := writeVerify(&buf, results, true); failed != 1 {
		t.Errorf("rewritten file should fail with strict, got %d failures", failed)
	}
}

func TestExtractAux(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	m := sampleMOB(t)

	written, err := extractAux(m, "zone", dir)
	if err != nil {
		t.Fatalf("extractAux failed: %v", err)
	}
	want := []string{filepath.Join(dir, "zone.vss"), filepath.Join(dir, "zone.graph")}
	if diff := cmp.Diff(want, written); diff != "" {
		t.Errorf("written mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(filepath.Join(dir, "zone.graph"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, m.AIGraph) {
		t.Errorf("graph blob mismatch: %v", data)
	}
}

func TestExtractAuxEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	written, err := extractAux(formats.NewMOB(formats.DocumentQuest), "quest", dir)
	if err != nil {
		t.Fatalf("extractAux failed: %v", err)
	}
	if len(written) != 0 {
		t.Errorf("expected nothing written, got %v", written)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("empty document should not create the output directory")
	}
}
