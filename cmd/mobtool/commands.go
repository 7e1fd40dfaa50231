package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/Grabarrz90/ei-maper/internal/logger"
	"github.com/Grabarrz90/ei-maper/internal/mobfile"
	"github.com/Grabarrz90/ei-maper/pkg/formats"
	"github.com/Grabarrz90/ei-maper/pkg/math"
	"github.com/Grabarrz90/ei-maper/pkg/mob"
)

func cmdInfo(args []string) {
	cfg, fs := setup("info", args, nil)
	if fs.NArg() < 1 {
		usage("mobtool info <file.mob>")
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fatal(err)
	}
	m, err := formats.ParseMOBWithOptions(data, codecOptions(cfg))
	if err != nil {
		fatal(err)
	}
	writeInfo(os.Stdout, path, data, m)
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func writeInfo(w io.Writer, path string, data []byte, m *formats.MOB) {
	fmt.Fprintf(w, "File:      %s\n", path)
	fmt.Fprintf(w, "Kind:      %s\n", m.Kind)
	fmt.Fprintf(w, "Size:      %d bytes\n", len(data))
	fmt.Fprintf(w, "BLAKE3:    %s\n", digest(data))
	fmt.Fprintf(w, "Script:    %d chars (key 0x%08X)\n", len([]rune(m.Script)), uint32(m.ScriptKey))
	if m.OldScript != "" {
		fmt.Fprintf(w, "Old script: %d chars\n", len([]rune(m.OldScript)))
	}
	fmt.Fprintf(w, "Main IDs:  %s\n", formatRanges(m.MainRanges))
	fmt.Fprintf(w, "Sec IDs:   %s\n", formatRanges(m.SecRanges))
	if active, ok := m.ActiveRange(); ok {
		fmt.Fprintf(w, "Active:    %s\n", active)
	}
	fmt.Fprintf(w, "Diplomacy: %d groups\n", m.Diplomacy.Size())
	if m.Kind == formats.DocumentBase {
		ws := m.WorldSet
		fmt.Fprintf(w, "World:     wind %s x %g, time %g, ambient %g, sun %g\n",
			ws.WindDirection, ws.WindStrength, ws.Time, ws.Ambient, ws.SunLight)
	}
	fmt.Fprintf(w, "Editor:    VSS %d bytes, DIR %d bytes, DIR_ELEM %d bytes\n",
		len(m.VSS), len(m.Directory), len(m.DirectoryElements))
	fmt.Fprintf(w, "AI graph:  %d bytes\n", len(m.AIGraph))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Objects:   %d\n", len(m.Objects))
	counts := m.CountByKind()
	for _, kind := range formats.ObjectKinds() {
		if counts[kind] > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", kind, counts[kind])
		}
	}

	if dups := mobfile.FindDuplicateIDs(m); len(dups) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Duplicate map IDs:")
		for _, d := range dups {
			fmt.Fprintf(w, "  %-10d objects %v\n", d.ID, d.Indexes)
		}
	}
}

func formatRanges(ranges []formats.IDRange) string {
	if len(ranges) == 0 {
		return "none"
	}
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}

func cmdTree(args []string) {
	_, fs := setup("tree", args, nil)
	if fs.NArg() < 1 {
		usage("mobtool tree <file.mob>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fatal(err)
	}
	nodes, err := mob.ParseTree(data)
	if err != nil {
		fatal(err)
	}
	if err := mob.DumpTree(os.Stdout, nodes); err != nil {
		fatal(err)
	}
}

// objectFilter selects objects for the list command. A zero filter matches
// everything.
type objectFilter struct {
	Kind   formats.ObjectKind
	Near   *math.Vec3
	Radius float32
	Flat   bool // Measure distance in the XY plane only
}

func (f objectFilter) match(o formats.Object) bool {
	if f.Kind != 0 && o.Kind != f.Kind {
		return false
	}
	if f.Near != nil {
		pos := o.Position()
		dist := pos.Distance(*f.Near)
		if f.Flat {
			dist = pos.Distance2D(*f.Near)
		}
		if dist > f.Radius {
			return false
		}
	}
	return true
}

func cmdList(args []string) {
	var kindName, near string
	var radius float32
	var flat bool
	cfg, fs := setup("list", args, func(fs *pflag.FlagSet) {
		fs.StringVarP(&kindName, "kind", "k", "", "Only objects of this kind (name or tag)")
		fs.StringVar(&near, "near", "", "Only objects near this point (x,y,z)")
		fs.Float32VarP(&radius, "radius", "r", 10, "Search radius for --near")
		fs.BoolVar(&flat, "2d", false, "Ignore height when measuring distance")
	})
	if fs.NArg() < 1 {
		usage("mobtool list <file.mob> [--kind K] [--near x,y,z] [--radius R]")
	}

	filter := objectFilter{Radius: radius, Flat: flat}
	if kindName != "" {
		kind, err := formats.ParseObjectKind(kindName)
		if err != nil {
			fatal(err)
		}
		filter.Kind = kind
	}
	if near != "" {
		p, err := math.ParseVec3(near)
		if err != nil {
			fatal(err)
		}
		filter.Near = &p
	}

	m, err := mobfile.Load(fs.Arg(0), loadOptions(cfg))
	if err != nil {
		fatal(err)
	}
	n := writeObjects(os.Stdout, m, filter)
	logger.Debug("listed objects", zap.Int("matched", n), zap.Int("total", len(m.Objects)))
}

// writeObjects prints one line per matching object and returns the count.
func writeObjects(w io.Writer, m *formats.MOB, f objectFilter) int {
	n := 0
	for _, obj := range m.Objects {
		if !f.match(obj) {
			continue
		}
		rot := "-"
		if b := obj.Base(); b != nil {
			roll, pitch, yaw := b.Rotation.Euler()
			rot = fmt.Sprintf("%.1f %.1f %.1f", math.Degrees(roll), math.Degrees(pitch), math.Degrees(yaw))
		}
		fmt.Fprintf(w, "%8d  %-10s %-24s %-28s %s\n",
			obj.MapID(), obj.Kind, obj.Name(), obj.Position(), rot)
		n++
	}
	return n
}

func cmdScript(args []string) {
	var old bool
	cfg, fs := setup("script", args, func(fs *pflag.FlagSet) {
		fs.BoolVar(&old, "old", false, "Print the legacy plain-text script instead")
	})
	if fs.NArg() < 1 {
		usage("mobtool script <file.mob> [--old]")
	}

	m, err := mobfile.Load(fs.Arg(0), loadOptions(cfg))
	if err != nil {
		fatal(err)
	}

	text := m.Script
	if old {
		text = m.OldScript
	}
	if text == "" {
		logger.Warn("document has no script", zap.String("path", fs.Arg(0)), zap.Bool("old", old))
		return
	}
	fmt.Print(text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Println()
	}
}

func cmdFixIDs(args []string) {
	var dryRun bool
	cfg, fs := setup("fixids", args, func(fs *pflag.FlagSet) {
		fs.BoolVarP(&dryRun, "dry-run", "n", false, "Report changes without writing")
	})
	if fs.NArg() < 1 {
		usage("mobtool fixids <in.mob> [out.mob] [--dry-run]")
	}

	in := fs.Arg(0)
	out := in
	if fs.NArg() > 1 {
		out = fs.Arg(1)
	}

	opts := loadOptions(cfg)
	opts.AutoFix = false
	m, err := mobfile.Load(in, opts)
	if err != nil {
		fatal(err)
	}

	changes, err := mobfile.FixDuplicateIDs(m, fallbackRange(cfg))
	if err != nil {
		fatal(err)
	}
	if len(changes) == 0 {
		fmt.Println("No duplicate map IDs")
		return
	}
	for _, c := range changes {
		fmt.Printf("object %d (%s): %d -> %d\n", c.Index, c.Kind, c.Old, c.New)
	}
	if dryRun {
		return
	}
	if err := mobfile.Save(out, m, opts.Codec); err != nil {
		fatal(err)
	}
	fmt.Printf("Saved %d changes to %s\n", len(changes), out)
}

func cmdExtract(args []string) {
	cfg, fs := setup("extract", args, nil)
	if fs.NArg() < 1 {
		usage("mobtool extract <file.mob> [dir]")
	}

	path := fs.Arg(0)
	dir := "."
	if fs.NArg() > 1 {
		dir = fs.Arg(1)
	}

	m, err := mobfile.Load(path, loadOptions(cfg))
	if err != nil {
		fatal(err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	written, err := extractAux(m, base, dir)
	if err != nil {
		fatal(err)
	}
	if len(written) == 0 {
		fmt.Println("Nothing to extract")
		return
	}
	for _, p := range written {
		fmt.Println(p)
	}
}

// extractAux writes every non-empty opaque blob of m to dir as base plus a
// per-blob extension and returns the paths written.
func extractAux(m *formats.MOB, base, dir string) ([]string, error) {
	blobs := []struct {
		ext  string
		data []byte
	}{
		{".vss", m.VSS},
		{".dir", m.Directory},
		{".dirElem", m.DirectoryElements},
		{".graph", m.AIGraph},
	}

	var written []string
	for _, b := range blobs {
		if len(b.data) == 0 {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return written, err
		}
		p := filepath.Join(dir, base+b.ext)
		if err := os.WriteFile(p, b.data, 0644); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}

func cmdConfig(args []string) {
	var output string
	var save bool
	cfg, _ := setup("config", args, func(fs *pflag.FlagSet) {
		fs.StringVarP(&output, "output", "o", "", "Write the effective config to this file")
		fs.BoolVar(&save, "save", false, "Write the effective config to the user config directory")
	})

	switch {
	case output != "":
		if err := cfg.SaveTo(output); err != nil {
			fatal(err)
		}
		fmt.Printf("Saved config to %s\n", output)
	case save:
		path, err := cfg.Save()
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Saved config to %s\n", path)
	default:
		data, err := cfg.Marshal()
		if err != nil {
			fatal(err)
		}
		os.Stdout.Write(data)
	}
}
