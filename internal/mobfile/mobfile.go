// Package mobfile loads and saves MOB documents on disk and keeps their map
// IDs unique.
package mobfile

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Grabarrz90/ei-maper/internal/logger"
	"github.com/Grabarrz90/ei-maper/pkg/formats"
)

// DefaultFallback is the interval searched for free IDs when none of a
// document's own ranges has room.
var DefaultFallback = formats.IDRange{Min: 1000, Max: 100000}

// Options controls Load.
type Options struct {
	Codec    formats.MOBOptions
	AutoFix  bool            // Repair duplicate map IDs after parsing
	Fallback formats.IDRange // Used by the repair when the document's ranges are full
}

// DefaultOptions returns options that parse leniently and report, but do
// not repair, duplicate IDs.
func DefaultOptions() Options {
	return Options{Fallback: DefaultFallback}
}

// Load parses the document at path. Duplicate map IDs are logged, and fixed
// when opts.AutoFix is set.
func Load(path string, opts Options) (*formats.MOB, error) {
	log := logger.Named("mobfile").With(zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MOB file: %w", err)
	}

	m, err := formats.ParseMOBWithOptions(data, opts.Codec)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	log.Debug("parsed document",
		zap.Stringer("kind", m.Kind),
		zap.Int("bytes", len(data)),
		zap.Int("objects", len(m.Objects)))

	dups := FindDuplicateIDs(m)
	if len(dups) == 0 {
		return m, nil
	}
	for _, d := range dups {
		log.Warn("duplicate map ID", zap.Uint32("id", d.ID), zap.Ints("objects", d.Indexes))
	}
	if !opts.AutoFix {
		return m, nil
	}

	changes, err := FixDuplicateIDs(m, opts.Fallback)
	if err != nil {
		return nil, err
	}
	for _, c := range changes {
		log.Info("reassigned map ID",
			zap.Int("object", c.Index),
			zap.Stringer("kind", c.Kind),
			zap.Uint32("old", c.Old),
			zap.Uint32("new", c.New))
	}
	return m, nil
}

// Save serializes m and replaces path atomically. codec.Strict refuses text
// that cannot be stored in Windows-1251.
func Save(path string, m *formats.MOB, codec formats.MOBOptions) error {
	data, err := m.BytesWithOptions(codec)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	logger.Named("mobfile").Debug("saved document",
		zap.String("path", path),
		zap.Int("bytes", len(data)))
	return nil
}
