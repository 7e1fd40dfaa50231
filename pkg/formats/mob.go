package formats

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Grabarrz90/ei-maper/internal/logger"
	"github.com/Grabarrz90/ei-maper/pkg/math"
	"github.com/Grabarrz90/ei-maper/pkg/mob"
)

// MOB format errors.
var (
	ErrInvalidMOBRoot    = errors.New("invalid MOB root: expected a single OBJECT_DB_FILE record")
	ErrUnknownMOBKind    = errors.New("unknown MOB document kind")
	ErrUnknownObjectKind = errors.New("unknown MOB object kind")
	ErrInvalidObject     = errors.New("invalid MOB object")
)

// DocumentKind says whether a MOB is a zone's base layer or a quest overlay.
type DocumentKind int

const (
	DocumentBase  DocumentKind = iota + 1 // Zone layout, carries world settings
	DocumentQuest                         // Quest objects layered over a zone
)

type documentKindInfo struct {
	kind        DocumentKind
	marker      mob.Tag
	name        string
	hasWorldSet bool
}

var documentKinds = []documentKindInfo{
	{DocumentBase, mob.TagBaseDBFile, "base", true},
	{DocumentQuest, mob.TagQuestDBFile, "quest", false},
}

func documentInfo(k DocumentKind) (documentKindInfo, bool) {
	for _, info := range documentKinds {
		if info.kind == k {
			return info, true
		}
	}
	return documentKindInfo{}, false
}

// String returns "base" or "quest".
func (k DocumentKind) String() string {
	if info, ok := documentInfo(k); ok {
		return info.name
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

// IDRange is a half-open interval [Min, Max) of map IDs reserved for a
// document.
type IDRange struct {
	Min uint32
	Max uint32
}

// Contains reports whether id falls inside the range.
func (r IDRange) Contains(id uint32) bool {
	return id >= r.Min && id < r.Max
}

// String formats the range as "[min, max)".
func (r IDRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Min, r.Max)
}

// ParseRecords implements mob.Record.
func (r *IDRange) ParseRecords(rd *mob.Reader) (int, error) {
	return mob.NewDispatcher(
		mob.U32Field(mob.TagMinID, &r.Min),
		mob.U32Field(mob.TagMaxID, &r.Max),
	).Run(rd)
}

// EmitRecords implements mob.Record.
func (r *IDRange) EmitRecords(w *mob.Writer) int {
	return w.U32Record(mob.TagMinID, r.Min) + w.U32Record(mob.TagMaxID, r.Max)
}

// WorldSet holds the weather and lighting of a base document.
type WorldSet struct {
	WindDirection math.Vec3
	WindStrength  float32
	Time          float32 // Time of day
	Ambient       float32
	SunLight      float32
}

// ParseRecords implements mob.Record.
func (ws *WorldSet) ParseRecords(r *mob.Reader) (int, error) {
	return mob.NewDispatcher(
		mob.Vec3Field(mob.TagWindDir, &ws.WindDirection),
		mob.FloatField(mob.TagWindStrength, &ws.WindStrength),
		mob.FloatField(mob.TagTime, &ws.Time),
		mob.FloatField(mob.TagAmbient, &ws.Ambient),
		mob.FloatField(mob.TagSunLight, &ws.SunLight),
	).Run(r)
}

// EmitRecords implements mob.Record.
func (ws *WorldSet) EmitRecords(w *mob.Writer) int {
	n := w.Vec3Record(mob.TagWindDir, ws.WindDirection)
	n += w.FloatRecord(mob.TagWindStrength, ws.WindStrength)
	n += w.FloatRecord(mob.TagTime, ws.Time)
	n += w.FloatRecord(mob.TagAmbient, ws.Ambient)
	n += w.FloatRecord(mob.TagSunLight, ws.SunLight)
	return n
}

// MOB represents a parsed world object database.
type MOB struct {
	Kind DocumentKind

	Script    string        // Decrypted zone script
	ScriptKey mob.CipherKey // Key the script is stored with
	OldScript string        // Legacy plain-text script

	MainRanges       []IDRange
	SecRanges        []IDRange
	ActiveRangeIndex int // Index into MainRanges (base) or SecRanges (quest); not stored

	Diplomacy      mob.Diplomacy
	DiplomacyNames []string

	WorldSet WorldSet // Written for base documents only

	VSS               []byte // Opaque script editor state
	Directory         []byte // Opaque editor folder tree
	DirectoryElements []byte // Opaque editor folder contents

	Objects []Object

	AIGraph []byte // Opaque navigation graph, stored after OBJECT_DB_FILE

	// Trailer holds well-formed records found after the document. The game
	// stops reading at the first of them, so they are kept for inspection
	// but never written.
	Trailer []byte
}

// MOBOptions controls how ParseMOBWithOptions treats recoverable problems.
type MOBOptions struct {
	// SkipUnreadableScript drops an SS_TEXT record too short to hold its
	// cipher key instead of failing the whole document.
	SkipUnreadableScript bool
	// Strict rejects text that does not convert cleanly between UTF-8 and
	// Windows-1251, on both parse and serialization.
	Strict bool
}

// NewMOB returns an empty document of kind with the default diplomacy table
// of DefaultDiplomacySize groups named "Player-N".
func NewMOB(kind DocumentKind) *MOB {
	m := &MOB{
		Kind:      kind,
		Diplomacy: mob.NewDiplomacy(mob.DefaultDiplomacySize),
	}
	m.DiplomacyNames = make([]string, mob.DefaultDiplomacySize)
	for i := range m.DiplomacyNames {
		m.DiplomacyNames[i] = fmt.Sprintf("Player-%d", i)
	}
	return m
}

// CountByKind returns the count of objects for each kind.
func (m *MOB) CountByKind() map[ObjectKind]int {
	counts := make(map[ObjectKind]int)
	for _, obj := range m.Objects {
		counts[obj.Kind]++
	}
	return counts
}

// ObjectByMapID returns the first object carrying id.
func (m *MOB) ObjectByMapID(id uint32) (*Object, bool) {
	for i := range m.Objects {
		if m.Objects[i].MapID() == id {
			return &m.Objects[i], true
		}
	}
	return nil, false
}

// Ranges returns the ID ranges new objects of this document are taken from:
// the main ranges for base documents, the secondary ones for quests.
func (m *MOB) Ranges() []IDRange {
	if m.Kind == DocumentQuest {
		return m.SecRanges
	}
	return m.MainRanges
}

// ActiveRange returns the range selected by ActiveRangeIndex.
func (m *MOB) ActiveRange() (IDRange, bool) {
	ranges := m.Ranges()
	if m.ActiveRangeIndex < 0 || m.ActiveRangeIndex >= len(ranges) {
		return IDRange{}, false
	}
	return ranges[m.ActiveRangeIndex], true
}

// AddRange appends a range to the main or secondary list and makes it
// active.
func (m *MOB) AddRange(main bool, r IDRange) {
	if main {
		m.MainRanges = append(m.MainRanges, r)
		m.ActiveRangeIndex = len(m.MainRanges) - 1
		return
	}
	m.SecRanges = append(m.SecRanges, r)
	m.ActiveRangeIndex = len(m.SecRanges) - 1
}

// Validate checks the document can be serialized.
func (m *MOB) Validate() error {
	if _, ok := documentInfo(m.Kind); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMOBKind, int(m.Kind))
	}
	if err := m.Diplomacy.Validate(); err != nil {
		return err
	}
	for i, obj := range m.Objects {
		if err := obj.Validate(); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	return nil
}

// Bytes serializes the document in canonical record order.
func (m *MOB) Bytes() ([]byte, error) {
	return m.BytesWithOptions(MOBOptions{})
}

// BytesWithOptions is like Bytes. With opts.Strict, text that has no
// Windows-1251 form fails with mob.ErrInvalidEncoding instead of being
// written with SUB substitutes.
func (m *MOB) BytesWithOptions(opts MOBOptions) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	info, _ := documentInfo(m.Kind)

	w := mob.NewWriter()
	w.Strict = opts.Strict
	root, _ := w.OpenSection(mob.TagObjectDBFile)

	marker, _ := w.OpenSection(info.marker)
	w.CloseSection(marker)

	// An empty script is kept when it carries a key.
	if m.Script != "" || m.ScriptKey != 0 {
		w.EncryptedStringRecord(mob.TagScript, m.Script, m.ScriptKey)
	}
	if m.OldScript != "" {
		w.StringRecord(mob.TagScriptOld, m.OldScript)
	}
	writeRanges(w, mob.TagMainRange, m.MainRanges)
	writeRanges(w, mob.TagSecRange, m.SecRanges)

	if len(m.Diplomacy) > 0 || len(m.DiplomacyNames) > 0 {
		s, _ := w.OpenSection(mob.TagDiplomacy)
		if len(m.Diplomacy) > 0 {
			w.DiplomacyRecord(mob.TagDiplomacyTable, m.Diplomacy)
		}
		if len(m.DiplomacyNames) > 0 {
			w.StringArrayRecord(mob.TagDiplomacyNames, m.DiplomacyNames)
		}
		w.CloseSection(s)
	}

	if info.hasWorldSet {
		mob.WriteRecord(w, mob.TagWorldSet, &m.WorldSet)
	}

	w.BytesRecord(mob.TagVSSSection, m.VSS)
	if len(m.Directory) > 0 {
		w.BytesRecord(mob.TagDirectory, m.Directory)
	}
	if len(m.DirectoryElements) > 0 {
		w.BytesRecord(mob.TagDirectoryElements, m.DirectoryElements)
	}

	if len(m.Objects) > 0 {
		s, _ := w.OpenSection(mob.TagObjectSection)
		for _, obj := range m.Objects {
			emitObject(w, obj)
		}
		w.CloseSection(s)
	}
	w.CloseSection(root)

	if len(m.AIGraph) > 0 {
		w.BytesRecord(mob.TagAIGraph, m.AIGraph)
	}
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func writeRanges(w *mob.Writer, tag mob.Tag, ranges []IDRange) {
	if len(ranges) == 0 {
		return
	}
	s, _ := w.OpenSection(tag)
	for i := range ranges {
		mob.WriteRecord(w, mob.TagRange, &ranges[i])
	}
	w.CloseSection(s)
}

// WriteFile serializes the document to path.
func (m *MOB) WriteFile(path string) error {
	data, err := m.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing MOB file: %w", err)
	}
	return nil
}

// ParseMOB parses a MOB file from raw bytes.
func ParseMOB(data []byte) (*MOB, error) {
	return ParseMOBWithOptions(data, MOBOptions{})
}

// ParseMOBWithOptions parses a MOB file from raw bytes.
func ParseMOBWithOptions(data []byte, opts MOBOptions) (*MOB, error) {
	m := &MOB{}
	r := mob.NewReader(data)
	r.Strict = opts.Strict

	roots := 0
	top := mob.NewDispatcher(
		mob.Case{Tag: mob.TagObjectDBFile, Parse: func(r *mob.Reader, _ mob.Header) (int, error) {
			roots++
			if roots > 1 {
				return 0, fmt.Errorf("%w: found a second root", ErrInvalidMOBRoot)
			}
			return m.parseBody(r, opts)
		}},
		mob.BytesField(mob.TagAIGraph, &m.AIGraph),
	)
	if _, err := top.Run(r); err != nil {
		return nil, err
	}
	if roots == 0 {
		if tag, ok := r.PeekTag(); ok {
			return nil, fmt.Errorf("%w: found %q", ErrInvalidMOBRoot, tag)
		}
		return nil, ErrInvalidMOBRoot
	}
	if r.Remaining() != 0 {
		tag, ok := r.PeekTag()
		if !ok {
			return nil, fmt.Errorf("%w: %d trailing bytes at offset %d",
				mob.ErrSectionLengthMismatch, r.Remaining(), r.Pos())
		}
		// An unknown record ends the document.
		logger.Named("formats").Warn("ignoring records after MOB document",
			zap.String("tag", string(tag)),
			zap.Int("offset", r.Pos()),
			zap.Int("bytes", r.Remaining()))
		m.Trailer, _, _ = r.ReadBytes(r.Remaining())
	}
	if m.Kind == 0 {
		return nil, fmt.Errorf("%w: no %s or %s marker", ErrUnknownMOBKind, mob.TagBaseDBFile, mob.TagQuestDBFile)
	}
	return m, nil
}

func (m *MOB) parseBody(r *mob.Reader, opts MOBOptions) (int, error) {
	cases := make([]mob.Case, 0, 16)
	for _, info := range documentKinds {
		kind := info.kind
		cases = append(cases, mob.Case{Tag: info.marker, Parse: func(_ *mob.Reader, _ mob.Header) (int, error) {
			m.Kind = kind
			return 0, nil
		}})
	}

	script := mob.EncryptedStringField(mob.TagScript, &m.Script, &m.ScriptKey)
	if opts.SkipUnreadableScript {
		parse := script.Parse
		script.Parse = func(r *mob.Reader, h mob.Header) (int, error) {
			n, err := parse(r, h)
			if errors.Is(err, mob.ErrMissingCipherKey) {
				_, n, err = r.ReadBytes(int(h.Length))
			}
			return n, err
		}
	}

	cases = append(cases,
		script,
		mob.StringField(mob.TagScriptOld, &m.OldScript),
		mob.SectionCase(mob.TagMainRange, mob.NewDispatcher(rangeCase(&m.MainRanges))),
		mob.SectionCase(mob.TagSecRange, mob.NewDispatcher(rangeCase(&m.SecRanges))),
		mob.SectionCase(mob.TagDiplomacy, mob.NewDispatcher(
			mob.DiplomacyField(mob.TagDiplomacyTable, &m.Diplomacy),
			mob.StringArrayField(mob.TagDiplomacyNames, &m.DiplomacyNames),
		)),
		mob.RecordCase(mob.TagWorldSet, &m.WorldSet),
		mob.BytesField(mob.TagVSSSection, &m.VSS),
		mob.BytesField(mob.TagDirectory, &m.Directory),
		mob.BytesField(mob.TagDirectoryElements, &m.DirectoryElements),
		mob.Case{Tag: mob.TagObjectSection, Parse: parseObjects(&m.Objects)},
		legacyCase(mob.TagLightSection),
		legacyCase(mob.TagParticleSection),
		legacyCase(mob.TagSoundSection),
	)
	return mob.NewDispatcher(cases...).Run(r)
}

// legacyCase skips a record that older editors wrote and the game ignores.
func legacyCase(tag mob.Tag) mob.Case {
	return mob.Case{Tag: tag, Parse: func(r *mob.Reader, h mob.Header) (int, error) {
		logger.Named("formats").Warn("skipping legacy record",
			zap.String("tag", string(h.Tag)),
			zap.Uint32("length", h.Length),
			zap.Int("offset", r.Pos()))
		_, n, err := r.ReadBytes(int(h.Length))
		return n, err
	}}
}

func rangeCase(dst *[]IDRange) mob.Case {
	return mob.Case{Tag: mob.TagRange, Parse: func(r *mob.Reader, _ mob.Header) (int, error) {
		var rg IDRange
		n, err := rg.ParseRecords(r)
		if err != nil {
			return n, err
		}
		*dst = append(*dst, rg)
		return n, nil
	}}
}

// ParseMOBFile parses a MOB file from disk.
func ParseMOBFile(path string) (*MOB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MOB file: %w", err)
	}
	return ParseMOB(data)
}
