package mob

import (
	"fmt"

	"github.com/Grabarrz90/ei-maper/pkg/math"
)

// Transition is the outcome of one dispatcher step.
type Transition int

const (
	// Dispatched means a matching record was consumed by its handler.
	Dispatched Transition = iota
	// ReturnToParent means the next record (if any) belongs to the enclosing
	// section. Nothing was consumed.
	ReturnToParent
)

// String returns the transition name.
func (t Transition) String() string {
	switch t {
	case Dispatched:
		return "Dispatched"
	case ReturnToParent:
		return "ReturnToParent"
	default:
		return fmt.Sprintf("Transition(%d)", int(t))
	}
}

// ParseFunc decodes the payload of one record. The reader is bounded to the
// payload; the function returns the bytes it consumed.
type ParseFunc func(r *Reader, h Header) (int, error)

// Case binds a tag to the handler run when that tag is next in the stream.
type Case struct {
	Tag   Tag
	Parse ParseFunc
}

// Record is implemented by types stored as the payload of a section: a run of
// child records.
type Record interface {
	// ParseRecords reads the children and returns the bytes consumed.
	ParseRecords(r *Reader) (int, error)
	// EmitRecords writes the children and returns the bytes produced.
	EmitRecords(w *Writer) int
}

// Dispatcher walks a sequence of sibling records, handing each to the first
// case whose tag matches. The first record without a case ends the walk.
//
// A Dispatcher holds no per-document state and may be shared between
// goroutines once built.
type Dispatcher struct {
	resolve func(Tag) (ParseFunc, bool)
}

// NewDispatcher builds a dispatcher from cases. When two cases share a tag the
// earlier one wins.
func NewDispatcher(cases ...Case) *Dispatcher {
	return &Dispatcher{resolve: func(tag Tag) (ParseFunc, bool) {
		for _, c := range cases {
			if c.Tag == tag {
				return c.Parse, true
			}
		}
		return nil, false
	}}
}

// DispatchFunc builds a dispatcher that asks resolve for the handler of each
// tag.
func DispatchFunc(resolve func(Tag) (ParseFunc, bool)) *Dispatcher {
	return &Dispatcher{resolve: resolve}
}

// Next performs one step: peek the next header and either dispatch it or
// report ReturnToParent, leaving the cursor at the start of the unmatched tag.
func (d *Dispatcher) Next(r *Reader) (Transition, int, error) {
	h, ok := r.PeekHeader()
	if !ok {
		return ReturnToParent, 0, nil
	}
	parse, ok := d.resolve(h.Tag)
	if !ok {
		return ReturnToParent, 0, nil
	}
	// The tag is already decoded; only advance past the header.
	hn, err := r.SkipHeader()
	if err != nil {
		return Dispatched, 0, err
	}
	n, err := readPayload(r, h, parse)
	return Dispatched, hn + n, err
}

// Run steps until ReturnToParent and returns the total bytes consumed.
func (d *Dispatcher) Run(r *Reader) (int, error) {
	total := 0
	for {
		t, n, err := d.Next(r)
		total += n
		if err != nil {
			return total, err
		}
		if t == ReturnToParent {
			return total, nil
		}
	}
}

// ReadRecord consumes one record: its header, then its payload through parse.
// The payload must account for exactly the declared length.
func ReadRecord(r *Reader, parse ParseFunc) (int, error) {
	h, hn, err := r.ReadHeader()
	if err != nil {
		return 0, err
	}
	n, err := readPayload(r, h, parse)
	return hn + n, err
}

// readPayload runs parse over the h.Length bytes at the cursor.
func readPayload(r *Reader, h Header, parse ParseFunc) (int, error) {
	if err := r.EnterSection(h.Length); err != nil {
		return 0, fmt.Errorf("%s: %w", h.Tag, err)
	}
	consumed, err := parse(r, h)
	if err != nil {
		r.limits = r.limits[:len(r.limits)-1]
		return consumed, fmt.Errorf("%s: %w", h.Tag, err)
	}
	if uint64(consumed) != uint64(h.Length) {
		r.limits = r.limits[:len(r.limits)-1]
		return consumed, fmt.Errorf("%s: %w: declared %d bytes, accounted %d",
			h.Tag, ErrSectionLengthMismatch, h.Length, consumed)
	}
	if err := r.LeaveSection(); err != nil {
		return consumed, fmt.Errorf("%s: %w", h.Tag, err)
	}
	return consumed, nil
}

// WriteRecord writes rec as the payload of a tag section.
func WriteRecord(w *Writer, tag Tag, rec Record) int {
	s, n := w.OpenSection(tag)
	n += rec.EmitRecords(w)
	w.CloseSection(s)
	return n
}

// RecordCase dispatches tag to rec.ParseRecords.
func RecordCase(tag Tag, rec Record) Case {
	return Case{Tag: tag, Parse: func(r *Reader, _ Header) (int, error) {
		return rec.ParseRecords(r)
	}}
}

// SectionCase dispatches the children of a tag section with d.
func SectionCase(tag Tag, d *Dispatcher) Case {
	return Case{Tag: tag, Parse: func(r *Reader, _ Header) (int, error) {
		return d.Run(r)
	}}
}

// U32Field reads a uint32 leaf into dst.
func U32Field(tag Tag, dst *uint32) Case {
	return Case{Tag: tag, Parse: func(r *Reader, _ Header) (int, error) {
		v, n, err := r.ReadU32()
		*dst = v
		return n, err
	}}
}

// FloatField reads a float leaf into dst.
func FloatField(tag Tag, dst *float32) Case {
	return Case{Tag: tag, Parse: func(r *Reader, _ Header) (int, error) {
		v, n, err := r.ReadFloat32()
		*dst = v
		return n, err
	}}
}

// ByteField reads a one-byte leaf into dst.
func ByteField(tag Tag, dst *uint8) Case {
	return Case{Tag: tag, Parse: func(r *Reader, _ Header) (int, error) {
		v, n, err := r.ReadU8()
		*dst = v
		return n, err
	}}
}

// BoolField reads a boolean leaf into dst.
func BoolField(tag Tag, dst *bool) Case {
	return Case{Tag: tag, Parse: func(r *Reader, _ Header) (int, error) {
		v, n, err := r.ReadBool()
		*dst = v
		return n, err
	}}
}

// StringField reads a text leaf spanning the whole payload into dst.
func StringField(tag Tag, dst *string) Case {
	return Case{Tag: tag, Parse: func(r *Reader, h Header) (int, error) {
		v, n, err := r.ReadFixedString(int(h.Length))
		*dst = v
		return n, err
	}}
}

// StringArrayField reads a string array leaf into dst.
func StringArrayField(tag Tag, dst *[]string) Case {
	return Case{Tag: tag, Parse: func(r *Reader, _ Header) (int, error) {
		v, n, err := r.ReadStringArray()
		*dst = v
		return n, err
	}}
}

// Vec3Field reads a vector leaf into dst.
func Vec3Field(tag Tag, dst *math.Vec3) Case {
	return Case{Tag: tag, Parse: func(r *Reader, _ Header) (int, error) {
		v, n, err := r.ReadVec3()
		*dst = v
		return n, err
	}}
}

// QuatField reads a quaternion leaf into dst.
func QuatField(tag Tag, dst *math.Quat) Case {
	return Case{Tag: tag, Parse: func(r *Reader, _ Header) (int, error) {
		v, n, err := r.ReadQuat()
		*dst = v
		return n, err
	}}
}

// BytesField reads an opaque blob spanning the whole payload into dst.
func BytesField(tag Tag, dst *[]byte) Case {
	return Case{Tag: tag, Parse: func(r *Reader, h Header) (int, error) {
		v, n, err := r.ReadBytes(int(h.Length))
		*dst = v
		return n, err
	}}
}

// DiplomacyField reads a diplomacy matrix leaf into dst.
func DiplomacyField(tag Tag, dst *Diplomacy) Case {
	return Case{Tag: tag, Parse: func(r *Reader, _ Header) (int, error) {
		v, n, err := r.ReadDiplomacy()
		*dst = v
		return n, err
	}}
}

// EncryptedStringField reads an obfuscated text leaf into dst and its key into
// key.
func EncryptedStringField(tag Tag, dst *string, key *CipherKey) Case {
	return Case{Tag: tag, Parse: func(r *Reader, h Header) (int, error) {
		v, k, n, err := r.ReadEncryptedString(int(h.Length))
		*dst, *key = v, k
		return n, err
	}}
}
