package mob

import (
	"encoding/binary"
	"fmt"
	gomath "math"

	"github.com/Grabarrz90/ei-maper/pkg/encoding"
	"github.com/Grabarrz90/ei-maper/pkg/math"
)

// Writer builds a document in memory. Sections are opened and closed in strict
// LIFO order; misuse is a programming error and panics with an error wrapping
// ErrUnbalancedSection.
type Writer struct {
	buf    []byte
	stack  []frame
	nextID int
	err    error

	// Strict records ErrInvalidEncoding (see Err) for text that has no
	// Windows-1251 form instead of silently substituting SUB bytes.
	Strict bool
}

type frame struct {
	id          int
	tag         Tag
	placeholder int // offset of the length field
}

// Section is the handle of an open section.
type Section struct {
	id  int
	tag Tag
}

// Tag returns the tag the section was opened with.
func (s Section) Tag() Tag {
	return s.tag
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Depth returns the number of open sections.
func (w *Writer) Depth() int {
	return len(w.stack)
}

// Bytes returns the finished document. All sections must be closed.
func (w *Writer) Bytes() []byte {
	if len(w.stack) > 0 {
		panic(fmt.Errorf("%w: %d section(s) still open, innermost %q",
			ErrUnbalancedSection, len(w.stack), w.stack[len(w.stack)-1].tag))
	}
	return w.buf
}

// Err returns the first text encoding failure seen in strict mode.
func (w *Writer) Err() error {
	return w.err
}

// encodeText converts s to Windows-1251. Output is always produced so that
// section lengths stay consistent; strict failures are only recorded.
func (w *Writer) encodeText(s string) []byte {
	if w.Strict {
		raw, err := encoding.UTF8ToWin1251Strict(s)
		if err == nil {
			return raw
		}
		if w.err == nil {
			w.err = fmt.Errorf("%w: %q at offset %d: %v", ErrInvalidEncoding, s, len(w.buf), err)
		}
	}
	return encoding.UTF8ToWin1251(s)
}

func (w *Writer) putHeader(tag Tag, length uint32) int {
	if !tag.Valid() {
		panic(fmt.Errorf("%w: %q", ErrInvalidTag, tag))
	}
	w.buf = append(w.buf, byte(len(tag)))
	w.buf = append(w.buf, string(tag)...)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, length)
	return HeaderSize(tag)
}

// OpenSection writes the header of tag with a zero length placeholder and
// pushes it on the section stack.
func (w *Writer) OpenSection(tag Tag) (Section, int) {
	n := w.putHeader(tag, 0)
	w.nextID++
	w.stack = append(w.stack, frame{
		id:          w.nextID,
		tag:         tag,
		placeholder: len(w.buf) - lengthSize,
	})
	return Section{id: w.nextID, tag: tag}, n
}

// CloseSection pops s and back-patches its length with the number of payload
// bytes written since it was opened. s must be the innermost open section.
func (w *Writer) CloseSection(s Section) {
	if len(w.stack) == 0 {
		panic(fmt.Errorf("%w: closing %q with no open section", ErrUnbalancedSection, s.tag))
	}
	top := w.stack[len(w.stack)-1]
	if top.id != s.id {
		panic(fmt.Errorf("%w: closing %q while %q is innermost", ErrUnbalancedSection, s.tag, top.tag))
	}
	w.stack = w.stack[:len(w.stack)-1]
	length := len(w.buf) - (top.placeholder + lengthSize)
	binary.LittleEndian.PutUint32(w.buf[top.placeholder:], uint32(length))
}

// WriteU32 appends a little-endian uint32.
func (w *Writer) WriteU32(v uint32) int {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	return u32Size
}

// WriteFloat32 appends an IEEE-754 float.
func (w *Writer) WriteFloat32(v float32) int {
	return w.WriteU32(gomath.Float32bits(v))
}

// WriteU8 appends one byte.
func (w *Writer) WriteU8(v uint8) int {
	w.buf = append(w.buf, v)
	return 1
}

// WriteBool appends 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) int {
	if v {
		return w.WriteU8(1)
	}
	return w.WriteU8(0)
}

// WriteBytes appends data verbatim.
func (w *Writer) WriteBytes(data []byte) int {
	w.buf = append(w.buf, data...)
	return len(data)
}

// WriteFixedString appends s encoded as Windows-1251 without a terminator or
// length prefix; the enclosing record's length delimits it.
func (w *Writer) WriteFixedString(s string) int {
	return w.WriteBytes(w.encodeText(s))
}

// WriteStringArray appends a u32 count followed by length-prefixed strings.
func (w *Writer) WriteStringArray(items []string) int {
	n := w.WriteU32(uint32(len(items)))
	for _, s := range items {
		raw := w.encodeText(s)
		n += w.WriteU32(uint32(len(raw)))
		n += w.WriteBytes(raw)
	}
	return n
}

// WriteVec3 appends three floats.
func (w *Writer) WriteVec3(v math.Vec3) int {
	return w.WriteFloat32(v.X) + w.WriteFloat32(v.Y) + w.WriteFloat32(v.Z)
}

// WriteQuat appends four floats in X, Y, Z, W order.
func (w *Writer) WriteQuat(q math.Quat) int {
	return w.WriteFloat32(q.X) + w.WriteFloat32(q.Y) + w.WriteFloat32(q.Z) + w.WriteFloat32(q.W)
}

// WriteEncryptedString appends key followed by s encrypted with it.
func (w *Writer) WriteEncryptedString(s string, key CipherKey) int {
	n := w.WriteU32(uint32(key))
	return n + w.WriteBytes(Encrypt(w.encodeText(s), key))
}

// WriteDiplomacy appends d as an array of digit rows. d must be valid.
func (w *Writer) WriteDiplomacy(d Diplomacy) int {
	if err := d.Validate(); err != nil {
		panic(err)
	}
	return w.WriteStringArray(d.Rows())
}
