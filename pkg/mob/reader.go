package mob

import (
	"encoding/binary"
	"fmt"
	gomath "math"

	"github.com/Grabarrz90/ei-maper/pkg/encoding"
	"github.com/Grabarrz90/ei-maper/pkg/math"
)

// Reader is the read cursor over one in-memory document.
//
// Reads never cross the innermost section entered with EnterSection. A failed
// read leaves the cursor where it was.
type Reader struct {
	data   []byte
	pos    int
	limits []int

	// Strict makes text reads fail with ErrInvalidEncoding instead of
	// substituting replacement characters.
	Strict bool
}

// NewReader starts reading a document held entirely in data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the absolute cursor offset.
func (r *Reader) Pos() int {
	return r.pos
}

// Len returns the total document size.
func (r *Reader) Len() int {
	return len(r.data)
}

// Depth returns how many sections are currently entered.
func (r *Reader) Depth() int {
	return len(r.limits)
}

func (r *Reader) limit() int {
	if n := len(r.limits); n > 0 {
		return r.limits[n-1]
	}
	return len(r.data)
}

// Remaining returns the bytes left in the innermost section (or document).
func (r *Reader) Remaining() int {
	return r.limit() - r.pos
}

func (r *Reader) need(n int, what string) error {
	if n < 0 || r.Remaining() < n {
		return fmt.Errorf("%w: %s needs %d bytes at offset %d, %d available",
			ErrTruncatedInput, what, n, r.pos, r.Remaining())
	}
	return nil
}

// EnterSection bounds subsequent reads to the next length bytes.
func (r *Reader) EnterSection(length uint32) error {
	if uint64(length) > uint64(r.Remaining()) {
		return fmt.Errorf("%w: section of %d bytes at offset %d, %d available",
			ErrTruncatedInput, length, r.pos, r.Remaining())
	}
	r.limits = append(r.limits, r.pos+int(length))
	return nil
}

// LeaveSection drops the innermost bound. It fails with
// ErrSectionLengthMismatch if the cursor is not exactly at the section end.
func (r *Reader) LeaveSection() error {
	if len(r.limits) == 0 {
		panic(fmt.Errorf("%w: LeaveSection without EnterSection", ErrUnbalancedSection))
	}
	end := r.limits[len(r.limits)-1]
	r.limits = r.limits[:len(r.limits)-1]
	if r.pos != end {
		return fmt.Errorf("%w: section ends at offset %d, cursor at %d",
			ErrSectionLengthMismatch, end, r.pos)
	}
	return nil
}

// peekHeader decodes the header at the cursor without moving it.
func (r *Reader) peekHeader() (Header, int, error) {
	if err := r.need(tagLenSize, "tag length"); err != nil {
		return Header{}, 0, err
	}
	n := int(r.data[r.pos])
	size := tagLenSize + n + lengthSize
	if err := r.need(size, "record header"); err != nil {
		return Header{}, 0, err
	}
	tag := Tag(r.data[r.pos+tagLenSize : r.pos+tagLenSize+n])
	if !tag.Valid() {
		return Header{}, 0, fmt.Errorf("%w: %q at offset %d", ErrInvalidTag, tag, r.pos)
	}
	length := binary.LittleEndian.Uint32(r.data[r.pos+tagLenSize+n:])
	return Header{Tag: tag, Length: length}, size, nil
}

// PeekTag returns the tag of the next record without consuming anything.
// It reports false at the end of the current section or when the bytes at the
// cursor do not form a header.
func (r *Reader) PeekTag() (Tag, bool) {
	h, _, err := r.peekHeader()
	if err != nil {
		return "", false
	}
	return h.Tag, true
}

// PeekHeader is like PeekTag but also returns the declared payload length.
func (r *Reader) PeekHeader() (Header, bool) {
	h, _, err := r.peekHeader()
	if err != nil {
		return Header{}, false
	}
	return h, true
}

// IsNextTag reports whether the next record carries tag.
func (r *Reader) IsNextTag(tag Tag) bool {
	next, ok := r.PeekTag()
	return ok && next == tag
}

// ReadHeader consumes and validates the next record header.
func (r *Reader) ReadHeader() (Header, int, error) {
	h, n, err := r.peekHeader()
	if err != nil {
		return Header{}, 0, err
	}
	r.pos += n
	return h, n, nil
}

// SkipHeader consumes the next record header without decoding the tag. Use it
// when the tag is already known from a preceding peek.
func (r *Reader) SkipHeader() (int, error) {
	if err := r.need(tagLenSize, "tag length"); err != nil {
		return 0, err
	}
	size := tagLenSize + int(r.data[r.pos]) + lengthSize
	if err := r.need(size, "record header"); err != nil {
		return 0, err
	}
	r.pos += size
	return size, nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, int, error) {
	if err := r.need(u32Size, "uint32"); err != nil {
		return 0, 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += u32Size
	return v, u32Size, nil
}

// ReadFloat32 reads a little-endian IEEE-754 float.
func (r *Reader) ReadFloat32() (float32, int, error) {
	v, n, err := r.ReadU32()
	return gomath.Float32frombits(v), n, err
}

// ReadU8 reads one byte.
func (r *Reader) ReadU8() (uint8, int, error) {
	if err := r.need(1, "byte"); err != nil {
		return 0, 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, 1, nil
}

// ReadBool reads a one-byte boolean. Only 0 and 1 are accepted so that a
// re-encoded document stays bit-identical.
func (r *Reader) ReadBool() (bool, int, error) {
	if err := r.need(1, "bool"); err != nil {
		return false, 0, err
	}
	switch b := r.data[r.pos]; b {
	case 0, 1:
		r.pos++
		return b == 1, 1, nil
	default:
		return false, 0, fmt.Errorf("%w: bool byte 0x%02x at offset %d", ErrMalformedValue, b, r.pos)
	}
}

// ReadBytes reads n raw bytes. The returned slice is a copy.
func (r *Reader) ReadBytes(n int) ([]byte, int, error) {
	if err := r.need(n, "byte blob"); err != nil {
		return nil, 0, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, n, nil
}

// ReadFixedString reads n bytes of Windows-1251 text.
func (r *Reader) ReadFixedString(n int) (string, int, error) {
	if err := r.need(n, "string"); err != nil {
		return "", 0, err
	}
	s, err := r.decodeText(r.data[r.pos : r.pos+n])
	if err != nil {
		return "", 0, err
	}
	r.pos += n
	return s, n, nil
}

// decodeText converts raw Windows-1251 bytes read at the cursor.
func (r *Reader) decodeText(raw []byte) (string, error) {
	if !r.Strict {
		return encoding.Win1251ToUTF8(raw), nil
	}
	s, err := encoding.Win1251ToUTF8Strict(raw)
	if err != nil {
		return "", fmt.Errorf("%w: string at offset %d: %v", ErrInvalidEncoding, r.pos, err)
	}
	return s, nil
}

// ReadStringArray reads a u32 count followed by count length-prefixed strings.
func (r *Reader) ReadStringArray() ([]string, int, error) {
	start := r.pos
	count, read, err := r.ReadU32()
	if err != nil {
		return nil, 0, err
	}
	// Each entry needs at least its length prefix.
	if uint64(count)*u32Size > uint64(r.Remaining()) {
		r.pos = start
		return nil, 0, fmt.Errorf("%w: string array of %d entries at offset %d", ErrTruncatedInput, count, start)
	}
	out := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		length, n, err := r.ReadU32()
		if err != nil {
			r.pos = start
			return nil, 0, err
		}
		read += n
		s, n, err := r.ReadFixedString(int(length))
		if err != nil {
			r.pos = start
			return nil, 0, fmt.Errorf("string array entry %d: %w", i, err)
		}
		read += n
		out = append(out, s)
	}
	return out, read, nil
}

// ReadVec3 reads three floats.
func (r *Reader) ReadVec3() (math.Vec3, int, error) {
	if err := r.need(vec3Size, "vec3"); err != nil {
		return math.Vec3{}, 0, err
	}
	var v math.Vec3
	v.X, _, _ = r.ReadFloat32()
	v.Y, _, _ = r.ReadFloat32()
	v.Z, _, _ = r.ReadFloat32()
	return v, vec3Size, nil
}

// ReadQuat reads four floats in X, Y, Z, W order.
func (r *Reader) ReadQuat() (math.Quat, int, error) {
	if err := r.need(quatSize, "quaternion"); err != nil {
		return math.Quat{}, 0, err
	}
	var q math.Quat
	q.X, _, _ = r.ReadFloat32()
	q.Y, _, _ = r.ReadFloat32()
	q.Z, _, _ = r.ReadFloat32()
	q.W, _, _ = r.ReadFloat32()
	return q, quatSize, nil
}

// ReadEncryptedString reads an n-byte obfuscated text field: the cipher key
// followed by the encrypted Windows-1251 bytes.
func (r *Reader) ReadEncryptedString(n int) (string, CipherKey, int, error) {
	if n < cipherKeySize {
		return "", 0, 0, fmt.Errorf("%w: encrypted field of %d bytes at offset %d", ErrMissingCipherKey, n, r.pos)
	}
	if err := r.need(n, "encrypted string"); err != nil {
		return "", 0, 0, err
	}
	key := CipherKey(binary.LittleEndian.Uint32(r.data[r.pos:]))
	s, err := r.decodeText(Decrypt(r.data[r.pos+cipherKeySize:r.pos+n], key))
	if err != nil {
		return "", 0, 0, err
	}
	r.pos += n
	return s, key, n, nil
}

// ReadDiplomacy reads a diplomacy matrix stored as an array of digit rows.
func (r *Reader) ReadDiplomacy() (Diplomacy, int, error) {
	start := r.pos
	rows, n, err := r.ReadStringArray()
	if err != nil {
		return nil, 0, err
	}
	d, err := parseDiplomacyRows(rows)
	if err != nil {
		r.pos = start
		return nil, 0, fmt.Errorf("%w at offset %d", err, start)
	}
	return d, n, nil
}
