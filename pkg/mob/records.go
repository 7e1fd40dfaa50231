package mob

import "github.com/Grabarrz90/ei-maper/pkg/math"

// The helpers below write a complete leaf record (header and payload) and
// return the total bytes produced.

func (w *Writer) leaf(tag Tag, payload func() int) int {
	s, n := w.OpenSection(tag)
	n += payload()
	w.CloseSection(s)
	return n
}

// U32Record writes a uint32 leaf.
func (w *Writer) U32Record(tag Tag, v uint32) int {
	return w.leaf(tag, func() int { return w.WriteU32(v) })
}

// FloatRecord writes a float leaf.
func (w *Writer) FloatRecord(tag Tag, v float32) int {
	return w.leaf(tag, func() int { return w.WriteFloat32(v) })
}

// ByteRecord writes a one-byte leaf.
func (w *Writer) ByteRecord(tag Tag, v uint8) int {
	return w.leaf(tag, func() int { return w.WriteU8(v) })
}

// BoolRecord writes a boolean leaf.
func (w *Writer) BoolRecord(tag Tag, v bool) int {
	return w.leaf(tag, func() int { return w.WriteBool(v) })
}

// StringRecord writes a text leaf.
func (w *Writer) StringRecord(tag Tag, s string) int {
	return w.leaf(tag, func() int { return w.WriteFixedString(s) })
}

// StringArrayRecord writes a string array leaf.
func (w *Writer) StringArrayRecord(tag Tag, items []string) int {
	return w.leaf(tag, func() int { return w.WriteStringArray(items) })
}

// Vec3Record writes a vector leaf.
func (w *Writer) Vec3Record(tag Tag, v math.Vec3) int {
	return w.leaf(tag, func() int { return w.WriteVec3(v) })
}

// QuatRecord writes a quaternion leaf.
func (w *Writer) QuatRecord(tag Tag, q math.Quat) int {
	return w.leaf(tag, func() int { return w.WriteQuat(q) })
}

// BytesRecord writes an opaque blob leaf.
func (w *Writer) BytesRecord(tag Tag, data []byte) int {
	return w.leaf(tag, func() int { return w.WriteBytes(data) })
}

// EncryptedStringRecord writes an obfuscated text leaf.
func (w *Writer) EncryptedStringRecord(tag Tag, s string, key CipherKey) int {
	return w.leaf(tag, func() int { return w.WriteEncryptedString(s, key) })
}

// DiplomacyRecord writes a diplomacy matrix leaf.
func (w *Writer) DiplomacyRecord(tag Tag, d Diplomacy) int {
	return w.leaf(tag, func() int { return w.WriteDiplomacy(d) })
}
