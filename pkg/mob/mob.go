// Package mob implements the tagged record container used by Evil Islands
// world object database (.mob) files.
//
// A file is a sequence of records. Every record starts with a header:
//
//	u8     tag length
//	[]byte tag (ASCII identifier)
//	u32    declared payload length (little-endian)
//
// followed by the payload, which is either nested records (a section) or raw
// typed data (a leaf). There is no end marker: a reader walking a section stops
// at the first tag it does not expect and hands control back to the enclosing
// section.
//
// Every read and write reports the number of bytes it consumed or produced so
// callers can check them against the declared lengths.
package mob

const (
	tagLenSize    = 1
	lengthSize    = 4
	u32Size       = 4
	float32Size   = 4
	vec3Size      = 3 * float32Size
	quatSize      = 4 * float32Size
	cipherKeySize = 4
)

// Header is the framing of one record.
type Header struct {
	Tag    Tag
	Length uint32 // declared payload length
}

// Size returns the number of bytes the header occupies on the wire.
func (h Header) Size() int {
	return HeaderSize(h.Tag)
}

// HeaderSize returns the wire size of a header carrying tag.
func HeaderSize(tag Tag) int {
	return tagLenSize + len(tag) + lengthSize
}
