package mob

import "encoding/binary"

// rec builds one raw record: header followed by payload.
func rec(tag string, payload ...byte) []byte {
	out := []byte{byte(len(tag))}
	out = append(out, tag...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	return append(out, payload...)
}

// section wraps already encoded children into a section record.
func section(tag string, children ...[]byte) []byte {
	var payload []byte
	for _, c := range children {
		payload = append(payload, c...)
	}
	return rec(tag, payload...)
}

func u32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
