package mob

import (
	"bytes"
	"testing"
	"testing/quick"
)

func TestKeystream(t *testing.T) {
	tests := []struct {
		name string
		key  CipherKey
		in   []byte
		want []byte
	}{
		{"zero key", 0, []byte{0, 0, 0, 0}, []byte{0x26, 0x27, 0xF6, 0x85}},
		{"hello", 0x12345678, []byte("hello"), []byte{0x81, 0x5A, 0x61, 0xCD, 0xF9}},
		{"empty", 42, []byte{}, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encrypt(tt.in, tt.key)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encrypt() = % x, want % x", got, tt.want)
			}
			if back := Decrypt(got, tt.key); !bytes.Equal(back, tt.in) {
				t.Errorf("Decrypt(Encrypt()) = % x, want % x", back, tt.in)
			}
		})
	}
}

func TestCipherInvertible(t *testing.T) {
	f := func(data []byte, key uint32) bool {
		enc := Encrypt(data, CipherKey(key))
		return len(enc) == len(data) && bytes.Equal(Decrypt(enc, CipherKey(key)), data)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestEncryptDoesNotModifyInput(t *testing.T) {
	in := []byte("script")
	Encrypt(in, 7)
	if string(in) != "script" {
		t.Errorf("input modified: %q", in)
	}
}

func TestEncryptedRecordRoundTrip(t *testing.T) {
	w := NewWriter()
	w.EncryptedStringRecord(TagScript, "Привет, мир", 0xDEADBEEF)
	r := NewReader(w.Bytes())

	h, _, err := r.ReadHeader()
	if err != nil {
		t.Fatal(err)
	}
	s, key, n, err := r.ReadEncryptedString(int(h.Length))
	if err != nil {
		t.Fatalf("ReadEncryptedString() error = %v", err)
	}
	if s != "Привет, мир" || key != 0xDEADBEEF || n != int(h.Length) {
		t.Errorf("ReadEncryptedString() = %q, %#x, %d", s, key, n)
	}
}
