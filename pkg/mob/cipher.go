package mob

// CipherKey seeds the keystream that obfuscates the script text. It is stored
// in the document next to the text it protects and is never derived from the
// content. Decrypting with the wrong key yields garbage; the format has no
// integrity check.
type CipherKey uint32

// keystream is the linear congruential generator the game uses for its
// script obfuscation.
type keystream struct {
	state uint32
}

func (k *keystream) next() byte {
	k.state = k.state*214013 + 2531011
	return byte(k.state >> 16)
}

// Decrypt returns data XORed with the keystream of key.
func Decrypt(data []byte, key CipherKey) []byte {
	out := make([]byte, len(data))
	ks := keystream{state: uint32(key)}
	for i, b := range data {
		out[i] = b ^ ks.next()
	}
	return out
}

// Encrypt is the inverse of Decrypt. The transform is an involution, so both
// directions share the implementation.
func Encrypt(data []byte, key CipherKey) []byte {
	return Decrypt(data, key)
}
