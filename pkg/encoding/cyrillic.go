// Package encoding provides text encoding utilities for Evil Islands file formats.
package encoding

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrUnmappable is returned by the strict conversions when a byte or rune has
// no counterpart in the Windows-1251 code page.
var ErrUnmappable = errors.New("text not representable in Windows-1251")

// Win1251ToUTF8 converts Windows-1251 encoded bytes to a UTF-8 string.
// Returns the bytes as-is if conversion fails.
func Win1251ToUTF8(data []byte) string {
	result, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToWin1251 converts a UTF-8 string to Windows-1251 bytes.
// Runes outside the code page are replaced with the SUB control byte.
func UTF8ToWin1251(s string) []byte {
	encoder := encoding.ReplaceUnsupported(charmap.Windows1251.NewEncoder())
	result, _, err := transform.Bytes(encoder, []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// Win1251ToUTF8Strict is like Win1251ToUTF8 but fails when any byte decodes
// to the replacement character.
func Win1251ToUTF8Strict(data []byte) (string, error) {
	result, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	if strings.ContainsRune(string(result), utf8.RuneError) {
		return "", ErrUnmappable
	}
	return string(result), nil
}

// UTF8ToWin1251Strict is like UTF8ToWin1251 but fails instead of replacing.
func UTF8ToWin1251Strict(s string) ([]byte, error) {
	result, _, err := transform.Bytes(charmap.Windows1251.NewEncoder(), []byte(s))
	if err != nil {
		return nil, ErrUnmappable
	}
	return result, nil
}
