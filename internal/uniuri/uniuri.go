package uniuri

import (
	"crypto/rand"
)

const (
	// PasswordLen is the length of generated passwords, about 95 bits of entropy.
	PasswordLen = 16
	// SuffixLen is the length of slug suffixes.
	SuffixLen = 6

	// byteRange is the total number of possible byte values (2^8).
	byteRange = 256
	// maxBufLen is the maximum length of a temporary buffer for random bytes.
	maxBufLen = 2048
)

var (
	// PasswordChars are the characters of generated passwords.
	PasswordChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")
	// SlugChars are the characters allowed in a slug suffix.
	SlugChars = []byte("abcdefghijklmnopqrstuvwxyz0123456789")
)

// Password returns a random password for accounts created without one.
func Password() string {
	return NewLenChars(PasswordLen, PasswordChars)
}

// Suffix returns a random lowercase suffix for making slugs unique.
func Suffix() string {
	return NewLenChars(SuffixLen, SlugChars)
}

// NewLenChars returns a random string of the given length drawn from chars (2 to 256 characters).
// Bytes that would bias the modulo are rejected.
func NewLenChars(length int, chars []byte) string {
	if length <= 0 {
		return ""
	}

	clen := len(chars)
	if clen < 2 || clen > byteRange {
		panic("uniuri: wrong charset length for NewLenChars")
	}

	maxRb := byteRange - 1 - (byteRange % clen)

	bufLen := length * 2
	if bufLen > maxBufLen {
		bufLen = maxBufLen
	}

	buf := make([]byte, bufLen)
	out := make([]byte, 0, length)

	for {
		if _, err := rand.Read(buf); err != nil {
			panic("uniuri: error reading random bytes: " + err.Error())
		}

		for _, rb := range buf {
			c := int(rb)
			if c > maxRb {
				continue
			}

			out = append(out, chars[c%clen])
			if len(out) == length {
				return string(out)
			}
		}
	}
}
