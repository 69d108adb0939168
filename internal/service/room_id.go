package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

const roomIDLength = 6

var roomIDAlphabet = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// NewRoomID returns a random 6-character uppercase alphanumeric id.
func NewRoomID() (string, error) {
	return newRoomID(rand.Reader)
}

// newRoomID draws uniformly from the alphabet. Bytes at or above the largest
// multiple of the alphabet size are discarded so no character is favored.
func newRoomID(src io.Reader) (string, error) {
	limit := 256 - 256%len(roomIDAlphabet)
	b := make([]byte, 0, roomIDLength)
	rnd := make([]byte, roomIDLength)
	for len(b) < roomIDLength {
		if _, err := io.ReadFull(src, rnd); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, r := range rnd {
			if int(r) >= limit {
				continue
			}
			b = append(b, roomIDAlphabet[int(r)%len(roomIDAlphabet)])
			if len(b) == roomIDLength {
				break
			}
		}
	}
	return string(b), nil
}

// NormalizeRoomID trims and upper-cases a client-supplied id.
func NormalizeRoomID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func ValidRoomID(id string) bool {
	if len(id) != roomIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
