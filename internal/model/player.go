package model

import "github.com/google/uuid"

// Players holds the ids seated at each color; empty means the seat is free.
type Players struct {
	White string `json:"white"`
	Black string `json:"black"`
}

func (p Players) ColorOf(playerID string) (Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case p.White == playerID:
		return White, true
	case p.Black == playerID:
		return Black, true
	}
	return "", false
}

// NewPlayerID returns a fresh opaque player id.
func NewPlayerID() string {
	return uuid.New().String()
}

// ValidPlayerID reports whether id is a well-formed player id.
func ValidPlayerID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
