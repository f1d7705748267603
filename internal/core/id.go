package core

import "github.com/google/uuid"

// NewID generates a new random identifier suitable for a Season, Game,
// or server seed. Callers cast it to the appropriate typed ID string.
func NewID() string {
	return uuid.NewString()
}
