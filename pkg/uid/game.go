package uid

import "github.com/google/uuid"

// GenerateGameID returns a random, hard to guess game id
func GenerateGameID() string {
	return uuid.NewString()
}
