package id

import "github.com/google/uuid"

// NewUUIDv7 returns a time-ordered UUID string. Falls back to a random
// UUIDv4 in the unlikely event that v7 generation fails.
func NewUUIDv7() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}
