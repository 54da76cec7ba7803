package utils

import "github.com/google/uuid"

// GenerateID generates a random ID for entities
func GenerateID() string {
	return uuid.NewString()
}

// IsValidID reports whether id parses as a UUID
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
