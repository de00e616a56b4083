package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns a new unique identifier string
func GenerateID() string {
	return uuid.New().String()
}

// ShortID returns the first group of a fresh identifier, enough to tell
// live connections apart in logs
func ShortID() string {
	id, _, _ := strings.Cut(GenerateID(), "-")
	return id
}
