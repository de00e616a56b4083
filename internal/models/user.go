package models

import "regexp"

// User represents a participant in the auction
type User struct {
	UserID string `json:"user_id"`
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,16}$`)

// IsValidUsername reports whether name is 3-16 letters, digits or underscores
func IsValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}
