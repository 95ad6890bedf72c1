package util

import "github.com/google/uuid"

// KeySuffix returns a short random hex suffix for storage keys.
func KeySuffix() string {
	return uuid.New().String()[:8]
}
