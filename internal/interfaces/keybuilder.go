package interfaces

import "time"

// KeyBuilder maps route inputs into deterministic cache keys
type KeyBuilder interface {
	// Currencies returns the constant key of the currency list
	Currencies() string
	// Latest returns the hour bucket key for now
	Latest(now time.Time) string
	// Historical returns the key of a historical rates date
	Historical(date string) string
}
