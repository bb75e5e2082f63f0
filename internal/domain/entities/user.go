package entities

import "math"

// AnonymousUserID is the key used for progress rows of users who are not signed in.
const AnonymousUserID int64 = 0

// UserRef returns a pointer to id, or nil for the anonymous user.
func UserRef(id int64) *int64 {
	if id == AnonymousUserID {
		return nil
	}
	return &id
}

// Percent returns round(100 * part / whole), or 0 when whole is not positive.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
