package model

import "time"

// User is a resident of the community. Only the fields the dispatch core
// touches are modeled here; registration and profile management live in a
// separate service.
type User struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	RtRw      string    `json:"rt_rw,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the name to show on alarm events, or "Anonymous"
// for a missing reporter.
func DisplayName(u *User) string {
	if u == nil || u.FullName == "" {
		return "Anonymous"
	}
	return u.FullName
}

// DisplayPhone returns the reporter phone for alarm events, or "N/A".
func DisplayPhone(u *User) string {
	if u == nil || u.Phone == "" {
		return "N/A"
	}
	return u.Phone
}
