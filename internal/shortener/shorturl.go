package shortener

import (
	"strings"
	"time"
)

// Code represents a short URL code, the routing key visitors use.
type Code string

// Owner references the user a short URL belongs to.
type Owner struct {
	ID   string
	Name string
}

// ShortURL represents a shortened URL as returned by the remote API.
type ShortURL struct {
	ID        string
	Code      Code
	Name      string
	LongURL   string
	ShortLink string // fully qualified short URL, as served by the API
	CreatedAt time.Time
	ExpiresAt *time.Time // nil when the link never expires
	Visits    int64
	Owner     Owner
}

// MatchesName reports whether the name contains query, ignoring case.
func (u *ShortURL) MatchesName(query string) bool {
	return strings.Contains(strings.ToLower(u.Name), strings.ToLower(query))
}

// IsExpired reports whether the link has expired at the given time.
func (u *ShortURL) IsExpired(now time.Time) bool {
	if u.ExpiresAt == nil {
		return false
	}

	return now.After(*u.ExpiresAt)
}

// VisitorLogEntry is a single access record for one short URL.
type VisitorLogEntry struct {
	Accepted   bool
	VisitorIP  string
	AccessedAt time.Time
	UserAgent  string
}
