package shortener

import "time"

type expiryMode int

const (
	expiryKeep expiryMode = iota
	expiryClear
	expirySet
)

// Expiry is a requested change to a link's expiration.
// The zero value keeps whatever the server currently has.
type Expiry struct {
	mode expiryMode
	at   time.Time
}

// KeepExpiry requests no change to the expiration.
func KeepExpiry() Expiry {
	return Expiry{mode: expiryKeep}
}

// ClearExpiry requests that the expiration be removed.
func ClearExpiry() Expiry {
	return Expiry{mode: expiryClear}
}

// ExpireAt requests a new expiration time.
func ExpireAt(t time.Time) Expiry {
	return Expiry{mode: expirySet, at: t}
}

// ExpiryFrom maps an optional time onto Expiry: nil keeps, non-nil sets.
func ExpiryFrom(t *time.Time) Expiry {
	if t == nil {
		return KeepExpiry()
	}

	return ExpireAt(*t)
}

func (e Expiry) IsKeep() bool  { return e.mode == expiryKeep }
func (e Expiry) IsClear() bool { return e.mode == expiryClear }

// Time returns the requested expiration and true when a new value was set.
func (e Expiry) Time() (time.Time, bool) {
	return e.at, e.mode == expirySet
}
