package urls

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/serroba/shorturl-console/internal/shortener"
)

type wireUser struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts either a populated user object or a bare user id.
func (u *wireUser) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		return json.Unmarshal(data, &u.ID)
	}

	type plain wireUser

	return json.Unmarshal(data, (*plain)(u))
}

type wireURL struct {
	ID        string     `json:"_id"       validate:"required"`
	ShortID   string     `json:"shortId"   validate:"required"`
	Name      string     `json:"name"`
	LongURL   string     `json:"longUrl"   validate:"required"`
	ShortURL  string     `json:"shortUrl"`
	Clicks    int64      `json:"clicks"    validate:"gte=0"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
	User      wireUser   `json:"user"`
}

func (w wireURL) toDomain() shortener.ShortURL {
	return shortener.ShortURL{
		ID:        w.ID,
		Code:      shortener.Code(w.ShortID),
		Name:      w.Name,
		LongURL:   w.LongURL,
		ShortLink: w.ShortURL,
		CreatedAt: w.CreatedAt,
		ExpiresAt: w.ExpiresAt,
		Visits:    w.Clicks,
		Owner:     shortener.Owner{ID: w.User.ID, Name: w.User.Name},
	}
}

type listEnvelope struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    []wireURL `json:"data" validate:"dive"`
}

type itemEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *wireURL `json:"data" validate:"required"`
}

type createRequest struct {
	LongURL   string     `json:"longUrl"`
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// updateBody builds the update payload. Expiry is tri-state: keep omits the
// field, clear sends an explicit null and set sends the timestamp.
func updateBody(longURL, name string, expiry shortener.Expiry) map[string]any {
	body := map[string]any{
		"longUrl": longURL,
		"name":    name,
	}

	switch {
	case expiry.IsClear():
		body["expiresAt"] = nil
	case !expiry.IsKeep():
		if at, ok := expiry.Time(); ok {
			body["expiresAt"] = at.UTC().Format(time.RFC3339)
		}
	}

	return body
}
