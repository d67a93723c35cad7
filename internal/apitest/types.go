package apitest

import (
	"encoding/json"
	"time"
)

type userBody struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type urlBody struct {
	ID        string     `doc:"Resource identifier"             json:"_id"`
	LongURL   string     `doc:"Target URL"                      json:"longUrl"`
	ShortID   string     `doc:"Short code"                      json:"shortId"`
	Clicks    int64      `doc:"Accepted visits"                 json:"clicks"`
	Name      string     `doc:"Display name"                    json:"name"`
	User      userBody   `doc:"Owner"                           json:"user"`
	CreatedAt time.Time  `doc:"Creation time"                   json:"createdAt"`
	ShortURL  string     `doc:"Fully qualified short URL"       json:"shortUrl"`
	ExpiresAt *time.Time `doc:"Expiration time, absent if none" json:"expiresAt,omitempty"`
}

// urlInput is decoded by hand so a missing expiresAt and an explicit null stay distinguishable.
type urlInput struct {
	LongURL   string          `json:"longUrl"`
	Name      string          `json:"name"`
	ExpiresAt json.RawMessage `json:"expiresAt"`
}

type listURLsRequest struct {
	Fingerprint string `doc:"Visitor fingerprint" header:"X-Fingerprint" required:"true"`
}

type listURLsResponse struct {
	Body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Success bool   `json:"success"`
		Data []urlBody `json:"data"`
	}
}

type writeURLRequest struct {
	Fingerprint string `doc:"Visitor fingerprint" header:"X-Fingerprint" required:"true"`
	RawBody []byte
}

type updateURLRequest struct {
	Fingerprint string `doc:"Visitor fingerprint" header:"X-Fingerprint" required:"true"`
	Code    string `doc:"Short code" path:"code"`
	RawBody []byte
}

type urlResponse struct {
	Body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Success bool   `json:"success"`
		Data urlBody `json:"data"`
	}
}

type deleteURLRequest struct {
	Fingerprint string `doc:"Visitor fingerprint" header:"X-Fingerprint" required:"true"`
	Code string `doc:"Short code" path:"code"`
}

type logsRequest struct {
	Fingerprint string `doc:"Visitor fingerprint" header:"X-Fingerprint" required:"true"`
	ID    string `doc:"Resource identifier" path:"id"`
	Page  int    `default:"1"              doc:"Page number" minimum:"1"   query:"page"`
	Limit int    `default:"10"             doc:"Page size"   maximum:"100" minimum:"1" query:"limit"`
}

type visitorBody struct {
	Status    bool      `json:"Status"`
	VisitorIP string    `json:"visitorIP"`
	CreatedAt time.Time `json:"createdAt"`
	Browser   string    `json:"browser"`
}

type paginationBody struct {
	Total      int `json:"total"`
	Limit      int `json:"limit"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

type logsResponse struct {
	Body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Success bool   `json:"success"`
		Data       []visitorBody  `json:"data"`
		Pagination paginationBody `json:"pagination"`
	}
}

type redirectRequest struct {
	Code string `doc:"Short code" path:"code"`
}

type redirectResponse struct {
	Status   int
	Location string `header:"Location"`
}
