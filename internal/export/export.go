// Package export writes the full short URL collection to files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/serroba/shorturl-console/internal/shortener"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatJSON}

// ParseFormat resolves a format name, ignoring case.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if !lo.Contains(Formats, f) {
		return "", fmt.Errorf("%w: unknown export format %q", shortener.ErrValidation, name)
	}

	return f, nil
}

// Write encodes urls in the given format.
func Write(w io.Writer, format Format, urls []shortener.ShortURL) error {
	switch format {
	case FormatCSV:
		return CSV(w, urls)
	case FormatJSON:
		return JSON(w, urls)
	default:
		return fmt.Errorf("%w: unknown export format %q", shortener.ErrValidation, format)
	}
}

var csvHeader = []string{"Name", "Short URL", "Original URL", "Creation date"}

// CSV writes one row per link with a header row.
func CSV(w io.Writer, urls []shortener.ShortURL) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, u := range urls {
		row := []string{u.Name, u.ShortLink, u.LongURL, u.CreatedAt.Format(time.DateOnly)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

type record struct {
	ID        string     `json:"_id"`
	ShortID   string     `json:"shortId"`
	Name      string     `json:"name"`
	LongURL   string     `json:"longUrl"`
	ShortURL  string     `json:"shortUrl"`
	Clicks    int64      `json:"clicks"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	UserID    string     `json:"userId,omitempty"`
	UserName  string     `json:"userName,omitempty"`
}

// JSON writes every field of every link as an indented array.
func JSON(w io.Writer, urls []shortener.ShortURL) error {
	records := lo.Map(urls, func(u shortener.ShortURL, _ int) record {
		return record{
			ID:        u.ID,
			ShortID:   string(u.Code),
			Name:      u.Name,
			LongURL:   u.LongURL,
			ShortURL:  u.ShortLink,
			Clicks:    u.Visits,
			CreatedAt: u.CreatedAt,
			ExpiresAt: u.ExpiresAt,
			UserID:    u.Owner.ID,
			UserName:  u.Owner.Name,
		}
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(records)
}
