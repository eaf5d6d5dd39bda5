package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ListingID is the opaque listing identifier. The backend may hand it out as
// a JSON number (bigint identity column) or as a string.
type ListingID string

// UnmarshalJSON accepts both numeric and string ids
func (id *ListingID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to parse listing id: %w", err)
		}
		*id = ListingID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to parse listing id: %w", err)
	}
	*id = ListingID(n.String())
	return nil
}

// MarshalJSON writes integer ids as numbers so they round-trip to bigint columns
func (id ListingID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ListingID) String() string { return string(id) }

// Compare orders ids numerically when both are integers, lexicographically otherwise.
func (id ListingID) Compare(other ListingID) int {
	a, errA := strconv.ParseInt(string(id), 10, 64)
	b, errB := strconv.ParseInt(string(other), 10, 64)
	if errA == nil && errB == nil {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	return strings.Compare(string(id), string(other))
}

// Images is a list of image URLs. Older rows store the list as a JSON-encoded string.
type Images []string

// UnmarshalJSON tolerates arrays, JSON strings holding arrays and null
func (im *Images) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*im = nil
		return nil
	}

	var raw []string
	if len(data) > 0 && data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		// Malformed embedded lists are treated as no images
		if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
			*im = nil
			return nil
		}
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Images, 0, len(raw))
	for _, uri := range raw {
		if strings.TrimSpace(uri) != "" {
			out = append(out, uri)
		}
	}
	*im = out
	return nil
}

// ListingSummary is a row of the listing feed
type ListingSummary struct {
	ID           ListingID `json:"id" db:"id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	Title        string    `json:"title" db:"title"`
	Make         string    `json:"make" db:"make"`
	Model        string    `json:"model" db:"model"`
	Description  string    `json:"description" db:"description"`
	Location     string    `json:"location" db:"location"`
	Price        *float64  `json:"price" db:"price"`
	Year         *int      `json:"year" db:"year"`
	Mileage      *int      `json:"mileage" db:"mileage"`
	FuelType     string    `json:"fuel_type" db:"fuel_type"`
	Transmission string    `json:"transmission" db:"transmission"`
	Doors        *int      `json:"doors" db:"doors"`
	Color        string    `json:"color" db:"color"`
	Images       Images    `json:"images" db:"-"`
}

// MainImage returns the first image URL, or "" when the listing has none
func (l ListingSummary) MainImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

// Listing is the full listing record used by the detail and publish screens
type Listing struct {
	ListingSummary
	UserID   string `json:"user_id,omitempty"`
	IsActive bool   `json:"is_active"`
}

// NewListing is the payload inserted when publishing
type NewListing struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Mileage      int     `json:"mileage"`
	FuelType     string  `json:"fuel_type"`
	Transmission string  `json:"transmission"`
	Doors        int     `json:"doors"`
	Color        string  `json:"color"`
	Location     string  `json:"location"`
	UserID       string  `json:"user_id"`
	IsActive     bool    `json:"is_active"`
}

// Profile aggregates what the profile screen shows about the signed-in user
type Profile struct {
	Name            string
	Email           string
	ProfileImageURL string
	Listings        []ListingSummary
}

// AvatarInitial returns the uppercase first letter of the name, falling back to the email
func (p Profile) AvatarInitial() string {
	source := strings.TrimSpace(p.Name)
	if source == "" {
		source = strings.TrimSpace(p.Email)
	}
	if source == "" {
		return "?"
	}
	r := []rune(source)
	return strings.ToUpper(string(r[0]))
}
