package tool

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a tool is not found.
var ErrNotFound = errors.New("tool not found")

// Tool represents a listed AI agent or model.
type Tool struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	WebsiteURL  string    `json:"website_url"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Category    Category  `json:"category"`
	Tags        []string  `json:"tags"`
	Pricing     Pricing   `json:"pricing_type"`
	TrendScore  *float64  `json:"trend_score,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	Users       string    `json:"users,omitempty"`
	HasAPI      bool      `json:"has_api"`
	IsTrending  bool      `json:"is_trending"`
	CreatedAt   time.Time `json:"created_at"`
}

// Score returns the popularity score, treating a missing score as zero.
func (t Tool) Score() float64 {
	if t.TrendScore == nil {
		return 0
	}
	return *t.TrendScore
}

// Order selects the ordering of a read query.
type Order string

const (
	OrderRecent Order = "recent"
	OrderScore  Order = "score"
)

// ParseOrder maps a query-string value to an Order, defaulting to OrderRecent.
func ParseOrder(s string) Order {
	switch Order(s) {
	case OrderScore:
		return OrderScore
	default:
		return OrderRecent
	}
}

// Query defines filters and pagination for listing tools.
type Query struct {
	Category     Category
	TrendingOnly bool
	Order        Order
	Limit        int
	// Cursor continues an OrderRecent listing after the given row.
	Cursor CursorData
}

// LegacyPricingRow is a row still carrying the boolean free flag.
type LegacyPricingRow struct {
	ID     string
	IsFree bool
}
