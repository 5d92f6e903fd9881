// Package directory serves the read side of the tool directory: trending and
// recent strips, category counts, featured categories and category listings.
// Each section keeps its last good result so an upstream failure degrades to
// stale data.
package directory

import (
	"errors"
	"strings"

	"agentzone/internal/ranking"
	"agentzone/internal/tool"
)

// Sections, also used as stale-metric labels.
const (
	SectionTrending   = "trending"
	SectionRecent     = "recent"
	SectionCategories = "categories"
	SectionFeatured   = "featured"
	SectionCategory   = "category"
)

// ErrUnknownFilter is returned for a listing filter chip that does not exist.
var ErrUnknownFilter = errors.New("unknown filter")

// CategoryCount is one row of the category index.
type CategoryCount struct {
	Category tool.Category `json:"category"`
	Slug     string        `json:"slug"`
	Count    int           `json:"count"`
}

// Filter is one of the chips above a category listing.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterFree     Filter = "free"
	FilterPaid     Filter = "paid"
	FilterFreemium Filter = "freemium"
	FilterAPI      Filter = "api"
)

// Filters lists the accepted chip values in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterFree, FilterPaid, FilterFreemium, FilterAPI}
}

// ParseFilter maps a query value to a Filter. Empty means FilterAll.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range Filters() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", ErrUnknownFilter
}

// Criteria translates the chip and a search term into ranking criteria.
func (f Filter) Criteria(term string) ranking.Criteria {
	c := ranking.Criteria{Term: term}
	switch f {
	case FilterFree:
		c.Pricing = ptr(tool.PricingFree)
	case FilterPaid:
		c.Pricing = ptr(tool.PricingPaid)
	case FilterFreemium:
		c.Pricing = ptr(tool.PricingFreemium)
	case FilterAPI:
		c.HasAPI = ptr(true)
	}
	return c
}

// Page is a window over a filtered category listing.
type Page struct {
	Tools      []tool.Tool `json:"tools"`
	Total      int         `json:"total"`
	Offset     int         `json:"offset"`
	NextOffset *int        `json:"next_offset,omitempty"`
}

// Paginate returns list[offset:offset+size] with the offset of the following
// window, if any.
func Paginate(list []tool.Tool, offset, size int) Page {
	offset = max(offset, 0)
	p := Page{Tools: []tool.Tool{}, Total: len(list), Offset: offset}
	if size <= 0 || offset >= len(list) {
		return p
	}
	end := min(offset+size, len(list))
	p.Tools = list[offset:end]
	if end < len(list) {
		p.NextOffset = &end
	}
	return p
}

func ptr[T any](v T) *T { return &v }
