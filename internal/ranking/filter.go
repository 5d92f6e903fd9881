// Package ranking holds the pure list operations behind the directory pages:
// search filtering, score ordering and category aggregation. Nothing here
// performs I/O or mutates its input.
package ranking

import (
	"strings"

	"agentzone/internal/tool"
)

// Criteria narrows a list of tools. The zero value matches everything.
type Criteria struct {
	// Term is matched case-insensitively, as given, against name, description
	// and tags. Callers decide whether to trim it.
	Term    string
	Pricing *tool.Pricing
	HasAPI  *bool
}

// IsZero reports whether c matches every tool.
func (c Criteria) IsZero() bool {
	return c.Term == "" && c.Pricing == nil && c.HasAPI == nil
}

// Matches reports whether t satisfies every supplied condition.
func (c Criteria) Matches(t tool.Tool) bool {
	if c.Pricing != nil && t.Pricing != *c.Pricing {
		return false
	}
	if c.HasAPI != nil && t.HasAPI != *c.HasAPI {
		return false
	}
	term := strings.ToLower(c.Term)
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Name), term) ||
		strings.Contains(strings.ToLower(t.Description), term) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Filter returns the tools matching c in their original relative order.
// The result never aliases the input.
func Filter(list []tool.Tool, c Criteria) []tool.Tool {
	out := make([]tool.Tool, 0, len(list))
	for _, t := range list {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
