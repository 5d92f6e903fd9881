package ranking

import (
	"cmp"
	"slices"
	"strings"

	"agentzone/internal/tool"
)

// TopByScore returns the n highest-scoring tools, highest first. Equal scores
// keep their input order. A missing score ranks as zero.
func TopByScore(list []tool.Tool, n int) []tool.Tool {
	if n <= 0 {
		return []tool.Tool{}
	}
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b tool.Tool) int {
		return cmp.Compare(b.Score(), a.Score())
	})
	return sorted[:min(n, len(sorted))]
}

// SortByName returns a copy of list ordered by case-insensitive name. Use it
// before GroupByCategory when category ties must not depend on fetch order.
func SortByName(list []tool.Tool) []tool.Tool {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b tool.Tool) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return sorted
}

// Thresholds configure the highlight badges.
type Thresholds struct {
	AgentOfTheDay float64
	HotTrending   float64
}

// IsAgentOfTheDay reports a score strictly above the agent-of-the-day threshold.
func (th Thresholds) IsAgentOfTheDay(t tool.Tool) bool {
	return t.Score() > th.AgentOfTheDay
}

func (th Thresholds) IsHotTrending(t tool.Tool) bool {
	return t.Score() > th.HotTrending
}

// Ranked is a tool annotated with its highlight badges.
type Ranked struct {
	tool.Tool
	AgentOfTheDay bool `json:"agent_of_the_day"`
	HotTrending   bool `json:"hot_trending"`
}

// Annotate attaches badges to each tool without reordering.
func (th Thresholds) Annotate(list []tool.Tool) []Ranked {
	out := make([]Ranked, len(list))
	for i, t := range list {
		out[i] = Ranked{
			Tool:          t,
			AgentOfTheDay: th.IsAgentOfTheDay(t),
			HotTrending:   th.IsHotTrending(t),
		}
	}
	return out
}
