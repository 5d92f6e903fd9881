package ranking

import (
	"cmp"
	"slices"

	"agentzone/internal/tool"
)

// Groups maps each category to its members in input order. Order records the
// categories in first-encounter order.
type Groups struct {
	Order   []tool.Category
	Members map[tool.Category][]tool.Tool
}

// CategoryGroup is one ranked category.
type CategoryGroup struct {
	Category tool.Category `json:"category"`
	Slug     string        `json:"slug"`
	Count    int           `json:"count"`
	Tools    []tool.Tool   `json:"tools"`
}

// GroupByCategory partitions list by category, preserving relative order.
func GroupByCategory(list []tool.Tool) Groups {
	g := Groups{Members: make(map[tool.Category][]tool.Tool)}
	for _, t := range list {
		if _, seen := g.Members[t.Category]; !seen {
			g.Order = append(g.Order, t.Category)
		}
		g.Members[t.Category] = append(g.Members[t.Category], t)
	}
	return g
}

// RankCategories orders categories by member count, largest first, and keeps
// at most limit of them. Ties go to the category encountered first. Each group
// carries all of its members; trim them with TakeTop.
func RankCategories(g Groups, limit int) []CategoryGroup {
	if limit <= 0 {
		return []CategoryGroup{}
	}
	out := make([]CategoryGroup, 0, len(g.Order))
	for _, c := range g.Order {
		members := g.Members[c]
		out = append(out, CategoryGroup{
			Category: c,
			Slug:     c.Slug(),
			Count:    len(members),
			Tools:    members,
		})
	}
	slices.SortStableFunc(out, func(a, b CategoryGroup) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out[:min(limit, len(out))]
}

// TakeTop returns the first k elements of list, or all of them when shorter.
func TakeTop[T any](list []T, k int) []T {
	if k <= 0 {
		return []T{}
	}
	return slices.Clone(list[:min(k, len(list))])
}
