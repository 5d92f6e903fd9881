// Package feed assembles the home page from independent sections. Sections are
// loaded concurrently; one failing section never hides the others.
package feed

import (
	"context"

	"agentzone/internal/blog"
	"agentzone/internal/ranking"
	"agentzone/internal/snapshot"
	"agentzone/internal/tool"
)

const SectionPosts = "posts"

// Sections is the directory read side the home page draws from.
type Sections interface {
	Trending(ctx context.Context) (snapshot.Result[[]ranking.Ranked], error)
	Recent(ctx context.Context) (snapshot.Result[[]tool.Tool], error)
	Featured(ctx context.Context) (snapshot.Result[[]ranking.CategoryGroup], error)
}

type Posts interface {
	ListLatest(ctx context.Context, limit int) (snapshot.Result[[]blog.Summary], error)
}

// Home is the assembled home page. Every list is non-nil.
type Home struct {
	Trending  []ranking.Ranked        `json:"trending"`
	Recent    []tool.Tool             `json:"recent"`
	Featured  []ranking.CategoryGroup `json:"featured_categories"`
	Posts     []blog.Summary          `json:"latest_posts"`
	Spotlight *blog.Summary           `json:"spotlight,omitempty"`
}

// Report says which sections were served stale or left empty.
type Report struct {
	Stale       []string `json:"stale,omitempty"`
	Unavailable []string `json:"unavailable,omitempty"`
}

// trimTags caps the tags shown on each card. It copies, so cached lists are
// never modified.
func trimTags(list []tool.Tool, k int) []tool.Tool {
	out := make([]tool.Tool, len(list))
	for i, t := range list {
		t.Tags = ranking.TakeTop(t.Tags, k)
		out[i] = t
	}
	return out
}
