package blog

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when neither slug nor id matches a post.
var ErrNotFound = errors.New("blog post not found")

type Post struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content,omitempty"`
	Slug            string    `json:"slug"`
	ImageURL        *string   `json:"image_url,omitempty"`
	Author          string    `json:"author,omitempty"`
	Tags            string    `json:"tags,omitempty"`
	MetaTitle       string    `json:"meta_title,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// TagList splits the free-text tags field on commas for display.
func (p Post) TagList() []string {
	var out []string
	for _, tag := range strings.Split(p.Tags, ",") {
		if t := strings.TrimSpace(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SEOTitle falls back to the post title when no meta title is set.
func (p Post) SEOTitle() string {
	if p.MetaTitle != "" {
		return p.MetaTitle
	}
	return p.Title
}

// Summary is the carousel projection of a post.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
