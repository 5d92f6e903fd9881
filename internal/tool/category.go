package tool

import (
	"fmt"
	"strings"
)

// Category is the stored label of one of the fixed directory categories.
type Category string

const (
	CategoryChat         Category = "Chat & Conversation"
	CategoryWriting      Category = "Writing & Content"
	CategoryImageDesign  Category = "Image & Design"
	CategoryCoding       Category = "Coding & Developer Tools"
	CategoryProductivity Category = "Productivity & Workflow"
	CategoryVoiceAudio   Category = "Voice & Audio"
	CategoryVideo        Category = "Video & Animation"
	CategoryData         Category = "Data & Analytics"
	CategoryFinance      Category = "Finance & Crypto"
	CategoryEducation    Category = "Education & Learning"
	CategoryMarketing    Category = "Marketing & SEO"
	CategoryHealthcare   Category = "Healthcare & Wellness"
	CategoryDeveloperAPI Category = "Developer APIs & Models"
	CategorySecurity     Category = "Security & Legal"
	CategoryExperimental Category = "Experimental & Research Projects"
)

var categorySlugs = []struct {
	category Category
	slug     string
}{
	{CategoryChat, "chat"},
	{CategoryWriting, "writing"},
	{CategoryImageDesign, "image-design"},
	{CategoryCoding, "coding"},
	{CategoryProductivity, "productivity"},
	{CategoryVoiceAudio, "voice-audio"},
	{CategoryVideo, "video-animation"},
	{CategoryData, "data-analytics"},
	{CategoryFinance, "finance-crypto"},
	{CategoryEducation, "education-learning"},
	{CategoryMarketing, "marketing-seo"},
	{CategoryHealthcare, "healthcare-wellness"},
	{CategoryDeveloperAPI, "developer-apis"},
	{CategorySecurity, "security-legal"},
	{CategoryExperimental, "experimental-research"},
}

// Categories returns the enumerated categories in display order.
func Categories() []Category {
	out := make([]Category, len(categorySlugs))
	for i, c := range categorySlugs {
		out[i] = c.category
	}
	return out
}

// Slug returns the URL slug of the category, or "" for unknown labels.
func (c Category) Slug() string {
	for _, cs := range categorySlugs {
		if cs.category == c {
			return cs.slug
		}
	}
	return ""
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	return c.Slug() != ""
}

// ParseCategory accepts a label or a slug, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, cs := range categorySlugs {
		if strings.EqualFold(string(cs.category), s) || strings.EqualFold(cs.slug, s) {
			return cs.category, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}
