// Package submission accepts new tool entries from the public form and the
// admin form. Input is validated before any network write, and an entry is
// only persisted once its image, if any, is safely stored.
package submission

import (
	"errors"
	"strings"

	"agentzone/internal/tool"
)

// ErrUploadFailed wraps every image storage failure. No tool row exists when
// it is returned.
var ErrUploadFailed = errors.New("image upload failed")

// MaxDescription is the description cap in characters.
const MaxDescription = 250

// Input is a tool submission before it is stored.
type Input struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"required,max=250"`
	WebsiteURL  string   `json:"website_url" validate:"required,http_url"`
	Category    string   `json:"category" validate:"required,category"`
	Pricing     string   `json:"pricing_type" validate:"required,pricing"`
	Tags        []string `json:"tags" validate:"max=20,dive,required,max=40"`
	HasAPI      bool     `json:"has_api"`
	Users       string   `json:"users" validate:"max=40"`
	// ImageURL references an already hosted image. Ignored when Image is set.
	ImageURL string `json:"image_url" validate:"omitempty,http_url"`
	Image    *Image `json:"-"`
}

// Image is an uploaded logo.
type Image struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Result identifies the created tool.
type Result struct {
	ID       string  `json:"id"`
	ImageURL *string `json:"image_url,omitempty"`
}

// ValidationErrors lists every failing field. It is returned before any write.
type ValidationErrors []FieldError

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// SplitTags parses a comma separated tag field, dropping blanks.
func SplitTags(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalized trims the free-text fields so that a blank value fails
// "required" instead of being stored empty.
func (in Input) normalized() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.WebsiteURL = strings.TrimSpace(in.WebsiteURL)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Users = strings.TrimSpace(in.Users)
	if in.Tags != nil {
		tags := make([]string, len(in.Tags))
		for i, tag := range in.Tags {
			tags[i] = strings.TrimSpace(tag)
		}
		in.Tags = tags
	}
	return in
}

// toTool converts validated input. Category and pricing have already passed
// their validators, so the parse errors are unreachable.
func (in Input) toTool() tool.Tool {
	c, _ := tool.ParseCategory(in.Category)
	p, _ := tool.ParsePricing(in.Pricing)
	t := tool.Tool{
		Name:        in.Name,
		Description: in.Description,
		WebsiteURL:  in.WebsiteURL,
		Category:    c,
		Tags:        in.Tags,
		Pricing:     p,
		HasAPI:      in.HasAPI,
		Users:       in.Users,
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if in.ImageURL != "" {
		u := in.ImageURL
		t.ImageURL = &u
	}
	return t
}
