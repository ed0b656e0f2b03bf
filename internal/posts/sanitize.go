package posts

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripMarkup removes HTML from the plain-text fields (title, summary, image
// alt text, tags). Content is markdown and is left untouched.
func StripMarkup(p *Post) {
	p.Title = stripText(p.Title)
	p.Summary = stripText(p.Summary)
	p.HeaderImageAlt = stripText(p.HeaderImageAlt)
	for i, tag := range p.Tags {
		p.Tags[i] = stripText(tag)
	}
}

func stripText(s string) string {
	if s == "" {
		return s
	}
	// The strict policy escapes entities in the text it keeps.
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
