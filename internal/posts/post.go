// Package posts loads blog posts from markdown files with YAML frontmatter
// and turns them into webhook inputs.
package posts

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/watzon/blogwebhook/internal/webhooks"
)

const frontmatterDelimiter = "---"

var (
	ErrNoFrontmatter = errors.New("post has no frontmatter")
	ErrMissingTitle  = errors.New("post frontmatter has no title")
	ErrEmptyContent  = errors.New("post has no content")
)

// Frontmatter mirrors the keys the blog stores in its MDX frontmatter.
type Frontmatter struct {
	Title          string   `yaml:"title"`
	Date           string   `yaml:"date"`
	Summary        string   `yaml:"summary"`
	Tags           []string `yaml:"tags"`
	Draft          bool     `yaml:"draft"`
	HeaderImage    string   `yaml:"headerImage"`
	HeaderImageAlt string   `yaml:"headerImageAlt"`
	Slug           string   `yaml:"slug"`
}

// Post is a parsed source file.
type Post struct {
	Frontmatter
	Content string
	Path    string
}

// Load reads and parses the post at path.
func Load(path string) (*Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening post: %w", err)
	}
	defer f.Close()

	post, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	post.Path = path
	return post, nil
}

// Parse splits a "---" delimited YAML header from the markdown body.
func Parse(r io.Reader) (*Post, error) {
	header, body, err := splitFrontmatter(r)
	if err != nil {
		return nil, err
	}

	post := &Post{}
	if err := yaml.Unmarshal(header, &post.Frontmatter); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	post.Content = strings.TrimRight(strings.TrimLeft(body, "\r\n"), " \t\r\n")

	if strings.TrimSpace(post.Title) == "" {
		return nil, ErrMissingTitle
	}
	if post.Content == "" {
		return nil, ErrEmptyContent
	}
	return post, nil
}

func splitFrontmatter(r io.Reader) ([]byte, string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, "", fmt.Errorf("reading post: %w", err)
		}
		return nil, "", ErrNoFrontmatter
	}
	first := strings.TrimPrefix(scanner.Text(), "\ufeff")
	if strings.TrimRight(first, " \t\r") != frontmatterDelimiter {
		return nil, "", ErrNoFrontmatter
	}

	var header bytes.Buffer
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimRight(line, " \t\r") == frontmatterDelimiter {
			closed = true
			break
		}
		header.WriteString(line)
		header.WriteByte('\n')
	}
	if !closed {
		if err := scanner.Err(); err != nil {
			return nil, "", fmt.Errorf("reading post: %w", err)
		}
		return nil, "", fmt.Errorf("%w: unterminated header", ErrNoFrontmatter)
	}

	var body strings.Builder
	for scanner.Scan() {
		body.WriteString(scanner.Text())
		body.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("reading post: %w", err)
	}

	return header.Bytes(), body.String(), nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a slug from a title the same way the blog does when a post
// is created without one.
func Slugify(title string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

// EffectiveSlug is the frontmatter slug, or the slug the blog will derive
// from the title.
func (p *Post) EffectiveSlug() string {
	if p.Slug != "" {
		return p.Slug
	}
	return Slugify(p.Title)
}

// CreateInput maps the post to a create call. An absent slug is left for the
// blog to derive.
func (p *Post) CreateInput() webhooks.CreatePostInput {
	return webhooks.CreatePostInput{
		Title:          p.Title,
		Content:        p.Content,
		Draft:          p.Draft,
		Summary:        p.Summary,
		Tags:           p.Tags,
		HeaderImage:    p.HeaderImage,
		HeaderImageAlt: p.HeaderImageAlt,
		Slug:           p.Slug,
		Date:           p.Date,
	}
}

// UpdateInput maps the post to an update call addressed by EffectiveSlug.
func (p *Post) UpdateInput() webhooks.UpdatePostInput {
	return webhooks.UpdatePostInput{
		Slug:           p.EffectiveSlug(),
		Title:          p.Title,
		Content:        p.Content,
		Draft:          p.Draft,
		Summary:        p.Summary,
		Tags:           p.Tags,
		HeaderImage:    p.HeaderImage,
		HeaderImageAlt: p.HeaderImageAlt,
		Date:           p.Date,
	}
}
