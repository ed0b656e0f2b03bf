package posts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePost = `---
title: "Go Webhook Integration"
date: 2024-03-15T10:30:00Z
summary: A post published from Go
tags:
  - go
  - webhook
draft: true
headerImage: https://images.example.com/header.png
headerImageAlt: Code on a screen
slug: go-webhook-integration
---

# Go Webhook Integration

This post was published by the CLI.
`

func writePost(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse(t *testing.T) {
	post, err := Parse(strings.NewReader(samplePost))
	require.NoError(t, err)

	assert.Equal(t, "Go Webhook Integration", post.Title)
	assert.Equal(t, "2024-03-15T10:30:00Z", post.Date)
	assert.Equal(t, "A post published from Go", post.Summary)
	assert.Equal(t, []string{"go", "webhook"}, post.Tags)
	assert.True(t, post.Draft)
	assert.Equal(t, "https://images.example.com/header.png", post.HeaderImage)
	assert.Equal(t, "Code on a screen", post.HeaderImageAlt)
	assert.Equal(t, "go-webhook-integration", post.Slug)
	assert.Equal(t, "# Go Webhook Integration\n\nThis post was published by the CLI.", post.Content)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty file", "", ErrNoFrontmatter},
		{"no frontmatter", "# Just markdown\n", ErrNoFrontmatter},
		{"unterminated", "---\ntitle: x\n# body\n", ErrNoFrontmatter},
		{"missing title", "---\nsummary: x\n---\nbody\n", ErrMissingTitle},
		{"empty content", "---\ntitle: x\n---\n\n\n", ErrEmptyContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse(strings.NewReader("---\ntitle: [unclosed\n---\nbody\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing frontmatter")
}

func TestParse_CRLF(t *testing.T) {
	input := "---\r\ntitle: Windows\r\n---\r\nBody line\r\n"

	post, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "Windows", post.Title)
	assert.Equal(t, "Body line", post.Content)
}

func TestLoad(t *testing.T) {
	path := writePost(t, t.TempDir(), "post.md", samplePost)

	post, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, post.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Go 1.24: What's New?", "go-1-24-what-s-new"},
		{"Ünïcödé Title", "n-c-d-title"},
		{"---", ""},
		{"already-a-slug", "already-a-slug"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestPost_Inputs(t *testing.T) {
	post, err := Parse(strings.NewReader(samplePost))
	require.NoError(t, err)

	create := post.CreateInput()
	assert.Equal(t, post.Title, create.Title)
	assert.Equal(t, post.Slug, create.Slug)
	assert.Equal(t, post.Date, create.Date)
	assert.NoError(t, create.Validate())

	post.Slug = ""
	update := post.UpdateInput()
	assert.Equal(t, "go-webhook-integration", update.Slug)
	assert.Equal(t, post.Content, update.Content)
	assert.NoError(t, update.Validate())

	assert.Empty(t, post.CreateInput().Slug)
}
