package posts

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writePost(t, root, "a.md", samplePost)
	writePost(t, root, "drafts/b.mdx", samplePost)
	writePost(t, root, "drafts/deep/c.md", samplePost)
	writePost(t, root, "notes.txt", "not a post")

	files, err := Discover(root, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.md"),
		filepath.Join(root, "drafts", "b.mdx"),
		filepath.Join(root, "drafts", "deep", "c.md"),
	}, files)

	files, err = Discover(root, "*.md")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.md")}, files)

	files, err = Discover(root, "drafts/**.md")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "drafts", "deep", "c.md")}, files)
}

func TestDiscover_InvalidPattern(t *testing.T) {
	_, err := Discover(t.TempDir(), "[unclosed")
	assert.Error(t, err)
}

func TestMatcher_Match(t *testing.T) {
	root := t.TempDir()
	m, err := NewMatcher(root, "")
	require.NoError(t, err)

	assert.True(t, m.Match(filepath.Join(root, "post.md")))
	assert.True(t, m.Match(filepath.Join(root, "a", "b", "post.mdx")))
	assert.False(t, m.Match(filepath.Join(root, "post.md.swp")))
	assert.False(t, m.Match(filepath.Join(root, "image.png")))
}
