package blog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("a", 200)
	assert.Equal(t, strings.Repeat("a", 150)+"...", Excerpt(long, ExcerptLength))
	assert.Equal(t, "short...", Excerpt("short", ExcerptLength))

	// rune based, never splits a multi byte character
	assert.Equal(t, "Café...", Excerpt("Café au lait", 4))
	assert.Equal(t, "...", Excerpt("abc", -1))
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"one", "", "two"}, Paragraphs("one\n\ntwo"))
	assert.Equal(t, []string{""}, Paragraphs(""))
}

func TestFallbackImage(t *testing.T) {
	p := Post{ID: 7, Title: "Hello World"}
	assert.Equal(t, "https://via.placeholder.com/800x400/fbbf24/ffffff?text=Hello%20World", FallbackImage(p, 800, 400))

	p.ID = 6
	assert.Contains(t, FallbackImage(p, 400, 300), "/400x300/f97316/")
}

func TestImageOrFallback(t *testing.T) {
	p := Post{ID: 1, Title: "T", Image: "https://img.example/1.jpg"}
	assert.Equal(t, p.Image, ImageOrFallback(p, 800, 400))

	p.Image = " "
	assert.Equal(t, FallbackImage(p, 800, 400), ImageOrFallback(p, 800, 400))
}
