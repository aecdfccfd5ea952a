package blog

import (
	"fmt"
	"net/url"
	"strings"
)

// ExcerptLength is the preview length used on post cards
const ExcerptLength = 150

var placeholderPalette = []string{"f97316", "fbbf24", "10b981", "3b82f6", "8b5cf6", "ec4899"}

// Excerpt returns the first n runes of content followed by "...".
// The ellipsis is appended even if content is shorter than n.
func Excerpt(content string, n int) string {
	if n < 0 {
		n = 0
	}
	runes := []rune(content)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}

// Paragraphs splits content on newlines. Empty lines are kept as empty paragraphs.
func Paragraphs(content string) []string {
	return strings.Split(content, "\n")
}

// FallbackImage returns a placeholder image URL of the given size, colored by the
// post id and labelled with the title.
func FallbackImage(p Post, width, height int) string {
	idx := p.ID % len(placeholderPalette)
	if idx < 0 {
		idx += len(placeholderPalette)
	}
	return fmt.Sprintf("https://via.placeholder.com/%dx%d/%s/ffffff?text=%s",
		width, height, placeholderPalette[idx], url.PathEscape(p.Title))
}

// ImageOrFallback returns the post's image, or the placeholder if it has none
func ImageOrFallback(p Post, width, height int) string {
	if strings.TrimSpace(p.Image) != "" {
		return p.Image
	}
	return FallbackImage(p, width, height)
}
