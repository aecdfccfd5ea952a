package blog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindAuthorName(t *testing.T) {
	d := fixture()
	assert.Equal(t, "Ada", FindAuthorName(d.Authors, "a1"))
	assert.Equal(t, "Unknown Author", FindAuthorName(d.Authors, "missing-id"))
	assert.Equal(t, "Unknown Author", FindAuthorName(nil, "a1"))
	assert.Equal(t, "Linus", d.AuthorName("a2"))
}

func TestFindCategoryName(t *testing.T) {
	d := fixture()
	assert.Equal(t, "Travel", FindCategoryName(d.Categories, "travel"))
	assert.Equal(t, "Uncategorized", FindCategoryName(d.Categories, "food"))
	assert.Equal(t, "Uncategorized", d.CategoryName(""))
}

func TestFindPostByID(t *testing.T) {
	d := fixture()

	p, ok := FindPostByID(d.Posts, "3")
	assert.True(t, ok)
	assert.Equal(t, "Hooks explained", p.Title)

	_, ok = FindPostByID(d.Posts, "999")
	assert.False(t, ok)

	// ids are compared in their decimal string form
	_, ok = d.PostByID("03")
	assert.False(t, ok)
	_, ok = d.PostByID("abc")
	assert.False(t, ok)
}

func TestFindAuthorAndCategory(t *testing.T) {
	d := fixture()

	a, ok := FindAuthor(d.Authors, "a2")
	assert.True(t, ok)
	assert.Equal(t, Author{AuthorID: "a2", Name: "Linus"}, a)

	_, ok = FindCategory(d.Categories, "food")
	assert.False(t, ok)
}
