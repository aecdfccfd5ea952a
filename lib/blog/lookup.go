package blog

import "strconv"

const (
	UnknownAuthor      = "Unknown Author"
	UncategorizedLabel = "Uncategorized"
)

// FindAuthor returns the author with the given id
func FindAuthor(authors []Author, authorID string) (Author, bool) {
	for _, a := range authors {
		if a.AuthorID == authorID {
			return a, true
		}
	}
	return Author{}, false
}

// FindCategory returns the category with the given id
func FindCategory(categories []Category, categoryID string) (Category, bool) {
	for _, c := range categories {
		if c.CategoryID == categoryID {
			return c, true
		}
	}
	return Category{}, false
}

// FindAuthorName returns the author's display name or "Unknown Author".
func FindAuthorName(authors []Author, authorID string) string {
	if a, ok := FindAuthor(authors, authorID); ok {
		return a.Name
	}
	return UnknownAuthor
}

// FindCategoryName returns the category's display name or "Uncategorized".
func FindCategoryName(categories []Category, categoryID string) string {
	if c, ok := FindCategory(categories, categoryID); ok {
		return c.Name
	}
	return UncategorizedLabel
}

// FindPostByID looks a post up by the decimal string form of its id, so "7" finds
// post 7 but "07" does not. A miss is reported through the boolean, never as an error.
func FindPostByID(posts []Post, id string) (Post, bool) {
	for _, p := range posts {
		if strconv.Itoa(p.ID) == id {
			return p, true
		}
	}
	return Post{}, false
}
