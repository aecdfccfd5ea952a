// Package blog holds the blog's data model and every operation the presentation
// layer performs on it: lookups, the post filter and post creation and update.
//
// All functions are pure. They take a Dataset (or a part of it) and return new
// values; persisting a changed dataset is left to the caller (see package slot).
//
// Key Components:
//
//   - Dataset, Post, Author, Category: the stored document.
//
//   - Lookups: FindAuthorName and FindCategoryName never fail, they fall back to
//     "Unknown Author" and "Uncategorized". FindPostByID signals a miss through its
//     boolean result.
//
//   - Selector and FilterPosts: a Selector holds either nothing, a category id or a
//     tag, never both. FilterPosts keeps the input order.
//
//   - CreatePost and UpdatePost: validate the form input (PostFields), parse the
//     comma separated tags and return the changed dataset. Failures are reported as
//     *ValidationError or *NotFoundError and leave the dataset untouched.
//
//   - Display helpers: Excerpt, Paragraphs and FallbackImage for rendering.
//
// Usage Example:
//
//	d, post, err := blog.CreatePost(d, blog.PostFields{
//		Title:      "Hello",
//		Content:    "First paragraph\nSecond paragraph",
//		AuthorID:   "a1",
//		CategoryID: "c1",
//		Tags:       "go, cli",
//	})
//	if err != nil {
//		return err
//	}
//	recent := blog.FilterPosts(d.Posts, blog.SelectTag("go"))
package blog
