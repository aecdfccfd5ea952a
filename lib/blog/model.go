package blog

// --------------------------------------------------------------------------
// Entities
// --------------------------------------------------------------------------

// Post is a single blog entry. ID is assigned by CreatePost and never changes.
type Post struct {
	ID         int      `json:"id" yaml:"id" validate:"gt=0"`
	Title      string   `json:"title" yaml:"title" validate:"required"`
	Content    string   `json:"content" yaml:"content" validate:"required"`
	Image      string   `json:"image" yaml:"image"`
	AuthorID   string   `json:"authorId" yaml:"authorId" validate:"required"`
	CategoryID string   `json:"categoryId" yaml:"categoryId" validate:"required"`
	Tags       []string `json:"tags" yaml:"tags"`
}

// Author is referenced by Post.AuthorID
type Author struct {
	AuthorID string `json:"authorId" yaml:"authorId" validate:"required"`
	Name     string `json:"name" yaml:"name"`
}

// Category is referenced by Post.CategoryID
type Category struct {
	CategoryID string `json:"categoryId" yaml:"categoryId" validate:"required"`
	Name       string `json:"name" yaml:"name"`
}

// Dataset is the whole blog. It is loaded and saved as one unit.
type Dataset struct {
	Posts      []Post     `json:"posts" yaml:"posts" validate:"dive"`
	Authors    []Author   `json:"authors" yaml:"authors" validate:"dive"`
	Categories []Category `json:"categories" yaml:"categories" validate:"dive"`
}

// PostFields is the raw create/edit form input. Tags is a comma separated list.
type PostFields struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	Image      string `json:"image"`
	AuthorID   string `json:"authorId" validate:"required"`
	CategoryID string `json:"categoryId" validate:"required"`
	Tags       string `json:"tags"`
}

// --------------------------------------------------------------------------
// Dataset convenience methods
// --------------------------------------------------------------------------

// AuthorName is FindAuthorName on the dataset's authors
func (d Dataset) AuthorName(authorID string) string {
	return FindAuthorName(d.Authors, authorID)
}

// CategoryName is FindCategoryName on the dataset's categories
func (d Dataset) CategoryName(categoryID string) string {
	return FindCategoryName(d.Categories, categoryID)
}

// PostByID is FindPostByID on the dataset's posts
func (d Dataset) PostByID(id string) (Post, bool) {
	return FindPostByID(d.Posts, id)
}
