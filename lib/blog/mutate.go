package blog

import (
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"strings"
)

var log = logger.GetLogger("blog")

var (
	postsCreated       = metrics.NewCounter(`dblog_posts_created_total`)
	postsUpdated       = metrics.NewCounter(`dblog_posts_updated_total`)
	rejectedValidation = metrics.NewCounter(`dblog_post_mutations_rejected_total{reason="validation"}`)
	rejectedNotFound   = metrics.NewCounter(`dblog_post_mutations_rejected_total{reason="not_found"}`)
)

// --------------------------------------------------------------------------
// Tags
// --------------------------------------------------------------------------

// ParseTags splits a comma separated tag list, trims every entry and drops the empty
// ones. Order and duplicates are kept. The result is never nil.
func ParseTags(s string) []string {
	tags := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FormatTags joins tags the way the edit form shows them
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// FieldsFromPost returns the form input that reproduces p
func FieldsFromPost(p Post) PostFields {
	return PostFields{
		Title:      p.Title,
		Content:    p.Content,
		Image:      p.Image,
		AuthorID:   p.AuthorID,
		CategoryID: p.CategoryID,
		Tags:       FormatTags(p.Tags),
	}
}

func (f PostFields) toPost(id int) Post {
	return Post{
		ID:         id,
		Title:      f.Title,
		Content:    f.Content,
		Image:      f.Image,
		AuthorID:   f.AuthorID,
		CategoryID: f.CategoryID,
		Tags:       ParseTags(f.Tags),
	}
}

// --------------------------------------------------------------------------
// Mutations
// --------------------------------------------------------------------------

// NextPostID returns one more than the highest id in posts, or 1 if there are none
func NextPostID(posts []Post) int {
	maxID := 0
	for _, p := range posts {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

// CreatePost validates fields and returns a copy of d with the new post in front of
// all others. On error d is returned unchanged.
//
// The caller is responsible for persisting the returned dataset.
func CreatePost(d Dataset, fields PostFields) (Dataset, Post, error) {
	if err := fields.Validate(); err != nil {
		rejectedValidation.Inc()
		return d, Post{}, err
	}

	post := fields.toPost(NextPostID(d.Posts))

	posts := make([]Post, 0, len(d.Posts)+1)
	posts = append(posts, post)
	posts = append(posts, d.Posts...)

	out := d
	out.Posts = posts

	postsCreated.Inc()
	log.Debugf("created post %d (%q)", post.ID, post.Title)
	return out, post, nil
}

// UpdatePost validates fields and returns a copy of d where the post with the given id
// is replaced in place. Validation is checked before the id, so invalid input for an
// unknown id yields a *ValidationError. On error d is returned unchanged.
//
// The caller is responsible for persisting the returned dataset.
func UpdatePost(d Dataset, id int, fields PostFields) (Dataset, Post, error) {
	if err := fields.Validate(); err != nil {
		rejectedValidation.Inc()
		return d, Post{}, err
	}

	found := false
	for _, p := range d.Posts {
		if p.ID == id {
			found = true
			break
		}
	}
	if !found {
		rejectedNotFound.Inc()
		return d, Post{}, &NotFoundError{ID: id}
	}

	post := fields.toPost(id)

	posts := make([]Post, len(d.Posts))
	for i, p := range d.Posts {
		if p.ID == id {
			posts[i] = post
		} else {
			posts[i] = p
		}
	}

	out := d
	out.Posts = posts

	postsUpdated.Inc()
	log.Debugf("updated post %d (%q)", post.ID, post.Title)
	return out, post, nil
}
