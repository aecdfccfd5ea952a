package posts

import (
	"fmt"
	"github.com/ValentinKolb/dBlog/lib/blog"
	"github.com/charmbracelet/lipgloss"
	"io"
	"strings"
)

// placeholder size of the detail view
const (
	detailImageWidth  = 800
	detailImageHeight = 400
)

const (
	emptyFiltered = "No posts found for this filter."
	emptyAll      = "No posts available."
	notFound      = "Post not found"
)

// styles are bound to the renderer of the output writer, so that piping into a file
// or a buffer produces plain text
type styles struct {
	title  lipgloss.Style
	meta   lipgloss.Style
	tag    lipgloss.Style
	filter lipgloss.Style
	muted  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Bold(true),
		meta:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		tag:    r.NewStyle().Foreground(lipgloss.Color("#2563EB")),
		filter: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563EB")),
		muted:  r.NewStyle().Faint(true),
	}
}

func (s styles) tags(tags []string) string {
	rendered := make([]string, 0, len(tags))
	for _, t := range tags {
		rendered = append(rendered, s.tag.Render("#"+t))
	}
	return strings.Join(rendered, " ")
}

// renderList writes the card listing of posts, which are already filtered with sel
func renderList(w io.Writer, d blog.Dataset, sel blog.Selector, posts []blog.Post) {
	s := newStyles(w)

	if label := sel.Describe(d.Categories); label != "" {
		fmt.Fprintln(w, s.filter.Render(label))
		fmt.Fprintln(w)
	}

	if len(posts) == 0 {
		if sel.Kind() != blog.SelectorNone {
			fmt.Fprintln(w, s.muted.Render(emptyFiltered))
		} else {
			fmt.Fprintln(w, s.muted.Render(emptyAll))
		}
		return
	}

	for i, p := range posts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderCard(w, s, d, p)
	}
}

func renderCard(w io.Writer, s styles, d blog.Dataset, p blog.Post) {
	fmt.Fprintf(w, "%s %s\n", s.muted.Render(fmt.Sprintf("#%d", p.ID)), s.title.Render(strings.ToUpper(p.Title)))
	fmt.Fprintf(w, "   %s\n", s.meta.Render(fmt.Sprintf("by %s • %s", d.AuthorName(p.AuthorID), d.CategoryName(p.CategoryID))))
	if p.Image != "" {
		fmt.Fprintf(w, "   %s\n", s.muted.Render(p.Image))
	}
	fmt.Fprintf(w, "   %s\n", blog.Excerpt(p.Content, blog.ExcerptLength))
	if len(p.Tags) > 0 {
		fmt.Fprintf(w, "   %s\n", s.tags(p.Tags))
	}
}

// renderDetail writes the full view of a single post
func renderDetail(w io.Writer, d blog.Dataset, p blog.Post) {
	s := newStyles(w)

	fmt.Fprintln(w, s.title.Render(p.Title))
	fmt.Fprintln(w, s.meta.Render(fmt.Sprintf("by %s • %s", d.AuthorName(p.AuthorID), d.CategoryName(p.CategoryID))))
	fmt.Fprintln(w, s.muted.Render("image: "+blog.ImageOrFallback(p, detailImageWidth, detailImageHeight)))
	fmt.Fprintln(w)

	for _, paragraph := range blog.Paragraphs(p.Content) {
		fmt.Fprintln(w, paragraph)
	}

	if len(p.Tags) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Tags: %s\n", s.tags(p.Tags))
	}
}

// renderAuthors writes the author list with the number of posts of each author
func renderAuthors(w io.Writer, d blog.Dataset) {
	s := newStyles(w)
	for _, a := range d.Authors {
		count := 0
		for _, p := range d.Posts {
			if p.AuthorID == a.AuthorID {
				count++
			}
		}
		fmt.Fprintf(w, "%-20s %-24s %s\n", a.AuthorID, a.Name, s.muted.Render(fmt.Sprintf("%d posts", count)))
	}
}

// renderCategories writes the category list with the number of posts in each category
func renderCategories(w io.Writer, d blog.Dataset) {
	s := newStyles(w)
	for _, c := range d.Categories {
		count := len(blog.FilterPosts(d.Posts, blog.SelectCategory(c.CategoryID)))
		fmt.Fprintf(w, "%-20s %-24s %s\n", c.CategoryID, c.Name, s.muted.Render(fmt.Sprintf("%d posts", count)))
	}
}
