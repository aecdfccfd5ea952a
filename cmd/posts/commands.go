package posts

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dBlog/cmd/util"
	"github.com/ValentinKolb/dBlog/lib/blog"
	"github.com/spf13/cobra"
	"strconv"
)

// errPostNotFound makes `posts show` exit non-zero after printing the not found state
var errPostNotFound = errors.New("post not found")

var (
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists all posts, optionally filtered by category or tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, _ := cmd.Flags().GetString("category")
			tag, _ := cmd.Flags().GetString("tag")

			sel, err := blog.ParseSelector(category, tag)
			if err != nil {
				return err
			}

			d, err := session.Adapter.Load(cmd.Context())
			if err != nil {
				return err
			}

			renderList(cmd.OutOrStdout(), d, sel, blog.FilterPosts(d.Posts, sel))
			return nil
		},
	}
	showCmd = &cobra.Command{
		Use:   "show [id]",
		Short: "Shows a single post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := session.Adapter.Load(cmd.Context())
			if err != nil {
				return err
			}

			post, ok := d.PostByID(args[0])
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), notFound)
				return fmt.Errorf("%w: %s", errPostNotFound, args[0])
			}

			renderDetail(cmd.OutOrStdout(), d, post)
			return nil
		},
	}
	createCmd = &cobra.Command{
		Use:   "create",
		Short: "Creates a new post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := session.Adapter.Load(cmd.Context())
			if err != nil {
				return err
			}

			d, post, err := blog.CreatePost(d, fieldsFromFlags(cmd, blog.PostFields{}))
			if err != nil {
				return err
			}
			if err := session.Adapter.Save(cmd.Context(), d); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created post %d\n\n", post.ID)
			renderDetail(cmd.OutOrStdout(), d, post)
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [id]",
		Short: "Updates a post. Fields without a flag keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("id must be a number: %w", err)
			}

			d, err := session.Adapter.Load(cmd.Context())
			if err != nil {
				return err
			}

			d, post, err := updateFromFlags(cmd, d, id)
			if err != nil {
				return err
			}
			if err := session.Adapter.Save(cmd.Context(), d); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "updated post %d\n\n", post.ID)
			renderDetail(cmd.OutOrStdout(), d, post)
			return nil
		},
	}
	authorsCmd = &cobra.Command{
		Use:   "authors",
		Short: "Lists all authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := session.Adapter.Load(cmd.Context())
			if err != nil {
				return err
			}
			renderAuthors(cmd.OutOrStdout(), d)
			return nil
		},
	}
	categoriesCmd = &cobra.Command{
		Use:   "categories",
		Short: "Lists all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := session.Adapter.Load(cmd.Context())
			if err != nil {
				return err
			}
			renderCategories(cmd.OutOrStdout(), d)
			return nil
		},
	}
)

func init() {
	key := "category"
	listCmd.Flags().String(key, "", util.WrapString("Only show posts of this category id"))
	key = "tag"
	listCmd.Flags().String(key, "", util.WrapString("Only show posts with this tag (cannot be combined with --category)"))

	for _, cmd := range []*cobra.Command{createCmd, updateCmd} {
		setupFieldFlags(cmd)
	}
}

// fieldFlags maps the form fields to their flag names
var fieldFlags = []struct {
	flag  string
	help  string
	field func(*blog.PostFields) *string
}{
	{"title", "Title of the post", func(f *blog.PostFields) *string { return &f.Title }},
	{"content", "Content of the post, paragraphs are separated by newlines", func(f *blog.PostFields) *string { return &f.Content }},
	{"image", "Image URL (optional)", func(f *blog.PostFields) *string { return &f.Image }},
	{"author", "Author id", func(f *blog.PostFields) *string { return &f.AuthorID }},
	{"category", "Category id", func(f *blog.PostFields) *string { return &f.CategoryID }},
	{"tags", "Comma separated tags, e.g. \"react, javascript\"", func(f *blog.PostFields) *string { return &f.Tags }},
}

func setupFieldFlags(cmd *cobra.Command) {
	for _, ff := range fieldFlags {
		cmd.Flags().String(ff.flag, "", util.WrapString(ff.help))
	}
}

// updateFromFlags pre-fills the form with post id, like the edit form does, and
// applies the changed flags on top. An unknown id is reported before the fields
// are validated since there is nothing to pre-fill.
func updateFromFlags(cmd *cobra.Command, d blog.Dataset, id int) (blog.Dataset, blog.Post, error) {
	current, ok := d.PostByID(strconv.Itoa(id))
	if !ok {
		return d, blog.Post{}, &blog.NotFoundError{ID: id}
	}
	return blog.UpdatePost(d, id, fieldsFromFlags(cmd, blog.FieldsFromPost(current)))
}

// fieldsFromFlags overrides the fields of base with every flag that was set
func fieldsFromFlags(cmd *cobra.Command, base blog.PostFields) blog.PostFields {
	for _, ff := range fieldFlags {
		if !cmd.Flags().Changed(ff.flag) {
			continue
		}
		value, _ := cmd.Flags().GetString(ff.flag)
		*ff.field(&base) = value
	}
	return base
}
