package blog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"react, javascript,  , web-development", []string{"react", "javascript", "web-development"}},
		{"", []string{}},
		{" , ,", []string{}},
		{"go,go", []string{"go", "go"}},
		{"  spaced tag  ", []string{"spaced tag"}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := ParseTags(tc.in)
			assert.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFieldsFromPostRoundTrip(t *testing.T) {
	p := fixture().Posts[0]
	f := FieldsFromPost(p)
	assert.Equal(t, "europe, coffee", f.Tags)
	assert.Equal(t, p, f.toPost(p.ID))
}

func TestNextPostID(t *testing.T) {
	assert.Equal(t, 6, NextPostID([]Post{{ID: 1}, {ID: 3}, {ID: 5}}))
	assert.Equal(t, 1, NextPostID(nil))
	assert.Equal(t, 8, NextPostID([]Post{{ID: 7}, {ID: 2}}))
}

func TestCreatePostAssignsNextID(t *testing.T) {
	d := fixture()

	out, post, err := CreatePost(d, validFields())
	require.NoError(t, err)
	assert.Equal(t, 6, post.ID)
	assert.Equal(t, []string{"react", "javascript", "web-development"}, post.Tags)

	// new posts go first
	require.Len(t, out.Posts, 4)
	assert.Equal(t, post, out.Posts[0])
	assert.Equal(t, d.Posts, out.Posts[1:])

	// input untouched
	assert.Len(t, d.Posts, 3)
	assert.Equal(t, fixture(), d)
}

func TestCreatePostOnEmptyDataset(t *testing.T) {
	out, post, err := CreatePost(Dataset{}, validFields())
	require.NoError(t, err)
	assert.Equal(t, 1, post.ID)
	assert.Equal(t, []Post{post}, out.Posts)
}

func TestCreatePostAllowsEmptyImageAndTags(t *testing.T) {
	f := validFields()
	f.Image = ""
	f.Tags = ""

	_, post, err := CreatePost(fixture(), f)
	require.NoError(t, err)
	assert.Equal(t, "", post.Image)
	assert.Equal(t, []string{}, post.Tags)
}

func TestCreatePostValidation(t *testing.T) {
	d := fixture()

	out, _, err := CreatePost(d, PostFields{Title: "  ", AuthorID: "a1"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"title", "content", "categoryId"}, verr.Missing)
	assert.Contains(t, err.Error(), "title, content, categoryId")
	assert.Equal(t, d, out)

	_, _, err = CreatePost(d, PostFields{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"title", "content", "authorId", "categoryId"}, verr.Missing)
}

func TestUpdatePostReplacesInPlace(t *testing.T) {
	d := fixture()

	f := validFields()
	out, post, err := UpdatePost(d, 3, f)
	require.NoError(t, err)

	assert.Equal(t, 3, post.ID)
	require.Len(t, out.Posts, len(d.Posts))
	assert.Equal(t, "X", out.Posts[1].Title)
	assert.Equal(t, post, out.Posts[1])

	// all other posts unchanged
	assert.Equal(t, d.Posts[0], out.Posts[0])
	assert.Equal(t, d.Posts[2], out.Posts[2])

	// input untouched
	assert.Equal(t, fixture(), d)
}

func TestUpdatePostNotFound(t *testing.T) {
	d := fixture()

	out, _, err := UpdatePost(d, 999, validFields())
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 999, nf.ID)
	assert.Equal(t, "post 999 not found", err.Error())
	assert.Equal(t, d, out)
}

func TestUpdatePostValidatesBeforeLookup(t *testing.T) {
	d := fixture()

	out, _, err := UpdatePost(d, 999, PostFields{Title: "X"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"content", "authorId", "categoryId"}, verr.Missing)
	assert.Equal(t, d, out)
}

func TestDatasetProblems(t *testing.T) {
	assert.Empty(t, fixture().Problems())

	d := fixture()
	d.Posts[1].ID = 5
	d.Posts[2].Title = ""
	d.Posts = append(d.Posts, Post{ID: -1, Title: "t", Content: "c", AuthorID: "a", CategoryID: "c"})
	d.Authors = append(d.Authors, Author{Name: "nameless"})

	problems := d.Problems()
	assert.Contains(t, problems, `posts[2].title: failed "required"`)
	assert.Contains(t, problems, `posts[3].id: failed "gt"`)
	assert.Contains(t, problems, `authors[2].authorId: failed "required"`)
	assert.Contains(t, problems, "posts[1].id: duplicate id 5 (first used by posts[0])")
	assert.Len(t, problems, 4)
}
