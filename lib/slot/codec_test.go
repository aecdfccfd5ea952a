package slot

import (
	"github.com/ValentinKolb/dBlog/lib/blog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecFor(t *testing.T) {
	c, err := CodecFor(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, c.Format())

	c, err = CodecFor(FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, c.Format())

	_, err = CodecFor("toml")
	assert.Error(t, err)
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, codec := range []Codec{JSONCodec(), YAMLCodec()} {
		for _, in := range []string{"[]", "42", "{"} {
			_, err := codec.Decode([]byte(in))
			var perr *ParseError
			assert.ErrorAs(t, err, &perr, "%s: %q", codec.Format(), in)
		}
	}
}

func TestDecodeMissingArrays(t *testing.T) {
	_, err := JSONCodec().Decode([]byte(`{"posts": []}`))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"authors: missing", "categories: missing"}, perr.Problems)

	_, err = YAMLCodec().Decode([]byte("authors: []\ncategories: []\n"))
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"posts: missing"}, perr.Problems)
}

func TestDecodeNullArrays(t *testing.T) {
	_, err := JSONCodec().Decode([]byte(`{"posts": null, "authors": [], "categories": []}`))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"posts: null"}, perr.Problems)

	_, err = YAMLCodec().Decode([]byte("posts: []\nauthors:\ncategories: ~\n"))
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"authors: null", "categories: null"}, perr.Problems)
}

func TestEncodeWritesEmptyLists(t *testing.T) {
	raw, err := JSONCodec().Encode(blog.Dataset{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"posts": [], "authors": [], "categories": []}`, string(raw))

	d, err := JSONCodec().Decode(raw)
	require.NoError(t, err)
	assert.Empty(t, d.Posts)
}

func TestYAMLRoundTrip(t *testing.T) {
	d := sample()
	raw, err := YAMLCodec().Encode(d)
	require.NoError(t, err)

	got, err := YAMLCodec().Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}
