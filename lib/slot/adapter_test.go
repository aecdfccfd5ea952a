package slot

import (
	"context"
	"errors"
	"github.com/ValentinKolb/dBlog/data"
	"github.com/ValentinKolb/dBlog/lib/blog"
	"github.com/ValentinKolb/dBlog/lib/db"
	"github.com/ValentinKolb/dBlog/lib/db/engines/badgerdb"
	"github.com/ValentinKolb/dBlog/lib/db/engines/maple"
	"github.com/ValentinKolb/dBlog/lib/store"
	"github.com/ValentinKolb/dBlog/lib/store/lstore"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) store.IStore {
	t.Helper()
	st := lstore.NewLocalStore(func() db.KVDB {
		return maple.NewMapleDB(&maple.DBOptions{NumShards: 2})
	})
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// countingBootstrap wraps b and counts Fetch calls
func countingBootstrap(b Bootstrap, calls *int) Bootstrap {
	return BootstrapFunc(func(ctx context.Context) (Document, error) {
		*calls++
		return b.Fetch(ctx)
	})
}

func sample() blog.Dataset {
	return blog.Dataset{
		Posts: []blog.Post{
			{ID: 3, Title: "Three", Content: "c3", AuthorID: "a1", CategoryID: "c1", Tags: []string{"x", "y"}},
			{ID: 1, Title: "One", Content: "c1", Image: "https://img.example/1.png", AuthorID: "gone", CategoryID: "c2", Tags: []string{}},
		},
		Authors:    []blog.Author{{AuthorID: "a1", Name: "Ada"}},
		Categories: []blog.Category{{CategoryID: "c1", Name: "One"}},
	}
}

func TestLoadSeedsEmptySlot(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	calls := 0
	a := New(st, countingBootstrap(EmbeddedBootstrap(), &calls))

	d, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, d.Posts, 5)
	assert.Equal(t, 1, calls)

	// the bootstrap document is stored verbatim
	raw, ok, err := a.Raw(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, data.Seed, raw)

	// second load is served from the slot
	again, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, d, again)
	assert.Equal(t, 1, calls)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := New(newStore(t), nil)

	d := sample()
	require.NoError(t, a.Save(ctx, d))

	got, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, d, got)

	// last write wins
	d.Posts = d.Posts[:1]
	require.NoError(t, a.Save(ctx, d))
	got, err = a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestSaveAfterMutation(t *testing.T) {
	ctx := context.Background()
	a := New(newStore(t), EmbeddedBootstrap())

	d, err := a.Load(ctx)
	require.NoError(t, err)

	d, post, err := blog.CreatePost(d, blog.PostFields{
		Title: "New", Content: "Body", AuthorID: "author-1", CategoryID: "food", Tags: "a, b",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, post.ID)
	require.NoError(t, a.Save(ctx, d))

	got, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, d, got)
	assert.Equal(t, post, got.Posts[0])
}

func TestSaveRejectsMalformedDataset(t *testing.T) {
	ctx := context.Background()
	a := New(newStore(t), nil)
	require.NoError(t, a.Save(ctx, sample()))

	bad := sample()
	bad.Posts[1].ID = 3
	err := a.Save(ctx, bad)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Len(t, perr.Problems, 1)

	got, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestLoadWithoutBootstrap(t *testing.T) {
	_, err := New(newStore(t), nil).Load(context.Background())

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, SourceBootstrap, lerr.Source)
	assert.ErrorIs(t, err, ErrNoBootstrap)
}

func TestLoadBootstrapFailure(t *testing.T) {
	boom := errors.New("offline")
	a := New(newStore(t), BootstrapFunc(func(context.Context) (Document, error) {
		return Document{}, boom
	}))

	_, err := a.Load(context.Background())
	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, SourceBootstrap, lerr.Source)
	assert.ErrorIs(t, err, boom)

	// nothing was written
	_, ok, err := a.Raw(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadMalformedSlot(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.Set("blogData", []byte("{not json")))

	calls := 0
	a := New(st, countingBootstrap(EmbeddedBootstrap(), &calls))
	_, err := a.Load(context.Background())

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, SourceSlot, lerr.Source)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)

	// a broken slot is not silently replaced by the bootstrap
	assert.Equal(t, 0, calls)
}

func TestLoadBrokenBootstrapListsProblems(t *testing.T) {
	a := New(newStore(t), FileBootstrap("testdata/broken.json"))
	_, err := a.Load(context.Background())

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.ElementsMatch(t, []string{
		"categories: missing",
		`posts[2].id: failed "gt"`,
		`posts[2].title: failed "required"`,
		"posts[1].id: duplicate id 1 (first used by posts[0])",
	}, perr.Problems)
}

func TestYAMLBootstrapIsStoredAsJSON(t *testing.T) {
	ctx := context.Background()
	a := New(newStore(t), FileBootstrap("testdata/small.yaml"))

	fromYAML, err := a.Load(ctx)
	require.NoError(t, err)

	jsonDoc, err := os.ReadFile("testdata/small.json")
	require.NoError(t, err)
	fromJSON, err := JSONCodec().Decode(jsonDoc)
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromYAML)

	raw, ok, err := a.Raw(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	stored, err := JSONCodec().Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, fromJSON, stored)
}

func TestResetReseeds(t *testing.T) {
	ctx := context.Background()
	calls := 0
	a := New(newStore(t), countingBootstrap(FileBootstrap("testdata/small.json"), &calls))

	require.NoError(t, a.Save(ctx, sample()))
	require.NoError(t, a.Reset(ctx))

	_, ok, err := a.Raw(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	d, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, d.Posts, 2)
	assert.Equal(t, 1, calls)
}

func TestCustomKey(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	a := New(st, nil, WithKey("other"))
	assert.Equal(t, "other", a.Key())

	require.NoError(t, a.Save(ctx, sample()))
	has, err := st.Has("other")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = st.Has("blogData")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestInfo(t *testing.T) {
	a := New(newStore(t), nil)
	require.NoError(t, a.Save(context.Background(), sample()))

	info, err := a.Info()
	require.NoError(t, err)
	assert.Equal(t, db.ImplMaple, info.DbType)
	assert.Equal(t, 1, info.Keys)
}

// failingStore returns the same error from every operation
type failingStore struct {
	err error
}

func (f failingStore) Set(string, []byte) error            { return f.err }
func (f failingStore) Delete(string) error                 { return f.err }
func (f failingStore) Get(string) ([]byte, bool, error)    { return nil, false, f.err }
func (f failingStore) Has(string) (bool, error)            { return false, f.err }
func (f failingStore) GetDBInfo() (db.DatabaseInfo, error) { return db.DatabaseInfo{}, f.err }
func (f failingStore) Close() error                        { return nil }

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()
	a := New(failingStore{err: store.NewError(store.RetCInternalError, "disk on fire")}, EmbeddedBootstrap())

	_, err := a.Load(ctx)
	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, SourceSlot, lerr.Source)
	var serr *store.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, store.RetCInternalError, serr.Code)

	err = a.Save(ctx, sample())
	require.ErrorAs(t, err, &serr)

	assert.Error(t, a.Reset(ctx))
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(newStore(t), nil)
	assert.ErrorIs(t, a.Save(ctx, sample()), context.Canceled)
	assert.ErrorIs(t, a.Reset(ctx), context.Canceled)
}

func TestMetricsCountSlotTraffic(t *testing.T) {
	ctx := context.Background()
	a := New(newStore(t), EmbeddedBootstrap())

	seeded := loadsFromBootstrap.Get()
	hits := loadsFromSlot.Get()
	saved := saves.Get()

	d, err := a.Load(ctx)
	require.NoError(t, err)
	_, err = a.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Save(ctx, d))

	assert.Equal(t, seeded+1, loadsFromBootstrap.Get())
	assert.Equal(t, hits+1, loadsFromSlot.Get())
	assert.Equal(t, saved+1, saves.Get())
	assert.Positive(t, lastBlobBytes.Load())
}

func TestEngineFailureDoesNotReseed(t *testing.T) {
	ctx := context.Background()
	engine, err := badgerdb.Open(badgerdb.InMemoryConfig())
	require.NoError(t, err)
	st := lstore.NewLocalStore(func() db.KVDB { return engine })

	calls := 0
	a := New(st, countingBootstrap(EmbeddedBootstrap(), &calls))
	require.NoError(t, a.Save(ctx, sample()))
	require.NoError(t, engine.Close())

	var serr *store.Error
	err = a.Save(ctx, sample())
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, store.RetCInternalError, serr.Code)

	_, err = a.Load(ctx)
	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, SourceSlot, lerr.Source)
	assert.Zero(t, calls, "a failed read must not fall through to the bootstrap")

	_, _, err = a.Raw(ctx)
	require.ErrorAs(t, err, &serr)
}
