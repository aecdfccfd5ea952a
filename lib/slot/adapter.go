package slot

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/dBlog/lib/blog"
	"github.com/ValentinKolb/dBlog/lib/common"
	"github.com/ValentinKolb/dBlog/lib/db"
	"github.com/ValentinKolb/dBlog/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"time"
)

var log = logger.GetLogger("slot")

// Adapter reads and writes the whole blog dataset as one blob under a single key of
// an IStore. An empty slot is seeded from the bootstrap source on the first Load.
//
// Thread-safety: the adapter adds no locking of its own. Concurrent Save calls are
// last write wins.
type Adapter struct {
	st    store.IStore
	boot  Bootstrap
	key   string
	codec Codec
}

// Option configures an Adapter
type Option func(*Adapter)

// WithKey sets the slot key (default "blogData")
func WithKey(key string) Option {
	return func(a *Adapter) {
		a.key = key
	}
}

// WithCodec sets the codec the slot is stored with (default JSON)
func WithCodec(c Codec) Option {
	return func(a *Adapter) {
		a.codec = c
	}
}

// New creates an adapter over st. boot may be nil, in which case loading an empty
// slot fails with ErrNoBootstrap.
func New(st store.IStore, boot Bootstrap, opts ...Option) *Adapter {
	a := &Adapter{
		st:    st,
		boot:  boot,
		key:   common.DefaultSlotKey,
		codec: JSONCodec(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the slot key
func (a *Adapter) Key() string {
	return a.key
}

// --------------------------------------------------------------------------
// Load / Save
// --------------------------------------------------------------------------

// Load returns the stored dataset. If the slot is empty the bootstrap document is
// fetched, validated and written to the slot before it is returned.
// Every failure is a *LoadError.
func (a *Adapter) Load(ctx context.Context) (blog.Dataset, error) {
	raw, ok, err := a.st.Get(a.key)
	if err != nil {
		return a.loadFailed(SourceSlot, fmt.Errorf("read slot %q: %w", a.key, err))
	}

	if ok {
		d, err := a.codec.Decode(raw)
		if err != nil {
			return a.loadFailed(SourceSlot, err)
		}
		loadsFromSlot.Inc()
		log.Debugf("loaded %d posts from slot %q (%d bytes)", len(d.Posts), a.key, len(raw))
		return d, nil
	}

	return a.seed(ctx)
}

// seed fetches the bootstrap document and writes it to the slot.
// A JSON document is stored byte for byte, other formats are re-encoded with the slot codec.
func (a *Adapter) seed(ctx context.Context) (blog.Dataset, error) {
	if a.boot == nil {
		return a.loadFailed(SourceBootstrap, ErrNoBootstrap)
	}

	start := time.Now()
	doc, err := a.boot.Fetch(ctx)
	bootstrapFetch.UpdateDuration(start)
	if err != nil {
		return a.loadFailed(SourceBootstrap, err)
	}

	codec, err := CodecFor(doc.Format)
	if err != nil {
		return a.loadFailed(SourceBootstrap, err)
	}
	d, err := codec.Decode(doc.Data)
	if err != nil {
		return a.loadFailed(SourceBootstrap, fmt.Errorf("decode %s: %w", doc.Origin, err))
	}

	blob := doc.Data
	if codec.Format() != a.codec.Format() {
		if blob, err = a.codec.Encode(d); err != nil {
			return a.loadFailed(SourceBootstrap, fmt.Errorf("re-encode %s: %w", doc.Origin, err))
		}
	}

	if err := a.st.Set(a.key, blob); err != nil {
		return a.loadFailed(SourceSlot, fmt.Errorf("seed slot %q: %w", a.key, err))
	}
	lastBlobBytes.Store(int64(len(blob)))

	loadsFromBootstrap.Inc()
	log.Infof("seeded slot %q from %s (%d posts)", a.key, doc.Origin, len(d.Posts))
	return d, nil
}

func (a *Adapter) loadFailed(source string, err error) (blog.Dataset, error) {
	loadErrors.Inc()
	log.Errorf("load from %s failed: %v", source, err)
	return blog.Dataset{}, &LoadError{Source: source, Err: err}
}

// Save overwrites the slot with d. A dataset that Load would reject is refused with
// a *ParseError and the slot is left as it was.
func (a *Adapter) Save(ctx context.Context, d blog.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if problems := d.Problems(); len(problems) > 0 {
		return &ParseError{Problems: problems}
	}

	blob, err := a.codec.Encode(d)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := a.st.Set(a.key, blob); err != nil {
		return fmt.Errorf("write slot %q: %w", a.key, err)
	}

	saves.Inc()
	lastBlobBytes.Store(int64(len(blob)))
	log.Debugf("saved %d posts to slot %q (%d bytes)", len(d.Posts), a.key, len(blob))
	return nil
}

// --------------------------------------------------------------------------
// Maintenance
// --------------------------------------------------------------------------

// Reset empties the slot so that the next Load seeds it again
func (a *Adapter) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.st.Delete(a.key); err != nil {
		return fmt.Errorf("delete slot %q: %w", a.key, err)
	}
	resets.Inc()
	log.Infof("slot %q reset", a.key)
	return nil
}

// Raw returns the stored blob unchanged. The boolean is false if the slot is empty.
func (a *Adapter) Raw(ctx context.Context) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	raw, ok, err := a.st.Get(a.key)
	if err != nil {
		return nil, false, fmt.Errorf("read slot %q: %w", a.key, err)
	}
	return raw, ok, nil
}

// Info reports the state of the engine behind the slot
func (a *Adapter) Info() (db.DatabaseInfo, error) {
	return a.st.GetDBInfo()
}
