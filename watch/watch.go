// Package watch drives the fetch → diff → plan → apply pipeline around the
// reconcile core. A Poller re-fetches a document location on an interval;
// a Watcher reacts to filesystem events on a local file. Both skip
// unchanged content by hash, translate the raw change into mutation
// commands against an in-memory store, and notify a callback with the plan
// plus an RFC 6902 patch of the raw document change.
package watch

import (
	"context"
	"time"

	"github.com/wI2L/jsondiff"

	"github.com/erraggy/oassync/entity"
	"github.com/erraggy/oassync/reconcile"
	"github.com/erraggy/oassync/remote"
	"github.com/erraggy/oassync/store"
	"github.com/erraggy/oassync/structdiff"
)

// Update describes one completed sync: the fetched document, the diff
// against the previous baseline, the reconciliation result, the RFC 6902
// patch of the raw change, and how many commands were applied.
//
// The first successful fetch seeds the store from the document whole; its
// Update carries the document only.
type Update struct {
	Document *remote.Document
	Entries  []structdiff.Entry
	Result   *reconcile.Result
	Patch    jsondiff.Patch
	Applied  int
}

// NotifyFunc receives one Update per sync that changed anything.
type NotifyFunc func(Update)

// ErrorFunc receives fetch and apply errors. The pipeline keeps running
// after an error: a failed fetch leaves the baseline untouched, while a
// failed apply reseeds the store from the fetched document so the tables
// never sit between two baselines.
type ErrorFunc func(error)

// Option configures a Poller or Watcher.
type Option func(*session)

// WithInterval sets the polling interval. It is ignored by Watcher.
// Non-positive values keep the default of 30 seconds.
func WithInterval(d time.Duration) Option {
	return func(s *session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithFetcher substitutes the document fetcher.
func WithFetcher(f *remote.Fetcher) Option {
	return func(s *session) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithNotify sets the callback invoked after each effective sync.
func WithNotify(fn NotifyFunc) Option {
	return func(s *session) {
		if fn != nil {
			s.notify = fn
		}
	}
}

// WithErrorHandler sets the callback invoked on fetch and apply errors.
func WithErrorHandler(fn ErrorFunc) Option {
	return func(s *session) {
		if fn != nil {
			s.onError = fn
		}
	}
}

// WithDiffFunc substitutes the structural diff used between document
// versions and inside rename combining.
func WithDiffFunc(fn structdiff.DiffFunc) Option {
	return func(s *session) {
		if fn != nil {
			s.diff = fn
		}
	}
}

// session is the pipeline state shared by Poller and Watcher.
type session struct {
	location string
	interval time.Duration
	fetcher  *remote.Fetcher
	diff     structdiff.DiffFunc
	notify   NotifyFunc
	onError  ErrorFunc

	store    *store.Memory
	baseline *remote.Document
}

func newSession(location string, opts ...Option) session {
	s := session{
		location: location,
		interval: 30 * time.Second,
		fetcher:  &remote.Fetcher{},
		diff:     structdiff.Diff,
		notify:   func(Update) {},
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Store returns the in-memory store the pipeline applies to. It is nil
// until the first successful fetch seeds it.
func (s *session) Store() *store.Memory {
	return s.store
}

// sync performs one fetch-and-reconcile step. Unchanged content is a no-op.
func (s *session) sync(ctx context.Context) error {
	doc, err := s.fetcher.Fetch(ctx, s.location)
	if err != nil {
		s.onError(err)
		return err
	}

	if s.baseline == nil {
		s.store = store.New(entity.FromDocument(doc.Raw))
		s.baseline = doc
		s.notify(Update{Document: doc})
		return nil
	}
	if doc.Hash == s.baseline.Hash {
		return nil
	}

	entries := s.diff(s.baseline.Raw, doc.Raw)
	res := reconcile.New(s.store.Tables(), reconcile.WithDiffFunc(s.diff)).Plan(entries)

	// The patch is advisory context for subscribers; a patch failure
	// never blocks the sync.
	patch, perr := jsondiff.Compare(s.baseline.Raw, doc.Raw)
	if perr != nil {
		patch = nil
	}

	applied, err := s.store.Apply(res.Commands)
	if err != nil {
		// A partial apply leaves the tables between two baselines, and
		// re-planning the same entries against them would double-apply
		// adds and array pushes. Reseed from the fetched document instead.
		s.store.Reset(entity.FromDocument(doc.Raw))
	}
	s.notify(Update{
		Document: doc,
		Entries:  entries,
		Result:   res,
		Patch:    patch,
		Applied:  applied,
	})
	s.baseline = doc
	if err != nil {
		s.onError(err)
		return err
	}
	return nil
}
