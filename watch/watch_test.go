package watch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `openapi: 3.1.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      summary: List pets
`

const changedYAML = `openapi: 3.1.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      summary: List all pets
`

func writeSpec(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestSyncSeedsThenReconciles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.yaml")
	writeSpec(t, path, baseYAML)

	var updates []Update
	p := NewPoller(path, WithNotify(func(u Update) { updates = append(updates, u) }))
	ctx := context.Background()

	require.NoError(t, p.Sync(ctx))
	require.NotNil(t, p.Store())
	require.Len(t, updates, 1)
	assert.Nil(t, updates[0].Result, "first sync seeds the store, no plan")
	assert.Equal(t, "Petstore", p.Store().Tables().Collection.Name)

	// Unchanged content: no update at all.
	require.NoError(t, p.Sync(ctx))
	assert.Len(t, updates, 1)

	writeSpec(t, path, changedYAML)
	require.NoError(t, p.Sync(ctx))
	require.Len(t, updates, 2)

	u := updates[1]
	require.NotNil(t, u.Result)
	assert.NotEmpty(t, u.Entries)
	assert.NotEmpty(t, u.Patch, "raw change should carry an RFC 6902 patch")
	assert.Equal(t, len(u.Result.Commands), u.Applied)

	coll := p.Store().Tables().Collection
	req := p.Store().Tables().Requests[coll.RequestUIDs[0]]
	assert.Equal(t, "List all pets", req.Body["summary"])
}

const taggedYAML = `openapi: 3.1.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      summary: List pets
      tags:
        - a
`

const retaggedYAML = `openapi: 3.1.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      summary: List pets
      tags:
        - b
`

func TestSyncReseedsOnApplyFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.yaml")
	writeSpec(t, path, taggedYAML)

	var updates []Update
	var gotErr error
	p := NewPoller(path,
		WithNotify(func(u Update) { updates = append(updates, u) }),
		WithErrorHandler(func(err error) { gotErr = err }))
	ctx := context.Background()

	require.NoError(t, p.Sync(ctx))
	tables := p.Store().Tables()
	req := tables.Requests[tables.Collection.RequestUIDs[0]]

	// Corrupt the stored body so the planned tags.0 edit cannot land: the
	// plan comes from the raw document diff, the apply hits these tables.
	req.Body["tags"] = []any{}

	writeSpec(t, path, retaggedYAML)
	require.Error(t, p.Sync(ctx))
	require.Error(t, gotErr)
	require.Len(t, updates, 2)
	assert.Less(t, updates[1].Applied, len(updates[1].Result.Commands))

	// The failed apply reseeds the store from the fetched document, so the
	// tables match the remote rather than sitting between two baselines.
	tables = p.Store().Tables()
	req = tables.Requests[tables.Collection.RequestUIDs[0]]
	assert.Equal(t, []any{"b"}, req.Body["tags"])

	// The baseline advanced with the reseed: the same content does not get
	// re-planned (which would double-apply adds and array pushes).
	require.NoError(t, p.Sync(ctx))
	assert.Len(t, updates, 2)
}

func TestSyncReportsFetchErrors(t *testing.T) {
	var gotErr error
	p := NewPoller(filepath.Join(t.TempDir(), "missing.yaml"),
		WithErrorHandler(func(err error) { gotErr = err }))

	require.Error(t, p.Sync(context.Background()))
	assert.Error(t, gotErr)
	assert.Nil(t, p.Store())
}

func TestPollerRunPolls(t *testing.T) {
	var mu sync.Mutex
	fetches := 0
	body := baseYAML
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		fetches++
		mu.Unlock()
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	updated := make(chan Update, 8)
	p := NewPoller(srv.URL,
		WithInterval(20*time.Millisecond),
		WithNotify(func(u Update) { updated <- u }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// Seed update.
	select {
	case <-updated:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the seed sync")
	}

	mu.Lock()
	body = changedYAML
	mu.Unlock()

	select {
	case u := <-updated:
		require.NotNil(t, u.Result)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the change sync")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	mu.Lock()
	assert.GreaterOrEqual(t, fetches, 2)
	mu.Unlock()
}

func TestWatcherRunReactsToWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.yaml")
	writeSpec(t, path, baseYAML)

	updated := make(chan Update, 8)
	w := NewWatcher(path, WithNotify(func(u Update) { updated <- u }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-updated:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the seed sync")
	}

	writeSpec(t, path, changedYAML)

	select {
	case u := <-updated:
		require.NotNil(t, u.Result)
		req := w.Store().Tables().Requests[w.Store().Tables().Collection.RequestUIDs[0]]
		assert.Equal(t, "List all pets", req.Body["summary"])
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the write sync")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
