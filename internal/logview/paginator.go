// Package logview implements the incremental log viewer: a cursor
// paginator over the log stream and the terminal models that render it.
package logview

import (
	"context"

	"github.com/matrixlogger/mxl/pkg/types"
)

// State is the paginator's position in its fetch lifecycle.
type State int

const (
	// StateIdle means a page is loaded and more are available.
	StateIdle State = iota
	// StateFetchingInitial means the first page (or a reload) is in flight.
	StateFetchingInitial
	// StateFetchingMore means a follow-up page is in flight.
	StateFetchingMore
	// StateExhausted means the stream has no further pages.
	StateExhausted
	// StateError means the last fetch failed; loaded entries are kept.
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetchingInitial:
		return "fetching-initial"
	case StateFetchingMore:
		return "fetching-more"
	case StateExhausted:
		return "exhausted"
	case StateError:
		return "error"
	}
	return "unknown"
}

// FetchFunc fetches one page of logs for an app. An empty cursor
// requests the head of the stream.
type FetchFunc func(ctx context.Context, appID, cursor string, limit int) (*types.LogPage, error)

// Paginator accumulates pages of log entries for one app, newest first.
// It allows at most one in-flight fetch, deduplicates entries by ID
// across pages, and tags every fetch with a generation so that a
// response landing after a newer fetch started is discarded instead of
// overwriting fresher state.
type Paginator struct {
	fetch FetchFunc
	appID string
	limit int

	state      State
	entries    []types.LogEntry
	seen       map[string]struct{}
	pagination types.Pagination
	generation uint64
	lastErr    error
}

// NewPaginator creates a paginator for one app's log stream.
func NewPaginator(fetch FetchFunc, appID string, limit int) *Paginator {
	return &Paginator{
		fetch: fetch,
		appID: appID,
		limit: limit,
		seen:  make(map[string]struct{}),
	}
}

// State returns the current lifecycle state.
func (p *Paginator) State() State {
	return p.state
}

// Entries returns the merged list, newest first.
func (p *Paginator) Entries() []types.LogEntry {
	return p.entries
}

// Err returns the error from the last failed fetch, if any.
func (p *Paginator) Err() error {
	return p.lastErr
}

// HasNextPage reports whether the server advertised further pages.
func (p *Paginator) HasNextPage() bool {
	return p.state != StateExhausted && p.pagination.HasNextPage
}

// Fetching reports whether a fetch is in flight.
func (p *Paginator) Fetching() bool {
	return p.state == StateFetchingInitial || p.state == StateFetchingMore
}

// BeginInitial starts a head-of-stream fetch, replacing the list on
// completion. Allowed from any state: it is the reload path, and an
// in-flight fetch is superseded by bumping the generation so its
// response arrives stale and is discarded. Returns the generation to
// pass to Complete.
func (p *Paginator) BeginInitial() uint64 {
	p.generation++
	p.state = StateFetchingInitial
	return p.generation
}

// BeginMore starts a next-page fetch. Allowed only when idle with a
// next page advertised; rapid repeated triggers while a fetch is in
// flight are rejected here.
func (p *Paginator) BeginMore() (cursor string, gen uint64, ok bool) {
	if p.state != StateIdle || !p.pagination.HasNextPage {
		return "", 0, false
	}
	p.generation++
	p.state = StateFetchingMore
	return p.pagination.NextCursor, p.generation, true
}

// Complete applies a finished fetch. Responses whose generation is not
// the latest are stale (superseded by a newer fetch) and are dropped,
// returning false. A failed fetch moves to StateError and keeps the
// entries already loaded.
func (p *Paginator) Complete(gen uint64, page *types.LogPage, err error) bool {
	if gen != p.generation {
		return false
	}
	initial := p.state == StateFetchingInitial

	if err != nil {
		p.state = StateError
		p.lastErr = err
		return true
	}
	p.lastErr = nil

	if initial {
		p.entries = nil
		p.seen = make(map[string]struct{})
	}
	p.merge(page.Data, false)
	p.pagination = page.Pagination

	if page.Pagination.HasNextPage {
		p.state = StateIdle
	} else {
		p.state = StateExhausted
	}
	return true
}

// merge appends (or, for head merges, prepends) entries whose IDs are
// not already present. Overlapping windows happen when the server
// receives writes between page fetches.
func (p *Paginator) merge(incoming []types.LogEntry, head bool) int {
	var fresh []types.LogEntry
	for _, entry := range incoming {
		if _, dup := p.seen[entry.ID]; dup {
			continue
		}
		p.seen[entry.ID] = struct{}{}
		fresh = append(fresh, entry)
	}
	if head {
		p.entries = append(fresh, p.entries...)
	} else {
		p.entries = append(p.entries, fresh...)
	}
	return len(fresh)
}

// LoadInitial fetches the head page synchronously.
func (p *Paginator) LoadInitial(ctx context.Context) error {
	gen := p.BeginInitial()
	page, err := p.fetch(ctx, p.appID, "", p.limit)
	p.Complete(gen, page, err)
	return p.lastErr
}

// LoadMore fetches the next page synchronously. A no-op unless idle
// with a next page available.
func (p *Paginator) LoadMore(ctx context.Context) error {
	cursor, gen, ok := p.BeginMore()
	if !ok {
		return nil
	}
	page, err := p.fetch(ctx, p.appID, cursor, p.limit)
	p.Complete(gen, page, err)
	return p.lastErr
}

// FetchPage performs the raw page fetch. Used by the viewer's async
// commands; state transitions stay in Begin*/Complete.
func (p *Paginator) FetchPage(ctx context.Context, cursor string) (*types.LogPage, error) {
	return p.fetch(ctx, p.appID, cursor, p.limit)
}

// PollHead fetches the head page and prepends entries not yet seen,
// without disturbing the scroll-back pagination below it. Used by
// follow mode. Returns the number of new entries.
func (p *Paginator) PollHead(ctx context.Context) (int, error) {
	if p.Fetching() {
		return 0, nil
	}
	page, err := p.fetch(ctx, p.appID, "", p.limit)
	if err != nil {
		return 0, err
	}
	return p.merge(page.Data, true), nil
}
