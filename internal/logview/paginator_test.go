package logview

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matrixlogger/mxl/pkg/types"
)

func makeEntries(ids ...string) []types.LogEntry {
	entries := make([]types.LogEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, types.LogEntry{
			ID:        id,
			AppID:     "a1",
			Message:   "message " + id,
			Timestamp: time.Now(),
		})
	}
	return entries
}

func page(hasNext bool, nextCursor string, ids ...string) *types.LogPage {
	return &types.LogPage{
		Data: makeEntries(ids...),
		Pagination: types.Pagination{
			HasNextPage: hasNext,
			NextCursor:  nextCursor,
			Limit:       50,
		},
	}
}

// pagedFetcher serves a scripted sequence of pages keyed by cursor.
type pagedFetcher struct {
	pages map[string]*types.LogPage
	calls []string
	err   error
}

func (f *pagedFetcher) fetch(ctx context.Context, appID, cursor string, limit int) (*types.LogPage, error) {
	f.calls = append(f.calls, cursor)
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.pages[cursor]
	if !ok {
		return nil, fmt.Errorf("no page for cursor %q", cursor)
	}
	return p, nil
}

func TestPaginatorInitialThenMore(t *testing.T) {
	f := &pagedFetcher{pages: map[string]*types.LogPage{
		"":   page(true, "c1", "1", "2", "3"),
		"c1": page(false, "", "4", "5"),
	}}
	p := NewPaginator(f.fetch, "a1", 50)

	if err := p.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	if p.State() != StateIdle {
		t.Fatalf("state = %v, want idle", p.State())
	}
	if got := len(p.Entries()); got != 3 {
		t.Fatalf("entries = %d, want 3", got)
	}

	if err := p.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if p.State() != StateExhausted {
		t.Fatalf("state = %v, want exhausted", p.State())
	}
	if got := len(p.Entries()); got != 5 {
		t.Fatalf("entries = %d, want 5", got)
	}
	if f.calls[1] != "c1" {
		t.Fatalf("second fetch used cursor %q, want c1", f.calls[1])
	}
}

// Overlapping windows happen when the server receives writes between
// page fetches; the duplicate must be dropped, the fresh entry kept.
func TestPaginatorMergeDropsDuplicates(t *testing.T) {
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i)
	}
	f := &pagedFetcher{pages: map[string]*types.LogPage{
		"":   page(true, "c1", ids...),
		"c1": page(false, "", "5", "50"),
	}}
	p := NewPaginator(f.fetch, "a1", 50)

	if err := p.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	if err := p.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}

	entries := p.Entries()
	if len(entries) != 51 {
		t.Fatalf("entries = %d, want 51 (50 + 1 fresh)", len(entries))
	}

	seen := make(map[string]int)
	for _, e := range entries {
		seen[e.ID]++
	}
	if seen["5"] != 1 {
		t.Errorf("entry 5 appears %d times, want 1", seen["5"])
	}
	if seen["50"] != 1 {
		t.Errorf("entry 50 appears %d times, want 1", seen["50"])
	}
	if entries[len(entries)-1].ID != "50" {
		t.Errorf("last entry = %q, want 50 appended", entries[len(entries)-1].ID)
	}
}

func TestPaginatorExhaustedNeverFetches(t *testing.T) {
	f := &pagedFetcher{pages: map[string]*types.LogPage{
		"": page(false, "", "1"),
	}}
	p := NewPaginator(f.fetch, "a1", 50)

	if err := p.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	if p.State() != StateExhausted {
		t.Fatalf("state = %v, want exhausted", p.State())
	}

	for i := 0; i < 10; i++ {
		if err := p.LoadMore(context.Background()); err != nil {
			t.Fatalf("LoadMore: %v", err)
		}
	}
	if got := len(f.calls); got != 1 {
		t.Fatalf("fetch called %d times, want 1", got)
	}
}

func TestPaginatorSingleInFlight(t *testing.T) {
	f := &pagedFetcher{pages: map[string]*types.LogPage{
		"": page(true, "c1", "1"),
	}}
	p := NewPaginator(f.fetch, "a1", 50)
	if err := p.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}

	// First trigger wins, rapid repeats are rejected.
	if _, _, ok := p.BeginMore(); !ok {
		t.Fatal("first BeginMore rejected")
	}
	if _, _, ok := p.BeginMore(); ok {
		t.Fatal("second BeginMore accepted while fetch in flight")
	}
}

func TestPaginatorErrorPreservesEntries(t *testing.T) {
	f := &pagedFetcher{pages: map[string]*types.LogPage{
		"": page(true, "c1", "1", "2"),
	}}
	p := NewPaginator(f.fetch, "a1", 50)
	if err := p.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}

	f.err = errors.New("server unavailable")
	if err := p.LoadMore(context.Background()); err == nil {
		t.Fatal("LoadMore succeeded, want error")
	}
	if p.State() != StateError {
		t.Fatalf("state = %v, want error", p.State())
	}
	if got := len(p.Entries()); got != 2 {
		t.Fatalf("entries = %d after failure, want 2 preserved", got)
	}
}

func TestPaginatorStaleGenerationDiscarded(t *testing.T) {
	f := &pagedFetcher{pages: map[string]*types.LogPage{
		"": page(true, "c1", "1", "2"),
	}}
	p := NewPaginator(f.fetch, "a1", 50)
	if err := p.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}

	// A next-page fetch departs, then a reload supersedes it.
	_, staleGen, ok := p.BeginMore()
	if !ok {
		t.Fatal("BeginMore rejected")
	}
	freshGen := p.BeginInitial()

	// The superseded response lands late and must be dropped.
	if applied := p.Complete(staleGen, page(false, "", "9"), nil); applied {
		t.Fatal("stale response was applied")
	}
	if applied := p.Complete(freshGen, page(false, "", "7"), nil); !applied {
		t.Fatal("fresh response was dropped")
	}

	entries := p.Entries()
	if len(entries) != 1 || entries[0].ID != "7" {
		t.Fatalf("entries = %v, want just the reloaded entry 7", entries)
	}
}

func TestPaginatorReloadReplacesList(t *testing.T) {
	first := page(true, "c1", "1", "2")
	f := &pagedFetcher{pages: map[string]*types.LogPage{"": first}}
	p := NewPaginator(f.fetch, "a1", 50)
	if err := p.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}

	f.pages[""] = page(false, "", "3")
	if err := p.LoadInitial(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	entries := p.Entries()
	if len(entries) != 1 || entries[0].ID != "3" {
		t.Fatalf("entries = %v, want replaced list [3]", entries)
	}
}

func TestPaginatorPollHeadPrepends(t *testing.T) {
	f := &pagedFetcher{pages: map[string]*types.LogPage{
		"": page(true, "c1", "3", "2", "1"),
	}}
	p := NewPaginator(f.fetch, "a1", 50)
	if err := p.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}

	// Two new entries arrive at the head, overlapping the old window.
	f.pages[""] = page(true, "c2", "5", "4", "3", "2")
	fresh, err := p.PollHead(context.Background())
	if err != nil {
		t.Fatalf("PollHead: %v", err)
	}
	if fresh != 2 {
		t.Fatalf("fresh = %d, want 2", fresh)
	}

	entries := p.Entries()
	want := []string{"5", "4", "3", "2", "1"}
	if len(entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(entries), len(want))
	}
	for i, id := range want {
		if entries[i].ID != id {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].ID, id)
		}
	}
}

// For any sequence of pages with arbitrarily overlapping windows, the
// merged list contains each id exactly once.
func TestPaginatorDedupProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.MaxSize = 8

	properties := gopter.NewProperties(parameters)

	genPage := gen.SliceOfN(8, gen.IntRange(0, 30)).Map(func(ids []int) []string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = fmt.Sprintf("id-%d", id)
		}
		return out
	})

	properties.Property("merged list has no duplicate ids", prop.ForAll(
		func(pages [][]string) bool {
			fetchPages := make(map[string]*types.LogPage)
			for i, ids := range pages {
				cursor := ""
				if i > 0 {
					cursor = fmt.Sprintf("c%d", i)
				}
				hasNext := i < len(pages)-1
				nextCursor := ""
				if hasNext {
					nextCursor = fmt.Sprintf("c%d", i+1)
				}
				fetchPages[cursor] = page(hasNext, nextCursor, ids...)
			}

			f := &pagedFetcher{pages: fetchPages}
			p := NewPaginator(f.fetch, "a1", 50)
			if err := p.LoadInitial(context.Background()); err != nil {
				return false
			}
			for p.State() == StateIdle {
				if err := p.LoadMore(context.Background()); err != nil {
					return false
				}
			}

			seen := make(map[string]bool)
			for _, e := range p.Entries() {
				if seen[e.ID] {
					return false
				}
				seen[e.ID] = true
			}
			return true
		},
		gen.SliceOf(genPage).SuchThat(func(pages [][]string) bool {
			return len(pages) >= 1
		}),
	))

	properties.TestingRun(t)
}
