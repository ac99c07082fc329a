package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"postboard/app/models"
)

// PageSize is how many posts one "load more" adds.
const PageSize = 9

// ErrSuperseded is returned when a newer action started while this one was
// fetching; its result was discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// Feed is the incremental listing a reader scrolls through: pages of
// PageSize posts, optionally narrowed to one owner, and a search mode that
// bypasses paging and filters the whole corpus.
//
// Every fetching action takes a request token. Only the response holding the
// latest token is applied, so the last input wins.
type Feed struct {
	service  *PostService
	userID   int
	debounce *Debouncer

	mu          sync.Mutex
	token       uint64
	started     bool
	page        int
	total       int
	accumulated []models.BlogPost
	search      string
	results     []models.BlogPost
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithOwner restricts the paged listing to one user's posts.
func WithOwner(userID int) FeedOption {
	return func(f *Feed) { f.userID = userID }
}

// WithDebouncer sets the debouncer used by QueueSearch.
func WithDebouncer(d *Debouncer) FeedOption {
	return func(f *Feed) { f.debounce = d }
}

// NewFeed creates an empty feed; call Start to load the first page.
func NewFeed(service *PostService, opts ...FeedOption) *Feed {
	f := &Feed{service: service}
	for _, opt := range opts {
		opt(f)
	}
	if f.debounce == nil {
		f.debounce = NewDebouncer(DefaultDebounce)
	}
	return f
}

func (f *Feed) nextToken() uint64 {
	f.token++
	return f.token
}

// Start loads the first page, resetting any pages loaded before.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	token := f.nextToken()
	f.mu.Unlock()

	joined, err := f.service.Joined(ctx, f.userID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.token {
		return ErrSuperseded
	}
	if err != nil {
		return err
	}
	f.started = true
	f.page = 1
	f.total = len(joined)
	f.accumulated = append([]models.BlogPost(nil), joined[:min(PageSize, len(joined))]...)
	return nil
}

// LoadMore appends the next page. Once every post is shown it does nothing
// and fetches nothing.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if !f.started {
		f.mu.Unlock()
		return f.Start(ctx)
	}
	if len(f.accumulated) >= f.total {
		f.mu.Unlock()
		return nil
	}
	token := f.nextToken()
	page := f.page
	f.mu.Unlock()

	joined, err := f.service.Joined(ctx, f.userID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.token {
		return ErrSuperseded
	}
	if err != nil {
		return err
	}
	start := min(page*PageSize, len(joined))
	end := min(start+PageSize, len(joined))
	f.accumulated = append(f.accumulated, joined[start:end]...)
	f.page = page + 1
	f.total = len(joined)
	return nil
}

// SetSearch switches to search mode: the full corpus is fetched again and
// filtered by term. An empty term clears the search.
func (f *Feed) SetSearch(ctx context.Context, term string) error {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		f.ClearSearch()
		return nil
	}

	f.mu.Lock()
	token := f.nextToken()
	f.mu.Unlock()

	joined, err := f.service.Joined(ctx, 0)

	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.token {
		return ErrSuperseded
	}
	if err != nil {
		return err
	}
	f.search = term
	f.results = Search(joined, term)
	return nil
}

// ClearSearch returns to the paged view without fetching. A search still in
// flight is discarded when it completes.
func (f *Feed) ClearSearch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextToken()
	f.search = ""
	f.results = nil
}

// QueueSearch runs SetSearch once term has been left alone for the debounce
// period. Earlier queued terms are dropped. done, if set, receives the result.
func (f *Feed) QueueSearch(ctx context.Context, term string, done func(error)) {
	f.debounce.Trigger(func() {
		err := f.SetSearch(ctx, term)
		if done != nil {
			done(err)
		}
	})
}

// Visible is what the reader sees: search results in search mode, the loaded
// pages otherwise.
func (f *Feed) Visible() []models.BlogPost {
	f.mu.Lock()
	defer f.mu.Unlock()
	src := f.accumulated
	if f.search != "" {
		src = f.results
	}
	return append([]models.BlogPost{}, src...)
}

// HasMore reports whether LoadMore would add anything. Always false while
// searching.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.search == "" && len(f.accumulated) < f.total
}

// Page is the number of pages loaded.
func (f *Feed) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page
}

// Total is the size of the (owner filtered) listing.
func (f *Feed) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

// Search is the active search term, empty outside search mode.
func (f *Feed) Search() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.search
}

// Flush runs a queued search now and waits for it.
func (f *Feed) Flush() {
	f.debounce.Flush()
}

// Close cancels a queued search.
func (f *Feed) Close() {
	f.debounce.Stop()
}
