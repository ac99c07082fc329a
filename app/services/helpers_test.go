package services

import (
	"context"
	"io"
	"sync"
	"testing"

	"postboard/app/client"
	"postboard/app/logging"
	"postboard/app/models"
	"postboard/app/repositories/mock"
	"postboard/app/testutil"
)

func newTestService(t *testing.T, posts []models.Post, users []models.User, comments []models.Comment) (*PostService, *testutil.FakeAPI, *mock.CommentStore) {
	t.Helper()
	api := testutil.NewFakeAPI(t, posts, users, comments)
	c := client.NewClient(api.URL(), nil, client.WithLogger(logging.New(io.Discard, "error", false)))
	store := mock.NewCommentStore()
	return NewPostService(c, store), api, store
}

// gatedSource blocks the next Posts call until released.
type gatedSource struct {
	Source

	mu      sync.Mutex
	gate    chan struct{}
	entered chan struct{}
}

func (g *gatedSource) hold() (entered <-chan struct{}, release chan<- struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gate = make(chan struct{})
	g.entered = make(chan struct{})
	return g.entered, g.gate
}

func (g *gatedSource) Posts(ctx context.Context) ([]models.Post, error) {
	g.mu.Lock()
	gate, entered := g.gate, g.entered
	g.gate, g.entered = nil, nil
	g.mu.Unlock()

	if gate != nil {
		close(entered)
		<-gate
	}
	return g.Source.Posts(ctx)
}

func ids(posts []models.BlogPost) []int {
	out := make([]int, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func seq(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
