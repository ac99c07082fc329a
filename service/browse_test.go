package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"postboard/app/client"
	"postboard/app/config"
	"postboard/app/models"
	"postboard/app/services"
	"postboard/app/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func browsePosts(n int) []models.Post {
	posts := make([]models.Post, 0, n)
	for i := 1; i <= n; i++ {
		posts = append(posts, models.Post{
			ID:     i,
			UserID: (i-1)%2 + 1,
			Title:  fmt.Sprintf("post number %d", i),
			Body:   "plain body",
		})
	}
	posts[4].Title = "zzneedle in a haystack"
	return posts
}

func newBrowseService(t *testing.T, api *testutil.FakeAPI) *services.PostService {
	t.Helper()
	mem, err := client.NewMemoryCache()
	require.NoError(t, err)
	t.Cleanup(mem.Close)
	return services.NewPostService(client.NewClient(api.URL(), mem), nil)
}

func TestBrowse(t *testing.T) {
	api := testutil.NewFakeAPI(t, browsePosts(12), testutil.Users(2), nil)
	posts := newBrowseService(t, api)

	tests := []struct {
		name     string
		input    string
		userID   int
		contains []string
		absent   []string
	}{
		{
			name:     "first page",
			input:    "",
			contains: []string{"Showing 9 of 12 posts (page 1)", "  1. [1] post number 1 by ", "  9. [9] post number 9"},
			absent:   []string{"[10]"},
		},
		{
			name:     "load more until exhausted",
			input:    "more\nmore\nq\n",
			contains: []string{"Showing 12 of 12 posts (page 2)", " 12. [12] post number 12", "No more posts"},
		},
		{
			name:     "owner filter",
			input:    "q\n",
			userID:   2,
			contains: []string{"Showing 6 of 6 posts (page 1)", "  1. [2] post number 2"},
			absent:   []string{"[1] post number 1 "},
		},
		{
			name:     "search runs on quit",
			input:    "/ZZNeedle\nq\n",
			contains: []string{`Search "zzneedle": 1 results`, "  1. [5] zzneedle in a haystack"},
		},
		{
			name:     "only the last search runs",
			input:    "/number 1\n/zzneedle\n",
			contains: []string{`Search "zzneedle": 1 results`},
			absent:   []string{`Search "number 1"`},
		},
		{
			name:     "unknown input prints the prompt",
			input:    "what\n",
			contains: []string{browsePrompt + "\n" + browsePrompt + "\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := Browse(context.Background(), posts, time.Hour, tt.userID, strings.NewReader(tt.input), &out)
			require.NoError(t, err)

			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func TestBrowseClearSearchDoesNotFetch(t *testing.T) {
	api := testutil.NewFakeAPI(t, browsePosts(12), testutil.Users(2), nil)
	posts := newBrowseService(t, api)

	var out bytes.Buffer
	err := Browse(context.Background(), posts, time.Hour, 0, strings.NewReader("/\nq\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, 1, api.Hits("/posts"))
	assert.Equal(t, 1, strings.Count(out.String(), "Showing 9 of 12 posts"))
}

func TestBrowseStartFailure(t *testing.T) {
	api := testutil.NewFakeAPI(t, browsePosts(3), testutil.Users(2), nil)
	api.Fail("/posts", http.StatusInternalServerError)
	posts := newBrowseService(t, api)

	var out bytes.Buffer
	err := Browse(context.Background(), posts, time.Hour, 0, strings.NewReader("q\n"), &out)
	require.Error(t, err)
	assert.Empty(t, out.String())
}

func TestRunBrowse(t *testing.T) {
	api := testutil.NewFakeAPI(t, browsePosts(4), testutil.Users(2), nil)
	cfg := &config.Config{
		APIBaseURL:     api.URL(),
		CacheTTL:       time.Minute,
		HTTPTimeout:    5 * time.Second,
		SearchDebounce: time.Millisecond,
	}

	var out bytes.Buffer
	err := RunBrowse(context.Background(), cfg, 0, strings.NewReader("q\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Showing 4 of 4 posts (page 1)")
}
