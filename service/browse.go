package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"postboard/app/client"
	"postboard/app/config"
	"postboard/app/logging"
	"postboard/app/services"
)

const browsePrompt = `Type "more" to load more, "/term" to search, "/" to clear, "q" to quit.`

// browser prints a Feed to a terminal. Output from debounced searches and
// from the input loop is serialized.
type browser struct {
	feed *services.Feed

	mu  sync.Mutex
	out io.Writer
}

func (b *browser) printf(format string, args ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}

func (b *browser) show() {
	posts := b.feed.Visible()
	b.mu.Lock()
	defer b.mu.Unlock()
	if term := b.feed.Search(); term != "" {
		fmt.Fprintf(b.out, "Search %q: %d results\n", term, len(posts))
	} else {
		fmt.Fprintf(b.out, "Showing %d of %d posts (page %d)\n", len(posts), b.feed.Total(), b.feed.Page())
	}
	for i, p := range posts {
		fmt.Fprintf(b.out, "%3d. [%d] %s by %s (%s)\n", i+1, p.ID, p.Title, p.Author.Name, p.Category)
	}
}

func (b *browser) searched(err error) {
	switch {
	case errors.Is(err, services.ErrSuperseded):
	case err != nil:
		b.printf("error: %v\n", err)
	default:
		b.show()
	}
}

// Browse runs the interactive listing over in and out: load more, debounced
// search and clearing the search. It returns when in is exhausted or "q" is
// read, after running any queued search.
func Browse(ctx context.Context, posts *services.PostService, delay time.Duration, userID int, in io.Reader, out io.Writer) error {
	feed := services.NewFeed(posts,
		services.WithOwner(userID),
		services.WithDebouncer(services.NewDebouncer(delay)),
	)
	defer feed.Close()
	b := &browser{feed: feed, out: out}

	if err := feed.Start(ctx); err != nil {
		return err
	}
	b.show()
	b.printf("%s\n", browsePrompt)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "q" || line == "quit":
			feed.Flush()
			return nil
		case line == "more":
			if !feed.HasMore() {
				b.printf("No more posts\n")
				continue
			}
			if err := feed.LoadMore(ctx); err != nil {
				b.searched(err)
				continue
			}
			b.show()
		case strings.HasPrefix(line, "/"):
			feed.QueueSearch(ctx, strings.TrimPrefix(line, "/"), b.searched)
		default:
			b.printf("%s\n", browsePrompt)
		}
	}
	feed.Flush()
	return scanner.Err()
}

// RunBrowse browses the configured API from the terminal.
func RunBrowse(ctx context.Context, cfg *config.Config, userID int, in io.Reader, out io.Writer) error {
	mem, err := client.NewMemoryCache()
	if err != nil {
		return err
	}
	defer mem.Close()

	posts := services.NewPostService(newClient(cfg, mem), nil)
	if err := Browse(ctx, posts, cfg.SearchDebounce, userID, in, out); err != nil {
		logging.Logger.ErrorContext(ctx, "browse failed", "error", err)
		return err
	}
	return nil
}
