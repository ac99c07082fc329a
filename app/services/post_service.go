package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"postboard/app/enrich"
	"postboard/app/logging"
	"postboard/app/models"
	"postboard/app/presenters"
	"postboard/app/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultLimit is the listing page length when the caller sets none.
	DefaultLimit = 100
	// MaxLimit caps the listing page length.
	MaxLimit = 1000
)

var (
	// ErrPostNotFound is returned when the requested post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrInvalidQuery wraps listing query decoding and validation failures.
	ErrInvalidQuery = errors.New("invalid query")

	validate = validator.New()
	decoder  = newDecoder()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// ListQuery is the listing query accepted by the JSON API.
type ListQuery struct {
	Limit  int    `schema:"limit" validate:"gte=0,lte=1000"`
	Offset int    `schema:"offset" validate:"gte=0"`
	Search string `schema:"search"`
	UserID int    `schema:"userId" validate:"gte=0"`
}

// ListResult is one slice of the joined listing.
type ListResult struct {
	Posts   []models.BlogPost `json:"posts"`
	Total   int               `json:"total"`
	HasMore bool              `json:"hasMore"`
}

// PostDetail is a post together with its author and merged comments.
type PostDetail struct {
	Post     models.BlogPost      `json:"post"`
	User     *models.User         `json:"user,omitempty"`
	Author   *models.EnhancedUser `json:"author,omitempty"`
	Comments []models.Comment     `json:"comments"`
}

// ParseListQuery decodes and validates listing query parameters.
func ParseListQuery(values url.Values) (ListQuery, error) {
	q := ListQuery{Limit: DefaultLimit}
	if err := decoder.Decode(&q, values); err != nil {
		return ListQuery{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	q.Search = strings.TrimSpace(q.Search)
	if err := validate.Struct(q); err != nil {
		return ListQuery{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return q, nil
}

// PostService joins posts with their authors and pages through the result.
type PostService struct {
	source   Source
	comments *CommentService
	logger   *slog.Logger
}

// NewPostService creates a new PostService
func NewPostService(source Source, store repositories.CommentStore) *PostService {
	return &PostService{
		source:   source,
		comments: NewCommentService(source, store),
		logger:   logging.Logger,
	}
}

// Comments is the comment service sharing this service's source and store.
func (s *PostService) Comments() *CommentService {
	return s.comments
}

// Joined fetches posts and users concurrently and joins every post to its
// owner, keeping the source order. A non-zero userID keeps only that user's
// posts. Either fetch failing fails the whole call.
func (s *PostService) Joined(ctx context.Context, userID int) ([]models.BlogPost, error) {
	var (
		posts []models.Post
		users []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.source.Posts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.source.Users(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[int]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	joined := make([]models.BlogPost, 0, len(posts))
	for _, p := range posts {
		if userID != 0 && p.UserID != userID {
			continue
		}
		joined = append(joined, presenters.BlogPost(p, byID[p.UserID]))
	}
	return joined, nil
}

// List answers the listing query: owner filter, then search, then the
// offset/limit window.
func (s *PostService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	joined, err := s.Joined(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	if q.Search != "" {
		joined = Search(joined, q.Search)
	}

	total := len(joined)
	start := min(q.Offset, total)
	end := min(start+q.Limit, total)

	page := make([]models.BlogPost, end-start)
	copy(page, joined[start:end])
	return &ListResult{
		Posts:   page,
		Total:   total,
		HasMore: end < total,
	}, nil
}

// PostDetail loads one post, its author and its merged comments.
func (s *PostService) PostDetail(ctx context.Context, id int) (*PostDetail, error) {
	post, err := s.source.Post(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	var (
		author   *models.EnhancedUser
		comments []models.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		author, err = s.Author(gctx, post.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.comments.List(gctx, post.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail := &PostDetail{Author: author, Comments: comments}
	if author != nil {
		detail.User = &author.User
	}
	detail.Post = presenters.BlogPost(*post, detail.User)
	return detail, nil
}

// Author loads a user's profile with the number of posts they own, or nil
// when the user does not exist.
func (s *PostService) Author(ctx context.Context, userID int) (*models.EnhancedUser, error) {
	var (
		user  *models.User
		posts []models.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.source.User(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = s.source.PostsByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	author := enrich.EnhanceUser(*user, len(posts))
	return &author, nil
}

// MatchesSearch reports whether term occurs, ignoring case, in the post's
// title, body, category or author name.
func MatchesSearch(p models.BlogPost, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range []string{p.Title, p.Content, p.Category, p.Author.Name} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Search keeps the posts matching term, in their original order.
func Search(posts []models.BlogPost, term string) []models.BlogPost {
	out := make([]models.BlogPost, 0, len(posts))
	for _, p := range posts {
		if MatchesSearch(p, term) {
			out = append(out, p)
		}
	}
	return out
}
