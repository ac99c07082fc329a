package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"postboard/app/logging"
	"postboard/app/metrics"
	"postboard/app/models"
	"postboard/app/repositories"
)

// ErrCommentsDisabled is returned by Submit when no local store is configured.
var ErrCommentsDisabled = errors.New("local comments are disabled")

// CommentService merges remote comments with locally authored ones. A nil
// store serves remote comments only.
type CommentService struct {
	source Source
	store  repositories.CommentStore
	logger *slog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(source Source, store repositories.CommentStore) *CommentService {
	return &CommentService{
		source: source,
		store:  store,
		logger: logging.Logger,
	}
}

// Submit validates the form and appends it to postID's local comments. On a
// validation failure the store is left untouched.
func (s *CommentService) Submit(ctx context.Context, postID int, form models.NewComment) (*models.Comment, error) {
	if err := form.Validate(); err != nil {
		metrics.CommentAppends.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if s.store == nil {
		return nil, ErrCommentsDisabled
	}

	comment := form.ToComment(0, postID)
	if err := s.store.Append(postID, comment); err != nil {
		if errors.Is(err, models.ErrValidation) {
			metrics.CommentAppends.WithLabelValues("invalid").Inc()
			return nil, err
		}
		metrics.CommentAppends.WithLabelValues("error").Inc()
		s.logger.ErrorContext(ctx, "failed to store comment", slog.Int("post_id", postID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to store comment: %w", err)
	}

	metrics.CommentAppends.WithLabelValues("ok").Inc()
	s.logger.InfoContext(ctx, "comment stored", slog.Int("post_id", postID), slog.Int64("comment_id", comment.ID))
	return comment, nil
}

// List returns the remote comments of postID followed by the local ones in
// submission order.
func (s *CommentService) List(ctx context.Context, postID int) ([]models.Comment, error) {
	remote, err := s.source.Comments(ctx, postID)
	if err != nil {
		return nil, err
	}
	var local []*models.Comment
	if s.store != nil {
		local, err = s.store.Load(postID)
		if err != nil {
			return nil, fmt.Errorf("failed to load local comments: %w", err)
		}
	}

	merged := make([]models.Comment, 0, len(remote)+len(local))
	merged = append(merged, remote...)
	for _, c := range local {
		if c != nil {
			merged = append(merged, *c)
		}
	}
	return merged, nil
}
