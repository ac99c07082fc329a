package services

import (
	"context"

	"postboard/app/models"
)

// Source is where raw records come from. *client.Client satisfies it.
type Source interface {
	Posts(ctx context.Context) ([]models.Post, error)
	Post(ctx context.Context, id int) (*models.Post, error)
	PostsByUser(ctx context.Context, userID int) ([]models.Post, error)
	Users(ctx context.Context) ([]models.User, error)
	User(ctx context.Context, id int) (*models.User, error)
	Comments(ctx context.Context, postID int) ([]models.Comment, error)
}
