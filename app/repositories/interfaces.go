package repositories

import "postboard/app/models"

// CommentStore persists locally authored comments, one append-only list per
// post.
type CommentStore interface {
	// Append validates c, assigns it a local id and adds it to postID's list.
	Append(postID int, c *models.Comment) error
	// Load returns postID's local comments in submission order.
	Load(postID int) ([]*models.Comment, error)
}
