// Package presenters maps joined records onto the view models used by pages
// and the JSON API.
package presenters

import (
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"postboard/app/enrich"
	"postboard/app/models"
)

const (
	// UnknownAuthor names the author of a post whose user was not resolved.
	UnknownAuthor = "Unknown Author"
	// Anonymous is the card and comment fallback display name.
	Anonymous = "Anonymous"
	// GeneralCategory is the card category of a post without tags.
	GeneralCategory = "General"
)

// BlogPost joins a raw post with its (possibly missing) owner.
func BlogPost(p models.Post, u *models.User) models.BlogPost {
	e := enrich.EnhancePost(p)
	author := models.Author{Name: UnknownAuthor, Avatar: enrich.DefaultAvatar}
	if u != nil {
		author = models.Author{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Avatar: enrich.Avatar(u.ID),
		}
		if author.Name == "" {
			author.Name = UnknownAuthor
		}
	}
	return models.BlogPost{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Excerpt:     enrich.Excerpt(p.Body),
		Content:     p.Body,
		Category:    enrich.Category(p.ID),
		Author:      author,
		PublishedAt: e.PublishedAt,
		Image:       enrich.PostImage(p.ID),
		CoverImage:  e.CoverImage,
		Thumbnail:   e.Thumbnail,
		ReadTime:    e.ReadTime,
		Tags:        e.Tags,

		CoverFallback: enrich.CoverSVG(p.ID, p.Title),
	}
}

// PostModel is the listing card of an enhanced post and its owner.
func PostModel(e models.EnhancedPost, u *models.User) models.PostModel {
	category := GeneralCategory
	if len(e.Tags) > 0 {
		category = e.Tags[0]
	}
	name, email := Anonymous, ""
	if u != nil {
		email = u.Email
		if u.Name != "" {
			name = u.Name
		}
	}
	return models.PostModel{
		ID:          e.ID,
		ImageURL:    e.Thumbnail,
		Category:    category,
		Title:       e.Title,
		Description: e.Body,
		User: models.AuthorModel{
			Name:      name,
			AvatarURL: "https://i.pravatar.cc/100?u=" + url.QueryEscape(email),
			Date:      e.PublishedAt.Format(time.RFC3339),
		},
	}
}

// Card is the listing card of an already joined post. Posts whose owner was
// not resolved get the anonymous card.
func Card(b models.BlogPost) models.PostModel {
	e := models.EnhancedPost{
		Post:        models.Post{ID: b.ID, UserID: b.UserID, Title: b.Title, Body: b.Content},
		CoverImage:  b.CoverImage,
		Thumbnail:   b.Thumbnail,
		ReadTime:    b.ReadTime,
		Tags:        b.Tags,
		PublishedAt: b.PublishedAt,
	}
	var owner *models.User
	if b.Author.ID != 0 {
		owner = &models.User{ID: b.Author.ID, Name: b.Author.Name, Email: b.Author.Email}
	}
	return PostModel(e, owner)
}

// Cards maps Card over a slice.
func Cards(posts []models.BlogPost) []models.PostModel {
	out := make([]models.PostModel, 0, len(posts))
	for _, p := range posts {
		out = append(out, Card(p))
	}
	return out
}

// CommentView is a comment ready for display.
type CommentView struct {
	ID       int64  `json:"id"`
	PostID   int    `json:"postId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Body     string `json:"body"`
	Avatar   string `json:"avatar,omitempty"`
	Initial  string `json:"initial"`
	Verified bool   `json:"verified"`
}

// Comment maps a remote or local comment onto its display form. Commenters
// with an email address get a generated avatar, others their initial.
func Comment(c models.Comment) CommentView {
	name := c.Name
	if name == "" {
		name = Anonymous
	}
	r, _ := utf8.DecodeRuneInString(name)
	v := CommentView{
		ID:       c.ID,
		PostID:   c.PostID,
		Name:     name,
		Email:    c.Email,
		Body:     c.Body,
		Initial:  string(unicode.ToUpper(r)),
		Verified: strings.Contains(c.Email, "@"),
	}
	if v.Verified {
		v.Avatar = "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(c.Email)
	}
	return v
}

// Comments maps Comment over a slice.
func Comments(comments []models.Comment) []CommentView {
	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, Comment(c))
	}
	return out
}

// FormatDate renders a publish date the way pages show it, e.g. "2 March 2024".
func FormatDate(t time.Time) string {
	return t.Format("2 January 2006")
}
