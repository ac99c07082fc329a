package presenters

import (
	"strings"
	"testing"
	"time"

	"postboard/app/enrich"
	"postboard/app/models"

	"github.com/stretchr/testify/assert"
)

func TestBlogPostJoinsUser(t *testing.T) {
	post := models.Post{ID: 1, UserID: 1, Title: "T1", Body: "B1"}
	user := &models.User{ID: 1, Name: "Alice", Email: "alice@x.com"}

	b := BlogPost(post, user)
	assert.Equal(t, 1, b.ID)
	assert.Equal(t, "Alice", b.Author.Name)
	assert.Equal(t, enrich.Avatar(1), b.Author.Avatar)
	assert.Equal(t, "B1", b.Excerpt)
	assert.Equal(t, "B1", b.Content)
	assert.Equal(t, enrich.Category(1), b.Category)
	assert.Equal(t, enrich.PostImage(1), b.Image)
	assert.Equal(t, enrich.PublishedAt(1), b.PublishedAt)
}

func TestBlogPostUnknownAuthor(t *testing.T) {
	b := BlogPost(models.Post{ID: 1, UserID: 9, Title: "T1", Body: "B1"}, nil)
	assert.Equal(t, UnknownAuthor, b.Author.Name)
	assert.Equal(t, enrich.DefaultAvatar, b.Author.Avatar)
	assert.Equal(t, 0, b.Author.ID)
}

func TestCard(t *testing.T) {
	b := BlogPost(models.Post{ID: 4, UserID: 1, Title: "Title", Body: "Body"}, &models.User{ID: 1, Name: "Bob", Email: "b+1@x.com"})
	card := Card(b)

	assert.Equal(t, 4, card.ID)
	assert.Equal(t, b.Thumbnail, card.ImageURL)
	assert.Equal(t, b.Tags[0], card.Category)
	assert.Equal(t, "Body", card.Description)
	assert.Equal(t, "Bob", card.User.Name)
	assert.Equal(t, "https://i.pravatar.cc/100?u=b%2B1%40x.com", card.User.AvatarURL)
	assert.Equal(t, b.PublishedAt.Format(time.RFC3339), card.User.Date)
}

func TestCardFallbacks(t *testing.T) {
	card := Card(models.BlogPost{ID: 2, Author: models.Author{Name: UnknownAuthor}})
	assert.Equal(t, GeneralCategory, card.Category)
	assert.Equal(t, Anonymous, card.User.Name)
	assert.Equal(t, "https://i.pravatar.cc/100?u=", card.User.AvatarURL)
}

func TestPostModel(t *testing.T) {
	e := enrich.EnhancePost(models.Post{ID: 7, UserID: 2, Title: "Title", Body: "Body"})

	card := PostModel(e, &models.User{ID: 2, Name: "Carol", Email: "c@x.com"})
	assert.Equal(t, "Carol", card.User.Name)
	assert.Equal(t, e.Tags[0], card.Category)
	assert.Equal(t, e.Thumbnail, card.ImageURL)

	anon := PostModel(e, nil)
	assert.Equal(t, Anonymous, anon.User.Name)
	assert.Equal(t, card.ID, anon.ID)
}

func TestCardMatchesPostModel(t *testing.T) {
	post := models.Post{ID: 12, UserID: 4, Title: "Same card", Body: "Either way"}
	user := &models.User{ID: 4, Name: "Dana", Email: "d@x.com"}

	assert.Equal(t, PostModel(enrich.EnhancePost(post), user), Card(BlogPost(post, user)))
	assert.Equal(t, PostModel(enrich.EnhancePost(post), nil), Card(BlogPost(post, nil)))
}

func TestBlogPostCoverFallback(t *testing.T) {
	b := BlogPost(models.Post{ID: 5, UserID: 1, Title: "Cover"}, nil)
	assert.Equal(t, enrich.CoverSVG(5, "Cover"), b.CoverFallback)
	assert.True(t, strings.HasPrefix(b.CoverFallback, "data:image/svg+xml,"))
}

func TestComment(t *testing.T) {
	v := Comment(models.Comment{ID: 1, PostID: 3, Name: "zed", Email: "z@x.com", Body: "hey"})
	assert.True(t, v.Verified)
	assert.Equal(t, "Z", v.Initial)
	assert.Contains(t, v.Avatar, "seed=z%40x.com")

	anon := Comment(models.Comment{ID: 2, PostID: 3, Email: "nope", Body: "hey"})
	assert.Equal(t, Anonymous, anon.Name)
	assert.Equal(t, "A", anon.Initial)
	assert.False(t, anon.Verified)
	assert.Empty(t, anon.Avatar)
}

func TestCommentsKeepsOrder(t *testing.T) {
	views := Comments([]models.Comment{{ID: 3}, {ID: 1}, {ID: 2}})
	assert.Equal(t, []int64{3, 1, 2}, []int64{views[0].ID, views[1].ID, views[2].ID})
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2 March 2024", FormatDate(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)))
}
