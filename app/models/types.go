package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Post is a raw post as served by the remote API.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Geo is the coordinate pair of an address.
type Geo struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// Address of a user.
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     Geo    `json:"geo"`
}

// Company a user works for.
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

// User is a raw user as served by the remote API.
type User struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Address  Address `json:"address"`
	Company  Company `json:"company"`
}

// Comment is either fetched from the remote API or authored locally; both
// share this shape.
type Comment struct {
	ID     int64  `json:"id"`
	PostID int    `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// EnhancedPost is a raw post plus display-only fields derived from it.
type EnhancedPost struct {
	Post
	CoverImage  string    `json:"coverImage"`
	Thumbnail   string    `json:"thumbnail"`
	ReadTime    int       `json:"readTime"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"publishedAt"`
}

// EnhancedUser is a raw user plus profile fields derived from it.
type EnhancedUser struct {
	User
	Avatar     string `json:"avatar"`
	Bio        string `json:"bio"`
	PostsCount int    `json:"postsCount"`
}

// Author is the joined owner of a BlogPost.
type Author struct {
	ID     int    `json:"id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar"`
}

// BlogPost is the flattened view of a post joined with its user.
type BlogPost struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Author      Author    `json:"author"`
	PublishedAt time.Time `json:"publishedAt"`
	Image       string    `json:"image"`
	CoverImage  string    `json:"coverImage"`
	Thumbnail   string    `json:"thumbnail"`
	ReadTime    int       `json:"readTime"`
	Tags        []string  `json:"tags"`

	// CoverFallback is shown when CoverImage fails to load.
	CoverFallback string `json:"-"`
}

// AuthorModel is the author block of a post card.
type AuthorModel struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Date      string `json:"date"`
}

// PostModel is the card view rendered in listings.
type PostModel struct {
	ID          int         `json:"id"`
	ImageURL    string      `json:"imageUrl"`
	Category    string      `json:"category"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	User        AuthorModel `json:"user"`
}
