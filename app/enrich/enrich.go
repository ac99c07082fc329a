// Package enrich derives display-only fields from raw posts and users.
//
// Every function here is a pure function of its arguments: the same post id,
// title and body always produce the same excerpt, category, images, tags and
// publish date.
package enrich

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"postboard/app/models"

	"github.com/brianvoe/gofakeit/v6"
)

// ExcerptLength is the number of characters kept by Excerpt.
const ExcerptLength = 150

// Categories is the fixed round-robin category list.
var Categories = []string{
	"Design",
	"Product",
	"Software Engineering",
	"Management",
	"Customer Success",
}

// TagVocabulary is the pool Tags draws from.
var TagVocabulary = []string{
	"React", "JavaScript", "Web Dev", "Tutorial", "Tips",
	"Guide", "TypeScript", "Next.js", "API", "Frontend",
}

// Topics is the fallback list of cover image keywords.
var Topics = []string{
	"programming,code", "technology,computer", "software,development",
	"web,design", "mobile,app", "data,analytics", "artificial,intelligence",
	"cybersecurity", "cloud,computing", "blockchain", "startup,business",
}

var coverColors = []string{
	"#6366f1", "#8b5cf6", "#06b6d4", "#10b981", "#f59e0b",
	"#ef4444", "#ec4899", "#84cc16", "#f97316", "#3b82f6",
}

var bios = []string{
	"Full-stack developer passionate about clean code and user experience.",
	"Tech enthusiast sharing insights on modern web development.",
	"Software engineer with a love for React and TypeScript.",
	"Frontend developer creating beautiful and functional interfaces.",
	"Backend specialist focusing on scalable architectures.",
}

// mod is a non-negative remainder.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// Excerpt returns the first ExcerptLength characters of body, trimmed, with
// "..." appended when anything was cut.
func Excerpt(body string) string {
	if utf8.RuneCountInString(body) <= ExcerptLength {
		return body
	}
	runes := []rune(body)
	return strings.TrimSpace(string(runes[:ExcerptLength])) + "..."
}

// Category assigns a category round-robin by post id.
func Category(id int) string {
	return Categories[mod(id, len(Categories))]
}

// PostImage is the photo used by blog cards and the JSON API.
func PostImage(id int) string {
	return fmt.Sprintf("https://picsum.photos/id/%d/800/600", mod(id, 1000)+1)
}

// Topic picks a cover keyword from the title, falling back to id round-robin.
func Topic(id int, title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "design") || strings.Contains(t, "ui"):
		return "web,design"
	case strings.Contains(t, "mobile") || strings.Contains(t, "app"):
		return "mobile,app"
	case strings.Contains(t, "data") || strings.Contains(t, "analytics"):
		return "data,analytics"
	case strings.Contains(t, "security"):
		return "cybersecurity"
	case strings.Contains(t, "business") || strings.Contains(t, "startup"):
		return "startup,business"
	}
	return Topics[mod(id, len(Topics))]
}

// CoverImage is the large header image of a post.
func CoverImage(id int, title string) string {
	return fmt.Sprintf("https://source.unsplash.com/1200x600/?%s&sig=%d", Topic(id, title), id)
}

// Thumbnail is the card-sized variant of CoverImage.
func Thumbnail(id int, title string) string {
	return fmt.Sprintf("https://source.unsplash.com/600x300/?%s&sig=%d", Topic(id, title), id)
}

// CoverSVG renders a gradient cover with the title as an inline data URI.
func CoverSVG(id int, title string) string {
	color := coverColors[mod(id, len(coverColors))]
	runes := []rune(title)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	svg := fmt.Sprintf(`<svg width="1200" height="600" xmlns="http://www.w3.org/2000/svg">`+
		`<defs><linearGradient id="grad%[1]d" x1="0%%" y1="0%%" x2="100%%" y2="100%%">`+
		`<stop offset="0%%" style="stop-color:%[2]s;stop-opacity:1" />`+
		`<stop offset="100%%" style="stop-color:%[2]s88;stop-opacity:1" />`+
		`</linearGradient></defs>`+
		`<rect width="100%%" height="100%%" fill="url(#grad%[1]d)"/>`+
		`<text x="60" y="300" font-family="Arial, sans-serif" font-size="48" font-weight="bold" fill="white">%[3]s</text>`+
		`</svg>`, id, color, escapeXML(string(runes)))
	return "data:image/svg+xml," + url.PathEscape(svg)
}

func escapeXML(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}

// Avatar is the generated avatar of a user.
func Avatar(userID int) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%d", userID)
}

// DefaultAvatar is used when a post's owner cannot be resolved.
const DefaultAvatar = "https://api.dicebear.com/7.x/avataaars/svg?seed=default"

// ReadTime estimates minutes to read body: ceil(3 + chars/150).
func ReadTime(body string) int {
	return int(math.Ceil(3 + float64(utf8.RuneCountInString(body))/150))
}

// Tags picks 2 + (id mod 3) tags. The shuffle is seeded by the id, so a post
// keeps its tags across calls and restarts.
func Tags(id int) []string {
	tags := slices.Clone(TagVocabulary)
	// gofakeit treats seed 0 as "pick a random seed"; keep it odd.
	faker := gofakeit.New(int64(id)<<1 | 1)
	faker.ShuffleStrings(tags)
	return tags[:2+mod(id, 3)]
}

// PublishedAt maps an id onto a day of 2024: month index id mod 12
// (January = 0) and day (id mod 28) + 1.
func PublishedAt(id int) time.Time {
	return time.Date(2024, time.Month(mod(id, 12)+1), mod(id, 28)+1, 0, 0, 0, 0, time.UTC)
}

// EnhancePost derives every display field of a raw post.
func EnhancePost(p models.Post) models.EnhancedPost {
	return models.EnhancedPost{
		Post:        p,
		CoverImage:  CoverImage(p.ID, p.Title),
		Thumbnail:   Thumbnail(p.ID, p.Title),
		ReadTime:    ReadTime(p.Body),
		Tags:        Tags(p.ID),
		PublishedAt: PublishedAt(p.ID),
	}
}

// EnhanceUser adds avatar, bio and post count to a raw user.
func EnhanceUser(u models.User, postsCount int) models.EnhancedUser {
	return models.EnhancedUser{
		User:       u,
		Avatar:     Avatar(u.ID),
		Bio:        bios[mod(u.ID, len(bios))],
		PostsCount: postsCount,
	}
}
