package enrich

import (
	"strings"
	"testing"
	"time"

	"postboard/app/models"
	"postboard/app/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcerpt(t *testing.T) {
	short := "a short body"
	assert.Equal(t, short, Excerpt(short))

	exact := strings.Repeat("x", ExcerptLength)
	assert.Equal(t, exact, Excerpt(exact))

	long := strings.Repeat("a", 149) + " " + strings.Repeat("b", 20)
	got := Excerpt(long)
	assert.Equal(t, strings.Repeat("a", 149)+"...", got)

	multibyte := strings.Repeat("é", 200)
	assert.Equal(t, strings.Repeat("é", 150)+"...", Excerpt(multibyte))
}

func TestCategoryRoundRobin(t *testing.T) {
	for id := 1; id <= 20; id++ {
		assert.Equal(t, Categories[id%5], Category(id))
		assert.Equal(t, Category(id), Category(id))
	}
	assert.Equal(t, "Product", Category(1))
	assert.Equal(t, "Design", Category(5))
}

func TestPostImage(t *testing.T) {
	assert.Equal(t, "https://picsum.photos/id/2/800/600", PostImage(1))
	assert.Equal(t, "https://picsum.photos/id/1/800/600", PostImage(1000))
	assert.Equal(t, "https://picsum.photos/id/1000/800/600", PostImage(999))
}

func TestTopic(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Great Design systems", "web,design"},
		{"Mobile first", "mobile,app"},
		{"Big Data today", "data,analytics"},
		{"Security in depth", "cybersecurity"},
		{"Startup lessons", "startup,business"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Topic(1, tt.title))
		})
	}
	assert.Equal(t, Topics[3], Topic(3, "zzz"))
	assert.Equal(t, Topics[0], Topic(11, "zzz"))
}

func TestImagesDeterministic(t *testing.T) {
	assert.Equal(t, "https://source.unsplash.com/1200x600/?web,design&sig=7", CoverImage(7, "UI kit"))
	assert.Equal(t, "https://source.unsplash.com/600x300/?web,design&sig=7", Thumbnail(7, "UI kit"))

	svg := CoverSVG(3, "<Hello & welcome>")
	assert.True(t, strings.HasPrefix(svg, "data:image/svg+xml,"))
	assert.Equal(t, svg, CoverSVG(3, "<Hello & welcome>"))
	assert.NotContains(t, svg, "<Hello")
}

func TestAvatar(t *testing.T) {
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=4", Avatar(4))
	assert.Contains(t, DefaultAvatar, "seed=default")
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 3, ReadTime(""))
	assert.Equal(t, 4, ReadTime("x"))
	assert.Equal(t, 4, ReadTime(strings.Repeat("x", 150)))
	assert.Equal(t, 5, ReadTime(strings.Repeat("x", 151)))
}

func TestTagsDeterministicSubset(t *testing.T) {
	for id := 1; id <= 30; id++ {
		tags := Tags(id)
		assert.Len(t, tags, 2+id%3)
		assert.Equal(t, tags, Tags(id), "tags of post %d must be reproducible", id)

		seen := map[string]bool{}
		for _, tag := range tags {
			assert.Contains(t, TagVocabulary, tag)
			assert.False(t, seen[tag], "duplicate tag %q", tag)
			seen[tag] = true
		}
	}
}

func TestTagsDoNotMutateVocabulary(t *testing.T) {
	before := append([]string(nil), TagVocabulary...)
	_ = Tags(17)
	assert.Equal(t, before, TagVocabulary)
}

func TestPublishedAt(t *testing.T) {
	for id := 1; id <= 100; id++ {
		d := PublishedAt(id)
		assert.Equal(t, 2024, d.Year())
		assert.Equal(t, time.Month(id%12+1), d.Month())
		assert.Equal(t, id%28+1, d.Day())
	}
}

func TestEnhancePost(t *testing.T) {
	for _, p := range testutil.Posts(25, 3) {
		e := EnhancePost(p)
		require.Equal(t, p.ID, e.ID)
		assert.Equal(t, p, e.Post)
		assert.Equal(t, ReadTime(p.Body), e.ReadTime)
		assert.Equal(t, Tags(p.ID), e.Tags)
		assert.Equal(t, PublishedAt(p.ID), e.PublishedAt)
		assert.Equal(t, Thumbnail(p.ID, p.Title), e.Thumbnail)
		assert.Equal(t, CoverImage(p.ID, p.Title), e.CoverImage)
	}
}

func TestEnhanceUser(t *testing.T) {
	u := models.User{ID: 6, Name: "Ann"}
	e := EnhanceUser(u, 10)
	assert.Equal(t, u, e.User)
	assert.Equal(t, Avatar(6), e.Avatar)
	assert.Equal(t, bios[1], e.Bio)
	assert.Equal(t, 10, e.PostsCount)
}
