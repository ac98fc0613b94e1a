package analytics

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeContentTypes(t *testing.T) {
	now := time.Now()
	posts := []Post{
		{MediaType: "Photo", TakenAt: now},
		{MediaType: "Photo", TakenAt: now},
		{MediaType: "Video", TakenAt: now},
		{MediaType: "Carousel", TakenAt: now},
	}

	result := AnalyzeContent(posts)

	assert.Equal(t, 2, result.ContentTypes["Photo"])
	assert.Equal(t, 1, result.ContentTypes["Video"])
	assert.Equal(t, 1, result.ContentTypes["Carousel"])
}

func TestTopHashtags(t *testing.T) {
	now := time.Now()
	posts := []Post{
		{TakenAt: now, Hashtags: []string{"travel", "sunset"}},
		{TakenAt: now, Hashtags: []string{"Travel", "beach"}},
		{TakenAt: now, Hashtags: []string{"travel"}},
	}

	result := AnalyzeContent(posts)

	require.NotEmpty(t, result.TopHashtags)
	assert.Equal(t, TagCount{Tag: "travel", Count: 3}, result.TopHashtags[0])
}

func TestBrandCollabDetection(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want bool
	}{
		{"sponsored hashtag", Post{Caption: "new drop #sponsored"}, true},
		{"ad hashtag in tags", Post{Hashtags: []string{"ad"}}, true},
		{"paid partnership", Post{Caption: "Paid Partnership with Acme"}, true},
		{"case insensitive", Post{Caption: "IN COLLABORATION WITH brand"}, true},
		{"thanks keyword", Post{Caption: "thanks to everyone who came"}, true},
		{"plain caption", Post{Caption: "sunset at the beach"}, false},
		{"empty", Post{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBrandCollab(&tt.post))
		})
	}
}

func TestBrandCollabsInReport(t *testing.T) {
	day := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	posts := []Post{
		{
			URL:     "https://www.instagram.com/p/AAA/",
			TakenAt: day,
			Caption: "check out this #ad for a great product with a very long caption that keeps going and going until it exceeds one hundred characters total",
		},
		{TakenAt: day, Caption: "normal post"},
	}

	result := AnalyzeContent(posts)

	require.Len(t, result.BrandCollabs, 1)
	assert.Equal(t, 1, result.CollaborationCount)
	collab := result.BrandCollabs[0]
	assert.Equal(t, "https://www.instagram.com/p/AAA/", collab.URL)
	assert.Equal(t, "2026-03-15", collab.Date)
	assert.LessOrEqual(t, len(collab.Caption), 103)
}

func TestExtractHashtags(t *testing.T) {
	tags := ExtractHashtags("Sunset vibes #Travel #beach_life #2026")
	assert.Equal(t, []string{"travel", "beach_life", "2026"}, tags)

	assert.Empty(t, ExtractHashtags("no tags here"))
}

func TestExtractMentions(t *testing.T) {
	mentions := ExtractMentions("shoutout to @Friend and @some.brand.")
	assert.Equal(t, []string{"friend", "some.brand"}, mentions)
}

func TestTruncateCaptionKeepsRunesIntact(t *testing.T) {
	caption := strings.Repeat("\U0001F680", 120)

	got := truncateCaption(caption, 100)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("\U0001F680", 100)+"...", got)

	// Captions within the limit pass through untouched
	assert.Equal(t, "short", truncateCaption("short", 100))
}
