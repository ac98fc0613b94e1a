package analytics

import (
	"sort"
	"strings"
)

// brandKeywords flag a caption as a brand collaboration. Matching is
// case-insensitive against both caption text and extracted hashtags.
var brandKeywords = []string{
	"#ad", "#sponsored", "#partner", "#collab", "sponsored",
	"paid partnership", "#gifted", "#gift", "thanks", "ambassador",
	"#ambassador", "collaboration", "in collaboration with",
	"partnership with", "sponsored by",
}

// tagLimit caps the hashtag/mention rankings in the report
const tagLimit = 10

// AnalyzeContent computes the content mix, tag rankings and brand
// collaborations across posts.
func AnalyzeContent(posts []Post) ContentAnalysis {
	contentTypes := make(map[string]int)
	hashtagCounts := make(map[string]int)
	mentionCounts := make(map[string]int)
	collabs := []Collaboration{}

	for _, p := range posts {
		contentTypes[p.MediaType]++

		for _, tag := range p.Hashtags {
			hashtagCounts[strings.ToLower(strings.TrimPrefix(tag, "#"))]++
		}
		for _, m := range p.Mentions {
			mentionCounts[strings.ToLower(m)]++
		}

		if IsBrandCollab(&p) {
			collabs = append(collabs, Collaboration{
				URL:     p.URL,
				Date:    p.TakenAt.Format("2006-01-02"),
				Caption: truncateCaption(p.Caption, 100),
			})
		}
	}

	return ContentAnalysis{
		ContentTypes:       contentTypes,
		TopHashtags:        topTags(hashtagCounts, tagLimit),
		TopMentions:        topTags(mentionCounts, tagLimit),
		BrandCollabs:       collabs,
		CollaborationCount: len(collabs),
	}
}

// IsBrandCollab reports whether a post looks like a brand collaboration
func IsBrandCollab(p *Post) bool {
	caption := strings.ToLower(p.Caption)
	for _, kw := range brandKeywords {
		if strings.Contains(caption, kw) {
			return true
		}
	}
	for _, tag := range p.Hashtags {
		lowered := "#" + strings.ToLower(strings.TrimPrefix(tag, "#"))
		for _, kw := range brandKeywords {
			if lowered == kw {
				return true
			}
		}
	}
	return false
}

// topTags returns the n most frequent tags in descending count order.
// Ties break alphabetically to keep the ranking deterministic.
func topTags(counts map[string]int, n int) []TagCount {
	tags := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, TagCount{Tag: tag, Count: count})
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})

	if n > len(tags) {
		n = len(tags)
	}
	return tags[:n]
}
