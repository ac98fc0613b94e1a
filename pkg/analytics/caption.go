package analytics

import (
	"regexp"
	"strings"
)

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	mentionPattern = regexp.MustCompile(`@([\w.]+)`)
)

// ExtractHashtags returns the lowercased hashtags in a caption, without the '#'
func ExtractHashtags(caption string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(caption, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, strings.ToLower(m[1]))
	}
	return tags
}

// ExtractMentions returns the lowercased mentions in a caption, without the '@'
func ExtractMentions(caption string) []string {
	matches := mentionPattern.FindAllStringSubmatch(caption, -1)
	mentions := make([]string, 0, len(matches))
	for _, m := range matches {
		mentions = append(mentions, strings.ToLower(strings.TrimRight(m[1], ".")))
	}
	return mentions
}

// truncateCaption shortens a caption for report snippets, cutting on a
// rune boundary so multi-byte characters survive intact
func truncateCaption(caption string, limit int) string {
	runes := []rune(caption)
	if len(runes) <= limit {
		return caption
	}
	return string(runes[:limit]) + "..."
}
