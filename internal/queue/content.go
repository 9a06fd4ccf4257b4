package queue

import "strings"

// BuildContent assembles the final post text: body, then hashtags as a
// #-prefixed space-joined line, then the tracked short link. Each
// present section is separated by a blank line.
func BuildContent(body string, hashtags []string, shortLink string) string {
	var b strings.Builder
	b.WriteString(body)

	if len(hashtags) > 0 {
		tags := make([]string, 0, len(hashtags))
		for _, tag := range hashtags {
			tags = append(tags, "#"+tag)
		}
		b.WriteString("\n\n")
		b.WriteString(strings.Join(tags, " "))
	}

	if shortLink != "" {
		b.WriteString("\n\n")
		b.WriteString(shortLink)
	}

	return b.String()
}
