// Package mentions extracts @username candidates from free-text content.
package mentions

import "regexp"

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// Extract returns the candidate usernames mentioned in content, in order
// of appearance. Repeated mentions are kept; resolving candidates against
// real users is the caller's job.
func Extract(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	if matches == nil {
		return nil
	}
	usernames := make([]string, 0, len(matches))
	for _, m := range matches {
		usernames = append(usernames, m[1])
	}
	return usernames
}
