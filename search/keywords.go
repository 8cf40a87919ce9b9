package search

import "strings"

// SplitQuery splits free text into raw keyword tokens on whitespace.
func SplitQuery(text string) []string {
	return strings.Fields(text)
}

// NormalizeKeywords lowercases and trims each keyword, returning a new slice.
// Keywords that are empty after normalization are dropped; duplicates are kept
// and treated as distinct positions during combination enumeration.
func NormalizeKeywords(keywords []string) []string {
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		cleaned := strings.TrimSpace(strings.ToLower(kw))
		if cleaned == "" {
			continue
		}
		normalized = append(normalized, cleaned)
	}
	return normalized
}

// containsAll reports whether every keyword occurs in the lowercased title.
func containsAll(lowerTitle string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(lowerTitle, kw) {
			return false
		}
	}
	return true
}
