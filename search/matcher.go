package search

import (
	"fmt"
	"strings"
)

// Strategy controls how much of the winning combination size is collected.
type Strategy int

const (
	// StopAtFirstMatch returns the titles of the first combination that
	// matches anything. Combinations later in the same size are never tried,
	// even if they would surface other titles with the same keyword count.
	StopAtFirstMatch Strategy = iota

	// UnionWinningSize tries every combination at the first size that
	// matches and returns the deduplicated union of their titles.
	UnionWinningSize
)

// String returns the strategy name used in configuration.
func (s Strategy) String() string {
	switch s {
	case StopAtFirstMatch:
		return "first-match"
	case UnionWinningSize:
		return "union"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses a strategy name as produced by Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "first-match":
		return StopAtFirstMatch, nil
	case "union":
		return UnionWinningSize, nil
	default:
		return StopAtFirstMatch, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Matcher performs progressive keyword-subset matching over a catalog.
// A Matcher holds no per-search state and is safe for concurrent use.
type Matcher struct {
	strategy Strategy
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithStrategy sets the match strategy.
// Default is StopAtFirstMatch.
func WithStrategy(strategy Strategy) MatcherOption {
	return func(m *Matcher) {
		m.strategy = strategy
	}
}

// NewMatcher creates a new matcher.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{strategy: StopAtFirstMatch}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Strategy returns the configured match strategy.
func (m *Matcher) Strategy() Strategy {
	return m.strategy
}

// Search matches keywords against catalog with the default strategy.
func Search(catalog, keywords []string) []string {
	return NewMatcher().Match(catalog, keywords)
}

// Match returns the catalog titles matching the largest keyword combination
// that matches anything. The result never contains duplicates, every element
// appears verbatim in catalog, and an empty slice means nothing matched.
func (m *Matcher) Match(catalog, keywords []string) []string {
	return m.MatchWithMonitor(catalog, keywords, nil)
}

// MatchWithMonitor is Match with callbacks at each stage of the search.
func (m *Matcher) MatchWithMonitor(catalog, keywords []string, monitor Monitor) []string {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	normalized := NormalizeKeywords(keywords)
	monitor.Start(normalized)

	results := []string{}
	if len(normalized) == 0 || len(catalog) == 0 {
		monitor.Finish(results)
		return results
	}

	// Lowercase once per search rather than once per combination
	lowered := make([]string, len(catalog))
	for i, title := range catalog {
		lowered[i] = strings.ToLower(title)
	}

	seen := make(map[string]struct{})
	for size := len(normalized); size > 0; size-- {
		for combo := range Combinations(normalized, size) {
			var matched []string
			for i, title := range catalog {
				if containsAll(lowered[i], combo) {
					matched = append(matched, title)
				}
			}
			monitor.CombinationTried(size, combo, matched)

			for _, title := range matched {
				if _, ok := seen[title]; ok {
					continue
				}
				seen[title] = struct{}{}
				results = append(results, title)
			}

			if m.strategy == StopAtFirstMatch && len(results) > 0 {
				break
			}
		}

		if len(results) > 0 {
			break
		}
	}

	monitor.Finish(results)
	return results
}
