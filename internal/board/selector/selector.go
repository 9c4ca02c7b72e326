// Package selector resolves fuzzy card queries against a board-state
// document: exact id lookup, or normalized-title matching with an optional
// zone-prefix filter.
package selector

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/earthborne/ranger-board-go/internal/board"
)

// Match scores, best first.
const (
	// ScoreExact means the normalized strings are equal.
	ScoreExact = 0
	// ScorePrefix means either normalized string is a prefix of the other.
	ScorePrefix = 1
	// ScoreSubstring means either contains the other.
	ScoreSubstring = 2
)

// Query selects cards by stable id or by fuzzy title, optionally
// restricted to addresses under a dotted zone prefix. ID wins when both
// are set.
type Query struct {
	ID    string
	Title string
	Zone  string
}

func (q Query) String() string {
	var parts []string
	if q.ID != "" {
		parts = append(parts, "id="+q.ID)
	}
	if q.Title != "" {
		parts = append(parts, "title="+q.Title)
	}
	if q.Zone != "" {
		parts = append(parts, "zone="+q.Zone)
	}
	return strings.Join(parts, " ")
}

// Match is one selector result.
type Match struct {
	Path  board.Path
	Card  board.Card
	Score int
}

// Ref returns the candidate reference used in ambiguity reports.
func (m Match) Ref() board.CardRef {
	return board.CardRef{Title: m.Card.Title(), ID: m.Card.ID(), Path: m.Path}
}

// Normalize reduces a title to its token form: lowercase, non-alphanumeric
// runs collapsed to single underscores, and one leading article token
// (the, a, an) stripped.
func Normalize(s string) string {
	slug := slugify(s)
	for _, article := range []string{"the_", "a_", "an_"} {
		if strings.HasPrefix(slug, article) {
			return slug[len(article):]
		}
	}
	return slug
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "_")
}

// Score rates how well a query title matches a card title after both are
// normalized identically. It reports false when they do not match at all.
func Score(query, title string) (int, bool) {
	qs := Normalize(query)
	ts := Normalize(title)
	switch {
	case qs == ts:
		return ScoreExact, true
	case strings.HasPrefix(ts, qs) || strings.HasPrefix(qs, ts):
		return ScorePrefix, true
	case strings.Contains(ts, qs) || strings.Contains(qs, ts):
		return ScoreSubstring, true
	}
	return 0, false
}

// SelectCards returns every card matching the query, ordered by ascending
// match score with document traversal order as the tie-break. All matches
// are returned regardless of score so ambiguity stays visible; the score
// never silently discards lower-quality candidates.
func SelectCards(root board.Node, q Query) ([]Match, error) {
	if q.ID == "" && q.Title == "" {
		return nil, fmt.Errorf("selector requires an id or a title")
	}
	var matches []Match
	for p, n := range board.Walk(root) {
		c, ok := board.AsCard(n)
		if !ok {
			continue
		}
		if q.Zone != "" && !p.HasPrefix(q.Zone) {
			continue
		}
		if q.ID != "" {
			if c.ID() == q.ID {
				matches = append(matches, Match{Path: p, Card: c, Score: ScoreExact})
			}
			continue
		}
		if score, ok := Score(q.Title, c.Title()); ok {
			matches = append(matches, Match{Path: p, Card: c, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})
	return matches, nil
}

// SelectOne requires the query to resolve to exactly one card. Zero
// matches is a not-found failure; more than one, even with differing
// scores, is an ambiguity failure enumerating every candidate in ranked
// order.
func SelectOne(root board.Node, q Query) (Match, error) {
	matches, err := SelectCards(root, q)
	if err != nil {
		return Match{}, err
	}
	switch len(matches) {
	case 0:
		return Match{}, fmt.Errorf("%s: %w", q, board.ErrNotFound)
	case 1:
		return matches[0], nil
	}
	ambig := &board.AmbiguousError{Candidates: make([]board.CardRef, len(matches))}
	for i, m := range matches {
		ambig.Candidates[i] = m.Ref()
	}
	return Match{}, ambig
}
