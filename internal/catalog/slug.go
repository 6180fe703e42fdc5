package catalog

import (
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// NormalizeSlug lowercases a title and reduces it to dash-separated
// alphanumeric tokens, the same shape the web client builds album URLs from.
func NormalizeSlug(s string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func slugTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// MatchSlug picks the feed a slug refers to. Exact normalized match wins,
// then substring containment either way, then the candidate sharing the most
// slug tokens. Ties break to the shorter title. Returns -1 on no match.
func MatchSlug(slug string, candidates []FeedModel) int {
	norm := NormalizeSlug(slug)
	if norm == "" {
		return -1
	}

	for i, c := range candidates {
		if NormalizeSlug(c.Title) == norm {
			return i
		}
	}

	tokens := slugTokens(norm)
	best, bestScore := -1, 0
	for i, c := range candidates {
		cn := NormalizeSlug(c.Title)
		if cn == "" {
			continue
		}

		score := 0
		if strings.Contains(cn, norm) || strings.Contains(norm, cn) {
			score = len(tokens) + 1
		} else {
			for _, tok := range tokens {
				if strings.Contains(cn, tok) {
					score++
				}
			}
			// a single shared token is not evidence of a match
			if score < 2 && len(tokens) > 1 {
				score = 0
			}
			if len(tokens) == 1 && score < 1 {
				score = 0
			}
		}
		if score == 0 {
			continue
		}
		if score > bestScore || (score == bestScore && best >= 0 && len(c.Title) < len(candidates[best].Title)) {
			best, bestScore = i, score
		}
	}
	return best
}

// ResolveFeedBySlug loads the album the slug points at, with tracks.
func ResolveFeedBySlug(slug string) (*FeedModel, error) {
	candidates, err := MusicFeedCandidates()
	if err != nil {
		return nil, err
	}
	i := MatchSlug(slug, candidates)
	if i < 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetFeedByGUID(candidates[i].GUID)
}
