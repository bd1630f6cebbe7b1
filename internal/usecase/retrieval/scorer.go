package retrieval

import (
	"strings"
	"unicode"

	domdoc "github.com/kailas-cloud/docqa/internal/domain/document"
	"github.com/kailas-cloud/docqa/internal/domain/search/query"
	"github.com/kailas-cloud/docqa/internal/domain/search/result"
	"github.com/kailas-cloud/docqa/internal/domain/topic"
)

// Score weights.
const (
	weightToken      = 15
	weightOccurrence = 2
	weightTopic      = 25
	phraseBonus      = 20
	filenameBonus    = 5
	earlyMatchMax    = 15
	earlyMatchStep   = 100
)

// Excerpt window, in characters.
const (
	excerptBefore    = 150
	excerptAfter     = 400
	topicOnlyExcerpt = 500
	ellipsis         = "..."
)

// Scorer evaluates documents against analyzed queries.
type Scorer struct {
	catalog *topic.Catalog
}

// NewScorer creates a scorer over the topic catalog.
func NewScorer(catalog *topic.Catalog) *Scorer {
	return &Scorer{catalog: catalog}
}

// Score returns the hit for doc, or false when neither a term nor a topic matches.
func (s *Scorer) Score(doc *domdoc.Document, tokens *query.Tokens) (result.Hit, bool) {
	content := doc.Content()
	if content == "" {
		return result.Hit{}, false
	}

	// One rune in, one rune out: byte offsets in lower map back to content
	// through rune counts.
	lower := toLower(content)
	lowerName := toLower(doc.Name())

	topicMatches := 0
	for _, t := range tokens.Topics() {
		if s.catalog.Match(t, content) {
			topicMatches++
		}
	}

	tokenMatches, occurrences := 0, 0
	firstByte := -1
	for _, term := range tokens.Terms() {
		count, first := countOccurrences(lower, term)
		if count > 0 {
			occurrences += count
			tokenMatches++
			if firstByte == -1 || first < firstByte {
				firstByte = first
			}
		}
		if strings.Contains(lowerName, term) {
			tokenMatches++
			occurrences += filenameBonus
		}
	}

	if occurrences == 0 && topicMatches == 0 {
		return result.Hit{}, false
	}

	score := weightToken*tokenMatches + weightOccurrence*occurrences + weightTopic*topicMatches
	for _, p := range tokens.Phrases() {
		if strings.Contains(lower, p) {
			score += phraseBonus
			break
		}
	}

	runes := []rune(content)
	hit := result.Hit{
		File:         doc.Name(),
		TokenMatches: tokenMatches,
		Occurrences:  occurrences,
		TopicMatches: topicMatches,
	}
	if firstByte >= 0 {
		first := len([]rune(lower[:firstByte]))
		score += max(0, earlyMatchMax-first/earlyMatchStep)
		hit.FirstIndex = first
		hit.Excerpt = excerptAround(runes, first)
	} else {
		hit.Excerpt = excerptHead(runes)
	}
	hit.Score = score
	return hit, true
}

// countOccurrences counts non-overlapping occurrences of needle in text and
// returns the byte offset of the first one (-1 if none).
func countOccurrences(text, needle string) (int, int) {
	if needle == "" {
		return 0, -1
	}
	count, first, pos := 0, -1, 0
	for {
		i := strings.Index(text[pos:], needle)
		if i < 0 {
			break
		}
		i += pos
		if first == -1 {
			first = i
		}
		count++
		pos = i + len(needle)
	}
	return count, first
}

// excerptAround cuts [first-150, first+400) and marks truncated ends.
func excerptAround(runes []rune, first int) string {
	start := max(0, first-excerptBefore)
	end := min(len(runes), first+excerptAfter)

	excerpt := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		excerpt = ellipsis + excerpt
	}
	if end < len(runes) {
		excerpt += ellipsis
	}
	return excerpt
}

// excerptHead is used for topic-only matches.
func excerptHead(runes []rune) string {
	end := min(len(runes), topicOnlyExcerpt)
	return strings.TrimSpace(string(runes[:end])) + ellipsis
}

func toLower(s string) string {
	return strings.Map(unicode.ToLower, s)
}
