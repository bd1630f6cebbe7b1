package retrieval

import (
	"regexp"
	"strings"

	snowballeng "github.com/kljensen/snowball/english"

	"github.com/kailas-cloud/docqa/internal/domain/search/query"
	"github.com/kailas-cloud/docqa/internal/domain/topic"
)

var (
	quotedPhrase = regexp.MustCompile(`"([^"]{2,})"`)
	nonWordChars = regexp.MustCompile(`[^a-z0-9\s-]`)
)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		the a an and or of to in on for by with at as is are was were be being been
		from that this these those it its into about over under up down
		what how when where why i me my we our you your do does did can could would should`) {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether w is excluded from word matching.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// Analyzer decomposes raw queries into phrases, words and topics.
type Analyzer struct {
	catalog *topic.Catalog
	stem    bool
}

// NewAnalyzer creates an analyzer over the topic catalog.
// With stem=true loose words are reduced to their English stem.
func NewAnalyzer(catalog *topic.Catalog, stem bool) *Analyzer {
	return &Analyzer{catalog: catalog, stem: stem}
}

// Analyze tokenizes q. Topics are classified on the raw query, words on the
// text left after quoted phrases are removed.
func (a *Analyzer) Analyze(q string) query.Tokens {
	var phrases []string
	for _, m := range quotedPhrase.FindAllStringSubmatch(q, -1) {
		p := strings.TrimSpace(strings.ToLower(m[1]))
		if len([]rune(p)) >= 2 {
			phrases = append(phrases, p)
		}
	}
	rest := quotedPhrase.ReplaceAllString(q, " ")

	topics := a.catalog.Classify(q)

	rest = nonWordChars.ReplaceAllString(strings.ToLower(rest), " ")
	seen := make(map[string]struct{})
	var words []string
	for _, w := range strings.Fields(rest) {
		if len(w) < 2 || IsStopword(w) {
			continue
		}
		if a.stem {
			if s := snowballeng.Stem(w, false); len(s) >= 2 {
				w = s
			}
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}

	return query.New(phrases, words, topics)
}
