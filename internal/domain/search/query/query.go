package query

import "github.com/kailas-cloud/docqa/internal/domain/topic"

// Tokens is the analyzed form of a free-text query. It is built once per query
// and never modified afterwards.
type Tokens struct {
	phrases []string
	words   []string
	topics  []topic.Tag
}

// New creates Tokens. Slices are owned by the returned value.
func New(phrases, words []string, topics []topic.Tag) Tokens {
	return Tokens{phrases: phrases, words: words, topics: topics}
}

// Phrases returns the quoted phrases, lowercased, in query order.
func (t *Tokens) Phrases() []string { return t.phrases }

// Words returns the significant loose words, lowercased and deduplicated.
func (t *Tokens) Words() []string { return t.words }

// Topics returns the matched topic tags in catalog order.
func (t *Tokens) Topics() []topic.Tag { return t.topics }

// Terms returns the match terms: phrases first, then words.
func (t *Tokens) Terms() []string {
	terms := make([]string, 0, len(t.phrases)+len(t.words))
	terms = append(terms, t.phrases...)
	return append(terms, t.words...)
}

// IsEmpty reports whether there is nothing to match on.
// Topics alone do not make a query searchable.
func (t *Tokens) IsEmpty() bool { return len(t.phrases) == 0 && len(t.words) == 0 }
