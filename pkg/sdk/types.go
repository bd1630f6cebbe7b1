package docqa

import "time"

// Result is one ranked excerpt.
type Result struct {
	Content        string
	Source         string
	RelevanceScore int
	MatchedTopics  []string
}

// Response is the outcome of one Retrieve call. Info or Error explains empty
// results: a missing query or empty knowledge base sets Error; no searchable
// terms or no match sets Info.
type Response struct {
	Results        []Result
	Sources        []string
	TotalDocuments int
	Query          string
	Topics         []string
	Info           string
	Error          string
}

// Analysis is the tokenized form of a query.
type Analysis struct {
	Phrases []string
	Words   []string
	Topics  []string
}

// DocumentInfo describes an accepted knowledge-base file.
type DocumentInfo struct {
	Name       string
	Type       string // markdown, text, pdf, word, unknown
	Size       int64
	SizeHuman  string
	ModifiedAt time.Time
}
