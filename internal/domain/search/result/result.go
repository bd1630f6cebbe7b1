package result

import "github.com/kailas-cloud/docqa/internal/domain/topic"

// Hit is the per-document scoring outcome of one query.
type Hit struct {
	File         string
	Excerpt      string
	FirstIndex   int
	TokenMatches int
	Occurrences  int
	TopicMatches int
	Score        int
}

// Item is one ranked excerpt in a Response.
type Item struct {
	Content        string      `json:"content"`
	Source         string      `json:"source"`
	RelevanceScore int         `json:"relevanceScore"`
	MatchedTopics  []topic.Tag `json:"matchedTopics"`
}

// Response is the retrieval contract handed to callers and to the chat agent.
// Exactly one of Info and Error is set.
type Response struct {
	Results        []Item      `json:"results"`
	Sources        []string    `json:"sources"`
	TotalDocuments int         `json:"totalDocuments"`
	Query          string      `json:"query"`
	Topics         []topic.Tag `json:"topics"`
	Info           string      `json:"info,omitempty"`
	Error          string      `json:"error,omitempty"`
}

// Outcome classifies a Response for metrics and logs.
type Outcome string

// Retrieval outcomes.
const (
	OutcomeOK              Outcome = "ok"
	OutcomeMissingQuery    Outcome = "missing_query"
	OutcomeNoKnowledgeBase Outcome = "no_knowledge_base"
	OutcomeNoTerms         Outcome = "no_terms"
	OutcomeNoMatch         Outcome = "no_match"
)

// Empty builds a soft-outcome response with no results.
// Slices are non-nil so they serialize as [] rather than null.
func Empty(query string, totalDocuments int, topics []topic.Tag) Response {
	if topics == nil {
		topics = []topic.Tag{}
	}
	return Response{
		Results:        []Item{},
		Sources:        []string{},
		TotalDocuments: totalDocuments,
		Query:          query,
		Topics:         topics,
	}
}
