// Package retrieval turns free-text questions into ranked excerpts from the
// knowledge-base documents.
package retrieval

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain/search/request"
	"github.com/kailas-cloud/docqa/internal/domain/search/result"
	"github.com/kailas-cloud/docqa/internal/domain/topic"
	"github.com/kailas-cloud/docqa/internal/logger"
	"github.com/kailas-cloud/docqa/internal/metrics"
)

// User-facing messages for the soft outcomes.
const (
	MsgMissingQuery    = "Please provide a search query."
	MsgNoKnowledgeBase = "No knowledge base documents found. Please upload onboarding materials to get started."
	MsgNoTerms         = "Could not identify searchable terms in your question."
	MsgNoMatch         = "I couldn't find specific information about that in our knowledge base. " +
		"Try rephrasing your question or ask your manager/HR for help."
)

// Service is the retrieval facade: load, analyze, score, rank, shape.
type Service struct {
	loader   DocumentLoader
	catalog  *topic.Catalog
	analyzer *Analyzer
	scorer   *Scorer
}

// New creates a retrieval service. stem enables English stemming of query words.
func New(loader DocumentLoader, catalog *topic.Catalog, stem bool) *Service {
	return &Service{
		loader:   loader,
		catalog:  catalog,
		analyzer: NewAnalyzer(catalog, stem),
		scorer:   NewScorer(catalog),
	}
}

// Catalog returns the topic catalog used for classification.
func (s *Service) Catalog() *topic.Catalog { return s.catalog }

// Analyze exposes query tokenization.
func (s *Service) Analyze(q string) (phrases, words []string, topics []topic.Tag) {
	t := s.analyzer.Analyze(q)
	return t.Phrases(), t.Words(), t.Topics()
}

// Retrieve runs one retrieval. Empty query, empty knowledge base, no terms and
// no match are reported in the response, never as errors.
func (s *Service) Retrieve(ctx context.Context, req *request.Request) result.Response {
	start := time.Now()
	resp, outcome := s.retrieve(ctx, req)

	metrics.RetrievalRequestsTotal.WithLabelValues(string(outcome)).Inc()
	metrics.RetrievalDuration.Observe(time.Since(start).Seconds())

	logger.FromContext(ctx).Debug("Retrieval completed",
		zap.String("outcome", string(outcome)),
		zap.Int("results", len(resp.Results)),
		zap.Int("total_documents", resp.TotalDocuments),
		zap.String("category", req.Category()),
		zap.Duration("duration", time.Since(start)),
	)
	return resp
}

func (s *Service) retrieve(ctx context.Context, req *request.Request) (result.Response, result.Outcome) {
	q := req.Query()
	if q == "" {
		resp := result.Empty(q, 0, nil)
		resp.Error = MsgMissingQuery
		return resp, result.OutcomeMissingQuery
	}

	docs, err := s.loader.Load(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("Document load failed", zap.Error(err))
		docs = nil
	}
	if len(docs) == 0 {
		resp := result.Empty(q, 0, nil)
		resp.Error = MsgNoKnowledgeBase
		return resp, result.OutcomeNoKnowledgeBase
	}

	tokens := s.analyzer.Analyze(q)
	if tokens.IsEmpty() {
		resp := result.Empty(q, len(docs), tokens.Topics())
		resp.Info = MsgNoTerms
		return resp, result.OutcomeNoTerms
	}

	hits := make([]result.Hit, 0, len(docs))
	for i := range docs {
		if hit, ok := s.scorer.Score(&docs[i], &tokens); ok {
			hits = append(hits, hit)
		}
	}
	if len(hits) == 0 {
		resp := result.Empty(q, len(docs), tokens.Topics())
		resp.Info = MsgNoMatch
		return resp, result.OutcomeNoMatch
	}

	// Stable: equal scores keep directory order.
	slices.SortStableFunc(hits, func(a, b result.Hit) int { return b.Score - a.Score })
	if len(hits) > req.MaxResults() {
		hits = hits[:req.MaxResults()]
	}

	resp := result.Empty(q, len(docs), tokens.Topics())
	resp.Results = make([]result.Item, 0, len(hits))
	seen := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		resp.Results = append(resp.Results, result.Item{
			Content:        h.Excerpt,
			Source:         h.File,
			RelevanceScore: h.Score,
			MatchedTopics:  s.excerptTopics(tokens.Topics(), h.Excerpt),
		})
		if _, ok := seen[h.File]; !ok {
			seen[h.File] = struct{}{}
			resp.Sources = append(resp.Sources, h.File)
		}
	}
	resp.Info = fmt.Sprintf("Found %d relevant section(s) from %d document(s)", len(resp.Results), len(resp.Sources))
	return resp, result.OutcomeOK
}

// excerptTopics narrows query topics to those visible in the excerpt.
func (s *Service) excerptTopics(topics []topic.Tag, excerpt string) []topic.Tag {
	matched := make([]topic.Tag, 0, len(topics))
	for _, t := range topics {
		if s.catalog.Match(t, excerpt) {
			matched = append(matched, t)
		}
	}
	return matched
}
