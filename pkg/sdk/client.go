package docqa

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/db"
	dbLevel "github.com/kailas-cloud/docqa/internal/db/leveldb"
	dbRedis "github.com/kailas-cloud/docqa/internal/db/redis"
	"github.com/kailas-cloud/docqa/internal/domain"
	domdoc "github.com/kailas-cloud/docqa/internal/domain/document"
	"github.com/kailas-cloud/docqa/internal/domain/search/request"
	"github.com/kailas-cloud/docqa/internal/domain/search/result"
	"github.com/kailas-cloud/docqa/internal/domain/topic"
	"github.com/kailas-cloud/docqa/internal/repository/contentcache"
	documentrepo "github.com/kailas-cloud/docqa/internal/repository/document"
	healthuc "github.com/kailas-cloud/docqa/internal/usecase/health"
	retrievaluc "github.com/kailas-cloud/docqa/internal/usecase/retrieval"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 24 * time.Hour
)

// Internal interfaces for substitution in tests.
type retrievalUseCase interface {
	Retrieve(ctx context.Context, req *request.Request) result.Response
	Analyze(q string) (phrases, words []string, topics []topic.Tag)
	Catalog() *topic.Catalog
}

type documentLister interface {
	List(ctx context.Context) ([]domdoc.FileInfo, error)
}

// Client is the docqa SDK entry point. It is safe for concurrent use.
type Client struct {
	store        db.Store
	retrievalSvc retrievalUseCase
	documents    documentLister
	healthSvc    healthUseCase
	obs          *observer
}

// New creates a Client. When a Redis, Valkey or LevelDB cache is configured
// the provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	def := domain.DefaultKnowledge()
	cfg := &clientConfig{
		directory:   "./uploads",
		extensions:  def.Extensions,
		maxFileSize: def.MaxFileSize,
		pdfTimeout:  time.Duration(def.PDFTimeoutSec) * time.Second,
		concurrency: def.Concurrency,
		cacheTTL:    defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.cacheTTL <= 0 {
		cfg.cacheTTL = defaultCacheTTL
	}

	catalog := topic.Default()
	if cfg.topicsFile != "" {
		c, err := topic.LoadFile(cfg.topicsFile)
		if err != nil {
			return nil, fmt.Errorf("docqa: %w", err)
		}
		catalog = c
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	if store != nil {
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("docqa: cache store not ready: %w", err)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return wireClient(store, catalog, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.cacheDriver {
	case "", "memory":
		return nil, nil
	case "leveldb":
		s, err := dbLevel.Open(cfg.cachePath)
		if err != nil {
			return nil, fmt.Errorf("docqa: open leveldb cache: %w", err)
		}
		return s, nil
	case "redis", "valkey":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePass,
		})
		if err != nil {
			return nil, fmt.Errorf("docqa: create %s store: %w", cfg.cacheDriver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("docqa: unknown cache driver %q", cfg.cacheDriver)
	}
}

func wireClient(store db.Store, catalog *topic.Catalog, cfg *clientConfig, obs *observer) *Client {
	// Internals log through zap; SDK operations are reported via the slog observer.
	log := zap.NewNop()

	var loaderOpts []documentrepo.Option
	var pinger healthuc.CachePinger
	switch {
	case store != nil:
		loaderOpts = append(loaderOpts, documentrepo.WithCache(contentcache.New(store, cfg.cacheTTL, nil, log)))
		pinger = store
	case cfg.cacheDriver == "memory":
		mem := contentcache.NewMemoryStore()
		loaderOpts = append(loaderOpts, documentrepo.WithCache(contentcache.New(mem, cfg.cacheTTL, nil, log)))
		pinger = mem
	}

	loader := documentrepo.New(documentrepo.Config{
		Directory:   cfg.directory,
		Extensions:  cfg.extensions,
		MaxFileSize: cfg.maxFileSize,
		Concurrency: cfg.concurrency,
	}, documentrepo.NewRegistry(cfg.pdfTimeout), log, loaderOpts...)

	return &Client{
		store:        store,
		retrievalSvc: retrievaluc.New(loader, catalog, cfg.stemming),
		documents:    loader,
		healthSvc:    healthuc.New(loader, pinger, nil).WithoutChat(),
		obs:          obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Retrieve ranks knowledge-base excerpts for query. The only error is an
// invalid parameter (ErrInvalidRequest); empty outcomes are reported in the
// response's Info or Error field.
func (c *Client) Retrieve(ctx context.Context, query string, opts ...RetrieveOption) (resp Response, err error) {
	id, start := c.obs.begin()
	defer func() { c.obs.observe("retrieve", id, start, err) }()

	var rc retrieveConfig
	for _, o := range opts {
		o(&rc)
	}

	req, err := request.New(query, rc.maxResults, rc.category)
	if err != nil {
		return Response{}, fmt.Errorf("retrieve: %w", err)
	}
	return responseFromDomain(c.retrievalSvc.Retrieve(ctx, &req)), nil
}

// Analyze returns the phrases, words and topics extracted from query.
func (c *Client) Analyze(query string) Analysis {
	phrases, words, topics := c.retrievalSvc.Analyze(query)
	return Analysis{Phrases: phrases, Words: words, Topics: tagsToStrings(topics)}
}

// Topics returns the catalog tags in catalog order.
func (c *Client) Topics() []string {
	return tagsToStrings(c.retrievalSvc.Catalog().Tags())
}

// Classify returns the topics whose patterns match text.
func (c *Client) Classify(text string) []string {
	return tagsToStrings(c.retrievalSvc.Catalog().Classify(text))
}

// Documents lists accepted files in the knowledge-base directory without reading them.
func (c *Client) Documents(ctx context.Context) (docs []DocumentInfo, err error) {
	id, start := c.obs.begin()
	defer func() { c.obs.observe("documents", id, start, err) }()

	files, err := c.documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	docs = make([]DocumentInfo, len(files))
	for i, f := range files {
		docs[i] = DocumentInfo{
			Name:       f.Name,
			Type:       string(f.Kind),
			Size:       f.Size,
			SizeHuman:  domdoc.HumanSize(f.Size),
			ModifiedAt: f.ModifiedAt,
		}
	}
	return docs, nil
}

func responseFromDomain(r result.Response) Response {
	out := Response{
		Results:        make([]Result, len(r.Results)),
		Sources:        r.Sources,
		TotalDocuments: r.TotalDocuments,
		Query:          r.Query,
		Topics:         tagsToStrings(r.Topics),
		Info:           r.Info,
		Error:          r.Error,
	}
	for i, it := range r.Results {
		out.Results[i] = Result{
			Content:        it.Content,
			Source:         it.Source,
			RelevanceScore: it.RelevanceScore,
			MatchedTopics:  tagsToStrings(it.MatchedTopics),
		}
	}
	return out
}

func tagsToStrings(tags []topic.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}
