// Package document scans the knowledge-base directory and extracts plain text
// from every accepted file.
package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/docqa/internal/domain"
	domdoc "github.com/kailas-cloud/docqa/internal/domain/document"
)

// contentCache is the consumer interface for cached extraction results (ISP).
type contentCache interface {
	Get(ctx context.Context, path string, size int64, modTime time.Time) (string, bool)
	Put(ctx context.Context, path string, size int64, modTime time.Time, content string)
}

// Config holds loader limits. Zero values fall back to domain.DefaultKnowledge.
type Config struct {
	Directory   string
	Extensions  []string
	MaxFileSize int64
	Concurrency int
}

// Loader implements the document snapshot used by retrieval.
// It holds no documents between calls; every Load rescans the directory.
type Loader struct {
	dir         string
	accepted    map[string]struct{}
	maxSize     int64
	concurrency int
	registry    *Registry
	cache       contentCache
	fallbacks   *prometheus.CounterVec
	loaded      prometheus.Gauge
	logger      *zap.Logger
}

// Option configures optional loader collaborators.
type Option func(*Loader)

// WithCache enables the extracted-content cache for cacheable formats.
func WithCache(c contentCache) Option {
	return func(l *Loader) { l.cache = c }
}

// WithMetrics attaches the fallback counter (labels "format", "reason") and
// the loaded-documents gauge. Either may be nil.
func WithMetrics(fallbacks *prometheus.CounterVec, loaded prometheus.Gauge) Option {
	return func(l *Loader) {
		l.fallbacks = fallbacks
		l.loaded = loaded
	}
}

// New creates a loader over cfg.Directory using registry for extraction.
func New(cfg Config, registry *Registry, logger *zap.Logger, opts ...Option) *Loader {
	defaults := domain.DefaultKnowledge()

	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = defaults.Extensions
	}
	accepted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		accepted[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	l := &Loader{
		dir:         cfg.Directory,
		accepted:    accepted,
		maxSize:     cfg.MaxFileSize,
		concurrency: cfg.Concurrency,
		registry:    registry,
		logger:      logger,
	}
	if l.maxSize <= 0 {
		l.maxSize = defaults.MaxFileSize
	}
	if l.concurrency <= 0 {
		l.concurrency = defaults.Concurrency
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Directory returns the scanned directory.
func (l *Loader) Directory() string { return l.dir }

// candidate is an accepted directory entry with its stat info.
type candidate struct {
	name string
	path string
	info fs.FileInfo
}

// Load returns the current document snapshot in directory order.
// An inaccessible directory yields an empty snapshot; per-file failures omit
// the file. Only context cancellation is returned as an error.
func (l *Loader) Load(ctx context.Context) ([]domdoc.Document, error) {
	cands, err := l.scan()
	if err != nil {
		l.logger.Warn("Knowledge directory not accessible",
			zap.String("directory", l.dir), zap.Error(err))
		l.setLoaded(0)
		return []domdoc.Document{}, nil
	}

	contents := make([]string, len(cands))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, c := range cands {
		g.Go(func() error {
			contents[i] = l.read(gctx, c)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	docs := make([]domdoc.Document, 0, len(cands))
	for i, c := range cands {
		if contents[i] == "" {
			continue
		}
		docs = append(docs, domdoc.New(c.name, contents[i]))
	}

	l.setLoaded(len(docs))
	return docs, nil
}

// List returns accepted files without extracting them. A missing or
// unreadable directory yields an empty list.
func (l *Loader) List(_ context.Context) ([]domdoc.FileInfo, error) {
	cands, err := l.scan()
	if err != nil {
		return []domdoc.FileInfo{}, nil
	}

	out := make([]domdoc.FileInfo, 0, len(cands))
	for _, c := range cands {
		out = append(out, domdoc.FileInfo{
			Name:       c.name,
			Kind:       domdoc.KindOf(c.name),
			Size:       c.info.Size(),
			ModifiedAt: c.info.ModTime(),
		})
	}
	return out, nil
}

// Check reports whether the directory can be listed.
func (l *Loader) Check(_ context.Context) error {
	if _, err := os.ReadDir(l.dir); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrKnowledgeBaseUnavailable, err)
	}
	return nil
}

// scan lists the directory and applies name, extension and size filters.
func (l *Loader) scan() ([]candidate, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	cands := make([]candidate, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := l.accepted[domdoc.Extension(name)]; !ok {
			continue
		}

		path := filepath.Join(l.dir, name)
		info, err := os.Stat(path)
		if err != nil {
			l.logger.Warn("Skipping unreadable file", zap.String("file", name), zap.Error(err))
			continue
		}
		if info.IsDir() {
			continue
		}
		if info.Size() > l.maxSize {
			l.logger.Warn("Skipping file: too large",
				zap.String("file", name),
				zap.Int64("size", info.Size()),
				zap.Int64("max_size", l.maxSize),
			)
			continue
		}
		cands = append(cands, candidate{name: name, path: path, info: info})
	}
	return cands, nil
}

// read extracts one file. An empty result means the file is omitted.
func (l *Loader) read(ctx context.Context, c candidate) string {
	format := l.registry.For(domdoc.Extension(c.name))

	useCache := l.cache != nil && format.Cacheable
	if useCache {
		if content, ok := l.cache.Get(ctx, c.path, c.info.Size(), c.info.ModTime()); ok {
			return content
		}
	}

	content, fellBack, err := extract(ctx, format, c.path, c.name)
	switch {
	case fellBack:
		reason := fallbackReason(err)
		if l.fallbacks != nil {
			l.fallbacks.WithLabelValues(format.Name, reason).Inc()
		}
		if !errors.Is(err, errUnsupported) {
			l.logger.Warn("Text extraction failed, using filename fallback",
				zap.String("file", c.name),
				zap.String("reason", reason),
				zap.Error(err),
			)
		}
		return content
	case err != nil:
		l.logger.Warn("Failed to read file", zap.String("file", c.name), zap.Error(err))
		return ""
	}

	if useCache && content != "" {
		l.cache.Put(ctx, c.path, c.info.Size(), c.info.ModTime(), content)
	}
	l.logger.Debug("Loaded document", zap.String("file", c.name), zap.Int("chars", len([]rune(content))))
	return content
}

func (l *Loader) setLoaded(n int) {
	if l.loaded != nil {
		l.loaded.Set(float64(n))
	}
}
