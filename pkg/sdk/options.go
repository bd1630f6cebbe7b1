package docqa

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	directory   string
	extensions  []string
	maxFileSize int64
	pdfTimeout  time.Duration
	concurrency int

	topicsFile string
	stemming   bool

	cacheDriver string // "", "memory", "leveldb", "redis", "valkey"
	cachePath   string
	cacheAddrs  []string
	cachePass   string
	cacheTTL    time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithDirectory sets the knowledge-base directory. Default: ./uploads.
func WithDirectory(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.directory = dir
	})
}

// WithExtensions replaces the accepted file extensions (without dots).
// Default: md, mdx, txt, pdf, doc, docx.
func WithExtensions(exts ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.extensions = exts
	})
}

// WithMaxFileSize sets the per-file size cap in bytes. Default: 10 MiB.
func WithMaxFileSize(n int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxFileSize = n
	})
}

// WithPDFTimeout bounds extraction time per PDF. Default: 10s.
func WithPDFTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.pdfTimeout = d
	})
}

// WithConcurrency limits how many files are extracted in parallel. Default: 8.
func WithConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.concurrency = n
	})
}

// WithTopicsFile loads the topic catalog from a YAML file instead of the built-in one.
func WithTopicsFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.topicsFile = path
	})
}

// WithStemming reduces query words to their English stem before matching.
func WithStemming() Option {
	return optionFunc(func(c *clientConfig) {
		c.stemming = true
	})
}

// WithMemoryCache caches extracted PDF text in process memory.
func WithMemoryCache(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "memory"
		c.cacheTTL = ttl
	})
}

// WithLevelDBCache caches extracted PDF text in a LevelDB database at path.
func WithLevelDBCache(path string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "leveldb"
		c.cachePath = path
		c.cacheTTL = ttl
	})
}

// WithRedisCache caches extracted PDF text in Redis.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePass = password
		c.cacheTTL = ttl
	})
}

// WithValkeyCache caches extracted PDF text in Valkey.
func WithValkeyCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "valkey"
		c.cacheAddrs = []string{addr}
		c.cachePass = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// RetrieveOption tunes a single Retrieve call.
type RetrieveOption func(*retrieveConfig)

type retrieveConfig struct {
	maxResults int
	category   string
}

// WithMaxResults caps the number of results (1..10). Default: 5.
func WithMaxResults(n int) RetrieveOption {
	return func(c *retrieveConfig) { c.maxResults = n }
}

// WithCategory passes a category hint. Ranking does not use it.
func WithCategory(category string) RetrieveOption {
	return func(c *retrieveConfig) { c.category = category }
}
