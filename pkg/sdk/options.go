package leadex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/leadex/internal/repository/archive"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	esAddrs    []string
	esUsername string
	esPassword string
	esAPIKey   string

	index           string
	fallbackIndices []string

	redisAddr     string
	redisPassword string
	jobTTL        time.Duration

	defaultPageSize int
	maxPageSize     int
	mappingCache    int
	mappingTTL      time.Duration

	exportDir     string
	exportBatch   int
	keepAlive     time.Duration
	maxConcurrent int
	batchesPerSec float64
	archive       *archive.Config

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithElasticsearch sets the cluster addresses.
func WithElasticsearch(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.esAddrs = addrs
	})
}

// WithBasicAuth sets Elasticsearch basic auth credentials.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.esUsername = username
		c.esPassword = password
	})
}

// WithAPIKey sets an Elasticsearch API key.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.esAPIKey = key
	})
}

// WithIndex sets the primary lead index and the fallbacks probed after it.
// Defaults to "leads" with "leads_merged" as fallback.
func WithIndex(primary string, fallbacks ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = primary
		c.fallbackIndices = fallbacks
	})
}

// WithRedisJobs keeps export job records in Redis instead of process memory.
func WithRedisJobs(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddr = addr
		c.redisPassword = password
		c.jobTTL = ttl
	})
}

// WithPageSizes sets the default and maximum interactive page size.
// Defaults: 25 and 200.
func WithPageSizes(defaultSize, maxSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	})
}

// WithMappingCache caches index mappings for ttl. Disabled by default.
func WithMappingCache(size int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.mappingCache = size
		c.mappingTTL = ttl
	})
}

// WithExportDir sets where CSV exports are written. Default: ./exports.
func WithExportDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.exportDir = dir
	})
}

// WithExportBatchSize sets the scroll batch size, clamped to 100..5000.
// Default: 1000.
func WithExportBatchSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.exportBatch = n
	})
}

// WithScrollKeepAlive sets the cursor keep-alive resent on every fetch.
// Default: 2m.
func WithScrollKeepAlive(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.keepAlive = d
	})
}

// WithMaxConcurrentExports bounds the number of exports running at once.
// Default: 2.
func WithMaxConcurrentExports(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConcurrent = n
	})
}

// WithExportRateLimit paces scroll fetches per export. 0 disables pacing.
func WithExportRateLimit(batchesPerSec float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.batchesPerSec = batchesPerSec
	})
}

// ArchiveConfig points at an S3-compatible bucket that receives a copy of
// every finished export.
type ArchiveConfig struct {
	Endpoint  string // host:port, no scheme
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Region    string // default us-east-1
	Secure    bool
}

// WithArchive uploads finished exports to object storage. A failed upload
// is logged and leaves the export done.
func WithArchive(a ArchiveConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.archive = &archive.Config{
			Endpoint:  a.Endpoint,
			AccessKey: a.AccessKey,
			SecretKey: a.SecretKey,
			Bucket:    a.Bucket,
			Prefix:    a.Prefix,
			Region:    a.Region,
			Secure:    a.Secure,
		}
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
