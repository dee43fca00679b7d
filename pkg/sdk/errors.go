package leadex

import "github.com/kailas-cloud/leadex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNoIndex        = domain.ErrNoIndex
	ErrSearchFailed   = domain.ErrSearchFailed
	ErrShardFailure   = domain.ErrShardFailure
	ErrJobNotFound    = domain.ErrJobNotFound
	ErrExportNotReady = domain.ErrExportNotReady
)

// IndexResolutionError carries the index names probed before ErrNoIndex.
type IndexResolutionError = domain.IndexResolutionError

// SearchError is a terminal engine failure; Kind is ErrShardFailure or ErrSearchFailed.
type SearchError = domain.SearchError
