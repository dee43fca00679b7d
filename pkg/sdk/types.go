package leadex

import (
	"time"

	domjob "github.com/kailas-cloud/leadex/internal/domain/export/job"
	"github.com/kailas-cloud/leadex/internal/domain/search/result"
)

// Filters is the flat filter vocabulary of GET /leads keyed by parameter
// name. Values may be strings, numbers, booleans or lists of those.
type Filters map[string]any

// Lead is one normalized lead document.
type Lead struct {
	// Record is the source document with merged_/linked_ keys folded into
	// nested groups, plus _id and _index.
	Record map[string]any
	// Display holds the resolved export columns keyed by column key.
	Display map[string]string
}

// SearchPage is one page of search results.
type SearchPage struct {
	Leads           []Lead
	Total           int64
	TotalIsEstimate bool
	Offset          int
	Limit           int
	Indices         []string
}

// ExportStatus is the lifecycle state of an export.
type ExportStatus string

// Export statuses. Done and Error are terminal.
const (
	ExportRunning ExportStatus = "running"
	ExportDone    ExportStatus = "done"
	ExportError   ExportStatus = "error"
)

// ExportJob reports the progress of a CSV export.
type ExportJob struct {
	ID         string
	Status     ExportStatus
	Total      int64
	Processed  int64
	Progress   int
	Filename   string
	Filepath   string
	Error      string
	ArchiveKey string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	FinishedAt time.Time
}

// Terminal reports whether the export has finished, successfully or not.
func (j ExportJob) Terminal() bool {
	return j.Status == ExportDone || j.Status == ExportError
}

func pageFromDomain(p *result.Page) *SearchPage {
	leads := make([]Lead, 0, len(p.Rows()))
	for _, row := range p.Rows() {
		leads = append(leads, Lead{Record: row.Record, Display: row.Display})
	}
	return &SearchPage{
		Leads:           leads,
		Total:           p.Total(),
		TotalIsEstimate: p.TotalIsEstimate(),
		Offset:          p.Offset(),
		Limit:           p.Limit(),
		Indices:         p.Indices(),
	}
}

func jobFromDomain(j *domjob.Job) ExportJob {
	return ExportJob{
		ID:         j.ID,
		Status:     ExportStatus(j.Status),
		Total:      j.Total,
		Processed:  j.Processed,
		Progress:   j.Progress,
		Filename:   j.Filename,
		Filepath:   j.Filepath,
		Error:      j.Error,
		ArchiveKey: j.ArchiveKey,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
		FinishedAt: j.FinishedAt,
	}
}
