// Package job models a background CSV export.
package job

import "time"

// Status is the lifecycle state of an export job.
type Status string

// Job status constants. Done and Error are terminal.
const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool { return s == StatusDone || s == StatusError }

// Job is the persisted state of one export.
type Job struct {
	ID         string    `json:"id"`
	Status     Status    `json:"status"`
	Total      int64     `json:"total"`
	Processed  int64     `json:"processed"`
	Progress   int       `json:"progress"`
	Filename   string    `json:"filename"`
	Filepath   string    `json:"filepath"`
	Error      string    `json:"error,omitempty"`
	ArchiveKey string    `json:"archive_key,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// New creates a running job.
func New(id, filename, filepath string, now time.Time) Job {
	return Job{
		ID:        id,
		Status:    StatusRunning,
		Filename:  filename,
		Filepath:  filepath,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Filename builds the export file name for a job created at t.
func Filename(id string, t time.Time) string {
	return "leads_export_" + t.UTC().Format("20060102T150405Z") + "_" + id + ".csv"
}

// Patch is a partial job update. Nil fields are unchanged.
type Patch struct {
	Status     *Status
	Total      *int64
	Processed  *int64
	Error      *string
	ArchiveKey *string
}

// Apply returns j with p applied at time now. Progress is recomputed from
// processed/total. Status changes out of a terminal state are ignored.
func (j Job) Apply(p Patch, now time.Time) Job {
	if p.Total != nil {
		j.Total = *p.Total
	}
	if p.Processed != nil {
		j.Processed = *p.Processed
	}
	if p.Error != nil {
		j.Error = *p.Error
	}
	if p.ArchiveKey != nil {
		j.ArchiveKey = *p.ArchiveKey
	}
	if p.Status != nil && !j.Status.IsTerminal() {
		j.Status = *p.Status
		if j.Status.IsTerminal() {
			j.FinishedAt = now
		}
	}
	j.Progress = progress(j)
	j.UpdatedAt = now
	return j
}

func progress(j Job) int {
	if j.Status == StatusDone {
		return 100
	}
	if j.Total <= 0 {
		return 0
	}
	pct := int(j.Processed * 100 / j.Total)
	return min(pct, 100)
}

// Downloadable reports whether the job's file may be served.
func (j Job) Downloadable() bool { return j.Status == StatusDone }

// Progress builds a patch that records processed rows.
func Progress(processed int64) Patch { return Patch{Processed: &processed} }

// Done builds a terminal success patch.
func Done(processed int64) Patch {
	s := StatusDone
	return Patch{Status: &s, Processed: &processed}
}

// Failed builds a terminal failure patch.
func Failed(err error) Patch {
	s := StatusError
	msg := err.Error()
	return Patch{Status: &s, Error: &msg}
}
