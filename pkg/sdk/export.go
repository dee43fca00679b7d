package leadex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/leadex/internal/domain/search/filter"
)

const defaultPollInterval = time.Second

// Export starts a background CSV export of every lead matching filters.
// The returned job is running; poll ExportStatus or call WaitExport.
func (c *Client) Export(ctx context.Context, filters Filters) (ExportJob, error) {
	start := time.Now()
	j, err := c.exportSvc.Start(ctx, filter.FromMap(filters))
	c.obs.observe("export_start", start, err, "filters", len(filters))
	if err != nil {
		return ExportJob{}, fmt.Errorf("leadex: start export: %w", err)
	}
	return jobFromDomain(&j), nil
}

// ExportStatus returns the current state of an export.
func (c *Client) ExportStatus(ctx context.Context, id string) (ExportJob, error) {
	start := time.Now()
	j, err := c.exportSvc.Status(ctx, id)
	c.obs.observe("export_status", start, err, "job_id", id)
	if err != nil {
		return ExportJob{}, fmt.Errorf("leadex: export status: %w", err)
	}
	return jobFromDomain(&j), nil
}

// ExportFile returns the finished job whose Filepath can be opened.
// It fails with ErrExportNotReady while the export is running or failed.
func (c *Client) ExportFile(ctx context.Context, id string) (ExportJob, error) {
	start := time.Now()
	j, err := c.exportSvc.Download(ctx, id)
	c.obs.observe("export_file", start, err, "job_id", id)
	if err != nil {
		return ExportJob{}, fmt.Errorf("leadex: export file: %w", err)
	}
	return jobFromDomain(&j), nil
}

// WaitExport polls an export until it reaches a terminal status or ctx ends.
// poll <= 0 uses one second. A failed export is returned with a nil error;
// check Status.
func (c *Client) WaitExport(ctx context.Context, id string, poll time.Duration) (ExportJob, error) {
	if poll <= 0 {
		poll = defaultPollInterval
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		j, err := c.ExportStatus(ctx, id)
		if err != nil {
			return ExportJob{}, err
		}
		if j.Terminal() {
			return j, nil
		}
		select {
		case <-ctx.Done():
			return j, fmt.Errorf("leadex: wait export: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
