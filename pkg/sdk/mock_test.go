package leadex

import (
	"context"

	domjob "github.com/kailas-cloud/leadex/internal/domain/export/job"
	"github.com/kailas-cloud/leadex/internal/domain/search/filter"
	"github.com/kailas-cloud/leadex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/leadex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/leadex/internal/usecase/search"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, req filter.Request, p searchuc.Params) (result.Page, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req filter.Request, p searchuc.Params) (result.Page, error) {
	return m.searchFn(ctx, req, p)
}

// --- exportUseCase mock ---

type mockExportUC struct {
	startFn    func(ctx context.Context, req filter.Request) (domjob.Job, error)
	statusFn   func(ctx context.Context, id string) (domjob.Job, error)
	downloadFn func(ctx context.Context, id string) (domjob.Job, error)
	shutdownFn func(ctx context.Context) error
}

func (m *mockExportUC) Start(ctx context.Context, req filter.Request) (domjob.Job, error) {
	return m.startFn(ctx, req)
}

func (m *mockExportUC) Status(ctx context.Context, id string) (domjob.Job, error) {
	return m.statusFn(ctx, id)
}

func (m *mockExportUC) Download(ctx context.Context, id string) (domjob.Job, error) {
	return m.downloadFn(ctx, id)
}

func (m *mockExportUC) Shutdown(ctx context.Context) error {
	if m.shutdownFn == nil {
		return nil
	}
	return m.shutdownFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report {
	return m.report
}

// --- helpers ---

func testClient(searchSvc searchUseCase, exportSvc exportUseCase) *Client {
	return &Client{
		searchSvc: searchSvc,
		exportSvc: exportSvc,
	}
}
