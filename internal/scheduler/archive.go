package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path"

	"leadgenius_backend/internal/adapters/storage"
	"leadgenius_backend/internal/analyses/repository"
	analyses "leadgenius_backend/internal/analyses/service"
	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/internal/leads/report"
	"leadgenius_backend/platform/logger"
	"leadgenius_backend/platform/metrics"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

const (
	archiveHTMLName = "report.html"
	archivePDFName  = "report.pdf"
)

// RecordLoader loads saved analyses.
type RecordLoader interface {
	Get(ctx context.Context, id uuid.UUID) (domain.LeadRecord, error)
}

// Archiver renders both report formats of a saved analysis and uploads
// them under <dataset>/<analysisId>/.
type Archiver struct {
	records  RecordLoader
	renderer *report.Renderer
	storage  storage.StorageService
	bucket   string
	log      *logger.Logger
}

func NewArchiver(records RecordLoader, renderer *report.Renderer, storageSvc storage.StorageService, bucket string, log *logger.Logger) *Archiver {
	return &Archiver{
		records:  records,
		renderer: renderer,
		storage:  storageSvc,
		bucket:   bucket,
		log:      log,
	}
}

// ArchiveKey returns the object key of an archived report file.
func ArchiveKey(rec domain.LeadRecord, name string) string {
	return path.Join(string(rec.DatasetType), rec.ID.String(), name)
}

// Archive renders and uploads the reports of analysis id. A missing
// analysis is not retried.
func (a *Archiver) Archive(ctx context.Context, id uuid.UUID) (err error) {
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.ArchiveJobs.WithLabelValues(outcome).Inc()
	}()

	rec, err := a.records.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("analysis %s: %v: %w", id, err, asynq.SkipRetry)
	}
	if err != nil {
		return fmt.Errorf("load analysis %s: %w", id, err)
	}

	var html, pdf analyses.Rendered
	var render errgroup.Group
	render.Go(func() error {
		var err error
		html, err = analyses.RenderRecord(a.renderer, rec, analyses.FormatHTML)
		return err
	})
	render.Go(func() error {
		var err error
		pdf, err = analyses.RenderRecord(a.renderer, rec, analyses.FormatPDF)
		return err
	})
	if err := render.Wait(); err != nil {
		return fmt.Errorf("render reports for %s: %w", id, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.storage.PutObject(gctx, a.bucket, ArchiveKey(rec, archiveHTMLName), "text/html; charset=utf-8", html.Body)
	})
	g.Go(func() error {
		return a.storage.PutObject(gctx, a.bucket, ArchiveKey(rec, archivePDFName), "application/pdf", pdf.Body)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("upload reports for %s: %w", id, err)
	}

	a.log.Info("reports archived", "analysisId", id, "bucket", a.bucket, "datasetType", rec.DatasetType)
	return nil
}
