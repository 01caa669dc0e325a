// Package app wires configuration into a ready dashboard service. The API
// server and the CLI share it.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/config"
	"github.com/dvloznov/finance-dashboard/internal/dashboard"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/filter"
	"github.com/dvloznov/finance-dashboard/internal/gcsuploader"
	infraBQ "github.com/dvloznov/finance-dashboard/internal/infra/bigquery"
	"github.com/dvloznov/finance-dashboard/internal/infra/sqlite"
	"github.com/dvloznov/finance-dashboard/internal/narrative"
	"github.com/dvloznov/finance-dashboard/internal/notionsync"
	"github.com/dvloznov/finance-dashboard/internal/report"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

// App holds the wired service and the resources to release on shutdown.
type App struct {
	Config  *config.Config
	Store   *store.CachedStore
	Service *dashboard.Service

	closers []io.Closer
	log     zerolog.Logger
}

// New builds every dependency named by cfg. Optional integrations that fail
// to initialize are logged and left out.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, log: log}

	repo, err := OpenRepository(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	a.closers = append(a.closers, repo)
	a.Store = store.NewCachedStore(repo, cfg.RecordsTTL, cfg.CardTTL)

	opts := []dashboard.Option{
		dashboard.WithPolicy(filter.ParsePolicy(cfg.MissingExpenseType)),
		dashboard.WithCardUser(cfg.CardUserID),
		dashboard.WithCurrency(cfg.Currency),
		dashboard.WithTimeout(cfg.PipelineTimeout),
	}

	completer, err := narrative.NewGeminiCompleter(ctx, cfg.GeminiModel)
	if err != nil {
		log.Warn().Err(err).Msg("Narrative generation disabled")
	} else {
		opts = append(opts, dashboard.WithGenerator(narrative.NewGenerator(completer)))
	}

	// Cloud Storage backs both the gs:// font directory and report uploads.
	var gcs *gcsuploader.GCSStorageService
	if cfg.ReportBucket != "" || strings.HasPrefix(cfg.FontDir, "gs://") {
		gcs, err = gcsuploader.NewGCSStorageService(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Cloud Storage unavailable")
		} else {
			a.closers = append(a.closers, gcs)
		}
	}

	opts = append(opts, dashboard.WithAssembler(report.NewAssembler(a.fontSource(ctx, gcs), cfg.Currency)))

	if cfg.ReportBucket != "" && gcs != nil {
		opts = append(opts, dashboard.WithUploader(gcsuploader.NewReportUploader(gcs, cfg.ReportBucket)))
		log.Info().Str("bucket", cfg.ReportBucket).Msg("Report upload enabled")
	}

	if cfg.NotionEnabled() {
		pub := notionsync.NewPublisher(notionsync.NewClient(cfg.NotionToken), cfg.NotionDBID)
		opts = append(opts, dashboard.WithSummaryPublisher(pub))
		log.Info().Str("database_id", cfg.NotionDBID).Msg("Notion summaries enabled")
	}

	a.Service = dashboard.NewService(a.Store, opts...)
	return a, nil
}

// Repository is a record store the CLI can also write to.
type Repository interface {
	store.Repository
	InsertRecords(ctx context.Context, records []domain.Record) error
	Close() error
}

// OpenRepository opens the record store selected by RECORD_STORE.
func OpenRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Repository, error) {
	switch cfg.RecordStore {
	case config.StoreSQLite:
		repo, err := sqlite.NewRepository(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("OpenRepository: %w", err)
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("Using sqlite record store")
		return repo, nil
	default:
		repo, err := infraBQ.NewBigQueryRecordRepository(ctx, Tables(cfg))
		if err != nil {
			return nil, fmt.Errorf("OpenRepository: %w", err)
		}
		log.Info().Str("project", cfg.ProjectID).Str("dataset", cfg.Dataset).Msg("Using BigQuery record store")
		return repo, nil
	}
}

// fontSource picks the report fonts from FONT_DIR. A gs:// directory is
// fetched once; when that fails every report fails with report.ErrMissingFont.
func (a *App) fontSource(ctx context.Context, gcs *gcsuploader.GCSStorageService) report.FontSource {
	dir := a.Config.FontDir
	switch {
	case dir == "":
		return report.EmbeddedFonts()
	case strings.HasPrefix(dir, "gs://"):
		if gcs == nil {
			return missingFonts{err: fmt.Errorf("%w: no Cloud Storage client for %s", report.ErrMissingFont, dir)}
		}
		fonts, err := gcsuploader.FetchFonts(ctx, gcs, dir)
		if err != nil {
			a.log.Error().Err(err).Str("font_dir", dir).Msg("Failed to fetch report fonts")
			return missingFonts{err: fmt.Errorf("%w: %v", report.ErrMissingFont, err)}
		}
		return fonts
	default:
		return report.DirFontSource(dir)
	}
}

// Close releases every opened client in reverse order.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Tables maps the configuration to BigQuery table names.
func Tables(cfg *config.Config) infraBQ.Tables {
	return infraBQ.Tables{
		ProjectID: cfg.ProjectID,
		Dataset:   cfg.Dataset,
		Records:   cfg.RecordsTable,
		Card:      cfg.CardTable,
	}
}

type missingFonts struct {
	err error
}

func (m missingFonts) ReadFont(name string) ([]byte, error) {
	return nil, fmt.Errorf("ReadFont %s: %w", name, m.err)
}
