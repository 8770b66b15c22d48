package imports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"inkstitch_backend/internal/adapters/storage"
	catalogtransport "inkstitch_backend/internal/catalog/transport"
	"inkstitch_backend/internal/events"
	"inkstitch_backend/internal/imports/repository"
	"inkstitch_backend/platform/config"
	"inkstitch_backend/platform/logger"
)

// CatalogImporter replaces the product catalog with the parsed rows.
type CatalogImporter interface {
	Import(ctx context.Context, rows []catalogtransport.ImportRow) (catalogtransport.ImportResult, error)
}

// Worker consumes import tasks from the asynq queue.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	repo    repository.Repository
	store   storage.StorageService
	catalog CatalogImporter
	bus     events.Bus
	bucket  string
	log     *logger.Logger
}

// WorkerConfig combines the queue and storage settings the worker needs.
type WorkerConfig interface {
	config.SchedulerConfig
	config.MinIOConfig
}

// NewWorker creates an asynq worker handling price list imports.
func NewWorker(
	cfg WorkerConfig,
	repo repository.Repository,
	store storage.StorageService,
	catalog CatalogImporter,
	bus events.Bus,
	log *logger.Logger,
) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 4
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		repo:    repo,
		store:   store,
		catalog: catalog,
		bus:     bus,
		bucket:  cfg.GetMinioBucketPriceLists(),
		log:     log,
	}

	mux.HandleFunc(TaskPriceListImport, w.handlePriceListImport)

	return w, nil
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("import worker stopped", "error", err)
	}
}

func (w *Worker) handlePriceListImport(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePriceListImportPayload(task)
	if err != nil {
		return err
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return err
	}

	if err := w.repo.MarkRunning(ctx, jobID); err != nil {
		return err
	}

	result, err := w.runImport(ctx, payload)
	if err != nil {
		w.log.Error("price list import failed", "job_id", jobID, "file", payload.FileName, "error", err)
		if markErr := w.repo.MarkFailed(ctx, jobID, err.Error()); markErr != nil {
			w.log.Error("failed to record import failure", "job_id", jobID, "error", markErr)
		}
		w.bus.Publish(ctx, events.PriceListImportFailed{
			BaseEvent: events.NewBaseEvent(),
			JobID:     jobID,
			FileName:  payload.FileName,
			Reason:    err.Error(),
		})
		// The failure is recorded on the job; retrying the task would
		// re-run a deterministic parse error.
		return nil
	}

	if err := w.repo.MarkCompleted(ctx, jobID, result.RowsImported, result.RowsSkipped); err != nil {
		return err
	}

	w.log.Info("price list imported",
		"job_id", jobID,
		"file", payload.FileName,
		"rows_imported", result.RowsImported,
		"rows_skipped", result.RowsSkipped)

	w.bus.Publish(ctx, events.PriceListImported{
		BaseEvent:    events.NewBaseEvent(),
		JobID:        jobID,
		FileName:     payload.FileName,
		RowsImported: result.RowsImported,
		RowsSkipped:  result.RowsSkipped,
	})
	return nil
}

func (w *Worker) runImport(ctx context.Context, payload PriceListImportPayload) (catalogtransport.ImportResult, error) {
	reader, err := w.store.DownloadFile(ctx, w.bucket, payload.FileKey)
	if err != nil {
		return catalogtransport.ImportResult{}, fmt.Errorf("download price list: %w", err)
	}
	defer reader.Close()

	rows, err := ParsePriceListCSV(reader)
	if err != nil {
		return catalogtransport.ImportResult{}, err
	}

	return w.catalog.Import(ctx, rows)
}

// priceListColumns maps normalized CSV headers to row fields.
var priceListColumns = map[string]func(*catalogtransport.ImportRow, string){
	"style_no":      func(r *catalogtransport.ImportRow, v string) { r.StyleNo = v },
	"supplier":      func(r *catalogtransport.ImportRow, v string) { r.Supplier = v },
	"product_group": func(r *catalogtransport.ImportRow, v string) { r.ProductGroup = v },
	"category":      func(r *catalogtransport.ImportRow, v string) { r.Category = v },
	"product_name":  func(r *catalogtransport.ImportRow, v string) { r.ProductName = v },
	"size_range":    func(r *catalogtransport.ImportRow, v string) { r.SizeRange = v },
	"colour_name":   func(r *catalogtransport.ImportRow, v string) { r.ColourName = v },
	"colour_code":   func(r *catalogtransport.ImportRow, v string) { r.ColourCode = v },
}

// ParsePriceListCSV parses a supplier price list. The first record is the
// header row; header names are matched case-insensitively with spaces
// treated as underscores. Unknown columns are ignored.
func ParsePriceListCSV(r io.Reader) ([]catalogtransport.ImportRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	setters := make([]func(*catalogtransport.ImportRow, string), len(header))
	priceColumn := -1
	for i, name := range header {
		key := normalizeHeader(name)
		if key == "base_price" || key == "price" {
			priceColumn = i
			continue
		}
		setters[i] = priceListColumns[key]
	}
	if priceColumn < 0 {
		return nil, fmt.Errorf("price list has no base_price column")
	}

	rows := make([]catalogtransport.ImportRow, 0)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}

		var row catalogtransport.ImportRow
		for i, value := range record {
			value = strings.TrimSpace(value)
			if i == priceColumn {
				price, err := strconv.ParseFloat(value, 64)
				if err != nil {
					// The catalog import skips negative prices; an
					// unparseable one gets the same treatment.
					price = -1
				}
				row.BasePrice = price
				continue
			}
			if i < len(setters) && setters[i] != nil {
				setters[i](&row, value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeHeader(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	name = strings.ReplaceAll(name, " ", "_")
	return strings.TrimPrefix(name, "\uFEFF")
}
