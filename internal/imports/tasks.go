// Package imports provides asynchronous supplier price list imports: CSV
// uploads land in object storage, an asynq task parses them and replaces
// the product catalog.
package imports

import (
	"github.com/hibiken/asynq"

	"inkstitch_backend/internal/imports/task"
)

const TaskPriceListImport = task.TaskPriceListImport

// PriceListImportPayload identifies an uploaded price list awaiting import.
type PriceListImportPayload = task.PriceListImportPayload

func NewPriceListImportTask(payload PriceListImportPayload) (*asynq.Task, error) {
	return task.NewPriceListImportTask(payload)
}

func ParsePriceListImportPayload(t *asynq.Task) (PriceListImportPayload, error) {
	return task.ParsePriceListImportPayload(t)
}

// Enqueuer is what the upload handler needs from the task queue.
type Enqueuer = task.Enqueuer
