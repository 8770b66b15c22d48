// Package task defines the price list import task payload and queue
// contract shared by the imports module and its HTTP handler.
package task

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskPriceListImport = "catalog.pricelist.import"

// PriceListImportPayload identifies an uploaded price list awaiting import.
type PriceListImportPayload struct {
	JobID    string `json:"jobId"`
	FileKey  string `json:"fileKey"`
	FileName string `json:"fileName"`
}

func NewPriceListImportTask(payload PriceListImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPriceListImport, data), nil
}

func ParsePriceListImportPayload(task *asynq.Task) (PriceListImportPayload, error) {
	var payload PriceListImportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PriceListImportPayload{}, err
	}
	return payload, nil
}

// Enqueuer is what the upload handler needs from the task queue.
type Enqueuer interface {
	EnqueuePriceListImport(ctx context.Context, payload PriceListImportPayload) error
}
