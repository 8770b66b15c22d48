package transport

import (
	"time"

	"github.com/google/uuid"
)

// ImportJobResponse reports the state of one price list import.
type ImportJobResponse struct {
	ID           uuid.UUID `json:"id"`
	FileName     string    `json:"fileName"`
	Status       string    `json:"status"`
	RowsImported int       `json:"rowsImported"`
	RowsSkipped  int       `json:"rowsSkipped"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ImportJobListResponse wraps recent import jobs.
type ImportJobListResponse struct {
	Items []ImportJobResponse `json:"items"`
}
