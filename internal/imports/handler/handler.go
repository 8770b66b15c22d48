package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inkstitch_backend/internal/adapters/storage"
	"inkstitch_backend/internal/imports/task"
	"inkstitch_backend/internal/imports/repository"
	"inkstitch_backend/internal/imports/transport"
	"inkstitch_backend/platform/config"
	"inkstitch_backend/platform/httpkit"
	"inkstitch_backend/platform/logger"
)

const uploadsFolder = "uploads"

// Handler handles price list upload and import status requests.
type Handler struct {
	repo   repository.Repository
	store  storage.StorageService
	queue  task.Enqueuer
	bucket string
	log    *logger.Logger
}

// New creates a new imports handler.
func New(repo repository.Repository, store storage.StorageService, queue task.Enqueuer, cfg config.MinIOConfig, log *logger.Logger) *Handler {
	return &Handler{
		repo:   repo,
		store:  store,
		queue:  queue,
		bucket: cfg.GetMinioBucketPriceLists(),
		log:    log,
	}
}

// Upload accepts a multipart CSV upload, stores it and enqueues the import.
// POST /api/v1/imports/price-list
func (h *Handler) Upload(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing file upload", nil)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.store.ValidateContentType(contentType); err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := h.store.ValidateFileSize(fileHeader.Size); err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "cannot read file upload", nil)
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	fileKey, err := h.store.UploadFile(ctx, h.bucket, uploadsFolder, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		h.log.Error("price list upload failed", "file", fileHeader.Filename, "error", err)
		httpkit.Error(c, http.StatusInternalServerError, "upload failed", nil)
		return
	}

	job := repository.Job{
		ID:        uuid.New(),
		FileName:  fileHeader.Filename,
		FileKey:   fileKey,
		Status:    repository.StatusPending,
		CreatedBy: identity.UserID(),
	}
	if err := h.repo.Create(ctx, job); httpkit.HandleError(c, err) {
		return
	}

	err = h.queue.EnqueuePriceListImport(ctx, task.PriceListImportPayload{
		JobID:    job.ID.String(),
		FileKey:  fileKey,
		FileName: fileHeader.Filename,
	})
	if err != nil {
		h.log.Error("failed to enqueue import", "job_id", job.ID, "error", err)
		if markErr := h.repo.MarkFailed(ctx, job.ID, "failed to enqueue import task"); markErr != nil {
			h.log.Error("failed to record enqueue failure", "job_id", job.ID, "error", markErr)
		}
		httpkit.Error(c, http.StatusInternalServerError, "failed to schedule import", nil)
		return
	}

	httpkit.JSON(c, http.StatusAccepted, toJobResponse(job))
}

// Get reports the status of one import job.
// GET /api/v1/imports/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid job ID", nil)
		return
	}

	job, err := h.repo.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toJobResponse(job))
}

// List returns the most recent import jobs.
// GET /api/v1/imports
func (h *Handler) List(c *gin.Context) {
	jobs, err := h.repo.List(c.Request.Context(), 50)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.ImportJobResponse, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, toJobResponse(job))
	}
	httpkit.OK(c, transport.ImportJobListResponse{Items: items})
}

func toJobResponse(job repository.Job) transport.ImportJobResponse {
	return transport.ImportJobResponse{
		ID:           job.ID,
		FileName:     job.FileName,
		Status:       job.Status,
		RowsImported: job.RowsImported,
		RowsSkipped:  job.RowsSkipped,
		Error:        job.Error,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
}
