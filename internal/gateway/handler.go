// Package gateway implements the upload surface: it buffers the audio in
// durable storage, triggers processing and relays the verdict.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"debate-scoring-service/internal/apperr"
	"debate-scoring-service/internal/jobclient"
	"debate-scoring-service/internal/observability/logging"
	"debate-scoring-service/internal/observability/metrics"
	"debate-scoring-service/internal/storage"
)

// maxUploadMemory caps multipart parsing memory; larger files spill to disk.
const maxUploadMemory = 32 << 20

// Processor invokes the processing endpoint for a stored job.
type Processor interface {
	Ready() error
	Process(ctx context.Context, job jobclient.Request) (*jobclient.Result, error)
}

// Handler owns the upload lifecycle for its duration: store, invoke, delete
// on success, leave in place on failure.
type Handler struct {
	store     storage.BlobStore
	processor Processor
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

// NewHandler wires the gateway from its injected ports.
func NewHandler(store storage.BlobStore, processor Processor) *Handler {
	return &Handler{
		store:     store,
		processor: processor,
		metrics:   metrics.DefaultMetrics,
		log:       logging.WithComponent("gateway"),
	}
}

// NewRouter builds the gateway's HTTP surface.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/process-debate", h.HandleUpload)
	return r
}

type uploadResponse struct {
	Status      string `json:"status"`
	WinningTeam int32  `json:"winning_team"`
}

// HandleUpload accepts the multipart upload and runs the job end to end.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.metrics.RecordUploadRejected()
		apperr.WriteJSON(w, apperr.E(apperr.KindBadRequest, "no audio file provided", nil))
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		h.metrics.RecordUploadRejected()
		apperr.WriteJSON(w, apperr.E(apperr.KindBadRequest, "no audio file provided", nil))
		return
	}
	defer file.Close()

	if header.Filename == "" || header.Size == 0 {
		h.metrics.RecordUploadRejected()
		apperr.WriteJSON(w, apperr.E(apperr.KindBadRequest, "no selected file", nil))
		return
	}

	// Fail on missing deployment config before touching storage so no
	// orphan object is written for a call that can never go anywhere.
	if err := h.processor.Ready(); err != nil {
		h.log.Error().Err(err).Msg("Processing endpoint not configured")
		apperr.WriteJSON(w, err)
		return
	}

	jobID := uuid.NewString()
	key := jobID + ".mp3"
	jobLog := logging.WithJob("gateway", jobID)

	err = h.store.Write(r.Context(), key, file)
	h.metrics.RecordStorageOp("write", err)
	if err != nil {
		jobLog.Error().Err(err).Msg("Failed to persist upload")
		apperr.WriteJSON(w, apperr.E(apperr.KindInternal, "failed to store uploaded audio", err))
		return
	}
	h.metrics.RecordUpload(header.Size)
	jobLog.Info().
		Str("filename", header.Filename).
		Int64("bytes", header.Size).
		Str("uri", h.store.URI(key)).
		Msg("Audio upload persisted")

	result, err := h.processor.Process(r.Context(), jobclient.Request{
		GCSURI: h.store.URI(key),
		FileID: jobID,
	})
	if err != nil {
		// The object is intentionally left in storage for diagnosis or a
		// later manual retry.
		jobLog.Error().Err(err).Msg("Debate processing failed, upload retained")
		apperr.WriteJSON(w, err)
		return
	}

	if err := h.store.Delete(r.Context(), key); err != nil {
		jobLog.Error().Err(err).Msg("Failed to delete processed upload")
		h.metrics.RecordStorageOp("delete", err)
	} else {
		h.metrics.RecordStorageOp("delete", nil)
		jobLog.Info().Msg("Processed upload deleted")
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(uploadResponse{
		Status:      "success",
		WinningTeam: result.WinningTeam,
	})
}
