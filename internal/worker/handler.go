// Package worker implements the processing endpoint: it drives
// transcription, speaker segmentation and scoring for one job per request.
package worker

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"debate-scoring-service/internal/apperr"
	"debate-scoring-service/internal/events"
	"debate-scoring-service/internal/models"
	"debate-scoring-service/internal/observability/logging"
	"debate-scoring-service/internal/observability/metrics"
	"debate-scoring-service/internal/service/score"
	"debate-scoring-service/internal/service/segment"
	"debate-scoring-service/internal/service/stt"
)

// Handler processes debate jobs.
type Handler struct {
	transcriber stt.Transcriber
	publisher   *events.Publisher
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

// NewHandler wires the processing pipeline from its injected ports.
func NewHandler(transcriber stt.Transcriber, publisher *events.Publisher) *Handler {
	return &Handler{
		transcriber: transcriber,
		publisher:   publisher,
		metrics:     metrics.DefaultMetrics,
		log:         logging.WithComponent("worker"),
	}
}

// NewRouter builds the worker's HTTP surface: a liveness probe on GET / and
// the job endpoint on POST /.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", h.HandleLiveness)
	r.Post("/", h.HandleJob)
	return r
}

type jobRequest struct {
	GCSURI string `json:"gcs_uri"`
	FileID string `json:"file_id"`
}

type jobResponse struct {
	Status             string                     `json:"status"`
	FileID             string                     `json:"file_id"`
	WinningTeam        int32                      `json:"winning_team"`
	Transcript         []models.RecognitionResult `json:"transcript"`
	SpeakerTranscripts *models.SpeakerTranscript  `json:"speaker_transcripts"`
	ScoreDetails       map[string]any             `json:"score_details"`
}

// HandleLiveness answers platform health checks.
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// HandleJob runs the full pipeline for one job.
func (h *Handler) HandleJob(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var job jobRequest
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		h.log.Warn().Err(err).Msg("Job request body is not valid JSON")
		apperr.WriteJSON(w, apperr.E(apperr.KindBadRequest, "no JSON data provided or invalid JSON format", nil))
		return
	}
	if job.GCSURI == "" || job.FileID == "" {
		apperr.WriteJSON(w, apperr.E(apperr.KindBadRequest, "missing gcs_uri or file_id in payload", nil))
		return
	}

	jobLog := logging.WithJob("worker", job.FileID)
	jobLog.Info().Str("gcsUri", job.GCSURI).Msg("Starting debate processing")

	sttStart := time.Now()
	results, err := h.transcriber.Transcribe(r.Context(), job.GCSURI)
	if err != nil {
		if errors.Is(err, stt.ErrOperationTimeout) {
			jobLog.Error().Err(err).Msg("Speech-to-text operation timed out")
			h.metrics.RecordTranscriptionError("timeout")
			h.metrics.RecordJob("timeout", time.Since(start).Seconds())
			apperr.WriteJSON(w, apperr.E(apperr.KindTimeout, "speech-to-text processing timed out", nil))
			return
		}
		// Full diagnostic detail stays in the log; only the summary message
		// goes back to the caller.
		jobLog.Error().Err(err).Msg("Debate processing failed")
		h.metrics.RecordTranscriptionError("failure")
		h.metrics.RecordJob("failed", time.Since(start).Seconds())
		apperr.WriteJSON(w, apperr.E(apperr.KindInternal, "failed to process debate job", err))
		return
	}
	h.metrics.RecordTranscription(time.Since(sttStart).Seconds())

	if results == nil {
		results = []models.RecognitionResult{}
	}
	transcript := segment.BySpeaker(results)
	outcome := score.Evaluate(transcript)

	jobLog.Info().
		Int("results", len(results)).
		Int("speakers", transcript.Len()).
		Int32("winningTeam", outcome.WinningTeam).
		Msg("Debate processed")
	h.metrics.RecordJob("processed", time.Since(start).Seconds())

	h.publishScored(r, job.FileID, outcome.WinningTeam, transcript.Len())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(jobResponse{
		Status:             "processed",
		FileID:             job.FileID,
		WinningTeam:        outcome.WinningTeam,
		Transcript:         results,
		SpeakerTranscripts: transcript,
		ScoreDetails:       outcome.Details,
	})
}

// publishScored emits the audit event; failures are logged, never surfaced.
func (h *Handler) publishScored(r *http.Request, fileID string, winningTeam int32, speakers int) {
	if h.publisher == nil {
		return
	}
	ev := events.ScoredEvent{
		EventType:   "debate.scored",
		FileID:      fileID,
		WinningTeam: winningTeam,
		Speakers:    speakers,
		Timestamp:   time.Now().UnixMilli(),
	}
	if err := h.publisher.PublishScored(r.Context(), ev); err != nil {
		h.log.Error().Err(err).Str("fileId", fileID).Msg("Failed to publish scored event")
	}
}
