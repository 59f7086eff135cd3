package worker

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"debate-scoring-service/internal/events"
	"debate-scoring-service/internal/models"
	"debate-scoring-service/internal/service/stt"
	sttmock "debate-scoring-service/internal/service/stt/mock"
)

func newTestRouter(adapter stt.Transcriber) http.Handler {
	h := NewHandler(adapter, events.New(nil))
	return NewRouter(h)
}

func postJob(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleLiveness(t *testing.T) {
	router := newTestRouter(sttmock.New())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("expected body OK, got %q", rec.Body.String())
	}
}

func TestHandleJob_Success(t *testing.T) {
	adapter := &sttmock.Adapter{
		Results: []models.RecognitionResult{
			{
				Confidence: 0.9,
				Transcript: "A B C D E",
				Words: []models.WordToken{
					{Text: "A", SpeakerTag: 1},
					{Text: "B", SpeakerTag: 1},
					{Text: "C", SpeakerTag: 2},
					{Text: "D", SpeakerTag: 2},
					{Text: "E", SpeakerTag: 2},
				},
			},
		},
	}
	router := newTestRouter(adapter)

	rec := postJob(t, router, `{"gcs_uri":"gs://b/j.mp3","file_id":"job-1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status             string              `json:"status"`
		FileID             string              `json:"file_id"`
		WinningTeam        int32               `json:"winning_team"`
		Transcript         []json.RawMessage   `json:"transcript"`
		SpeakerTranscripts map[string][]string `json:"speaker_transcripts"`
		ScoreDetails       map[string]any      `json:"score_details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	if resp.Status != "processed" || resp.FileID != "job-1" {
		t.Errorf("unexpected envelope: %+v", resp)
	}
	// 2 words vs 3 words: team one does not strictly lead.
	if resp.WinningTeam != 0 {
		t.Errorf("expected winning_team 0, got %d", resp.WinningTeam)
	}
	if len(resp.Transcript) != 1 {
		t.Errorf("raw transcript should be included, got %d results", len(resp.Transcript))
	}
	if got := resp.SpeakerTranscripts["1"]; len(got) != 1 || got[0] != "A B" {
		t.Errorf("speaker 1: got %v, want [A B]", got)
	}
	if got := resp.SpeakerTranscripts["2"]; len(got) != 1 || got[0] != "C D E" {
		t.Errorf("speaker 2: got %v, want [C D E]", got)
	}
	if resp.ScoreDetails == nil || len(resp.ScoreDetails) != 0 {
		t.Errorf("score_details should be an empty object, got %v", resp.ScoreDetails)
	}
}

func TestHandleJob_TeamOneWins(t *testing.T) {
	adapter := &sttmock.Adapter{
		Results: []models.RecognitionResult{
			{Words: []models.WordToken{
				{Text: "one", SpeakerTag: 1},
				{Text: "two", SpeakerTag: 1},
				{Text: "three", SpeakerTag: 1},
				{Text: "four", SpeakerTag: 2},
			}},
		},
	}
	router := newTestRouter(adapter)

	rec := postJob(t, router, `{"gcs_uri":"gs://b/j.mp3","file_id":"job-2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		WinningTeam int32 `json:"winning_team"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.WinningTeam != 1 {
		t.Errorf("expected winning_team 1, got %d", resp.WinningTeam)
	}
}

func TestHandleJob_EmptyTranscript(t *testing.T) {
	adapter := &sttmock.Adapter{Results: nil}
	router := newTestRouter(adapter)

	rec := postJob(t, router, `{"gcs_uri":"gs://b/j.mp3","file_id":"job-3"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		WinningTeam        int32               `json:"winning_team"`
		SpeakerTranscripts map[string][]string `json:"speaker_transcripts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.WinningTeam != 0 {
		t.Errorf("expected winning_team 0 for empty transcript, got %d", resp.WinningTeam)
	}
	if len(resp.SpeakerTranscripts) != 0 {
		t.Errorf("expected empty speaker_transcripts, got %v", resp.SpeakerTranscripts)
	}
}

func TestHandleJob_BadRequest(t *testing.T) {
	router := newTestRouter(sttmock.New())

	cases := []string{
		``,
		`not json`,
		`{"gcs_uri":"gs://b/j.mp3"}`,
		`{"file_id":"job-4"}`,
		`{}`,
	}
	for _, body := range cases {
		rec := postJob(t, router, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp["error"] == "" {
			t.Errorf("body %q: expected structured error, got %s", body, rec.Body.String())
		}
	}
}

func TestHandleJob_TranscriptionTimeout(t *testing.T) {
	adapter := &sttmock.Adapter{Err: stt.ErrOperationTimeout}
	router := newTestRouter(adapter)

	rec := postJob(t, router, `{"gcs_uri":"gs://b/j.mp3","file_id":"job-5"}`)
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !strings.Contains(resp["error"], "timed out") {
		t.Errorf("expected timeout message, got %q", resp["error"])
	}
}

func TestHandleJob_TranscriptionFailure(t *testing.T) {
	adapter := &sttmock.Adapter{Err: errors.New("engine exploded")}
	router := newTestRouter(adapter)

	rec := postJob(t, router, `{"gcs_uri":"gs://b/j.mp3","file_id":"job-6"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !strings.Contains(resp["error"], "failed to process debate job") {
		t.Errorf("unexpected error message: %q", resp["error"])
	}
}

func TestHandleJob_SlowEngineStillWithinBound(t *testing.T) {
	adapter := &sttmock.Adapter{Results: sttmock.DefaultResults, Delay: 10 * time.Millisecond}
	router := newTestRouter(adapter)

	rec := postJob(t, router, `{"gcs_uri":"gs://b/j.mp3","file_id":"job-7"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for slow-but-bounded engine, got %d", rec.Code)
	}
}
