// Package mock provides a scripted Transcriber for tests and for running the
// worker without cloud credentials (STT_PROVIDER=mock).
package mock

import (
	"context"
	"time"

	"debate-scoring-service/internal/models"
)

// DefaultResults is a small two-speaker debate used when no script is set.
var DefaultResults = []models.RecognitionResult{
	{
		Confidence: 0.95,
		Transcript: "we believe the motion stands no it does not",
		Words: []models.WordToken{
			{Text: "we", SpeakerTag: 1},
			{Text: "believe", SpeakerTag: 1},
			{Text: "the", SpeakerTag: 1},
			{Text: "motion", SpeakerTag: 1},
			{Text: "stands", SpeakerTag: 1},
			{Text: "no", SpeakerTag: 2},
			{Text: "it", SpeakerTag: 2},
			{Text: "does", SpeakerTag: 2},
			{Text: "not", SpeakerTag: 2},
		},
	},
	{
		Confidence: 0.88,
		Transcript: "our second point follows",
		Words: []models.WordToken{
			{Text: "our", SpeakerTag: 1},
			{Text: "second", SpeakerTag: 1},
			{Text: "point", SpeakerTag: 1},
			{Text: "follows", SpeakerTag: 1},
		},
	},
}

// Adapter implements stt.Transcriber with scripted results.
// Delay and Err allow tests to simulate slow or failing engines.
type Adapter struct {
	Results []models.RecognitionResult
	Delay   time.Duration
	Err     error
}

// New creates a mock adapter returning DefaultResults.
func New() *Adapter {
	return &Adapter{Results: DefaultResults}
}

// Transcribe returns the scripted results after the optional delay. The
// context is honored during the delay so callers can exercise their timeout
// paths.
func (a *Adapter) Transcribe(ctx context.Context, audioURI string) ([]models.RecognitionResult, error) {
	if a.Delay > 0 {
		select {
		case <-time.After(a.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.Err != nil {
		return nil, a.Err
	}
	return a.Results, nil
}
