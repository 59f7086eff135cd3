// Package google provides a Google Cloud Speech-to-Text adapter for batch
// recognition with speaker diarization.
package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"debate-scoring-service/internal/models"
	"debate-scoring-service/internal/service/stt"
)

// Config is the fixed recognition profile applied to every job.
type Config struct {
	LanguageCode        string
	AudioEncoding       string
	SampleRateHz        int
	DiarizationSpeakers int
	OperationTimeout    time.Duration
}

// Adapter implements stt.Transcriber using LongRunningRecognize.
type Adapter struct {
	client *speech.Client
	cfg    Config
}

// New creates a Google STT adapter. Credentials are resolved the usual way
// (GOOGLE_APPLICATION_CREDENTIALS or the ambient service account).
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("stt: create speech client: %w", err)
	}
	return &Adapter{client: c, cfg: cfg}, nil
}

// Transcribe submits the audio URI and waits for the long-running operation,
// bounded by the configured operation timeout. Results come back normalized
// to the pipeline's model types; the engine's result ordering is passed
// through untouched.
func (a *Adapter) Transcribe(ctx context.Context, audioURI string) ([]models.RecognitionResult, error) {
	req := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        encodingFromName(a.cfg.AudioEncoding),
			SampleRateHertz: int32(a.cfg.SampleRateHz),
			LanguageCode:    a.cfg.LanguageCode,
			DiarizationConfig: &speechpb.SpeakerDiarizationConfig{
				EnableSpeakerDiarization: true,
				MinSpeakerCount:          2,
				MaxSpeakerCount:          int32(a.cfg.DiarizationSpeakers),
			},
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: audioURI},
		},
	}

	op, err := a.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("stt: submit recognition: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, a.cfg.OperationTimeout)
	defer cancel()

	resp, err := op.Wait(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, stt.ErrOperationTimeout
		}
		return nil, fmt.Errorf("stt: recognition operation: %w", err)
	}

	return normalize(resp), nil
}

// Close releases the underlying client connection.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// normalize flattens the proto response to the pipeline model, taking the
// top alternative of each result. Results without alternatives contribute
// nothing.
func normalize(resp *speechpb.LongRunningRecognizeResponse) []models.RecognitionResult {
	out := make([]models.RecognitionResult, 0, len(resp.GetResults()))
	for _, r := range resp.GetResults() {
		if len(r.GetAlternatives()) == 0 {
			continue
		}
		alt := r.GetAlternatives()[0]
		words := make([]models.WordToken, 0, len(alt.GetWords()))
		for _, w := range alt.GetWords() {
			words = append(words, models.WordToken{
				Text:       w.GetWord(),
				SpeakerTag: w.GetSpeakerTag(),
			})
		}
		out = append(out, models.RecognitionResult{
			Confidence: float64(alt.GetConfidence()),
			Transcript: alt.GetTranscript(),
			Words:      words,
		})
	}
	return out
}

func encodingFromName(name string) speechpb.RecognitionConfig_AudioEncoding {
	switch name {
	case "MP3":
		return speechpb.RecognitionConfig_MP3
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
