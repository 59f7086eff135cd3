// Package stt defines the interface for Speech-to-Text adapters.
package stt

import (
	"context"
	"errors"

	"debate-scoring-service/internal/models"
)

// ErrOperationTimeout reports that the recognition operation exceeded its
// wait bound. Callers map it to the gateway-timeout class of the error
// contract.
var ErrOperationTimeout = errors.New("stt: recognition operation timed out")

// Transcriber submits an audio object for batch recognition and blocks until
// the engine's long-running operation completes or the adapter's wait bound
// expires. A single attempt; there are no retries at this layer.
type Transcriber interface {
	Transcribe(ctx context.Context, audioURI string) ([]models.RecognitionResult, error)
}
