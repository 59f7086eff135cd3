// Package jobclient invokes the processing endpoint synchronously on behalf
// of the gateway.
package jobclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"debate-scoring-service/internal/apperr"
	"debate-scoring-service/internal/auth"
	"debate-scoring-service/internal/observability/logging"
)

// Request is the job payload sent to the processing endpoint.
type Request struct {
	GCSURI string `json:"gcs_uri"`
	FileID string `json:"file_id"`
}

// Result is the subset of the processing response the gateway consumes.
// The rest of the payload (raw transcript, per-speaker segmentation) stops
// at this boundary.
type Result struct {
	Status      string `json:"status"`
	FileID      string `json:"file_id"`
	WinningTeam int32  `json:"winning_team"`
}

// Client calls the processing endpoint with identity-token authentication
// and a hard overall deadline.
type Client struct {
	http     *http.Client
	endpoint string
	tokens   auth.TokenProvider
	timeout  time.Duration
	log      zerolog.Logger
}

// New creates a client for the given endpoint. An empty endpoint is allowed
// at construction so the gateway can boot and serve health checks; Ready
// reports the misconfiguration per request.
func New(endpoint string, tokens auth.TokenProvider, timeout time.Duration) *Client {
	return &Client{
		http:     &http.Client{},
		endpoint: endpoint,
		tokens:   tokens,
		timeout:  timeout,
		log:      logging.WithComponent("jobclient"),
	}
}

// Ready reports whether the client can make calls at all.
func (c *Client) Ready() error {
	if c.endpoint == "" {
		return apperr.E(apperr.KindMisconfigured, "processing endpoint URL is not configured", nil)
	}
	return nil
}

// Process posts the job and blocks until the endpoint responds or the
// deadline passes. Token acquisition is attempted once; a typed absence
// degrades to an unauthenticated call, which is logged rather than hidden.
func (c *Client) Process(ctx context.Context, job Request) (*Result, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(job)
	if err != nil {
		return nil, apperr.E(apperr.KindInternal, "failed to encode job payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.E(apperr.KindInternal, "failed to build job request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.IdentityToken(ctx, c.endpoint)
	switch {
	case err == nil:
		req.Header.Set("Authorization", "Bearer "+token)
	case errors.Is(err, auth.ErrTokenUnavailable):
		c.log.Warn().
			Err(err).
			Str("fileId", job.FileID).
			Msg("Calling processing endpoint without identity token")
	default:
		return nil, apperr.E(apperr.KindInternal, "failed to acquire identity token", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, apperr.E(apperr.KindTimeout, "processing timed out, please try again later", err)
		}
		return nil, apperr.E(apperr.KindInternal, "failed to reach processing endpoint", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail := errorDetail(resp.Body)
		if resp.StatusCode == http.StatusGatewayTimeout {
			return nil, apperr.E(apperr.KindTimeout, "processing timed out, please try again later", errors.New(detail))
		}
		return nil, apperr.E(apperr.KindInternal,
			fmt.Sprintf("processing endpoint returned status %d", resp.StatusCode), errors.New(detail))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperr.E(apperr.KindInternal, "failed to decode processing response", err)
	}
	return &result, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}

// errorDetail extracts the downstream `{"error": "..."}` message, falling
// back to the raw body.
func errorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return string(raw)
}
