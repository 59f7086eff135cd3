// Package auth acquires identity tokens for service-to-service calls.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"cloud.google.com/go/compute/metadata"
)

// ErrTokenUnavailable reports that no identity token could be obtained.
// Callers decide whether that is fatal or whether to proceed without an
// Authorization header; this package never swallows the failure.
var ErrTokenUnavailable = errors.New("auth: identity token unavailable")

// TokenProvider fetches a bearer token scoped to an audience.
type TokenProvider interface {
	IdentityToken(ctx context.Context, audience string) (string, error)
}

// MetadataProvider fetches identity tokens from the platform metadata
// endpoint, available when running on GCE-derived runtimes such as Cloud Run.
type MetadataProvider struct {
	client *metadata.Client
}

// NewMetadataProvider creates a provider backed by the default metadata
// client.
func NewMetadataProvider() *MetadataProvider {
	return &MetadataProvider{client: metadata.NewClient(nil)}
}

// IdentityToken fetches a token for the audience. Off-platform, or on any
// fetch failure, the error wraps ErrTokenUnavailable so callers can detect
// the typed absence.
func (p *MetadataProvider) IdentityToken(ctx context.Context, audience string) (string, error) {
	if audience == "" {
		return "", fmt.Errorf("%w: no audience configured", ErrTokenUnavailable)
	}
	if !metadata.OnGCE() {
		return "", fmt.Errorf("%w: metadata server not reachable", ErrTokenUnavailable)
	}

	suffix := "instance/service-accounts/default/identity?audience=" + url.QueryEscape(audience)
	token, err := p.client.GetWithContext(ctx, suffix)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}
	return token, nil
}
