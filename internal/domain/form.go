package domain

import (
	"context"
	"errors"

	"advanced-form/internal/form"
)

// ErrResultNotFound is returned when a session has no successful submission yet.
var ErrResultNotFound = errors.New("submission result not found")

// AvatarSink delivers a validated avatar to object storage.
type AvatarSink interface {
	Upload(ctx context.Context, bucket, key string, payload []byte, contentType string) error
}

// ResultRepository keeps the last serialized result per session and form version.
type ResultRepository interface {
	Save(ctx context.Context, sessionID string, version form.Version, result string) error
	// Get returns ErrResultNotFound when nothing was saved.
	Get(ctx context.Context, sessionID string, version form.Version) (string, error)
}

// FormUsecase runs submissions for the form pages and the JSON API.
type FormUsecase interface {
	// NewController returns an empty controller for version.
	NewController(version form.Version) *form.Controller
	// Submit validates ctrl once. On success it delivers the avatar (if any),
	// stores and returns the serialized result. On failure it returns the
	// validation.Errors and ctrl holds them for rendering.
	Submit(ctx context.Context, sessionID string, ctrl *form.Controller) (string, error)
	// LastResult returns the last successful result, empty if there is none.
	LastResult(ctx context.Context, sessionID string, version form.Version) (string, error)
}
