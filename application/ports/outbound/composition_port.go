package outbound

import (
	"context"

	"github.com/mzkki25/ai-video-automation/domain"
)

const (
	// CompositionSucceeded is the renderer's terminal success state.
	CompositionSucceeded = "succeeded"
	// CompositionFailed is the renderer's explicit failure state.
	CompositionFailed = "failed"
)

// CompositionRequest combines one scene's avatar video and background
// image into a single clip using the template for that slot.
type CompositionRequest struct {
	Template domain.CompositionTemplate
	Title    string
	VideoURL string
	ImageURL string
}

// CompositionStatus is the subset of the renderer's status response the
// orchestrator reads.
type CompositionStatus struct {
	State   string
	ClipURL string
}

// CompositionPort submits scene composition renders and checks on them.
type CompositionPort interface {
	SubmitRender(ctx context.Context, req CompositionRequest) (string, error)
	RenderStatus(ctx context.Context, renderID string) (CompositionStatus, error)
}
