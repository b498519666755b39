package outbound

import (
	"context"

	"github.com/mzkki25/ai-video-automation/domain"
)

const (
	// AvatarVideoCompleted is the provider's terminal success state.
	AvatarVideoCompleted = "completed"
	// AvatarVideoFailed is the provider's explicit failure state.
	AvatarVideoFailed = "failed"
)

// AvatarVideoStatus is the subset of the provider's status response the
// orchestrator reads.
type AvatarVideoStatus struct {
	State    string
	VideoURL string
}

// AvatarVideoPort submits talking-head render jobs and checks on them.
// SubmitRender returns the provider-assigned job ID; the render completes
// asynchronously and must be polled via RenderStatus.
type AvatarVideoPort interface {
	SubmitRender(ctx context.Context, title string, script string, persona domain.Persona) (string, error)
	RenderStatus(ctx context.Context, jobID string) (AvatarVideoStatus, error)
}
