package inbound

import (
	"context"

	"github.com/mzkki25/ai-video-automation/domain"
)

// StartWorkflowParams is everything a run needs up front. Script, when
// non-nil, is a pre-authored storyboard; the script stage is then skipped
// entirely and the run enters at the avatar-video stage.
type StartWorkflowParams struct {
	WorkflowID string
	Brief      domain.Brief
	Persona    domain.Persona
	Script     *domain.Storyboard
	ProductURL string
	AvatarURL  string
}

// WorkflowOrchestratorPort drives one run. PrepareScript creates the run
// record and executes the script stage synchronously so the submission
// response can carry the storyboard; Run executes the remaining stages to
// a terminal state and is meant to be submitted onto the worker pool.
// GenerateScript is the script stage alone, with no run record, for eager
// script preview. Status reads the latest persisted snapshot.
type WorkflowOrchestratorPort interface {
	GenerateScript(ctx context.Context, brief domain.Brief) (domain.Storyboard, error)
	PrepareScript(ctx context.Context, params StartWorkflowParams) (domain.Storyboard, error)
	Run(ctx context.Context, params StartWorkflowParams, script domain.Storyboard)
	Status(ctx context.Context, workflowID string) (domain.WorkflowSnapshot, bool, error)
}
