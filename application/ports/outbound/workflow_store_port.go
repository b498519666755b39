package outbound

import (
	"context"

	"github.com/mzkki25/ai-video-automation/domain"
)

// WorkflowStorePort persists run snapshots. Put replaces the stored
// snapshot whole and resets its retention TTL, so an actively progressing
// run never expires mid-flight. Get reports found=false for unknown or
// expired run IDs.
type WorkflowStorePort interface {
	Put(ctx context.Context, workflowID string, snapshot domain.WorkflowSnapshot) error
	Get(ctx context.Context, workflowID string) (domain.WorkflowSnapshot, bool, error)
	Delete(ctx context.Context, workflowID string) error
}
