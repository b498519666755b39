package outbound

import (
	"context"

	"github.com/mzkki25/ai-video-automation/domain"
)

// ScriptGeneratorPort turns a product brief into a four-scene storyboard.
type ScriptGeneratorPort interface {
	Generate(ctx context.Context, brief domain.Brief) (domain.Storyboard, error)
}
