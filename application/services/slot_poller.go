package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/channel_utils"
	"github.com/mzkki25/ai-video-automation/domain"
)

// ErrPollTimeout marks a stage whose poll budget ran out before every slot
// reached the provider's success state.
var ErrPollTimeout = errors.New("poll budget exhausted")

// SlotState is one external job's reported lifecycle state plus its output
// URL once the job is terminal.
type SlotState struct {
	State string
	URL   string
}

// PollStage describes one bounded wait: which run it belongs to, the
// progress band it owns, the provider's terminal state strings and a
// status check for each slot.
type PollStage struct {
	WorkflowID   string
	Label        string
	ProgressFrom int
	ProgressTo   int
	ReadyState   string
	FailedState  string
	Check        func(ctx context.Context, slot int) (SlotState, error)
}

// SlotPoller is the bounded poll-until-ready loop shared by the avatar and
// composition stages. Each round checks every slot concurrently, persists
// interpolated progress, and sleeps the fixed interval. A slot reporting
// the provider's explicit failure state fails the stage immediately rather
// than burning the remaining budget.
type SlotPoller struct {
	logger      outbound.LoggerPort
	store       outbound.WorkflowStorePort
	workerPool  outbound.TaskDispatcher
	interval    time.Duration
	maxAttempts int
}

func NewSlotPoller(logger outbound.LoggerPort, store outbound.WorkflowStorePort,
	workerPool outbound.TaskDispatcher, interval time.Duration, maxAttempts int) *SlotPoller {
	return &SlotPoller{
		logger:      logger,
		store:       store,
		workerPool:  workerPool,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// WaitAll blocks until every slot reports the stage's ready state and
// returns the slot-ordered output URLs. It fails on an explicit provider
// failure, a status-check error, a store write error, context cancellation
// or an exhausted attempt budget — whichever comes first.
func (p *SlotPoller) WaitAll(ctx context.Context, stage PollStage) ([]string, error) {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		states, err := channel_utils.FanOut(p.workerPool, domain.SceneCount, func(slot int) (SlotState, error) {
			return stage.Check(ctx, slot)
		})
		if err != nil {
			return nil, fmt.Errorf("checking %s status: %w", stage.Label, err)
		}

		ready := 0
		for slot, state := range states {
			if stage.FailedState != "" && state.State == stage.FailedState {
				return nil, fmt.Errorf("%s slot %d reported %q", stage.Label, slot+1, state.State)
			}
			if state.State == stage.ReadyState {
				ready++
			}
		}
		p.logger.DebugWithFields("Poll round finished", map[string]interface{}{
			"workflow_id": stage.WorkflowID,
			"label":       stage.Label,
			"attempt":     attempt,
			"ready":       ready,
		})

		if ready == domain.SceneCount {
			urls := make([]string, domain.SceneCount)
			for slot, state := range states {
				urls[slot] = state.URL
			}
			return urls, nil
		}

		progress := stage.ProgressFrom + attempt*(stage.ProgressTo-stage.ProgressFrom)/p.maxAttempts
		snapshot := domain.WorkflowSnapshot{
			Status:   domain.StatusProcessing,
			Message:  fmt.Sprintf("Waiting for %s... (%d/%d)", stage.Label, attempt, p.maxAttempts),
			Progress: progress,
		}
		if err := p.store.Put(ctx, stage.WorkflowID, snapshot); err != nil {
			return nil, fmt.Errorf("persisting %s progress: %w", stage.Label, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.interval):
		}
	}

	return nil, fmt.Errorf("%w: %s not ready after %d attempts", ErrPollTimeout, stage.Label, p.maxAttempts)
}
