package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mzkki25/ai-video-automation/domain"
	"github.com/mzkki25/ai-video-automation/infrastructure/adapters"
	"github.com/mzkki25/ai-video-automation/mock"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPoller(t *testing.T, store *mock.MemoryWorkflowStore, maxAttempts int) *SlotPoller {
	t.Helper()
	workerPool, err := ants.NewPool(8)
	require.NoError(t, err)
	t.Cleanup(workerPool.Release)
	return NewSlotPoller(adapters.NewZerologWrapper(), store, workerPool, time.Millisecond, maxAttempts)
}

func TestSlotPoller_ReturnsURLsInSlotOrder(t *testing.T) {
	store := mock.NewMemoryWorkflowStore(time.Hour)
	poller := newTestPoller(t, store, 10)

	var mu sync.Mutex
	checks := make(map[int]int)

	urls, err := poller.WaitAll(context.Background(), PollStage{
		WorkflowID:   "wf-poll",
		Label:        "avatar videos",
		ProgressFrom: 20,
		ProgressTo:   50,
		ReadyState:   "completed",
		FailedState:  "failed",
		Check: func(_ context.Context, slot int) (SlotState, error) {
			mu.Lock()
			checks[slot]++
			count := checks[slot]
			mu.Unlock()
			// each slot needs a different number of rounds
			if count <= slot {
				return SlotState{State: "processing"}, nil
			}
			return SlotState{State: "completed", URL: "https://videos.example.com/" + string(rune('a'+slot))}, nil
		},
	})

	require.NoError(t, err)
	require.Len(t, urls, domain.SceneCount)
	for slot, url := range urls {
		assert.Equal(t, "https://videos.example.com/"+string(rune('a'+slot)), url)
	}
}

func TestSlotPoller_TimesOutWhenOneSlotNeverReady(t *testing.T) {
	store := mock.NewMemoryWorkflowStore(time.Hour)
	poller := newTestPoller(t, store, 5)

	_, err := poller.WaitAll(context.Background(), PollStage{
		WorkflowID:   "wf-stuck",
		Label:        "avatar videos",
		ProgressFrom: 20,
		ProgressTo:   50,
		ReadyState:   "completed",
		Check: func(_ context.Context, slot int) (SlotState, error) {
			if slot == 2 {
				return SlotState{State: "processing"}, nil
			}
			return SlotState{State: "completed", URL: "u"}, nil
		},
	})

	require.ErrorIs(t, err, ErrPollTimeout)
	assert.Contains(t, err.Error(), "avatar videos")
}

func TestSlotPoller_FastFailsOnExplicitFailureState(t *testing.T) {
	store := mock.NewMemoryWorkflowStore(time.Hour)
	poller := newTestPoller(t, store, 100)

	start := time.Now()
	_, err := poller.WaitAll(context.Background(), PollStage{
		WorkflowID:   "wf-fail",
		Label:        "scene compositions",
		ProgressFrom: 60,
		ProgressTo:   70,
		ReadyState:   "succeeded",
		FailedState:  "failed",
		Check: func(_ context.Context, slot int) (SlotState, error) {
			if slot == 1 {
				return SlotState{State: "failed"}, nil
			}
			return SlotState{State: "rendering"}, nil
		},
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPollTimeout)
	assert.Contains(t, err.Error(), "slot 2")
	assert.Less(t, time.Since(start), time.Second, "failure should surface on the first round")
}

func TestSlotPoller_ProgressStaysInsideBandAndMonotone(t *testing.T) {
	store := mock.NewMemoryWorkflowStore(time.Hour)
	poller := newTestPoller(t, store, 10)

	var mu sync.Mutex
	rounds := 0

	_, err := poller.WaitAll(context.Background(), PollStage{
		WorkflowID:   "wf-progress",
		Label:        "avatar videos",
		ProgressFrom: 20,
		ProgressTo:   50,
		ReadyState:   "completed",
		Check: func(_ context.Context, slot int) (SlotState, error) {
			mu.Lock()
			defer mu.Unlock()
			if slot == 0 {
				rounds++
			}
			if rounds < 6 {
				return SlotState{State: "processing"}, nil
			}
			return SlotState{State: "completed", URL: "u"}, nil
		},
	})
	require.NoError(t, err)

	history := store.History("wf-progress")
	require.NotEmpty(t, history)
	previous := 0
	for _, snapshot := range history {
		assert.Equal(t, domain.StatusProcessing, snapshot.Status)
		assert.GreaterOrEqual(t, snapshot.Progress, previous)
		assert.GreaterOrEqual(t, snapshot.Progress, 20)
		assert.LessOrEqual(t, snapshot.Progress, 50)
		previous = snapshot.Progress
	}
}
