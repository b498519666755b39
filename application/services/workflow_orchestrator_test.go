package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mzkki25/ai-video-automation/application/ports/inbound"
	"github.com/mzkki25/ai-video-automation/config"
	"github.com/mzkki25/ai-video-automation/domain"
	"github.com/mzkki25/ai-video-automation/infrastructure/adapters"
	"github.com/mzkki25/ai-video-automation/mock"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orchestratorFixture struct {
	orchestrator inbound.WorkflowOrchestratorPort
	store        *mock.MemoryWorkflowStore
	script       *mock.ScriptGeneratorStub
	avatar       *mock.AvatarRendererStub
	images       *mock.ImageGeneratorStub
	composer     *mock.CompositionStub
	merger       *mock.VideoMergerStub
	publisher    *mock.VideoPublisherStub
}

func newOrchestratorFixture(t *testing.T, maxPollAttempts int) *orchestratorFixture {
	t.Helper()

	workerPool, err := ants.NewPool(32)
	require.NoError(t, err)
	t.Cleanup(workerPool.Release)

	storyboard := mock.SampleStoryboard()
	f := &orchestratorFixture{
		store:     mock.NewMemoryWorkflowStore(time.Hour),
		script:    &mock.ScriptGeneratorStub{Script: storyboard},
		avatar:    &mock.AvatarRendererStub{Storyboard: storyboard, ReadyAfter: 3},
		images:    &mock.ImageGeneratorStub{Storyboard: storyboard},
		composer:  &mock.CompositionStub{ReadyAfter: 2},
		merger:    &mock.VideoMergerStub{},
		publisher: &mock.VideoPublisherStub{},
	}

	workflowConfig := &config.WorkflowConfig{
		PollInterval:     time.Millisecond,
		MaxPollAttempts:  maxPollAttempts,
		ScriptRetries:    3,
		ScriptRetryDelay: time.Millisecond,
	}

	f.orchestrator = NewWorkflowOrchestrator(adapters.NewZerologWrapper(), f.store, workerPool,
		f.script, f.avatar, f.images, f.composer, f.merger, f.publisher, workflowConfig)
	return f
}

func startParams(workflowID string) inbound.StartWorkflowParams {
	return inbound.StartWorkflowParams{
		WorkflowID: workflowID,
		Brief: domain.Brief{
			ProductName:    "GlowSerum",
			TargetAudience: "young professionals",
			USP:            "absorbs in 10 seconds",
			CTA:            "order today",
		},
		ProductURL: "https://cdn.example.com/uploads/product.jpg",
		AvatarURL:  "https://cdn.example.com/uploads/avatar.jpg",
	}
}

func scratchDirsFor(t *testing.T, workflowID string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "workflow-"+workflowID+"-*"))
	require.NoError(t, err)
	return matches
}

func TestWorkflowRun_CompletesWithAllArtifacts(t *testing.T) {
	f := newOrchestratorFixture(t, 20)
	ctx := context.Background()
	params := startParams("wf-happy")

	script, err := f.orchestrator.PrepareScript(ctx, params)
	require.NoError(t, err)
	f.orchestrator.Run(ctx, params, script)

	snapshot, found, err := f.store.Get(ctx, params.WorkflowID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.StatusCompleted, snapshot.Status)
	assert.Equal(t, 100, snapshot.Progress)
	require.NotNil(t, snapshot.Result)
	assert.NotEmpty(t, snapshot.Result.FinalVideoURL)

	for slot := 0; slot < domain.SceneCount; slot++ {
		assert.Equal(t, fmt.Sprintf("https://videos.example.com/avatar-%d.mp4", slot+1), snapshot.Result.AvatarVideoURLs[slot])
		assert.Equal(t, fmt.Sprintf("https://images.example.com/image-%d.png", slot+1), snapshot.Result.ImageURLs[slot])
		assert.Equal(t, fmt.Sprintf("https://clips.example.com/clip-%d.mp4", slot+1), snapshot.Result.ClipURLs[slot])
	}
}

func TestWorkflowRun_SlotPairingPreservedAcrossStages(t *testing.T) {
	f := newOrchestratorFixture(t, 20)
	ctx := context.Background()
	params := startParams("wf-pairing")

	script, err := f.orchestrator.PrepareScript(ctx, params)
	require.NoError(t, err)
	f.orchestrator.Run(ctx, params, script)

	require.Len(t, f.composer.Requests, domain.SceneCount)
	for slot := 1; slot <= domain.SceneCount; slot++ {
		req := f.composer.Requests[slot]
		assert.Equal(t, fmt.Sprintf("https://videos.example.com/avatar-%d.mp4", slot), req.VideoURL)
		assert.Equal(t, fmt.Sprintf("https://images.example.com/image-%d.png", slot), req.ImageURL)
	}

	assert.Equal(t, domain.TemplateTitle, f.composer.Requests[1].Template)
	assert.Equal(t, domain.TemplateAvatarRight, f.composer.Requests[2].Template)
	assert.Equal(t, domain.TemplateAvatarLeft, f.composer.Requests[3].Template)
	assert.Equal(t, domain.TemplateAvatarRight, f.composer.Requests[4].Template)

	merged := f.merger.Merged()
	require.Len(t, merged, domain.SceneCount)
	for slot := 1; slot <= domain.SceneCount; slot++ {
		assert.Equal(t, fmt.Sprintf("https://clips.example.com/clip-%d.mp4", slot), merged[slot-1])
	}
}

func TestWorkflowRun_ReferenceImagesOnlyForOuterScenes(t *testing.T) {
	f := newOrchestratorFixture(t, 20)
	ctx := context.Background()
	params := startParams("wf-refs")

	script, err := f.orchestrator.PrepareScript(ctx, params)
	require.NoError(t, err)
	f.orchestrator.Run(ctx, params, script)

	require.Len(t, f.images.Requests, domain.SceneCount)
	assert.Equal(t, params.AvatarURL, f.images.Requests[1].AvatarURL)
	assert.Empty(t, f.images.Requests[1].ProductURL)
	assert.Empty(t, f.images.Requests[2].AvatarURL)
	assert.Empty(t, f.images.Requests[3].AvatarURL)
	assert.Equal(t, params.AvatarURL, f.images.Requests[4].AvatarURL)
	assert.Equal(t, params.ProductURL, f.images.Requests[4].ProductURL)
}

func TestWorkflowRun_ProgressIsMonotone(t *testing.T) {
	f := newOrchestratorFixture(t, 20)
	ctx := context.Background()
	params := startParams("wf-monotone")

	script, err := f.orchestrator.PrepareScript(ctx, params)
	require.NoError(t, err)
	f.orchestrator.Run(ctx, params, script)

	history := f.store.History(params.WorkflowID)
	require.NotEmpty(t, history)
	previous := 0
	for i, snapshot := range history {
		assert.GreaterOrEqual(t, snapshot.Progress, previous, "snapshot %d went backwards", i)
		previous = snapshot.Progress
	}
	assert.Equal(t, domain.StatusCompleted, history[len(history)-1].Status)
}

func TestWorkflowRun_StuckSlotTimesOutTheRun(t *testing.T) {
	f := newOrchestratorFixture(t, 5)
	f.avatar.StuckSlots = map[int]bool{3: true}
	ctx := context.Background()
	params := startParams("wf-stuck")

	script, err := f.orchestrator.PrepareScript(ctx, params)
	require.NoError(t, err)
	f.orchestrator.Run(ctx, params, script)

	snapshot, found, err := f.store.Get(ctx, params.WorkflowID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.StatusError, snapshot.Status)
	assert.Equal(t, 0, snapshot.Progress)
	assert.Contains(t, snapshot.Message, "not ready after 5 attempts")
	assert.Nil(t, snapshot.Result)

	// later stages never ran
	assert.Empty(t, f.images.Requests)
	assert.Empty(t, f.composer.Requests)
}

func TestWorkflowRun_ExplicitProviderFailureFailsFast(t *testing.T) {
	f := newOrchestratorFixture(t, 300)
	f.avatar.FailedSlots = map[int]bool{2: true}
	ctx := context.Background()
	params := startParams("wf-provider-failed")

	script, err := f.orchestrator.PrepareScript(ctx, params)
	require.NoError(t, err)

	start := time.Now()
	f.orchestrator.Run(ctx, params, script)
	assert.Less(t, time.Since(start), 5*time.Second)

	snapshot, _, err := f.store.Get(ctx, params.WorkflowID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, snapshot.Status)
	assert.Contains(t, snapshot.Message, `slot 2 reported "failed"`)
}

func TestPrepareScript_RetriesThenSucceeds(t *testing.T) {
	f := newOrchestratorFixture(t, 20)
	f.script.FailFirst = 2
	ctx := context.Background()
	params := startParams("wf-retry")

	script, err := f.orchestrator.PrepareScript(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, 3, f.script.Calls())
	assert.Equal(t, mock.SampleStoryboard().Title, script.Title)
}

func TestPrepareScript_ExhaustedRetriesFailTheRun(t *testing.T) {
	f := newOrchestratorFixture(t, 20)
	f.script.FailFirst = 3
	ctx := context.Background()
	params := startParams("wf-retry-fail")

	_, err := f.orchestrator.PrepareScript(ctx, params)
	require.Error(t, err)
	assert.Equal(t, 3, f.script.Calls())
	assert.Contains(t, err.Error(), "call 3")

	snapshot, found, storeErr := f.store.Get(ctx, params.WorkflowID)
	require.NoError(t, storeErr)
	require.True(t, found)
	assert.Equal(t, domain.StatusError, snapshot.Status)
	assert.Equal(t, 0, snapshot.Progress)
}

func TestPrepareScript_SuppliedScriptSkipsGeneration(t *testing.T) {
	f := newOrchestratorFixture(t, 20)
	ctx := context.Background()

	storyboard := mock.SampleStoryboard()
	params := startParams("wf-skip")
	params.Script = &storyboard

	script, err := f.orchestrator.PrepareScript(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, storyboard, script)
	assert.Zero(t, f.script.Calls(), "script service must not be called")

	history := f.store.History(params.WorkflowID)
	require.Len(t, history, 1)
	assert.Equal(t, 20, history[0].Progress, "run should enter at the avatar stage band")
}

func TestWorkflowRun_ScratchDirRemovedOnSuccessAndFailure(t *testing.T) {
	ctx := context.Background()

	f := newOrchestratorFixture(t, 20)
	params := startParams("wf-clean-ok")
	script, err := f.orchestrator.PrepareScript(ctx, params)
	require.NoError(t, err)
	f.orchestrator.Run(ctx, params, script)
	assert.Empty(t, scratchDirsFor(t, params.WorkflowID))
	assert.NotEmpty(t, f.publisher.Uploads, "merged file should have been published before cleanup")

	f = newOrchestratorFixture(t, 5)
	f.avatar.StuckSlots = map[int]bool{1: true}
	params = startParams("wf-clean-err")
	script, err = f.orchestrator.PrepareScript(ctx, params)
	require.NoError(t, err)
	f.orchestrator.Run(ctx, params, script)
	assert.Empty(t, scratchDirsFor(t, params.WorkflowID))
}
