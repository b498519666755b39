package services

import (
	"context"
	"fmt"
	"os"

	"github.com/mzkki25/ai-video-automation/application/ports/inbound"
	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/channel_utils"
	"github.com/mzkki25/ai-video-automation/config"
	"github.com/mzkki25/ai-video-automation/domain"
)

// finalVideoPrefix is the object-storage prefix for merged videos.
const finalVideoPrefix = "generated_videos"

type workflowOrchestrator struct {
	logger          outbound.LoggerPort
	store           outbound.WorkflowStorePort
	workerPool      outbound.TaskDispatcher
	scriptGenerator outbound.ScriptGeneratorPort
	avatarVideos    outbound.AvatarVideoPort
	imageGenerator  outbound.ImageGeneratorPort
	composer        outbound.CompositionPort
	merger          outbound.VideoMergerPort
	publisher       outbound.VideoPublisherPort
	poller          *SlotPoller
	workflowConfig  *config.WorkflowConfig
}

// NewWorkflowOrchestrator wires the single authoritative driver of a run.
// One orchestrator instance serves all runs; each run's transitions are
// driven by exactly one Run call.
func NewWorkflowOrchestrator(
	logger outbound.LoggerPort,
	store outbound.WorkflowStorePort,
	workerPool outbound.TaskDispatcher,
	scriptGenerator outbound.ScriptGeneratorPort,
	avatarVideos outbound.AvatarVideoPort,
	imageGenerator outbound.ImageGeneratorPort,
	composer outbound.CompositionPort,
	merger outbound.VideoMergerPort,
	publisher outbound.VideoPublisherPort,
	workflowConfig *config.WorkflowConfig,
) inbound.WorkflowOrchestratorPort {
	return &workflowOrchestrator{
		logger:          logger,
		store:           store,
		workerPool:      workerPool,
		scriptGenerator: scriptGenerator,
		avatarVideos:    avatarVideos,
		imageGenerator:  imageGenerator,
		composer:        composer,
		merger:          merger,
		publisher:       publisher,
		poller:          NewSlotPoller(logger, store, workerPool, workflowConfig.PollInterval, workflowConfig.MaxPollAttempts),
		workflowConfig:  workflowConfig,
	}
}

// GenerateScript is the retry-wrapped script stage on its own, used for
// eager script preview without touching the state store.
func (o *workflowOrchestrator) GenerateScript(ctx context.Context, brief domain.Brief) (domain.Storyboard, error) {
	return RetryFixed(ctx, o.logger, o.workflowConfig.ScriptRetries, o.workflowConfig.ScriptRetryDelay,
		func(ctx context.Context) (domain.Storyboard, error) {
			return o.scriptGenerator.Generate(ctx, brief)
		})
}

// PrepareScript creates the run record and resolves the storyboard. A
// pre-authored script skips the generation service entirely and the run
// enters at the avatar stage's progress band.
func (o *workflowOrchestrator) PrepareScript(ctx context.Context, params inbound.StartWorkflowParams) (domain.Storyboard, error) {
	if params.Script != nil {
		if err := o.update(ctx, params.WorkflowID, 20, "Using supplied script, rendering avatar videos..."); err != nil {
			return domain.Storyboard{}, err
		}
		return *params.Script, nil
	}

	if err := o.update(ctx, params.WorkflowID, 5, "Generating video script..."); err != nil {
		return domain.Storyboard{}, err
	}

	script, err := o.GenerateScript(ctx, params.Brief)
	if err != nil {
		wrapped := fmt.Errorf("generating script: %w", err)
		o.failRun(ctx, params.WorkflowID, wrapped)
		return domain.Storyboard{}, wrapped
	}

	if err := o.update(ctx, params.WorkflowID, 20, "Script generated, rendering avatar videos..."); err != nil {
		return domain.Storyboard{}, err
	}
	return script, nil
}

// Run executes the avatar, image, composition and merge stages to a
// terminal snapshot. Scratch artifacts are removed exactly once per run,
// on success and failure alike.
func (o *workflowOrchestrator) Run(ctx context.Context, params inbound.StartWorkflowParams, script domain.Storyboard) {
	o.logger.InfoWithFields("Workflow started", map[string]interface{}{
		"workflow_id": params.WorkflowID,
		"title":       script.Title,
	})

	scratchDir, err := os.MkdirTemp("", "workflow-"+params.WorkflowID+"-")
	if err != nil {
		o.failRun(ctx, params.WorkflowID, fmt.Errorf("creating scratch directory: %w", err))
		return
	}
	defer func() {
		if err := os.RemoveAll(scratchDir); err != nil {
			o.logger.Error(err, "Failed to remove scratch directory")
		}
	}()

	result, err := o.execute(ctx, params, script, scratchDir)
	if err != nil {
		o.failRun(ctx, params.WorkflowID, err)
		return
	}

	snapshot := domain.WorkflowSnapshot{
		Status:   domain.StatusCompleted,
		Message:  "Video created successfully",
		Progress: 100,
		Result:   result,
	}
	if err := o.store.Put(ctx, params.WorkflowID, snapshot); err != nil {
		o.logger.Error(err, "Failed to persist completed snapshot")
		return
	}
	o.logger.InfoWithFields("Workflow completed", map[string]interface{}{
		"workflow_id":     params.WorkflowID,
		"final_video_url": result.FinalVideoURL,
	})
}

func (o *workflowOrchestrator) execute(ctx context.Context, params inbound.StartWorkflowParams,
	script domain.Storyboard, scratchDir string) (*domain.WorkflowResult, error) {
	workflowID := params.WorkflowID

	if err := o.update(ctx, workflowID, 20, "Rendering avatar videos..."); err != nil {
		return nil, err
	}
	jobIDs, err := channel_utils.FanOut(o.workerPool, domain.SceneCount, func(slot int) (string, error) {
		return o.avatarVideos.SubmitRender(ctx, script.Title, script.Scenes[slot].AudioScript, params.Persona)
	})
	if err != nil {
		return nil, fmt.Errorf("submitting avatar renders: %w", err)
	}

	videoURLs, err := o.poller.WaitAll(ctx, PollStage{
		WorkflowID:   workflowID,
		Label:        "avatar videos",
		ProgressFrom: 20,
		ProgressTo:   50,
		ReadyState:   outbound.AvatarVideoCompleted,
		FailedState:  outbound.AvatarVideoFailed,
		Check: func(ctx context.Context, slot int) (SlotState, error) {
			status, err := o.avatarVideos.RenderStatus(ctx, jobIDs[slot])
			if err != nil {
				return SlotState{}, err
			}
			return SlotState{State: status.State, URL: status.VideoURL}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	if err := o.update(ctx, workflowID, 50, "Generating background images..."); err != nil {
		return nil, err
	}
	imageURLs, err := channel_utils.FanOut(o.workerPool, domain.SceneCount, func(slot int) (string, error) {
		req := outbound.ImageRequest{Prompt: script.Scenes[slot].ImagePrompt}
		if domain.SlotUsesReferenceImages(slot) {
			req.AvatarURL = params.AvatarURL
			if slot == domain.SceneCount-1 {
				req.ProductURL = params.ProductURL
			}
		}
		return o.imageGenerator.Generate(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("generating background images: %w", err)
	}

	if err := o.update(ctx, workflowID, 60, "Rendering scene compositions..."); err != nil {
		return nil, err
	}
	renderIDs, err := channel_utils.FanOut(o.workerPool, domain.SceneCount, func(slot int) (string, error) {
		return o.composer.SubmitRender(ctx, outbound.CompositionRequest{
			Template: domain.TemplateForSlot(slot),
			Title:    script.Title,
			VideoURL: videoURLs[slot],
			ImageURL: imageURLs[slot],
		})
	})
	if err != nil {
		return nil, fmt.Errorf("submitting composition renders: %w", err)
	}

	clipURLs, err := o.poller.WaitAll(ctx, PollStage{
		WorkflowID:   workflowID,
		Label:        "scene compositions",
		ProgressFrom: 60,
		ProgressTo:   70,
		ReadyState:   outbound.CompositionSucceeded,
		FailedState:  outbound.CompositionFailed,
		Check: func(ctx context.Context, slot int) (SlotState, error) {
			status, err := o.composer.RenderStatus(ctx, renderIDs[slot])
			if err != nil {
				return SlotState{}, err
			}
			return SlotState{State: status.State, URL: status.ClipURL}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	if err := o.update(ctx, workflowID, 70, "Merging final video..."); err != nil {
		return nil, err
	}
	mergedPath, err := o.merger.Merge(ctx, clipURLs, scratchDir)
	if err != nil {
		return nil, fmt.Errorf("merging clips: %w", err)
	}

	if err := o.update(ctx, workflowID, 95, "Uploading final video..."); err != nil {
		return nil, err
	}
	finalURL, err := o.publisher.Publish(ctx, mergedPath, finalVideoPrefix)
	if err != nil {
		return nil, fmt.Errorf("publishing final video: %w", err)
	}

	result := &domain.WorkflowResult{
		Script:        script,
		FinalVideoURL: finalURL,
	}
	copy(result.AvatarVideoURLs[:], videoURLs)
	copy(result.ImageURLs[:], imageURLs)
	copy(result.ClipURLs[:], clipURLs)
	return result, nil
}

func (o *workflowOrchestrator) Status(ctx context.Context, workflowID string) (domain.WorkflowSnapshot, bool, error) {
	return o.store.Get(ctx, workflowID)
}

func (o *workflowOrchestrator) update(ctx context.Context, workflowID string, progress int, message string) error {
	snapshot := domain.WorkflowSnapshot{
		Status:   domain.StatusProcessing,
		Message:  message,
		Progress: progress,
	}
	if err := o.store.Put(ctx, workflowID, snapshot); err != nil {
		return fmt.Errorf("persisting workflow state: %w", err)
	}
	return nil
}

// failRun writes the single terminal error snapshot. A store that is down
// at this point only gets a log line; the run is lost either way.
func (o *workflowOrchestrator) failRun(ctx context.Context, workflowID string, cause error) {
	o.logger.ErrorWithFields(cause, "Workflow failed", map[string]interface{}{
		"workflow_id": workflowID,
	})
	snapshot := domain.WorkflowSnapshot{
		Status:   domain.StatusError,
		Message:  "Error: " + cause.Error(),
		Progress: 0,
	}
	if err := o.store.Put(ctx, workflowID, snapshot); err != nil {
		o.logger.Error(err, "Failed to persist error snapshot")
	}
}
