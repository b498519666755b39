package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mzkki25/ai-video-automation/application/ports/inbound"
	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/domain"
	"github.com/mzkki25/ai-video-automation/infrastructure/gin_interface/dto"
)

// defaultAvatarURL is used when the caller supplies no avatar photo.
const defaultAvatarURL = "https://ai-automation.s3.ap-southeast-3.amazonaws.com/generated_images/avatar_sample.jpg"

type VideoWorkflowController interface {
	GenerateScript(c *gin.Context)
	StartWorkflow(c *gin.Context)
	EditScript(c *gin.Context)
	WorkflowStatus(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type videoWorkflowController struct {
	logger       outbound.LoggerPort
	workerPool   outbound.TaskDispatcher
	orchestrator inbound.WorkflowOrchestratorPort
}

func NewVideoWorkflowController(
	logger outbound.LoggerPort,
	workerPool outbound.TaskDispatcher,
	orchestrator inbound.WorkflowOrchestratorPort,
) VideoWorkflowController {
	return &videoWorkflowController{
		logger:       logger,
		workerPool:   workerPool,
		orchestrator: orchestrator,
	}
}

func (v *videoWorkflowController) GenerateScript(c *gin.Context) {
	var req dto.GenerateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	script, err := v.orchestrator.GenerateScript(c.Request.Context(), briefFromRequest(req))
	if err != nil {
		v.logger.Error(err, "Failed to generate script")
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.StoryboardFromDomain(script))
}

func (v *videoWorkflowController) StartWorkflow(c *gin.Context) {
	var req dto.StartWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	params := inbound.StartWorkflowParams{
		WorkflowID: uuid.NewString(),
		Brief:      briefFromRequest(req.GenerateScriptRequest),
		Persona: domain.Persona{
			TalkingPhotoID: req.TalkingPhotoID,
			VoiceID:        req.VoiceID,
		},
		ProductURL: req.ProductImageURL,
		AvatarURL:  req.AvatarImageURL,
	}
	if params.AvatarURL == "" {
		params.AvatarURL = defaultAvatarURL
	}
	if req.Script != nil {
		script := req.Script.ToDomain()
		params.Script = &script
	}

	// Detached from the request context: once accepted, a run is not
	// cancelled by the caller disconnecting.
	runCtx := context.Background()

	script, err := v.orchestrator.PrepareScript(runCtx, params)
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}

	err = v.workerPool.Submit(func() {
		v.orchestrator.Run(runCtx, params, script)
	})
	if err != nil {
		v.logger.Error(err, "Failed to submit workflow run to worker pool")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to start workflow"})
		return
	}

	c.JSON(http.StatusOK, dto.StartWorkflowResponse{
		WorkflowID: params.WorkflowID,
		Message:    "Workflow started",
		Script:     dto.StoryboardFromDomain(script),
	})
}

func (v *videoWorkflowController) EditScript(c *gin.Context) {
	var req dto.EditScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.StoryboardFromDomain(req.Script.ToDomain()))
}

func (v *videoWorkflowController) WorkflowStatus(c *gin.Context) {
	workflowID := c.Param("workflow_id")

	snapshot, found, err := v.orchestrator.Status(c.Request.Context(), workflowID)
	if err != nil {
		v.logger.Error(err, "Failed to load workflow status")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to load workflow status"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "workflow not found"})
		return
	}

	c.JSON(http.StatusOK, dto.WorkflowStatusResponse{
		Status:   snapshot.Status,
		Message:  snapshot.Message,
		Progress: snapshot.Progress,
		Result:   snapshot.Result,
	})
}

func (v *videoWorkflowController) RegisterRoutes(g *gin.Engine) {
	g.POST("/api/video/generate-script", v.GenerateScript)
	g.POST("/api/video/start-workflow", v.StartWorkflow)
	g.PUT("/api/video/edit-script", v.EditScript)
	g.GET("/api/video/workflow-status/:workflow_id", v.WorkflowStatus)
}

func briefFromRequest(req dto.GenerateScriptRequest) domain.Brief {
	return domain.Brief{
		ProductName:    req.ProductName,
		TargetAudience: req.TargetAudience,
		USP:            req.USP,
		CTA:            req.CTA,
	}
}
