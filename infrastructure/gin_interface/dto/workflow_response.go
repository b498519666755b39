package dto

import "github.com/mzkki25/ai-video-automation/domain"

type StartWorkflowResponse struct {
	WorkflowID string            `json:"workflow_id"`
	Message    string            `json:"message"`
	Script     StoryboardPayload `json:"script"`
}

type WorkflowStatusResponse struct {
	Status   domain.WorkflowStatus  `json:"status"`
	Message  string                 `json:"message"`
	Progress int                    `json:"progress"`
	Result   *domain.WorkflowResult `json:"result,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
