package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/config"
	"github.com/mzkki25/ai-video-automation/domain"
)

type creatomateRenderRequest struct {
	TemplateID    string            `json:"template_id"`
	Modifications map[string]string `json:"modifications"`
}

type creatomateRenderResponse struct {
	ID string `json:"id"`
}

type creatomateStatusResponse struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

type creatomateComposer struct {
	ContentFetcher
	logger           outbound.LoggerPort
	creatomateConfig *config.CreatomateConfig
}

// NewCreatomateComposer builds the scene composition render client.
func NewCreatomateComposer(contentFetcher ContentFetcher, creatomateConfig *config.CreatomateConfig, logger outbound.LoggerPort) outbound.CompositionPort {
	return &creatomateComposer{
		ContentFetcher:   contentFetcher,
		logger:           logger,
		creatomateConfig: creatomateConfig,
	}
}

func (c *creatomateComposer) SubmitRender(ctx context.Context, compositionReq outbound.CompositionRequest) (string, error) {
	payload, err := c.buildPayload(compositionReq)
	if err != nil {
		return "", err
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.creatomateConfig.ApiUrl, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+c.creatomateConfig.ApiKey)

	rawRes, err := c.FetchContent(req)
	if err != nil {
		c.logger.Error(err, "Failed to submit composition render")
		return "", err
	}

	var res creatomateRenderResponse
	if err := json.Unmarshal(rawRes, &res); err != nil {
		c.logger.Error(err, "Failed to unmarshal composition render response")
		return "", err
	}
	if res.ID == "" {
		return "", fmt.Errorf("composition render response carries no id")
	}

	c.logger.DebugWithFields("Composition render submitted", map[string]interface{}{
		"render_id": res.ID,
		"template":  string(compositionReq.Template),
	})
	return res.ID, nil
}

func (c *creatomateComposer) RenderStatus(ctx context.Context, renderID string) (outbound.CompositionStatus, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.creatomateConfig.ApiUrl+"/"+renderID, nil)
	if err != nil {
		return outbound.CompositionStatus{}, err
	}
	req.Header.Add("Authorization", "Bearer "+c.creatomateConfig.ApiKey)

	rawRes, err := c.FetchContent(req)
	if err != nil {
		c.logger.Error(err, "Failed to check composition render status")
		return outbound.CompositionStatus{}, err
	}

	var res creatomateStatusResponse
	if err := json.Unmarshal(rawRes, &res); err != nil {
		c.logger.Error(err, "Failed to unmarshal composition status response")
		return outbound.CompositionStatus{}, err
	}
	if res.Status == "" {
		return outbound.CompositionStatus{}, fmt.Errorf("composition status response carries no status")
	}

	return outbound.CompositionStatus{
		State:   res.Status,
		ClipURL: res.URL,
	}, nil
}

// buildPayload maps a composition template onto its Creatomate template ID
// and element modifications. The element names are fixed by the templates.
func (c *creatomateComposer) buildPayload(req outbound.CompositionRequest) (creatomateRenderRequest, error) {
	switch req.Template {
	case domain.TemplateTitle:
		return creatomateRenderRequest{
			TemplateID: c.creatomateConfig.TitleTemplateID,
			Modifications: map[string]string{
				"Title-BRH.text":   req.Title,
				"Video-W6S.source": req.VideoURL,
				"Image-RJL.source": req.ImageURL,
			},
		}, nil
	case domain.TemplateAvatarLeft:
		return creatomateRenderRequest{
			TemplateID: c.creatomateConfig.AvatarLeftTemplateID,
			Modifications: map[string]string{
				"Image-3SZ.source": req.ImageURL,
				"Video-DHM.source": req.VideoURL,
			},
		}, nil
	case domain.TemplateAvatarRight:
		return creatomateRenderRequest{
			TemplateID: c.creatomateConfig.AvatarRightTemplateID,
			Modifications: map[string]string{
				"Image-3SZ.source": req.ImageURL,
				"Video-DHM.source": req.VideoURL,
			},
		}, nil
	default:
		return creatomateRenderRequest{}, fmt.Errorf("unknown composition template %q", req.Template)
	}
}
