package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/config"
	"github.com/mzkki25/ai-video-automation/domain"
)

type heygenGenerateRequest struct {
	Caption     bool               `json:"caption"`
	Dimension   heygenDimension    `json:"dimension"`
	VideoInputs []heygenVideoInput `json:"video_inputs"`
	Title       string             `json:"title"`
}

type heygenDimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type heygenVideoInput struct {
	Character heygenCharacter `json:"character"`
	Voice     heygenVoice     `json:"voice"`
}

type heygenCharacter struct {
	Type           string  `json:"type"`
	Scale          float64 `json:"scale"`
	TalkingPhotoID string  `json:"talking_photo_id"`
}

type heygenVoice struct {
	Type      string  `json:"type"`
	Speed     float64 `json:"speed"`
	InputText string  `json:"input_text"`
	VoiceID   string  `json:"voice_id"`
}

type heygenGenerateResponse struct {
	Data struct {
		VideoID string `json:"video_id"`
	} `json:"data"`
}

type heygenStatusResponse struct {
	Data struct {
		Status   string `json:"status"`
		VideoURL string `json:"video_url"`
	} `json:"data"`
}

type heygenVideoRenderer struct {
	ContentFetcher
	logger       outbound.LoggerPort
	heygenConfig *config.HeygenConfig
}

// NewHeygenVideoRenderer builds the talking-photo avatar render client.
func NewHeygenVideoRenderer(contentFetcher ContentFetcher, heygenConfig *config.HeygenConfig, logger outbound.LoggerPort) outbound.AvatarVideoPort {
	return &heygenVideoRenderer{
		ContentFetcher: contentFetcher,
		logger:         logger,
		heygenConfig:   heygenConfig,
	}
}

func (h *heygenVideoRenderer) SubmitRender(ctx context.Context, title string, script string, persona domain.Persona) (string, error) {
	talkingPhotoID := persona.TalkingPhotoID
	if talkingPhotoID == "" {
		talkingPhotoID = h.heygenConfig.DefaultTalkingPhotoID
	}
	voiceID := persona.VoiceID
	if voiceID == "" {
		voiceID = h.heygenConfig.DefaultVoiceID
	}

	payload := heygenGenerateRequest{
		Caption:   true,
		Dimension: heygenDimension{Width: 720, Height: 1280},
		VideoInputs: []heygenVideoInput{{
			Character: heygenCharacter{
				Type:           "talking_photo",
				Scale:          1,
				TalkingPhotoID: talkingPhotoID,
			},
			Voice: heygenVoice{
				Type:      "text",
				Speed:     1.2,
				InputText: script,
				VoiceID:   voiceID,
			},
		}},
		Title: title,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", h.heygenConfig.ApiUrl+"/v2/video/generate", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", err
	}
	req.Header.Add("accept", "application/json")
	req.Header.Add("content-type", "application/json")
	req.Header.Add("x-api-key", h.heygenConfig.ApiKey)

	rawRes, err := h.FetchContent(req)
	if err != nil {
		h.logger.Error(err, "Failed to submit avatar render")
		return "", err
	}

	var res heygenGenerateResponse
	if err := json.Unmarshal(rawRes, &res); err != nil {
		h.logger.Error(err, "Failed to unmarshal avatar render response")
		return "", err
	}
	if res.Data.VideoID == "" {
		return "", fmt.Errorf("avatar render response carries no video_id")
	}

	h.logger.DebugWithFields("Avatar render submitted", map[string]interface{}{
		"video_id": res.Data.VideoID,
	})
	return res.Data.VideoID, nil
}

func (h *heygenVideoRenderer) RenderStatus(ctx context.Context, jobID string) (outbound.AvatarVideoStatus, error) {
	statusURL := fmt.Sprintf("%s/v1/video_status.get?video_id=%s", h.heygenConfig.ApiUrl, url.QueryEscape(jobID))
	req, err := http.NewRequestWithContext(ctx, "GET", statusURL, nil)
	if err != nil {
		return outbound.AvatarVideoStatus{}, err
	}
	req.Header.Add("accept", "application/json")
	req.Header.Add("x-api-key", h.heygenConfig.ApiKey)

	rawRes, err := h.FetchContent(req)
	if err != nil {
		h.logger.Error(err, "Failed to check avatar render status")
		return outbound.AvatarVideoStatus{}, err
	}

	var res heygenStatusResponse
	if err := json.Unmarshal(rawRes, &res); err != nil {
		h.logger.Error(err, "Failed to unmarshal avatar status response")
		return outbound.AvatarVideoStatus{}, err
	}
	if res.Data.Status == "" {
		return outbound.AvatarVideoStatus{}, fmt.Errorf("avatar status response carries no status")
	}

	return outbound.AvatarVideoStatus{
		State:    res.Data.Status,
		VideoURL: res.Data.VideoURL,
	}, nil
}
