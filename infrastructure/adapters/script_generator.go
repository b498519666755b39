package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/donovanhide/eventsource"
	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/config"
	"github.com/mzkki25/ai-video-automation/domain"
)

const doneSignal = "[DONE]"

const storyboardSystemPrompt = `You are an AI producer for short-form UGC product videos. ` +
	`Write a complete storyboard for a 30-40 second vertical video (about 90-120 words of narration total) ` +
	`split into exactly 4 scenes. Scene 1 hooks the viewer with an insider persona claim and carries a short ` +
	`provocative title overlay. Scenes 2 and 3 each deliver an unusual DIY tip, with scene 3 pivoting to the ` +
	`product via its unique selling point. Scene 4 reveals the product and delivers the call to action with urgency. ` +
	`For every scene also write a background image prompt in English for an AI image generator; each prompt must be ` +
	`self-contained (never refer to another scene) and must describe an authentic smartphone-photo aesthetic: ` +
	`9:16 vertical, imperfect indoor light, candid handheld composition, mundane slightly cluttered setting. ` +
	`Scenes 1 and 4 prompts transform a supplied avatar photo (scene 4 must also place the product in frame). ` +
	`Respond with a single JSON object: {"title": string, "script": string, "scripts": [{"scene": int, ` +
	`"title_overlay": string, "audio_script": string, "background_image_prompt": string}]} with exactly 4 entries ` +
	`in "scripts" and "title_overlay" filled for scene 1 only.`

type chatCompletionRequest struct {
	Stream   bool                    `json:"stream"`
	Model    string                  `json:"model"`
	Messages []chatCompletionMessage `json:"messages"`
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type storyboardPayload struct {
	Title     string         `json:"title"`
	Narrative string         `json:"script"`
	Scenes    []domain.Scene `json:"scripts"`
}

type scriptGenerator struct {
	ContentFetcher
	logger       outbound.LoggerPort
	scriptConfig *config.ScriptConfig
}

// NewScriptGenerator builds the client for the storyboard LLM. The
// endpoint is an OpenAI-compatible streaming chat-completions API; deltas
// are accumulated and the finished text parsed as the storyboard JSON.
func NewScriptGenerator(contentFetcher ContentFetcher, scriptConfig *config.ScriptConfig, logger outbound.LoggerPort) outbound.ScriptGeneratorPort {
	return &scriptGenerator{
		ContentFetcher: contentFetcher,
		logger:         logger,
		scriptConfig:   scriptConfig,
	}
}

func (s *scriptGenerator) Generate(ctx context.Context, brief domain.Brief) (domain.Storyboard, error) {
	req, err := s.createRequest(ctx, brief)
	if err != nil {
		s.logger.Error(err, "Failed to create HTTP request for script stream")
		return domain.Storyboard{}, err
	}

	raw, err := s.collectStream(ctx, req)
	if err != nil {
		return domain.Storyboard{}, err
	}

	storyboard, err := parseStoryboard(raw)
	if err != nil {
		s.logger.ErrorWithFields(err, "Script service returned an unusable storyboard", map[string]interface{}{
			"payload_length": len(raw),
		})
		return domain.Storyboard{}, err
	}
	return storyboard, nil
}

func (s *scriptGenerator) collectStream(ctx context.Context, req *http.Request) (string, error) {
	stream, err := eventsource.SubscribeWithRequest("", req)
	if err != nil {
		s.logger.Error(err, "Failed to subscribe to script stream")
		return "", err
	}

	var builder strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev := <-stream.Events:
			if ev.Data() == doneSignal {
				return builder.String(), nil
			}
			var chunk chatCompletionChunk
			if err := json.Unmarshal([]byte(ev.Data()), &chunk); err != nil {
				s.logger.Error(err, "Failed to unmarshal script stream chunk")
				return "", err
			}
			if len(chunk.Choices) > 0 {
				builder.WriteString(chunk.Choices[0].Delta.Content)
			}
		case err := <-stream.Errors:
			return "", fmt.Errorf("script stream failed: %w", err)
		}
	}
}

func (s *scriptGenerator) createRequest(ctx context.Context, brief domain.Brief) (*http.Request, error) {
	userPrompt := fmt.Sprintf("Write the video storyboard for:\n"+
		"Product and brand: %s\nTarget audience: %s\nUnique selling point: %s\nCall to action: %s",
		brief.ProductName, brief.TargetAudience, brief.USP, brief.CTA)

	payload := chatCompletionRequest{
		Stream: true,
		Model:  s.scriptConfig.Model,
		Messages: []chatCompletionMessage{
			{Role: "system", Content: storyboardSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.scriptConfig.ApiUrl, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Authorization", "Bearer "+s.scriptConfig.ApiKey)
	req.Header.Add("Content-Type", "application/json")
	return req, nil
}

// parseStoryboard extracts the storyboard JSON from the accumulated
// completion text. Models occasionally wrap the object in a code fence or
// prose, so parsing starts at the first brace and ends at the last one. A
// storyboard without exactly four scenes is rejected.
func parseStoryboard(raw string) (domain.Storyboard, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return domain.Storyboard{}, fmt.Errorf("no JSON object in script response")
	}

	var payload storyboardPayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return domain.Storyboard{}, fmt.Errorf("decoding storyboard: %w", err)
	}
	if payload.Title == "" {
		return domain.Storyboard{}, fmt.Errorf("storyboard is missing a title")
	}
	if len(payload.Scenes) != domain.SceneCount {
		return domain.Storyboard{}, fmt.Errorf("storyboard has %d scenes, want %d", len(payload.Scenes), domain.SceneCount)
	}

	storyboard := domain.Storyboard{
		Title:     payload.Title,
		Narrative: payload.Narrative,
	}
	for i, scene := range payload.Scenes {
		if scene.AudioScript == "" || scene.ImagePrompt == "" {
			return domain.Storyboard{}, fmt.Errorf("scene %d is incomplete", i+1)
		}
		scene.Ordinal = i + 1
		storyboard.Scenes[i] = scene
	}
	return storyboard, nil
}
