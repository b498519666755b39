package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/config"
)

const imagePrefix = "generated_images"

type geminiGenerateRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string          `json:"responseModalities"`
	ImageConfig        geminiImageConfig `json:"imageConfig"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text       string `json:"text"`
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiImageGenerator struct {
	ContentFetcher
	logger      outbound.LoggerPort
	imageConfig *config.ImageConfig
	publisher   outbound.VideoPublisherPort
}

// NewGeminiImageGenerator builds the background-image client. Reference
// photos, when requested, are downloaded and sent inline so the model runs
// in image-to-image mode. Generated bytes are staged locally, published to
// object storage and the public URL returned; the provider completes
// synchronously so the caller never polls.
func NewGeminiImageGenerator(contentFetcher ContentFetcher, imageConfig *config.ImageConfig,
	publisher outbound.VideoPublisherPort, logger outbound.LoggerPort) outbound.ImageGeneratorPort {
	return &geminiImageGenerator{
		ContentFetcher: contentFetcher,
		logger:         logger,
		imageConfig:    imageConfig,
		publisher:      publisher,
	}
}

func (g *geminiImageGenerator) Generate(ctx context.Context, imageReq outbound.ImageRequest) (string, error) {
	parts := []geminiPart{{Text: imageReq.Prompt}}
	for _, refURL := range []string{imageReq.ProductURL, imageReq.AvatarURL} {
		if refURL == "" {
			continue
		}
		ref, err := g.fetchReference(ctx, refURL)
		if err != nil {
			return "", fmt.Errorf("fetching reference image: %w", err)
		}
		parts = append(parts, geminiPart{InlineData: ref})
	}

	payload := geminiGenerateRequest{
		Contents: []geminiContent{{Parts: parts}},
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
			ImageConfig:        geminiImageConfig{AspectRatio: "9:16"},
		},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.imageConfig.ApiUrl, g.imageConfig.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("x-goog-api-key", g.imageConfig.ApiKey)

	rawRes, err := g.FetchContent(req)
	if err != nil {
		g.logger.Error(err, "Failed to generate background image")
		return "", err
	}

	imageBytes, err := extractInlineImage(rawRes)
	if err != nil {
		g.logger.Error(err, "Image response carries no usable image")
		return "", err
	}

	return g.stageAndPublish(ctx, imageBytes)
}

func (g *geminiImageGenerator) fetchReference(ctx context.Context, refURL string) (*geminiInlineData, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", refURL, nil)
	if err != nil {
		return nil, err
	}
	content, err := g.FetchContent(req)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("reference image at %s is empty", refURL)
	}
	return &geminiInlineData{
		MimeType: http.DetectContentType(content),
		Data:     base64.StdEncoding.EncodeToString(content),
	}, nil
}

// stageAndPublish writes the image to a scratch file, uploads it and
// removes the local copy again.
func (g *geminiImageGenerator) stageAndPublish(ctx context.Context, imageBytes []byte) (string, error) {
	localPath := filepath.Join(os.TempDir(), "image_"+uuid.NewString()+".png")
	if err := os.WriteFile(localPath, imageBytes, 0o600); err != nil {
		g.logger.Error(err, "Failed to stage generated image")
		return "", err
	}
	defer func() {
		if err := os.Remove(localPath); err != nil {
			g.logger.Error(err, "Failed to remove staged image")
		}
	}()

	publicURL, err := g.publisher.Publish(ctx, localPath, imagePrefix)
	if err != nil {
		g.logger.Error(err, "Failed to publish generated image")
		return "", err
	}
	return publicURL, nil
}

func extractInlineImage(rawRes []byte) ([]byte, error) {
	var res geminiGenerateResponse
	if err := json.Unmarshal(rawRes, &res); err != nil {
		return nil, err
	}
	if len(res.Candidates) == 0 {
		return nil, fmt.Errorf("image response carries no candidates")
	}
	for _, part := range res.Candidates[0].Content.Parts {
		if part.InlineData == nil {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return nil, fmt.Errorf("decoding inline image: %w", err)
		}
		return decoded, nil
	}
	return nil, fmt.Errorf("image response carries no inline image part")
}
