package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/config"
	"github.com/mzkki25/ai-video-automation/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fakePNG = append([]byte("\x89PNG\r\n\x1a\n"), []byte("not really pixels")...)

func geminiResponseBody() string {
	encoded := base64.StdEncoding.EncodeToString(fakePNG)
	return fmt.Sprintf(`{"candidates":[{"content":{"parts":[`+
		`{"text":"Here is the image."},`+
		`{"inlineData":{"mimeType":"image/png","data":"%s"}}]}}]}`, encoded)
}

func TestGeminiGenerate_TextToImage(t *testing.T) {
	var captured geminiGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1beta/models/test-image-model:generateContent"))
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(geminiResponseBody()))
	}))
	defer server.Close()

	logger := NewZerologWrapper()
	publisher := &mock.VideoPublisherStub{}
	generator := NewGeminiImageGenerator(NewContentFetcher(logger), &config.ImageConfig{
		ApiUrl: server.URL,
		ApiKey: "test-key",
		Model:  "test-image-model",
	}, publisher, logger)

	url, err := generator.Generate(context.Background(), outbound.ImageRequest{Prompt: "A cluttered kitchen counter."})
	require.NoError(t, err)
	assert.Contains(t, url, "generated_images/")

	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 1, "text-to-image request must carry no reference images")
	assert.Equal(t, "A cluttered kitchen counter.", captured.Contents[0].Parts[0].Text)
	assert.Equal(t, "9:16", captured.GenerationConfig.ImageConfig.AspectRatio)
	assert.Equal(t, []string{"TEXT", "IMAGE"}, captured.GenerationConfig.ResponseModalities)

	require.Len(t, publisher.Uploads, 1, "staged image should have been published")
}

func TestGeminiGenerate_ImageToImageCarriesReferences(t *testing.T) {
	refs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(fakePNG)
	}))
	defer refs.Close()

	var captured geminiGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(geminiResponseBody()))
	}))
	defer server.Close()

	logger := NewZerologWrapper()
	generator := NewGeminiImageGenerator(NewContentFetcher(logger), &config.ImageConfig{
		ApiUrl: server.URL,
		ApiKey: "test-key",
		Model:  "test-image-model",
	}, &mock.VideoPublisherStub{}, logger)

	_, err := generator.Generate(context.Background(), outbound.ImageRequest{
		Prompt:     "The persona holds the product.",
		AvatarURL:  refs.URL + "/avatar.png",
		ProductURL: refs.URL + "/product.png",
	})
	require.NoError(t, err)

	require.Len(t, captured.Contents, 1)
	parts := captured.Contents[0].Parts
	require.Len(t, parts, 3, "prompt plus two inline reference images")
	assert.Equal(t, "The persona holds the product.", parts[0].Text)
	for _, part := range parts[1:] {
		require.NotNil(t, part.InlineData)
		assert.Equal(t, "image/png", part.InlineData.MimeType)
		assert.Equal(t, base64.StdEncoding.EncodeToString(fakePNG), part.InlineData.Data)
	}
}

func TestExtractInlineImage_NoImagePart(t *testing.T) {
	_, err := extractInlineImage([]byte(`{"candidates":[{"content":{"parts":[{"text":"refused"}]}}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no inline image")

	_, err = extractInlineImage([]byte(`{"candidates":[]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
