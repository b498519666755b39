package outbound

import "context"

// ImageRequest describes one scene's background image. AvatarURL and
// ProductURL, when set, switch the provider to image-to-image mode with
// those photos as references.
type ImageRequest struct {
	Prompt     string
	AvatarURL  string
	ProductURL string
}

// ImageGeneratorPort synthesizes one background image and returns its
// public URL. The provider completes synchronously; no polling.
type ImageGeneratorPort interface {
	Generate(ctx context.Context, req ImageRequest) (string, error)
}
