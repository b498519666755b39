package outbound

import "context"

// VideoMergerPort downloads the composed clips in slot order and
// concatenates them into one local video file inside scratchDir. The
// caller owns scratchDir and removes it when the run finishes.
type VideoMergerPort interface {
	Merge(ctx context.Context, clipURLs []string, scratchDir string) (string, error)
}
