package outbound

import "context"

// VideoPublisherPort uploads a local artifact to durable object storage
// under a logical prefix and returns its stable public URL.
type VideoPublisherPort interface {
	Publish(ctx context.Context, localPath string, prefix string) (string, error)
}
