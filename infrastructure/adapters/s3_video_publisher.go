package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/config"
)

type s3VideoPublisher struct {
	logger   outbound.LoggerPort
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

// NewS3VideoPublisher uploads generated artifacts to the public bucket and
// returns their stable URLs. The caller keeps ownership of the local file.
func NewS3VideoPublisher(logger outbound.LoggerPort, s3Svc *s3.S3, s3Config *config.S3Config) outbound.VideoPublisherPort {
	return &s3VideoPublisher{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3VideoPublisher) Publish(ctx context.Context, localPath string, prefix string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		s.logger.Error(err, "Failed to open artifact file")
		return "", err
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			s.logger.Error(err, "Failed to close artifact file")
		}
	}(file)

	itemPath := s.getItemPath(localPath, prefix)
	_, err = s.s3Svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(itemPath),
		Body:   file,
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload artifact to S3", map[string]interface{}{
			"key": itemPath,
		})
		return "", err
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Config.BucketName, s.s3Config.Region, itemPath), nil
}

func (s *s3VideoPublisher) getItemPath(localPath string, prefix string) string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s/%s_%s", prefix, timestamp, filepath.Base(localPath))
}
