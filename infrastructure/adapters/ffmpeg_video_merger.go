package adapters

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
)

type ffmpegVideoMerger struct {
	ContentFetcher
	logger outbound.LoggerPort
}

// NewFFmpegVideoMerger downloads composed clips and concatenates them with
// ffmpeg's concat demuxer. Clip order in the output follows the input URL
// order. All intermediate files live in the caller's scratch directory.
func NewFFmpegVideoMerger(contentFetcher ContentFetcher, logger outbound.LoggerPort) outbound.VideoMergerPort {
	return &ffmpegVideoMerger{
		ContentFetcher: contentFetcher,
		logger:         logger,
	}
}

func (f *ffmpegVideoMerger) Merge(ctx context.Context, clipURLs []string, scratchDir string) (string, error) {
	clipPaths := make([]string, len(clipURLs))
	for i, clipURL := range clipURLs {
		localPath := filepath.Join(scratchDir, fmt.Sprintf("clip_%d.mp4", i+1))
		if err := f.download(ctx, clipURL, localPath); err != nil {
			return "", fmt.Errorf("downloading clip %d: %w", i+1, err)
		}
		clipPaths[i] = localPath
	}

	listPath, err := f.writeListFile(scratchDir, clipPaths)
	if err != nil {
		return "", err
	}

	outputPath := filepath.Join(scratchDir, "merged_"+uuid.NewString()+".mp4")
	cmd := exec.CommandContext(ctx, "ffmpeg", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", outputPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		f.logger.ErrorWithFields(err, "Failed to concatenate clips", map[string]interface{}{
			"output": string(out),
		})
		return "", fmt.Errorf("concatenating clips: %w", err)
	}

	if duration, err := f.getVideoDuration(outputPath); err == nil {
		f.logger.InfoWithFields("Merged final video", map[string]interface{}{
			"path":             outputPath,
			"duration_seconds": duration,
		})
	}

	return outputPath, nil
}

func (f *ffmpegVideoMerger) download(ctx context.Context, clipURL string, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", clipURL, nil)
	if err != nil {
		return err
	}
	return f.FetchToFile(req, localPath)
}

func (f *ffmpegVideoMerger) writeListFile(scratchDir string, clipPaths []string) (string, error) {
	listPath := filepath.Join(scratchDir, "concat_list.txt")
	fileList, err := os.Create(listPath)
	if err != nil {
		f.logger.Error(err, "Failed to create clip list file")
		return "", err
	}
	defer func(fileList *os.File) {
		if err := fileList.Close(); err != nil {
			f.logger.Error(err, "Failed to close clip list file")
		}
	}(fileList)

	writer := bufio.NewWriter(fileList)
	for _, path := range clipPaths {
		if _, err := writer.WriteString("file '" + path + "'\n"); err != nil {
			f.logger.Error(err, "Failed to write to clip list file")
			return "", err
		}
	}
	if err := writer.Flush(); err != nil {
		f.logger.Error(err, "Failed to flush clip list file")
		return "", err
	}

	return listPath, nil
}

func (f *ffmpegVideoMerger) getVideoDuration(filePath string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", filePath)
	out, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}
