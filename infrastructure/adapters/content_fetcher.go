package adapters

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
)

type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
	FetchToFile(req *http.Request, localPath string) error
}

type contentFetcher struct {
	logger outbound.LoggerPort
}

func NewContentFetcher(logger outbound.LoggerPort) ContentFetcher {
	return &contentFetcher{
		logger: logger,
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	body, err := c.fetch(req)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(req, body)

	payload, err := io.ReadAll(body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	return payload, nil
}

func (c *contentFetcher) FetchToFile(req *http.Request, localPath string) error {
	body, err := c.fetch(req)
	if err != nil {
		return err
	}
	defer c.closeBody(req, body)

	file, err := os.Create(localPath)
	if err != nil {
		c.logger.Error(err, "Failed to create local file for download")
		return err
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			c.logger.Error(err, "Failed to close downloaded file")
		}
	}(file)

	if _, err := io.Copy(file, body); err != nil {
		c.logger.ErrorWithFields(err, "Failed to write the response body to file", map[string]interface{}{
			"URL":  req.URL.String(),
			"path": localPath,
		})
		return err
	}

	return nil
}

func (c *contentFetcher) fetch(req *http.Request) (io.ReadCloser, error) {
	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		bodyPayload, readErr := io.ReadAll(res.Body)
		c.closeBody(req, res.Body)
		message := string(bodyPayload)
		c.logger.ErrorWithFields(readErr, "HTTP request returned non-OK status code", map[string]interface{}{
			"method":  req.Method,
			"URL":     req.URL.String(),
			"status":  res.StatusCode,
			"message": message,
		})
		return nil, fmt.Errorf("HTTP request returned non-OK status code: %d", res.StatusCode)
	}

	return res.Body, nil
}

func (c *contentFetcher) closeBody(req *http.Request, body io.ReadCloser) {
	if err := body.Close(); err != nil {
		c.logger.ErrorWithFields(err, "Failed to close the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
	}
}
