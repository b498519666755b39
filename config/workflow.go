package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// WorkflowConfig tunes the orchestration loop. Every field has a production
// default so the service starts with no workflow env vars set at all.
type WorkflowConfig struct {
	PollInterval     time.Duration
	MaxPollAttempts  int
	ScriptRetries    int
	ScriptRetryDelay time.Duration
}

func GetWorkflowConfig() (*WorkflowConfig, error) {
	cfg := &WorkflowConfig{
		PollInterval:     15 * time.Second,
		MaxPollAttempts:  300,
		ScriptRetries:    3,
		ScriptRetryDelay: time.Second,
	}

	if raw := os.Getenv("POLL_INTERVAL_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be an integer: %w", err)
		}
		cfg.PollInterval = time.Duration(seconds) * time.Second
	}
	if raw := os.Getenv("MAX_POLL_ATTEMPTS"); raw != "" {
		attempts, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("MAX_POLL_ATTEMPTS must be an integer: %w", err)
		}
		cfg.MaxPollAttempts = attempts
	}
	if raw := os.Getenv("SCRIPT_MAX_RETRIES"); raw != "" {
		retries, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("SCRIPT_MAX_RETRIES must be an integer: %w", err)
		}
		cfg.ScriptRetries = retries
	}

	return cfg, nil
}
