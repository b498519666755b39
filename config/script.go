package config

import (
	"fmt"
	"os"
)

type ScriptConfig struct {
	ApiUrl string
	ApiKey string
	Model  string
}

func GetScriptConfig() (*ScriptConfig, error) {
	apiUrl := os.Getenv("SCRIPT_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("SCRIPT_API_URL must be set")
	}
	apiKey := os.Getenv("SCRIPT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("SCRIPT_API_KEY must be set")
	}
	model := os.Getenv("SCRIPT_MODEL")
	if model == "" {
		return nil, fmt.Errorf("SCRIPT_MODEL must be set")
	}
	return &ScriptConfig{
		ApiUrl: apiUrl,
		ApiKey: apiKey,
		Model:  model,
	}, nil
}
