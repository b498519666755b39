package config

import (
	"fmt"
	"os"
)

const (
	defaultTalkingPhotoID = "6aae8e2d91c947b38130593dc261f3b9"
	defaultVoiceID        = "8507f6910b7e409b85f0f2bdb4d637a6"
)

type HeygenConfig struct {
	ApiUrl                string
	ApiKey                string
	DefaultTalkingPhotoID string
	DefaultVoiceID        string
}

func GetHeygenConfig() (*HeygenConfig, error) {
	apiKey := os.Getenv("HEYGEN_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("HEYGEN_API_KEY must be set")
	}

	apiUrl := os.Getenv("HEYGEN_API_URL")
	if apiUrl == "" {
		apiUrl = "https://api.heygen.com"
	}

	return &HeygenConfig{
		ApiUrl:                apiUrl,
		ApiKey:                apiKey,
		DefaultTalkingPhotoID: defaultTalkingPhotoID,
		DefaultVoiceID:        defaultVoiceID,
	}, nil
}
