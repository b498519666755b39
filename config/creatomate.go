package config

import (
	"fmt"
	"os"
)

type CreatomateConfig struct {
	ApiUrl                string
	ApiKey                string
	TitleTemplateID       string
	AvatarLeftTemplateID  string
	AvatarRightTemplateID string
}

func GetCreatomateConfig() (*CreatomateConfig, error) {
	apiKey := os.Getenv("CREATOMATE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("CREATOMATE_API_KEY must be set")
	}

	apiUrl := os.Getenv("CREATOMATE_API_URL")
	if apiUrl == "" {
		apiUrl = "https://api.creatomate.com/v2/renders"
	}

	titleTemplate := os.Getenv("CREATOMATE_TITLE_TEMPLATE_ID")
	if titleTemplate == "" {
		titleTemplate = "0291c0f6-e2d3-4c6d-9ca2-56e5c4a0bcc8"
	}
	leftTemplate := os.Getenv("CREATOMATE_AVATAR_LEFT_TEMPLATE_ID")
	if leftTemplate == "" {
		leftTemplate = "e3c52f30-b8cc-4bbe-abc3-6d13564e083f"
	}
	rightTemplate := os.Getenv("CREATOMATE_AVATAR_RIGHT_TEMPLATE_ID")
	if rightTemplate == "" {
		rightTemplate = "50ed5490-f164-428e-b9b1-8354a7682295"
	}

	return &CreatomateConfig{
		ApiUrl:                apiUrl,
		ApiKey:                apiKey,
		TitleTemplateID:       titleTemplate,
		AvatarLeftTemplateID:  leftTemplate,
		AvatarRightTemplateID: rightTemplate,
	}, nil
}
