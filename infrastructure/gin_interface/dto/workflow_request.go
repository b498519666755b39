package dto

import "github.com/mzkki25/ai-video-automation/domain"

type ScenePayload struct {
	Scene                 int    `json:"scene"`
	TitleOverlay          string `json:"title_overlay"`
	AudioScript           string `json:"audio_script" binding:"required"`
	BackgroundImagePrompt string `json:"background_image_prompt" binding:"required"`
}

type StoryboardPayload struct {
	Title   string         `json:"title" binding:"required"`
	Script  string         `json:"script"`
	Scripts []ScenePayload `json:"scripts" binding:"required,len=4,dive"`
}

func (p StoryboardPayload) ToDomain() domain.Storyboard {
	storyboard := domain.Storyboard{
		Title:     p.Title,
		Narrative: p.Script,
	}
	for i, scene := range p.Scripts {
		storyboard.Scenes[i] = domain.Scene{
			Ordinal:      i + 1,
			TitleOverlay: scene.TitleOverlay,
			AudioScript:  scene.AudioScript,
			ImagePrompt:  scene.BackgroundImagePrompt,
		}
	}
	return storyboard
}

func StoryboardFromDomain(storyboard domain.Storyboard) StoryboardPayload {
	payload := StoryboardPayload{
		Title:   storyboard.Title,
		Script:  storyboard.Narrative,
		Scripts: make([]ScenePayload, domain.SceneCount),
	}
	for i, scene := range storyboard.Scenes {
		payload.Scripts[i] = ScenePayload{
			Scene:                 scene.Ordinal,
			TitleOverlay:          scene.TitleOverlay,
			AudioScript:           scene.AudioScript,
			BackgroundImagePrompt: scene.ImagePrompt,
		}
	}
	return payload
}

type GenerateScriptRequest struct {
	ProductName    string `json:"product_name" binding:"required"`
	TargetAudience string `json:"target_audience" binding:"required"`
	USP            string `json:"usp" binding:"required"`
	CTA            string `json:"cta" binding:"required"`
}

type StartWorkflowRequest struct {
	GenerateScriptRequest
	TalkingPhotoID  string             `json:"talking_photo_id"`
	VoiceID         string             `json:"voice_id"`
	ProductImageURL string             `json:"product_image_url"`
	AvatarImageURL  string             `json:"avatar_image_url"`
	Script          *StoryboardPayload `json:"script"`
}

type EditScriptRequest struct {
	Script StoryboardPayload `json:"script" binding:"required"`
}
