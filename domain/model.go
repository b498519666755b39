package domain

// SceneCount is the fixed number of narrative scenes in every generated
// video. Slot i of each stage feeds exactly slot i of the next stage.
const SceneCount = 4

type WorkflowStatus string

const (
	StatusProcessing WorkflowStatus = "processing"
	StatusCompleted  WorkflowStatus = "completed"
	StatusError      WorkflowStatus = "error"
)

// Scene is one storyboard entry: what the avatar says in that scene and
// what the background image behind it should look like.
type Scene struct {
	Ordinal      int    `json:"scene"`
	TitleOverlay string `json:"title_overlay,omitempty"`
	AudioScript  string `json:"audio_script"`
	ImagePrompt  string `json:"background_image_prompt"`
}

// Storyboard is the structured output of the script-generation service.
type Storyboard struct {
	Title     string            `json:"title"`
	Narrative string            `json:"script,omitempty"`
	Scenes    [SceneCount]Scene `json:"scripts"`
}

// Brief carries the product and campaign fields a caller submits.
type Brief struct {
	ProductName    string
	TargetAudience string
	USP            string
	CTA            string
}

// Persona selects the talking photo and voice used by the avatar renderer.
type Persona struct {
	TalkingPhotoID string
	VoiceID        string
}

// WorkflowResult references every artifact produced by a completed run,
// indexed by slot.
type WorkflowResult struct {
	Script          Storyboard         `json:"script"`
	AvatarVideoURLs [SceneCount]string `json:"avatar_video_urls"`
	ImageURLs       [SceneCount]string `json:"image_urls"`
	ClipURLs        [SceneCount]string `json:"clip_urls"`
	FinalVideoURL   string             `json:"final_video_url"`
}

// WorkflowSnapshot is the complete externally visible state of a run.
// Every persisted write replaces the previous snapshot whole; partial
// field updates do not exist.
type WorkflowSnapshot struct {
	Status   WorkflowStatus  `json:"status"`
	Message  string          `json:"message"`
	Progress int             `json:"progress"`
	Result   *WorkflowResult `json:"result,omitempty"`
}
