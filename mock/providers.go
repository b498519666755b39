package mock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/domain"
)

// SampleStoryboard returns a fixed four-scene storyboard used by the fake
// script generator and by tests.
func SampleStoryboard() domain.Storyboard {
	storyboard := domain.Storyboard{
		Title:     "The Barista Secret Nobody Tells You",
		Narrative: "An insider shares two coffee hacks and one product reveal.",
	}
	for i := 0; i < domain.SceneCount; i++ {
		storyboard.Scenes[i] = domain.Scene{
			Ordinal:     i + 1,
			AudioScript: fmt.Sprintf("Scene %d narration.", i+1),
			ImagePrompt: fmt.Sprintf("Scene %d background, candid smartphone photo.", i+1),
		}
	}
	storyboard.Scenes[0].TitleOverlay = "Baristas Hate This Trick"
	return storyboard
}

// ScriptGeneratorStub hands out a canned storyboard, optionally failing
// its first FailFirst calls to exercise the retry wrapper.
type ScriptGeneratorStub struct {
	mu        sync.Mutex
	calls     int
	FailFirst int
	Script    domain.Storyboard
}

var _ outbound.ScriptGeneratorPort = (*ScriptGeneratorStub)(nil)

func (s *ScriptGeneratorStub) Generate(context.Context, domain.Brief) (domain.Storyboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.FailFirst {
		return domain.Storyboard{}, fmt.Errorf("script service unavailable (call %d)", s.calls)
	}
	if s.Script.Title == "" {
		return SampleStoryboard(), nil
	}
	return s.Script, nil
}

func (s *ScriptGeneratorStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// AvatarRendererStub simulates the asynchronous avatar provider. Job IDs
// encode the slot (recovered from the scene script), and each job reports
// "processing" until it has been checked ReadyAfter times. Slots listed in
// StuckSlots never complete; slots in FailedSlots report the provider's
// explicit failure state.
type AvatarRendererStub struct {
	mu          sync.Mutex
	checks      map[string]int
	Storyboard  domain.Storyboard
	ReadyAfter  int
	StuckSlots  map[int]bool
	FailedSlots map[int]bool
}

var _ outbound.AvatarVideoPort = (*AvatarRendererStub)(nil)

func (a *AvatarRendererStub) SubmitRender(_ context.Context, _ string, script string, _ domain.Persona) (string, error) {
	for slot, scene := range a.Storyboard.Scenes {
		if scene.AudioScript == script {
			return fmt.Sprintf("avatar-job-%d", slot+1), nil
		}
	}
	return "", fmt.Errorf("unknown scene script %q", script)
}

func (a *AvatarRendererStub) RenderStatus(_ context.Context, jobID string) (outbound.AvatarVideoStatus, error) {
	var slot int
	if _, err := fmt.Sscanf(jobID, "avatar-job-%d", &slot); err != nil {
		return outbound.AvatarVideoStatus{}, fmt.Errorf("unknown job %q", jobID)
	}
	if a.FailedSlots[slot] {
		return outbound.AvatarVideoStatus{State: outbound.AvatarVideoFailed}, nil
	}
	if a.StuckSlots[slot] {
		return outbound.AvatarVideoStatus{State: "processing"}, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.checks == nil {
		a.checks = make(map[string]int)
	}
	a.checks[jobID]++
	if a.checks[jobID] < a.ReadyAfter {
		return outbound.AvatarVideoStatus{State: "processing"}, nil
	}
	return outbound.AvatarVideoStatus{
		State:    outbound.AvatarVideoCompleted,
		VideoURL: fmt.Sprintf("https://videos.example.com/avatar-%d.mp4", slot),
	}, nil
}

// ImageGeneratorStub resolves each prompt back to its slot and returns a
// deterministic URL, recording which reference images each slot received.
type ImageGeneratorStub struct {
	mu         sync.Mutex
	Storyboard domain.Storyboard
	Requests   map[int]outbound.ImageRequest
}

var _ outbound.ImageGeneratorPort = (*ImageGeneratorStub)(nil)

func (g *ImageGeneratorStub) Generate(_ context.Context, req outbound.ImageRequest) (string, error) {
	for slot, scene := range g.Storyboard.Scenes {
		if scene.ImagePrompt == req.Prompt {
			g.mu.Lock()
			if g.Requests == nil {
				g.Requests = make(map[int]outbound.ImageRequest)
			}
			g.Requests[slot+1] = req
			g.mu.Unlock()
			return fmt.Sprintf("https://images.example.com/image-%d.png", slot+1), nil
		}
	}
	return "", fmt.Errorf("unknown image prompt %q", req.Prompt)
}

// CompositionStub simulates the composition renderer: it records every
// submitted request in submission order by slot (derived from the video
// URL) and completes after ReadyAfter status checks.
type CompositionStub struct {
	mu         sync.Mutex
	checks     map[string]int
	Requests   map[int]outbound.CompositionRequest
	ReadyAfter int
	StuckSlots map[int]bool
}

var _ outbound.CompositionPort = (*CompositionStub)(nil)

func (c *CompositionStub) SubmitRender(_ context.Context, req outbound.CompositionRequest) (string, error) {
	var slot int
	if _, err := fmt.Sscanf(req.VideoURL, "https://videos.example.com/avatar-%d.mp4", &slot); err != nil {
		return "", fmt.Errorf("unexpected video url %q", req.VideoURL)
	}
	c.mu.Lock()
	if c.Requests == nil {
		c.Requests = make(map[int]outbound.CompositionRequest)
	}
	c.Requests[slot] = req
	c.mu.Unlock()
	return fmt.Sprintf("render-%d", slot), nil
}

func (c *CompositionStub) RenderStatus(_ context.Context, renderID string) (outbound.CompositionStatus, error) {
	var slot int
	if _, err := fmt.Sscanf(renderID, "render-%d", &slot); err != nil {
		return outbound.CompositionStatus{}, fmt.Errorf("unknown render %q", renderID)
	}
	if c.StuckSlots[slot] {
		return outbound.CompositionStatus{State: "planned"}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.checks == nil {
		c.checks = make(map[string]int)
	}
	c.checks[renderID]++
	if c.checks[renderID] < c.ReadyAfter {
		return outbound.CompositionStatus{State: "rendering"}, nil
	}
	return outbound.CompositionStatus{
		State:   outbound.CompositionSucceeded,
		ClipURL: fmt.Sprintf("https://clips.example.com/clip-%d.mp4", slot),
	}, nil
}

// VideoMergerStub writes a placeholder merged file into the scratch
// directory and records the clip URLs it was handed.
type VideoMergerStub struct {
	mu       sync.Mutex
	ClipURLs []string
}

var _ outbound.VideoMergerPort = (*VideoMergerStub)(nil)

func (m *VideoMergerStub) Merge(_ context.Context, clipURLs []string, scratchDir string) (string, error) {
	m.mu.Lock()
	m.ClipURLs = append([]string(nil), clipURLs...)
	m.mu.Unlock()

	outputPath := filepath.Join(scratchDir, "merged.mp4")
	if err := os.WriteFile(outputPath, []byte("merged"), 0o600); err != nil {
		return "", err
	}
	return outputPath, nil
}

func (m *VideoMergerStub) Merged() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ClipURLs...)
}

// VideoPublisherStub returns a deterministic public URL per upload.
type VideoPublisherStub struct {
	mu      sync.Mutex
	Uploads []string
}

var _ outbound.VideoPublisherPort = (*VideoPublisherStub)(nil)

func (p *VideoPublisherStub) Publish(_ context.Context, localPath string, prefix string) (string, error) {
	p.mu.Lock()
	p.Uploads = append(p.Uploads, localPath)
	p.mu.Unlock()
	return fmt.Sprintf("https://cdn.example.com/%s/%s", prefix, filepath.Base(localPath)), nil
}
