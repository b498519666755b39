package domain

// CompositionTemplate selects the visual layout the composition renderer
// applies to one scene's clip.
type CompositionTemplate string

const (
	TemplateTitle       CompositionTemplate = "title"
	TemplateAvatarLeft  CompositionTemplate = "avatar_left"
	TemplateAvatarRight CompositionTemplate = "avatar_right"
)

// sceneTemplates is the fixed slot-to-template mapping: the opening scene
// carries the title overlay, the remaining scenes alternate the avatar
// between the right and left side of the frame.
var sceneTemplates = [SceneCount]CompositionTemplate{
	TemplateTitle,
	TemplateAvatarRight,
	TemplateAvatarLeft,
	TemplateAvatarRight,
}

// TemplateForSlot returns the composition template for a 0-based slot.
func TemplateForSlot(slot int) CompositionTemplate {
	return sceneTemplates[slot]
}

// SlotUsesReferenceImages reports whether a 0-based slot's background image
// is generated image-to-image from the avatar (and product) reference
// photos. Scenes 1 and 4 show the persona; scenes 2 and 3 are close-up
// text-to-image shots.
func SlotUsesReferenceImages(slot int) bool {
	return slot == 0 || slot == SceneCount-1
}
