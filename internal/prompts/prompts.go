package prompts

import (
	"fmt"
	"strings"
)

// ============================================================================
// Caption Prompts
// ============================================================================

// CaptionSystemPrompt defines the witty caption writer persona.
const CaptionSystemPrompt = `You are a witty meme caption generator. You write funny, short captions. Keep every caption under 100 characters. Output only the caption text, no quotes and no explanation.`

// CaptionUserPrompt builds the caption request for a meme.
// Parameters:
//   - title: meme title.
//   - tags: meme tags.
// Returns:
//   - string: formatted user prompt.
func CaptionUserPrompt(title string, tags []string) string {
	return fmt.Sprintf(`Create a funny, short caption for a meme with title %q and tags: %s. Keep it under 100 characters.`, title, strings.Join(tags, ", "))
}

// ============================================================================
// Vibe Prompts
// ============================================================================

// VibeSystemPrompt defines the cyberpunk vibe analyst persona.
const VibeSystemPrompt = `You are a cyberpunk vibe analyst. You describe the vibe of a meme in 3-4 words, cyberpunk style. Example: "Neon Crypto Chaos" or "Digital Dystopia Dreams". Output only the vibe phrase.`

// VibeUserPrompt builds the vibe request for a set of tags.
// Parameters:
//   - tags: meme tags.
// Returns:
//   - string: formatted user prompt.
func VibeUserPrompt(tags []string) string {
	return fmt.Sprintf(`Describe the vibe of a meme with tags: %s in 3-4 words, cyberpunk style.`, strings.Join(tags, ", "))
}

// ============================================================================
// Fallbacks
// ============================================================================

// Fixed fallback text used whenever generation fails. The request never fails
// on a generator error; the meme ships with these instead.
const (
	FallbackCaption = "YOLO to the moon!"
	FallbackVibe    = "Neon Crypto Chaos"
)
