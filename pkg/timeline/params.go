package timeline

// AudioGenerationParams describes text-to-speech input for an audio clip.
// Nil params mean the audio was pre-generated.
type AudioGenerationParams struct {
	// Text is the content to be converted to speech. The editing agent is
	// prompted to keep clip duration within ±20% of len(Text)/15 chars per
	// second; that is a prompt-enforced property, not checked here.
	Text string `json:"text"`

	// Speed is the speech rate multiplier (0.5 = slow, 2.0 = fast).
	Speed float64 `json:"speed"`

	// Stability is the voice stability (0.0 = variable, 1.0 = stable).
	Stability float64 `json:"stability"`
}

// Image generation types.
const (
	ImageGenTextToImage  = "text_to_image"
	ImageGenImageToImage = "image_to_image"
)

// ImageGenerationParams describes how a still image was or should be
// produced. ReferenceImageAssetID is only set for image_to_image.
type ImageGenerationParams struct {
	Type                  string `json:"type"`
	AIModelID             string `json:"ai_model_id"`
	Prompt                string `json:"prompt"`
	AspectRatio           string `json:"aspect_ratio"`
	ReferenceImageAssetID string `json:"reference_image_asset_id,omitempty"`
}

// VideoGenerationParams describes how a video asset was or should be produced.
type VideoGenerationParams struct {
	Type        string `json:"type"`
	AIModelID   string `json:"ai_model_id"`
	Description string `json:"description"`
	AspectRatio string `json:"aspect_ratio"`
}
