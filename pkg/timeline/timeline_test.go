package timeline_test

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kronoshq/kronos/pkg/timeline"
)

func TestTimeline(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Timeline Suite")
}

func audioClip(id string, start, duration int) timeline.AudioClip {
	return timeline.AudioClip{
		Clip: timeline.Clip{ID: id, StartMs: start, DurationMs: duration},
		Type: timeline.ClipTypeAudio,
	}
}

func visualClip(id string, start, duration int) timeline.VisualClip {
	return timeline.VisualClip{
		Clip: timeline.Clip{ID: id, StartMs: start, DurationMs: duration},
		Type: timeline.ClipTypeVisual,
	}
}

var _ = Describe("Clip", func() {
	It("derives its end from start plus duration", func() {
		c := timeline.Clip{ID: "a1", StartMs: 1000, DurationMs: 2500}
		Expect(c.EndMs()).To(Equal(3500))
		Expect(c.Bounds()).To(Equal(timeline.Span{StartMs: 1000, EndMs: 3500}))
	})

	Describe("Validate", func() {
		It("accepts a well-formed clip", func() {
			c := timeline.Clip{ID: "a1", StartMs: 0, DurationMs: 1}
			Expect(c.Validate()).To(Succeed())
		})

		It("rejects an empty id", func() {
			c := timeline.Clip{StartMs: 0, DurationMs: 100}
			Expect(c.Validate()).To(MatchError(ContainSubstring("id is required")))
		})

		It("rejects a negative start", func() {
			c := timeline.Clip{ID: "a1", StartMs: -1, DurationMs: 100}
			Expect(c.Validate()).To(MatchError(ContainSubstring("negative")))
		})

		It("rejects a zero duration", func() {
			c := timeline.Clip{ID: "a1", StartMs: 0, DurationMs: 0}
			Expect(c.Validate()).To(MatchError(ContainSubstring("must be positive")))
		})
	})
})

var _ = Describe("Span", func() {
	It("reports its duration", func() {
		s := timeline.Span{StartMs: 500, EndMs: 2000}
		Expect(s.DurationMs()).To(Equal(1500))
	})
})

var _ = Describe("Timeline", func() {
	Describe("Clone", func() {
		It("returns tracks that do not alias the original", func() {
			t := timeline.Timeline{
				AudioTrack:  []timeline.AudioClip{audioClip("a1", 0, 1000)},
				VisualTrack: []timeline.VisualClip{visualClip("v1", 0, 1000)},
			}
			clone := t.Clone()
			clone.AudioTrack[0].StartMs = 999
			clone.VisualTrack[0].ID = "changed"

			Expect(t.AudioTrack[0].StartMs).To(Equal(0))
			Expect(t.VisualTrack[0].ID).To(Equal("v1"))
		})
	})

	Describe("Sorted", func() {
		It("orders both tracks by start time without touching the input", func() {
			t := timeline.Timeline{
				AudioTrack: []timeline.AudioClip{
					audioClip("a2", 5000, 1000),
					audioClip("a1", 0, 1000),
				},
				VisualTrack: []timeline.VisualClip{
					visualClip("v2", 3000, 1000),
					visualClip("v1", 1000, 1000),
				},
			}
			sorted := t.Sorted()

			Expect(sorted.AudioTrack[0].ID).To(Equal("a1"))
			Expect(sorted.AudioTrack[1].ID).To(Equal("a2"))
			Expect(sorted.VisualTrack[0].ID).To(Equal("v1"))
			Expect(t.AudioTrack[0].ID).To(Equal("a2"))
		})

		It("is stable for equal start times", func() {
			t := timeline.Timeline{
				AudioTrack: []timeline.AudioClip{
					audioClip("first", 1000, 500),
					audioClip("second", 1000, 700),
				},
			}
			sorted := t.Sorted()
			Expect(sorted.AudioTrack[0].ID).To(Equal("first"))
			Expect(sorted.AudioTrack[1].ID).To(Equal("second"))
		})
	})

	Describe("AllBase", func() {
		It("combines both tracks' base clips", func() {
			t := timeline.Timeline{
				AudioTrack:  []timeline.AudioClip{audioClip("a1", 0, 1000)},
				VisualTrack: []timeline.VisualClip{visualClip("v1", 500, 1000)},
			}
			all := t.AllBase()
			Expect(all).To(HaveLen(2))
			Expect(all[0].ID).To(Equal("a1"))
			Expect(all[1].ID).To(Equal("v1"))
		})
	})
})

var _ = Describe("Parse", func() {
	It("decodes, validates, and sorts a timeline", func() {
		raw := `{
			"audio_track": [
				{"id": "a2", "start_ms": 4000, "duration_ms": 1000, "speaker": null, "type": "audio",
				 "audio_generation_params": null, "audio_task_id": null, "audio_asset_id": null},
				{"id": "a1", "start_ms": 0, "duration_ms": 4000, "speaker": "narrator", "type": "audio",
				 "audio_generation_params": {"text": "hello there", "speed": 1.0, "stability": 0.5},
				 "audio_task_id": null, "audio_asset_id": null}
			],
			"visual_track": [
				{"id": "v1", "start_ms": 0, "duration_ms": 3000, "speaker": null, "type": "visual",
				 "image_generation_params": {"type": "text_to_image", "ai_model_id": "m", "prompt": "p", "aspect_ratio": "16:9"},
				 "image_task_id": null, "image_asset_id": null,
				 "video_generation_params": null, "video_task_id": null, "video_asset_id": null}
			]
		}`
		t, err := timeline.Parse([]byte(raw))
		Expect(err).NotTo(HaveOccurred())

		Expect(t.AudioTrack).To(HaveLen(2))
		Expect(t.AudioTrack[0].ID).To(Equal("a1"))
		Expect(*t.AudioTrack[0].Speaker).To(Equal("narrator"))
		Expect(t.AudioTrack[0].AudioGenerationParams.Text).To(Equal("hello there"))
		Expect(t.VisualTrack[0].ImageGenerationParams.Type).To(Equal(timeline.ImageGenTextToImage))
	})

	It("rejects malformed JSON", func() {
		_, err := timeline.Parse([]byte(`{not json`))
		Expect(err).To(MatchError(ContainSubstring("decoding timeline")))
	})

	It("rejects a clip with non-positive duration", func() {
		raw := `{"audio_track": [{"id": "a1", "start_ms": 0, "duration_ms": 0}], "visual_track": []}`
		_, err := timeline.Parse([]byte(raw))
		Expect(err).To(MatchError(ContainSubstring("audio_track[0]")))
	})

	It("rejects a mismatched clip type tag", func() {
		raw := `{"audio_track": [{"id": "a1", "start_ms": 0, "duration_ms": 100, "type": "visual"}], "visual_track": []}`
		_, err := timeline.Parse([]byte(raw))
		Expect(err).To(MatchError(ContainSubstring("unexpected type")))
	})

	It("rejects a visual clip carrying both image and video params", func() {
		raw := `{"audio_track": [], "visual_track": [
			{"id": "v1", "start_ms": 0, "duration_ms": 100, "type": "visual",
			 "image_generation_params": {"type": "text_to_image", "ai_model_id": "m", "prompt": "p", "aspect_ratio": "1:1"},
			 "video_generation_params": {"type": "video", "ai_model_id": "m", "description": "d", "aspect_ratio": "1:1"}}
		]}`
		_, err := timeline.Parse([]byte(raw))
		Expect(err).To(MatchError(ContainSubstring("mutually exclusive")))
	})

	It("accepts overlapping clips as valid state", func() {
		raw := `{"audio_track": [
			{"id": "a1", "start_ms": 0, "duration_ms": 2000},
			{"id": "a2", "start_ms": 1000, "duration_ms": 2000}
		], "visual_track": []}`
		t, err := timeline.Parse([]byte(raw))
		Expect(err).NotTo(HaveOccurred())
		Expect(t.AudioTrack).To(HaveLen(2))
	})
})

var _ = Describe("MarshalCompact", func() {
	It("strips null fields at every depth", func() {
		t := timeline.Timeline{
			AudioTrack: []timeline.AudioClip{audioClip("a1", 0, 1000)},
		}
		data, err := timeline.MarshalCompact(t)
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]any
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())

		clip := decoded["audio_track"].([]any)[0].(map[string]any)
		Expect(clip).NotTo(HaveKey("speaker"))
		Expect(clip).NotTo(HaveKey("audio_generation_params"))
		Expect(clip).To(HaveKeyWithValue("id", "a1"))
	})

	It("keeps non-null fields intact", func() {
		speaker := "host"
		clip := audioClip("a1", 0, 1000)
		clip.Speaker = &speaker
		t := timeline.Timeline{AudioTrack: []timeline.AudioClip{clip}}

		data, err := timeline.MarshalCompact(t)
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]any
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		parsed := decoded["audio_track"].([]any)[0].(map[string]any)
		Expect(parsed).To(HaveKeyWithValue("speaker", "host"))
	})
})
