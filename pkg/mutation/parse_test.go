package mutation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kronoshq/kronos/pkg/mutation"
)

var _ = Describe("FromToolCall", func() {
	It("parses an add_audio call", func() {
		args := `{"description": "add narration", "clip": {"id": "a9", "start_ms": 0, "duration_ms": 2000, "type": "audio"}}`
		m, err := mutation.FromToolCall("add_audio", []byte(args))
		Expect(err).NotTo(HaveOccurred())

		add, ok := m.(mutation.AddAudio)
		Expect(ok).To(BeTrue())
		Expect(add.MutationType()).To(Equal(mutation.TypeAddAudio))
		Expect(add.Describe()).To(Equal("add narration"))
		Expect(add.Clip.ID).To(Equal("a9"))
	})

	It("parses a remove_visual call", func() {
		m, err := mutation.FromToolCall("remove_visual", []byte(`{"description": "drop the shot", "clip_id": "v1"}`))
		Expect(err).NotTo(HaveOccurred())

		rm, ok := m.(mutation.RemoveVisual)
		Expect(ok).To(BeTrue())
		Expect(rm.ClipID).To(Equal("v1"))
	})

	It("parses a retime_clips call", func() {
		args := `{"description": "close the gap", "retimes": [
			{"clip_id": "a1", "start_time_ms": 0, "duration_ms": 3000},
			{"clip_id": "v1", "start_time_ms": 0, "end_time_ms": 3000}
		]}`
		m, err := mutation.FromToolCall("retime_clips", []byte(args))
		Expect(err).NotTo(HaveOccurred())

		rt, ok := m.(mutation.RetimeClips)
		Expect(ok).To(BeTrue())
		Expect(rt.Retimes).To(HaveLen(2))
	})

	It("rejects an unknown tool name", func() {
		_, err := mutation.FromToolCall("explode_timeline", []byte(`{}`))
		Expect(err).To(MatchError(ContainSubstring("unknown mutation type")))
	})

	It("rejects an invalid clip in add_audio", func() {
		args := `{"description": "bad", "clip": {"id": "", "start_ms": 0, "duration_ms": 2000}}`
		_, err := mutation.FromToolCall("add_audio", []byte(args))
		Expect(err).To(MatchError(ContainSubstring("add_audio")))
	})

	It("rejects a remove call without clip_id", func() {
		_, err := mutation.FromToolCall("remove_audio", []byte(`{"description": "bad"}`))
		Expect(err).To(MatchError(ContainSubstring("clip_id is required")))
	})

	It("rejects a visual clip carrying both image and video params", func() {
		args := `{"description": "bad", "clip": {
			"id": "v9", "start_ms": 0, "duration_ms": 1000, "type": "visual",
			"image_generation_params": {"type": "text_to_image", "ai_model_id": "m", "prompt": "p", "aspect_ratio": "1:1"},
			"video_generation_params": {"type": "video", "ai_model_id": "m", "description": "d", "aspect_ratio": "1:1"}
		}}`
		_, err := mutation.FromToolCall("add_visual", []byte(args))
		Expect(err).To(MatchError(ContainSubstring("mutually exclusive")))
	})

	Describe("retime validation", func() {
		It("rejects an empty retime list", func() {
			_, err := mutation.FromToolCall("retime_clips", []byte(`{"description": "noop", "retimes": []}`))
			Expect(err).To(MatchError(ContainSubstring("at least one retime")))
		})

		It("rejects an entry with neither duration nor end time", func() {
			args := `{"description": "bad", "retimes": [{"clip_id": "a1", "start_time_ms": 1000}]}`
			_, err := mutation.FromToolCall("retime_clips", []byte(args))
			Expect(err).To(MatchError(ContainSubstring("duration_ms or end_time_ms")))
		})

		It("rejects an end time at or before the start", func() {
			args := `{"description": "bad", "retimes": [{"clip_id": "a1", "start_time_ms": 2000, "end_time_ms": 2000}]}`
			_, err := mutation.FromToolCall("retime_clips", []byte(args))
			Expect(err).To(HaveOccurred())
		})

		It("rejects a negative start time", func() {
			args := `{"description": "bad", "retimes": [{"clip_id": "a1", "start_time_ms": -5, "duration_ms": 100}]}`
			_, err := mutation.FromToolCall("retime_clips", []byte(args))
			Expect(err).To(MatchError(ContainSubstring("negative")))
		})
	})
})

var _ = Describe("Unmarshal", func() {
	It("dispatches on the type discriminant", func() {
		doc := `{"type": "remove_audio", "description": "cut it", "clip_id": "a1"}`
		m, err := mutation.Unmarshal([]byte(doc))
		Expect(err).NotTo(HaveOccurred())
		Expect(m.MutationType()).To(Equal(mutation.TypeRemoveAudio))
	})

	It("rejects a document without a known type", func() {
		_, err := mutation.Unmarshal([]byte(`{"type": "nonsense"}`))
		Expect(err).To(MatchError(ContainSubstring("unknown mutation type")))
	})
})

var _ = Describe("UnmarshalBatch", func() {
	It("parses an ordered array of mutation documents", func() {
		batch := `[
			{"type": "remove_audio", "description": "cut", "clip_id": "a1"},
			{"type": "add_visual", "description": "add", "clip": {"id": "v2", "start_ms": 0, "duration_ms": 1000, "type": "visual"}}
		]`
		muts, err := mutation.UnmarshalBatch([]byte(batch))
		Expect(err).NotTo(HaveOccurred())
		Expect(muts).To(HaveLen(2))
		Expect(muts[0].MutationType()).To(Equal(mutation.TypeRemoveAudio))
		Expect(muts[1].MutationType()).To(Equal(mutation.TypeAddVisual))
	})

	It("fails the whole batch on one bad entry", func() {
		batch := `[
			{"type": "remove_audio", "description": "cut", "clip_id": "a1"},
			{"type": "remove_audio", "description": "bad"}
		]`
		_, err := mutation.UnmarshalBatch([]byte(batch))
		Expect(err).To(MatchError(ContainSubstring("mutation 1")))
	})

	It("rejects a non-array document", func() {
		_, err := mutation.UnmarshalBatch([]byte(`{"type": "remove_audio"}`))
		Expect(err).To(MatchError(ContainSubstring("decoding mutation batch")))
	})
})
