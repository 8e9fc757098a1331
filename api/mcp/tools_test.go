package mcp

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	kronoslogger "github.com/kronoshq/kronos/pkg/logger"
	"github.com/kronoshq/kronos/pkg/mutation"
	"github.com/kronoshq/kronos/pkg/session"
	"github.com/kronoshq/kronos/pkg/session/inmemory"
	"github.com/kronoshq/kronos/pkg/timeline"
)

func audioClip(id string, startMs, durationMs int) timeline.AudioClip {
	return timeline.AudioClip{
		Clip: timeline.Clip{ID: id, StartMs: startMs, DurationMs: durationMs},
		Type: timeline.ClipTypeAudio,
	}
}

func visualClip(id string, startMs, durationMs int) timeline.VisualClip {
	return timeline.VisualClip{
		Clip: timeline.Clip{ID: id, StartMs: startMs, DurationMs: durationMs},
		Type: timeline.ClipTypeVisual,
	}
}

var _ = Describe("timeline tools", func() {
	var (
		server *Server
		store  *inmemory.Store
		ctx    context.Context
		sessID string
	)

	BeforeEach(func() {
		store = inmemory.NewStore()
		ctx = context.Background()

		var err error
		server, err = NewServer(Config{
			Store:  store,
			Logger: kronoslogger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())

		sess := session.New(timeline.Timeline{
			AudioTrack:  []timeline.AudioClip{audioClip("a1", 0, 4000)},
			VisualTrack: []timeline.VisualClip{visualClip("v1", 0, 3000)},
		})
		_, err = store.Create(ctx, sess)
		Expect(err).NotTo(HaveOccurred())
		sessID = sess.ID
	})

	Describe("timeline_get", func() {
		It("returns the refined timeline", func() {
			result, output, err := server.handleTimelineGet(ctx, nil, TimelineGetInput{SessionID: sessID})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			Expect(output.SessionID).To(Equal(sessID))
			Expect(output.Timeline.AudioTrack).To(HaveLen(1))
			Expect(output.Timeline.AudioTrack[0].EndMs).To(Equal(4000))
			Expect(output.Timeline.VisualTrack[0].SceneIndex).To(Equal(1))
		})

		It("errors for an unknown session", func() {
			result, _, err := server.handleTimelineGet(ctx, nil, TimelineGetInput{SessionID: "nope"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})

	Describe("add_audio", func() {
		It("appends the clip and returns the updated timeline", func() {
			result, output, err := server.handleAddAudio(ctx, nil, AddAudioInput{
				SessionID: sessID,
				Clip:      audioClip("a2", 4000, 2000),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.AudioClips).To(Equal(2))

			sess, err := store.Get(ctx, sessID)
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.Timeline.AudioTrack).To(HaveLen(2))
		})

		It("rejects a clip without an id", func() {
			result, _, err := server.handleAddAudio(ctx, nil, AddAudioInput{
				SessionID: sessID,
				Clip:      audioClip("", 0, 1000),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})

	Describe("remove tools", func() {
		It("removes an audio clip by id", func() {
			result, output, err := server.handleRemoveAudio(ctx, nil, RemoveInput{
				SessionID: sessID,
				ClipID:    "a1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.AudioClips).To(BeZero())
		})

		It("treats an absent id as a no-op", func() {
			result, output, err := server.handleRemoveVisual(ctx, nil, RemoveInput{
				SessionID: sessID,
				ClipID:    "ghost",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())
			Expect(output.VisualClips).To(Equal(1))
		})

		It("requires a clip id", func() {
			result, _, err := server.handleRemoveAudio(ctx, nil, RemoveInput{SessionID: sessID})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})

	Describe("modify_visual", func() {
		It("replaces the clip wholesale", func() {
			result, _, err := server.handleModifyVisual(ctx, nil, AddVisualInput{
				SessionID: sessID,
				Clip:      visualClip("v1", 500, 2500),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			sess, err := store.Get(ctx, sessID)
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.Timeline.VisualTrack[0].StartMs).To(Equal(500))
			Expect(sess.Timeline.VisualTrack[0].DurationMs).To(Equal(2500))
		})
	})

	Describe("retime_clips", func() {
		It("repositions clips across both tracks", func() {
			result, _, err := server.handleRetimeClips(ctx, nil, RetimeClipsInput{
				SessionID: sessID,
				Retimes: []mutation.Retime{
					{ClipID: "a1", StartTimeMs: 1000, DurationMs: 3000},
					{ClipID: "v1", StartTimeMs: 1000, EndTimeMs: 4000},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeFalse())

			sess, err := store.Get(ctx, sessID)
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.Timeline.AudioTrack[0].StartMs).To(Equal(1000))
			Expect(sess.Timeline.AudioTrack[0].DurationMs).To(Equal(3000))
			Expect(sess.Timeline.VisualTrack[0].StartMs).To(Equal(1000))
			Expect(sess.Timeline.VisualTrack[0].DurationMs).To(Equal(3000))
		})

		It("requires at least one entry", func() {
			result, _, err := server.handleRetimeClips(ctx, nil, RetimeClipsInput{SessionID: sessID})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.IsError).To(BeTrue())
		})
	})
})
