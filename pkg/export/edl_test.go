package export_test

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kronoshq/kronos/pkg/export"
	"github.com/kronoshq/kronos/pkg/timeline"
)

func TestExport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Export Suite")
}

func visualClip(id string, start, duration int) timeline.VisualClip {
	return timeline.VisualClip{
		Clip: timeline.Clip{ID: id, StartMs: start, DurationMs: duration},
		Type: timeline.ClipTypeVisual,
	}
}

var _ = Describe("GenerateEDL", func() {
	It("emits the title and non-drop-frame header", func() {
		edl := export.GenerateEDL(timeline.Timeline{}, "MY CUT", 30)
		lines := strings.Split(edl, "\n")
		Expect(lines[0]).To(Equal("TITLE: MY CUT"))
		Expect(lines[1]).To(Equal("FCM: NON-DROP FRAME"))
	})

	It("marks 29.97 as drop frame", func() {
		edl := export.GenerateEDL(timeline.Timeline{}, "CUT", 29.97)
		Expect(edl).To(ContainSubstring("FCM: DROP FRAME"))
	})

	It("marks 59.94 as drop frame", func() {
		edl := export.GenerateEDL(timeline.Timeline{}, "CUT", 59.94)
		Expect(edl).To(ContainSubstring("FCM: DROP FRAME"))
	})

	It("falls back to the default frame rate for a non-positive rate", func() {
		t := timeline.Timeline{VisualTrack: []timeline.VisualClip{visualClip("v1", 0, 1000)}}
		edl := export.GenerateEDL(t, "CUT", 0)
		// 1000ms at 30fps is one second even.
		Expect(edl).To(ContainSubstring("00:00:00:00 00:00:01:00"))
	})

	It("emits one numbered event per visual clip in start order", func() {
		t := timeline.Timeline{
			VisualTrack: []timeline.VisualClip{
				visualClip("v2", 3000, 2000),
				visualClip("v1", 0, 3000),
			},
		}
		edl := export.GenerateEDL(t, "CUT", 30)
		lines := strings.Split(edl, "\n")

		Expect(lines[3]).To(HavePrefix("001"))
		Expect(lines[4]).To(Equal("* FROM CLIP NAME:  v1"))
		Expect(lines[5]).To(HavePrefix("002"))
		Expect(lines[6]).To(Equal("* FROM CLIP NAME:  v2"))
	})

	It("derives source and record timecodes from clip bounds", func() {
		t := timeline.Timeline{
			VisualTrack: []timeline.VisualClip{visualClip("v1", 2000, 1500)},
		}
		edl := export.GenerateEDL(t, "CUT", 30)

		// Source runs from zero for the clip's duration; record is its
		// position on the timeline.
		Expect(edl).To(ContainSubstring("00:00:00:00 00:00:01:15 00:00:02:00 00:00:03:15"))
	})

	It("rolls milliseconds into minutes and hours", func() {
		t := timeline.Timeline{
			VisualTrack: []timeline.VisualClip{visualClip("v1", 3_600_000, 61_000)},
		}
		edl := export.GenerateEDL(t, "CUT", 30)
		Expect(edl).To(ContainSubstring("01:00:00:00 01:01:01:00"))
	})

	It("prefers the video asset id as the clip name", func() {
		video := "video-asset-9"
		image := "image-asset-4"
		clip := visualClip("v1", 0, 1000)
		clip.VideoAssetID = &video
		clip.ImageAssetID = &image

		edl := export.GenerateEDL(timeline.Timeline{VisualTrack: []timeline.VisualClip{clip}}, "CUT", 30)
		Expect(edl).To(ContainSubstring("FROM CLIP NAME:  video-asset-9"))
	})

	It("falls back to the image asset id, then the clip id", func() {
		image := "image-asset-4"
		withImage := visualClip("v1", 0, 1000)
		withImage.ImageAssetID = &image

		edl := export.GenerateEDL(timeline.Timeline{VisualTrack: []timeline.VisualClip{withImage}}, "CUT", 30)
		Expect(edl).To(ContainSubstring("FROM CLIP NAME:  image-asset-4"))

		bare := visualClip("v7", 0, 1000)
		edl = export.GenerateEDL(timeline.Timeline{VisualTrack: []timeline.VisualClip{bare}}, "CUT", 30)
		Expect(edl).To(ContainSubstring("FROM CLIP NAME:  v7"))
	})

	It("ignores the audio track", func() {
		t := timeline.Timeline{
			AudioTrack: []timeline.AudioClip{
				{
					Clip: timeline.Clip{ID: "a1", StartMs: 0, DurationMs: 5000},
					Type: timeline.ClipTypeAudio,
				},
			},
		}
		edl := export.GenerateEDL(t, "CUT", 30)
		Expect(edl).NotTo(ContainSubstring("a1"))
	})
})
