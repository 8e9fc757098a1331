// Package export renders a finalized timeline as a CMX-style EDL cutlist.
// It is a pure consumer: it reads clip timing and asset references and
// produces text. Media muxing is someone else's job.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/kronoshq/kronos/pkg/timeline"
)

// DefaultFrameRate is used when the caller passes a non-positive rate.
const DefaultFrameRate = 30.0

// GenerateEDL renders the visual track of a timeline as an EDL. Clips are
// emitted in start order with source and record timecodes derived from their
// millisecond bounds. Asset ids are carried through as clip names so the
// consumer can resolve media.
func GenerateEDL(t timeline.Timeline, title string, frameRate float64) string {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	fps := int(math.Round(frameRate))

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	sorted := t.Sorted()
	for i, clip := range sorted.VisualTrack {
		srcIn := msToTimecode(0, fps)
		srcOut := msToTimecode(clip.DurationMs, fps)
		recIn := msToTimecode(clip.StartMs, fps)
		recOut := msToTimecode(clip.EndMs(), fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V", srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", clipName(clip)),
		)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// clipName prefers the resolved asset id, falling back to the clip id for
// not-yet-generated assets.
func clipName(clip timeline.VisualClip) string {
	switch {
	case clip.VideoAssetID != nil && *clip.VideoAssetID != "":
		return *clip.VideoAssetID
	case clip.ImageAssetID != nil && *clip.ImageAssetID != "":
		return *clip.ImageAssetID
	default:
		return clip.ID
	}
}

func msToTimecode(ms int, fps int) string {
	totalFrames := int(math.Round(float64(ms) * float64(fps) / 1000.0))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
