package applycmder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestApplyCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ApplyCmd Suite")
}

const applyFixture = `{
  "audio_track": [
    {"id": "a1", "start_ms": 0, "duration_ms": 2000, "type": "audio"},
    {"id": "a2", "start_ms": 2000, "duration_ms": 1000, "type": "audio"}
  ],
  "visual_track": []
}`

const applyMutations = `[
  {"type": "remove_audio", "description": "drop the tail", "clip_id": "a2"},
  {"type": "add_visual", "description": "cover shot", "clip": {"id": "v1", "start_ms": 0, "duration_ms": 2000, "type": "visual"}}
]`

var _ = Describe("ApplyCmd", func() {
	var (
		tmpDir        string
		timelinePath  string
		mutationsPath string
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		timelinePath = filepath.Join(tmpDir, "cut.json")
		mutationsPath = filepath.Join(tmpDir, "edits.json")
		Expect(os.WriteFile(timelinePath, []byte(applyFixture), 0o644)).To(Succeed())
		Expect(os.WriteFile(mutationsPath, []byte(applyMutations), 0o644)).To(Succeed())
	})

	It("requires exactly two arguments", func() {
		cmd := NewApplyCmd()
		cmd.SetArgs([]string{"cut.json"})
		Expect(cmd.Execute()).To(HaveOccurred())
	})

	It("applies the batch and writes the resulting timeline", func() {
		outPath := filepath.Join(tmpDir, "out.json")
		cmd := NewApplyCmd()
		cmd.SetArgs([]string{timelinePath, mutationsPath, "-o", outPath})
		Expect(cmd.Execute()).To(Succeed())

		data, err := os.ReadFile(outPath)
		Expect(err).NotTo(HaveOccurred())

		var result struct {
			AudioTrack []struct {
				ID string `json:"id"`
			} `json:"audio_track"`
			VisualTrack []struct {
				ID string `json:"id"`
			} `json:"visual_track"`
		}
		Expect(json.Unmarshal(data, &result)).To(Succeed())

		Expect(result.AudioTrack).To(HaveLen(1))
		Expect(result.AudioTrack[0].ID).To(Equal("a1"))
		Expect(result.VisualTrack).To(HaveLen(1))
		Expect(result.VisualTrack[0].ID).To(Equal("v1"))
	})

	It("does not modify the input file", func() {
		before, err := os.ReadFile(timelinePath)
		Expect(err).NotTo(HaveOccurred())

		cmd := NewApplyCmd()
		cmd.SetArgs([]string{timelinePath, mutationsPath, "-o", filepath.Join(tmpDir, "out.json")})
		Expect(cmd.Execute()).To(Succeed())

		after, err := os.ReadFile(timelinePath)
		Expect(err).NotTo(HaveOccurred())
		Expect(after).To(Equal(before))
	})

	It("rejects the whole batch when one mutation is invalid", func() {
		badPath := filepath.Join(tmpDir, "bad.json")
		bad := `[
  {"type": "remove_audio", "description": "ok", "clip_id": "a1"},
  {"type": "remove_audio", "description": "missing id"}
]`
		Expect(os.WriteFile(badPath, []byte(bad), 0o644)).To(Succeed())

		outPath := filepath.Join(tmpDir, "out.json")
		cmd := NewApplyCmd()
		cmd.SetArgs([]string{timelinePath, badPath, "-o", outPath})
		Expect(cmd.Execute()).To(MatchError(ContainSubstring("mutation 1")))

		_, err := os.Stat(outPath)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("errors on a malformed mutations document", func() {
		badPath := filepath.Join(tmpDir, "bad.json")
		Expect(os.WriteFile(badPath, []byte(`{"not": "an array"}`), 0o644)).To(Succeed())

		cmd := NewApplyCmd()
		cmd.SetArgs([]string{timelinePath, badPath})
		Expect(cmd.Execute()).To(MatchError(ContainSubstring("parsing mutations")))
	})
})
