package provider_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kronoshq/kronos/pkg/llm/provider"
)

func TestProvider(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Provider Suite")
}

var _ = Describe("New", func() {
	It("returns a client for each supported provider", func() {
		for _, name := range provider.Supported() {
			client, err := provider.New(name, "http://localhost:1234")
			Expect(err).NotTo(HaveOccurred())
			Expect(client.Name()).To(Equal(name))
		}
	})

	It("is case insensitive", func() {
		client, err := provider.New("Ollama", "http://localhost:11434")
		Expect(err).NotTo(HaveOccurred())
		Expect(client.Name()).To(Equal("ollama"))
	})

	It("rejects unknown providers", func() {
		_, err := provider.New("bedrock", "http://localhost:1234")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unknown provider"))
	})
})
