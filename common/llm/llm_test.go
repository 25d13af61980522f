package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("extractJSON", func() {
	DescribeTable("strips code fences when present",
		func(input, expected string) {
			Expect(extractJSON(input)).To(Equal(expected))
		},
		Entry("bare JSON unchanged", `{"title":"x"}`, `{"title":"x"}`),
		Entry("json fence removed", "```json\n{\"title\":\"x\"}\n```", `{"title":"x"}`),
		Entry("plain fence removed", "```\n{\"title\":\"x\"}\n```", `{"title":"x"}`),
		Entry("surrounding whitespace trimmed", "  {\"a\":1}\n", `{"a":1}`),
	)
})

var _ = Describe("GenerateSchema", func() {
	type sample struct {
		Title  string `json:"title"`
		Layout string `json:"layout" jsonschema:"enum=default,enum=center"`
	}

	It("produces a closed schema with all properties", func() {
		schema := GenerateSchema[sample]()
		data, err := json.Marshal(schema)
		Expect(err).NotTo(HaveOccurred())

		text := string(data)
		Expect(text).To(ContainSubstring(`"additionalProperties":false`))
		Expect(text).To(ContainSubstring(`"title"`))
		Expect(text).To(ContainSubstring(`"layout"`))
		Expect(text).To(ContainSubstring(`"enum":["default","center"]`))
		Expect(strings.Contains(text, `"$ref"`)).To(BeFalse())
	})
})

var _ = Describe("IsRetryable", func() {
	It("treats nil as not retryable", func() {
		Expect(IsRetryable(context.Background(), nil)).To(BeFalse())
	})

	It("treats cancelled contexts as not retryable", func() {
		Expect(IsRetryable(context.Background(), context.Canceled)).To(BeFalse())
		Expect(IsRetryable(context.Background(), context.DeadlineExceeded)).To(BeFalse())
	})

	It("treats plain network errors as retryable", func() {
		Expect(IsRetryable(context.Background(), errors.New("connection reset"))).To(BeTrue())
	})
})

var _ = Describe("NewClient", func() {
	It("rejects a missing API key", func() {
		_, err := NewClient(Config{Provider: ProviderOpenAI})
		Expect(err).To(HaveOccurred())
	})

	It("rejects unknown providers", func() {
		_, err := NewClient(Config{Provider: "carrier-pigeon", APIKey: "k"})
		Expect(err).To(MatchError(ContainSubstring("unsupported LLM provider")))
	})

	It("builds a client per provider", func() {
		for _, provider := range []string{ProviderOpenAI, ProviderAnthropic, ""} {
			c, err := NewClient(Config{Provider: provider, APIKey: "k"})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Model()).NotTo(BeEmpty())
		}
	})

	It("carries the configured completion budget into each client", func() {
		c, err := NewClient(Config{Provider: ProviderOpenAI, APIKey: "k", MaxTokens: 2048})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.(*openaiClient).maxTokens).To(Equal(2048))

		c, err = NewClient(Config{Provider: ProviderAnthropic, APIKey: "k", MaxTokens: 2048})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.(*anthropicClient).maxTokens).To(Equal(2048))
	})

	It("defaults the completion budget when none is configured", func() {
		c, err := NewClient(Config{Provider: ProviderOpenAI, APIKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.(*openaiClient).maxTokens).To(Equal(1000))
	})
})
