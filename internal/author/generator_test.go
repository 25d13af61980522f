package author

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gitdeck.app/cli/common/llm"
	"gitdeck.app/cli/internal/model"
	"gitdeck.app/cli/internal/styles"
)

type stubClient struct {
	chatFn  func(ctx context.Context, req llm.Request, result any) (*llm.Response, error)
	calls   int
	lastReq llm.Request
}

func (s *stubClient) Chat(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
	s.calls++
	s.lastReq = req
	if s.chatFn != nil {
		return s.chatFn(ctx, req, result)
	}
	return &llm.Response{}, nil
}

func (s *stubClient) Model() string { return "stub-model" }

// respondWith plays a canned record back through the schema-bound result
// pointer, the same way a real provider fills it.
func respondWith(record model.SlideRecord) func(context.Context, llm.Request, any) (*llm.Response, error) {
	return func(_ context.Context, _ llm.Request, result any) (*llm.Response, error) {
		raw, err := json.Marshal(record)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, result); err != nil {
			return nil, err
		}
		return &llm.Response{PromptTokens: 100, CompletionTokens: 50}, nil
	}
}

var _ = Describe("SlideWriter", func() {
	var (
		client *stubClient
		gen    Generator
		seg    model.NarrativeSegment
		nctx   model.NarrativeContext
	)

	BeforeEach(func() {
		client = &stubClient{}
		reg := styles.NewRegistry(styles.Defaults()...)
		gen = NewSlideWriter(client, reg.Lookup("professional"), styles.Options{}, "seriph")
		seg = model.NarrativeSegment{
			Role:       model.RoleContent,
			FocusLabel: model.FocusDevelopmentProgress,
			Commits: []model.Commit{
				{
					ID:       "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
					Message:  "feat: add login flow",
					Category: model.CategoryFeature,
					Stats:    model.CommitStats{FilesChanged: 2, Insertions: 120, Deletions: 5},
				},
			},
		}
		nctx = model.NarrativeContext{
			OverallTheme:  "auth sprint",
			SegmentIndex:  1,
			TotalSegments: 5,
			Previous: []model.SegmentSummary{
				{Title: "Kickoff", Content: "where we started"},
			},
		}
	})

	It("returns the record the capability produced", func() {
		client.chatFn = respondWith(model.SlideRecord{
			Title:   "Login lands",
			Layout:  model.LayoutDefault,
			Content: "- shipped the login flow",
		})

		record, err := gen.Generate(context.Background(), seg, nctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Title).To(Equal("Login lands"))
		Expect(record.Content).To(Equal("- shipped the login flow"))
		Expect(client.calls).To(Equal(1))
	})

	It("embeds position, focus, continuity and commits in the prompt", func() {
		client.chatFn = respondWith(model.SlideRecord{Title: "t", Content: "c"})

		_, err := gen.Generate(context.Background(), seg, nctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(client.lastReq.UserPrompt).To(ContainSubstring("slide 2 of 5"))
		Expect(client.lastReq.UserPrompt).To(ContainSubstring("development-progress"))
		Expect(client.lastReq.UserPrompt).To(ContainSubstring("Kickoff"))
		Expect(client.lastReq.UserPrompt).To(ContainSubstring("feat: add login flow"))
		Expect(client.lastReq.SystemPrompt).NotTo(BeEmpty())
		Expect(client.lastReq.SchemaName).To(Equal("slide_record"))
		Expect(client.lastReq.Schema).NotTo(BeNil())
	})

	It("defaults a missing layout", func() {
		client.chatFn = respondWith(model.SlideRecord{Title: "t", Content: "c"})

		record, err := gen.Generate(context.Background(), seg, nctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Layout).To(Equal(model.LayoutDefault))
	})

	It("classifies a malformed response as a schema error", func() {
		client.chatFn = func(_ context.Context, _ llm.Request, _ any) (*llm.Response, error) {
			return nil, fmt.Errorf("%w: unexpected token", llm.ErrMalformedResponse)
		}

		_, err := gen.Generate(context.Background(), seg, nctx)
		var schemaErr *SchemaError
		Expect(errors.As(err, &schemaErr)).To(BeTrue())
		Expect(schemaErr.Stage).To(Equal(model.StageGenerate))
	})

	It("treats an empty record as a schema error", func() {
		client.chatFn = respondWith(model.SlideRecord{})

		_, err := gen.Generate(context.Background(), seg, nctx)
		var schemaErr *SchemaError
		Expect(errors.As(err, &schemaErr)).To(BeTrue())
	})

	It("wraps a transport failure as a capability call error", func() {
		client.chatFn = func(_ context.Context, _ llm.Request, _ any) (*llm.Response, error) {
			return nil, errors.New("connection reset")
		}

		_, err := gen.Generate(context.Background(), seg, nctx)
		var callErr *CapabilityCallError
		Expect(errors.As(err, &callErr)).To(BeTrue())
		Expect(callErr.Stage).To(Equal(model.StageGenerate))
	})
})
