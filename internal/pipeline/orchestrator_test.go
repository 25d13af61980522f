package pipeline

import (
	"context"
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gitdeck.app/cli/internal/author"
	"gitdeck.app/cli/internal/model"
)

type stubGenerator struct {
	generateFn func(ctx context.Context, seg model.NarrativeSegment, nctx model.NarrativeContext) (*model.SlideRecord, error)
	contexts   []model.NarrativeContext
}

func (s *stubGenerator) Generate(ctx context.Context, seg model.NarrativeSegment, nctx model.NarrativeContext) (*model.SlideRecord, error) {
	s.contexts = append(s.contexts, nctx)
	if s.generateFn != nil {
		return s.generateFn(ctx, seg, nctx)
	}
	return &model.SlideRecord{
		Title:   fmt.Sprintf("Slide %d", nctx.SegmentIndex),
		Layout:  model.LayoutDefault,
		Content: "- something happened",
	}, nil
}

type recordingStore struct {
	records []model.GenerationRecord
}

func (r *recordingStore) Record(_ context.Context, rec *model.GenerationRecord) error {
	r.records = append(r.records, *rec)
	return nil
}

func (r *recordingStore) ListByRun(_ context.Context, _ int64) ([]model.GenerationRecord, error) {
	return r.records, nil
}

func (r *recordingStore) Close() error { return nil }

func makeSegments(contentCommits ...int) []model.NarrativeSegment {
	segments := []model.NarrativeSegment{
		{Role: model.RoleTitle, FocusLabel: model.FocusOpening},
	}
	for i, n := range contentCommits {
		commits := make([]model.Commit, n)
		for j := range commits {
			commits[j] = model.Commit{
				ID:      fmt.Sprintf("%040d", i*100+j),
				Message: fmt.Sprintf("feat: change %d", j),
			}
		}
		segments = append(segments, model.NarrativeSegment{
			Role:       model.RoleContent,
			FocusLabel: model.FocusDevelopmentProgress,
			Commits:    commits,
		})
	}
	segments = append(segments, model.NarrativeSegment{
		Role: model.RoleConclusion, FocusLabel: model.FocusSummary,
	})
	return segments
}

var _ = Describe("Orchestrator", func() {
	var (
		gen *stubGenerator
		cfg Config
	)

	newOrchestrator := func() *Orchestrator {
		return NewOrchestrator(cfg, gen, author.NewFormatter(), author.NewValidator(), nil)
	}

	BeforeEach(func() {
		gen = &stubGenerator{}
		cfg = Config{Theme: "seriph", OverallTheme: "a sprint of auth work", Model: "test-model"}
	})

	It("accepts every segment and assembles one slide per segment", func() {
		segments := makeSegments(3, 2)

		deck, err := newOrchestrator().Run(context.Background(), segments)
		Expect(err).NotTo(HaveOccurred())
		Expect(deck.Slides).To(HaveLen(len(segments)))
		Expect(deck.Theme).To(Equal("seriph"))
		Expect(deck.Title).To(Equal("Slide 0"))
		Expect(gen.contexts).To(HaveLen(len(segments)))
	})

	It("rejects an empty segment list", func() {
		_, err := newOrchestrator().Run(context.Background(), nil)
		Expect(err).To(HaveOccurred())
	})

	It("substitutes a placeholder after exactly three failed attempts", func() {
		// Blank titles never pass validation, so every attempt fails.
		gen.generateFn = func(_ context.Context, _ model.NarrativeSegment, _ model.NarrativeContext) (*model.SlideRecord, error) {
			return &model.SlideRecord{Title: "", Layout: model.LayoutDefault, Content: "body"}, nil
		}
		segments := []model.NarrativeSegment{
			{Role: model.RoleContent, FocusLabel: model.FocusEarlyDevelopment, Commits: make([]model.Commit, 3)},
		}

		deck, err := newOrchestrator().Run(context.Background(), segments)
		Expect(err).NotTo(HaveOccurred())
		Expect(gen.contexts).To(HaveLen(3))
		Expect(deck.Slides).To(HaveLen(1))
		Expect(deck.Slides[0].Title).To(Equal("Progress Update"))
		Expect(deck.Slides[0].Content).To(ContainSubstring("3 commits"))
	})

	It("uses role-specific placeholders for title and conclusion segments", func() {
		gen.generateFn = func(_ context.Context, _ model.NarrativeSegment, _ model.NarrativeContext) (*model.SlideRecord, error) {
			return nil, &author.CapabilityCallError{Stage: model.StageGenerate, Err: fmt.Errorf("boom")}
		}
		segments := makeSegments(1)

		deck, err := newOrchestrator().Run(context.Background(), segments)
		Expect(err).NotTo(HaveOccurred())
		Expect(deck.Slides).To(HaveLen(3))
		Expect(deck.Slides[0].Title).To(Equal("Overview"))
		Expect(deck.Slides[1].Content).To(ContainSubstring("1 commit"))
		Expect(deck.Slides[2].Title).To(Equal("Summary"))
		Expect(deck.Title).To(Equal("Overview"))
	})

	It("recovers a failing segment without disturbing its neighbors", func() {
		gen.generateFn = func(_ context.Context, seg model.NarrativeSegment, nctx model.NarrativeContext) (*model.SlideRecord, error) {
			if nctx.SegmentIndex == 1 {
				return nil, &author.SchemaError{Stage: model.StageGenerate, Err: fmt.Errorf("garbage")}
			}
			return &model.SlideRecord{
				Title:   fmt.Sprintf("Slide %d", nctx.SegmentIndex),
				Layout:  model.LayoutDefault,
				Content: "- fine",
			}, nil
		}
		segments := makeSegments(2, 2)

		deck, err := newOrchestrator().Run(context.Background(), segments)
		Expect(err).NotTo(HaveOccurred())
		Expect(deck.Slides).To(HaveLen(4))
		Expect(deck.Slides[0].Title).To(Equal("Slide 0"))
		Expect(deck.Slides[1].Title).To(Equal("Progress Update"))
		Expect(deck.Slides[2].Title).To(Equal("Slide 2"))
		Expect(deck.Slides[3].Title).To(Equal("Slide 3"))
	})

	It("bounds the continuity window to the last two accepted slides", func() {
		segments := makeSegments(1, 1, 1, 1)

		_, err := newOrchestrator().Run(context.Background(), segments)
		Expect(err).NotTo(HaveOccurred())
		Expect(gen.contexts).To(HaveLen(6))

		Expect(gen.contexts[0].Previous).To(BeEmpty())
		Expect(gen.contexts[1].Previous).To(HaveLen(1))
		Expect(gen.contexts[2].Previous).To(HaveLen(2))
		for i := 3; i < len(gen.contexts); i++ {
			Expect(gen.contexts[i].Previous).To(HaveLen(2))
		}

		last := gen.contexts[5].Previous
		Expect(last[0].Title).To(Equal("Slide 3"))
		Expect(last[1].Title).To(Equal("Slide 4"))
	})

	It("truncates continuity content to the summary window", func() {
		long := strings.Repeat("x", 500)
		gen.generateFn = func(_ context.Context, _ model.NarrativeSegment, nctx model.NarrativeContext) (*model.SlideRecord, error) {
			return &model.SlideRecord{
				Title:   fmt.Sprintf("Slide %d", nctx.SegmentIndex),
				Layout:  model.LayoutDefault,
				Content: long,
			}, nil
		}
		segments := makeSegments(1)

		_, err := newOrchestrator().Run(context.Background(), segments)
		Expect(err).NotTo(HaveOccurred())

		prev := gen.contexts[1].Previous[0]
		Expect(prev.Content).To(HaveSuffix("..."))
		Expect(len(prev.Content)).To(Equal(summaryChars + len("...")))
	})

	It("stops before the next segment when cancelled and returns no deck", func() {
		ctx, cancel := context.WithCancel(context.Background())
		gen.generateFn = func(_ context.Context, _ model.NarrativeSegment, nctx model.NarrativeContext) (*model.SlideRecord, error) {
			cancel()
			return &model.SlideRecord{Title: "Slide", Layout: model.LayoutDefault, Content: "body"}, nil
		}
		segments := makeSegments(1)

		deck, err := newOrchestrator().Run(ctx, segments)
		Expect(err).To(MatchError(context.Canceled))
		Expect(deck).To(BeNil())
		Expect(gen.contexts).To(HaveLen(1))
	})

	It("records a transcript row per stage", func() {
		transcripts := &recordingStore{}
		segments := makeSegments(1)

		o := NewOrchestrator(cfg, gen, author.NewFormatter(), author.NewValidator(), transcripts)
		_, err := o.Run(context.Background(), segments)
		Expect(err).NotTo(HaveOccurred())

		// 3 segments, one accepted attempt each: generate, format, validate.
		Expect(transcripts.records).To(HaveLen(9))
		Expect(transcripts.records[0].Stage).To(Equal(model.StageGenerate))
		Expect(transcripts.records[1].Stage).To(Equal(model.StageFormat))
		Expect(transcripts.records[2].Stage).To(Equal(model.StageValidate))
		for _, rec := range transcripts.records {
			Expect(rec.Valid).To(BeTrue())
			Expect(rec.Model).To(Equal("test-model"))
			Expect(rec.RunID).NotTo(BeZero())
		}
	})

	It("records the placeholder substitution as a fallback row", func() {
		transcripts := &recordingStore{}
		gen.generateFn = func(_ context.Context, _ model.NarrativeSegment, _ model.NarrativeContext) (*model.SlideRecord, error) {
			return nil, &author.CapabilityCallError{Stage: model.StageGenerate, Err: fmt.Errorf("down")}
		}
		segments := []model.NarrativeSegment{
			{Role: model.RoleContent, FocusLabel: model.FocusRecentChanges, Commits: make([]model.Commit, 2)},
		}

		o := NewOrchestrator(cfg, gen, author.NewFormatter(), author.NewValidator(), transcripts)
		_, err := o.Run(context.Background(), segments)
		Expect(err).NotTo(HaveOccurred())

		// 3 failed generate rows, then the fallback row.
		Expect(transcripts.records).To(HaveLen(4))
		lastRow := transcripts.records[len(transcripts.records)-1]
		Expect(lastRow.Stage).To(Equal(model.StageFallback))
		Expect(lastRow.Valid).To(BeTrue())
		for _, rec := range transcripts.records[:3] {
			Expect(rec.Stage).To(Equal(model.StageGenerate))
			Expect(rec.Valid).To(BeFalse())
		}
	})
})
