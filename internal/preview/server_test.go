package preview_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gitdeck.app/cli/internal/deck"
	"gitdeck.app/cli/internal/model"
	"gitdeck.app/cli/internal/preview"
)

var _ = Describe("Server", func() {
	var (
		dir    string
		server *preview.Server
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		dir = GinkgoT().TempDir()
		server = preview.NewServer(dir, false)
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)
		return w
	}

	It("reports health", func() {
		w := get("/health")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("ok"))
	})

	It("serves the shell page with a link to the deck", func() {
		w := get("/")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("/deck.md"))
	})

	It("returns 404 before any deck is generated", func() {
		w := get("/deck.md")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("serves the deck markup once written", func() {
		writer, err := deck.NewWriter(dir)
		Expect(err).NotTo(HaveOccurred())

		d := model.SlideDeck{
			Title:  "Recap",
			Theme:  "seriph",
			Slides: []model.SlideRecord{{Title: "Recap", Layout: model.LayoutCover, Content: "hello"}},
		}
		_, err = writer.Write(d)
		Expect(err).NotTo(HaveOccurred())

		w := get("/deck.md")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("text/markdown"))
		Expect(w.Body.String()).To(Equal(deck.Serialize(d)))
	})
})

var _ = Describe("Launch", func() {
	It("refuses to launch without a deck on disk", func() {
		_, err := preview.Launch(context.Background(), GinkgoT().TempDir(), 3030)
		Expect(err).To(MatchError(ContainSubstring("no deck to preview")))
	})
})
