package assistant_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/assistant"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Assistant Handler", func() {
	var router http.Handler

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := assistant.NewService(&fakeSearcher{}, 10, slogger).WithClock(func() time.Time { return now })
		h := assistant.NewHandler(slogger, service)

		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				p := &internal.Principal{UserID: 5, CompanyID: 1, Role: "TRAVELER"}
				next.ServeHTTP(w, req.WithContext(internal.ContextWithUser(req.Context(), p)))
			})
		})
		r.Post("/assistant/messages", h.Ask)
		r.Get("/assistant/messages", h.History)
		r.Delete("/assistant/messages", h.Clear)
		router = r
	})

	do := func(method string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, "/assistant/messages", &buf))
		return w
	}

	It("answers and remembers the conversation", func() {
		w := do(http.MethodPost, assistant.AskRequest{Text: "train to Kazan tomorrow"})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var msg assistant.Message
		Expect(json.NewDecoder(w.Body).Decode(&msg)).To(Succeed())
		Expect(msg.Intent.Kind).To(Equal(assistant.KindTrain))

		w = do(http.MethodGet, nil)
		var history assistant.HistoryResponse
		Expect(json.NewDecoder(w.Body).Decode(&history)).To(Succeed())
		Expect(history.Messages).To(HaveLen(2))

		Expect(do(http.MethodDelete, nil).Code).To(Equal(http.StatusNoContent))
		w = do(http.MethodGet, nil)
		Expect(json.NewDecoder(w.Body).Decode(&history)).To(Succeed())
		Expect(history.Messages).To(BeEmpty())
	})

	It("answers 400 for an empty question", func() {
		Expect(do(http.MethodPost, assistant.AskRequest{Text: ""}).Code).To(Equal(http.StatusBadRequest))
	})
})
