package coze_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sxpeea/sxpeea/pkg/coze"
)

var _ = Describe("Client", func() {
	var (
		upstream *httptest.Server
		gotPath  string
		gotAuth  string
		gotBody  map[string]any
	)

	BeforeEach(func() {
		upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			raw, err := io.ReadAll(r.Body)
			Expect(err).NotTo(HaveOccurred())
			gotBody = nil
			Expect(json.Unmarshal(raw, &gotBody)).To(Succeed())

			w.Header().Set("Content-Type", "text/event-stream")
			w.WriteHeader(http.StatusOK)
		}))
	})

	AfterEach(func() {
		upstream.Close()
	})

	newClient := func() *coze.Client {
		return coze.NewClient(coze.Config{
			BaseURL:     upstream.URL + "/",
			Credentials: coze.Credentials{BotID: "bot-1", Token: "secret"},
		})
	}

	Describe("OpenStream", func() {
		It("posts a streaming v3 chat request with bearer auth", func() {
			resp, err := newClient().OpenStream(context.Background(), coze.ChatRequest{Message: "你好"})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(gotPath).To(Equal("/v3/chat"))
			Expect(gotAuth).To(Equal("Bearer secret"))
			Expect(gotBody["bot_id"]).To(Equal("bot-1"))
			Expect(gotBody["stream"]).To(BeTrue())
			Expect(gotBody["user_id"]).To(Equal(coze.DefaultUserID))
			Expect(gotBody).NotTo(HaveKey("conversation_id"))
			Expect(gotBody["parameters"]).To(BeEmpty())

			msgs, ok := gotBody["additional_messages"].([]any)
			Expect(ok).To(BeTrue())
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0]).To(Equal(map[string]any{
				"role":         "user",
				"content":      "你好",
				"content_type": "text",
				"type":         "question",
			}))
		})

		It("forwards the conversation id and user id when set", func() {
			resp, err := newClient().OpenStream(context.Background(), coze.ChatRequest{
				Message:        "hi",
				ConversationID: "conv-9",
				UserID:         "u-1",
			})
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()

			Expect(gotBody["conversation_id"]).To(Equal("conv-9"))
			Expect(gotBody["user_id"]).To(Equal("u-1"))
		})

		It("rejects an empty message", func() {
			_, err := newClient().OpenStream(context.Background(), coze.ChatRequest{})
			Expect(err).To(MatchError(coze.ErrEmptyMessage))
		})

		It("uses swapped credentials for later requests", func() {
			client := newClient()
			client.SetCredentials(coze.Credentials{BotID: "bot-2", Token: "rotated"})

			resp, err := client.OpenStream(context.Background(), coze.ChatRequest{Message: "hi"})
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()

			Expect(gotAuth).To(Equal("Bearer rotated"))
			Expect(gotBody["bot_id"]).To(Equal("bot-2"))
		})

		It("returns transport errors", func() {
			client := coze.NewClient(coze.Config{BaseURL: "http://127.0.0.1:1"})
			_, err := client.OpenStream(context.Background(), coze.ChatRequest{Message: "hi"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("BotConfigured", func() {
		It("reports whether a bot id is present", func() {
			Expect(coze.NewClient(coze.Config{}).BotConfigured()).To(BeFalse())
			Expect(newClient().BotConfigured()).To(BeTrue())
		})

		It("starts with empty credentials when none are given", func() {
			client := coze.NewClient(coze.Config{})
			Expect(client.Credentials()).To(Equal(coze.Credentials{}))
		})
	})
})
