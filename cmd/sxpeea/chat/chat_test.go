package chatcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sxpeea/sxpeea/pkg/dotdir"
	"github.com/sxpeea/sxpeea/pkg/logger"
	"github.com/sxpeea/sxpeea/proxy"
)

const completedReply = `data: {"type":"connected"}

data: {"type":"content","content":"Hel"}

data: {"type":"content","content":"lo"}

data: {"type":"done","conversation_id":"conv-1"}

data: {"type":"completed"}

`

var _ = Describe("readReply", func() {
	It("collects content and the conversation id", func() {
		var chunks []string
		r, err := readReply(strings.NewReader(completedReply), func(s string) { chunks = append(chunks, s) })
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Content).To(Equal("Hello"))
		Expect(r.ConversationID).To(Equal("conv-1"))
		Expect(chunks).To(Equal([]string{"Hel", "lo"}))
	})

	It("returns the relay's error message", func() {
		stream := "data: {\"type\":\"connected\"}\n\ndata: {\"type\":\"error\",\"content\":\"request timed out, please try again later\"}\n\n"
		_, err := readReply(strings.NewReader(stream), func(string) {})
		Expect(err).To(MatchError("request timed out, please try again later"))
	})

	It("reports a stream that ends early", func() {
		stream := "data: {\"type\":\"content\",\"content\":\"partial\"}\n\n"
		r, err := readReply(strings.NewReader(stream), func(string) {})
		Expect(err).To(MatchError(errStreamEnded))
		Expect(r.Content).To(Equal("partial"))
	})

	It("skips frames it cannot decode", func() {
		stream := "data: not-json\n\n" + completedReply
		r, err := readReply(strings.NewReader(stream), func(string) {})
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Content).To(Equal("Hello"))
	})
})

var _ = Describe("chatCommander", func() {
	var (
		server    *httptest.Server
		mu        sync.Mutex
		requests  []proxy.StreamRequest
		configDir string
		out       *bytes.Buffer
	)

	BeforeEach(func() {
		mu.Lock()
		requests = nil
		mu.Unlock()

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/chat/stream"))

			var req proxy.StreamRequest
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			mu.Lock()
			requests = append(requests, req)
			mu.Unlock()

			if req.Message == "fail" {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"error":"message is required"}`)
				return
			}

			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, completedReply)
		}))
		DeferCleanup(server.Close)

		var err error
		configDir, err = os.MkdirTemp("", "chat-cmd-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, configDir)

		out = &bytes.Buffer{}
	})

	newCommander := func(input string) *chatCommander {
		return &chatCommander{
			serverTarget: server.URL,
			configDir:    configDir,
			in:           strings.NewReader(input),
			out:          out,
			client:       server.Client(),
			ddm:          dotdir.NewManager(),
			logger:       logger.Nop(),
		}
	}

	sent := func() []proxy.StreamRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]proxy.StreamRequest(nil), requests...)
	}

	It("streams replies and continues the conversation", func() {
		Expect(newCommander("hi\nagain\n/exit\n").run(context.Background())).To(Succeed())

		Expect(out.String()).To(ContainSubstring("Hello"))
		reqs := sent()
		Expect(reqs).To(HaveLen(2))
		Expect(reqs[0].ConversationID).To(BeEmpty())
		Expect(reqs[1].ConversationID).To(Equal("conv-1"))
	})

	It("resumes the saved conversation on the next run", func() {
		Expect(newCommander("hi\n").run(context.Background())).To(Succeed())
		Expect(newCommander("again\n").run(context.Background())).To(Succeed())

		reqs := sent()
		Expect(reqs).To(HaveLen(2))
		Expect(reqs[1].ConversationID).To(Equal("conv-1"))
		Expect(out.String()).To(ContainSubstring("Resuming conversation"))
	})

	It("starts over with --new", func() {
		Expect(newCommander("hi\n").run(context.Background())).To(Succeed())

		c := newCommander("again\n")
		c.newChat = true
		Expect(c.run(context.Background())).To(Succeed())

		Expect(sent()[1].ConversationID).To(BeEmpty())
	})

	It("reports server errors and keeps going", func() {
		Expect(newCommander("fail\nhi\n").run(context.Background())).To(Succeed())

		Expect(out.String()).To(ContainSubstring("server returned status 400"))
		Expect(sent()).To(HaveLen(2))
	})

	It("skips blank lines", func() {
		Expect(newCommander("\n   \n").run(context.Background())).To(Succeed())
		Expect(sent()).To(BeEmpty())
	})
})
