package dotdir_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sxpeea/sxpeea/pkg/dotdir"
)

var _ = Describe("dotdir.Manager conversation", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())
		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadConversation", func() {
		It("returns nil when no state file exists", func() {
			state, err := m.LoadConversation(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())
		})

		It("loads a valid state file", func() {
			data := `{"conversation_id":"7401","user_id":"web_user","updated_at":"2024-06-01T12:00:00Z"}`
			err := os.WriteFile(filepath.Join(tmpDir, "conversation.json"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			state, err := m.LoadConversation(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.ConversationID).To(Equal("7401"))
			Expect(state.UserID).To(Equal("web_user"))
			Expect(state.UpdatedAt).To(Equal(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)))
		})

		It("returns error for invalid JSON", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "conversation.json"), []byte("not json"), 0o600)
			Expect(err).NotTo(HaveOccurred())

			state, err := m.LoadConversation(tmpDir)
			Expect(err).To(HaveOccurred())
			Expect(state).To(BeNil())
		})
	})

	Describe("SaveConversation", func() {
		It("round-trips the state", func() {
			saved := &dotdir.ConversationState{
				ConversationID: "7402",
				UpdatedAt:      time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC),
			}
			Expect(m.SaveConversation(saved, tmpDir)).To(Succeed())

			state, err := m.LoadConversation(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(saved))
		})

		It("rejects nil and empty states", func() {
			Expect(m.SaveConversation(nil, tmpDir)).To(HaveOccurred())
			Expect(m.SaveConversation(&dotdir.ConversationState{}, tmpDir)).To(HaveOccurred())
		})
	})

	Describe("ClearConversation", func() {
		It("removes the state file", func() {
			Expect(m.SaveConversation(&dotdir.ConversationState{ConversationID: "1"}, tmpDir)).To(Succeed())
			Expect(m.ClearConversation(tmpDir)).To(Succeed())

			state, err := m.LoadConversation(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())
		})

		It("succeeds when there is nothing to clear", func() {
			Expect(m.ClearConversation(tmpDir)).To(Succeed())
		})
	})
})
