package content_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sxpeea/sxpeea/pkg/content"
)

var _ = Describe("BuildMenuTree", func() {
	It("nests children under their parents ordered by sort", func() {
		menus := []content.Menu{
			{ID: 1, Name: "About", Sort: 2},
			{ID: 2, Name: "Home", Sort: 1},
			{ID: 3, Name: "News", Sort: 3, ParentID: content.Ptr(1), CategoryID: content.Ptr(10)},
			{ID: 4, Name: "Intro", Sort: 1, ParentID: content.Ptr(1)},
		}

		tree := content.BuildMenuTree(menus, map[int]string{10: "Association News"})

		Expect(tree).To(HaveLen(2))
		Expect(tree[0].Name).To(Equal("Home"))
		Expect(tree[0].Children).To(BeEmpty())
		Expect(tree[1].Name).To(Equal("About"))
		Expect(tree[1].Children).To(HaveLen(2))
		Expect(tree[1].Children[0].Name).To(Equal("Intro"))
		Expect(tree[1].Children[1].Name).To(Equal("News"))
		Expect(*tree[1].Children[1].CategoryName).To(Equal("Association News"))
		Expect(tree[1].Children[0].CategoryName).To(BeNil())
	})

	It("drops menus whose parent is not part of the set", func() {
		tree := content.BuildMenuTree([]content.Menu{
			{ID: 1, Name: "Root"},
			{ID: 2, Name: "Orphan", ParentID: content.Ptr(99)},
		}, nil)

		Expect(tree).To(HaveLen(1))
		Expect(tree[0].Name).To(Equal("Root"))
	})

	It("renders children as an empty list rather than null", func() {
		tree := content.BuildMenuTree([]content.Menu{{ID: 1, Name: "Leaf", Slug: "leaf"}}, nil)

		b, err := json.Marshal(tree)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(ContainSubstring(`"children":[]`))
		Expect(string(b)).To(ContainSubstring(`"category_name":null`))
		Expect(string(b)).To(ContainSubstring(`"slug":"leaf"`))
	})
})

var _ = Describe("TotalPages", func() {
	DescribeTable("rounds up",
		func(total, size, want int) {
			Expect(content.TotalPages(total, size)).To(Equal(want))
		},
		Entry("empty", 0, 10, 0),
		Entry("exact", 20, 10, 2),
		Entry("remainder", 21, 10, 3),
		Entry("zero size", 5, 0, 0),
	)
})
