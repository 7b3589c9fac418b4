package content

import (
	"cmp"
	"slices"
)

// BuildMenuTree arranges menus into a tree. Only menus whose parent is in
// the given set (or that have no parent) are reachable; siblings are ordered
// by Sort, then ID. categoryNames resolves CategoryName by category id.
func BuildMenuTree(menus []Menu, categoryNames map[int]string) []*MenuNode {
	byParent := make(map[int][]Menu)
	var roots []Menu
	for _, m := range menus {
		if m.ParentID == nil {
			roots = append(roots, m)
			continue
		}
		byParent[*m.ParentID] = append(byParent[*m.ParentID], m)
	}

	var build func(level []Menu) []*MenuNode
	build = func(level []Menu) []*MenuNode {
		slices.SortStableFunc(level, func(a, b Menu) int {
			return cmp.Or(cmp.Compare(a.Sort, b.Sort), cmp.Compare(a.ID, b.ID))
		})

		nodes := make([]*MenuNode, 0, len(level))
		for _, m := range level {
			node := &MenuNode{
				Menu:     m,
				Children: build(byParent[m.ID]),
			}
			if m.CategoryID != nil {
				if name, ok := categoryNames[*m.CategoryID]; ok {
					node.CategoryName = &name
				}
			}
			nodes = append(nodes, node)
		}
		return nodes
	}

	return build(roots)
}

// TotalPages is the number of pages needed for total items.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
