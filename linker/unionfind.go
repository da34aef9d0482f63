package linker

import (
	"slices"

	"github.com/aphorium/aphorium/core"
)

// unionFind tracks equivalence classes of quote IDs. Path compression plus
// union by rank; operations are effectively constant time.
type unionFind struct {
	parent map[core.ID]core.ID
	rank   map[core.ID]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[core.ID]core.ID),
		rank:   make(map[core.ID]int),
	}
}

// add registers an ID as its own class if it isn't known yet.
func (u *unionFind) add(id core.ID) {
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
	}
}

// find returns the class representative for id.
func (u *unionFind) find(id core.ID) core.ID {
	u.add(id)
	root := id
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[id] != root {
		u.parent[id], id = root, u.parent[id]
	}
	return root
}

// union merges the classes of a and b.
func (u *unionFind) union(a, b core.ID) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// clusters returns every class with two or more members, each sorted by ID
// ascending, ordered by their smallest member for determinism.
func (u *unionFind) clusters() [][]core.ID {
	byRoot := make(map[core.ID][]core.ID)
	for id := range u.parent {
		root := u.find(id)
		byRoot[root] = append(byRoot[root], id)
	}

	var result [][]core.ID
	for _, members := range byRoot {
		if len(members) < 2 {
			continue
		}
		slices.Sort(members)
		result = append(result, members)
	}
	slices.SortFunc(result, func(a, b []core.ID) int {
		switch {
		case a[0] < b[0]:
			return -1
		case a[0] > b[0]:
			return 1
		}
		return 0
	})
	return result
}
