// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"sort"

	"github.com/oklog/ulid/v2"
)

// Edge is one directed parent -> child relation over faction IDs.
type Edge struct {
	Parent ulid.ULID
	Child  ulid.ULID
}

// FindCycle searches the directed edge set for a cycle and returns the
// node sequence forming it, or nil if the graph is acyclic. A newly
// introduced edge can close a cycle anywhere in the graph, so callers
// pass the entire tenant edge set, not just the edge being added.
func FindCycle(edges []Edge) []ulid.ULID {
	children := make(map[ulid.ULID][]ulid.ULID, len(edges))
	nodes := make(map[ulid.ULID]struct{}, len(edges)*2)
	for _, e := range edges {
		children[e.Parent] = append(children[e.Parent], e.Child)
		nodes[e.Parent] = struct{}{}
		nodes[e.Child] = struct{}{}
	}

	// Stable iteration so the reported cycle is deterministic.
	ordered := make([]ulid.ULID, 0, len(nodes))
	for n := range nodes {
		ordered = append(ordered, n)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Compare(ordered[j]) < 0
	})

	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // fully explored
	)
	state := make(map[ulid.ULID]int, len(nodes))
	var path []ulid.ULID

	var visit func(n ulid.ULID) []ulid.ULID
	visit = func(n ulid.ULID) []ulid.ULID {
		state[n] = gray
		path = append(path, n)
		for _, c := range children[n] {
			switch state[c] {
			case gray:
				// Found a back edge; slice the path from the repeat.
				for i, p := range path {
					if p == c {
						cycle := make([]ulid.ULID, 0, len(path)-i+1)
						cycle = append(cycle, path[i:]...)
						return append(cycle, c)
					}
				}
			case white:
				if cycle := visit(c); cycle != nil {
					return cycle
				}
			}
		}
		state[n] = black
		path = path[:len(path)-1]
		return nil
	}

	for _, n := range ordered {
		if state[n] == white {
			path = path[:0]
			if cycle := visit(n); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// FactionTree is the result of a breadth-first traversal from a root
// faction: the connected subtree below the root, a depth -> faction IDs
// map, and the aggregate influence of the visited nodes.
type FactionTree struct {
	Root           ulid.ULID
	Nodes          []*Hierarchy
	Levels         map[int][]ulid.ULID
	TotalInfluence float64
}

// BuildFactionTree walks the parent/child adjacency breadth-first from
// root. Nodes maps faction ID to hierarchy node. The visited set makes
// traversal terminate even on a corrupted graph; cycles are rejected at
// save time, so this is a safety belt rather than expected behavior.
func BuildFactionTree(root ulid.ULID, nodes map[ulid.ULID]*Hierarchy) *FactionTree {
	children := make(map[ulid.ULID][]ulid.ULID, len(nodes))
	for _, h := range nodes {
		if h.ParentFaction != nil {
			children[*h.ParentFaction] = append(children[*h.ParentFaction], h.FactionID)
		}
	}
	for _, kids := range children {
		sort.Slice(kids, func(i, j int) bool { return kids[i].Compare(kids[j]) < 0 })
	}

	tree := &FactionTree{
		Root:   root,
		Levels: make(map[int][]ulid.ULID),
	}
	visited := make(map[ulid.ULID]bool, len(nodes))

	type item struct {
		id    ulid.ULID
		depth int
	}
	queue := []item{{id: root, depth: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true

		node, ok := nodes[cur.id]
		if !ok {
			continue
		}
		tree.Nodes = append(tree.Nodes, node)
		tree.Levels[cur.depth] = append(tree.Levels[cur.depth], cur.id)
		tree.TotalInfluence += node.Influence

		for _, c := range children[cur.id] {
			if !visited[c] {
				queue = append(queue, item{id: c, depth: cur.depth + 1})
			}
		}
	}
	return tree
}
