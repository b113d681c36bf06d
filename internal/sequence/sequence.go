// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sequence linearizes a conversation's messages into the single
// reading order. Flat exports keep their input order; tree-shaped exports
// (edit history kept as sibling branches) are reduced to the live branch,
// the path from a root to the most recent leaf.
package sequence

import "github.com/pdiddy/convomd/pkg/types"

// Linearize orders msgs into one turn sequence. The result is a new slice;
// its length never exceeds len(msgs), and the same input always produces
// the same output (all scans walk the input slice, never a map).
func Linearize(msgs []types.Message) []types.Message {
	if len(msgs) == 0 {
		return nil
	}

	if !hasParentLinks(msgs) {
		out := make([]types.Message, len(msgs))
		copy(out, msgs)
		return out
	}

	pos := make(map[string]int, len(msgs))
	for i, m := range msgs {
		if m.ID == "" {
			continue
		}
		if _, ok := pos[m.ID]; !ok {
			pos[m.ID] = i
		}
	}

	// A parent id that does not resolve within the conversation marks the
	// message as a root, same as a nil parent.
	childCount := make(map[string]int, len(msgs))
	for _, m := range msgs {
		if m.ParentID == "" {
			continue
		}
		if _, ok := pos[m.ParentID]; ok {
			childCount[m.ParentID]++
		}
	}

	leaf := selectLeaf(msgs, childCount)
	if leaf < 0 {
		// Every message has children: a cycle. Fall back to input order.
		out := make([]types.Message, len(msgs))
		copy(out, msgs)
		return out
	}

	// Walk parent links from the leaf to its root, then reverse.
	var path []types.Message
	visited := make(map[int]bool, len(msgs))
	for i := leaf; !visited[i]; {
		visited[i] = true
		path = append(path, msgs[i])
		parent, ok := pos[msgs[i].ParentID]
		if msgs[i].ParentID == "" || !ok {
			break
		}
		i = parent
	}

	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// selectLeaf picks the "current" endpoint among messages with no children:
// the latest timestamp wins, and equal (or missing) timestamps fall back to
// the latest position in the input. Returns -1 when no leaf exists.
func selectLeaf(msgs []types.Message, childCount map[string]int) int {
	best := -1
	for i, m := range msgs {
		if m.ID != "" && childCount[m.ID] > 0 {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		switch {
		case m.CreatedAt.After(msgs[best].CreatedAt):
			best = i
		case m.CreatedAt.Equal(msgs[best].CreatedAt):
			// Later input position wins the tie.
			best = i
		}
	}
	return best
}

func hasParentLinks(msgs []types.Message) bool {
	for _, m := range msgs {
		if m.ParentID != "" {
			return true
		}
	}
	return false
}
