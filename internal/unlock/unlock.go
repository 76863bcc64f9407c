// Package unlock decides which academy nodes a learner may open. Nodes form
// a single chain in catalog order: the first is always open and each later
// node opens once its predecessor is completed.
package unlock

import "github.com/agrovision/academy/internal/catalog"

// NodeStatus is a node annotated with its place on the learning path.
type NodeStatus struct {
	Node      catalog.Node
	UnitID    string
	Position  int
	Completed bool
	Locked    bool
}

// IsUnlocked reports whether node id may be started. Unknown ids are locked.
// Completion state of the node itself does not matter, so completed nodes
// stay replayable.
func IsUnlocked(cat *catalog.Catalog, completed map[string]bool, id string) bool {
	pos, ok := cat.Position(id)
	if !ok {
		return false
	}
	if pos == 0 {
		return true
	}
	prev, _ := cat.At(pos - 1)
	return completed[prev.ID]
}

// Path returns the status of every node in catalog order.
func Path(cat *catalog.Catalog, completed map[string]bool) []NodeStatus {
	nodes := cat.Flatten()
	out := make([]NodeStatus, len(nodes))
	for i, n := range nodes {
		unitID, _ := cat.UnitOf(n.ID)
		out[i] = NodeStatus{
			Node:      n,
			UnitID:    unitID,
			Position:  i,
			Completed: completed[n.ID],
			Locked:    i > 0 && !completed[nodes[i-1].ID],
		}
	}
	return out
}

// Next returns the first node that is unlocked and not yet completed.
// ok is false when every reachable node is done.
func Next(cat *catalog.Catalog, completed map[string]bool) (catalog.Node, bool) {
	for _, st := range Path(cat, completed) {
		if !st.Locked && !st.Completed {
			return st.Node, true
		}
	}
	return catalog.Node{}, false
}
