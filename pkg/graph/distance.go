package graph

import "math"

// DistanceUnreachable is the placeholder distance assigned to table entries
// before the breadth-first pass. Nodes the root cannot reach keep it.
const DistanceUnreachable = math.MaxInt32

// queueEntry is a node in the BFS frontier.
type queueEntry struct {
	id       string
	distance int
}

// ComputeDistances assigns every node reachable from rootID the minimum
// number of edges from the root, following edge direction. The root itself
// gets distance 0. Nodes already carrying a distance (the placeholder) keep
// it when unreachable; nodes without a distance are left untouched only if
// unreachable.
func (b *Builder) ComputeDistances(rootID string) {
	if _, ok := b.nodes[rootID]; !ok {
		return
	}

	adjacency := make(map[string][]string, len(b.nodes))
	for _, e := range b.edges {
		adjacency[e.SourceID] = append(adjacency[e.SourceID], e.TargetID)
	}

	seen := map[string]bool{rootID: true}
	queue := []queueEntry{{id: rootID, distance: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if n, ok := b.nodes[cur.id]; ok {
			d := cur.distance
			n.GraphDistance = &d
		}

		for _, next := range adjacency[cur.id] {
			if seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, queueEntry{id: next, distance: cur.distance + 1})
		}
	}
}
