package depgraph

import "sort"

// UnreachableFrom returns, in ascending lexicographic order, every node that
// cannot reach any of sinks by following edges forward (id -> successor).
// The Graph Compiler uses this to flag blocks whose output is wired
// nowhere a RenderTreeProgram sink ever consumes, mirroring lvlath's
// bfs.BFS level-order traversal adapted to walk the reversed edge set from
// a seed set instead of a single source.
func (g *Graph) UnreachableFrom(sinks []string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rev := make(map[string][]string, len(g.nodes))
	for from, nbrs := range g.edges {
		for to := range nbrs {
			rev[to] = append(rev[to], from)
		}
	}
	for _, list := range rev {
		sort.Strings(list)
	}

	visited := make(map[string]struct{}, len(g.nodes))
	queue := make([]string, 0, len(sinks))
	for _, s := range sinks {
		if _, ok := g.nodes[s]; !ok {
			continue
		}
		if _, seen := visited[s]; !seen {
			visited[s] = struct{}{}
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, pred := range rev[cur] {
			if _, seen := visited[pred]; seen {
				continue
			}
			visited[pred] = struct{}{}
			queue = append(queue, pred)
		}
	}

	out := make([]string, 0)
	for id := range g.nodes {
		if _, ok := visited[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)

	return out
}
