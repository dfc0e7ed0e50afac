package registry

import (
	"container/heap"

	"github.com/katalvlaran/patchcore/artifact"
)

// Hop is one leg of a multi-hop adapter chain.
type Hop struct {
	Adapter *Def
	From    artifact.Kind
	To      artifact.Kind
}

// FindAdapterPath searches for the minimum-total-cost chain of registered
// AUTO- or SUGGEST-policy adapters (never EXPLICIT ones) connecting from to
// to, when no single direct adapter exists. FindAdapters remains the exact, direct-match primitive this
// composes over.
//
// This is lvlath's dijkstra.Dijkstra adapted from a weighted vertex graph
// to the registry's type graph: nodes are artifact.Kind values, edges are
// adapters weighted by Cost. maxCost bounds the search (internal/config's
// AdapterCostCeiling) so a pathological registry cannot make compilation
// run unbounded.
func (r *Registry) FindAdapterPath(from, to artifact.Kind, maxCost float64) ([]Hop, bool) {
	r.mu.RLock()
	// Build adjacency: kind -> adapters departing from that kind.
	adj := make(map[artifact.Kind][]*Def)
	for _, d := range r.defs {
		if d.Kind == KindAdapter && d.Policy != PolicyExplicit {
			adj[d.InputType] = append(adj[d.InputType], d)
		}
	}
	r.mu.RUnlock()

	if from == to {
		return nil, true
	}

	dist := map[artifact.Kind]float64{from: 0}
	prevHop := map[artifact.Kind]*Def{}
	pq := &pathQueue{{kind: from, cost: 0}}
	heap.Init(pq)
	visited := map[artifact.Kind]bool{}

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pathItem)
		if visited[cur.kind] {
			continue
		}
		visited[cur.kind] = true
		if cur.kind == to {
			break
		}

		for _, d := range adj[cur.kind] {
			nd := cur.cost + d.Cost
			if nd > maxCost {
				continue
			}
			if existing, ok := dist[d.OutputType]; !ok || nd < existing || (nd == existing && lessDef(d, prevHop[d.OutputType])) {
				dist[d.OutputType] = nd
				prevHop[d.OutputType] = d
				heap.Push(pq, pathItem{kind: d.OutputType, cost: nd})
			}
		}
	}

	if _, ok := dist[to]; !ok {
		return nil, false
	}

	// Reconstruct the path by walking prevHop backward from `to`.
	var hops []Hop
	cur := to
	for cur != from {
		d := prevHop[cur]
		if d == nil {
			return nil, false
		}
		hops = append([]Hop{{Adapter: d, From: d.InputType, To: d.OutputType}}, hops...)
		cur = d.InputType
	}

	return hops, true
}

func lessDef(a, b *Def) bool {
	if b == nil {
		return true
	}
	return a.ID < b.ID
}

type pathItem struct {
	kind artifact.Kind
	cost float64
}

type pathQueue []pathItem

func (q pathQueue) Len() int { return len(q) }
func (q pathQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].kind < q[j].kind
}
func (q pathQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x interface{}) { *q = append(*q, x.(pathItem)) }
func (q *pathQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
