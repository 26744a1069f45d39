package depgraph

import (
	"github.com/kedarbellare/lore/pkg/lore/annotation"
)

// DefaultMaxPathLength caps the number of arcs in an edge walk.
const DefaultMaxPathLength = 5

// Walker finds shortest dependency walks between mention heads.
type Walker struct {
	maxLength int
}

// NewWalker creates a walker that drops walks longer than maxLength arcs.
// A non-positive maxLength selects DefaultMaxPathLength.
func NewWalker(maxLength int) *Walker {
	if maxLength <= 0 {
		maxLength = DefaultMaxPathLength
	}
	return &Walker{maxLength: maxLength}
}

// MaxLength returns the arc bound.
func (w *Walker) MaxLength() int {
	return w.maxLength
}

// EdgeWalk renders the shortest undirected arc path from the head of src to
// the head of dest, both in sentence s.
//
// The walk is empty, without error, when the mentions sit in different
// sentences, share a cluster, have no connecting path, or are connected only
// by a path longer than the walker's bound. The lemma of the destination
// head is never rendered: the last element ends at its arrow.
//
// Among equally short paths the one found first by a breadth-first search
// that expands each vertex's arcs in graph edge order wins.
func (w *Walker) EdgeWalk(src, dest annotation.Mention, s *annotation.Sentence, labeled bool) ([]string, error) {
	if src.SentNum != dest.SentNum || src.ClusterID == dest.ClusterID {
		return nil, nil
	}

	from, ok := vertexFor(s.Graph, src.Head)
	if !ok {
		return nil, nil
	}
	to, ok := vertexFor(s.Graph, dest.Head)
	if !ok {
		return nil, nil
	}

	path := w.shortestPath(s.Graph, from, to)
	if len(path) == 0 {
		return nil, nil
	}

	walk := make([]string, 0, len(path))
	curr := from
	for _, e := range path {
		var step string
		var next int
		switch curr {
		case e.Dependent:
			step, next = backward(e.Label, labeled), e.Governor
		case e.Governor:
			step, next = forward(e.Label, labeled), e.Dependent
		}
		if next != to {
			tok, err := s.Token(next)
			if err != nil {
				return nil, err
			}
			lemma, err := tok.RequireLemma()
			if err != nil {
				return nil, err
			}
			step += lemma
		}
		walk = append(walk, step)
		curr = next
	}
	return walk, nil
}

// vertexFor maps a token index onto the graph, falling back to the root
// when the token is not a vertex.
func vertexFor(g *annotation.Graph, index int) (int, bool) {
	if g.HasVertex(index) {
		return index, true
	}
	if g.Root != 0 {
		return g.Root, true
	}
	return 0, false
}

// shortestPath returns the arcs of a shortest undirected path from -> to,
// or nil when there is none within the walker's bound.
func (w *Walker) shortestPath(g *annotation.Graph, from, to int) []annotation.Edge {
	if from == to {
		return nil
	}

	adj := make(map[int][]int)
	for i, e := range g.Edges {
		if e.Governor == e.Dependent {
			continue
		}
		adj[e.Governor] = append(adj[e.Governor], i)
		adj[e.Dependent] = append(adj[e.Dependent], i)
	}

	came := map[int]hop{from: {prev: from, edge: -1}}
	frontier := []int{from}

	for depth := 0; depth < w.maxLength && len(frontier) > 0; depth++ {
		var next []int
		for _, v := range frontier {
			for _, ei := range adj[v] {
				e := g.Edges[ei]
				u := e.Dependent
				if u == v {
					u = e.Governor
				}
				if _, seen := came[u]; seen {
					continue
				}
				came[u] = hop{prev: v, edge: ei}
				if u == to {
					return unwind(g, came, from, to)
				}
				next = append(next, u)
			}
		}
		frontier = next
	}
	return nil
}

// hop records how the search first reached a vertex.
type hop struct {
	prev int // vertex
	edge int // index into Graph.Edges
}

func unwind(g *annotation.Graph, came map[int]hop, from, to int) []annotation.Edge {
	var rev []annotation.Edge
	for v := to; v != from; v = came[v].prev {
		rev = append(rev, g.Edges[came[v].edge])
	}
	path := make([]annotation.Edge, len(rev))
	for i, e := range rev {
		path[len(rev)-1-i] = e
	}
	return path
}
