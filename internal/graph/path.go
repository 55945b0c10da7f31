package graph

// ShortestPath runs a breadth-first search from start to target and
// returns the full name sequence including both endpoints. The path
// has length 1 when start and target are the same person, and is nil
// when either name is unknown or no path exists. Among equal-length
// paths the first one discovered in neighbor order wins; that order is
// stable for the lifetime of the graph but carries no meaning.
func (g *Graph) ShortestPath(start, target string) []string {
	from, okFrom := g.Resolve(start)
	to, okTo := g.Resolve(target)
	if !okFrom || !okTo {
		return nil
	}
	if from == to {
		return []string{from}
	}

	parent := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.neighbors[cur] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			if next == to {
				return backtrack(parent, from, to)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// backtrack rebuilds the path from parent links, target to start.
func backtrack(parent map[string]string, from, to string) []string {
	var rev []string
	for cur := to; cur != ""; cur = parent[cur] {
		rev = append(rev, cur)
		if cur == from {
			break
		}
	}
	path := make([]string, len(rev))
	for i, name := range rev {
		path[len(rev)-1-i] = name
	}
	return path
}

// EdgeSet is a set of undirected edges, keyed independently of
// endpoint order and casing; the stored value keeps the casing of the
// first insertion for display. The game uses it for the revealed
// subgraph, which must be checked for connectivity without consulting
// the full graph.
type EdgeSet map[Edge]Edge

// NewEdgeSet returns an empty edge set.
func NewEdgeSet() EdgeSet { return make(EdgeSet) }

// edgeKey folds both endpoints and orders them so that every casing
// and ordering of the same pair maps to the same key.
func edgeKey(a, b string) Edge {
	fa, fb := fold(a), fold(b)
	if fb < fa {
		fa, fb = fb, fa
	}
	return Edge{A: fa, B: fb}
}

// Add inserts the undirected edge (a, b). Re-adding the same pair in
// any casing or order is a no-op.
func (s EdgeSet) Add(a, b string) {
	key := edgeKey(a, b)
	if _, ok := s[key]; ok {
		return
	}
	if fold(b) < fold(a) {
		a, b = b, a
	}
	s[key] = Edge{A: a, B: b}
}

// Has reports whether the undirected edge (a, b) is in the set.
func (s EdgeSet) Has(a, b string) bool {
	_, ok := s[edgeKey(a, b)]
	return ok
}

// Edges returns the set's contents as a slice, in no particular order,
// with the casing each edge was first added in.
func (s EdgeSet) Edges() []Edge {
	out := make([]Edge, 0, len(s))
	for _, e := range s {
		out = append(out, e)
	}
	return out
}

// Connected reports whether start and target are linked by a chain of
// edges within the given set alone. It is a pure function of its
// arguments: the full graph is never consulted. Names are compared
// case-insensitively.
func Connected(edges EdgeSet, start, target string) bool {
	from, to := fold(start), fold(target)
	if from == to {
		return true
	}

	adj := make(map[string][]string, len(edges)*2)
	for e := range edges {
		a, b := fold(e.A), fold(e.B)
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}

	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if visited[next] {
				continue
			}
			if next == to {
				return true
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return false
}
