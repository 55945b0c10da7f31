// Package graph holds the in-memory connection graph: people keyed by
// name, undirected adjacency built from a flat edge list, and the
// search operations the game runs on top of it.
//
// A Graph is immutable after Build. When the underlying connection
// data changes, callers rebuild the graph wholesale and swap it in.
package graph

import "strings"

// Edge is an unordered pair of person names. An edge between A and B
// implies adjacency in both directions.
type Edge struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Graph maps each person to the set of directly connected people.
// Names are matched case-insensitively; the canonical key keeps the
// casing of the first occurrence for display.
type Graph struct {
	canonical map[string]string   // folded name -> display name
	neighbors map[string][]string // display name -> neighbors, insertion order
	adjacent  map[string]map[string]bool
	people    []string // insertion order
}

func fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Build constructs a graph from a flat list of undirected edges.
// Duplicate edges, self edges, and edges with a blank endpoint are
// ignored. Neighbor order is stable for the lifetime of the graph.
func Build(edges []Edge) *Graph {
	g := &Graph{
		canonical: make(map[string]string),
		neighbors: make(map[string][]string),
		adjacent:  make(map[string]map[string]bool),
	}
	for _, e := range edges {
		// Drop self edges and blank endpoints before registering
		// anyone, so people only exist through a real edge.
		if fold(e.A) == "" || fold(e.B) == "" || fold(e.A) == fold(e.B) {
			continue
		}
		a := g.intern(e.A)
		b := g.intern(e.B)
		g.link(a, b)
		g.link(b, a)
	}
	return g
}

// intern registers a name if unseen and returns its canonical form.
func (g *Graph) intern(name string) string {
	key := fold(name)
	if display, ok := g.canonical[key]; ok {
		return display
	}
	display := strings.TrimSpace(name)
	g.canonical[key] = display
	g.adjacent[display] = make(map[string]bool)
	g.people = append(g.people, display)
	return display
}

func (g *Graph) link(from, to string) {
	if g.adjacent[from][to] {
		return
	}
	g.adjacent[from][to] = true
	g.neighbors[from] = append(g.neighbors[from], to)
}

// Resolve maps a name to its canonical display form, matching
// case-insensitively. The second result is false for unknown names.
func (g *Graph) Resolve(name string) (string, bool) {
	display, ok := g.canonical[fold(name)]
	return display, ok
}

// Has reports whether name appears in at least one edge.
func (g *Graph) Has(name string) bool {
	_, ok := g.Resolve(name)
	return ok
}

// People returns every person in the graph in first-seen order.
func (g *Graph) People() []string {
	out := make([]string, len(g.people))
	copy(out, g.people)
	return out
}

// Len returns the number of distinct people in the graph.
func (g *Graph) Len() int { return len(g.people) }

// Neighbors returns the people directly connected to name. Unknown
// names yield an empty slice, never an error.
func (g *Graph) Neighbors(name string) []string {
	display, ok := g.Resolve(name)
	if !ok {
		return nil
	}
	out := make([]string, len(g.neighbors[display]))
	copy(out, g.neighbors[display])
	return out
}

// AreConnected reports whether a and b share a direct edge.
func (g *Graph) AreConnected(a, b string) bool {
	da, okA := g.Resolve(a)
	db, okB := g.Resolve(b)
	if !okA || !okB {
		return false
	}
	return g.adjacent[da][db]
}

// Edges returns every undirected edge exactly once, endpoints in
// canonical casing.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, a := range g.people {
		for _, b := range g.neighbors[a] {
			if fold(a) < fold(b) {
				out = append(out, Edge{A: a, B: b})
			}
		}
	}
	return out
}

// EdgeSet returns the full graph as an EdgeSet, for connectivity
// checks against the whole network.
func (g *Graph) EdgeSet() EdgeSet {
	s := NewEdgeSet()
	for _, e := range g.Edges() {
		s.Add(e.A, e.B)
	}
	return s
}
