// Package domain contains the core domain models of the recipe tree: recipe ids, package nodes,
// the package dependency graphs and the version resolution policy.
package domain

import (
	"encoding/json"
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// PackageGraph maps recipe ids to package nodes for one recipe group.
type PackageGraph struct {
	group GraphGroup
	nodes map[RecipeID]*PackageNode
}

// NewPackageGraph creates a new empty graph for the given group.
func NewPackageGraph(group GraphGroup) *PackageGraph {
	return &PackageGraph{
		group: group,
		nodes: make(map[RecipeID]*PackageNode),
	}
}

// Group returns the recipe group the graph was built for.
func (g *PackageGraph) Group() GraphGroup {
	return g.group
}

// Len returns the number of nodes.
func (g *PackageGraph) Len() int {
	return len(g.nodes)
}

// Has reports whether id has a node.
func (g *PackageGraph) Has(id RecipeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node for id.
func (g *PackageGraph) Node(id RecipeID) (*PackageNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Add adds a node to the graph.
// It returns an error if a node with the same id already exists.
func (g *PackageGraph) Add(n *PackageNode) error {
	if _, exists := g.nodes[n.ID]; exists {
		return zerr.With(zerr.Wrap(ErrPackageAlreadyExists, "cannot add package"), "package", n.ID.String())
	}
	g.nodes[n.ID] = n
	return nil
}

// LinkParent records parent as a dependent of dep. Dangling ids are ignored.
func (g *PackageGraph) LinkParent(dep, parent RecipeID) {
	if n, ok := g.nodes[dep]; ok {
		n.AddParent(parent)
	}
}

// SetVersionInfo replaces the version information of an existing node.
// Edges are never touched.
func (g *PackageGraph) SetVersionInfo(id RecipeID, info VersionInfo) error {
	n, ok := g.nodes[id]
	if !ok {
		return zerr.With(zerr.Wrap(ErrPackageNotFound, "cannot set version info"), "package", id.String())
	}
	n.Info = info
	return nil
}

// IDs returns all recipe ids in sorted order.
func (g *PackageGraph) IDs() []RecipeID {
	ids := make([]RecipeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Nodes returns an iterator over the nodes in id order.
func (g *PackageGraph) Nodes() iter.Seq[*PackageNode] {
	return func(yield func(*PackageNode) bool) {
		for _, id := range g.IDs() {
			if !yield(g.nodes[id]) {
				return
			}
		}
	}
}

// Validate checks the whole graph for dependency cycles with a depth-first search.
// Dependencies without a node are skipped.
func (g *PackageGraph) Validate() error {
	visited := make(map[RecipeID]int) // 0: unvisited, 1: visiting, 2: visited
	var path []RecipeID

	var visit func(u RecipeID) error
	visit = func(u RecipeID) error {
		visited[u] = 1
		path = append(path, u)

		for _, dep := range g.nodes[u].Dependencies {
			if _, exists := g.nodes[dep]; !exists {
				continue
			}
			if visited[dep] == 1 {
				return buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		return nil
	}

	for _, id := range g.IDs() {
		if visited[id] == 0 {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []RecipeID, dep RecipeID) error {
	start := slices.Index(path, dep)
	parts := make([]string, 0, len(path)-start+1)
	for _, id := range path[start:] {
		parts = append(parts, id.String())
	}
	parts = append(parts, dep.String())
	return zerr.With(zerr.Wrap(ErrCycleDetected, "dependency graph is not acyclic"), "cycle", strings.Join(parts, " -> "))
}

type graphJSON struct {
	Group GraphGroup                `json:"group"`
	Nodes map[RecipeID]*PackageNode `json:"nodes"`
}

// MarshalJSON implements json.Marshaler.
func (g *PackageGraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(graphJSON{Group: g.group, Nodes: g.nodes})
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *PackageGraph) UnmarshalJSON(data []byte) error {
	var raw graphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.group = raw.Group
	g.nodes = raw.Nodes
	if g.nodes == nil {
		g.nodes = make(map[RecipeID]*PackageNode)
	}
	return nil
}

// Graphs is a logical union of independently built graphs.
// Lookups merge the edge lists of every graph that contains an id.
type Graphs []*PackageGraph

// Node returns the first node found for id, in graph order.
func (gs Graphs) Node(id RecipeID) (*PackageNode, bool) {
	for _, g := range gs {
		if g == nil {
			continue
		}
		if n, ok := g.Node(id); ok {
			return n, true
		}
	}
	return nil, false
}

// Has reports whether any graph contains id.
func (gs Graphs) Has(id RecipeID) bool {
	_, ok := gs.Node(id)
	return ok
}

// Dependencies returns the union of the direct dependencies of id, sorted.
func (gs Graphs) Dependencies(id RecipeID) []RecipeID {
	return gs.collect(id, func(n *PackageNode) []RecipeID { return n.Dependencies })
}

// Parents returns the union of the direct parents of id, sorted.
func (gs Graphs) Parents(id RecipeID) []RecipeID {
	return gs.collect(id, func(n *PackageNode) []RecipeID { return n.Parents })
}

func (gs Graphs) collect(id RecipeID, edges func(*PackageNode) []RecipeID) []RecipeID {
	var out []RecipeID
	for _, g := range gs {
		if g == nil {
			continue
		}
		if n, ok := g.Node(id); ok {
			out = append(out, edges(n)...)
		}
	}
	return SortedIDs(out)
}

// TransitiveDependencies returns every id reachable from id through dependency edges.
func (gs Graphs) TransitiveDependencies(id RecipeID) []RecipeID {
	return gs.reach(id, gs.Dependencies)
}

// TransitiveParents returns every id that reaches id through dependency edges.
func (gs Graphs) TransitiveParents(id RecipeID) []RecipeID {
	return gs.reach(id, gs.Parents)
}

func (gs Graphs) reach(root RecipeID, next func(RecipeID) []RecipeID) []RecipeID {
	seen := map[RecipeID]bool{root: true}
	queue := []RecipeID{root}
	var out []RecipeID
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, n := range next(id) {
			if seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
			queue = append(queue, n)
		}
	}
	return SortedIDs(out)
}
