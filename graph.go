package plinth

// DependencyGraph records which definitions a definition's constructor
// pulls in by type.
type DependencyGraph struct {
	nodes map[string]*node
	order []string // Preserve definition order
}

type node struct {
	name         string
	dependencies []string
}

// NewDependencyGraph creates a new dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*node),
		order: make([]string, 0),
	}
}

// AddNode adds a node with its dependencies.
// Nodes are processed in the order they are added when no dependencies exist.
func (g *DependencyGraph) AddNode(name string, dependencies []string) {
	if _, ok := g.nodes[name]; !ok {
		g.order = append(g.order, name)
	}

	g.nodes[name] = &node{
		name:         name,
		dependencies: dependencies,
	}
}

// GetDependencies returns the dependency names for a node.
func (g *DependencyGraph) GetDependencies(name string) []string {
	if node, ok := g.nodes[name]; ok {
		return node.dependencies
	}

	return nil
}

// HasNode checks if a node exists in the graph.
func (g *DependencyGraph) HasNode(name string) bool {
	_, ok := g.nodes[name]

	return ok
}

// TopologicalSort returns nodes in dependency order.
// Nodes without dependencies keep their definition order.
// Returns error if circular dependency detected.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	visited := make(map[string]bool)
	result := make([]string, 0, len(g.nodes))

	for _, name := range g.order {
		if err := g.visit(name, visited, nil, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// visit performs DFS traversal. path holds the names currently being visited.
func (g *DependencyGraph) visit(name string, visited map[string]bool, path []string, result *[]string) error {
	if visited[name] {
		return nil
	}

	for i, p := range path {
		if p == name {
			cycle := append(append([]string{}, path[i:]...), name)
			return ErrCircularDependency(cycle)
		}
	}

	node := g.nodes[name]
	if node == nil {
		// Not a definition; resolved through a binding or Set at runtime.
		return nil
	}

	path = append(path, name)

	for _, dep := range node.dependencies {
		if err := g.visit(dep, visited, path, result); err != nil {
			return err
		}
	}

	visited[name] = true
	*result = append(*result, name)

	return nil
}

// Graph returns the dependency graph of every definition, derived from
// the component-typed parameters of each constructor.
func (c *Catalog) Graph() *DependencyGraph {
	g := NewDependencyGraph()

	for _, name := range c.Names() {
		def := c.definitions[name]

		var deps []string
		for _, p := range def.sig.params {
			if p.component {
				deps = append(deps, p.depName)
			}
		}

		g.AddNode(name, deps)
	}

	return g
}
