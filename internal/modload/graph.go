package modload

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fandjelo/cpkg/pkgs/mod/module"
	"github.com/fandjelo/cpkg/pkgs/mod/versions"
	"github.com/fandjelo/cpkg/pkgs/mod/vrange"
	"github.com/fandjelo/cpkg/recipe"
)

// ErrVersionConflict is returned when two requirements of the same package
// cannot be satisfied by one version.
var ErrVersionConflict = errors.New("version conflict")

// Node is a resolved dependency.
type Node struct {
	Ref  module.Version
	Role recipe.Role
	// Direct is set for dependencies declared by the root recipe.
	Direct bool
	// Deps are the names of the node's own runtime dependencies.
	Deps []string
}

// Graph is the resolved dependency graph of an instance.
type Graph struct {
	Root  module.Version
	Nodes []*Node // in discovery order

	byName map[string]*Node
}

// Node returns the resolved dependency with the given name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// Direct returns the dependencies declared by the root recipe.
func (g *Graph) Direct() []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Direct {
			out = append(out, n)
		}
	}
	return out
}

// ByRole returns the nodes with the given role.
func (g *Graph) ByRole(role recipe.Role) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Role == role {
			out = append(out, n)
		}
	}
	return out
}

// Order returns the nodes so that every node follows its dependencies.
func (g *Graph) Order() []*Node {
	var out []*Node
	seen := map[string]bool{}
	var visit func(n *Node)
	visit = func(n *Node) {
		if seen[n.Ref.Name] {
			return
		}
		seen[n.Ref.Name] = true
		for _, dep := range n.Deps {
			if d, ok := g.byName[dep]; ok {
				visit(d)
			}
		}
		out = append(out, n)
	}
	for _, n := range g.Nodes {
		visit(n)
	}
	return out
}

// Resolve maps every requirement of inst, and transitively the runtime
// dependencies recorded in the index, to the highest version satisfying its
// range. A pinned version absent from the index is taken as is.
func Resolve(inst *Instance, idx versions.Index) (*Graph, error) {
	g := &Graph{Root: inst.Ref, byName: map[string]*Node{}}

	type pending struct {
		name, rng string
		role      recipe.Role
		direct    bool
		from      string
	}
	queue := make([]pending, 0, len(inst.Requires))
	for _, req := range inst.Requires {
		queue = append(queue, pending{name: req.Name, rng: req.Range, role: req.Role, direct: true, from: inst.Ref.String()})
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if p.name == inst.Ref.Name {
			return nil, fmt.Errorf("%s: depends on itself through %s", inst.Ref, p.from)
		}
		if n, ok := g.byName[p.name]; ok {
			if err := checkCompatible(n, p.rng, p.from); err != nil {
				return nil, err
			}
			if p.role == recipe.Runtime && n.Role != recipe.Runtime {
				n.Role = recipe.Runtime
			}
			n.Direct = n.Direct || p.direct
			continue
		}

		ver, err := resolveVersion(idx, p.name, p.rng)
		if err != nil {
			return nil, fmt.Errorf("%s requires %s/%s: %w", p.from, p.name, p.rng, err)
		}
		n := &Node{
			Ref:    module.Version{Name: p.name, Version: ver},
			Role:   p.role,
			Direct: p.direct,
		}
		for _, dep := range idx.Deps(p.name, ver) {
			n.Deps = append(n.Deps, dep.Name)
			// dependencies of test and tool packages share their role
			queue = append(queue, pending{name: dep.Name, rng: dep.Range, role: p.role, from: n.Ref.String()})
		}
		g.Nodes = append(g.Nodes, n)
		g.byName[p.name] = n
	}
	return g, nil
}

func resolveVersion(idx versions.Index, name, rng string) (string, error) {
	r, err := vrange.Parse(rng)
	if err != nil {
		return "", err
	}
	ver, err := idx.Resolve(name, rng)
	if err != nil && r.IsPin() && errors.Is(err, versions.ErrNoMatchingVersion) {
		if _, known := idx[name]; !known {
			return r.String(), nil
		}
	}
	return ver, err
}

func checkCompatible(n *Node, rng, from string) error {
	r, err := vrange.Parse(rng)
	if err != nil {
		return err
	}
	if !r.Contains(n.Ref.Version) {
		return fmt.Errorf("%w: %s requires %s/%s but %s was selected", ErrVersionConflict, from, n.Ref.Name, rng, n.Ref)
	}
	return nil
}

// RuntimeRefs returns the sorted references of the runtime dependencies.
func (g *Graph) RuntimeRefs() []string {
	var refs []string
	for _, n := range g.ByRole(recipe.Runtime) {
		refs = append(refs, n.Ref.String())
	}
	slices.Sort(refs)
	return refs
}
