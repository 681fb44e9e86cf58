package recipe

import (
	"fmt"
	"slices"
	"strings"
)

// Role tells how a dependency is used.
type Role int

const (
	// Runtime dependencies are linked into the package and propagate to consumers.
	Runtime Role = iota
	// Test dependencies are only needed to build and run the package's tests.
	Test
	// Tool dependencies are executables used during the build.
	Tool
)

func (r Role) String() string {
	switch r {
	case Runtime:
		return "runtime"
	case Test:
		return "test"
	case Tool:
		return "tool"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Requirement is a declared dependency: a package name, a version range or
// pinned version, and a role.
type Requirement struct {
	Name  string
	Range string
	Role  Role
}

// Ref returns the reference form "name/range".
func (r Requirement) Ref() string {
	return r.Name + "/" + r.Range
}

func (r Requirement) String() string {
	return r.Ref() + " (" + r.Role.String() + ")"
}

// ParseRequirement parses a reference such as "sqlite3/[>=3.8]" or
// "zlib/1.3.1".
func ParseRequirement(ref string, role Role) (Requirement, error) {
	name, rng, ok := strings.Cut(strings.TrimSpace(ref), "/")
	if !ok || name == "" || rng == "" {
		return Requirement{}, fmt.Errorf("invalid reference %q: expected name/version", ref)
	}
	return Requirement{Name: name, Range: rng, Role: role}, nil
}

// Requirements collects the dependencies declared by a recipe's OnRequire
// hook. Declarations keep their order and are deduplicated by name.
type Requirements struct {
	reqs []Requirement
	errs []error
}

// Requires declares a runtime dependency.
func (p *Requirements) Requires(ref string) {
	p.add(ref, Runtime)
}

// TestRequires declares a dependency used only by the package's tests.
func (p *Requirements) TestRequires(ref string) {
	p.add(ref, Test)
}

// ToolRequires declares a build tool dependency.
func (p *Requirements) ToolRequires(ref string) {
	p.add(ref, Tool)
}

func (p *Requirements) add(ref string, role Role) {
	req, err := ParseRequirement(ref, role)
	if err != nil {
		p.errs = append(p.errs, err)
		return
	}
	idx := slices.IndexFunc(p.reqs, func(r Requirement) bool {
		return r.Name == req.Name
	})
	if idx < 0 {
		p.reqs = append(p.reqs, req)
		return
	}
	// a runtime declaration wins over test or tool ones
	if req.Role == Runtime && p.reqs[idx].Role != Runtime {
		p.reqs[idx] = req
	}
}

// List returns the declared requirements in declaration order.
func (p *Requirements) List() []Requirement {
	return slices.Clone(p.reqs)
}

// ByRole returns the requirements with the given role.
func (p *Requirements) ByRole(role Role) []Requirement {
	var out []Requirement
	for _, r := range p.reqs {
		if r.Role == role {
			out = append(out, r)
		}
	}
	return out
}

// Errs returns the reference parse errors.
func (p *Requirements) Errs() []error {
	return p.errs
}
