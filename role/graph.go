package role

import (
	"sort"
	"sync"
)

// Graph holds roles, their direct permission grants, and the child-to-parents
// inheritance relation. All methods are safe for concurrent use.
type Graph struct {
	mu         sync.RWMutex
	grants     map[string]map[string]struct{}
	parents    map[string][]string
	generation uint64
	onMutate   func()
}

// NewGraph creates an empty role graph. onMutate, if non-nil, runs under the
// graph's write lock after every mutation; it is the cache invalidation hook.
func NewGraph(onMutate func()) *Graph {
	return &Graph{
		grants:   make(map[string]map[string]struct{}),
		parents:  make(map[string][]string),
		onMutate: onMutate,
	}
}

// Grant adds resource:operation to the role's direct permission set, creating
// the role implicitly if it does not exist.
func (g *Graph) Grant(roleName, resource, operation string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	set, ok := g.grants[roleName]
	if !ok {
		set = make(map[string]struct{})
		g.grants[roleName] = set
	}
	set[Permission(resource, operation)] = struct{}{}
	g.mutated()
}

// Revoke removes resource:operation from the role's direct permission set.
// Returns true if the grant was present.
func (g *Graph) Revoke(roleName, resource, operation string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	set, ok := g.grants[roleName]
	if !ok {
		g.mutated()
		return false
	}

	perm := Permission(resource, operation)
	_, present := set[perm]
	delete(set, perm)
	g.mutated()
	return present
}

// SetParents declares the role's inheritance edges, replacing any previous
// declaration. Acyclicity is not validated; resolution tolerates cycles.
func (g *Graph) SetParents(roleName string, parentRoles []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.grants[roleName]; !ok {
		g.grants[roleName] = make(map[string]struct{})
	}
	g.parents[roleName] = append([]string(nil), parentRoles...)
	g.mutated()
}

// Exists reports whether the role has been declared.
func (g *Graph) Exists(roleName string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.grants[roleName]
	return ok
}

// Generation returns the mutation counter. A reader records it before
// resolving and hands it to the permission cache, which rejects the write if
// the graph moved underneath the resolution.
func (g *Graph) Generation() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.generation
}

// Resolve reports whether the role, or any transitive parent, grants the
// operation on the resource. The ALL operation requires every concrete
// operation to resolve individually. Terminates on cyclic hierarchies.
func (g *Graph) Resolve(roleName, resource, operation string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.resolveLocked(roleName, resource, operation)
}

// ResolveAny reports whether any of the roles resolves the operation on the
// resource. For ALL, each concrete operation must be resolved by at least one
// of the roles; different operations may come from different roles.
func (g *Graph) ResolveAny(roleNames []string, resource, operation string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if op, ok := ParseOperation(operation); ok && op == OpAll {
		for _, concrete := range Concrete {
			if !g.anyResolvesLocked(roleNames, resource, concrete.String()) {
				return false
			}
		}
		return true
	}
	return g.anyResolvesLocked(roleNames, resource, operation)
}

// Snapshot returns the union of direct and inherited permission strings for
// the given roles, sorted. Used to freeze a permission set at authentication
// or token issuance time.
func (g *Graph) Snapshot(roleNames []string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	union := make(map[string]struct{})
	visited := make(map[string]struct{})
	for _, name := range roleNames {
		g.collectLocked(name, union, visited)
	}

	out := make([]string, 0, len(union))
	for perm := range union {
		out = append(out, perm)
	}
	sort.Strings(out)
	return out
}

func (g *Graph) anyResolvesLocked(roleNames []string, resource, operation string) bool {
	for _, name := range roleNames {
		if g.resolveLocked(name, resource, operation) {
			return true
		}
	}
	return false
}

func (g *Graph) resolveLocked(roleName, resource, operation string) bool {
	if op, ok := ParseOperation(operation); ok && op == OpAll {
		for _, concrete := range Concrete {
			if !g.resolveLocked(roleName, resource, concrete.String()) {
				return false
			}
		}
		return true
	}

	perm := Permission(resource, operation)
	visited := make(map[string]struct{})
	stack := []string{roleName}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[current]; seen {
			// Revisit on a cycle carries no new information.
			continue
		}
		visited[current] = struct{}{}

		if set, ok := g.grants[current]; ok {
			if _, granted := set[perm]; granted {
				return true
			}
		}
		stack = append(stack, g.parents[current]...)
	}
	return false
}

func (g *Graph) collectLocked(roleName string, union, visited map[string]struct{}) {
	stack := []string{roleName}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}

		for perm := range g.grants[current] {
			union[perm] = struct{}{}
		}
		stack = append(stack, g.parents[current]...)
	}
}

func (g *Graph) mutated() {
	g.generation++
	if g.onMutate != nil {
		g.onMutate()
	}
}
