package registry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/toolsascode/revmig/internal/revision"
)

// Chain is a validated, linearly ordered revision set. Position 0 is the root.
type Chain struct {
	order []*revision.Revision
	index map[string]int
}

// Load validates that revs form a single acyclic chain with exactly one root
// and no branches, and returns it in apply order. An empty set loads into an
// empty chain.
func Load(revs []*revision.Revision) (*Chain, error) {
	byID := make(map[string]*revision.Revision, len(revs))
	for _, rev := range revs {
		if err := checkID(rev); err != nil {
			return nil, err
		}
		if _, exists := byID[rev.ID]; exists {
			return nil, newGraphError(KindDuplicateID, []string{rev.ID}, "revision %s is defined more than once", rev.ID)
		}
		byID[rev.ID] = rev
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	// Sorted iteration keeps error messages deterministic
	sort.Strings(ids)

	for _, id := range ids {
		rev := byID[id]
		if rev.Parent != "" {
			if _, ok := byID[rev.Parent]; !ok {
				return nil, newGraphError(KindUnknownParent, []string{id, rev.Parent},
					"revision %s revises unknown revision %s", id, rev.Parent)
			}
		}
	}

	if cyclePath := detectCycle(byID, ids); len(cyclePath) > 0 {
		return nil, newGraphError(KindCycle, cyclePath, "circular revision chain detected: %s", strings.Join(cyclePath, " -> "))
	}

	var roots []string
	children := make(map[string][]string)
	for _, id := range ids {
		rev := byID[id]
		if rev.Parent == "" {
			roots = append(roots, id)
			continue
		}
		children[rev.Parent] = append(children[rev.Parent], id)
	}

	if len(roots) > 1 {
		return nil, newGraphError(KindMultipleRoots, roots, "multiple root revisions: %s", strings.Join(roots, ", "))
	}
	for _, parent := range ids {
		if kids := children[parent]; len(kids) > 1 {
			return nil, newGraphError(KindMultipleHeads, kids,
				"revisions %s all revise %s; the chain has multiple heads", strings.Join(kids, ", "), parent)
		}
	}

	chain := &Chain{index: make(map[string]int, len(byID))}
	if len(byID) == 0 {
		return chain, nil
	}
	if len(roots) == 0 {
		return nil, newGraphError(KindNoRoot, nil, "no root revision (one revision must revise nothing)")
	}

	for id := roots[0]; ; {
		chain.index[id] = len(chain.order)
		chain.order = append(chain.order, byID[id])
		next := children[id]
		if len(next) == 0 {
			break
		}
		id = next[0]
	}

	// Acyclic, one root, no branches: everything is reachable from the root
	if len(chain.order) != len(byID) {
		var unreachable []string
		for _, id := range ids {
			if _, ok := chain.index[id]; !ok {
				unreachable = append(unreachable, id)
			}
		}
		return nil, newGraphError(KindCycle, unreachable, "revisions not reachable from root %s: %s", roots[0], strings.Join(unreachable, ", "))
	}

	return chain, nil
}

// checkID rejects empty ids and ids that would be read as a target keyword
func checkID(rev *revision.Revision) error {
	if rev == nil || rev.ID == "" {
		return newGraphError(KindEmptyID, nil, "revision id must not be empty")
	}
	if strings.EqualFold(rev.ID, revision.Head) || strings.EqualFold(rev.ID, revision.Base) {
		return newGraphError(KindReservedID, []string{rev.ID}, "revision id %q is reserved for a target keyword", rev.ID)
	}
	return nil
}

// detectCycle walks parent pointers with DFS path tracking and returns the
// first cycle found, in parent order
func detectCycle(byID map[string]*revision.Revision, ids []string) []string {
	visited := make(map[string]bool)

	for _, start := range ids {
		if visited[start] {
			continue
		}

		path := make(map[string]int)
		var walk []string
		for id := start; id != "" && !visited[id]; id = byID[id].Parent {
			if at, onPath := path[id]; onPath {
				cycle := append([]string{}, walk[at:]...)
				return append(cycle, id)
			}
			path[id] = len(walk)
			walk = append(walk, id)
		}
		for _, id := range walk {
			visited[id] = true
		}
	}
	return nil
}

// Len returns the number of revisions in the chain
func (c *Chain) Len() int {
	return len(c.order)
}

// Revisions returns the chain in apply order
func (c *Chain) Revisions() []*revision.Revision {
	out := make([]*revision.Revision, len(c.order))
	copy(out, c.order)
	return out
}

// Root returns the root revision, nil for an empty chain
func (c *Chain) Root() *revision.Revision {
	if len(c.order) == 0 {
		return nil
	}
	return c.order[0]
}

// Head returns the newest revision, nil for an empty chain
func (c *Chain) Head() *revision.Revision {
	if len(c.order) == 0 {
		return nil
	}
	return c.order[len(c.order)-1]
}

// Get returns a revision by exact id
func (c *Chain) Get(id string) (*revision.Revision, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.order[i], true
}

// Position returns the index of id in apply order. "" and base map to -1,
// head maps to the last index.
func (c *Chain) Position(id string) (int, error) {
	switch id {
	case "", revision.Base:
		return -1, nil
	case revision.Head:
		return len(c.order) - 1, nil
	}
	i, ok := c.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrRevisionNotFound, id)
	}
	return i, nil
}

// PathTo returns the revisions from root to target inclusive, in apply order.
// Head yields the whole chain, base (or "") yields an empty path.
func (c *Chain) PathTo(targetID string) ([]*revision.Revision, error) {
	pos, err := c.Position(targetID)
	if err != nil {
		return nil, err
	}
	return c.slice(0, pos+1), nil
}

// Diff computes what must run to move from currentID to targetID. Moving
// forward fills toApply in chain order; moving backward fills toRevert from
// current down to, but excluding, target. Equal positions yield two empty slices.
func (c *Chain) Diff(currentID, targetID string) (toApply, toRevert []*revision.Revision, err error) {
	from, err := c.Position(currentID)
	if err != nil {
		return nil, nil, err
	}
	to, err := c.Position(targetID)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case to > from:
		return c.slice(from+1, to+1), nil, nil
	case to < from:
		toRevert = c.slice(to+1, from+1)
		for i, j := 0, len(toRevert)-1; i < j; i, j = i+1, j-1 {
			toRevert[i], toRevert[j] = toRevert[j], toRevert[i]
		}
		return nil, toRevert, nil
	}
	return nil, nil, nil
}

func (c *Chain) slice(from, to int) []*revision.Revision {
	if to <= from {
		return nil
	}
	out := make([]*revision.Revision, to-from)
	copy(out, c.order[from:to])
	return out
}

// Resolve turns a user supplied reference into a revision id ("" meaning base).
// Accepted forms: head, base, a full id, a unique id prefix, +N / -N relative
// to current, and <ref>+N / <ref>-N relative to another reference.
func (c *Chain) Resolve(ref, current string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty revision reference")
	}

	if id, ok, err := c.resolveAbsolute(ref); ok || err != nil {
		return id, err
	}

	anchor, offset, relative := splitRelative(ref)
	if !relative {
		return "", fmt.Errorf("%w: %s", ErrRevisionNotFound, ref)
	}

	var base string
	if anchor == "" {
		base = current
	} else {
		id, ok, err := c.resolveAbsolute(anchor)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrRevisionNotFound, anchor)
		}
		base = id
	}

	pos, err := c.Position(base)
	if err != nil {
		return "", err
	}
	pos += offset
	if pos < -1 || pos >= len(c.order) {
		return "", fmt.Errorf("relative revision %s is out of range (chain has %d revisions)", ref, len(c.order))
	}
	if pos == -1 {
		return "", nil
	}
	return c.order[pos].ID, nil
}

// resolveAbsolute resolves keywords, exact ids and unique prefixes
func (c *Chain) resolveAbsolute(ref string) (string, bool, error) {
	switch ref {
	case revision.Base:
		return "", true, nil
	case revision.Head:
		if head := c.Head(); head != nil {
			return head.ID, true, nil
		}
		return "", true, nil
	}

	if _, ok := c.index[ref]; ok {
		return ref, true, nil
	}

	var matches []string
	for _, rev := range c.order {
		if strings.HasPrefix(rev.ID, ref) {
			matches = append(matches, rev.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", false, nil
	case 1:
		return matches[0], true, nil
	}
	return "", false, &AmbiguousRevisionError{Ref: ref, Matches: matches}
}

// splitRelative splits "<anchor>+N" / "<anchor>-N" at the last sign
func splitRelative(ref string) (anchor string, offset int, ok bool) {
	i := strings.LastIndexAny(ref, "+-")
	if i < 0 || i == len(ref)-1 {
		return "", 0, false
	}
	n, err := strconv.Atoi(ref[i+1:])
	if err != nil || n < 0 {
		return "", 0, false
	}
	if ref[i] == '-' {
		n = -n
	}
	return ref[:i], n, true
}
