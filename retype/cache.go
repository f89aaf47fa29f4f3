// Package retype implements the incremental re-typing layer: a
// dependency-tracked arena of per-node typing outcomes sitting above the
// statics package. After an edit, only the nodes the edit can have affected
// are re-analyzed; the arena is then indistinguishable from a from-scratch
// analysis of the new tree.
//
// Invalidation is explicit dirty-bit propagation over the arena, not
// observer callbacks, so it can be audited and tested in isolation.
package retype

import (
	"sort"

	"github.com/hashicorp/go-set/v3"
	xtgoset "github.com/xtgo/set"
	"github.com/lacuna-lang/lacuna/exp"
	"github.com/lacuna-lang/lacuna/internal/log"
	"github.com/lacuna-lang/lacuna/statics"
)

var logger = log.DefaultLogger.With("section", "retype")

type entry struct {
	typ      exp.Type
	expected exp.Type // nil in synthesis positions
	envPrint uint64
	parent   exp.NodeID
	children []exp.NodeID
	reads    []exp.NodeID
	hole     *statics.HoleContext
}

// Cache is the incremental retype cache. It is owned by the single
// edit-processing loop; nothing else may touch the dirty set.
type Cache struct {
	rootWant exp.Type
	arena    map[exp.NodeID]entry
	// readers maps a binder node to the nodes whose type read its binding.
	readers map[exp.NodeID]*set.Set[exp.NodeID]
	// dirty is kept as a sorted, deduplicated id slice.
	dirty []exp.NodeID
}

func New(rootWant exp.Type) *Cache {
	if rootWant == nil {
		rootWant = exp.Hole
	}
	return &Cache{
		rootWant: rootWant,
		arena:    make(map[exp.NodeID]entry),
		readers:  make(map[exp.NodeID]*set.Set[exp.NodeID]),
	}
}

// TypeOf returns the cached type of the node, or the unknown type for nodes
// outside the current tree.
func (c *Cache) TypeOf(id exp.NodeID) exp.Type {
	if e, ok := c.arena[id]; ok {
		return e.typ
	}
	return exp.Hole
}

// ExpectedOf returns the cached contextual type of the node; the unknown
// type stands in for synthesis positions.
func (c *Cache) ExpectedOf(id exp.NodeID) exp.Type {
	if e, ok := c.arena[id]; ok && e.expected != nil {
		return e.expected
	}
	return exp.Hole
}

// HoleContextOf returns the captured context for a hole node.
func (c *Cache) HoleContextOf(id exp.NodeID) (statics.HoleContext, bool) {
	if e, ok := c.arena[id]; ok && e.hole != nil {
		return *e.hole, true
	}
	return statics.HoleContext{}, false
}

// Snapshot copies the node-to-type assignment, for equivalence checks
// against a from-scratch analysis.
func (c *Cache) Snapshot() map[exp.NodeID]exp.Type {
	types := make(map[exp.NodeID]exp.Type, len(c.arena))
	for id, e := range c.arena {
		types[id] = e.typ
	}
	return types
}

// DirtyIDs returns the nodes currently marked for re-analysis, sorted.
func (c *Cache) DirtyIDs() []exp.NodeID {
	out := make([]exp.NodeID, len(c.dirty))
	copy(out, c.dirty)
	return out
}

// Seed fills the cache from a full analysis of root. Use it once per
// editing session; afterwards Invalidate and Recheck keep it current.
func (c *Cache) Seed(root exp.Expr) {
	res := statics.Analyze(root, c.rootWant)
	c.rebuild(root, res, nil)
	c.dirty = nil
}

// Invalidate marks the node at path in root, all its ancestors, and every
// reader of a dirtied binder as needing re-analysis. root is the tree as it
// stands after the edit.
func (c *Cache) Invalidate(root exp.Expr, path exp.Path) {
	marked := []exp.NodeID{root.ID()}
	node := root
	for _, stepIdx := range path {
		children := node.Children()
		if stepIdx < 0 || stepIdx >= len(children) {
			break
		}
		node = children[stepIdx]
		marked = append(marked, node.ID())
	}
	c.markDirty(marked)

	// a dirty binder invalidates every occurrence that read it, and re-typing
	// those occurrences dirties their own ancestors in turn
	for changed := true; changed; {
		changed = false
		for _, id := range c.dirty {
			rs, ok := c.readers[id]
			if !ok {
				continue
			}
			for reader := range rs.Items() {
				if c.markWithAncestors(reader) {
					changed = true
				}
			}
		}
	}
	logger.Debug("invalidated", "path", path.String(), "dirtyCount", len(c.dirty))
}

// Recheck re-analyzes root, reusing every cached subtree that is not dirty
// and is being visited with the same contextual type and environment as
// before. The resulting cache state equals a from-scratch Seed of root.
func (c *Cache) Recheck(root exp.Expr) {
	res := statics.AnalyzeWith(root, c.rootWant, (*reuser)(c))
	c.rebuild(root, res, res.Reused)
	c.dirty = nil
}

// reuser implements statics.Reuser over the cache arena.
type reuser Cache

func (r *reuser) Reuse(e exp.Expr, env statics.Env, want exp.Type) (exp.Type, bool) {
	c := (*Cache)(r)
	cached, ok := c.arena[e.ID()]
	if !ok || c.isDirty(e.ID()) {
		return nil, false
	}
	if !contextualEqual(cached.expected, want) {
		return nil, false
	}
	if cached.envPrint != env.Fingerprint() {
		return nil, false
	}
	return cached.typ, true
}

func (c *Cache) isDirty(id exp.NodeID) bool {
	i := sort.Search(len(c.dirty), func(i int) bool { return c.dirty[i] >= id })
	return i < len(c.dirty) && c.dirty[i] == id
}

func (c *Cache) markDirty(ids []exp.NodeID) {
	merged := idSlice(append(c.dirty, ids...))
	sort.Sort(merged)
	c.dirty = merged[:xtgoset.Uniq(merged)]
}

// markWithAncestors dirties id and its recorded ancestors; it reports
// whether anything new was marked.
func (c *Cache) markWithAncestors(id exp.NodeID) bool {
	var ids []exp.NodeID
	for cur := id; ; {
		if c.isDirty(cur) {
			break
		}
		ids = append(ids, cur)
		e, ok := c.arena[cur]
		if !ok || e.parent == exp.NoID {
			break
		}
		cur = e.parent
	}
	if len(ids) == 0 {
		return false
	}
	c.markDirty(ids)
	return true
}

// rebuild replaces the arena wholesale by walking the current tree: nodes
// analyzed in res get fresh entries, nodes inside reused subtrees keep their
// previous ones. Stale entries for nodes no longer in the tree fall away,
// so no state leaks between edits.
func (c *Cache) rebuild(root exp.Expr, res *statics.Result, reused map[exp.NodeID]bool) {
	old := c.arena
	c.arena = make(map[exp.NodeID]entry, len(old))
	c.readers = make(map[exp.NodeID]*set.Set[exp.NodeID])
	c.copyTree(root, exp.NoID, res, reused, old, false)
}

func (c *Cache) copyTree(e exp.Expr, parent exp.NodeID, res *statics.Result, reused map[exp.NodeID]bool, old map[exp.NodeID]entry, inReused bool) {
	id := e.ID()
	keep := inReused || (reused != nil && reused[id])
	var ent entry
	if keep {
		prev, ok := old[id]
		if !ok {
			// a reused subtree must have been cached before
			panic("reused node missing from the previous arena")
		}
		ent = prev
		ent.parent = parent
	} else {
		children := e.Children()
		childIDs := make([]exp.NodeID, len(children))
		for i, child := range children {
			childIDs[i] = child.ID()
		}
		ent = entry{
			typ:      res.Types[id],
			expected: res.Expected[id],
			envPrint: res.Envs[id].Fingerprint(),
			parent:   parent,
			children: childIDs,
			reads:    res.Reads[id],
		}
		if holeCtx, ok := res.Holes[id]; ok {
			ent.hole = &holeCtx
		}
	}
	c.arena[id] = ent
	for _, binder := range ent.reads {
		rs, ok := c.readers[binder]
		if !ok {
			rs = set.New[exp.NodeID](1)
			c.readers[binder] = rs
		}
		rs.Insert(id)
	}
	for _, child := range e.Children() {
		c.copyTree(child, id, res, reused, old, keep)
	}
}

func contextualEqual(a, b exp.Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// idSlice orders NodeIDs for the sorted-set operations on the dirty slice.
type idSlice []exp.NodeID

func (s idSlice) Len() int           { return len(s) }
func (s idSlice) Less(i, j int) bool { return s[i] < s[j] }
func (s idSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
