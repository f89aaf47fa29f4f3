package statics

import (
	"encoding/binary"
	"hash/fnv"
	"sort"

	"github.com/benbjohnson/immutable"
	"github.com/lacuna-lang/lacuna/exp"
)

// Env is the typing environment: the variables in scope at a point in the
// term, each with its type and the node that binds it. It is persistent, so
// a HoleContext can close over it and stay valid across later edits.
type Env struct {
	types   *immutable.Map[string, exp.Type]
	binders *immutable.Map[string, exp.NodeID]
}

func NewEnv() Env {
	return Env{
		types:   immutable.NewMap[string, exp.Type](immutable.NewHasher("")),
		binders: immutable.NewMap[string, exp.NodeID](immutable.NewHasher("")),
	}
}

// Bind returns a new Env with name bound to typ by the node binder.
func (e Env) Bind(name string, typ exp.Type, binder exp.NodeID) Env {
	return Env{
		types:   e.types.Set(name, typ),
		binders: e.binders.Set(name, binder),
	}
}

func (e Env) Lookup(name string) (exp.Type, bool) {
	return e.types.Get(name)
}

// Binder returns the NodeID of the binder for name.
func (e Env) Binder(name string) (exp.NodeID, bool) {
	return e.binders.Get(name)
}

func (e Env) Len() int {
	return e.types.Len()
}

// Names returns the bound variable names in sorted order.
func (e Env) Names() []string {
	names := make([]string, 0, e.types.Len())
	itr := e.types.Iterator()
	for !itr.Done() {
		name, _, _ := itr.Next()
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fingerprint hashes the visible bindings. Two environments with the same
// fingerprint assign the same types to the same names via the same binders,
// which is the reuse condition of the retype cache.
func (e Env) Fingerprint() uint64 {
	h := fnv.New64a()
	for _, name := range e.Names() {
		typ, _ := e.types.Get(name)
		binder, _ := e.binders.Get(name)
		_, _ = h.Write([]byte(name))
		var arr []byte
		arr = binary.LittleEndian.AppendUint64(arr, typ.Hash())
		arr = binary.LittleEndian.AppendUint64(arr, uint64(binder))
		_, _ = h.Write(arr)
	}
	return h.Sum64()
}

// HoleContext is the record a hole closes over: the type its position
// expects, and the variables in scope there. It is captured when a checking
// pass reaches the hole, and is immutable until an edit replaces the hole.
type HoleContext struct {
	Expected exp.Type
	Bound    Env
	Source   exp.NodeID
}
