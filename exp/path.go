package exp

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a node by the child indices taken from the root. It is the
// stable addressing scheme shared by the edit log and external consumers.
type Path []int

// RootPath addresses the root of a term.
var RootPath = Path{}

func (p Path) String() string {
	if len(p) == 0 {
		return "ε"
	}
	parts := make([]string, len(p))
	for i, step := range p {
		parts[i] = strconv.Itoa(step)
	}
	return strings.Join(parts, ".")
}

// Child returns p extended by one step. The receiver is not modified.
func (p Path) Child(n int) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, n)
}

// Parent returns p without its last step, and false when p is the root.
func (p Path) Parent() (Path, bool) {
	if len(p) == 0 {
		return nil, false
	}
	return p[:len(p)-1], true
}

// Resolve walks p down from root. The boolean is false when the path walks
// off the tree.
func Resolve(root Expr, p Path) (Expr, bool) {
	node := root
	for _, step := range p {
		children := node.Children()
		if step < 0 || step >= len(children) {
			return nil, false
		}
		node = children[step]
	}
	return node, true
}

// MustResolve is Resolve for paths the caller owns; walking off the tree is a
// contract violation.
func MustResolve(root Expr, p Path) Expr {
	node, ok := Resolve(root, p)
	if !ok {
		panic(fmt.Sprintf("path %s does not resolve in %s", p, ExprString(root)))
	}
	return node
}
