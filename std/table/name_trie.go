package table

import (
	enc "github.com/named-data/ndnc/std/encoding"
	"golang.org/x/exp/slices"
)

// NameTrie is a name tree whose children are bucketed by component hash.
// Components sharing a hash are told apart by equality.
// A node without a value is a pure branch.
type NameTrie[V any] struct {
	val  V
	comp enc.Component
	key  uint64
	dep  int
	par  *NameTrie[V]
	chd  map[uint64][]*NameTrie[V]
}

// NewNameTrie creates the root node of an empty trie.
func NewNameTrie[V any]() *NameTrie[V] {
	return &NameTrie[V]{chd: map[uint64][]*NameTrie[V]{}}
}

func (n *NameTrie[V]) Value() V {
	return n.val
}

func (n *NameTrie[V]) SetValue(value V) {
	n.val = value
}

// Depth is the number of components from the root to this node.
func (n *NameTrie[V]) Depth() int {
	return n.dep
}

// Parent returns the parent node, or nil for the root.
func (n *NameTrie[V]) Parent() *NameTrie[V] {
	return n.par
}

func (n *NameTrie[V]) HasChildren() bool {
	return len(n.chd) > 0
}

func (n *NameTrie[V]) child(c enc.Component) *NameTrie[V] {
	for _, ch := range n.chd[c.Hash()] {
		if ch.comp.Equal(c) {
			return ch
		}
	}
	return nil
}

// ExactMatch returns the node for name, or nil if it does not exist.
func (n *NameTrie[V]) ExactMatch(name enc.Name) *NameTrie[V] {
	cur := n
	for _, c := range name[n.dep:] {
		cur = cur.child(c)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// PrefixMatch returns the deepest existing node on the path of name.
// The result is never nil.
func (n *NameTrie[V]) PrefixMatch(name enc.Name) *NameTrie[V] {
	cur := n
	for _, c := range name[n.dep:] {
		next := cur.child(c)
		if next == nil {
			break
		}
		cur = next
	}
	return cur
}

// MatchAlways returns the node for name, creating missing nodes on the way.
func (n *NameTrie[V]) MatchAlways(name enc.Name) *NameTrie[V] {
	cur := n.PrefixMatch(name)
	for _, c := range name[cur.dep:] {
		key := c.Hash()
		next := &NameTrie[V]{
			comp: c.Clone(),
			key:  key,
			dep:  cur.dep + 1,
			par:  cur,
			chd:  map[uint64][]*NameTrie[V]{},
		}
		cur.chd[key] = append(cur.chd[key], next)
		cur = next
	}
	return cur
}

// Prune removes this node if it has no children, then every ancestor
// left without children. The root is never removed.
func (n *NameTrie[V]) Prune() {
	n.PruneIf(func(V) bool { return true })
}

// PruneIf works like Prune but only removes nodes whose value satisfies pred.
func (n *NameTrie[V]) PruneIf(pred func(V) bool) {
	for cur := n; cur.par != nil && len(cur.chd) == 0 && pred(cur.val); cur = cur.par {
		cur.par.detach(cur)
	}
}

func (n *NameTrie[V]) detach(ch *NameTrie[V]) {
	bucket := slices.DeleteFunc(n.chd[ch.key], func(x *NameTrie[V]) bool { return x == ch })
	if len(bucket) == 0 {
		delete(n.chd, ch.key)
	} else {
		n.chd[ch.key] = bucket
	}
}
