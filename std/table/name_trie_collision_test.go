package table

import (
	"testing"

	enc "github.com/named-data/ndnc/std/encoding"
	tu "github.com/named-data/ndnc/std/utils/testutils"
	"github.com/stretchr/testify/require"
)

// plant puts a child for comp under the hash bucket of key.
func plant[V any](n *NameTrie[V], key, comp enc.Component) *NameTrie[V] {
	h := key.Hash()
	ch := &NameTrie[V]{comp: comp, key: h, dep: n.dep + 1, par: n, chd: map[uint64][]*NameTrie[V]{}}
	n.chd[h] = append(n.chd[h], ch)
	return ch
}

func TestTrieHashCollision(t *testing.T) {
	tu.SetT(t)

	trie := NewNameTrie[int]()
	a := enc.NewGenericComponent("a")
	b := enc.NewGenericComponent("b")

	// b sits in the bucket of a, as if both hashed alike
	fake := plant(trie, a, b)
	fake.SetValue(2)

	require.Nil(t, trie.ExactMatch(enc.Name{a}))
	require.Equal(t, 0, trie.PrefixMatch(enc.Name{a, b}).Depth())

	node := trie.MatchAlways(enc.Name{a})
	node.SetValue(1)
	require.NotSame(t, fake, node)
	require.Len(t, trie.chd[a.Hash()], 2)
	require.Equal(t, 1, trie.ExactMatch(enc.Name{a}).Value())

	// pruning one node keeps the other in the bucket
	node.SetValue(0)
	node.Prune()
	require.Nil(t, trie.ExactMatch(enc.Name{a}))
	require.Len(t, trie.chd[a.Hash()], 1)
	require.Same(t, fake, trie.chd[a.Hash()][0])

	fake.Prune()
	require.False(t, trie.HasChildren())
}
