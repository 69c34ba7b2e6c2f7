package table

import (
	"cmp"
	"fmt"
	"sync"

	enc "github.com/named-data/ndnc/std/encoding"
	"github.com/named-data/ndnc/std/log"
	"github.com/named-data/ndnc/std/ndn"
	"github.com/named-data/ndnc/std/types/optional"
	"golang.org/x/exp/slices"
)

// nameList holds every entry registered under one name, in insertion order.
type nameList[V comparable] struct {
	name    enc.Name
	entries []Entry[V]
}

// InterestTable registers values against Interests or names, and finds the
// registrations satisfied by an arriving Data or name.
//
// Names are kept in scan order: fewer components first, then canonical order.
// Scanning in this order visits names by increasing specificity, so the last
// match of a scan is the longest one.
//
// Matching Data against Interests walks every name, since Interest.Matches
// may depend on selectors that are not a pure prefix test. Matching names
// only follows the trie path of the target.
//
// All methods are safe for concurrent use.
type InterestTable[V comparable] struct {
	mutex sync.RWMutex
	// names in scan order
	names []*nameList[V]
	// the same lists, indexed by name
	trie *NameTrie[*nameList[V]]
	// total number of entries
	size int
	// bound on len(names)
	highWater optional.Optional[int]
}

// NewInterestTable creates an empty, unbounded table.
func NewInterestTable[V comparable]() *InterestTable[V] {
	return &InterestTable[V]{
		names: make([]*nameList[V], 0),
		trie:  NewNameTrie[*nameList[V]](),
	}
}

func (t *InterestTable[V]) String() string {
	return "interest-table"
}

// compareScanOrder orders names by component count, then canonically.
func compareScanOrder(lhs, rhs enc.Name) int {
	if c := cmp.Compare(len(lhs), len(rhs)); c != 0 {
		return c
	}
	return lhs.Compare(rhs)
}

func isEmptyList[V comparable](l *nameList[V]) bool {
	return l == nil
}

// AddInterest registers value against interest.
// Registering the same Interest again adds a second entry.
func (t *InterestTable[V]) AddInterest(interest ndn.Interest, value V) error {
	if interest == nil {
		return fmt.Errorf("%w: nil interest", ndn.ErrInvalidArgument)
	}
	if len(interest.Name()) == 0 {
		return fmt.Errorf("%w: interest without name", ndn.ErrInvalidArgument)
	}
	t.insert(&interestEntry[V]{interest: interest, value: value})
	return nil
}

// AddName registers value against a bare name.
// Name entries only take part in name matching, never in Data matching.
func (t *InterestTable[V]) AddName(name enc.Name, value V) error {
	if len(name) == 0 {
		return fmt.Errorf("%w: empty name", ndn.ErrInvalidArgument)
	}
	t.insert(&nameEntry[V]{name: name.Clone(), value: value})
	return nil
}

func (t *InterestTable[V]) insert(entry Entry[V]) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	name := entry.Name()
	if node := t.trie.ExactMatch(name); node != nil && node.Value() != nil {
		list := node.Value()
		list.entries = append(list.entries, entry)
		t.size++
		return
	}

	if hw, ok := t.highWater.Get(); ok && len(t.names) >= hw {
		t.evict()
	}

	// the key must not alias the caller's Interest name
	list := &nameList[V]{name: name.Clone(), entries: []Entry[V]{entry}}
	idx, _ := slices.BinarySearchFunc(t.names, list.name, func(l *nameList[V], n enc.Name) int {
		return compareScanOrder(l.name, n)
	})
	t.names = slices.Insert(t.names, idx, list)
	t.trie.MatchAlways(list.name).SetValue(list)
	t.size++
}

// evict drops the name that sorts first in scan order.
// This is the shortest name, not the least recently used one.
func (t *InterestTable[V]) evict() {
	if len(t.names) == 0 {
		return
	}
	victim := t.names[0]
	log.Debug(t, "High water reached, evicting name", "name", victim.name, "entries", len(victim.entries))

	t.unlink(victim)
	t.size -= len(victim.entries)
	t.names = slices.Delete(t.names, 0, 1)
}

// unlink removes a list from the trie. The caller removes it from t.names.
func (t *InterestTable[V]) unlink(list *nameList[V]) {
	node := t.trie.ExactMatch(list.name)
	if node == nil || node.Value() != list {
		panic("[BUG] interest table trie out of sync")
	}
	node.SetValue(nil)
	node.PruneIf(isEmptyList[V])
}

// removeAt removes one entry and drops the list if it becomes empty.
func (t *InterestTable[V]) removeAt(list *nameList[V], i int) Entry[V] {
	entry := list.entries[i]
	list.entries = slices.Delete(list.entries, i, i+1)
	t.size--

	if len(list.entries) == 0 {
		t.unlink(list)
		idx, found := slices.BinarySearchFunc(t.names, list.name, func(l *nameList[V], n enc.Name) int {
			return compareScanOrder(l.name, n)
		})
		if !found {
			panic("[BUG] interest table name index out of sync")
		}
		t.names = slices.Delete(t.names, idx, idx+1)
	}
	return entry
}

// dropEmpty removes emptied lists after a scan has finished.
func (t *InterestTable[V]) dropEmpty(emptied []*nameList[V]) {
	if len(emptied) == 0 {
		return
	}
	for _, list := range emptied {
		t.unlink(list)
	}
	t.names = slices.DeleteFunc(t.names, func(l *nameList[V]) bool {
		return len(l.entries) == 0
	})
}

// lastMatch finds the first matching Interest entry of the longest name
// that has one. Scanning backwards gives the same result as keeping the
// last match of a forward scan.
func (t *InterestTable[V]) lastMatch(data ndn.Data) (*nameList[V], int) {
	if data == nil {
		return nil, -1
	}
	for i := len(t.names) - 1; i >= 0; i-- {
		list := t.names[i]
		for j, entry := range list.entries {
			if interest := entry.Interest(); interest != nil && interest.Matches(data) {
				return list, j
			}
		}
	}
	return nil, -1
}

// MatchOne returns the Interest entry with the longest name matching data.
// Name entries are never returned.
func (t *InterestTable[V]) MatchOne(data ndn.Data) (Entry[V], bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	list, i := t.lastMatch(data)
	if list == nil {
		return nil, false
	}
	return list.entries[i], true
}

// MatchValue returns the value of MatchOne.
func (t *InterestTable[V]) MatchValue(data ndn.Data) (V, bool) {
	entry, ok := t.MatchOne(data)
	if !ok {
		var zero V
		return zero, false
	}
	return entry.Value(), true
}

// MatchAll returns every Interest entry matching data, longest name first.
func (t *InterestTable[V]) MatchAll(data ndn.Data) []Entry[V] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	ret := make([]Entry[V], 0)
	if data == nil {
		return ret
	}
	for _, list := range t.names {
		for _, entry := range list.entries {
			if interest := entry.Interest(); interest != nil && interest.Matches(data) {
				ret = append(ret, entry)
			}
		}
	}
	slices.Reverse(ret)
	return ret
}

// MatchValues returns the values of MatchAll, skipping zero values.
func (t *InterestTable[V]) MatchValues(data ndn.Data) []V {
	return entryValues(t.MatchAll(data))
}

// MatchOneByName returns the first entry of the longest registered name
// that is a prefix of target. Both Interest and name entries qualify.
func (t *InterestTable[V]) MatchOneByName(target enc.Name) (Entry[V], bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if list := t.longestPrefix(target); list != nil {
		return list.entries[0], true
	}
	return nil, false
}

func (t *InterestTable[V]) longestPrefix(target enc.Name) *nameList[V] {
	for node := t.trie.PrefixMatch(target); node != nil; node = node.Parent() {
		if list := node.Value(); list != nil {
			return list
		}
	}
	return nil
}

// MatchAllByName returns every entry of every registered name that is a
// prefix of target, longest name first.
func (t *InterestTable[V]) MatchAllByName(target enc.Name) []Entry[V] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	ret := make([]Entry[V], 0)
	for node := t.trie.PrefixMatch(target); node != nil; node = node.Parent() {
		if list := node.Value(); list != nil {
			for i := len(list.entries) - 1; i >= 0; i-- {
				ret = append(ret, list.entries[i])
			}
		}
	}
	return ret
}

// MatchValuesByName returns the values of MatchAllByName, skipping zero values.
func (t *InterestTable[V]) MatchValuesByName(target enc.Name) []V {
	return entryValues(t.MatchAllByName(target))
}

// Lookup returns the entries registered under exactly name.
func (t *InterestTable[V]) Lookup(name enc.Name) []Entry[V] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if node := t.trie.ExactMatch(name); node != nil && node.Value() != nil {
		return slices.Clone(node.Value().entries)
	}
	return []Entry[V]{}
}

// RemoveExact removes the first entry under name whose value equals value.
func (t *InterestTable[V]) RemoveExact(name enc.Name, value V) (Entry[V], bool) {
	return t.removeFirst(name, func(entry Entry[V]) bool {
		return entry.Value() == value
	})
}

// RemoveExactInterest removes the first entry registered with an Interest
// equal to interest whose value equals value.
func (t *InterestTable[V]) RemoveExactInterest(interest ndn.Interest, value V) (Entry[V], bool) {
	if interest == nil {
		return nil, false
	}
	return t.removeFirst(interest.Name(), func(entry Entry[V]) bool {
		stored := entry.Interest()
		return stored != nil && interest.Equal(stored) && entry.Value() == value
	})
}

func (t *InterestTable[V]) removeFirst(name enc.Name, pred func(Entry[V]) bool) (Entry[V], bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	node := t.trie.ExactMatch(name)
	if node == nil || node.Value() == nil {
		return nil, false
	}
	list := node.Value()
	for i, entry := range list.entries {
		if pred(entry) {
			return t.removeAt(list, i), true
		}
	}
	return nil, false
}

// RemoveOneMatch removes and returns the entry MatchOne would return.
func (t *InterestTable[V]) RemoveOneMatch(data ndn.Data) (Entry[V], bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	list, i := t.lastMatch(data)
	if list == nil {
		return nil, false
	}
	return t.removeAt(list, i), true
}

// RemoveAllMatches removes every Interest entry matching data and returns
// them longest name first.
func (t *InterestTable[V]) RemoveAllMatches(data ndn.Data) []Entry[V] {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	ret := make([]Entry[V], 0)
	if data == nil {
		return ret
	}

	emptied := make([]*nameList[V], 0)
	for _, list := range t.names {
		kept := list.entries[:0]
		for _, entry := range list.entries {
			if interest := entry.Interest(); interest != nil && interest.Matches(data) {
				ret = append(ret, entry)
			} else {
				kept = append(kept, entry)
			}
		}
		clear(list.entries[len(kept):])
		list.entries = kept
		if len(kept) == 0 {
			emptied = append(emptied, list)
		}
	}

	t.size -= len(ret)
	t.dropEmpty(emptied)
	slices.Reverse(ret)
	return ret
}

// RemoveOneMatchByName removes and returns the entry MatchOneByName would return.
func (t *InterestTable[V]) RemoveOneMatchByName(target enc.Name) (Entry[V], bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if list := t.longestPrefix(target); list != nil {
		return t.removeAt(list, 0), true
	}
	return nil, false
}

// RemoveAllMatchesByName removes every entry registered under a prefix of
// target and returns them longest name first.
func (t *InterestTable[V]) RemoveAllMatchesByName(target enc.Name) []Entry[V] {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	ret := make([]Entry[V], 0)
	emptied := make([]*nameList[V], 0)
	for node := t.trie.PrefixMatch(target); node != nil; node = node.Parent() {
		if list := node.Value(); list != nil {
			for i := len(list.entries) - 1; i >= 0; i-- {
				ret = append(ret, list.entries[i])
			}
			list.entries = nil
			emptied = append(emptied, list)
		}
	}

	t.size -= len(ret)
	t.dropEmpty(emptied)
	return ret
}

// Size returns the total number of entries.
func (t *InterestTable[V]) Size() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.size
}

// NameCount returns the number of distinct names.
func (t *InterestTable[V]) NameCount() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.names)
}

// Values returns every entry in the table.
func (t *InterestTable[V]) Values() []Entry[V] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	ret := make([]Entry[V], 0, t.size)
	for _, list := range t.names {
		ret = append(ret, list.entries...)
	}
	return ret
}

// Clear removes every entry. The high water mark is kept.
func (t *InterestTable[V]) Clear() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.names = make([]*nameList[V], 0)
	t.trie = NewNameTrie[*nameList[V]]()
	t.size = 0
}

// SetHighWater bounds the number of distinct names.
// A value of zero or less removes the bound.
// Lowering the bound does not evict immediately; each later insertion of
// a new name evicts one name.
func (t *InterestTable[V]) SetHighWater(n int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if n <= 0 {
		t.highWater.Unset()
	} else {
		t.highWater.Set(n)
	}
}

// ClearHighWater removes the bound on distinct names.
func (t *InterestTable[V]) ClearHighWater() {
	t.SetHighWater(0)
}

// HighWater returns the bound on distinct names, if any.
func (t *InterestTable[V]) HighWater() optional.Optional[int] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.highWater
}

func entryValues[V comparable](entries []Entry[V]) []V {
	var zero V
	ret := make([]V, 0, len(entries))
	for _, entry := range entries {
		if v := entry.Value(); v != zero {
			ret = append(ret, v)
		}
	}
	return ret
}
