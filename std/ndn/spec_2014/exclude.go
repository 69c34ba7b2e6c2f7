package spec_2014

import (
	"fmt"
	"strings"

	enc "github.com/named-data/ndnc/std/encoding"
)

// ExcludeEntry is either a single component or an Any marker.
// An Any marker excludes every component strictly between its neighbours.
type ExcludeEntry struct {
	Any       bool
	Component enc.Component
}

// Exclude filters the name component that immediately follows the Interest name.
// Components must be listed in increasing canonical order.
type Exclude struct {
	Entries []ExcludeEntry
}

func ExcludeAny() ExcludeEntry {
	return ExcludeEntry{Any: true}
}

func ExcludeComponent(c enc.Component) ExcludeEntry {
	return ExcludeEntry{Component: c}
}

func NewExclude(entries ...ExcludeEntry) *Exclude {
	return &Exclude{Entries: entries}
}

// ExcludeBefore excludes every component up to and including c.
func ExcludeBefore(c enc.Component) *Exclude {
	return NewExclude(ExcludeAny(), ExcludeComponent(c))
}

// ExcludeAfter excludes c and every component after it.
func ExcludeAfter(c enc.Component) *Exclude {
	return NewExclude(ExcludeComponent(c), ExcludeAny())
}

// Validate checks the ordering rules of the filter.
func (e *Exclude) Validate() error {
	var prev *enc.Component
	for i, entry := range e.Entries {
		if entry.Any {
			if i > 0 && e.Entries[i-1].Any {
				return fmt.Errorf("exclude: consecutive Any at %d", i)
			}
			continue
		}
		if prev != nil && prev.Compare(entry.Component) >= 0 {
			return fmt.Errorf("exclude: component %s out of order", entry.Component)
		}
		prev = &e.Entries[i].Component
	}
	return nil
}

// IsExcluded returns true if c is rejected by the filter.
func (e *Exclude) IsExcluded(c enc.Component) bool {
	if e == nil {
		return false
	}
	for i, entry := range e.Entries {
		if !entry.Any {
			if entry.Component.Equal(c) {
				return true
			}
			continue
		}

		aboveLower := i == 0 || e.Entries[i-1].Any || c.Compare(e.Entries[i-1].Component) > 0
		belowUpper := i == len(e.Entries)-1 || e.Entries[i+1].Any || c.Compare(e.Entries[i+1].Component) < 0
		if aboveLower && belowUpper {
			return true
		}
	}
	return false
}

func (e *Exclude) Equal(rhs *Exclude) bool {
	if e == nil || rhs == nil {
		return e.empty() && rhs.empty()
	}
	if len(e.Entries) != len(rhs.Entries) {
		return false
	}
	for i := range e.Entries {
		if e.Entries[i].Any != rhs.Entries[i].Any ||
			!e.Entries[i].Component.Equal(rhs.Entries[i].Component) {
			return false
		}
	}
	return true
}

func (e *Exclude) empty() bool {
	return len(e.entries()) == 0
}

func (e *Exclude) String() string {
	strs := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		if entry.Any {
			strs[i] = "*"
		} else {
			strs[i] = entry.Component.String()
		}
	}
	return strings.Join(strs, ",")
}

func (e *Exclude) entries() []ExcludeEntry {
	if e == nil {
		return nil
	}
	return e.Entries
}
