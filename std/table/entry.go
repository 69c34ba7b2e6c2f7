package table

import (
	enc "github.com/named-data/ndnc/std/encoding"
	"github.com/named-data/ndnc/std/ndn"
)

// Entry is a value registered in an InterestTable, either against an
// Interest or against a bare name.
type Entry[V any] interface {
	// Name the entry is registered under. Never nil.
	Name() enc.Name
	// Interest the entry is registered with, or nil for a name entry.
	Interest() ndn.Interest
	// Value stored with the entry.
	Value() V

	entry()
}

type interestEntry[V any] struct {
	interest ndn.Interest
	value    V
}

func (e *interestEntry[V]) Name() enc.Name {
	return e.interest.Name()
}

func (e *interestEntry[V]) Interest() ndn.Interest {
	return e.interest
}

func (e *interestEntry[V]) Value() V {
	return e.value
}

func (e *interestEntry[V]) String() string {
	return "interest:" + e.interest.Name().String()
}

func (*interestEntry[V]) entry() {}

type nameEntry[V any] struct {
	name  enc.Name
	value V
}

func (e *nameEntry[V]) Name() enc.Name {
	return e.name
}

func (*nameEntry[V]) Interest() ndn.Interest {
	return nil
}

func (e *nameEntry[V]) Value() V {
	return e.value
}

func (e *nameEntry[V]) String() string {
	return "name:" + e.name.String()
}

func (*nameEntry[V]) entry() {}
