package ndn

import enc "github.com/named-data/ndnc/std/encoding"

// Interest is a pending query for named Data.
// Besides its name, an Interest may carry selection criteria that are only
// observable through Matches.
type Interest interface {
	// Name of the Interest
	Name() enc.Name
	// Matches returns true if the Data satisfies this Interest.
	Matches(data Data) bool
	// Equal returns true if other carries the same name and criteria.
	Equal(other Interest) bool
}

// Data is a concrete piece of named content.
type Data interface {
	Name() enc.Name
}
