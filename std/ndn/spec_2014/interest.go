// Package spec_2014 implements Interest and Data with the selector-based
// matching rules of the 2014 NDN packet format.
package spec_2014

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	enc "github.com/named-data/ndnc/std/encoding"
	"github.com/named-data/ndnc/std/ndn"
	"github.com/named-data/ndnc/std/types/optional"
)

// ChildSelector picks which of several matching Data a responder prefers.
type ChildSelector uint8

const (
	LeftmostChild  ChildSelector = 0
	RightmostChild ChildSelector = 1
)

// Interest is a query for Data under a name, narrowed by selectors.
type Interest struct {
	NameV enc.Name
	// Minimum number of components after NameV, counting the implicit digest
	MinSuffixComponentsV optional.Optional[int]
	// Maximum number of components after NameV, counting the implicit digest
	MaxSuffixComponentsV optional.Optional[int]
	// Required SHA-256 digest of the publisher's public key
	PublisherKeyDigestV []byte
	// Filter on the component following NameV
	ExcludeV *Exclude
	ChildSelectorV ChildSelector
	MustBeFreshV   bool

	// Not part of matching or equality
	NonceV    optional.Optional[uint32]
	LifetimeV optional.Optional[time.Duration]
}

func NewInterest(name enc.Name) *Interest {
	return &Interest{NameV: name}
}

func (i *Interest) Name() enc.Name {
	if i == nil {
		return nil
	}
	return i.NameV
}

func (i *Interest) MustBeFresh() bool {
	return i.MustBeFreshV
}

func (i *Interest) Lifetime() optional.Optional[time.Duration] {
	return i.LifetimeV
}

func (i *Interest) Nonce() optional.Optional[uint32] {
	return i.NonceV
}

// Matches returns true if data satisfies the name prefix, suffix count,
// exclude and publisher constraints of the Interest.
// MustBeFresh and ChildSelector are left to caches.
func (i *Interest) Matches(data ndn.Data) bool {
	if i == nil || i.NameV == nil || data == nil {
		return false
	}

	var fullName enc.Name
	var publisher []byte
	if d, ok := data.(*Data); ok {
		if d == nil || d.NameV == nil {
			return false
		}
		fullName = d.FullName()
		publisher = d.PublisherV
	} else {
		// Foreign Data types carry no digest or publisher
		fullName = data.Name()
		if fullName == nil {
			return false
		}
	}

	if !i.NameV.IsPrefix(fullName) {
		return false
	}

	suffix := len(fullName) - len(i.NameV)
	if minSuffix, ok := i.MinSuffixComponentsV.Get(); ok && suffix < minSuffix {
		return false
	}
	if maxSuffix, ok := i.MaxSuffixComponentsV.Get(); ok && suffix > maxSuffix {
		return false
	}
	if suffix > 0 && i.ExcludeV.IsExcluded(fullName[len(i.NameV)]) {
		return false
	}
	if len(i.PublisherKeyDigestV) > 0 && !bytes.Equal(i.PublisherKeyDigestV, publisher) {
		return false
	}
	return true
}

// Equal compares the name and all selectors. Nonce and lifetime are ignored.
func (i *Interest) Equal(other ndn.Interest) bool {
	rhs, ok := other.(*Interest)
	if !ok || i == nil || rhs == nil {
		return ok && i == rhs
	}
	return i.NameV.Equal(rhs.NameV) &&
		optional.Equal(i.MinSuffixComponentsV, rhs.MinSuffixComponentsV) &&
		optional.Equal(i.MaxSuffixComponentsV, rhs.MaxSuffixComponentsV) &&
		bytes.Equal(i.PublisherKeyDigestV, rhs.PublisherKeyDigestV) &&
		i.ExcludeV.Equal(rhs.ExcludeV) &&
		i.ChildSelectorV == rhs.ChildSelectorV &&
		i.MustBeFreshV == rhs.MustBeFreshV
}

func (i *Interest) String() string {
	sels := make([]string, 0, 5)
	if v, ok := i.MinSuffixComponentsV.Get(); ok {
		sels = append(sels, fmt.Sprintf("min=%d", v))
	}
	if v, ok := i.MaxSuffixComponentsV.Get(); ok {
		sels = append(sels, fmt.Sprintf("max=%d", v))
	}
	if len(i.ExcludeV.entries()) > 0 {
		sels = append(sels, "exclude="+i.ExcludeV.String())
	}
	if len(i.PublisherKeyDigestV) > 0 {
		sels = append(sels, fmt.Sprintf("publisher=%x", i.PublisherKeyDigestV))
	}
	if i.MustBeFreshV {
		sels = append(sels, "fresh")
	}
	if len(sels) == 0 {
		return i.NameV.String()
	}
	return i.NameV.String() + "[" + strings.Join(sels, ";") + "]"
}
