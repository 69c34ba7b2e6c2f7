package spec_2014

import (
	"crypto/sha256"
	"time"

	enc "github.com/named-data/ndnc/std/encoding"
	"github.com/named-data/ndnc/std/types/optional"
)

// Data is a named content object.
type Data struct {
	NameV enc.Name
	// Content payload
	ContentV []byte
	// FreshnessPeriod, if set
	FreshnessV optional.Optional[time.Duration]
	// SHA-256 digest of the publisher's public key
	PublisherV []byte
}

func NewData(name enc.Name, content []byte) *Data {
	return &Data{NameV: name, ContentV: content}
}

func (d *Data) Name() enc.Name {
	if d == nil {
		return nil
	}
	return d.NameV
}

func (d *Data) Content() []byte {
	return d.ContentV
}

func (d *Data) Freshness() optional.Optional[time.Duration] {
	return d.FreshnessV
}

func (d *Data) PublisherKeyDigest() []byte {
	return d.PublisherV
}

// ImplicitDigest returns the SHA-256 digest identifying this exact Data.
// It covers the encoded name, the content and the publisher digest.
func (d *Data) ImplicitDigest() []byte {
	h := sha256.New()
	h.Write(d.NameV.BytesInner())
	h.Write(d.ContentV)
	h.Write(d.PublisherV)
	return h.Sum(nil)
}

// FullName returns the name with the implicit digest component appended.
func (d *Data) FullName() enc.Name {
	return d.NameV.Append(enc.NewBytesComponent(enc.TypeImplicitSha256DigestComponent, d.ImplicitDigest()))
}

func (d *Data) String() string {
	return d.NameV.String()
}
