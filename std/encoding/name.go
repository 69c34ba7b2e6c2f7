package encoding

import (
	"strings"
	"unsafe"
)

// Name is an immutable, ordered sequence of components.
// The component count is len(name).
type Name []Component

// String returns the URI form of the name.
func (n Name) String() string {
	sb := strings.Builder{}
	for i, c := range n {
		sb.WriteByte('/')
		sz := c.WriteTo(&sb)
		if i == len(n)-1 && sz == 0 {
			sb.WriteByte('/')
		}
	}
	if sb.Len() == 0 {
		return "/"
	}
	return sb.String()
}

// EncodeInto encodes a Name into a Buffer **excluding** the TL prefix.
func (n Name) EncodeInto(buf Buffer) int {
	pos := 0
	for _, c := range n {
		pos += c.EncodeInto(buf[pos:])
	}
	return pos
}

// EncodingLength computes a Name's length after encoding **excluding** the TL prefix.
func (n Name) EncodingLength() int {
	ret := 0
	for _, c := range n {
		ret += c.EncodingLength()
	}
	return ret
}

// BytesInner returns the encoded bytes of a Name **excluding** the TL prefix.
func (n Name) BytesInner() []byte {
	buf := make([]byte, n.EncodingLength())
	n.EncodeInto(buf)
	return buf
}

// TlvStr returns the TLV encoding of a Name as a string, usable as a map key.
func (n Name) TlvStr() string {
	buf := n.BytesInner()
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}

// Clone returns a deep copy of a Name
func (n Name) Clone() Name {
	if n == nil {
		return nil
	}
	ret := make(Name, len(n))
	for i, c := range n {
		ret[i] = c.Clone()
	}
	return ret
}

// At returns the ith component of a Name.
// If i is out of range, a zero component is returned.
// Negative values start from the end.
func (n Name) At(i int) Component {
	if i < -len(n) || i >= len(n) {
		return Component{}
	} else if i < 0 {
		return n[len(n)+i]
	}
	return n[i]
}

// Prefix returns a name prefix with the first i components.
// If i is negative, i components are removed from the end.
// The returned name is not a deep copy.
func (n Name) Prefix(i int) Name {
	if i < 0 {
		i = len(n) + i
	}
	if i <= 0 {
		return Name{}
	}
	if i >= len(n) {
		return n
	}
	return n[:i]
}

// Append returns a new name with rest appended. The receiver is never modified.
func (n Name) Append(rest ...Component) Name {
	ret := make(Name, len(n), len(n)+len(rest))
	copy(ret, n)
	return append(ret, rest...)
}

// Compare compares two names component by component in canonical order.
// A proper prefix sorts before any name it is a prefix of.
func (n Name) Compare(rhs Name) int {
	for i := 0; i < min(len(n), len(rhs)); i++ {
		if ret := n[i].Compare(rhs[i]); ret != 0 {
			return ret
		}
	}
	switch {
	case len(n) < len(rhs):
		return -1
	case len(n) > len(rhs):
		return 1
	default:
		return 0
	}
}

func (n Name) Equal(rhs Name) bool {
	if len(n) != len(rhs) {
		return false
	}
	if len(n) == 0 || &n[0] == &rhs[0] {
		return true
	}
	for i := range n {
		if !n[i].Equal(rhs[i]) {
			return false
		}
	}
	return true
}

// IsPrefix returns true if n is a prefix of rhs. A name is a prefix of itself.
func (n Name) IsPrefix(rhs Name) bool {
	if len(n) > len(rhs) {
		return false
	}
	for i := range n {
		if !n[i].Equal(rhs[i]) {
			return false
		}
	}
	return true
}

// Hash returns the hash of the name
func (n Name) Hash() uint64 {
	xx := xxHashPool.Get()
	defer xxHashPool.Put(xx)
	return xx.sum(n.EncodingLength(), n.EncodeInto)
}

// NameFromStr parses a URI string into a Name.
// "/" yields an empty, non-nil Name.
func NameFromStr(s string) (Name, error) {
	strs := strings.Split(s, "/")
	if strs[0] == "" {
		strs = strs[1:]
	}
	if len(strs) > 0 && strs[len(strs)-1] == "" {
		strs = strs[:len(strs)-1]
	}
	ret := make(Name, len(strs))
	for i, str := range strs {
		if err := componentFromStrInto(str, &ret[i]); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
