package encoding

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"unsafe"
)

const (
	TypeInvalidComponent                TLNum = 0x00
	TypeImplicitSha256DigestComponent   TLNum = 0x01
	TypeParametersSha256DigestComponent TLNum = 0x02
	TypeGenericNameComponent            TLNum = 0x08
	TypeKeywordNameComponent            TLNum = 0x20
	TypeSegmentNameComponent            TLNum = 0x32
	TypeByteOffsetNameComponent         TLNum = 0x34
	TypeVersionNameComponent            TLNum = 0x36
	TypeTimestampNameComponent          TLNum = 0x38
	TypeSequenceNumNameComponent        TLNum = 0x3a
)

const (
	ParamShaNameConvention  = "params-sha256"
	DigestShaNameConvention = "sha256digest"
)

const hexUpper = "0123456789ABCDEF"

// Component is a single typed name component.
type Component struct {
	Typ TLNum
	Val []byte
}

type compValFmt int

const (
	compValFmtText compValFmt = iota
	compValFmtDec
	compValFmtHex
)

type componentConvention struct {
	typ  TLNum
	name string
	vFmt compValFmt
}

var compConvByType = map[TLNum]componentConvention{
	TypeImplicitSha256DigestComponent:   {TypeImplicitSha256DigestComponent, DigestShaNameConvention, compValFmtHex},
	TypeParametersSha256DigestComponent: {TypeParametersSha256DigestComponent, ParamShaNameConvention, compValFmtHex},
	TypeSegmentNameComponent:            {TypeSegmentNameComponent, "seg", compValFmtDec},
	TypeByteOffsetNameComponent:         {TypeByteOffsetNameComponent, "off", compValFmtDec},
	TypeVersionNameComponent:            {TypeVersionNameComponent, "v", compValFmtDec},
	TypeTimestampNameComponent:          {TypeTimestampNameComponent, "t", compValFmtDec},
	TypeSequenceNumNameComponent:        {TypeSequenceNumNameComponent, "seq", compValFmtDec},
}

var compConvByStr = func() map[string]componentConvention {
	ret := make(map[string]componentConvention, len(compConvByType))
	for _, c := range compConvByType {
		ret[c.name] = c
	}
	return ret
}()

func NewBytesComponent(typ TLNum, val []byte) Component {
	return Component{Typ: typ, Val: val}
}

func NewStringComponent(typ TLNum, val string) Component {
	return Component{Typ: typ, Val: []byte(val)}
}

func NewNumberComponent(typ TLNum, val uint64) Component {
	return Component{Typ: typ, Val: Nat(val).Bytes()}
}

func NewGenericComponent(val string) Component {
	return NewStringComponent(TypeGenericNameComponent, val)
}

func NewSegmentComponent(seg uint64) Component {
	return NewNumberComponent(TypeSegmentNameComponent, seg)
}

func NewVersionComponent(v uint64) Component {
	return NewNumberComponent(TypeVersionNameComponent, v)
}

func NewSequenceNumComponent(seq uint64) Component {
	return NewNumberComponent(TypeSequenceNumNameComponent, seq)
}

func (c Component) Clone() Component {
	return Component{
		Typ: c.Typ,
		Val: append([]byte(nil), c.Val...),
	}
}

func (c Component) Length() TLNum {
	return TLNum(len(c.Val))
}

func (c Component) String() string {
	sb := strings.Builder{}
	c.WriteTo(&sb)
	return sb.String()
}

// WriteTo writes the URI form of the component and returns the size written.
func (c Component) WriteTo(sb *strings.Builder) int {
	size := 0
	vFmt := compValFmtText
	if conv, ok := compConvByType[c.Typ]; ok {
		vFmt = conv.vFmt
		sb.WriteString(conv.name)
		sb.WriteByte('=')
		size += len(conv.name) + 1
	} else if c.Typ != TypeGenericNameComponent {
		typ := strconv.FormatUint(uint64(c.Typ), 10)
		sb.WriteString(typ)
		sb.WriteByte('=')
		size += len(typ) + 1
	}
	return size + writeCompVal(c.Val, vFmt, sb)
}

func (c Component) EncodingLength() int {
	l := len(c.Val)
	return c.Typ.EncodingLength() + TLNum(l).EncodingLength() + l
}

// EncodeInto writes the TLV encoding of the component into buf.
func (c Component) EncodeInto(buf Buffer) int {
	p1 := c.Typ.EncodeInto(buf)
	p2 := TLNum(len(c.Val)).EncodeInto(buf[p1:])
	copy(buf[p1+p2:], c.Val)
	return p1 + p2 + len(c.Val)
}

func (c Component) Bytes() []byte {
	buf := make([]byte, c.EncodingLength())
	c.EncodeInto(buf)
	return buf
}

// Compare orders components canonically: by type, then value length, then value bytes.
func (c Component) Compare(rhs Component) int {
	if c.Typ != rhs.Typ {
		if c.Typ < rhs.Typ {
			return -1
		}
		return 1
	}
	if len(c.Val) != len(rhs.Val) {
		if len(c.Val) < len(rhs.Val) {
			return -1
		}
		return 1
	}
	return bytes.Compare(c.Val, rhs.Val)
}

func (c Component) Equal(rhs Component) bool {
	return c.Typ == rhs.Typ && bytes.Equal(c.Val, rhs.Val)
}

// NumberVal returns the value of the component as a number
func (c Component) NumberVal() uint64 {
	ret := uint64(0)
	for _, v := range c.Val {
		ret = (ret << 8) | uint64(v)
	}
	return ret
}

// Hash returns the hash of the component
func (c Component) Hash() uint64 {
	xx := xxHashPool.Get()
	defer xxHashPool.Put(xx)
	return xx.sum(c.EncodingLength(), c.EncodeInto)
}

// TlvStr returns the TLV encoding of a Component as a string.
func (c Component) TlvStr() string {
	buf := c.Bytes()
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}

// ComponentFromStr parses the URI form of a single component.
func ComponentFromStr(s string) (Component, error) {
	ret := Component{}
	if err := componentFromStrInto(s, &ret); err != nil {
		return Component{}, err
	}
	return ret, nil
}

func componentFromStrInto(s string, ret *Component) error {
	ret.Typ = TypeGenericNameComponent
	vFmt := compValFmtText
	valStr := s

	if i := strings.IndexByte(s, '='); i >= 0 {
		if strings.IndexByte(s[i+1:], '=') >= 0 {
			return ErrFormat{"too many '=' in component: " + s}
		}
		typStr := s[:i]
		valStr = s[i+1:]
		if typStr == "" {
			return ErrFormat{"missing component type: " + s}
		}
		if IsAlphabet(rune(typStr[0])) {
			conv, ok := compConvByStr[typStr]
			if !ok {
				return ErrFormat{"unknown component type: " + typStr}
			}
			ret.Typ, vFmt = conv.typ, conv.vFmt
		} else {
			typ, err := strconv.ParseUint(typStr, 10, 64)
			if err != nil || typ == 0 || typ > 0xffff {
				return ErrFormat{"invalid component type: " + typStr}
			}
			ret.Typ = TLNum(typ)
		}
	}

	val, err := parseCompVal(valStr, vFmt)
	if err != nil {
		return err
	}
	ret.Val = val
	return nil
}

func isLegalCompText(b byte) bool {
	return IsAlphabet(rune(b)) || ('0' <= b && b <= '9') || b == '-' || b == '_' || b == '.' || b == '~'
}

func writeCompVal(val []byte, vFmt compValFmt, sb *strings.Builder) int {
	switch vFmt {
	case compValFmtDec:
		x := uint64(0)
		for _, b := range val {
			x = (x << 8) | uint64(b)
		}
		s := strconv.FormatUint(x, 10)
		sb.WriteString(s)
		return len(s)
	case compValFmtHex:
		s := hex.EncodeToString(val)
		sb.WriteString(s)
		return len(s)
	}

	size := 0
	for _, b := range val {
		if isLegalCompText(b) {
			sb.WriteByte(b)
			size += 1
		} else {
			sb.WriteByte('%')
			sb.WriteByte(hexUpper[b>>4])
			sb.WriteByte(hexUpper[b&0x0F])
			size += 3
		}
	}
	return size
}

func parseCompVal(s string, vFmt compValFmt) ([]byte, error) {
	switch vFmt {
	case compValFmtDec:
		x, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, ErrFormat{"invalid number component value: " + s}
		}
		return Nat(x).Bytes(), nil
	case compValFmtHex:
		val, err := hex.DecodeString(s)
		if err != nil {
			return nil, ErrFormat{"invalid hex component value: " + s}
		}
		return val, nil
	}

	val := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		switch {
		case s[i] == '%':
			if i+3 > len(s) {
				return nil, ErrFormat{"invalid component value: " + s}
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return nil, ErrFormat{"invalid component value: " + s}
			}
			val = append(val, byte(v))
			i += 3
		case s[i] == '/' || s[i] == '\\':
			return nil, ErrFormat{"invalid component value: " + s}
		default:
			// Gracefully accept other characters
			val = append(val, s[i])
			i++
		}
	}
	return val, nil
}
