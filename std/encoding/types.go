package encoding

// Buffer is a buffer of bytes
type Buffer []byte

// ErrFormat is returned when a name or component cannot be parsed.
type ErrFormat struct {
	Msg string
}

func (e ErrFormat) Error() string {
	return e.Msg
}
