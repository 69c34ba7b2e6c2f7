package basic

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/named-data/ndnc/std/ndn"
)

var errEventCanceled = errors.New("event has already been canceled")

// Timer is the wall clock.
type Timer struct{}

func NewTimer() ndn.Timer {
	return Timer{}
}

func (Timer) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (Timer) Schedule(d time.Duration, f func()) func() error {
	t := time.AfterFunc(d, f)
	return func() error {
		if t == nil {
			return errEventCanceled
		}
		t.Stop()
		t = nil
		return nil
	}
}

func (Timer) Now() time.Time {
	return time.Now()
}

func (Timer) Nonce() []byte {
	buf := make([]byte, 4)
	n, _ := rand.Read(buf)
	return buf[:n]
}
