package basic

import (
	"sync"
	"time"

	"github.com/named-data/ndnc/std/types/priority_queue"
)

// DummyTimer is a manually driven clock for tests.
// Time only advances through MoveForward.
type DummyTimer struct {
	lock   sync.Mutex
	now    time.Time
	events priority_queue.Queue[func(), int64]
}

// NewDummyTimer creates a timer starting at the Unix epoch.
func NewDummyTimer() *DummyTimer {
	return &DummyTimer{
		now:    time.Unix(0, 0).UTC(),
		events: priority_queue.New[func(), int64](),
	}
}

func (tm *DummyTimer) Now() time.Time {
	tm.lock.Lock()
	defer tm.lock.Unlock()
	return tm.now
}

// MoveForward advances the clock and runs every event due strictly before
// the new time, earliest first. Events run without the lock held, so they
// may schedule or cancel other events.
func (tm *DummyTimer) MoveForward(d time.Duration) {
	due := func() []func() {
		tm.lock.Lock()
		defer tm.lock.Unlock()

		tm.now = tm.now.Add(d)
		ret := make([]func(), 0)
		for tm.events.Len() > 0 && tm.events.PeekPriority() < tm.now.UnixNano() {
			ret = append(ret, tm.events.Pop())
		}
		return ret
	}()

	for _, f := range due {
		f()
	}
}

func (tm *DummyTimer) Schedule(d time.Duration, f func()) func() error {
	tm.lock.Lock()
	defer tm.lock.Unlock()

	item := tm.events.Push(f, tm.now.Add(d).UnixNano())
	return func() error {
		tm.lock.Lock()
		defer tm.lock.Unlock()

		if !tm.events.Remove(item) {
			return errEventCanceled
		}
		return nil
	}
}

// Pending returns the number of scheduled events that have not run.
func (tm *DummyTimer) Pending() int {
	tm.lock.Lock()
	defer tm.lock.Unlock()
	return tm.events.Len()
}

// Sleep blocks until another goroutine moves the clock past d.
func (tm *DummyTimer) Sleep(d time.Duration) {
	ch := make(chan struct{})
	tm.Schedule(d, func() { close(ch) })
	<-ch
}

func (*DummyTimer) Nonce() []byte {
	return []byte{0x01, 0x02, 0x03, 0x04}
}
