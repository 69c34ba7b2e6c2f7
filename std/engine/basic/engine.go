// Package basic gives an in-process engine that dispatches Interests to
// local handlers and Data back to pending Interests. It has no face:
// everything expressed is looped back to the handlers attached here.
package basic

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	enc "github.com/named-data/ndnc/std/encoding"
	"github.com/named-data/ndnc/std/log"
	"github.com/named-data/ndnc/std/ndn"
	"github.com/named-data/ndnc/std/table"
	"github.com/named-data/ndnc/std/types/optional"
)

const DefaultInterestLife = 4 * time.Second
const TimeoutMargin = 10 * time.Millisecond

// lifetimed is implemented by Interests that carry their own lifetime.
type lifetimed interface {
	Lifetime() optional.Optional[time.Duration]
}

type fibEntry struct {
	prefix  enc.Name
	handler ndn.InterestHandler
}

type pendInt struct {
	interest      ndn.Interest
	callback      ndn.ExpressCallbackFunc
	deadline      time.Time
	timeoutCancel func() error
	// done is set by whoever delivers the callback.
	done atomic.Bool
}

type Engine struct {
	timer  ndn.Timer
	config *Config

	// fib contains the registered Interest handlers, as name entries.
	fib *table.InterestTable[*fibEntry]
	// pit contains pending Interests waiting for Data.
	pit *table.InterestTable[*pendInt]

	// fibLock makes the duplicate check and insertion of a handler atomic.
	fibLock sync.Mutex
	// pitLock orders timeout scheduling against PIT insertion.
	pitLock sync.Mutex

	running atomic.Bool
}

// NewEngine creates a stopped engine. A nil config means DefaultConfig.
func NewEngine(timer ndn.Timer, config *Config) *Engine {
	if timer == nil {
		return nil
	}
	if config == nil {
		config = DefaultConfig()
	}

	e := &Engine{
		timer:  timer,
		config: config,
		fib:    table.NewInterestTable[*fibEntry](),
		pit:    table.NewInterestTable[*pendInt](),
	}
	e.fib.Configure(config.Fib)
	e.pit.Configure(config.Pit)
	return e
}

func (e *Engine) String() string {
	return "basic-engine"
}

func (e *Engine) Timer() ndn.Timer {
	return e.timer
}

func (e *Engine) Start() error {
	if !e.running.CompareAndSwap(false, true) {
		return fmt.Errorf("engine is already running")
	}
	log.Debug(e, "Engine started")
	return nil
}

// Stop cancels every pending Interest and rejects further expressions.
func (e *Engine) Stop() error {
	if !e.running.CompareAndSwap(true, false) {
		return ndn.ErrNotRunning
	}

	for _, entry := range e.pit.Values() {
		if _, ok := e.pit.RemoveExact(entry.Name(), entry.Value()); ok {
			e.finish(entry.Value(), ndn.ExpressCallbackArgs{Result: ndn.InterestCancelled})
		}
	}
	log.Debug(e, "Engine stopped")
	return nil
}

func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// AttachHandler registers a handler for Interests under prefix.
func (e *Engine) AttachHandler(prefix enc.Name, handler ndn.InterestHandler) error {
	if handler == nil {
		return ndn.ErrInvalidValue{Item: "handler", Value: nil}
	}

	e.fibLock.Lock()
	defer e.fibLock.Unlock()

	if len(e.fib.Lookup(prefix)) > 0 {
		return fmt.Errorf("%w: %s", ndn.ErrMultipleHandlers, prefix)
	}
	return e.fib.AddName(prefix, &fibEntry{prefix: prefix, handler: handler})
}

func (e *Engine) DetachHandler(prefix enc.Name) error {
	e.fibLock.Lock()
	defer e.fibLock.Unlock()

	entries := e.fib.Lookup(prefix)
	if len(entries) == 0 {
		return ndn.ErrInvalidValue{Item: "prefix", Value: prefix}
	}
	e.fib.RemoveExact(prefix, entries[0].Value())
	return nil
}

// HandlerCount returns the number of attached handlers.
func (e *Engine) HandlerCount() int {
	return e.fib.Size()
}

// PendingCount returns the number of Interests waiting for Data.
func (e *Engine) PendingCount() int {
	return e.pit.Size()
}

func (e *Engine) lifetimeOf(interest ndn.Interest) time.Duration {
	if l, ok := interest.(lifetimed); ok {
		if life, ok := l.Lifetime().Get(); ok {
			return life
		}
	}
	return e.config.InterestLifetime()
}

// Express registers interest as pending and loops it back to the local
// handler with the longest matching prefix, if any. The callback is called
// exactly once. An Interest evicted from a bounded PIT is reported as a
// timeout when its lifetime ends.
func (e *Engine) Express(interest ndn.Interest, callback ndn.ExpressCallbackFunc) error {
	if !e.IsRunning() {
		return ndn.ErrNotRunning
	}
	if interest == nil || len(interest.Name()) == 0 {
		return fmt.Errorf("%w: interest without name", ndn.ErrInvalidArgument)
	}
	if callback == nil {
		callback = func(ndn.ExpressCallbackArgs) {}
	}

	lifetime := e.lifetimeOf(interest)
	entry := &pendInt{
		interest: interest,
		callback: callback,
		deadline: e.timer.Now().Add(lifetime),
	}

	err := func() error {
		e.pitLock.Lock()
		defer e.pitLock.Unlock()

		entry.timeoutCancel = e.timer.Schedule(lifetime+TimeoutMargin, func() {
			e.onExpressTimeout(entry)
		})
		if err := e.pit.AddInterest(interest, entry); err != nil {
			entry.timeoutCancel()
			return err
		}
		return nil
	}()
	if err != nil {
		return err
	}

	log.Trace(e, "Interest expressed", "name", interest.Name())
	e.OnInterest(interest)
	return nil
}

// Cancel withdraws every pending Interest equal to interest.
// It returns the number of Interests cancelled.
func (e *Engine) Cancel(interest ndn.Interest) int {
	if interest == nil {
		return 0
	}

	count := 0
	for _, entry := range e.pit.Lookup(interest.Name()) {
		if stored := entry.Interest(); stored == nil || !interest.Equal(stored) {
			continue
		}
		if _, ok := e.pit.RemoveExactInterest(interest, entry.Value()); ok {
			e.finish(entry.Value(), ndn.ExpressCallbackArgs{Result: ndn.InterestCancelled})
			count++
		}
	}
	return count
}

// OnInterest dispatches an incoming Interest to the handler attached to
// the longest prefix of its name. It returns false if no handler exists.
func (e *Engine) OnInterest(interest ndn.Interest) bool {
	if interest == nil {
		return false
	}
	name := interest.Name()

	entry, ok := e.fib.MatchOneByName(name)
	if !ok {
		log.Debug(e, "No handler for interest", "name", name)
		return false
	}

	log.Trace(e, "Interest dispatched", "name", name, "prefix", entry.Value().prefix)
	// The handler should create a goroutine if Data is not ready at hand.
	entry.Value().handler(ndn.InterestHandlerArgs{
		Interest: interest,
		Reply:    e.reply,
		Deadline: e.timer.Now().Add(e.lifetimeOf(interest)),
	})
	return true
}

func (e *Engine) reply(data ndn.Data) error {
	if data == nil {
		return nil
	}
	if !e.IsRunning() {
		return ndn.ErrNotRunning
	}
	e.OnData(data)
	return nil
}

// OnData satisfies every pending Interest matching data.
// It returns the number of Interests satisfied.
func (e *Engine) OnData(data ndn.Data) int {
	if data == nil {
		return 0
	}
	matched := e.pit.RemoveAllMatches(data)
	if len(matched) == 0 {
		log.Trace(e, "Data for an unknown interest - DROP", "name", data.Name())
		return 0
	}

	for _, entry := range matched {
		e.finish(entry.Value(), ndn.ExpressCallbackArgs{
			Result: ndn.InterestResultData,
			Data:   data,
		})
	}
	return len(matched)
}

// onExpressTimeout also covers entries the PIT already evicted.
func (e *Engine) onExpressTimeout(entry *pendInt) {
	removed := func() bool {
		e.pitLock.Lock()
		defer e.pitLock.Unlock()
		_, ok := e.pit.RemoveExactInterest(entry.interest, entry)
		return ok
	}()
	if !entry.done.CompareAndSwap(false, true) {
		return
	}

	log.Trace(e, "Interest timeout", "name", entry.interest.Name(), "evicted", !removed)
	entry.callback(ndn.ExpressCallbackArgs{Result: ndn.InterestResultTimeout})
}

// finish runs the callback of an entry already removed from the PIT,
// unless its timeout got there first.
func (e *Engine) finish(entry *pendInt, args ndn.ExpressCallbackArgs) {
	entry.timeoutCancel()
	if !entry.done.CompareAndSwap(false, true) {
		return
	}
	if entry.callback == nil {
		panic("[BUG] PIT has empty entry")
	}
	entry.callback(args)
}
