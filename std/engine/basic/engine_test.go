package basic_test

import (
	"strings"
	"testing"
	"time"

	enc "github.com/named-data/ndnc/std/encoding"
	basic_engine "github.com/named-data/ndnc/std/engine/basic"
	"github.com/named-data/ndnc/std/ndn"
	spec "github.com/named-data/ndnc/std/ndn/spec_2014"
	"github.com/named-data/ndnc/std/table"
	"github.com/named-data/ndnc/std/types/optional"
	tu "github.com/named-data/ndnc/std/utils/testutils"
	"github.com/stretchr/testify/require"
)

func executeTest(t *testing.T, main func(*basic_engine.Engine, *basic_engine.DummyTimer)) {
	tu.SetT(t)

	timer := basic_engine.NewDummyTimer()
	engine := basic_engine.NewEngine(timer, nil)
	require.NoError(t, engine.Start())

	main(engine, timer)

	require.NoError(t, engine.Stop())
}

func TestEngineStart(t *testing.T) {
	executeTest(t, func(engine *basic_engine.Engine, timer *basic_engine.DummyTimer) {
		require.True(t, engine.IsRunning())
		require.Error(t, engine.Start())
	})

	engine := basic_engine.NewEngine(basic_engine.NewDummyTimer(), nil)
	require.ErrorIs(t, engine.Stop(), ndn.ErrNotRunning)
	require.Nil(t, basic_engine.NewEngine(nil, nil))
}

func TestConsumerBasic(t *testing.T) {
	executeTest(t, func(engine *basic_engine.Engine, timer *basic_engine.DummyTimer) {
		hitCnt := 0

		name := tu.NoErr(enc.NameFromStr("/example/testApp/randomData/t=1570430517101"))
		interest := spec.NewInterest(name)
		interest.LifetimeV = optional.Some(6 * time.Second)
		err := engine.Express(interest, func(args ndn.ExpressCallbackArgs) {
			hitCnt += 1
			require.Equal(t, ndn.InterestResultData, args.Result)
			require.True(t, args.Data.Name().Equal(name))
			require.Equal(t, []byte("Hello, world!"), args.Data.(*spec.Data).Content())
		})
		require.NoError(t, err)
		require.Equal(t, 1, engine.PendingCount())

		timer.MoveForward(500 * time.Millisecond)
		require.Equal(t, 1, engine.OnData(spec.NewData(name, []byte("Hello, world!"))))
		require.Equal(t, 1, hitCnt)
		require.Equal(t, 0, engine.PendingCount())

		// the timeout was cancelled with the entry
		require.Equal(t, 0, timer.Pending())
		timer.MoveForward(10 * time.Second)
		require.Equal(t, 1, hitCnt)

		// Data arriving twice satisfies nothing
		require.Equal(t, 0, engine.OnData(spec.NewData(name, nil)))
		require.Equal(t, 0, engine.OnData(nil))
	})
}

func TestLocalHandler(t *testing.T) {
	executeTest(t, func(engine *basic_engine.Engine, timer *basic_engine.DummyTimer) {
		hitCnt := 0
		prefix := tu.NoErr(enc.NameFromStr("/local/app"))

		require.NoError(t, engine.AttachHandler(prefix, func(args ndn.InterestHandlerArgs) {
			require.Equal(t, timer.Now().Add(basic_engine.DefaultInterestLife), args.Deadline)
			data := spec.NewData(args.Interest.Name().Append(enc.NewSegmentComponent(0)), []byte("reply"))
			require.NoError(t, args.Reply(data))
		}))
		require.ErrorIs(t, engine.AttachHandler(prefix, func(ndn.InterestHandlerArgs) {}), ndn.ErrMultipleHandlers)
		require.Equal(t, 1, engine.HandlerCount())

		name := tu.NoErr(enc.NameFromStr("/local/app/item"))
		require.NoError(t, engine.Express(spec.NewInterest(name), func(args ndn.ExpressCallbackArgs) {
			hitCnt += 1
			require.Equal(t, ndn.InterestResultData, args.Result)
			require.Equal(t, "/local/app/item/seg=0", args.Data.Name().String())
		}))
		require.Equal(t, 1, hitCnt)
		require.Equal(t, 0, engine.PendingCount())

		// Interests outside the prefix are left pending
		other := spec.NewInterest(tu.NoErr(enc.NameFromStr("/local/other")))
		require.NoError(t, engine.Express(other, nil))
		require.Equal(t, 1, engine.PendingCount())
		require.False(t, engine.OnInterest(other))

		require.NoError(t, engine.DetachHandler(prefix))
		require.Error(t, engine.DetachHandler(prefix))
		require.Equal(t, 0, engine.HandlerCount())
		require.False(t, engine.OnInterest(spec.NewInterest(name)))
	})
}

func TestLongestHandler(t *testing.T) {
	executeTest(t, func(engine *basic_engine.Engine, timer *basic_engine.DummyTimer) {
		hits := make([]string, 0)
		handler := func(tag string) ndn.InterestHandler {
			return func(ndn.InterestHandlerArgs) { hits = append(hits, tag) }
		}

		require.NoError(t, engine.AttachHandler(tu.NoErr(enc.NameFromStr("/a")), handler("a")))
		require.NoError(t, engine.AttachHandler(tu.NoErr(enc.NameFromStr("/a/b")), handler("ab")))

		require.True(t, engine.OnInterest(spec.NewInterest(tu.NoErr(enc.NameFromStr("/a/b/c")))))
		require.True(t, engine.OnInterest(spec.NewInterest(tu.NoErr(enc.NameFromStr("/a/c")))))
		require.False(t, engine.OnInterest(spec.NewInterest(tu.NoErr(enc.NameFromStr("/b")))))
		require.Equal(t, []string{"ab", "a"}, hits)

		require.ErrorIs(t, engine.AttachHandler(enc.Name{}, handler("root")), ndn.ErrInvalidArgument)
		require.Error(t, engine.AttachHandler(tu.NoErr(enc.NameFromStr("/x")), nil))
	})
}

func TestInterestTimeout(t *testing.T) {
	executeTest(t, func(engine *basic_engine.Engine, timer *basic_engine.DummyTimer) {
		hitCnt := 0

		name := tu.NoErr(enc.NameFromStr("/not/important"))
		interest := spec.NewInterest(name)
		interest.LifetimeV = optional.Some(10 * time.Millisecond)
		require.NoError(t, engine.Express(interest, func(args ndn.ExpressCallbackArgs) {
			hitCnt += 1
			require.Equal(t, ndn.InterestResultTimeout, args.Result)
			require.Nil(t, args.Data)
		}))

		timer.MoveForward(15 * time.Millisecond)
		require.Equal(t, 0, hitCnt)
		timer.MoveForward(10 * time.Millisecond)
		require.Equal(t, 1, hitCnt)
		require.Equal(t, 0, engine.PendingCount())

		// late Data is dropped
		require.Equal(t, 0, engine.OnData(spec.NewData(name, nil)))
		require.Equal(t, 1, hitCnt)
	})
}

func TestInterestCancel(t *testing.T) {
	executeTest(t, func(engine *basic_engine.Engine, timer *basic_engine.DummyTimer) {
		results := make([]ndn.InterestResult, 0)
		callback := func(args ndn.ExpressCallbackArgs) {
			results = append(results, args.Result)
		}

		name := tu.NoErr(enc.NameFromStr("/cancel/me"))
		require.NoError(t, engine.Express(spec.NewInterest(name), callback))
		require.NoError(t, engine.Express(spec.NewInterest(name), callback))

		bounded := spec.NewInterest(name)
		bounded.MaxSuffixComponentsV = optional.Some(1)
		require.NoError(t, engine.Express(bounded, callback))

		require.Equal(t, 2, engine.Cancel(spec.NewInterest(name)))
		require.Equal(t, []ndn.InterestResult{ndn.InterestCancelled, ndn.InterestCancelled}, results)
		require.Equal(t, 1, engine.PendingCount())
		require.Equal(t, 0, engine.Cancel(spec.NewInterest(name)))
		require.Equal(t, 0, engine.Cancel(nil))

		timer.MoveForward(5 * time.Second)
		require.Equal(t, ndn.InterestResultTimeout, results[2])
		require.Len(t, results, 3)
	})
}

func TestStopCancelsPending(t *testing.T) {
	tu.SetT(t)

	timer := basic_engine.NewDummyTimer()
	engine := basic_engine.NewEngine(timer, nil)
	require.NoError(t, engine.Start())

	var result ndn.InterestResult
	interest := spec.NewInterest(tu.NoErr(enc.NameFromStr("/pending")))
	require.NoError(t, engine.Express(interest, func(args ndn.ExpressCallbackArgs) {
		result = args.Result
	}))

	var reply ndn.ReplyFunc
	require.NoError(t, engine.AttachHandler(tu.NoErr(enc.NameFromStr("/late")), func(args ndn.InterestHandlerArgs) {
		reply = args.Reply
	}))
	require.NoError(t, engine.Express(spec.NewInterest(tu.NoErr(enc.NameFromStr("/late"))), nil))

	require.NoError(t, engine.Stop())
	require.Equal(t, ndn.InterestCancelled, result)
	require.Equal(t, 0, engine.PendingCount())
	require.Equal(t, 0, timer.Pending())

	require.ErrorIs(t, engine.Express(interest, nil), ndn.ErrNotRunning)
	require.ErrorIs(t, reply(spec.NewData(tu.NoErr(enc.NameFromStr("/late")), nil)), ndn.ErrNotRunning)
	require.NoError(t, reply(nil))
}

func TestExpressInvalid(t *testing.T) {
	executeTest(t, func(engine *basic_engine.Engine, timer *basic_engine.DummyTimer) {
		require.ErrorIs(t, engine.Express(nil, nil), ndn.ErrInvalidArgument)
		require.ErrorIs(t, engine.Express(spec.NewInterest(enc.Name{}), nil), ndn.ErrInvalidArgument)
		require.Equal(t, 0, engine.PendingCount())
	})
}

func TestPitHighWater(t *testing.T) {
	tu.SetT(t)

	timer := basic_engine.NewDummyTimer()
	config := basic_engine.DefaultConfig()
	config.Pit = table.Config{HighWater: 1}
	engine := basic_engine.NewEngine(timer, config)
	require.NoError(t, engine.Start())

	// the evicted Interest can no longer be satisfied but still times out
	hits := 0
	var result ndn.InterestResult
	require.NoError(t, engine.Express(spec.NewInterest(tu.NoErr(enc.NameFromStr("/a"))), func(args ndn.ExpressCallbackArgs) {
		hits++
		result = args.Result
	}))
	other := 0
	require.NoError(t, engine.Express(spec.NewInterest(tu.NoErr(enc.NameFromStr("/b/c"))), func(ndn.ExpressCallbackArgs) { other++ }))
	require.Equal(t, 1, engine.PendingCount())

	require.Equal(t, 0, engine.OnData(spec.NewData(tu.NoErr(enc.NameFromStr("/a")), nil)))
	require.Equal(t, 0, hits)

	timer.MoveForward(10 * time.Second)
	require.Equal(t, 1, hits)
	require.Equal(t, ndn.InterestResultTimeout, result)
	require.Equal(t, 1, other)
	require.Equal(t, 0, engine.PendingCount())

	require.NoError(t, engine.Stop())
	require.Equal(t, 1, hits)
	require.Equal(t, 1, other)
}

func TestEvictedThenStopped(t *testing.T) {
	tu.SetT(t)

	timer := basic_engine.NewDummyTimer()
	config := basic_engine.DefaultConfig()
	config.Pit = table.Config{HighWater: 1}
	engine := basic_engine.NewEngine(timer, config)
	require.NoError(t, engine.Start())

	results := make([]ndn.InterestResult, 0)
	cb := func(args ndn.ExpressCallbackArgs) { results = append(results, args.Result) }
	require.NoError(t, engine.Express(spec.NewInterest(tu.NoErr(enc.NameFromStr("/a"))), cb))
	require.NoError(t, engine.Express(spec.NewInterest(tu.NoErr(enc.NameFromStr("/b/c"))), cb))

	// Stop reaches the pending one, the evicted one waits for its lifetime
	require.NoError(t, engine.Stop())
	require.Equal(t, []ndn.InterestResult{ndn.InterestCancelled}, results)
	require.Equal(t, 1, timer.Pending())

	timer.MoveForward(10 * time.Second)
	require.Equal(t, []ndn.InterestResult{ndn.InterestCancelled, ndn.InterestResultTimeout}, results)
	require.Equal(t, 0, timer.Pending())
}

func TestParseConfig(t *testing.T) {
	tu.SetT(t)

	config := tu.NoErr(basic_engine.ParseConfig(strings.NewReader(`
log_level: DEBUG
interest_lifetime_ms: 1000
pit:
  high_water: 64
`)))
	require.Equal(t, "DEBUG", config.LogLevel)
	require.Equal(t, time.Second, config.InterestLifetime())
	require.Equal(t, 64, config.Pit.HighWater)
	require.Equal(t, 0, config.Fib.HighWater)

	config = tu.NoErr(basic_engine.ParseConfig(strings.NewReader("")))
	require.Equal(t, basic_engine.DefaultInterestLife, config.InterestLifetime())

	tu.Err(basic_engine.ParseConfig(strings.NewReader("unknown: 1\n")))
	tu.Err(basic_engine.ParseConfig(strings.NewReader("log_level: LOUD\n")))
	tu.Err(basic_engine.ParseConfig(strings.NewReader("interest_lifetime_ms: 0\n")))
	tu.Err(basic_engine.ParseConfig(strings.NewReader("fib:\n  high_water: -1\n")))

	// the configured lifetime applies to Interests without one
	timer := basic_engine.NewDummyTimer()
	engine := basic_engine.NewEngine(timer, tu.NoErr(basic_engine.ParseConfig(strings.NewReader("interest_lifetime_ms: 100\n"))))
	require.NoError(t, engine.Start())
	var result ndn.InterestResult
	require.NoError(t, engine.Express(spec.NewInterest(tu.NoErr(enc.NameFromStr("/x"))), func(args ndn.ExpressCallbackArgs) {
		result = args.Result
	}))
	timer.MoveForward(200 * time.Millisecond)
	require.Equal(t, ndn.InterestResultTimeout, result)
	require.NoError(t, engine.Stop())
}
