package log_test

import (
	"bytes"
	"testing"

	"github.com/named-data/ndnc/std/log"
	"github.com/stretchr/testify/require"
)

type tagged struct{}

func (tagged) String() string { return "tagged-object" }

func TestParseLevel(t *testing.T) {
	lvl, err := log.ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, log.LevelDebug, lvl)

	lvl, err = log.ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, log.LevelInfo, lvl)

	_, err = log.ParseLevel("LOUD")
	require.ErrorIs(t, err, log.ErrInvalidLevel)
	require.Equal(t, "WARN", log.LevelWarn.String())
}

func TestLoggerLevelAndTag(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := log.NewText(buf)

	logger.Debug(tagged{}, "hidden")
	require.Empty(t, buf.String())

	logger.Info(tagged{}, "shown", "name", "/a/b")
	require.Contains(t, buf.String(), "level=INFO")
	require.Contains(t, buf.String(), "tag=tagged-object")
	require.Contains(t, buf.String(), "name=/a/b")

	prev := logger.SetLevel(log.LevelTrace)
	require.Equal(t, log.LevelInfo, prev)
	buf.Reset()
	logger.Trace(nil, "verbose")
	require.Contains(t, buf.String(), "level=TRACE")
}

func TestDefaultLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	prev := log.Default()
	defer log.SetDefault(prev)

	log.SetDefault(log.NewJson(buf))
	require.False(t, log.HasTrace())
	log.Warn(tagged{}, "careful")
	require.Contains(t, buf.String(), `"level":"WARN"`)
	require.Contains(t, buf.String(), `"tag":"tagged-object"`)
}
