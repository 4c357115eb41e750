package logger

import (
	"errors"
	"testing"

	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rollbarCall struct {
	level  string
	msg    string
	err    error
	extras map[string]interface{}
}

type fakeRollbar struct {
	calls  []rollbarCall
	waited bool
}

func (f *fakeRollbar) MessageWithExtras(level string, msg string, extras map[string]interface{}) {
	f.calls = append(f.calls, rollbarCall{level: level, msg: msg, extras: extras})
}

func (f *fakeRollbar) ErrorWithExtras(level string, err error, extras map[string]interface{}) {
	f.calls = append(f.calls, rollbarCall{level: level, err: err, extras: extras})
}

func (f *fakeRollbar) Wait() { f.waited = true }

func TestRollbarCoreSkipsInfo(t *testing.T) {
	fake := &fakeRollbar{}
	log := zap.New(newRollbarCore(fake))

	log.Info("loaded faculties", zap.Int("count", 3))
	assert.Empty(t, fake.calls)
}

func TestRollbarCoreForwardsErrors(t *testing.T) {
	fake := &fakeRollbar{}
	log := zap.New(newRollbarCore(fake)).With(zap.String("entity", "faculties"))

	log.Error("roster load failed", zap.Error(errors.New("connection refused")))
	log.Warn("slow remote store", zap.Duration("latency", 0))
	require.NoError(t, log.Sync())

	require.Len(t, fake.calls, 2)
	assert.Equal(t, rollbar.ERR, fake.calls[0].level)
	assert.EqualError(t, fake.calls[0].err, "roster load failed: connection refused")
	assert.Equal(t, "faculties", fake.calls[0].extras["entity"])
	assert.Equal(t, rollbar.WARN, fake.calls[1].level)
	assert.Equal(t, "slow remote store", fake.calls[1].msg)
	assert.True(t, fake.waited)
}

func TestRollbarLevel(t *testing.T) {
	assert.Equal(t, rollbar.CRIT, rollbarLevel(zapcore.FatalLevel))
	assert.Equal(t, rollbar.ERR, rollbarLevel(zapcore.ErrorLevel))
	assert.Equal(t, rollbar.WARN, rollbarLevel(zapcore.WarnLevel))
}
