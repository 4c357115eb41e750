package logger

import (
	"errors"

	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap/zapcore"

	"github.com/Monalisa-XD/Academix/pkg/config"
)

type rollbarReporter interface {
	MessageWithExtras(level string, msg string, extras map[string]interface{})
	ErrorWithExtras(level string, err error, extras map[string]interface{})
	Wait()
}

// rollbarCore forwards warn and error entries to Rollbar. Lower levels never
// leave the process.
type rollbarCore struct {
	zapcore.LevelEnabler
	client rollbarReporter
	fields []zapcore.Field
}

// NewRollbarCore builds a core reporting to the configured Rollbar project.
func NewRollbarCore(cfg config.RollbarConfig) zapcore.Core {
	client := rollbar.New(cfg.Token, cfg.Environment, cfg.CodeVersion, "", "")
	return newRollbarCore(client)
}

func newRollbarCore(client rollbarReporter) *rollbarCore {
	return &rollbarCore{LevelEnabler: zapcore.WarnLevel, client: client}
}

func (c *rollbarCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field{}, c.fields...), fields...)
	return &clone
}

func (c *rollbarCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *rollbarCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	var cause error
	for _, f := range append(append([]zapcore.Field{}, c.fields...), fields...) {
		if f.Type == zapcore.ErrorType && cause == nil {
			if err, ok := f.Interface.(error); ok {
				cause = err
			}
		}
		f.AddTo(enc)
	}
	extras := enc.Fields
	extras["message"] = entry.Message
	if entry.LoggerName != "" {
		extras["logger"] = entry.LoggerName
	}

	level := rollbarLevel(entry.Level)
	if cause != nil {
		c.client.ErrorWithExtras(level, errors.New(entry.Message+": "+cause.Error()), extras)
		return nil
	}
	c.client.MessageWithExtras(level, entry.Message, extras)
	return nil
}

func (c *rollbarCore) Sync() error {
	c.client.Wait()
	return nil
}

func rollbarLevel(level zapcore.Level) string {
	switch {
	case level >= zapcore.DPanicLevel:
		return rollbar.CRIT
	case level == zapcore.ErrorLevel:
		return rollbar.ERR
	default:
		return rollbar.WARN
	}
}
