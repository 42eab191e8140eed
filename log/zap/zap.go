// Package zap adapts a *zap.Logger to tagwire.Logger.
package zap

import (
	"sort"

	"github.com/unkn0wn-root/tagwire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ tagwire.Logger = Logger{}

// Logger forwards to L. A nil L discards.
type Logger struct{ L *zap.Logger }

func New(l *zap.Logger) Logger { return Logger{L: l} }

func (z Logger) Debug(msg string, f tagwire.Fields) { z.log(zapcore.DebugLevel, msg, f) }
func (z Logger) Info(msg string, f tagwire.Fields)  { z.log(zapcore.InfoLevel, msg, f) }
func (z Logger) Warn(msg string, f tagwire.Fields)  { z.log(zapcore.WarnLevel, msg, f) }
func (z Logger) Error(msg string, f tagwire.Fields) { z.log(zapcore.ErrorLevel, msg, f) }

// log builds fields only when the level is enabled.
func (z Logger) log(lvl zapcore.Level, msg string, f tagwire.Fields) {
	if z.L == nil {
		return
	}
	if ce := z.L.Check(lvl, msg); ce != nil {
		ce.Write(fields(f)...)
	}
}

// fields sorts by key so output is stable.
func fields(f tagwire.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
