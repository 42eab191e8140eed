package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/unkn0wn-root/tagwire"
)

func TestForwardsLevelAndFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.InfoLevel)
	l := New(base)

	l.Debug("dropped", nil)
	l.Warn("gen snapshot error", tagwire.Fields{"key": "one:demo:k"})

	if len(hook.Entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(hook.Entries))
	}
	e := hook.LastEntry()
	if e.Level != logrus.WarnLevel || e.Message != "gen snapshot error" {
		t.Fatalf("unexpected entry: %v %q", e.Level, e.Message)
	}
	if e.Data["key"] != "one:demo:k" {
		t.Fatalf("fields: %v", e.Data)
	}
}

func TestZeroValueDiscards(t *testing.T) {
	Logger{}.Error("nothing", tagwire.Fields{"a": 1})
}
