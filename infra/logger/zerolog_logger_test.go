package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	l := NewZerologLogger("test")
	assert.NotNil(t, l)
	l.Infof("structured output")
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugf("ignored %d", 1)
	l.Debugw("ignored", map[string]any{"k": "v"})
	l.Infof("ignored")
	l.Warnf("ignored")
	l.Errorf("ignored")
}
