package jsdebug

import (
	"testing"

	"github.com/playXE/js/internal/value"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	before []string
	after  []string
}

func (l *recordingListener) Before(funcName string, construct bool, args []value.Value) {
	l.before = append(l.before, funcName)
}

func (l *recordingListener) After(funcName string, result value.Value, thrown *value.Value) {
	l.after = append(l.after, funcName)
}

func TestListenersFanOut(t *testing.T) {
	a, b := &recordingListener{}, &recordingListener{}
	ls := Listeners{a, b}

	ls.Before("f", false, nil)
	ls.After("f", value.Undefined(), nil)

	require.Equal(t, []string{"f"}, a.before)
	require.Equal(t, []string{"f"}, a.after)
	require.Equal(t, []string{"f"}, b.before)
	require.Equal(t, []string{"f"}, b.after)
}

func TestListenersEmpty(t *testing.T) {
	var ls Listeners
	require.NotPanics(t, func() {
		ls.Before("f", true, nil)
		ls.After("f", value.Undefined(), nil)
	})
}
