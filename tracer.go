package js

import (
	"fmt"
	"io"
	"os"

	"github.com/playXE/js/internal/jsdebug"
	"github.com/playXE/js/internal/value"
)

// tracer is the jsdebug.Listener a Runtime installs when Config.DumpBytecode
// is set, printing a call/return trace to its Writer (os.Stdout by
// default). Grounded on internal/logging's general "write something at every
// call boundary" idiom, collapsed to the single Before/After pair jsdebug
// defines.
type tracer struct {
	w     io.Writer
	depth int
}

func newTracer() *tracer { return &tracer{w: os.Stdout} }

func (t *tracer) Before(funcName string, construct bool, args []value.Value) {
	verb := "call"
	if construct {
		verb = "new"
	}
	fmt.Fprintf(t.w, "%*s%s %s (%d args)\n", t.depth*2, "", verb, jsdebug.FuncName(funcName), len(args))
	t.depth++
}

func (t *tracer) After(funcName string, result value.Value, thrown *value.Value) {
	t.depth--
	if thrown != nil {
		fmt.Fprintf(t.w, "%*sthrow from %s\n", t.depth*2, "", jsdebug.FuncName(funcName))
		return
	}
	fmt.Fprintf(t.w, "%*sreturn from %s\n", t.depth*2, "", jsdebug.FuncName(funcName))
}

var _ jsdebug.Listener = (*tracer)(nil)
