package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"modsource/host"
	"modsource/internal/logging"
)

// BatchSeparator on a line of its own ends the current compilation.
const BatchSeparator = "---"

// stepLine is what Feed prints for every pending step.
type stepLine struct {
	Request string `json:"request"`
	Loader  string `json:"loader"`
	Options any    `json:"options"`
}

// Feed reads module requests from in, one per line, and observes each in the
// current compilation. Every appended step is written to out as a JSON line.
// A BatchSeparator line finishes the compilation and starts the next one. At
// the end of in the open compilation stays alive until the engine shuts down,
// so the steps already written can still be executed.
func (e *Engine) Feed(ctx context.Context, in io.Reader, out io.Writer) error {
	enc := json.NewEncoder(out)
	var comp *host.Compilation
	finish := func() {
		if comp != nil {
			comp.Finish()
			comp = nil
		}
	}
	defer finish()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case line == BatchSeparator:
			finish()
			continue
		}
		if comp == nil {
			var err error
			if comp, err = e.Begin(); err != nil {
				return err
			}
		}
		m := host.NewModule(line)
		if err := comp.Load(m); err != nil {
			logging.L().Error("module observation failed", "request", line, "err", err)
			return err
		}
		for _, st := range m.Steps() {
			if err := enc.Encode(stepLine{Request: line, Loader: st.Loader, Options: st.Options}); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if comp != nil {
		e.hold(comp)
		comp = nil
	}
	return nil
}
