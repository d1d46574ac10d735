// modsource/sink/stdout/driver.go
package stdout

import (
	"fmt"
	"io"
	"os"

	"modsource/plugin"
	"modsource/sink"
)

/* ────────── config ────────── */
type Config struct {
	Out io.Writer // nil → os.Stdout
}

/* ────────── driver ────────── */
type driver struct {
	lines *plugin.LineReporter
}

/* ────────── sink.Adapter ────────── */
func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	d.lines = plugin.NewLineReporter(out)
	return nil
}

func (d *driver) Report(r plugin.Record) error {
	if d.lines == nil {
		return fmt.Errorf("stdout-sink: not configured")
	}
	return d.lines.Report(r)
}

func (d *driver) Close() error { return nil }

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}
