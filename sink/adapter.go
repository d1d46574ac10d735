package sink

import (
	"fmt"
	"slices"

	"modsource/plugin"
)

// Adapter is the common behaviour every debug-record sink exposes.
type Adapter interface {
	Configure(any) error // driver-specific config ⇒ struct
	plugin.Reporter      // consume one record
	Close() error        // idempotent
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q", name)
}

// Names lists the registered sinks.
func Names() []string {
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
