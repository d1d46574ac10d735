package plugin

import (
	"context"

	"github.com/vmihailenco/msgpack/v5"
)

// LoaderEntryPoint identifies steps appended by this package. Hosts resolve it
// to a Loader.
const LoaderEntryPoint = "modsource/loader"

// Module is the host-owned handle of one module. The engine only reads its
// request and appends steps to it.
type Module interface {
	// Request is the raw request, possibly prefixed by a loader chain.
	Request() string
	// AddStep appends s after any steps already pending.
	AddStep(s Step)
}

// Descriptor is the serializable stand-in for a transform function.
type Descriptor struct {
	Session   string `msgpack:"session" json:"session"`
	RuleIndex int    `msgpack:"rule_index" json:"ruleIndex"`
	Path      string `msgpack:"path" json:"path"`
}

// Step is one pending loader invocation.
type Step struct {
	Loader  string     `msgpack:"loader" json:"loader"`
	Options Descriptor `msgpack:"options" json:"options"`
}

// Marshal encodes the descriptor for another execution context.
func (d Descriptor) Marshal() ([]byte, error) {
	return msgpack.Marshal(d)
}

// UnmarshalDescriptor decodes a descriptor produced by Descriptor.Marshal.
func UnmarshalDescriptor(b []byte) (Descriptor, error) {
	var d Descriptor
	err := msgpack.Unmarshal(b, &d)
	return d, err
}

// Loader runs a deferred step: it applies the transform the descriptor refers
// to and returns the rewritten source.
type Loader interface {
	Load(ctx context.Context, d Descriptor, source string) (string, error)
}
