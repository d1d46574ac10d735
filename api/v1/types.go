// Package apiv1 holds the wire types and gRPC service descriptors shared by
// the registry host, out-of-process loaders and remote transformer plugins.
// Messages travel msgpack-encoded; see codec.go.
package apiv1

type InvokeRequest struct {
	Session   string `msgpack:"session"`
	RuleIndex int    `msgpack:"rule_index"`
	Path      string `msgpack:"path"`
	Source    []byte `msgpack:"source"`
}

type InvokeResponse struct {
	Source []byte `msgpack:"source"`
}

type MetadataRequest struct{}

type MetadataResponse struct {
	Name         string            `msgpack:"name"`
	Version      string            `msgpack:"version"`
	Capabilities map[string]string `msgpack:"capabilities,omitempty"`
}

type TransformRequest struct {
	Path   string `msgpack:"path"`
	Source []byte `msgpack:"source"`
}

type TransformResponse struct {
	Source []byte `msgpack:"source"`
}
