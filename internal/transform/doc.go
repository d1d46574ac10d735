// Package transform is the client side of remote transformer plugins. A
// transform.Client hides whether the plugin runs over gRPC or in process, and
// Modifier turns a Client into a plugin.ContextModifyFunc with timeouts and retries.
package transform
