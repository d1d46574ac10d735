// Package host is a minimal in-memory build host. It models the two module
// observation hook generations a bundler may expose, keeps pending loader
// steps on each module, and executes them through a plugin.Loader. The CLI and
// the tests drive the dispatch engine through it.
package host
