// Package plugin is the rule-matching and transform-dispatch engine that sits
// between a host bundler and its loader pipeline. A Plugin taps the host's
// compilation hook; every compilation gets a Session that canonicalizes each
// observed module's identity, evaluates the configured rules in order and
// appends a serializable Step per match. Steps carry a Descriptor, never a
// function: the host later resolves them through a Loader that calls back into
// the Registry by session token and rule index.
package plugin
