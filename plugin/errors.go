package plugin

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOptions    = errors.New("invalid options")
	ErrUnknownSession    = errors.New("unknown session")
	ErrUnknownRule       = errors.New("unknown rule index")
	ErrSessionClosed     = errors.New("session closed")
	ErrNoObservationHook = errors.New("compilation exposes no module observation hook")
)

// ConfigError reports an options field that failed validation.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %s", Name, ErrInvalidOptions, e.Field, e.Msg)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidOptions }

// MatchError wraps a predicate failure with the module and rule it happened on.
type MatchError struct {
	Path      string
	RuleIndex int
	Err       error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("%s: rule %d on module %q: %v", Name, e.RuleIndex, e.Path, e.Err)
}

func (e *MatchError) Unwrap() error { return e.Err }

// RegistryError is returned when a step refers to a session or rule index the
// registry does not hold. It means the step and the registry disagree about the
// configuration and must not be retried.
type RegistryError struct {
	Kind      error
	Session   string
	RuleIndex int
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry: %s (session %s, rule %d)", e.Kind, e.Session, e.RuleIndex)
}

func (e *RegistryError) Unwrap() error { return e.Kind }
