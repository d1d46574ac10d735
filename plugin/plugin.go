package plugin

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"
)

// Name is used as the hook tap name and as the debug record prefix.
const Name = "ModifySourcePlugin"

// firstBeforeLoadersVersion is the first host release with the per-module
// pre-loader hook.
const firstBeforeLoadersVersion = "v5.0.0"

const (
	HookBeforeLoaders      = "beforeLoaders"
	HookNormalModuleLoader = "normalModuleLoader"
)

type Plugin struct {
	opts Options
}

// New validates opts and returns a Plugin ready to be applied.
func New(opts Options) (*Plugin, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Plugin{opts: opts.withDefaults()}, nil
}

// Registry returns the registry sessions install into.
func (p *Plugin) Registry() *Registry { return p.opts.Registry }

// Rules returns a copy of the configured rules.
func (p *Plugin) Rules() []Rule { return append([]Rule(nil), p.opts.Rules...) }

// NewSession installs the rules under a fresh token and returns the session.
// Apply calls it once per compilation.
func (p *Plugin) NewSession() *Session {
	s := &Session{
		id:         uuid.NewString(),
		rules:      p.opts.Rules,
		debug:      p.opts.Debug,
		reporters:  p.opts.Reporters,
		registry:   p.opts.Registry,
		metrics:    p.opts.Metrics,
		dispatched: make(map[string]struct{}),
	}
	s.logger = p.opts.Logger.With("session", s.id)
	p.opts.Registry.Install(s.id, s.rules)
	return s
}

// Apply taps c so that every compilation gets its own Session attached to the
// module observation hook the host supports.
func (p *Plugin) Apply(c Compiler) error {
	if c == nil {
		return errors.New(Name + ": nil compiler")
	}
	modern := SupportsBeforeLoaders(c.Version())
	c.OnCompilation(Name, func(comp Compilation) error {
		s := p.NewSession()
		hook, err := attach(comp, s, modern)
		if err != nil {
			s.Close()
			return err
		}
		if dn, ok := comp.(DoneNotifier); ok {
			dn.OnDone(Name, s.Close)
		}
		p.opts.Logger.Debug("session started",
			slog.String("session", s.id),
			slog.String("compilation", comp.Name()),
			slog.String("hook", hook),
			slog.Int("rules", len(s.rules)))
		return nil
	})
	return nil
}

// SupportsBeforeLoaders reports whether a host of the given version exposes
// the per-module pre-loader hook. Unparseable versions are treated as legacy.
func SupportsBeforeLoaders(version string) bool {
	v := strings.TrimSpace(version)
	if v == "" {
		return false
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return false
	}
	return semver.Compare(v, firstBeforeLoadersVersion) >= 0
}

func attach(comp Compilation, s *Session, modern bool) (string, error) {
	if modern {
		if h, ok := comp.(BeforeLoadersHooks); ok {
			h.OnBeforeLoaders(Name, s.Observe)
			return HookBeforeLoaders, nil
		}
	}
	if h, ok := comp.(ModuleLoaderHooks); ok {
		h.OnNormalModuleLoader(Name, func(_ any, m Module) error {
			return s.Observe(m)
		})
		return HookNormalModuleLoader, nil
	}
	return "", ErrNoObservationHook
}
