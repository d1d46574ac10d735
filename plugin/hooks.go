package plugin

// ObserveFunc is called by the host for every module it is about to load.
type ObserveFunc func(Module) error

// Compiler is the host build system as seen at attach time.
type Compiler interface {
	// Version is the host's version string, e.g. "5.88.2".
	Version() string
	// OnCompilation registers fn to run at the start of every compilation.
	OnCompilation(name string, fn func(Compilation) error)
}

// Compilation is one build session of the host.
type Compilation interface {
	Name() string
}

// BeforeLoadersHooks is the per-module pre-loader hook of current hosts.
type BeforeLoadersHooks interface {
	OnBeforeLoaders(name string, fn ObserveFunc)
}

// ModuleLoaderHooks is the whole-module-load hook of legacy hosts. The first
// callback argument is the host's loader context, which is not used here.
type ModuleLoaderHooks interface {
	OnNormalModuleLoader(name string, fn func(loaderContext any, m Module) error)
}

// DoneNotifier is implemented by compilations that announce their end.
type DoneNotifier interface {
	OnDone(name string, fn func())
}
