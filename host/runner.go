package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"modsource/internal/logging"
	"modsource/plugin"
)

// Result is the outcome of running a module's pending steps.
type Result struct {
	Request string
	Path    string
	Source  string
	Applied []int // rule indexes, in execution order
}

// Runner reads module sources and executes their pending steps.
type Runner struct {
	loader      plugin.Loader
	dir         string
	readFile    func(string) ([]byte, error)
	concurrency int
}

type RunnerOption func(*Runner)

// WithDir resolves relative module paths against dir.
func WithDir(dir string) RunnerOption { return func(r *Runner) { r.dir = dir } }

// WithReadFile replaces os.ReadFile.
func WithReadFile(fn func(string) ([]byte, error)) RunnerOption {
	return func(r *Runner) { r.readFile = fn }
}

// WithConcurrency bounds RunAll; n <= 0 means unbounded.
func WithConcurrency(n int) RunnerOption { return func(r *Runner) { r.concurrency = n } }

func NewRunner(loader plugin.Loader, opts ...RunnerOption) *Runner {
	r := &Runner{loader: loader, readFile: os.ReadFile, concurrency: 4}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run reads m's source and pipes it through m's steps in order. Steps for
// other loaders are left to the host and skipped here.
func (r *Runner) Run(ctx context.Context, m *Module) (Result, error) {
	path := plugin.CanonicalPath(m.Request())
	res := Result{Request: m.Request(), Path: path}

	file := filepath.FromSlash(path)
	if r.dir != "" && !filepath.IsAbs(file) {
		file = filepath.Join(r.dir, file)
	}
	raw, err := r.readFile(file)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}
	src := string(raw)

	for _, st := range m.Steps() {
		if st.Loader != plugin.LoaderEntryPoint {
			logging.L().Debug("skipping foreign loader", "path", path, "loader", st.Loader)
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		src, err = r.loader.Load(ctx, st.Options, src)
		if err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}
		res.Applied = append(res.Applied, st.Options.RuleIndex)
	}
	res.Source = src
	return res, nil
}

// RunAll runs every module concurrently and returns results in input order.
// The first error cancels the remaining work.
func (r *Runner) RunAll(ctx context.Context, mods []*Module) ([]Result, error) {
	out := make([]Result, len(mods))
	g, ctx := errgroup.WithContext(ctx)
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for i, m := range mods {
		i, m := i, m
		g.Go(func() error {
			res, err := r.Run(ctx, m)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
