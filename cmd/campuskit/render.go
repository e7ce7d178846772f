package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/campuskit/campuskit"
	"github.com/campuskit/campuskit/internal/slug"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// RendererPool abstracts the renderer pool for testability.
type RendererPool interface {
	Acquire(ctx context.Context) (*campuskit.Renderer, error)
	Release(r *campuskit.Renderer)
	Size() int
}

// Compile-time interface implementation check.
var _ RendererPool = (*campuskit.RendererPool)(nil)

// RenderResult holds the outcome of rendering one project.
type RenderResult struct {
	InputPath string
	Outputs   []string
	Err       error
	Duration  time.Duration
}

// projectRenderer holds the settings shared by every project of a batch.
type projectRenderer struct {
	mode    campuskit.Mode
	baseURL string
	outDir  string // "" = parent directory of each project
	exports []campuskit.ExportOptions
	pool    RendererPool // nil when no export was requested
	workers int
	owners  map[string]string // output base -> project dir that owns it
}

// runRender orchestrates the render command.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, dirs, err := parseRenderFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return ErrNoInput
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	mode, err := campuskit.ParseMode(flags.mode)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg, env.Config)
	if err != nil {
		return err
	}
	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout, cfg.Render.Timeout)
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = cfg.Render.Workers
	}

	r := &projectRenderer{
		mode:    mode,
		baseURL: flags.baseURL,
		outDir:  flags.output,
		exports: exportRequests(flags.export),
		workers: campuskit.ResolvePoolSize(workers),
	}
	for _, opts := range r.exports {
		if err := opts.Validate(); err != nil {
			return err
		}
	}

	r.claimOutputs(dirs)

	if len(r.exports) > 0 {
		pool := campuskit.NewRendererPool(r.workers, env.rendererOptions(timeout)...)
		defer pool.Close()
		r.pool = pool
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Rendering %d project(s), mode %s, %d worker(s)\n", len(dirs), mode, r.workers)
	}

	results := r.renderBatch(ctx, dirs)
	failed := printResults(results, flags.common.quiet, flags.common.verbose, env)

	if flags.watch {
		return r.watch(ctx, dirs, flags.common, env)
	}

	if len(results) == 1 && results[0].Err != nil {
		return results[0].Err
	}
	if failed > 0 {
		return fmt.Errorf("%d render(s) failed", failed)
	}
	return nil
}

// exportRequests turns --pdf/--png into export options.
func exportRequests(f exportFlags) []campuskit.ExportOptions {
	var out []campuskit.ExportOptions
	if f.pdf {
		out = append(out, campuskit.ExportOptions{Format: campuskit.FormatPDF})
	}
	if f.png {
		out = append(out, campuskit.ExportOptions{
			Format: campuskit.FormatPNG,
			Width:  f.width,
			Height: f.height,
			Full:   f.full,
		})
	}
	return out
}

// validateWorkers rejects negative and excessive worker counts.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkerCount, n)
	}
	if n > campuskit.MaxPoolSize {
		return fmt.Errorf("%w: %d (max %d)", ErrInvalidWorkerCount, n, campuskit.MaxPoolSize)
	}
	return nil
}

// renderBatch renders projects concurrently. Results keep the input order.
func (r *projectRenderer) renderBatch(ctx context.Context, dirs []string) []RenderResult {
	if len(dirs) == 0 {
		return nil
	}

	concurrency := r.workers
	if concurrency > len(dirs) {
		concurrency = len(dirs)
	}

	results := make([]RenderResult, len(dirs))
	var wg sync.WaitGroup
	jobs := make(chan int, len(dirs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{InputPath: dirs[idx], Err: ctx.Err()}
					continue
				}
				results[idx] = r.renderProject(ctx, dirs[idx])
			}
		}()
	}

	for i := range dirs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderProject assembles one project and writes the document and any
// requested snapshots.
func (r *projectRenderer) renderProject(ctx context.Context, dir string) RenderResult {
	start := time.Now()
	result := RenderResult{InputPath: dir}
	finish := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	p, err := loadProject(dir)
	if err != nil {
		return finish(err)
	}
	if p.Type.IsFile() {
		return finish(fmt.Errorf("%w: %s is a %s project, only CODE projects render", campuskit.ErrInvalidContentType, dir, p.Type))
	}

	doc, err := campuskit.Assemble(campuskit.Input{
		Bundle: p.Bundle,
		Assets: p.rendererAssets(r.baseURL),
		Title:  p.Title(),
		Mode:   r.mode,
	})
	if err != nil {
		return finish(err)
	}

	base := r.outputBase(p.Dir)
	if owner, ok := r.owners[base]; ok && owner != p.Dir {
		return finish(fmt.Errorf("%w: %s and %s both write %s.html", ErrOutputCollision, owner, p.Dir, base))
	}
	if err := os.MkdirAll(filepath.Dir(base), dirPermissions); err != nil {
		return finish(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	if err := writeOutput(base+".html", []byte(doc)); err != nil {
		return finish(err)
	}
	result.Outputs = append(result.Outputs, base+".html")

	for _, opts := range r.exports {
		data, err := r.export(ctx, []byte(doc), opts)
		if err != nil {
			return finish(err)
		}
		path := base + "." + opts.Format.String()
		if err := writeOutput(path, data); err != nil {
			return finish(err)
		}
		result.Outputs = append(result.Outputs, path)
	}

	return finish(nil)
}

// claimOutputs assigns each output base to the first project that maps to
// it, in argument order. Later projects with the same base fail to render.
func (r *projectRenderer) claimOutputs(dirs []string) {
	r.owners = make(map[string]string, len(dirs))
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		base := r.outputBase(abs)
		if _, taken := r.owners[base]; !taken {
			r.owners[base] = abs
		}
	}
}

// outputBase returns the output path without extension for the project at
// the absolute path dir: its slug in outDir, or beside the project directory.
func (r *projectRenderer) outputBase(dir string) string {
	out := r.outDir
	if out == "" {
		out = filepath.Dir(dir)
	}
	name := slug.Make(filepath.Base(dir))
	if name == "" {
		name = "project"
	}
	if r.mode != campuskit.ModePublished {
		name += "." + r.mode.String()
	}
	return filepath.Join(out, name)
}

func (r *projectRenderer) export(ctx context.Context, doc []byte, opts campuskit.ExportOptions) ([]byte, error) {
	rd, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(rd)
	return rd.Export(ctx, doc, opts)
}

func writeOutput(path string, data []byte) error {
	// #nosec G306 -- rendered documents are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed renders.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed renders.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs render results and returns the failure count.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		if quiet {
			continue
		}
		for _, out := range r.Outputs {
			if verbose {
				fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, out, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "Created %s\n", out)
			}
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
