package latex

import (
	"context"
	"fmt"
	"time"

	"resumeforge/internal/logging"
	"resumeforge/pkg/models"
	"resumeforge/pkg/utils"
)

// CompilationRequest is one unit of work for the engine
type CompilationRequest struct {
	Resume       models.ResumeData
	TemplateID   string
	OutputFormat models.OutputFormat
}

// CompilationResult holds whatever the requested output format asked for.
// PDF and Source are never partially populated: a failed compilation
// returns an error, not a truncated artifact.
type CompilationResult struct {
	PDF      []byte
	Source   string
	Log      string
	Duration time.Duration
}

// Engine composes resume data into LaTeX and drives the external compiler.
// Templates are immutable and the pool is the only shared mutable state,
// so one Engine serves all concurrent requests.
type Engine struct {
	store    *Store
	compiler Compiler
	pool     *CompilePool
	logger   logging.Logger
}

// NewEngine wires the template store, compiler capability and concurrency
// pool together.
func NewEngine(store *Store, compiler Compiler, pool *CompilePool) *Engine {
	return &Engine{
		store:    store,
		compiler: compiler,
		pool:     pool,
		logger:   logging.GetGlobalLogger().WithField("component", "latex_engine"),
	}
}

// Templates exposes the read-only template store
func (e *Engine) Templates() *Store {
	return e.store
}

// PoolStats exposes a snapshot of the compile pool counters
func (e *Engine) PoolStats() PoolStats {
	return e.pool.Stats()
}

// Shutdown stops accepting new compilations; in-flight work finishes or is
// cancelled by its own context.
func (e *Engine) Shutdown() {
	e.pool.Shutdown()
}

// Compile runs the full pipeline: escape + build section fragments,
// substitute them into the selected template, and - only when a rendered
// artifact was requested - invoke the external compiler under the pool's
// concurrency ceiling.
func (e *Engine) Compile(ctx context.Context, req CompilationRequest) (*CompilationResult, error) {
	start := time.Now()

	format := req.OutputFormat
	if format == "" {
		format = models.FormatBoth
	}
	if !format.Valid() {
		return nil, newError(KindValidation, fmt.Sprintf("unknown output format %q", format))
	}

	tmpl, ok := e.store.Get(req.TemplateID)
	if !ok {
		return nil, newError(KindValidation, fmt.Sprintf("unknown template %q", req.TemplateID))
	}

	source := tmpl.Compose(BuildFragments(req.Resume))

	result := &CompilationResult{}
	if format.WantsSource() {
		result.Source = source
	}

	// Source-only requests never touch the external toolchain
	if !format.WantsRendered() {
		result.Duration = time.Since(start)
		return result, nil
	}

	if err := e.pool.Acquire(ctx); err != nil {
		e.logger.Warn("Compile request rejected", map[string]interface{}{
			"template": tmpl.ID,
			"error":    err.Error(),
		})
		return nil, err
	}

	compileStart := time.Now()
	pdf, log, err := e.compiler.Compile(ctx, source)
	e.pool.Release(time.Since(compileStart), err == nil)

	if err != nil {
		e.logger.Error("LaTeX compilation failed", map[string]interface{}{
			"template": tmpl.ID,
			"error":    err.Error(),
		})
		return nil, err
	}

	result.PDF = pdf
	result.Log = log
	result.Duration = time.Since(start)

	e.logger.Info("Resume compiled", map[string]interface{}{
		"template":  tmpl.ID,
		"format":    string(format),
		"pdf_bytes": len(pdf),
		"duration":  utils.FormatDuration(result.Duration),
	})
	return result, nil
}
