package inference

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

// Default thresholds.
const (
	// MinCandidateScore is the lowest score at which a (column, descriptor)
	// pair is kept as a candidate.
	MinCandidateScore = 0.35

	// MinAssignmentScore is the lowest score at which a candidate may be
	// claimed during assignment.
	MinAssignmentScore = 0.5
)

// Options tunes an Engine. The zero value of a field means its default.
type Options struct {
	SampleSize         int
	MinCandidateScore  float64
	MinAssignmentScore float64

	// Concurrency bounds how many frames InferAll scores at once.
	Concurrency int
}

// DefaultOptions returns the reference thresholds.
func DefaultOptions() Options {
	return Options{
		SampleSize:         DefaultSampleSize,
		MinCandidateScore:  MinCandidateScore,
		MinAssignmentScore: MinAssignmentScore,
		Concurrency:        runtime.GOMAXPROCS(0),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.SampleSize <= 0 {
		o.SampleSize = def.SampleSize
	}
	if o.MinCandidateScore <= 0 {
		o.MinCandidateScore = def.MinCandidateScore
	}
	if o.MinAssignmentScore <= 0 {
		o.MinAssignmentScore = def.MinAssignmentScore
	}
	if o.Concurrency <= 0 {
		o.Concurrency = def.Concurrency
	}
	return o
}

// Option configures an Engine.
type Option func(*Engine)

// WithOptions overrides thresholds and sample size.
func WithOptions(o Options) Option {
	return func(e *Engine) { e.opts = o.withDefaults() }
}

// WithRegistry sets the hooks descriptors can refer to.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine infers column mappings against a fixed descriptor set.
type Engine struct {
	descriptors []core.Descriptor
	registry    *Registry
	opts        Options
	logger      *slog.Logger
}

// NewEngine creates an engine for the descriptors, which it copies.
// Descriptor order is significant: it breaks ties between equal scores.
// Names are expected to be unique; see core.ValidateDescriptors.
func NewEngine(descriptors []core.Descriptor, opts ...Option) *Engine {
	e := &Engine{
		descriptors: append([]core.Descriptor(nil), descriptors...),
		registry:    DefaultRegistry(),
		opts:        DefaultOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = DefaultRegistry()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

// Descriptors returns the engine's descriptors in order.
func (e *Engine) Descriptors() []core.Descriptor {
	return append([]core.Descriptor(nil), e.descriptors...)
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Infer maps the frame's columns onto the descriptors.
func (e *Engine) Infer(frame *core.Frame) *Result {
	candidates := e.Candidates(frame)
	return e.assign(frame.ColumnNames(), candidates)
}

// Candidates scores every column against every descriptor and returns the
// pairs scoring at least MinCandidateScore, in column-major discovery order.
func (e *Engine) Candidates(frame *core.Frame) []ColumnMatch {
	var candidates []ColumnMatch

	for _, col := range frame.Columns() {
		sample := Sample(col.Values, e.opts.SampleSize)
		e.logger.Debug("sampled column",
			slog.String("frame", frame.Name),
			slog.String("column", col.Name),
			slog.Int("sample_size", len(sample)))

		for i := range e.descriptors {
			if m, ok := e.score(col.Name, sample, &e.descriptors[i]); ok {
				candidates = append(candidates, m)
			}
		}
	}

	return candidates
}

// score evaluates one (column, descriptor) pair.
func (e *Engine) score(column string, sample []string, d *core.Descriptor) (ColumnMatch, bool) {
	bestScore := 0.0
	bestLabel := d.Name
	var reasons []string

	for _, label := range d.Labels() {
		s, reason := ScoreLabel(column, label, d.Name)
		if reason != "" {
			reasons = append(reasons, reason)
		}
		if s > bestScore {
			bestScore, bestLabel = s, label
		}
	}

	// Content hooks need evidence; an empty sample can only match by name.
	if len(sample) > 0 {
		for _, hook := range e.hooksFor(d) {
			sig, ok := hook.Detect(column, sample, d)
			if !ok {
				continue
			}
			if sig.Reason == "" {
				sig.Reason = string(hook.ID())
			}
			reasons = append(reasons, sig.Reason)
			bestScore = math.Max(bestScore, math.Min(1.0, sig.Score))
		}
	}

	if bestScore < e.opts.MinCandidateScore {
		return ColumnMatch{}, false
	}
	return NewColumnMatch(column, d.Name, bestScore, bestLabel, reasons, len(sample)), true
}

// hooksFor resolves the descriptor's hooks in declaration order, followed by
// the allowed-values hook when the descriptor has a vocabulary but does not
// name the hook itself.
func (e *Engine) hooksFor(d *core.Descriptor) []Hook {
	hooks := make([]Hook, 0, len(d.DetectionHooks)+1)
	seen := make(map[core.HookID]struct{}, len(d.DetectionHooks)+1)

	add := func(id core.HookID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		h, ok := e.registry.Lookup(id)
		if !ok {
			e.logger.Debug("unknown detection hook",
				slog.String("descriptor", d.Name),
				slog.String("hook", string(id)))
			return
		}
		hooks = append(hooks, h)
	}

	for _, id := range d.DetectionHooks {
		add(id)
	}
	if d.HasAllowedValues() && !d.HasHook(core.HookAllowedValues) {
		add(core.HookAllowedValues)
	}
	return hooks
}

// assign claims candidates greedily, highest score first. Equal scores keep
// discovery order. A candidate is skipped when it is below the assignment
// threshold or when its source or canonical is already claimed.
func (e *Engine) assign(sources []string, candidates []ColumnMatch) *Result {
	ranked := make([]ColumnMatch, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	claimedSources := make(map[string]struct{})
	claimedTargets := make(map[string]struct{})
	var chosen []ColumnMatch

	for _, m := range ranked {
		if m.Score < e.opts.MinAssignmentScore {
			continue
		}
		if _, ok := claimedSources[m.Source]; ok {
			continue
		}
		if _, ok := claimedTargets[m.Canonical]; ok {
			continue
		}
		claimedSources[m.Source] = struct{}{}
		claimedTargets[m.Canonical] = struct{}{}
		chosen = append(chosen, m)

		e.logger.Debug("assigned column",
			slog.String("source", m.Source),
			slog.String("canonical", m.Canonical),
			slog.Float64("score", m.Score))
	}

	return NewResult(chosen, sources, core.Names(e.descriptors))
}

// InferAll infers each frame independently, in parallel, and merges the
// results in input order.
func (e *Engine) InferAll(ctx context.Context, frames []*core.Frame) (*Result, error) {
	if len(frames) == 0 {
		return NewResult(nil, nil, core.Names(e.descriptors)), nil
	}

	results := make([]*Result, len(frames))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, f := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.Infer(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Merge(results...), nil
}
