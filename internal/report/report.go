// Package report runs the analysis over a set of projects and merges the
// per-project rankings into run totals.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/QTest-hq/reporeport/internal/analysis"
	"github.com/QTest-hq/reporeport/internal/config"
	"github.com/QTest-hq/reporeport/internal/fetch"
)

// Kind selects which ranking a run produces
type Kind string

const (
	KindVerbs     Kind = "verbs"
	KindFunctions Kind = "functions"
	KindWords     Kind = "words"
)

// ParseKind validates a kind name
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindVerbs, KindFunctions, KindWords:
		return k, nil
	}
	return "", fmt.Errorf("unknown report kind %q", s)
}

// Analyzer is the subset of analysis.Analyzer a run needs
type Analyzer interface {
	Summarize(ctx context.Context, root string, topSize int) (*analysis.Summary, error)
	SummarizeFunctions(ctx context.Context, root string, topSize int) (*analysis.Summary, error)
	SummarizeWords(ctx context.Context, root string, topSize int) (*analysis.Summary, error)
}

// Fetcher makes a project available locally
type Fetcher interface {
	Ensure(ctx context.Context, p config.Project, path string) (*fetch.Result, error)
}

// ProjectResult is the ranking for one project
type ProjectResult struct {
	Name      string              `json:"name"`
	Path      string              `json:"path"`
	CommitSHA string              `json:"commit_sha,omitempty"`
	Files     int                 `json:"files"`
	Parsed    int                 `json:"parsed"`
	Skipped   int                 `json:"skipped"`
	Top       analysis.RankedList `json:"top"`
	Error     string              `json:"error,omitempty"`
}

// Report is the outcome of one run over all configured projects
type Report struct {
	RunID       string              `json:"run_id"`
	Kind        Kind                `json:"kind"`
	TopSize     int                 `json:"top_size"`
	StartedAt   time.Time           `json:"started_at"`
	FinishedAt  time.Time           `json:"finished_at"`
	Projects    []ProjectResult     `json:"projects"`
	Total       analysis.RankedList `json:"total"`
	TotalWords  int                 `json:"total_words"`
	UniqueWords int                 `json:"unique_words"`
}

// Runner executes runs
type Runner struct {
	analyzer Analyzer
	fetcher  Fetcher
	logger   zerolog.Logger
	now      func() time.Time
}

// Option configures a Runner
type Option func(*Runner)

// WithFetcher clones missing projects before analyzing them
func WithFetcher(f Fetcher) Option {
	return func(r *Runner) { r.fetcher = f }
}

// WithLogger sets the logger used for output lines
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a runner over analyzer
func NewRunner(analyzer Analyzer, opts ...Option) *Runner {
	r := &Runner{
		analyzer: analyzer,
		logger:   log.Logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run analyzes every project of cfg in order. Each project contributes its
// top cfg.TopSize entries; the totals sum those entries' counts per key.
// A classification failure aborts the run. A project that cannot be fetched
// is recorded with its error and contributes nothing.
func (r *Runner) Run(ctx context.Context, cfg *config.ProjectConfig, kind Kind) (*Report, error) {
	if cfg.TopSize < 1 {
		return nil, fmt.Errorf("top size must be at least 1, got %d", cfg.TopSize)
	}

	rep := &Report{
		RunID:     uuid.New().String(),
		Kind:      kind,
		TopSize:   cfg.TopSize,
		StartedAt: r.now(),
		Projects:  make([]ProjectResult, 0, len(cfg.Projects)),
	}

	total := analysis.NewCounter()
	for _, p := range cfg.Projects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := r.runProject(ctx, cfg, p, kind)
		if err != nil {
			return nil, err
		}
		for _, e := range result.Top {
			total.Add(e.Key, e.Count)
		}
		rep.Projects = append(rep.Projects, *result)
	}

	rep.Total = total.MostCommon(cfg.TopSize)
	rep.TotalWords = total.Total()
	rep.UniqueWords = total.Len()
	rep.FinishedAt = r.now()
	return rep, nil
}

func (r *Runner) runProject(ctx context.Context, cfg *config.ProjectConfig, p config.Project, kind Kind) (*ProjectResult, error) {
	result := &ProjectResult{Name: p.Name, Path: cfg.ProjectPath(p)}

	if r.fetcher != nil {
		fetched, err := r.fetcher.Ensure(ctx, p, result.Path)
		switch {
		case errors.Is(err, fetch.ErrNoSource):
			// Analyzed as is; a missing directory yields zero files
			r.logger.Debug().Str("project", p.Name).Msg("no source to fetch from")
		case err != nil:
			r.logger.Warn().Err(err).Str("project", p.Name).Msg("skipping project")
			result.Error = err.Error()
			return result, nil
		default:
			result.Path = fetched.Path
			result.CommitSHA = fetched.CommitSHA
		}
	}

	summary, err := r.summarize(ctx, result.Path, cfg.TopSize, kind)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", p.Name, err)
	}

	result.Files = summary.Files
	result.Parsed = summary.Parsed
	result.Skipped = summary.Skipped
	result.Top = pick(summary, kind)
	return result, nil
}

func (r *Runner) summarize(ctx context.Context, root string, topSize int, kind Kind) (*analysis.Summary, error) {
	switch kind {
	case KindFunctions:
		return r.analyzer.SummarizeFunctions(ctx, root, topSize)
	case KindWords:
		return r.analyzer.SummarizeWords(ctx, root, topSize)
	default:
		return r.analyzer.Summarize(ctx, root, topSize)
	}
}

func pick(s *analysis.Summary, kind Kind) analysis.RankedList {
	switch kind {
	case KindFunctions:
		return s.FunctionNames
	case KindWords:
		return s.Words
	default:
		return s.Verbs
	}
}

// Log writes the run totals as log lines: a summary line followed by one
// "word count" line per entry, most frequent first.
func (rep *Report) Log(logger zerolog.Logger) {
	logger.Info().
		Str("run_id", rep.RunID).
		Msgf("total %d words, %d unique", rep.TotalWords, rep.UniqueWords)
	for _, e := range rep.Total {
		logger.Info().Msgf("%s %d", e.Key, e.Count)
	}
}

// WriteJSON writes the report as indented JSON
func (rep *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
