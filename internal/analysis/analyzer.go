// Package analysis aggregates naming statistics over Python source trees:
// the most common verbs in function names, the most common function names
// and the most common words in variable references.
package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/QTest-hq/reporeport/internal/discover"
	"github.com/QTest-hq/reporeport/internal/metrics"
	"github.com/QTest-hq/reporeport/internal/naming"
	"github.com/QTest-hq/reporeport/internal/pos"
	"github.com/QTest-hq/reporeport/internal/syntax"
)

// Discoverer lists the source files under a root directory
type Discoverer interface {
	Files(root string) ([]string, error)
}

// FileParser turns one source file into a syntax unit
type FileParser interface {
	ParseFile(ctx context.Context, path string) (*syntax.Unit, error)
}

// Classifier decides whether a word is a verb
type Classifier interface {
	IsVerb(word string) (bool, error)
}

// Options configures an Analyzer
type Options struct {
	// Discoverer defaults to a discover.Finder without excludes.
	Discoverer Discoverer

	// Classifier defaults to a caching classifier over prose.
	Classifier Classifier

	// NewParser creates a parser; one is created per worker and only when
	// there is at least one file to parse. Defaults to syntax.NewParser.
	NewParser func() FileParser

	// Sink receives diagnostics. Defaults to NopSink.
	Sink Sink

	// Workers is the number of files parsed concurrently. Results keep
	// discovery order regardless. Defaults to 1.
	Workers int
}

// Analyzer runs the extraction pipeline over directory trees
type Analyzer struct {
	discoverer Discoverer
	classifier Classifier
	newParser  func() FileParser
	sink       Sink
	workers    int
}

// Summary holds the results of one pass over a root directory
type Summary struct {
	Root          string     `json:"root"`
	Files         int        `json:"files"`
	Parsed        int        `json:"parsed"`
	Skipped       int        `json:"skipped"`
	Verbs         RankedList `json:"verbs,omitempty"`
	FunctionNames RankedList `json:"function_names,omitempty"`
	Words         RankedList `json:"words,omitempty"`
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(opts Options) *Analyzer {
	a := &Analyzer{
		discoverer: opts.Discoverer,
		classifier: opts.Classifier,
		newParser:  opts.NewParser,
		sink:       opts.Sink,
		workers:    opts.Workers,
	}
	if a.discoverer == nil {
		a.discoverer = &discover.Finder{}
	}
	if a.classifier == nil {
		a.classifier = pos.NewClassifier(pos.NewProseTagger())
	}
	if a.newParser == nil {
		a.newParser = func() FileParser { return syntax.NewParser() }
	}
	if a.sink == nil {
		a.sink = NopSink{}
	}
	if a.workers < 1 {
		a.workers = 1
	}
	return a
}

// CollectFunctionNames returns the non-reserved function names defined under
// root, file by file in discovery order, then in walk order within a file.
// Files that fail to parse are reported to the sink and skipped.
func (a *Analyzer) CollectFunctionNames(ctx context.Context, root string) ([]string, error) {
	c, err := a.collect(ctx, root, syntax.FunctionNames)
	if err != nil {
		return nil, err
	}
	return naming.FilterReserved(c.names), nil
}

// CollectWords returns the words of all non-reserved variable references
// under root.
func (a *Analyzer) CollectWords(ctx context.Context, root string) ([]string, error) {
	c, err := a.collect(ctx, root, syntax.ReferenceNames)
	if err != nil {
		return nil, err
	}
	return wordsIn(c.names), nil
}

// TopVerbs returns the topSize most common verbs among the words of the
// function names under root. A classifier failure aborts the whole call.
func (a *Analyzer) TopVerbs(ctx context.Context, root string, topSize int) (RankedList, error) {
	names, err := a.CollectFunctionNames(ctx, root)
	if err != nil {
		return nil, err
	}
	verbs, err := a.verbsIn(names)
	if err != nil {
		return nil, err
	}
	return NewCounter(verbs...).MostCommon(topSize), nil
}

// TopFunctionNames returns the topSize most common function names under root
func (a *Analyzer) TopFunctionNames(ctx context.Context, root string, topSize int) (RankedList, error) {
	names, err := a.CollectFunctionNames(ctx, root)
	if err != nil {
		return nil, err
	}
	return NewCounter(names...).MostCommon(topSize), nil
}

// TopWords returns the topSize most common words in variable references
func (a *Analyzer) TopWords(ctx context.Context, root string, topSize int) (RankedList, error) {
	words, err := a.CollectWords(ctx, root)
	if err != nil {
		return nil, err
	}
	return NewCounter(words...).MostCommon(topSize), nil
}

// Summarize computes verbs and function names in a single pass over root
func (a *Analyzer) Summarize(ctx context.Context, root string, topSize int) (*Summary, error) {
	c, err := a.collect(ctx, root, syntax.FunctionNames)
	if err != nil {
		return nil, err
	}
	names := naming.FilterReserved(c.names)

	verbs, err := a.verbsIn(names)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Root:          root,
		Files:         c.files,
		Parsed:        c.parsed,
		Skipped:       c.files - c.parsed,
		Verbs:         NewCounter(verbs...).MostCommon(topSize),
		FunctionNames: NewCounter(names...).MostCommon(topSize),
	}, nil
}

// SummarizeFunctions computes the most common function names in one pass
// over root without classifying any words.
func (a *Analyzer) SummarizeFunctions(ctx context.Context, root string, topSize int) (*Summary, error) {
	c, err := a.collect(ctx, root, syntax.FunctionNames)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Root:          root,
		Files:         c.files,
		Parsed:        c.parsed,
		Skipped:       c.files - c.parsed,
		FunctionNames: NewCounter(naming.FilterReserved(c.names)...).MostCommon(topSize),
	}, nil
}

// SummarizeWords computes the most common reference words in one pass over root
func (a *Analyzer) SummarizeWords(ctx context.Context, root string, topSize int) (*Summary, error) {
	c, err := a.collect(ctx, root, syntax.ReferenceNames)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Root:    root,
		Files:   c.files,
		Parsed:  c.parsed,
		Skipped: c.files - c.parsed,
		Words:   NewCounter(wordsIn(c.names)...).MostCommon(topSize),
	}, nil
}

func wordsIn(names []string) []string {
	var words []string
	for _, name := range naming.FilterReserved(names) {
		words = append(words, naming.Split(name)...)
	}
	return words
}

func (a *Analyzer) verbsIn(names []string) ([]string, error) {
	var verbs []string
	for _, name := range names {
		for _, word := range naming.Split(name) {
			ok, err := a.classifier.IsVerb(word)
			if err != nil {
				return nil, fmt.Errorf("function %q: %w", name, err)
			}
			if ok {
				verbs = append(verbs, word)
			}
		}
	}
	return verbs, nil
}

type collection struct {
	files  int
	parsed int
	names  []string
}

// fileResult is the outcome of extracting names from a single file
type fileResult struct {
	names []string
	ok    bool
}

func (a *Analyzer) collect(ctx context.Context, root string, extract func(*syntax.Unit) []string) (*collection, error) {
	files, err := a.discoverer.Files(root)
	if err != nil {
		return nil, fmt.Errorf("discovering files in %s: %w", root, err)
	}

	metrics.FilesDiscovered(len(files))
	a.sink.Info(fmt.Sprintf("total %d files", len(files)), Fields{"path": root})

	c := &collection{files: len(files)}
	if len(files) == 0 {
		return c, nil
	}

	var results []fileResult
	if a.workers == 1 || len(files) == 1 {
		results, err = a.parseSequential(ctx, files, extract)
	} else {
		results, err = a.parseConcurrent(ctx, files, extract)
	}
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.ok {
			c.parsed++
			c.names = append(c.names, r.names...)
		}
	}
	return c, nil
}

func (a *Analyzer) parseSequential(ctx context.Context, files []string, extract func(*syntax.Unit) []string) ([]fileResult, error) {
	parser := a.newParser()
	results := make([]fileResult, len(files))
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = a.extractFile(ctx, parser, path, extract)
	}
	return results, nil
}

func (a *Analyzer) parseConcurrent(ctx context.Context, files []string, extract func(*syntax.Unit) []string) ([]fileResult, error) {
	numWorkers := a.workers
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	results := make([]fileResult, len(files))
	work := make(chan int)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(work)
		for i := range files {
			select {
			case work <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range numWorkers {
		g.Go(func() error {
			// tree-sitter parsers are not safe for concurrent use
			parser := a.newParser()
			for idx := range work {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[idx] = a.extractFile(gctx, parser, files[idx], extract)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Analyzer) extractFile(ctx context.Context, parser FileParser, path string, extract func(*syntax.Unit) []string) fileResult {
	unit, err := parser.ParseFile(ctx, path)
	if err != nil {
		metrics.FileProcessed(metrics.OutcomeSkipped)
		a.sink.Warn("skipping file", err, Fields{"file": path})
		return fileResult{}
	}
	metrics.FileProcessed(metrics.OutcomeParsed)
	return fileResult{names: extract(unit), ok: true}
}
