// Package fetch makes target projects available on local disk, cloning
// them with go-git when they are missing.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rs/zerolog/log"

	"github.com/QTest-hq/reporeport/internal/config"
)

// ErrNoSource is returned when a project is missing locally and has no URL
var ErrNoSource = errors.New("project not found locally and has no url")

// Fetcher resolves projects to local checkouts
type Fetcher struct {
	workDir string
	token   string
	depth   int
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithToken authenticates HTTPS clones with a personal access token
func WithToken(token string) Option {
	return func(f *Fetcher) { f.token = token }
}

// WithDepth sets the clone depth; 0 clones full history
func WithDepth(depth int) Option {
	return func(f *Fetcher) { f.depth = depth }
}

// NewFetcher creates a fetcher that clones into workDir
func NewFetcher(workDir string, opts ...Option) *Fetcher {
	f := &Fetcher{workDir: workDir, depth: 1}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Result describes where a project lives on disk
type Result struct {
	Path      string
	CommitSHA string // empty when Path is not a git repository
	Branch    string
	Cloned    bool
}

// CheckoutPath returns where a project is cloned to
func (f *Fetcher) CheckoutPath(p config.Project) string {
	return filepath.Join(f.workDir, p.Name)
}

// Ensure returns a local directory for p. path is the configured location;
// when it exists it is used as is. Otherwise a previous checkout under the
// work directory is reused, or the project is cloned from its URL.
func (f *Fetcher) Ensure(ctx context.Context, p config.Project, path string) (*Result, error) {
	if isDir(path) {
		return describe(path, false), nil
	}

	checkout := f.CheckoutPath(p)
	if isDir(checkout) {
		log.Debug().Str("project", p.Name).Str("path", checkout).Msg("using existing checkout")
		return describe(checkout, false), nil
	}

	if p.URL == "" {
		return nil, fmt.Errorf("%s: %w", p.Name, ErrNoSource)
	}

	return f.clone(ctx, p, checkout)
}

func (f *Fetcher) clone(ctx context.Context, p config.Project, dir string) (*Result, error) {
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	log.Info().
		Str("project", p.Name).
		Str("url", p.URL).
		Str("path", dir).
		Msg("cloning repository")

	cloneOpts := &git.CloneOptions{
		URL:   p.URL,
		Depth: f.depth,
	}

	if f.token != "" && strings.HasPrefix(p.URL, "https://") {
		cloneOpts.Auth = &http.BasicAuth{
			Username: "git",
			Password: f.token,
		}
	}

	if p.Ref != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(p.Ref)
		cloneOpts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, dir, false, cloneOpts)
	if err != nil && p.Ref != "" && refMissing(err) {
		// Ref may name a tag rather than a branch
		log.Debug().Str("ref", p.Ref).Msg("branch not found, trying tag")
		os.RemoveAll(dir)
		cloneOpts.ReferenceName = plumbing.NewTagReferenceName(p.Ref)
		repo, err = git.PlainCloneContext(ctx, dir, false, cloneOpts)
	}
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to clone %s: %w", p.Name, err)
	}

	result := &Result{Path: dir, Cloned: true}
	if head, err := repo.Head(); err == nil {
		result.CommitSHA = head.Hash().String()
		result.Branch = head.Name().Short()
	}

	log.Info().
		Str("project", p.Name).
		Str("commit", shortSHA(result.CommitSHA)).
		Str("branch", result.Branch).
		Msg("clone complete")

	return result, nil
}

// describe reports HEAD information for path when it is a git repository
func describe(path string, cloned bool) *Result {
	result := &Result{Path: path, Cloned: cloned}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: false})
	if err != nil {
		return result
	}
	head, err := repo.Head()
	if err != nil {
		return result
	}
	result.CommitSHA = head.Hash().String()
	result.Branch = head.Name().Short()
	return result
}

func refMissing(err error) bool {
	return errors.Is(err, plumbing.ErrReferenceNotFound) ||
		errors.Is(err, git.NoMatchingRefSpecError{}) ||
		strings.Contains(err.Error(), "reference not found")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
