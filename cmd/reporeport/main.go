package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/QTest-hq/reporeport/internal/analysis"
	"github.com/QTest-hq/reporeport/internal/config"
	"github.com/QTest-hq/reporeport/internal/discover"
	"github.com/QTest-hq/reporeport/internal/fetch"
	"github.com/QTest-hq/reporeport/internal/logging"
	"github.com/QTest-hq/reporeport/internal/pos"
	"github.com/QTest-hq/reporeport/internal/report"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// app holds flag values and the environment shared by all commands
type app struct {
	stdout io.Writer
	stderr io.Writer

	env    *config.Config
	logger zerolog.Logger

	topSize    int
	configPath string
	workers    int
	fetch      bool
	exclude    []string
	gitignore  bool
	jsonOut    bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "reporeport [paths...]",
		Short: "Report the most common verbs in Python function names",
		Long: `reporeport scans Python projects, splits function names into words and
reports the most common verbs. Without paths the projects listed in
.reporeport.yaml are used, or django, flask, pyramid, reddit, requests and
sqlalchemy under the current directory.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report(cmd, args, report.KindVerbs)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.IntVarP(&a.topSize, "topsize", "t", 10, "Number of entries to report")
	pf.StringVarP(&a.configPath, "config", "c", "", "Project configuration file (default ./.reporeport.yaml)")
	pf.IntVar(&a.workers, "workers", 1, "Number of files parsed concurrently")
	pf.BoolVar(&a.fetch, "fetch", false, "Clone missing projects that have a url")
	pf.StringSliceVar(&a.exclude, "exclude", nil, "Glob patterns of paths to skip")
	pf.BoolVar(&a.gitignore, "gitignore", false, "Skip files matched by each project's .gitignore")
	pf.BoolVar(&a.jsonOut, "json", false, "Write the report to stdout as JSON")

	rootCmd.AddCommand(a.functionsCmd())
	rootCmd.AddCommand(a.wordsCmd())
	rootCmd.AddCommand(a.parseCmd())
	rootCmd.AddCommand(a.initCmd())
	rootCmd.AddCommand(a.serveCmd())

	return rootCmd
}

func (a *app) functionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions [paths...]",
		Short: "Report the most common function names",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report(cmd, args, report.KindFunctions)
		},
	}
}

func (a *app) wordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "words [paths...]",
		Short: "Report the most common words in variable names",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report(cmd, args, report.KindWords)
		},
	}
}

// setup loads the environment and installs the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	env, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("workers") {
		env.Workers = a.workers
	}
	// The environment's top size is only a fallback
	if cmd.Flags().Changed("topsize") {
		if a.topSize < 1 {
			return fmt.Errorf("topsize must be at least 1, got %d", a.topSize)
		}
		env.TopSize = a.topSize
	} else if a.projectConfigPath() != "" {
		env.TopSize = config.DefaultProjectConfig().TopSize
	}
	if err := env.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.Setup(a.stderr, env.Env, env.LogLevel)
	if err != nil {
		return err
	}

	a.env = env
	a.logger = logger
	return nil
}

// projectConfigPath returns the -c path or the project file found in the
// working directory, or "" when there is none
func (a *app) projectConfigPath() string {
	if a.configPath != "" {
		return a.configPath
	}
	path, _ := config.FindProjectConfig(".")
	return path
}

// loadProjects resolves the projects to analyze. Flags override the
// configuration file; without a file the environment supplies the top size.
func (a *app) loadProjects(cmd *cobra.Command, args []string) (*config.ProjectConfig, error) {
	path := a.projectConfigPath()

	var cfg *config.ProjectConfig
	if path != "" {
		loaded, err := config.LoadProjectConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load project config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultProjectConfig()
		cfg.TopSize = a.env.TopSize
	}

	override := &config.ProjectConfig{
		Exclude:          a.exclude,
		RespectGitignore: a.gitignore,
	}
	if cmd.Flags().Changed("topsize") {
		override.TopSize = a.topSize
	}
	if len(args) > 0 {
		override.BaseDir = "."
		override.Projects = config.ProjectsFromPaths(args)
	}
	cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) newAnalyzer(projects *config.ProjectConfig) (*analysis.Analyzer, error) {
	finder, err := discover.NewFinder(discover.Options{
		Exclude:          projects.Exclude,
		RespectGitignore: projects.RespectGitignore,
	})
	if err != nil {
		return nil, err
	}

	var opts []pos.Option
	if !a.env.Cache {
		opts = append(opts, pos.WithoutCache())
	}

	return analysis.NewAnalyzer(analysis.Options{
		Discoverer: finder,
		Classifier: pos.NewClassifier(pos.NewProseTagger(), opts...),
		Sink:       analysis.NewLogSink(a.logger),
		Workers:    a.env.Workers,
	}), nil
}

func (a *app) report(cmd *cobra.Command, args []string, kind report.Kind) error {
	projects, err := a.loadProjects(cmd, args)
	if err != nil {
		return err
	}

	analyzer, err := a.newAnalyzer(projects)
	if err != nil {
		return err
	}

	var opts []report.Option
	if a.fetch {
		opts = append(opts, report.WithFetcher(fetch.NewFetcher(a.env.WorkDir, fetch.WithToken(a.env.GitHubToken))))
	}

	rep, err := report.NewRunner(analyzer, opts...).Run(cmd.Context(), projects, kind)
	if err != nil {
		return err
	}

	if a.jsonOut {
		return rep.WriteJSON(a.stdout)
	}
	rep.Log(log.Logger)
	return nil
}
