package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in a directory
const FileName = ".reporeport.yaml"

// DefaultProjects are analyzed when nothing else is configured
var DefaultProjects = []string{
	"django",
	"flask",
	"pyramid",
	"reddit",
	"requests",
	"sqlalchemy",
}

// ProjectConfig represents a .reporeport.yaml file
type ProjectConfig struct {
	Version string `yaml:"version"`

	// Number of entries to report per list
	TopSize int `yaml:"top_size,omitempty"`

	// Directory that relative project paths are resolved against
	BaseDir string `yaml:"base_dir,omitempty"`

	// Codebases to analyze
	Projects []Project `yaml:"projects"`

	// Doublestar patterns excluded from discovery
	Exclude []string `yaml:"exclude,omitempty"`

	// Skip files matched by each project's .gitignore
	RespectGitignore bool `yaml:"respect_gitignore,omitempty"`
}

// Project is one codebase to analyze
type Project struct {
	Name string `yaml:"name"`

	// Path to the checkout; defaults to Name under BaseDir
	Path string `yaml:"path,omitempty"`

	// Git URL used to clone the project when Path does not exist
	URL string `yaml:"url,omitempty"`

	// Branch or tag to clone
	Ref string `yaml:"ref,omitempty"`
}

// DefaultProjectConfig returns sensible defaults
func DefaultProjectConfig() *ProjectConfig {
	projects := make([]Project, len(DefaultProjects))
	for i, name := range DefaultProjects {
		projects[i] = Project{Name: name}
	}
	return &ProjectConfig{
		Version:  "1.0",
		TopSize:  10,
		BaseDir:  ".",
		Projects: projects,
	}
}

// FindProjectConfig returns the path of .reporeport.yaml (or .yml) in dir
func FindProjectConfig(dir string) (string, bool) {
	for _, name := range []string{FileName, ".reporeport.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// LoadProjectConfig loads .reporeport.yaml (or .yml) from dir, falling back
// to defaults when neither exists.
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	configPath, ok := FindProjectConfig(dir)
	if !ok {
		return DefaultProjectConfig(), nil
	}
	return LoadProjectConfigFile(configPath)
}

// LoadProjectConfigFile loads a project configuration from an explicit path
func LoadProjectConfigFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// SaveProjectConfig saves the config to .reporeport.yaml in dir
func SaveProjectConfig(dir string, cfg *ProjectConfig) error {
	configPath := filepath.Join(dir, FileName)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Validate checks the configuration for unusable values
func (c *ProjectConfig) Validate() error {
	if c.TopSize < 1 {
		return fmt.Errorf("top_size must be at least 1, got %d", c.TopSize)
	}
	seen := make(map[string]struct{}, len(c.Projects))
	for i, p := range c.Projects {
		if p.Name == "" {
			return fmt.Errorf("project %d has no name", i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate project %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Merge applies overrides from another config (e.g., CLI flags)
func (c *ProjectConfig) Merge(other *ProjectConfig) {
	if other == nil {
		return
	}

	if other.TopSize != 0 {
		c.TopSize = other.TopSize
	}

	if other.BaseDir != "" {
		c.BaseDir = other.BaseDir
	}

	if len(other.Projects) > 0 {
		c.Projects = other.Projects
	}

	if len(other.Exclude) > 0 {
		c.Exclude = other.Exclude
	}

	if other.RespectGitignore {
		c.RespectGitignore = true
	}
}

// ProjectPath returns the directory analyzed for p
func (c *ProjectConfig) ProjectPath(p Project) string {
	path := p.Path
	if path == "" {
		path = p.Name
	}
	if filepath.IsAbs(path) {
		return path
	}
	base := c.BaseDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, path)
}

// FindProject returns the project named name
func (c *ProjectConfig) FindProject(name string) (Project, bool) {
	for _, p := range c.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}

// ProjectsFromPaths builds projects from command line paths, using each
// path's base name as the project name.
func ProjectsFromPaths(paths []string) []Project {
	projects := make([]Project, 0, len(paths))
	for _, p := range paths {
		projects = append(projects, Project{Name: filepath.Base(filepath.Clean(p)), Path: p})
	}
	return projects
}
