package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultProjectConfig(t *testing.T) {
	cfg := DefaultProjectConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Version = %s, want 1.0", cfg.Version)
	}
	if cfg.TopSize != 10 {
		t.Errorf("TopSize = %d, want 10", cfg.TopSize)
	}
	if cfg.BaseDir != "." {
		t.Errorf("BaseDir = %s, want .", cfg.BaseDir)
	}

	want := []string{"django", "flask", "pyramid", "reddit", "requests", "sqlalchemy"}
	if len(cfg.Projects) != len(want) {
		t.Fatalf("Projects length = %d, want %d", len(cfg.Projects), len(want))
	}
	for i, name := range want {
		if cfg.Projects[i].Name != name {
			t.Errorf("Projects[%d] = %s, want %s", i, cfg.Projects[i].Name, name)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestProjectConfig_Merge(t *testing.T) {
	base := DefaultProjectConfig()

	override := &ProjectConfig{
		TopSize:          3,
		BaseDir:          "/srv/code",
		Projects:         []Project{{Name: "flask"}},
		Exclude:          []string{"**/tests/**"},
		RespectGitignore: true,
	}

	base.Merge(override)

	if base.TopSize != 3 {
		t.Errorf("TopSize = %d, want 3", base.TopSize)
	}
	if base.BaseDir != "/srv/code" {
		t.Errorf("BaseDir = %s, want /srv/code", base.BaseDir)
	}
	if len(base.Projects) != 1 || base.Projects[0].Name != "flask" {
		t.Errorf("Projects = %v, want [flask]", base.Projects)
	}
	if len(base.Exclude) != 1 {
		t.Errorf("Exclude = %v, want one pattern", base.Exclude)
	}
	if !base.RespectGitignore {
		t.Error("RespectGitignore = false, want true")
	}
}

func TestProjectConfig_Merge_NilOverride(t *testing.T) {
	base := DefaultProjectConfig()
	original := base.TopSize

	base.Merge(nil)

	if base.TopSize != original {
		t.Errorf("TopSize changed after nil merge")
	}
}

func TestProjectConfig_Merge_PartialOverride(t *testing.T) {
	base := DefaultProjectConfig()

	base.Merge(&ProjectConfig{TopSize: 5})

	if base.TopSize != 5 {
		t.Errorf("TopSize = %d, want 5", base.TopSize)
	}
	if len(base.Projects) != len(DefaultProjects) {
		t.Errorf("Projects length = %d, want %d", len(base.Projects), len(DefaultProjects))
	}
	if base.BaseDir != "." {
		t.Errorf("BaseDir = %s, want .", base.BaseDir)
	}
}

func TestProjectConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProjectConfig
		wantErr bool
	}{
		{"valid", ProjectConfig{TopSize: 1, Projects: []Project{{Name: "a"}}}, false},
		{"no projects", ProjectConfig{TopSize: 1}, false},
		{"zero top size", ProjectConfig{TopSize: 0}, true},
		{"unnamed project", ProjectConfig{TopSize: 1, Projects: []Project{{Path: "x"}}}, true},
		{"duplicate project", ProjectConfig{TopSize: 1, Projects: []Project{{Name: "a"}, {Name: "a"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProjectConfig_ProjectPath(t *testing.T) {
	cfg := &ProjectConfig{BaseDir: "/srv/code"}

	tests := []struct {
		name    string
		project Project
		want    string
	}{
		{"name under base dir", Project{Name: "flask"}, "/srv/code/flask"},
		{"relative path under base dir", Project{Name: "flask", Path: "vendor/flask"}, "/srv/code/vendor/flask"},
		{"absolute path kept", Project{Name: "flask", Path: "/opt/flask"}, "/opt/flask"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.ProjectPath(tt.project)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("ProjectPath() = %s, want %s", got, tt.want)
			}
		})
	}

	empty := &ProjectConfig{}
	if got := empty.ProjectPath(Project{Name: "flask"}); got != "flask" {
		t.Errorf("ProjectPath() with empty base = %s, want flask", got)
	}
}

func TestProjectConfig_FindProject(t *testing.T) {
	cfg := DefaultProjectConfig()

	p, ok := cfg.FindProject("requests")
	if !ok || p.Name != "requests" {
		t.Errorf("FindProject(requests) = %v, %v", p, ok)
	}

	if _, ok := cfg.FindProject("numpy"); ok {
		t.Error("FindProject(numpy) should not be found")
	}
}

func TestProjectsFromPaths(t *testing.T) {
	projects := ProjectsFromPaths([]string{"./src/flask/", "/opt/django"})

	if len(projects) != 2 {
		t.Fatalf("length = %d, want 2", len(projects))
	}
	if projects[0].Name != "flask" || projects[0].Path != "./src/flask/" {
		t.Errorf("projects[0] = %+v", projects[0])
	}
	if projects[1].Name != "django" {
		t.Errorf("projects[1].Name = %s, want django", projects[1].Name)
	}
}

func TestLoadProjectConfig_NoFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	// Should return defaults
	if cfg.Version != "1.0" {
		t.Errorf("Version = %s, want 1.0", cfg.Version)
	}
	if len(cfg.Projects) != len(DefaultProjects) {
		t.Errorf("Projects length = %d, want %d", len(cfg.Projects), len(DefaultProjects))
	}
}

func TestLoadProjectConfig_YamlFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".reporeport.yaml")

	yamlContent := `
version: "2.0"
top_size: 5
base_dir: /srv/code
projects:
  - name: flask
    url: https://github.com/pallets/flask.git
    ref: main
  - name: local
    path: ./vendor/local
exclude:
  - "**/tests/**"
respect_gitignore: true
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	if cfg.Version != "2.0" {
		t.Errorf("Version = %s, want 2.0", cfg.Version)
	}
	if cfg.TopSize != 5 {
		t.Errorf("TopSize = %d, want 5", cfg.TopSize)
	}
	if len(cfg.Projects) != 2 {
		t.Fatalf("Projects length = %d, want 2", len(cfg.Projects))
	}
	if cfg.Projects[0].URL != "https://github.com/pallets/flask.git" {
		t.Errorf("Projects[0].URL = %s", cfg.Projects[0].URL)
	}
	if cfg.Projects[0].Ref != "main" {
		t.Errorf("Projects[0].Ref = %s, want main", cfg.Projects[0].Ref)
	}
	if cfg.Projects[1].Path != "./vendor/local" {
		t.Errorf("Projects[1].Path = %s", cfg.Projects[1].Path)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "**/tests/**" {
		t.Errorf("Exclude = %v", cfg.Exclude)
	}
	if !cfg.RespectGitignore {
		t.Error("RespectGitignore = false, want true")
	}
}

func TestLoadProjectConfig_YmlFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".reporeport.yml")

	yamlContent := `
version: "1.5"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	if cfg.Version != "1.5" {
		t.Errorf("Version = %s, want 1.5", cfg.Version)
	}
	// Unset fields keep their defaults
	if cfg.TopSize != 10 {
		t.Errorf("TopSize = %d, want 10", cfg.TopSize)
	}
}

func TestLoadProjectConfig_InvalidTopSize(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".reporeport.yaml")

	if err := os.WriteFile(configPath, []byte("top_size: -1\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadProjectConfig(tmpDir); err == nil {
		t.Error("LoadProjectConfig() should reject a negative top_size")
	}
}

func TestSaveProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &ProjectConfig{
		Version:  "1.0",
		TopSize:  7,
		Projects: []Project{{Name: "requests", URL: "https://github.com/psf/requests.git"}},
	}

	if err := SaveProjectConfig(tmpDir, cfg); err != nil {
		t.Fatalf("SaveProjectConfig() error = %v", err)
	}

	// Verify file was created
	configPath := filepath.Join(tmpDir, ".reporeport.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	// Load it back
	loaded, err := LoadProjectConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}

	if loaded.TopSize != cfg.TopSize {
		t.Errorf("TopSize = %d, want %d", loaded.TopSize, cfg.TopSize)
	}
	if len(loaded.Projects) != 1 || loaded.Projects[0].URL != cfg.Projects[0].URL {
		t.Errorf("Projects = %v, want %v", loaded.Projects, cfg.Projects)
	}
}

func TestLoadProjectConfig_InvalidYaml(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".reporeport.yaml")

	invalidYaml := `
version: [invalid yaml
projects:
  - this is wrong
`

	if err := os.WriteFile(configPath, []byte(invalidYaml), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadProjectConfig(tmpDir)
	if err == nil {
		t.Error("LoadProjectConfig() should return error for invalid YAML")
	}
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	if _, ok := FindProjectConfig(tmpDir); ok {
		t.Error("FindProjectConfig() found a file in an empty directory")
	}

	ymlPath := filepath.Join(tmpDir, ".reporeport.yml")
	if err := os.WriteFile(ymlPath, []byte("version: \"1.0\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if got, ok := FindProjectConfig(tmpDir); !ok || got != ymlPath {
		t.Errorf("FindProjectConfig() = %s, %v, want %s", got, ok, ymlPath)
	}

	// .yaml wins over .yml
	yamlPath := filepath.Join(tmpDir, ".reporeport.yaml")
	if err := os.WriteFile(yamlPath, []byte("version: \"1.0\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if got, _ := FindProjectConfig(tmpDir); got != yamlPath {
		t.Errorf("FindProjectConfig() = %s, want %s", got, yamlPath)
	}
}
