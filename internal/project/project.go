package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/tabsnap/internal/config"
)

// Project represents a loaded tabsnap project.
type Project struct {
	Root   string
	Config *config.Config
	// HasConfigFile is false when defaults stand in for a missing
	// tabsnap.yaml.
	HasConfigFile bool
	Warnings      []string
}

// LoadProject finds the project root from the current directory, falling
// back to the directory itself, and loads its configuration.
func LoadProject() (*Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := RootOrCwd(cwd)
	if err != nil {
		return nil, err
	}
	return LoadProjectFrom(root)
}

// LoadProjectFrom loads a project from a specified root directory. A missing
// tabsnap.yaml yields the default configuration.
func LoadProjectFrom(root string) (*Project, error) {
	p := &Project{Root: root}

	configPath := p.ConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		p.Config = config.Default()
		return p, nil
	}

	cfg, warnings, err := config.LoadAndValidate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	p.Config = cfg
	p.HasConfigFile = true
	p.Warnings = warnings
	return p, nil
}

// ConfigPath returns the full path to the project configuration file.
func (p *Project) ConfigPath() string {
	return filepath.Join(p.Root, ConfigFileName)
}

// OutputPath returns the absolute fixture path.
func (p *Project) OutputPath() string {
	return config.ResolvePath(p.Root, p.Config.Output)
}

// CaseFiles returns the absolute paths of the configured case files, in
// order.
func (p *Project) CaseFiles() []string {
	out := make([]string, len(p.Config.Cases))
	for i, path := range p.Config.Cases {
		out[i] = config.ResolvePath(p.Root, path)
	}
	return out
}
