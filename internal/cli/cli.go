// Package cli runs the fixed tabsnap action: regenerate the fixture file from
// the case catalog and report what changed.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/AndreyAkinshin/tabsnap/internal/catalog"
	"github.com/AndreyAkinshin/tabsnap/internal/errors"
	"github.com/AndreyAkinshin/tabsnap/internal/logger"
	"github.com/AndreyAkinshin/tabsnap/internal/oracle"
	"github.com/AndreyAkinshin/tabsnap/internal/oracle/python"
	"github.com/AndreyAkinshin/tabsnap/internal/output"
	"github.com/AndreyAkinshin/tabsnap/internal/project"
)

// Version is set at build time.
var Version = "dev"

// Renderer is the reference renderer as the run uses it.
type Renderer interface {
	oracle.Oracle
	catalog.ModuleProbe
	Version(ctx context.Context) (string, error)
}

// env holds the collaborators of a run.
type env struct {
	out         *output.Writer
	logOutput   io.Writer
	loadProject func() (*project.Project, error)
	newRenderer func(interpreter string) Renderer
}

func defaultEnv() *env {
	return &env{
		out:         output.New(),
		logOutput:   os.Stderr,
		loadProject: project.LoadProject,
		newRenderer: func(interpreter string) Renderer { return python.New(interpreter) },
	}
}

// Run regenerates the fixture and returns the process exit code. The action
// takes no arguments.
func Run(ctx context.Context) int {
	return defaultEnv().run(ctx)
}

func (e *env) run(ctx context.Context) int {
	if err := e.generate(ctx); err != nil {
		e.out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	return errors.ExitSuccess
}

func (e *env) logger(level string) logger.Logger {
	cfg := logger.DefaultConfig()
	if l, ok := logger.ParseLevel(level); ok {
		cfg.Level = l
	}
	if e.logOutput != nil {
		cfg.Output = e.logOutput
	}
	return logger.New(cfg)
}
