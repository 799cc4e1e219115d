// Package python renders tables with python-tabulate by running a small
// embedded driver script in a Python subprocess.
//
// Requests and responses are single JSON documents exchanged over stdin and
// stdout. Each call starts a fresh interpreter, so renders never share state.
package python

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/AndreyAkinshin/tabsnap/internal/canon"
	"github.com/AndreyAkinshin/tabsnap/internal/errors"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

//go:embed driver.py
var driver string

// DefaultInterpreter is used when no interpreter is configured.
const DefaultInterpreter = "python3"

// Runner executes the driver with the given request on stdin and returns its
// stdout.
type Runner func(ctx context.Context, stdin []byte) ([]byte, error)

// Oracle is a python-tabulate backed oracle.Oracle and catalog.ModuleProbe.
type Oracle struct {
	interpreter string
	run         Runner

	mu      sync.Mutex
	modules map[string]bool
}

// Option configures an Oracle.
type Option func(*Oracle)

// WithRunner replaces the subprocess runner.
func WithRunner(r Runner) Option {
	return func(o *Oracle) { o.run = r }
}

// New returns an oracle using the given interpreter, or DefaultInterpreter
// when it is empty.
func New(interpreter string, opts ...Option) *Oracle {
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}
	o := &Oracle{
		interpreter: interpreter,
		modules:     make(map[string]bool),
	}
	o.run = o.exec
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Interpreter returns the interpreter command.
func (o *Oracle) Interpreter() string { return o.interpreter }

func (o *Oracle) exec(ctx context.Context, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, o.interpreter, "-c", driver)
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderrors.Is(err, exec.ErrNotFound) {
			return nil, errors.Environmentf("python interpreter %q not found", o.interpreter)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := lastLine(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s: %w", o.interpreter, err)
		}
		return nil, fmt.Errorf("%s: %w: %s", o.interpreter, err, msg)
	}
	return stdout.Bytes(), nil
}

// lastLine returns the last non-empty line of a traceback, which names the
// exception.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func (o *Oracle) call(ctx context.Context, request *canon.Map, response any) error {
	body, err := canon.Marshal(canon.FromMap(request))
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	out, err := o.run(ctx, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(out, response); err != nil {
		return fmt.Errorf("decode driver response: %w", err)
	}
	return nil
}

// Render implements oracle.Oracle.
func (o *Oracle) Render(ctx context.Context, data any, opts table.Options) (string, error) {
	wireData, err := Encode(data)
	if err != nil {
		return "", err
	}
	wireOpts, err := EncodeOptions(opts)
	if err != nil {
		return "", err
	}
	request := canon.NewMap().
		Set("op", canon.String("render")).
		Set("data", wireData).
		Set("kwargs", wireOpts)

	var resp struct {
		Output *string `json:"output"`
	}
	if err := o.call(ctx, request, &resp); err != nil {
		return "", err
	}
	if resp.Output == nil {
		return "", fmt.Errorf("driver response has no output")
	}
	return *resp.Output, nil
}

// HasModule implements catalog.ModuleProbe. Answers are cached; a failed
// probe counts as unavailable.
func (o *Oracle) HasModule(ctx context.Context, name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if ok, cached := o.modules[name]; cached {
		return ok
	}
	request := canon.NewMap().
		Set("op", canon.String("probe")).
		Set("module", canon.String(name))
	var resp struct {
		Available bool `json:"available"`
	}
	if err := o.call(ctx, request, &resp); err != nil {
		return false
	}
	o.modules[name] = resp.Available
	return resp.Available
}

// Version returns the tabulate version. It fails with an environment error
// when the interpreter or tabulate is missing.
func (o *Oracle) Version(ctx context.Context) (string, error) {
	request := canon.NewMap().Set("op", canon.String("version"))
	var resp struct {
		Version string `json:"version"`
	}
	if err := o.call(ctx, request, &resp); err != nil {
		if errors.IsKind(err, errors.KindEnvironment) {
			return "", err
		}
		return "", &errors.Error{
			Kind:    errors.KindEnvironment,
			Message: "tabulate is not importable",
			Cause:   err,
		}
	}
	return resp.Version, nil
}
