// Package executor runs external programs with captured output and an
// explicit environment. It is used for the tools the workflow shells out
// to, such as the GitHub CLI.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	perrors "github.com/input-output-hk/daily-contributor/errors"
)

// Result holds the output of a command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner runs a fixed program with per-call arguments.
type Runner interface {
	Execute(ctx context.Context, args []string, opts ...Option) (*Result, error)
}

// Options configures command execution behavior.
type Options struct {
	// WorkingDir is the directory the command runs in.
	WorkingDir string

	// Env holds variables added to the inherited environment. Values are
	// never logged.
	Env map[string]string

	Logger *slog.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// DefaultOptions returns default execution options.
func DefaultOptions() *Options {
	return &Options{
		Env:    map[string]string{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Program runs one program with varying arguments and implements Runner.
type Program struct {
	name    string
	options *Options
}

var _ Runner = (*Program)(nil)

// NewProgram returns a Runner for the named program. opts apply to every call.
func NewProgram(name string, opts ...Option) *Program {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Program{name: name, options: o}
}

// Execute runs the program with args. Per-call opts are layered over the
// program's own. A failure is returned as a CodeExecutionFailed error
// carrying the exit code and the trimmed stderr.
func (p *Program) Execute(ctx context.Context, args []string, opts ...Option) (*Result, error) {
	options := p.mergeOptions(opts...)

	options.Logger.Debug("Executing command",
		"program", p.name,
		"args", strings.Join(args, " "),
		"env_keys", envKeys(options.Env))

	result, err := p.run(ctx, args, options)
	if err != nil {
		return result, perrors.WrapWithContext(err, perrors.CodeExecutionFailed,
			fmt.Sprintf("%s failed", p.name),
			map[string]interface{}{"exit_code": result.ExitCode})
	}

	return result, nil
}

func (p *Program) run(ctx context.Context, args []string, options *Options) (*Result, error) {
	cmd := exec.CommandContext(ctx, p.name, args...)

	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	if len(options.Env) > 0 {
		cmd.Env = os.Environ()
		for _, k := range envKeys(options.Env) {
			cmd.Env = append(cmd.Env, k+"="+options.Env[k])
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
	}

	if msg := strings.TrimSpace(result.Stderr); msg != "" {
		err = fmt.Errorf("%w: %s", err, msg)
	}
	return result, err
}

func (p *Program) mergeOptions(opts ...Option) *Options {
	merged := *p.options
	merged.Env = make(map[string]string, len(p.options.Env))
	for k, v := range p.options.Env {
		merged.Env[k] = v
	}

	for _, opt := range opts {
		opt(&merged)
	}

	if merged.Logger == nil {
		merged.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &merged
}

func envKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WithWorkingDir sets the working directory.
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnvVar adds a single environment variable.
func WithEnvVar(key, value string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = map[string]string{}
		}
		o.Env[key] = value
	}
}

// WithLogger sets the logger used for debug traces of executed commands.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
