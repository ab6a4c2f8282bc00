package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/input-output-hk/daily-contributor/config"
	"github.com/input-output-hk/daily-contributor/domain"
	perrors "github.com/input-output-hk/daily-contributor/errors"
	fsb "github.com/input-output-hk/daily-contributor/fs/billy"
	"github.com/input-output-hk/daily-contributor/git"
	"github.com/input-output-hk/daily-contributor/lock"
	"github.com/input-output-hk/daily-contributor/logging"
	"github.com/input-output-hk/daily-contributor/workflow"
)

// RunRunner holds the run command and its flags.
type RunRunner struct {
	Command *cobra.Command

	viper      *viper.Viper
	configFile string
	date       string
	timeout    time.Duration
	message    string
}

// NewRunRunner returns the run command runner.
func NewRunRunner() *RunRunner {
	r := &RunRunner{viper: config.NewViper()}
	c := &cobra.Command{
		Use:   "run",
		Short: "Run the daily contribution workflow once",
		Example: `  # today's digest for the fork in FORK_PATH
  daily-contributor run

  # a specific day, with the upstream given explicitly
  daily-contributor run --fork-path ~/src/news --upstream-url https://github.com/acme/news.git --date 2025-10-07`,
		Args: cobra.NoArgs,
		RunE: r.runE,
	}

	c.Flags().StringVar(&r.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/"+config.SearchPath+")")
	c.Flags().StringVar(&r.date, "date", "", "run date as YYYY-MM-DD (default today)")
	c.Flags().DurationVar(&r.timeout, "timeout", 0, "abort the run after this long (0 means no limit)")
	c.Flags().StringVar(&r.message, "message", "", "digest commit message, must be a conventional commit")

	// Registration only fails on a programming error in the key table.
	cobra.CheckErr(config.RegisterFlags(r.viper, c.Flags()))

	r.Command = c
	return r
}

// NewRunCommand returns the run command.
func NewRunCommand() *cobra.Command {
	return NewRunRunner().Command
}

func (r *RunRunner) runE(c *cobra.Command, args []string) error {
	cfg, err := config.Load(r.viper, r.configFile)
	if err != nil {
		return err
	}

	d := domain.Today()
	if r.date != "" {
		if d, err = domain.ParseRunDate(r.date); err != nil {
			return perrors.Wrap(err, perrors.CodeInvalidConfig, "invalid --date")
		}
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Dir:     cfg.LogDirPath(),
		Console: c.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	logger.Info("Logger initialized", "file", logger.Path())

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	locker, err := lock.New(cfg.ForkPath, lock.WithLogger(logger.Logger))
	if err != nil {
		return err
	}

	fsys := fsb.NewOSFS(cfg.ForkPath)
	repo, err := git.Open(ctx, &git.Options{
		FS:   fsys,
		Auth: git.NewEnvAuthProvider(cfg.GitToken, cfg.SSHAgent),
	})
	if err != nil {
		logger.Error("Invalid Git repository", "fork_path", cfg.ForkPath, "error", err)
		return perrors.WrapWithContext(err, perrors.CodeInvalidConfig, "fork_path is not a git working copy",
			map[string]interface{}{"fork_path": cfg.ForkPath})
	}

	_, err = workflow.NewRunner(cfg, repo, fsys,
		workflow.WithLogger(logger.Logger),
		workflow.WithLocker(locker),
		workflow.WithCommitMessage(r.message),
		workflow.WithActiveLog(logger.Path()),
	).Run(ctx, d)
	return err
}
