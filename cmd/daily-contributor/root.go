package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "daily-contributor",
		Short: "Publish a daily digest to a fork",
		Long: `daily-contributor keeps a fork's mainline in sync with its upstream
repository, writes a dated Markdown digest, commits it on a fresh
feature/news-YYYYMMDD branch and pushes that branch to origin.

Configuration is read from flags, environment variables (FORK_PATH,
REMOTE_UPSTREAM, REPO_OWNER_ALT, ...) and an optional YAML file, in that
order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c.AddCommand(NewRunCommand(), NewVersionCommand())

	return c
}
