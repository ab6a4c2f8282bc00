package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	perrors "github.com/input-output-hk/daily-contributor/errors"
	"github.com/input-output-hk/daily-contributor/logging"
)

// Validate checks c and returns a single CodeInvalidConfig error listing
// every problem found.
func (c *Config) Validate() error {
	var problems []string

	switch info, err := os.Stat(c.ForkPath); {
	case c.ForkPath == "":
		problems = append(problems, "fork_path is required")
	case err != nil:
		problems = append(problems, fmt.Sprintf("fork_path %q: %v", c.ForkPath, err))
	case !info.IsDir():
		problems = append(problems, fmt.Sprintf("fork_path %q is not a directory", c.ForkPath))
	}

	for _, b := range []struct{ key, name string }{
		{KeyMainlineBranch, c.MainlineBranch},
		{KeyLogBranch, c.LogBranch},
	} {
		if b.name == "" || plumbing.NewBranchReferenceName(b.name).Validate() != nil {
			problems = append(problems, fmt.Sprintf("%s %q is not a valid branch name", b.key, b.name))
		}
	}

	if c.RemoteUpstream == "" {
		problems = append(problems, "remote_upstream cannot be empty")
	}

	if c.NewsDir == "" {
		problems = append(problems, "news_dir cannot be empty")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}

	if len(problems) == 0 {
		return nil
	}

	return perrors.New(perrors.CodeInvalidConfig,
		"configuration validation failed: "+strings.Join(problems, "; "))
}
