// Package config builds the immutable run configuration.
//
// A Config is assembled once at process entry from command line flags,
// environment variables, an optional YAML file and defaults, in that order of
// precedence. Components receive it by pointer and never consult viper or the
// environment themselves.
package config

import (
	"fmt"
	"path/filepath"
)

// Default values for optional keys.
const (
	DefaultRemoteUpstream = "upstream"
	DefaultUpstreamHost   = "github.com"
	DefaultNewsDir        = "news"
	DefaultMainline       = "main"
	DefaultLogBranch      = "bot-logs"
	DefaultLogDir         = "logs"
	DefaultLogLevel       = "info"
)

// Config is the validated configuration of one run.
type Config struct {
	// ForkPath is the absolute path of the fork's working copy.
	ForkPath string

	// RemoteUpstream names the remote that tracks the upstream repository.
	RemoteUpstream string

	RepoOwnerAlt string
	RepoNameAlt  string
	UpstreamHost string

	// UpstreamURLOverride takes precedence over owner and name.
	UpstreamURLOverride string

	NewsDir        string
	MainlineBranch string

	EnableLogBranch bool
	LogBranch       string

	// LogDir is relative to ForkPath unless absolute.
	LogDir   string
	LogLevel string

	ApprovedUser    string
	OpenPullRequest bool

	// GitToken is forwarded to HTTPS remotes and to the GitHub CLI. It is
	// never logged.
	GitToken string
	SSHAgent bool

	AuthorName  string
	AuthorEmail string

	// Headlines replaces the built-in digest headlines when non-empty.
	Headlines []string

	// File is the config file that was read, if any.
	File string
}

// UpstreamURL returns the upstream repository URL. An explicit URL wins;
// otherwise the URL is built from host, owner and name. It reports false
// when neither is available.
func (c *Config) UpstreamURL() (string, bool) {
	if c.UpstreamURLOverride != "" {
		return c.UpstreamURLOverride, true
	}

	if c.RepoOwnerAlt == "" || c.RepoNameAlt == "" {
		return "", false
	}

	host := c.UpstreamHost
	if host == "" {
		host = DefaultUpstreamHost
	}

	return fmt.Sprintf("https://%s/%s/%s.git", host, c.RepoOwnerAlt, c.RepoNameAlt), true
}

// LogDirPath returns the absolute logs directory.
func (c *Config) LogDirPath() string {
	if filepath.IsAbs(c.LogDir) {
		return c.LogDir
	}
	return filepath.Join(c.ForkPath, c.LogDir)
}

// Attrs returns loggable key/value pairs describing c. Secrets are reduced to
// whether they are set.
func (c *Config) Attrs() []any {
	upstream, _ := c.UpstreamURL()
	return []any{
		"fork_path", c.ForkPath,
		"remote_upstream", c.RemoteUpstream,
		"upstream_url", upstream,
		"mainline_branch", c.MainlineBranch,
		"news_dir", c.NewsDir,
		"enable_log_branch", c.EnableLogBranch,
		"open_pull_request", c.OpenPullRequest,
		"token_set", c.GitToken != "",
	}
}
