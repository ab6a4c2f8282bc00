package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	perrors "github.com/input-output-hk/daily-contributor/errors"
)

// SearchPath is the config file looked up in the XDG config directories when
// no file is given explicitly.
const SearchPath = "daily-contributor/config.yaml"

// Keys.
const (
	KeyForkPath        = "fork_path"
	KeyRemoteUpstream  = "remote_upstream"
	KeyRepoOwnerAlt    = "repo_owner_alt"
	KeyRepoNameAlt     = "repo_name_alt"
	KeyUpstreamURL     = "upstream_url"
	KeyUpstreamHost    = "upstream_host"
	KeyNewsDir         = "news_dir"
	KeyMainlineBranch  = "mainline_branch"
	KeyEnableLogBranch = "enable_log_branch"
	KeyLogBranch       = "log_branch"
	KeyLogDir          = "log_dir"
	KeyLogLevel        = "log_level"
	KeyApprovedUser    = "approved_user"
	KeyOpenPullRequest = "open_pull_request"
	KeyGitToken        = "git_token"
	KeySSHAgent        = "ssh_agent"
	KeyAuthorName      = "author_name"
	KeyAuthorEmail     = "author_email"
	KeyHeadlines       = "headlines"
)

type key struct {
	name  string
	env   []string
	def   string
	usage string
	flag  bool
}

var keys = []key{
	{name: KeyForkPath, env: []string{"FORK_PATH"}, usage: "path of the fork's working copy", flag: true},
	{name: KeyRemoteUpstream, env: []string{"REMOTE_UPSTREAM"}, def: DefaultRemoteUpstream, usage: "name of the upstream remote", flag: true},
	{name: KeyRepoOwnerAlt, env: []string{"REPO_OWNER_ALT"}, usage: "upstream repository owner", flag: true},
	{name: KeyRepoNameAlt, env: []string{"REPO_NAME_ALT"}, usage: "upstream repository name", flag: true},
	{name: KeyUpstreamURL, env: []string{"UPSTREAM_URL"}, usage: "upstream repository URL, overrides owner and name", flag: true},
	{name: KeyUpstreamHost, env: []string{"UPSTREAM_HOST"}, def: DefaultUpstreamHost, usage: "host used to build the upstream URL", flag: true},
	{name: KeyNewsDir, env: []string{"NEWS_DIR"}, def: DefaultNewsDir, usage: "digest directory inside the fork", flag: true},
	{name: KeyMainlineBranch, env: []string{"MAINLINE_BRANCH"}, def: DefaultMainline, usage: "mainline branch synced from upstream", flag: true},
	{name: KeyEnableLogBranch, env: []string{"ENABLE_LOG_BRANCH"}, def: "false", usage: "archive run logs to the log branch", flag: true},
	{name: KeyLogBranch, env: []string{"LOG_BRANCH"}, def: DefaultLogBranch, usage: "branch that receives archived logs", flag: true},
	{name: KeyLogDir, env: []string{"LOG_DIR"}, def: DefaultLogDir, usage: "log directory, relative to the fork", flag: true},
	{name: KeyLogLevel, env: []string{"LOG_LEVEL"}, def: DefaultLogLevel, usage: "debug, info, warn or error", flag: true},
	{name: KeyApprovedUser, env: []string{"APPROVED_USER"}, usage: "reviewer requested on the pull request", flag: true},
	{name: KeyOpenPullRequest, env: []string{"OPEN_PULL_REQUEST"}, def: "false", usage: "open a pull request after publishing", flag: true},
	{name: KeyGitToken, env: []string{"GIT_TOKEN", "GITHUB_TOKEN"}},
	{name: KeySSHAgent, env: []string{"SSH_AGENT"}, def: "false", usage: "authenticate ssh remotes with the SSH agent", flag: true},
	{name: KeyAuthorName, env: []string{"GIT_AUTHOR_NAME"}, usage: "commit author name", flag: true},
	{name: KeyAuthorEmail, env: []string{"GIT_AUTHOR_EMAIL"}, usage: "commit author email", flag: true},
}

// NewViper returns a viper instance with defaults and environment bindings
// for every key.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	for _, k := range keys {
		if k.def != "" {
			v.SetDefault(k.name, k.def)
		}
		_ = v.BindEnv(append([]string{k.name}, k.env...)...)
	}

	return v
}

// RegisterFlags adds a flag for every flag-capable key to fs, named after the
// key with dashes, and binds it to v.
func RegisterFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, k := range keys {
		if !k.flag {
			continue
		}

		name := FlagName(k.name)
		if fs.Lookup(name) == nil {
			fs.String(name, k.def, k.usage)
		}
		if err := v.BindPFlag(k.name, fs.Lookup(name)); err != nil {
			return perrors.Wrap(err, perrors.CodeInternal, "binding flag "+name)
		}
	}

	return nil
}

// FlagName returns the command line flag for a key.
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Load reads the optional config file and builds a validated Config from v.
// An explicit file must exist; otherwise SearchPath is looked up in the XDG
// config directories and skipped when absent.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file == "" {
		if found, err := xdg.SearchConfigFile(SearchPath); err == nil {
			file = found
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, perrors.WrapWithContext(err, perrors.CodeInvalidConfig, "reading config file",
				map[string]interface{}{"file": file})
		}
	}

	cfg := &Config{
		ForkPath:            strings.TrimSpace(v.GetString(KeyForkPath)),
		RemoteUpstream:      v.GetString(KeyRemoteUpstream),
		RepoOwnerAlt:        v.GetString(KeyRepoOwnerAlt),
		RepoNameAlt:         v.GetString(KeyRepoNameAlt),
		UpstreamURLOverride: v.GetString(KeyUpstreamURL),
		UpstreamHost:        v.GetString(KeyUpstreamHost),
		NewsDir:             v.GetString(KeyNewsDir),
		MainlineBranch:      v.GetString(KeyMainlineBranch),
		EnableLogBranch:     isTrue(v.GetString(KeyEnableLogBranch)),
		LogBranch:           v.GetString(KeyLogBranch),
		LogDir:              v.GetString(KeyLogDir),
		LogLevel:            v.GetString(KeyLogLevel),
		ApprovedUser:        v.GetString(KeyApprovedUser),
		OpenPullRequest:     isTrue(v.GetString(KeyOpenPullRequest)),
		GitToken:            v.GetString(KeyGitToken),
		SSHAgent:            isTrue(v.GetString(KeySSHAgent)),
		AuthorName:          v.GetString(KeyAuthorName),
		AuthorEmail:         v.GetString(KeyAuthorEmail),
		Headlines:           v.GetStringSlice(KeyHeadlines),
		File:                file,
	}

	if cfg.ForkPath != "" && !filepath.IsAbs(cfg.ForkPath) {
		abs, err := filepath.Abs(cfg.ForkPath)
		if err != nil {
			return nil, perrors.Wrap(err, perrors.CodeInvalidConfig, "resolving fork path")
		}
		cfg.ForkPath = abs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func isTrue(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// IsInvalid reports whether err is a configuration error.
func IsInvalid(err error) bool {
	return perrors.HasCode(err, perrors.CodeInvalidConfig)
}
