// Package digest produces the dated Markdown digest and its companion
// branch_name.txt file inside a working copy.
package digest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"path"
	"path/filepath"
	"text/template"

	"github.com/input-output-hk/daily-contributor/domain"
	"github.com/input-output-hk/daily-contributor/errors"
	"github.com/input-output-hk/daily-contributor/fs"
)

const (
	// DefaultNewsDir is the directory, relative to the working-copy root,
	// that digests are written to.
	DefaultNewsDir = "news"

	// SidecarFile holds the feature branch name for downstream tooling.
	SidecarFile = "branch_name.txt"

	branchPrefix = "feature/news-"
)

// DefaultHeadlines are the candidate headlines when none are configured.
var DefaultHeadlines = []string{
	"Quantum progress: stable qubits announced.",
	"Python 4.0: rumors about stricter typing.",
	"GitHub Copilot improves unit test generation.",
	"Generative AI is reshaping UI/UX design.",
}

var contentTemplate = template.Must(template.New("digest").Parse(
	"# Daily Tech Digest - {{.Date}}\n\n" +
		"## {{.Headline}}\n\n" +
		"This digest explores how automation is reshaping developer workflows: " +
		"from CI to automated PR approvals. This repository demonstrates an " +
		"automated content pipeline.\n\n" +
		"---\n\n" +
		"Generated automatically by the daily contributor bot.",
))

// BranchName returns the feature branch for d, e.g. "feature/news-20251007".
func BranchName(d domain.RunDate) string {
	return branchPrefix + d.Compact()
}

// FileName returns the digest file name for d, e.g. "digest_20251007.md".
func FileName(d domain.RunDate) string {
	return "digest_" + d.Compact() + ".md"
}

// Artifact describes a generated digest.
type Artifact struct {
	// Branch is the feature branch the digest belongs on.
	Branch string

	// Path is the digest location including the working-copy root.
	Path string

	// RelPath is the slash separated path relative to the working-copy root.
	RelPath string

	// Content is the Markdown that was written.
	Content string
}

// Producer writes digests into a working copy.
type Producer struct {
	fs        fs.Filesystem
	root      string
	newsDir   string
	headlines []string
	rand      *rand.Rand
	logger    *slog.Logger
}

// Option configures a Producer.
type Option func(*Producer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Producer) {
		p.logger = logger
	}
}

// WithRand sets the source used to pick headlines.
func WithRand(r *rand.Rand) Option {
	return func(p *Producer) {
		p.rand = r
	}
}

// WithHeadlines replaces the candidate headlines. An empty list keeps the defaults.
func WithHeadlines(headlines ...string) Option {
	return func(p *Producer) {
		if len(headlines) > 0 {
			p.headlines = append([]string(nil), headlines...)
		}
	}
}

// WithNewsDir sets the digest directory relative to the working-copy root.
func WithNewsDir(dir string) Option {
	return func(p *Producer) {
		if dir != "" {
			p.newsDir = dir
		}
	}
}

// WithRoot sets the working-copy root reported in Artifact.Path.
func WithRoot(root string) Option {
	return func(p *Producer) {
		p.root = root
	}
}

// NewProducer returns a Producer writing through fsys, which must be rooted
// at the working copy.
func NewProducer(fsys fs.Filesystem, opts ...Option) *Producer {
	p := &Producer{
		fs:        fsys,
		newsDir:   DefaultNewsDir,
		headlines: DefaultHeadlines,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.rand == nil {
		p.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return p
}

// Render returns the digest Markdown for d with the given headline.
func Render(d domain.RunDate, headline string) (string, error) {
	var buf bytes.Buffer
	err := contentTemplate.Execute(&buf, struct {
		Date     string
		Headline string
	}{Date: d.Long(), Headline: headline})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Generate writes the digest for d and the branch_name.txt sidecar.
// Failing to write the digest is returned as CodeGenerateFailed; failing to
// write the sidecar is only logged.
func (p *Producer) Generate(ctx context.Context, d domain.RunDate) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, errors.Wrap(err, errors.CodeGenerateFailed, "generation cancelled")
	}

	rel := path.Join(filepath.ToSlash(p.newsDir), FileName(d))
	art := Artifact{
		Branch:  BranchName(d),
		Path:    filepath.Join(p.root, filepath.FromSlash(rel)),
		RelPath: rel,
	}

	content, err := Render(d, p.headlines[p.rand.IntN(len(p.headlines))])
	if err != nil {
		return Artifact{}, errors.Wrap(err, errors.CodeGenerateFailed, "rendering digest")
	}
	art.Content = content

	if err := fs.WriteFileAtomic(p.fs, rel, []byte(content), 0o644); err != nil {
		p.logger.Error("Failed to write digest file", "path", art.Path, "error", err)
		return Artifact{}, errors.WrapWithContext(err, errors.CodeGenerateFailed, "writing digest",
			map[string]interface{}{"path": art.Path})
	}
	p.logger.Info("Generated content", "path", art.Path)

	if err := fs.WriteFileAtomic(p.fs, SidecarFile, []byte(art.Branch), 0o644); err != nil {
		p.logger.Error("Could not persist branch name file", "file", SidecarFile, "error", err)
	} else {
		p.logger.Debug("Wrote branch name file", "file", SidecarFile, "branch", art.Branch)
	}

	return art, nil
}

// String implements fmt.Stringer for log output.
func (a Artifact) String() string {
	return fmt.Sprintf("%s@%s", a.RelPath, a.Branch)
}
