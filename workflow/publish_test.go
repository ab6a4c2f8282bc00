package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/daily-contributor/digest"
	"github.com/input-output-hk/daily-contributor/domain"
	perrors "github.com/input-output-hk/daily-contributor/errors"
	"github.com/input-output-hk/daily-contributor/git"
)

func generate(t *testing.T, f *fork) digest.Artifact {
	t.Helper()

	art, err := digest.NewProducer(f.fs, digest.WithHeadlines("Fixed headline.")).Generate(f.ctx, testDate)
	require.NoError(t, err)

	return art
}

func TestPublisher_Publish(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) (Repository, *fork, *remoteRepo, digest.Artifact)
		opts     []Option
		validate func(t *testing.T, f *fork, origin *remoteRepo, pub Publication, err error, logs []logEntry)
	}{
		{
			name: "pushes digest branch to origin",
			setup: func(t *testing.T) (Repository, *fork, *remoteRepo, digest.Artifact) {
				loader := installTestServer(t)
				origin := newOrigin(t, loader, "/remotes/origin.git")
				f := cloneFork(t, origin.URL)
				return f.repo, f, origin, generate(t, f)
			},
			validate: func(t *testing.T, f *fork, origin *remoteRepo, pub Publication, err error, logs []logEntry) {
				require.NoError(t, err)
				assert.Equal(t, domain.PublishStatePushed, pub.State)
				assert.True(t, pub.Created)
				assert.Equal(t, "feat: add digest_20251007.md", pub.Message)
				assert.NotEmpty(t, pub.CommitSHA)

				content, ok := origin.fileOnBranch(t, "feature/news-20251007", "news/digest_20251007.md")
				require.True(t, ok)
				assert.Contains(t, content, "## Fixed headline.")

				tip := origin.headCommit(t, "feature/news-20251007")
				assert.Equal(t, pub.CommitSHA, tip.Hash.String())
				assert.Equal(t, "feat: add digest_20251007.md", tip.Message)
				assert.Equal(t, "Test Bot", tip.Author.Name)
				assert.Equal(t, testClock().Unix(), tip.Author.When.Unix())

				_, sidecar := origin.fileOnBranch(t, "feature/news-20251007", "branch_name.txt")
				assert.False(t, sidecar, "sidecar is not committed")
				assert.Equal(t, "feature/news-20251007", f.currentBranch(t))
			},
		},
		{
			name: "missing origin is fatal after commit",
			setup: func(t *testing.T) (Repository, *fork, *remoteRepo, digest.Artifact) {
				f := initFork(t)
				return f.repo, f, nil, generate(t, f)
			},
			validate: func(t *testing.T, f *fork, _ *remoteRepo, pub Publication, err error, logs []logEntry) {
				require.Error(t, err)
				assert.ErrorIs(t, err, git.ErrRemoteMissing)
				assert.Equal(t, perrors.CodePublishFailed, perrors.GetCode(err))
				assert.Equal(t, domain.PublishStateCommitted, pub.State)

				var pe perrors.PlatformError
				require.True(t, perrors.As(err, &pe))
				assert.Equal(t, "feature/news-20251007", pe.Context()["branch"])
				assert.Equal(t, "news/digest_20251007.md", pe.Context()["path"])
				assert.Equal(t, "Committed", pe.Context()["state"])

				entry, ok := findLog(logs, "ERROR", "Git operation failed")
				require.True(t, ok)
				assert.Equal(t, "Committed", entry.attrs["state"])
			},
		},
		{
			name: "invalid message rejected before anything changes",
			setup: func(t *testing.T) (Repository, *fork, *remoteRepo, digest.Artifact) {
				f := initFork(t)
				return f.repo, f, nil, generate(t, f)
			},
			opts: []Option{WithCommitMessage("added the digest")},
			validate: func(t *testing.T, f *fork, _ *remoteRepo, pub Publication, err error, logs []logEntry) {
				require.Error(t, err)
				assert.Equal(t, perrors.CodePublishFailed, perrors.GetCode(err))
				assert.True(t, perrors.HasCode(err, perrors.CodeInvalidInput))
				assert.Equal(t, domain.PublishStatePending, pub.State)

				exists, existsErr := f.repo.BranchExists(f.ctx, "feature/news-20251007")
				require.NoError(t, existsErr)
				assert.False(t, exists)
			},
		},
		{
			name: "custom conventional message is used",
			setup: func(t *testing.T) (Repository, *fork, *remoteRepo, digest.Artifact) {
				loader := installTestServer(t)
				origin := newOrigin(t, loader, "/remotes/origin.git")
				f := cloneFork(t, origin.URL)
				return f.repo, f, origin, generate(t, f)
			},
			opts: []Option{WithCommitMessage("docs(news): daily digest")},
			validate: func(t *testing.T, f *fork, origin *remoteRepo, pub Publication, err error, logs []logEntry) {
				require.NoError(t, err)
				assert.Equal(t, "docs(news): daily digest", origin.headCommit(t, "feature/news-20251007").Message)
			},
		},
		{
			name: "missing digest fails at staging",
			setup: func(t *testing.T) (Repository, *fork, *remoteRepo, digest.Artifact) {
				f := initFork(t)
				return f.repo, f, nil, digest.Artifact{
					Branch:  digest.BranchName(testDate),
					RelPath: "news/" + digest.FileName(testDate),
				}
			},
			validate: func(t *testing.T, f *fork, _ *remoteRepo, pub Publication, err error, logs []logEntry) {
				assert.ErrorIs(t, err, git.ErrPathMissing)
				assert.Equal(t, domain.PublishStateBranchResolved, pub.State)
			},
		},
		{
			name: "rejected push is fatal",
			setup: func(t *testing.T) (Repository, *fork, *remoteRepo, digest.Artifact) {
				f := initFork(t)
				return &faultyRepo{Repository: f.repo, pushErr: git.ErrNotFastForward}, f, nil, generate(t, f)
			},
			validate: func(t *testing.T, f *fork, _ *remoteRepo, pub Publication, err error, logs []logEntry) {
				assert.ErrorIs(t, err, git.ErrNotFastForward)
				assert.Equal(t, domain.PublishStateCommitted, pub.State)
			},
		},
		{
			name: "up-to-date push counts as success",
			setup: func(t *testing.T) (Repository, *fork, *remoteRepo, digest.Artifact) {
				f := initFork(t)
				return &faultyRepo{Repository: f.repo, pushErr: git.ErrAlreadyUpToDate}, f, nil, generate(t, f)
			},
			validate: func(t *testing.T, f *fork, _ *remoteRepo, pub Publication, err error, logs []logEntry) {
				require.NoError(t, err)
				assert.Equal(t, domain.PublishStatePushed, pub.State)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, f, origin, art := tt.setup(t)
			logger, logs := newTestLogger()

			opts := append([]Option{WithLogger(logger), WithSignature(testSig), WithClock(testClock)}, tt.opts...)
			pub, err := NewPublisher(repo, opts...).Publish(f.ctx, art)
			tt.validate(t, f, origin, pub, err, *logs)
		})
	}
}

func TestPublisher_Rerun(t *testing.T) {
	loader := installTestServer(t)
	origin := newOrigin(t, loader, "/remotes/origin.git")
	f := cloneFork(t, origin.URL)
	publisher := NewPublisher(f.repo, WithSignature(testSig), WithClock(testClock))

	first, err := publisher.Publish(f.ctx, generate(t, f))
	require.NoError(t, err)

	t.Run("identical digest has nothing to commit", func(t *testing.T) {
		_, err := publisher.Publish(f.ctx, generate(t, f))
		require.Error(t, err)
		assert.True(t, errors.Is(err, git.ErrEmptyCommit))
	})

	t.Run("changed digest is pushed on top", func(t *testing.T) {
		art, err := digest.NewProducer(f.fs, digest.WithHeadlines("Another headline.")).Generate(f.ctx, testDate)
		require.NoError(t, err)

		second, err := publisher.Publish(f.ctx, art)
		require.NoError(t, err)
		assert.False(t, second.Created)

		tip := origin.headCommit(t, "feature/news-20251007")
		require.Len(t, tip.ParentHashes, 1)
		assert.Equal(t, first.CommitSHA, tip.ParentHashes[0].String())
	})
}

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		msg     string
		wantErr bool
	}{
		{msg: "feat: add digest_20251007.md"},
		{msg: "chore: update logs 2025-10-07T09:00:00Z"},
		{msg: "fix(news)!: correct date"},
		{msg: "", wantErr: true},
		{msg: "add digest", wantErr: true},
		{msg: "feature: add digest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := ValidateMessage(tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
