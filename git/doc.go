// Package git is the repository handle behind the daily contribution workflow.
//
// It is a small facade over go-git that only exposes what syncing a fork and
// publishing a branch need. All repository state is read and written through
// the project's fs.Filesystem, so the same code works against an on-disk
// working copy and an in-memory one in tests.
//
// # Opening a working copy
//
//	repo, err := git.Open(ctx, &git.Options{
//	    FS:   billyfs.NewOSFS("/srv/fork"),
//	    Auth: git.NewEnvAuthProvider(os.Getenv("GITHUB_TOKEN"), false),
//	})
//
// # Remotes and branches
//
//	if _, err := repo.Remote(ctx, "upstream"); errors.Is(err, git.ErrRemoteMissing) {
//	    _, err = repo.CreateRemote(ctx, "upstream", "https://github.com/acme/news.git")
//	}
//	created, err := repo.CheckoutOrCreate(ctx, "feature/news-20251007")
//
// # Synchronization
//
// Fetch and Pull report ErrAlreadyUpToDate when nothing changed. Pull only
// fast-forwards; a diverged branch yields ErrNotFastForward. Push sends a
// single branch to the same name on the remote.
//
//	err = repo.Fetch(ctx, "upstream", false, 0)
//	err = repo.Pull(ctx, "upstream", "main")
//	err = repo.Push(ctx, "origin", "feature/news-20251007", false)
//
// # Committing
//
//	err = repo.Stage(ctx, "news/digest_20251007.md")
//	sha, err := repo.Commit(ctx, "feat: add digest_20251007.md", repo.DefaultSignature(ctx), git.CommitOpts{})
//
// Stage fails with ErrPathMissing for paths that do not exist and Commit fails
// with ErrEmptyCommit when nothing is staged.
//
// A Repo is not safe for concurrent use.
package git
