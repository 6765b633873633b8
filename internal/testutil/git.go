package testutil

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// InitGitRepo initializes a repository at dir, commits files on branch, and
// tags the commit with each of tags.
func InitGitRepo(t testing.TB, dir, branch string, files map[string]string, tags ...string) *git.Repository {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	w, err := repo.Worktree()
	require.NoError(t, err)

	WriteTree(t, dir, files)
	require.NoError(t, w.AddGlob("."))
	hash, err := w.Commit("template fixture", &git.CommitOptions{
		Author: &object.Signature{Name: "lito", Email: "lito@example.invalid", When: time.Unix(1_700_000_000, 0)},
	})
	require.NoError(t, err)

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), hash)
	require.NoError(t, repo.Storer.SetReference(ref))
	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))))

	for _, tag := range tags {
		_, err := repo.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}
	return repo
}
