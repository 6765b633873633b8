package templates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Fetcher retrieves a template repository into dest. dest does not exist
// when Fetch is called.
type Fetcher interface {
	Fetch(ctx context.Context, ref Ref, dest string) error
}

// GitFetcher shallow-clones templates with go-git.
type GitFetcher struct {
	// BaseURL overrides the clone URL prefix (tests, mirrors). Empty means GitHub.
	BaseURL string
}

// NotFoundError reports a repository or ref that does not exist.
type NotFoundError struct {
	URL string
	Ref string
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %s#%s not found: %v", e.URL, e.Ref, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// AuthError reports a repository that needs credentials.
type AuthError struct {
	URL string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("template %s requires authentication: %v", e.URL, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func (f GitFetcher) url(ref Ref) string {
	if f.BaseURL == "" {
		return ref.CloneURL()
	}
	return strings.TrimSuffix(f.BaseURL, "/") + "/" + ref.Owner + "/" + ref.Repo + ".git"
}

// Fetch clones ref.Ref as a branch, falling back to a tag of that name.
func (f GitFetcher) Fetch(ctx context.Context, ref Ref, dest string) error {
	url := f.url(ref)
	slog.Debug("Cloning template", slog.String("url", url), slog.String("ref", ref.Ref))

	err := clone(ctx, url, plumbing.NewBranchReferenceName(ref.Ref), dest)
	if err == nil {
		return nil
	}
	if classified := classifyCloneError(url, ref.Ref, err); !isRefMissing(err) {
		return classified
	}

	_ = os.RemoveAll(dest)
	if tagErr := clone(ctx, url, plumbing.NewTagReferenceName(ref.Ref), dest); tagErr != nil {
		return classifyCloneError(url, ref.Ref, tagErr)
	}
	return nil
}

func clone(ctx context.Context, url string, name plumbing.ReferenceName, dest string) error {
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: name,
		SingleBranch:  true,
		Depth:         1,
		Tags:          git.NoTags,
	})
	return err
}

func isRefMissing(err error) bool {
	var noMatch git.NoMatchingRefSpecError
	if errors.As(err, &noMatch) || errors.Is(err, plumbing.ErrReferenceNotFound) {
		return true
	}
	l := strings.ToLower(err.Error())
	return strings.Contains(l, "couldn't find remote ref") || strings.Contains(l, "reference not found")
}

// classifyCloneError wraps go-git failures into typed errors.
func classifyCloneError(url, ref string, err error) error {
	switch {
	case errors.Is(err, transport.ErrRepositoryNotFound), isRefMissing(err):
		return &NotFoundError{URL: url, Ref: ref, Err: err}
	case errors.Is(err, transport.ErrAuthenticationRequired), errors.Is(err, transport.ErrAuthorizationFailed):
		return &AuthError{URL: url, Err: err}
	}
	l := strings.ToLower(err.Error())
	if strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") {
		return &AuthError{URL: url, Err: err}
	}
	if strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist") {
		return &NotFoundError{URL: url, Ref: ref, Err: err}
	}
	return err
}
