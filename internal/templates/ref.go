package templates

import (
	"fmt"
	"strings"
)

// DefaultRef is checked out when an identifier names no ref.
const DefaultRef = "main"

const githubPrefix = "github:"

// Ref identifies a template repository at a branch or tag.
type Ref struct {
	Owner string
	Repo  string
	Ref   string
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s#%s", r.Owner, r.Repo, r.Ref)
}

// CloneURL returns the HTTPS URL of the repository.
func (r Ref) CloneURL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", r.Owner, r.Repo)
}

// ParseRef parses `github:owner/repo[#ref]` or `owner/repo[#ref]`.
func ParseRef(id string) (Ref, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(id), githubPrefix)
	ref := DefaultRef
	if i := strings.IndexByte(s, '#'); i >= 0 {
		if r := strings.TrimSpace(s[i+1:]); r != "" {
			ref = r
		}
		s = s[:i]
	}
	if !validRef(ref) {
		return Ref{}, false
	}
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || !validSegment(owner) || !validSegment(repo) {
		return Ref{}, false
	}
	return Ref{Owner: owner, Repo: strings.TrimSuffix(repo, ".git"), Ref: ref}, true
}

func validSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\: `)
}

// validRef accepts slash-separated branch or tag names. Every segment must be
// a valid path segment, so the ref cannot leave its cache directory.
func validRef(ref string) bool {
	for _, seg := range strings.Split(ref, "/") {
		if !validSegment(seg) || strings.ContainsAny(seg, "~^?*[") {
			return false
		}
	}
	return true
}
