package github

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/matzehuels/mdscaffold/pkg/errors"
)

// DefaultBranch is used when a URL names no branch.
const DefaultBranch = "main"

var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// RepoRef locates a directory inside a repository at a branch.
type RepoRef struct {
	Owner  string
	Repo   string
	Branch string
	Path   string
}

// String returns the ref as "owner/repo@branch:path".
func (r RepoRef) String() string {
	s := r.Owner + "/" + r.Repo + "@" + r.Branch
	if r.Path != "" {
		s += ":" + r.Path
	}
	return s
}

// ParseRepoURL splits a URL of the form
// https://github.com/<owner>/<repo>[/tree/<branch>[/<path>]]. The branch
// defaults to [DefaultBranch]. A trailing ".git" on the repo is dropped.
// Without "tree", segments after the third are taken as the path.
func ParseRepoURL(raw string) (RepoRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return RepoRef{}, errors.Wrap(errors.ErrCodeInput, err, "invalid GitHub URL %q", raw)
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return RepoRef{}, errors.New(errors.ErrCodeInput, "invalid GitHub URL %q: expected github.com/<owner>/<repo>", raw)
	}

	ref := RepoRef{
		Owner:  parts[0],
		Repo:   strings.TrimSuffix(parts[1], ".git"),
		Branch: DefaultBranch,
	}
	if err := ValidateRepoRef(ref.Owner, ref.Repo); err != nil {
		return RepoRef{}, err
	}

	switch {
	case len(parts) > 3 && parts[2] == "tree":
		ref.Branch = parts[3]
		ref.Path = strings.Join(parts[4:], "/")
	case len(parts) > 3:
		// Third segment is a view name such as "blob"; the rest is the path.
		ref.Path = strings.Join(parts[3:], "/")
	}
	return ref, nil
}

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if !validOwner.MatchString(owner) {
		return errors.New(errors.ErrCodeInput, "invalid owner %q: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen", owner)
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if !validRepo.MatchString(repo) {
		return errors.New(errors.ErrCodeInput, "invalid repo %q: must be 1-100 alphanumeric characters, hyphens, underscores, or dots", repo)
	}
	return nil
}

// ValidateRepoRef validates both owner and repo.
func ValidateRepoRef(owner, repo string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	return ValidateRepo(repo)
}
