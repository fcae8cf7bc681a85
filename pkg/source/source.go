// Package source parses the github:OWNER/REPO[//SUBDIR] provider
// source grammar and derives the release tag a provider's binary is
// published under.
package source

import (
	"fmt"
	"strings"

	"github.com/froyo-sdk/provider-sdk/pkg/sdk"
)

// GithubSource identifies a provider hosted in a GitHub repository,
// optionally rooted at a subdirectory within it.
type GithubSource struct {
	Owner  string
	Repo   string
	Subdir string // empty if the source names no subdirectory
}

// Parse parses a "github:OWNER/REPO" or "github:OWNER/REPO//SUBDIR"
// source string.
func Parse(input string) (*GithubSource, error) {
	rest, ok := strings.CutPrefix(input, "github:")
	if !ok {
		return nil, sdk.NewConfigError(fmt.Sprintf("unsupported provider source: %s", input), nil)
	}

	var repoPart, subdir string
	if before, after, found := strings.Cut(rest, "//"); found {
		repoPart = before
		if trimmed := strings.Trim(strings.TrimSpace(after), "/"); trimmed != "" {
			subdir = trimmed
		}
	} else {
		repoPart = rest
	}

	owner, repo, found := strings.Cut(repoPart, "/")
	if !found {
		return nil, sdk.NewConfigError(fmt.Sprintf("invalid github provider source: %s", input), nil)
	}
	owner = strings.TrimSpace(owner)
	repo = strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return nil, sdk.NewConfigError(fmt.Sprintf("invalid github provider source (empty owner or repo): %s", input), nil)
	}

	return &GithubSource{Owner: owner, Repo: repo, Subdir: subdir}, nil
}

// RepoSlug returns "owner/repo".
func (s *GithubSource) RepoSlug() string {
	return fmt.Sprintf("%s/%s", s.Owner, s.Repo)
}

// String renders the canonical source form.
func (s *GithubSource) String() string {
	if s.Subdir != "" {
		return fmt.Sprintf("github:%s/%s//%s", s.Owner, s.Repo, s.Subdir)
	}
	return fmt.Sprintf("github:%s/%s", s.Owner, s.Repo)
}

// DeriveReleaseTag builds the release tag a provider's binary is
// published under: "{provider}-v{normalized_version}", stripping one
// leading 'v' from version. SemVer is not otherwise validated.
func DeriveReleaseTag(provider, version string) (string, error) {
	provider = strings.TrimSpace(provider)
	version = strings.TrimSpace(version)

	if provider == "" {
		return "", sdk.NewConfigError("provider name cannot be empty", nil)
	}
	if version == "" {
		return "", sdk.NewConfigError("provider version cannot be empty", nil)
	}

	version = strings.TrimPrefix(version, "v")
	return fmt.Sprintf("%s-v%s", provider, version), nil
}
