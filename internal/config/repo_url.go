package config

import (
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

const originRemote = "origin"

// DetectRepoURL finds the git repository containing dir and returns the browsable URL
// of its origin remote.
func DetectRepoURL(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryGit, "no git repository found").
			WithContext("path", dir).
			Build()
	}

	remote, err := repo.Remote(originRemote)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryGit, "repository has no origin remote").
			WithContext("path", dir).
			Build()
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", errors.GitError("origin remote has no URL").
			WithContext("path", dir).
			Build()
	}

	normalized := NormalizeRemoteURL(urls[0])
	if normalized == "" {
		return "", errors.GitError("unsupported remote URL").
			WithContext("url", urls[0]).
			Build()
	}
	return normalized, nil
}

// NormalizeRemoteURL turns a clone URL into an https URL suitable for "/tree/<branch>" links.
// Credentials and a trailing ".git" are dropped. Local paths yield "".
//
//	git@github.com:abstracta/jmeter-java-dsl.git -> https://github.com/abstracta/jmeter-java-dsl
func NormalizeRemoteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var host, repoPath string
	if !strings.Contains(raw, "://") {
		// scp-like syntax: [user@]host:path
		at := strings.LastIndex(raw, "@")
		colon := strings.Index(raw, ":")
		if colon < 0 || colon < at {
			return ""
		}
		host = raw[at+1 : colon]
		repoPath = raw[colon+1:]
	} else {
		u, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		switch u.Scheme {
		case "http", "https", "ssh", "git", "git+ssh":
		default:
			return ""
		}
		host = u.Hostname()
		repoPath = u.Path
	}

	repoPath = strings.Trim(repoPath, "/")
	repoPath = strings.TrimSuffix(repoPath, ".git")
	if host == "" || repoPath == "" {
		return ""
	}
	return "https://" + host + "/" + repoPath
}
