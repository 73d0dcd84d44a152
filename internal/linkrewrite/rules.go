package linkrewrite

import (
	"errors"
	"fmt"
	"strings"
)

// Rule names accepted in configuration.
const (
	RuleRepoRoot         = "repo-root"
	RuleIncludedRelative = "included-relative"
	RuleLegacyParent     = "legacy-parent"
)

// DefaultBranch is the branch used in repository tree URLs when none is configured.
const DefaultBranch = "master"

var (
	ErrUnknownRule    = errors.New("unknown link rewrite rule")
	ErrMissingRepoURL = errors.New("repository URL required")
)

// Config is the fixed configuration shared by the repository rules.
type Config struct {
	RepoURL string
	Branch  string
}

func (c Config) treeURL() string {
	branch := c.Branch
	if branch == "" {
		branch = DefaultBranch
	}
	return c.RepoURL + "/tree/" + branch
}

// RepoRoot rewrites site-root links ("/guide/x") to the repository tree:
// "<repo>/tree/<branch>/guide/x".
func RepoRoot(cfg Config) Rule {
	tree := cfg.treeURL()
	return Rule{
		Name:      RuleRepoRoot,
		Match:     func(link string) bool { return strings.HasPrefix(link, "/") },
		Transform: func(link string) string { return tree + link },
	}
}

// IncludedRelative reduces relative links coming from transcluded files to their fragment:
// "../other.md#section" becomes "#section". Links without a fragment are kept.
func IncludedRelative() Rule {
	return Rule{
		Name:  RuleIncludedRelative,
		Match: func(link string) bool { return strings.HasPrefix(link, ".") },
		Transform: func(link string) string {
			if i := strings.IndexByte(link, '#'); i > 0 {
				return link[i:]
			}
			return link
		},
	}
}

// LegacyParent rewrites parent-relative links to the repository tree, dropping every
// "../" segment: "../../src/Foo.java" becomes "<repo>/tree/<branch>/src/Foo.java".
func LegacyParent(cfg Config) Rule {
	tree := cfg.treeURL()
	return Rule{
		Name:      RuleLegacyParent,
		Match:     func(link string) bool { return strings.HasPrefix(link, "../") },
		Transform: func(link string) string { return tree + "/" + strings.ReplaceAll(link, "../", "") },
	}
}

// PageRules is the rule set applied to site pages.
func PageRules(cfg Config) *Rewriter {
	return New(RepoRoot(cfg), IncludedRelative())
}

// RepositoryRules is the rule set that only redirects site-root links to the repository.
func RepositoryRules(cfg Config) *Rewriter {
	return New(RepoRoot(cfg))
}

// FromNames builds a Rewriter from configured rule names, in order.
func FromNames(names []string, cfg Config) (*Rewriter, error) {
	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		switch strings.TrimSpace(name) {
		case RuleRepoRoot:
			if cfg.RepoURL == "" {
				return nil, fmt.Errorf("%w for rule %s", ErrMissingRepoURL, name)
			}
			rules = append(rules, RepoRoot(cfg))
		case RuleLegacyParent:
			if cfg.RepoURL == "" {
				return nil, fmt.Errorf("%w for rule %s", ErrMissingRepoURL, name)
			}
			rules = append(rules, LegacyParent(cfg))
		case RuleIncludedRelative:
			rules = append(rules, IncludedRelative())
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
		}
	}
	return New(rules...), nil
}

// KnownRules lists the accepted rule names.
func KnownRules() []string {
	return []string{RuleRepoRoot, RuleIncludedRelative, RuleLegacyParent}
}

// NeedsRepoURL reports whether a rule depends on the repository URL.
func NeedsRepoURL(name string) bool {
	return name == RuleRepoRoot || name == RuleLegacyParent
}
