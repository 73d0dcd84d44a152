package linkrewrite

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestRewriteProperties(t *testing.T) {
	r := PageRules(Config{RepoURL: repo})

	t.Run("links without a known prefix are untouched", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			s := rapid.String().Filter(func(s string) bool {
				return !strings.HasPrefix(s, "/") && !strings.HasPrefix(s, ".")
			}).Draw(t, "link")
			if got := r.Rewrite(s, nil); got != s {
				t.Fatalf("Rewrite(%q) = %q, want unchanged", s, got)
			}
		})
	})

	t.Run("site root links are prefixed with the repository tree", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			s := "/" + rapid.String().Draw(t, "rest")
			want := repo + "/tree/master" + s
			if got := r.Rewrite(s, nil); got != want {
				t.Fatalf("Rewrite(%q) = %q, want %q", s, got, want)
			}
		})
	})

	t.Run("relative links collapse to their first fragment", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			s := "." + rapid.String().Draw(t, "rest")
			got := r.Rewrite(s, nil)
			if i := strings.IndexByte(s, '#'); i > 0 {
				if got != s[i:] {
					t.Fatalf("Rewrite(%q) = %q, want %q", s, got, s[i:])
				}
				return
			}
			if got != s {
				t.Fatalf("Rewrite(%q) = %q, want unchanged", s, got)
			}
		})
	})

	t.Run("rewriting is stable after one pass for repo links", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			s := "/" + rapid.String().Draw(t, "rest")
			once := r.Rewrite(s, nil)
			if twice := r.Rewrite(once, nil); twice != once {
				t.Fatalf("second pass changed %q to %q", once, twice)
			}
		})
	})
}
