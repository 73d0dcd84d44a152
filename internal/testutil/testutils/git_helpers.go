package helpers

import (
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
)

// InitRepoWithOrigin initializes a git repository in a temp directory whose "origin"
// remote points at originURL. An empty originURL creates no remote.
func InitRepoWithOrigin(t *testing.T, originURL string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to initialize git repo: %v", err)
	}
	if originURL == "" {
		return dir
	}
	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{originURL}}); err != nil {
		t.Fatalf("failed to create origin remote: %v", err)
	}
	return dir
}
