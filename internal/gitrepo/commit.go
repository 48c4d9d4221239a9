package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// CommitSnapshot stages the given workspace-relative paths and commits them.
// The derived SQLite index is deliberately never staged; callers pass the
// canonical snapshot files only. Returns committed=false when there is
// nothing to commit.
func CommitSnapshot(ctx context.Context, workspaceDir string, relPaths []string, message string) (committed bool, err error) {
	workspaceDir = filepath.Clean(workspaceDir)

	st, err := GetStatus(ctx, workspaceDir)
	if err != nil {
		return false, err
	}
	if !st.IsRepo {
		return false, nil
	}
	if st.Unmerged || st.InProgress {
		return false, errors.New("git repo has an in-progress merge/rebase; resolve first")
	}

	if len(relPaths) == 0 {
		return false, nil
	}
	args := append([]string{"add", "--"}, relPaths...)
	if _, err := runGit(ctx, workspaceDir, args...); err != nil {
		return false, err
	}

	// Commit only if something is actually staged.
	staged, err := runGit(ctx, workspaceDir, "diff", "--cached", "--name-only")
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(staged) == "" {
		return false, nil
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = fmt.Sprintf("plantdeck: snapshot (%s)", time.Now().UTC().Format(time.RFC3339))
	}
	if _, err := runGit(ctx, workspaceDir, "commit", "-m", msg); err != nil {
		return false, err
	}
	return true, nil
}

func PullRebase(ctx context.Context, dir string) error {
	_, err := runGit(ctx, dir, "pull", "--rebase")
	return err
}

func Push(ctx context.Context, dir string) error {
	_, err := runGit(ctx, dir, "push")
	return err
}

// IsNonFastForwardPushErr classifies push failures that a pull --rebase
// retry can fix.
func IsNonFastForwardPushErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, needle := range []string{
		"non-fast-forward",
		"fetch first",
		"updates were rejected",
	} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
