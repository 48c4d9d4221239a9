// Package gitrepo shells out to git for workspace snapshot syncing. It is
// best-effort: a workspace outside any git repository is not an error.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type Status struct {
	IsRepo bool   `json:"isRepo"`
	Root   string `json:"root,omitempty"`

	Branch   string `json:"branch,omitempty"`
	Upstream string `json:"upstream,omitempty"`
	Head     string `json:"head,omitempty"`

	Dirty    bool `json:"dirty"`
	Unmerged bool `json:"unmerged"`

	// InProgress reports a merge/rebase/cherry-pick mid-flight; snapshot
	// commits are refused until it resolves.
	InProgress bool `json:"inProgress"`

	Ahead  int `json:"ahead,omitempty"`
	Behind int `json:"behind,omitempty"`
}

func GetStatus(ctx context.Context, dir string) (Status, error) {
	root, err := runGit(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		// "not a git repository" is common; treat as non-repo rather than error.
		return Status{IsRepo: false}, nil
	}
	root = strings.TrimSpace(root)

	branch, _ := runGit(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	head, _ := runGit(ctx, dir, "rev-parse", "--short", "HEAD")
	upstream, _ := runGit(ctx, dir, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")

	porcelain, _ := runGit(ctx, dir, "status", "--porcelain=v1")
	dirty, unmerged := parsePorcelain(porcelain)

	inProgress := false
	for _, ref := range []string{"MERGE_HEAD", "REBASE_HEAD", "CHERRY_PICK_HEAD", "REVERT_HEAD"} {
		if gitRefExists(ctx, dir, ref) {
			inProgress = true
			break
		}
	}

	ahead, behind := 0, 0
	if strings.TrimSpace(upstream) != "" {
		if counts, err := runGit(ctx, dir, "rev-list", "--left-right", "--count", "HEAD...@{u}"); err == nil {
			if a, b, ok := parseAheadBehind(counts); ok {
				ahead, behind = a, b
			}
		}
	}

	return Status{
		IsRepo:     true,
		Root:       root,
		Branch:     strings.TrimSpace(branch),
		Upstream:   strings.TrimSpace(upstream),
		Head:       strings.TrimSpace(head),
		Dirty:      dirty,
		Unmerged:   unmerged,
		InProgress: inProgress,
		Ahead:      ahead,
		Behind:     behind,
	}, nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}

func gitRefExists(ctx context.Context, dir string, ref string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--verify", "-q", ref)
	cmd.Dir = dir
	return cmd.Run() == nil
}

func parsePorcelain(out string) (dirty bool, unmerged bool) {
	for _, ln := range strings.Split(out, "\n") {
		ln = strings.TrimRight(ln, "\r")
		if len(ln) < 2 {
			continue
		}
		xy := ln[:2]
		if strings.TrimSpace(xy) == "" {
			continue
		}
		dirty = true
		if isUnmergedXY(xy) {
			unmerged = true
		}
	}
	return dirty, unmerged
}

func isUnmergedXY(xy string) bool {
	if len(xy) != 2 {
		return false
	}
	switch xy {
	case "DD", "AA":
		return true
	}
	return xy[0] == 'U' || xy[1] == 'U'
}

func parseAheadBehind(out string) (ahead int, behind int, ok bool) {
	// git rev-list --left-right --count HEAD...@{u} => "<ahead>\t<behind>"
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(fields[0])
	b, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}
