package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestGetStatus_NonRepo(t *testing.T) {
	st, err := GetStatus(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.IsRepo {
		t.Fatalf("expected non-repo status")
	}
}

func TestGetStatus_DirtyRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	ctx := context.Background()
	repo := t.TempDir()

	run(t, repo, "git", "init")
	run(t, repo, "git", "config", "user.email", "test@example.com")
	run(t, repo, "git", "config", "user.name", "Test")

	writeFile(t, filepath.Join(repo, "state.json"), "{}\n")
	run(t, repo, "git", "add", ".")
	run(t, repo, "git", "commit", "-m", "base")

	st, err := GetStatus(ctx, repo)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !st.IsRepo || st.Dirty || st.Unmerged {
		t.Fatalf("unexpected clean status: %+v", st)
	}

	writeFile(t, filepath.Join(repo, "state.json"), "{\"v\":1}\n")
	st, err = GetStatus(ctx, repo)
	if err != nil {
		t.Fatalf("GetStatus (dirty): %v", err)
	}
	if !st.Dirty {
		t.Fatalf("expected dirty=true: %+v", st)
	}
}

func TestCommitSnapshot_CommitsOnlyWhenChanged(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	ctx := context.Background()
	repo := t.TempDir()

	run(t, repo, "git", "init")
	run(t, repo, "git", "config", "user.email", "test@example.com")
	run(t, repo, "git", "config", "user.name", "Test")
	writeFile(t, filepath.Join(repo, "state.json"), "{}\n")

	committed, err := CommitSnapshot(ctx, repo, []string{"state.json"}, "snapshot")
	if err != nil {
		t.Fatalf("CommitSnapshot: %v", err)
	}
	if !committed {
		t.Fatal("expected first snapshot to commit")
	}

	// Unchanged snapshot: nothing staged, nothing committed.
	committed, err = CommitSnapshot(ctx, repo, []string{"state.json"}, "snapshot")
	if err != nil {
		t.Fatalf("CommitSnapshot (unchanged): %v", err)
	}
	if committed {
		t.Fatal("expected unchanged snapshot to be a no-op")
	}
}

func TestParsePorcelain(t *testing.T) {
	dirty, unmerged := parsePorcelain("")
	if dirty || unmerged {
		t.Fatal("empty porcelain should be clean")
	}

	dirty, unmerged = parsePorcelain(" M state.json\n?? junk\n")
	if !dirty || unmerged {
		t.Fatalf("dirty=%v unmerged=%v", dirty, unmerged)
	}

	dirty, unmerged = parsePorcelain("UU state.json\n")
	if !dirty || !unmerged {
		t.Fatalf("dirty=%v unmerged=%v", dirty, unmerged)
	}
}

func TestParseAheadBehind(t *testing.T) {
	a, b, ok := parseAheadBehind("2\t5\n")
	if !ok || a != 2 || b != 5 {
		t.Fatalf("a=%d b=%d ok=%v", a, b, ok)
	}
	if _, _, ok := parseAheadBehind("garbage"); ok {
		t.Fatal("expected parse failure")
	}
}

func run(t *testing.T, dir string, bin string, args ...string) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%s %v: %v\n%s", bin, args, err, string(out))
	}
}

func writeFile(t *testing.T, path string, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
