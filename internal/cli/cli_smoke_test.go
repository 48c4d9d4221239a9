package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: plantdeck %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func dataMap(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object; got: %#v", env["data"])
	}
	return m
}

func dataID(t *testing.T, env map[string]any) string {
	t.Helper()
	id, _ := dataMap(t, env)["id"].(string)
	if id == "" {
		t.Fatalf("expected data.id; got: %#v", env["data"])
	}
	return id
}

func TestCLISmoke(t *testing.T) {
	dir := t.TempDir()

	// Init isolated store (no ~/.plantdeck config should be touched with --dir).
	mustRun(t, "--dir", dir, "init")

	ident := mustRun(t, "--dir", dir, "identity", "create", "--name", "Smoke Human", "--kind", "human", "--use")
	humanID := dataID(t, ident)

	fac := mustRun(t, "--dir", dir, "--actor", humanID, "facilities", "create", "--name", "North Plant", "--site", "Oslo", "--use")
	facilityID := dataID(t, fac)

	line := mustRun(t, "--dir", dir, "--actor", humanID, "lines", "create", "--name", "Packaging", "--facility", facilityID)
	lineID := dataID(t, line)

	// Three machines, created in order A, B, C.
	a := dataID(t, mustRun(t, "--dir", dir, "--actor", humanID, "equipment", "create", "--line", lineID, "--name", "Machine A", "--kind", "filler"))
	b := dataID(t, mustRun(t, "--dir", dir, "--actor", humanID, "equipment", "create", "--line", lineID, "--name", "Machine B", "--critical"))
	c := dataID(t, mustRun(t, "--dir", dir, "--actor", humanID, "equipment", "create", "--line", lineID, "--name", "Machine C"))

	assertLineOrder := func(want ...string) {
		t.Helper()
		env := mustRun(t, "--dir", dir, "equipment", "list", "--line", lineID)
		rows, ok := env["data"].([]any)
		if !ok || len(rows) != len(want) {
			t.Fatalf("expected %d rows; got: %#v", len(want), env["data"])
		}
		for i, wantID := range want {
			row := rows[i].(map[string]any)
			if row["id"] != wantID {
				t.Fatalf("row %d = %v, want %s", i, row["id"], wantID)
			}
		}
	}
	assertLineOrder(a, b, c)

	// Reorder: move A after C, then back before B.
	mustRun(t, "--dir", dir, "--actor", humanID, "equipment", "move", a, "--after", c)
	assertLineOrder(b, c, a)
	mustRun(t, "--dir", dir, "--actor", humanID, "equipment", "move", a, "--before", b)
	assertLineOrder(a, b, c)

	// Status changes: down requires a note.
	if _, _, err := runCLI(t, []string{"--dir", dir, "--actor", humanID, "equipment", "set-status", b, "--status", "down"}); err == nil {
		t.Fatalf("expected set-status down without note to fail")
	}
	mustRun(t, "--dir", dir, "--actor", humanID, "equipment", "set-status", b, "--status", "down", "--note", "belt snapped")

	// Work order lifecycle.
	wo := dataID(t, mustRun(t, "--dir", dir, "--actor", humanID, "workorders", "create", "--equipment", b, "--title", "Replace belt", "--priority", "--due", "2026-09-15"))
	mustRun(t, "--dir", dir, "--actor", humanID, "workorders", "start", wo)
	if _, _, err := runCLI(t, []string{"--dir", dir, "--actor", humanID, "workorders", "start", wo}); err != nil {
		t.Fatalf("restarting an in_progress order should be a no-op: %v", err)
	}
	done := mustRun(t, "--dir", dir, "--actor", humanID, "workorders", "complete", wo)
	if got := dataMap(t, done)["status"]; got != "done" {
		t.Fatalf("status = %v, want done", got)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "--actor", humanID, "workorders", "reopen", wo}); err == nil {
		t.Fatalf("done is terminal; reopen should fail")
	}

	// Inspections.
	mustRun(t, "--dir", dir, "--actor", humanID, "inspections", "record", "--equipment", b, "--checkpoint", "torque", "--result", "fail", "--measured", "12 Nm")
	insp := mustRun(t, "--dir", dir, "inspections", "list", "--equipment", b)
	if rows, ok := insp["data"].([]any); !ok || len(rows) != 1 {
		t.Fatalf("expected one inspection; got: %#v", insp["data"])
	}

	// Equipment show bundles related records.
	show := mustRun(t, "--dir", dir, "equipment", "show", b)
	d := dataMap(t, show)
	if _, ok := d["equipment"].(map[string]any); !ok {
		t.Fatalf("expected equipment object in show; got: %#v", d)
	}
	if wos, ok := d["workOrders"].([]any); !ok || len(wos) != 1 {
		t.Fatalf("expected one work order in show; got: %#v", d["workOrders"])
	}

	// Events were appended along the way.
	evs := mustRun(t, "--dir", dir, "events", "list", "--limit", "0")
	if rows, ok := evs["data"].([]any); !ok || len(rows) < 8 {
		t.Fatalf("expected a populated event log; got: %#v", evs["data"])
	}
	byEntity := mustRun(t, "--dir", dir, "events", "list", "--entity", b, "--limit", "0")
	if rows, ok := byEntity["data"].([]any); !ok || len(rows) == 0 {
		t.Fatalf("expected events for %s; got: %#v", b, byEntity["data"])
	}

	// Status summary.
	status := mustRun(t, "--dir", dir, "status")
	sd := dataMap(t, status)
	if sd["equipment"] != float64(3) || sd["workOrders"] != float64(1) {
		t.Fatalf("unexpected status counts: %#v", sd)
	}
}

func TestCLIArchiveHidesFromLineOrder(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "init")
	humanID := dataID(t, mustRun(t, "--dir", dir, "identity", "create", "--name", "H", "--use"))
	facilityID := dataID(t, mustRun(t, "--dir", dir, "--actor", humanID, "facilities", "create", "--name", "F"))
	lineID := dataID(t, mustRun(t, "--dir", dir, "--actor", humanID, "lines", "create", "--name", "L", "--facility", facilityID))
	a := dataID(t, mustRun(t, "--dir", dir, "--actor", humanID, "equipment", "create", "--line", lineID, "--name", "A"))
	b := dataID(t, mustRun(t, "--dir", dir, "--actor", humanID, "equipment", "create", "--line", lineID, "--name", "B"))

	mustRun(t, "--dir", dir, "--actor", humanID, "equipment", "archive", a)

	env := mustRun(t, "--dir", dir, "equipment", "list", "--line", lineID)
	rows, _ := env["data"].([]any)
	if len(rows) != 1 || rows[0].(map[string]any)["id"] != b {
		t.Fatalf("expected only %s after archive; got: %#v", b, env["data"])
	}

	all := mustRun(t, "--dir", dir, "equipment", "list", "--include-archived")
	if rows, _ := all["data"].([]any); len(rows) != 2 {
		t.Fatalf("expected both rows with --include-archived; got: %#v", all["data"])
	}
}
