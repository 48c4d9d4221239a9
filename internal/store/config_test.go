package store

import (
	"path/filepath"
	"testing"
)

func TestConfig_SaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("PLANTDECK_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load missing config: %v", err)
	}
	if cfg.CurrentWorkspace != "" {
		t.Fatalf("fresh config should be empty, got %+v", cfg)
	}

	cfg.CurrentWorkspace = "north-plant"
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CurrentWorkspace != "north-plant" {
		t.Fatalf("CurrentWorkspace = %q, want north-plant", got.CurrentWorkspace)
	}
}

func TestWorkspaceDir_UsesConfigDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("PLANTDECK_CONFIG_DIR", base)

	dir, err := WorkspaceDir("North-Plant")
	if err != nil {
		t.Fatalf("workspace dir: %v", err)
	}
	want := filepath.Join(base, "workspaces", "north-plant")
	if dir != want {
		t.Fatalf("dir = %q, want %q", dir, want)
	}
}

func TestNormalizeWorkspaceName(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Plant-1", "plant-1", true},
		{"  oslo.north  ", "oslo.north", true},
		{"a_b", "a_b", true},
		{"", "", false},
		{"-leading", "", false},
		{"has space", "", false},
		{"sl/ash", "", false},
	}
	for _, c := range cases {
		got, err := NormalizeWorkspaceName(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Fatalf("NormalizeWorkspaceName(%q) = %q, %v; want %q", c.in, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Fatalf("NormalizeWorkspaceName(%q) should fail", c.in)
		}
	}
}
