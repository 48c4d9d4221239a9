package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// GlobalConfig lives in ~/.plantdeck/config.json and tracks which workspace
// is current across invocations.
type GlobalConfig struct {
	CurrentWorkspace string `json:"currentWorkspace,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.plantdeck).
	if v := strings.TrimSpace(os.Getenv("PLANTDECK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".plantdeck"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

var workspaceNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// NormalizeWorkspaceName lowercases and validates a workspace name so it is
// safe to use as a directory name under ~/.plantdeck/workspaces.
func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", errors.New("empty workspace name")
	}
	if !workspaceNameRe.MatchString(name) {
		return "", fmt.Errorf("invalid workspace name: %q", name)
	}
	return name, nil
}
